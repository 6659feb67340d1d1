package mlog

import (
	"fmt"
	"log"
	"os"
)

type stdoutLogger struct {
	level Level
}

func newStdoutLogger(level Level) *stdoutLogger {
	log.SetFlags(log.Ldate | log.Lmicroseconds)
	return &stdoutLogger{level: level}
}

func (l *stdoutLogger) IsLevelEnabled(level Level) bool {
	return l.level >= level
}

func (l *stdoutLogger) Logf(level Level, format string, args ...any) {
	if l.IsLevelEnabled(level) {
		log.Println("[" + level.String() + "] " + fmt.Sprintf(format, args...))
	}
}

func (l *stdoutLogger) Tracef(format string, v ...any)  { l.Logf(TraceLevel, format, v...) }
func (l *stdoutLogger) Debugf(format string, v ...any)  { l.Logf(DebugLevel, format, v...) }
func (l *stdoutLogger) Infof(format string, v ...any)   { l.Logf(InfoLevel, format, v...) }
func (l *stdoutLogger) Noticef(format string, v ...any) { l.Logf(NoticeLevel, format, v...) }
func (l *stdoutLogger) Warnf(format string, v ...any)   { l.Logf(WarnLevel, format, v...) }
func (l *stdoutLogger) Errorf(format string, v ...any)  { l.Logf(ErrorLevel, format, v...) }

func (l *stdoutLogger) Fatalf(format string, v ...any) {
	l.Logf(FatalLevel, format, v...)
	os.Exit(1)
}
