package mlog

import (
	"sync/atomic"
)

type Logger interface {
	Tracef(format string, v ...any)
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Noticef(format string, v ...any)
	Warnf(format string, v ...any)
	Errorf(format string, v ...any)
	Fatalf(format string, v ...any)
}

type Level uint32

const (
	FatalLevel Level = iota
	ErrorLevel
	WarnLevel
	NoticeLevel
	InfoLevel
	DebugLevel
	TraceLevel
)

func (l Level) String() string {
	switch l {
	case FatalLevel:
		return "fatal"
	case ErrorLevel:
		return "error"
	case WarnLevel:
		return "warn"
	case NoticeLevel:
		return "notice"
	case InfoLevel:
		return "info"
	case DebugLevel:
		return "debug"
	case TraceLevel:
		return "trace"
	}
	return "unknown"
}

type holder struct {
	l Logger
}

// 定时器线程和调用方并发写日志, 用原子指针替换
var logger atomic.Pointer[holder]

func SetLogger(l Logger) {
	if l == nil {
		logger.Store(nil)
		return
	}
	logger.Store(&holder{l: l})
}

func GetLogger() Logger {
	if h := logger.Load(); h != nil {
		return h.l
	}
	return nil
}

func UseStdLogger(level Level) {
	SetLogger(newStdoutLogger(level))
}

func Tracef(format string, a ...any) {
	if l := GetLogger(); l != nil {
		l.Tracef(format, a...)
	}
}

func Debugf(format string, a ...any) {
	if l := GetLogger(); l != nil {
		l.Debugf(format, a...)
	}
}

func Infof(format string, a ...any) {
	if l := GetLogger(); l != nil {
		l.Infof(format, a...)
	}
}

func Noticef(format string, a ...any) {
	if l := GetLogger(); l != nil {
		l.Noticef(format, a...)
	}
}

func Warnf(format string, a ...any) {
	if l := GetLogger(); l != nil {
		l.Warnf(format, a...)
	}
}

func Errorf(format string, a ...any) {
	if l := GetLogger(); l != nil {
		l.Errorf(format, a...)
	}
}

func Fatalf(format string, a ...any) {
	if l := GetLogger(); l != nil {
		l.Fatalf(format, a...)
	}
}
