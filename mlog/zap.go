package mlog

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type zapLogger struct {
	s *zap.SugaredLogger
}

// NewZapLogger 把zap.Logger适配成mlog.Logger, trace并入debug, notice并入info
func NewZapLogger(z *zap.Logger) Logger {
	return &zapLogger{s: z.WithOptions(zap.AddCallerSkip(2)).Sugar()}
}

func (l *zapLogger) Tracef(format string, v ...any)  { l.s.Debugf(format, v...) }
func (l *zapLogger) Debugf(format string, v ...any)  { l.s.Debugf(format, v...) }
func (l *zapLogger) Infof(format string, v ...any)   { l.s.Infof(format, v...) }
func (l *zapLogger) Noticef(format string, v ...any) { l.s.Infof(format, v...) }
func (l *zapLogger) Warnf(format string, v ...any)   { l.s.Warnf(format, v...) }
func (l *zapLogger) Errorf(format string, v ...any)  { l.s.Errorf(format, v...) }
func (l *zapLogger) Fatalf(format string, v ...any)  { l.s.Fatalf(format, v...) }

func zapLevel(level Level) zapcore.Level {
	switch level {
	case FatalLevel:
		return zapcore.FatalLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	case WarnLevel:
		return zapcore.WarnLevel
	case NoticeLevel, InfoLevel:
		return zapcore.InfoLevel
	}
	return zapcore.DebugLevel
}

type FileOptions struct {
	Path       string
	Name       string
	Level      Level
	StdOut     bool
	MaxSizeMB  int
	MaxBackups int
}

// NewRotatingCore 日志文件按大小切割, 默认100MB
func NewRotatingCore(opts FileOptions) zapcore.Core {
	if len(opts.Path) == 0 {
		opts.Path = "."
	}
	if opts.Name == "" {
		opts.Name = "mlog"
	}
	if opts.MaxSizeMB <= 0 {
		opts.MaxSizeMB = 100
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	enc := zapcore.NewConsoleEncoder(encCfg)
	lvl := zapLevel(opts.Level)

	sink := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(opts.Path, opts.Name+".log"),
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
	})
	core := zapcore.NewCore(enc, sink, lvl)
	if opts.StdOut {
		core = zapcore.NewTee(core, zapcore.NewCore(enc, zapcore.Lock(os.Stdout), lvl))
	}
	return core
}

func UseFileLogger(opts FileOptions) *zap.Logger {
	z := zap.New(NewRotatingCore(opts), zap.AddCaller())
	SetLogger(NewZapLogger(z))
	return z
}
