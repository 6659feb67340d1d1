package timerfx

import (
	"context"

	"github.com/fixkme/swtimer/framework/config"
	"github.com/fixkme/swtimer/kernel"
	"github.com/fixkme/swtimer/mlog"
	"github.com/fixkme/swtimer/timer"
	"go.uber.org/fx"
)

func provideEngine(conf *config.AppConfig, clock kernel.Clock, lc fx.Lifecycle) (*timer.Engine, error) {
	if conf == nil {
		conf = config.Default()
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	opts := []timer.Option{timer.WithConfig(conf.TimerConfig)}
	if clock != nil {
		opts = append(opts, timer.WithClock(clock))
	}
	e := timer.New(opts...)
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			e.Start()
			return nil
		},
		OnStop: func(context.Context) error {
			return e.Close()
		},
	})
	return e, nil
}

// installLogger 配置了日志路径时写文件, 否则输出到标准输出
func installLogger(conf *config.AppConfig, lc fx.Lifecycle) {
	if conf == nil || mlog.GetLogger() != nil {
		return
	}
	if len(conf.LogPath) == 0 {
		mlog.UseStdLogger(mlog.Level(conf.LogLevel))
		return
	}
	z := mlog.UseFileLogger(mlog.FileOptions{
		Path:   conf.LogPath,
		Name:   conf.LogName,
		Level:  mlog.Level(conf.LogLevel),
		StdOut: conf.LogStdOut,
	})
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			z.Sync()
			return nil
		},
	})
}

// Provide 从可选的*config.AppConfig和kernel.Clock构建*timer.Engine,
// 随fx应用启动定时器线程, 停止时关闭.
// 没有提供配置时使用config.Default(), 没有提供时钟时使用系统时钟
func Provide() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				provideEngine,
				fx.ParamTags(`optional:"true"`, `optional:"true"`),
			),
		),
		fx.Invoke(
			fx.Annotate(
				installLogger,
				fx.ParamTags(`optional:"true"`),
			),
		),
	)
}
