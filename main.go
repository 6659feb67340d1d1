package main

import (
	"flag"
	"os"
	"time"

	"github.com/fixkme/swtimer/framework/config"
	"github.com/fixkme/swtimer/kernel"
	"github.com/fixkme/swtimer/mlog"
	"github.com/fixkme/swtimer/timer"
	"github.com/fixkme/swtimer/timerfx"
	"go.uber.org/fx"
)

// heartbeat 周期打印引擎状态, 每隔几次把一次统计工作交给定时器线程
func heartbeat(e *timer.Engine, lc fx.Lifecycle) error {
	period := kernel.NewSystemClock(config.Config.Tick()).TicksFromDuration(time.Second)
	var beats uint32
	t, err := e.Create(func(any) {
		beats++
		if beats%5 == 0 {
			e.Pend(func(_ any, n uint32) {
				st, _ := e.Stats()
				mlog.Infof("heartbeat %d stats %+v", n, st)
			}, nil, beats)
			return
		}
		mlog.Debugf("heartbeat %d from %s", beats, e.CurrentName())
	}, timer.Periodic, nil)
	if err != nil {
		return err
	}
	lc.Append(fx.StartHook(func() error {
		return t.Start(period)
	}))
	lc.Append(fx.StopHook(func() {
		t.Destroy()
	}))
	return nil
}

func main() {
	configFile := flag.String("config", "", "json config file")
	flag.Parse()

	if err := config.LoadConfig(*configFile, config.FromEnv("SWTIMER_")); err != nil {
		mlog.UseStdLogger(mlog.ErrorLevel)
		mlog.Errorf("load config: %v", err)
		os.Exit(1)
	}

	fx.New(
		fx.NopLogger,
		fx.Supply(config.Config),
		timerfx.Provide(),
		fx.Invoke(heartbeat),
	).Run()
}
