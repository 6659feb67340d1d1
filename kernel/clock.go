package kernel

import (
	"math"
	"time"
)

// Ticks 相对时长, 单位是系统tick
type Ticks uint32

// WaitForever 无限等待的编码, 合法周期必须小于它
const WaitForever Ticks = math.MaxUint32

// Clock tick源. Now返回单调递增的绝对tick数
type Clock interface {
	Now() uint64
	WakeAt(at uint64) Waiter
}

// Waiter 到达绝对时刻后C可读, Stop后不再触发
type Waiter interface {
	C() <-chan struct{}
	Stop() bool
}

type SystemClock struct {
	tick time.Duration
	boot time.Time
}

// NewSystemClock tick<=0时使用1ms
func NewSystemClock(tick time.Duration) *SystemClock {
	if tick <= 0 {
		tick = time.Millisecond
	}
	return &SystemClock{tick: tick, boot: time.Now()}
}

func (c *SystemClock) Now() uint64 {
	return uint64(time.Since(c.boot) / c.tick)
}

func (c *SystemClock) TickDuration() time.Duration {
	return c.tick
}

func (c *SystemClock) WakeAt(at uint64) Waiter {
	w := &sysWaiter{ch: make(chan struct{}, 1)}
	deadline := c.boot.Add(time.Duration(at) * c.tick)
	w.t = time.AfterFunc(time.Until(deadline), func() {
		select {
		case w.ch <- struct{}{}:
		default:
		}
	})
	return w
}

type sysWaiter struct {
	t  *time.Timer
	ch chan struct{}
}

func (w *sysWaiter) C() <-chan struct{} { return w.ch }
func (w *sysWaiter) Stop() bool         { return w.t.Stop() }

// TicksFromDuration 向上取整
func (c *SystemClock) TicksFromDuration(d time.Duration) Ticks {
	if d <= 0 {
		return 0
	}
	n := (d + c.tick - 1) / c.tick
	if n >= time.Duration(WaitForever) {
		return WaitForever - 1
	}
	return Ticks(n)
}
