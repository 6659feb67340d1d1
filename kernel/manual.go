package kernel

import (
	"sync"
)

// ManualClock 只有调用Advance/Set时才走动, 用于确定性测试
type ManualClock struct {
	mu      sync.Mutex
	now     uint64
	waiters map[*manualWaiter]struct{}
}

func NewManualClock(start uint64) *ManualClock {
	return &ManualClock{
		now:     start,
		waiters: make(map[*manualWaiter]struct{}),
	}
}

func (c *ManualClock) Now() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *ManualClock) WakeAt(at uint64) Waiter {
	c.mu.Lock()
	defer c.mu.Unlock()
	w := &manualWaiter{clock: c, at: at, ch: make(chan struct{}, 1)}
	if at <= c.now {
		w.ch <- struct{}{}
		return w
	}
	c.waiters[w] = struct{}{}
	return w
}

// Advance 前进n个tick, 唤醒所有到期的等待者
func (c *ManualClock) Advance(n Ticks) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += uint64(n)
	c.fireLocked()
	return c.now
}

func (c *ManualClock) Set(now uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
	c.fireLocked()
}

// Pending 尚未触发的等待者数量
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.waiters)
}

func (c *ManualClock) fireLocked() {
	for w := range c.waiters {
		if w.at <= c.now {
			delete(c.waiters, w)
			w.ch <- struct{}{}
		}
	}
}

type manualWaiter struct {
	clock *ManualClock
	at    uint64
	ch    chan struct{}
}

func (w *manualWaiter) C() <-chan struct{} { return w.ch }

func (w *manualWaiter) Stop() bool {
	w.clock.mu.Lock()
	defer w.clock.mu.Unlock()
	_, ok := w.clock.waiters[w]
	delete(w.clock.waiters, w)
	return ok
}
