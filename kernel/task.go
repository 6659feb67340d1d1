package kernel

import (
	"runtime"
	"sync/atomic"
)

// Task 调度优先级原语. SetPriority只会在任务自己的goroutine上调用
type Task interface {
	SetPriority(prio int)
	Priority() int
}

// ThreadTask Go调度器没有优先级, 这里记录优先级,
// 优先级达到lockAt时把goroutine锁到独占的系统线程上
type ThreadTask struct {
	prio   atomic.Int32
	lockAt int
	locked atomic.Bool
}

func NewThreadTask(initial, lockAt int) *ThreadTask {
	t := &ThreadTask{lockAt: lockAt}
	t.prio.Store(int32(initial))
	return t
}

func (t *ThreadTask) SetPriority(prio int) {
	t.prio.Store(int32(prio))
	switch {
	case prio >= t.lockAt && !t.locked.Load():
		runtime.LockOSThread()
		t.locked.Store(true)
	case prio < t.lockAt && t.locked.Load():
		runtime.UnlockOSThread()
		t.locked.Store(false)
	}
}

func (t *ThreadTask) Priority() int {
	return int(t.prio.Load())
}

func (t *ThreadTask) Locked() bool {
	return t.locked.Load()
}
