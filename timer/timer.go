package timer

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/fixkme/swtimer/ds/slotpool"
	"github.com/fixkme/swtimer/kernel"
)

type Kind uint8

const (
	Once Kind = iota
	Periodic
)

func (k Kind) String() string {
	switch k {
	case Once:
		return "once"
	case Periodic:
		return "periodic"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Callback 在定时器线程上执行, 必须尽快返回
type Callback func(ctx any)

// 回调函数和上下文, 从引擎的记录池分配, 销毁定时器时归还
type record struct {
	fn    Callback
	ctx   any
	owned bool
}

// 释放后的记录被写成这个毒值
const freedMark uint32 = 0xDEADBEEF

var poisonRecord = record{ctx: freedMark}

const (
	stateArmed uint32 = 1 << iota
	stateExecuting
)

// Timer 定时器句柄. 除原子字段外的状态只由定时器线程读写
type Timer struct {
	eng  *Engine
	kind Kind
	name string
	seq  uint64
	ref  slotpool.Ref
	rec  *record

	period     kernel.Ticks
	base       uint64 // 最近一次启动的时刻
	expiry     uint64
	prev, next *Timer
	releasing  bool // 回调里销毁自己, 回调返回后再释放

	state      atomic.Uint32
	expiryView atomic.Uint64
	destroying atomic.Bool
	freed      atomic.Bool
}

func (t *Timer) Name() string { return t.name }
func (t *Timer) Kind() Kind   { return t.kind }

func (t *Timer) setState(bit uint32, on bool) {
	for {
		old := t.state.Load()
		v := old &^ bit
		if on {
			v = old | bit
		}
		if t.state.CompareAndSwap(old, v) {
			return
		}
	}
}

func (t *Timer) armed() bool {
	return t.state.Load()&stateArmed != 0
}

// 校验句柄并返回所属引擎
func (t *Timer) engine(op string, allowDestroying bool) *Engine {
	if t == nil || t.eng == nil {
		kernel.Panic(op + ": nil timer")
	}
	e := t.eng
	e.require(!e.irq.InIRQ(), op+": called from interrupt context")
	e.require(!t.freed.Load(), op+": timer already destroyed")
	e.require(allowDestroying || !t.destroying.Load(), op+": timer is being destroyed")
	return e
}

// Start 设置周期并从当前时刻启动, 到期时间为 now+ticks. 已启动的定时器同样从当前时刻重新计时
func (t *Timer) Start(ticks kernel.Ticks) error {
	e := t.engine("timer start", false)
	e.require(ticks < kernel.WaitForever, "timer start: ticks must be below WaitForever")
	return e.call(func() { e.arm(t, ticks) })
}

// Restart 改周期并重置计时, 效果与Start相同
func (t *Timer) Restart(ticks kernel.Ticks) error {
	e := t.engine("timer restart", false)
	e.require(ticks < kernel.WaitForever, "timer restart: ticks must be below WaitForever")
	return e.call(func() { e.arm(t, ticks) })
}

// Stop 停止定时器, 返回时本定时器的回调已不在执行. 重复停止无副作用.
// 队列满时等待空位而不是返回errs.Resource
func (t *Timer) Stop() error {
	return t.StopContext(context.Background())
}

// StopContext 同Stop, ctx用来限制等待回调结束的时间
func (t *Timer) StopContext(ctx context.Context) error {
	e := t.engine("timer stop", false)
	if err := e.submit(ctx, func() { e.disarm(t) }, true); err != nil {
		return err
	}
	return e.settle(ctx, t, stateExecuting)
}

// IsRunning 已启动或者回调正在执行
func (t *Timer) IsRunning() bool {
	t.engine("timer is_running", true)
	return t.state.Load() != 0
}

// Expiry 最近一次计算出的绝对到期tick
func (t *Timer) Expiry() uint64 {
	t.engine("timer get_expiry", true)
	return t.expiryView.Load()
}

// Destroy 停止并等待定时器静止后释放. 回调永不返回时会一直阻塞
func (t *Timer) Destroy() {
	err := t.DestroyContext(context.Background())
	t.eng.require(err == nil, fmt.Sprintf("timer destroy: %v", err))
}

// DestroyContext ctx到期时返回errs.Timeout, 定时器保持已停止未释放, 可以再次调用
func (t *Timer) DestroyContext(ctx context.Context) error {
	e := t.engine("timer destroy", true)
	t.destroying.Store(true)
	if err := e.submit(ctx, func() { e.disarm(t) }, true); err != nil {
		return err
	}
	if err := e.settle(ctx, t, stateArmed|stateExecuting); err != nil {
		return err
	}
	return e.callWait(func() { e.release(t) })
}
