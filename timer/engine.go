package timer

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/armon/go-radix"
	"github.com/fixkme/swtimer/ds/slotpool"
	"github.com/fixkme/swtimer/errs"
	"github.com/fixkme/swtimer/framework/config"
	"github.com/fixkme/swtimer/kernel"
	"github.com/fixkme/swtimer/mlog"
	"github.com/rs/xid"
)

// Engine 软件定时器服务. 所有定时器状态由一个goroutine(定时器线程)独占,
// 调用方把命令投递到inbox后阻塞等待执行完成
type Engine struct {
	id    xid.ID
	conf  config.TimerConfig
	clock kernel.Clock
	irq   kernel.IRQ
	ident kernel.Identity
	task  kernel.Task
	crash kernel.CrashFunc

	inbox     chan func()
	quit      chan struct{}
	stopped   chan struct{}
	started   atomic.Bool
	closed    atomic.Bool
	startOnce sync.Once
	closeOnce sync.Once
	workerID  atomic.Int64
	current   atomic.Pointer[string]

	// 以下只在定时器线程访问
	armed    *timerList
	pool     *slotpool.Pool[record]
	names    *radix.Tree
	seq      uint64
	deferred []func()
	wake     kernel.Waiter
	wakeAt   uint64

	live       atomic.Int64
	dispatched atomic.Uint64
	pended     atomic.Uint64
}

type Option func(*Engine)

func WithConfig(conf config.TimerConfig) Option {
	return func(e *Engine) { e.conf = conf }
}

func WithClock(c kernel.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

func WithIRQ(irq kernel.IRQ) Option {
	return func(e *Engine) { e.irq = irq }
}

func WithIdentity(ident kernel.Identity) Option {
	return func(e *Engine) { e.ident = ident }
}

func WithTask(task kernel.Task) Option {
	return func(e *Engine) { e.task = task }
}

func WithCrash(crash kernel.CrashFunc) Option {
	return func(e *Engine) { e.crash = crash }
}

func New(opts ...Option) *Engine {
	e := &Engine{
		id:   xid.New(),
		conf: config.Default().TimerConfig,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.conf.InboxSize < 1 {
		e.conf.InboxSize = 1
	}
	if e.clock == nil {
		e.clock = kernel.NewSystemClock(e.conf.Tick())
	}
	if e.irq == nil {
		e.irq = kernel.DefaultIRQ
	}
	if e.ident == nil {
		e.ident = kernel.DefaultIdentity
	}
	if e.task == nil {
		e.task = kernel.NewThreadTask(e.conf.NormalPriority, e.conf.ElevatedPriority)
	}
	if e.crash == nil {
		e.crash = kernel.CrashByName(e.conf.Crash)
	}
	e.inbox = make(chan func(), e.conf.InboxSize)
	e.quit = make(chan struct{})
	e.stopped = make(chan struct{})
	e.armed = newTimerList()
	e.pool = slotpool.New(e.conf.PoolSize, poisonRecord)
	e.names = radix.New()
	return e
}

func (e *Engine) ID() string {
	return e.id.String()
}

// require 违反约定时crash, crash函数返回了也不再继续执行
func (e *Engine) require(cond bool, reason string) {
	if cond {
		return
	}
	e.crash(reason)
	panic(errs.Contract.Printf("%s", reason))
}

// Start 启动定时器线程, 返回时线程已经在运行
func (e *Engine) Start() {
	e.startOnce.Do(func() {
		if e.closed.Load() {
			return
		}
		ready := make(chan struct{})
		go e.run(ready)
		<-ready
		e.started.Store(true)
	})
}

// Close 停止定时器线程, 之后的命令返回errs.Closed
func (e *Engine) Close() error {
	var err error = errs.Closed.Printf("engine %s already closed", e.id)
	e.closeOnce.Do(func() {
		err = nil
		e.closed.Store(true)
		close(e.quit)
		if !e.started.Load() {
			e.startOnce.Do(func() {})
			if e.workerID.Load() == 0 {
				close(e.stopped)
				return
			}
		}
		if !e.onWorker() {
			<-e.stopped
		}
	})
	return err
}

func (e *Engine) onWorker() bool {
	id := e.workerID.Load()
	return id != 0 && id == kernel.GoroutineID()
}

func (e *Engine) run(ready chan<- struct{}) {
	e.workerID.Store(kernel.GoroutineID())
	close(ready)
	mlog.Infof("timer engine %s started, inbox=%d pool=%d", e.id, cap(e.inbox), e.pool.Cap())
	defer func() {
		e.stopWake()
		mlog.Infof("timer engine %s stopped, live timers=%d", e.id, e.live.Load())
		close(e.stopped)
	}()

	for {
		more := e.runDeferred()
		e.dispatchDue(e.clock.Now())
		if more || len(e.deferred) > 0 {
			// 还有回调里投递的调用, 不睡眠
			select {
			case <-e.quit:
				return
			case fn := <-e.inbox:
				fn()
			default:
			}
			continue
		}

		select {
		case <-e.quit:
			return
		case <-e.nextWake():
			e.wake = nil
		case fn := <-e.inbox:
			fn()
		}
	}
}

// nextWake 按最早的到期时间准备唤醒, 没有启动的定时器时只等命令
func (e *Engine) nextWake() <-chan struct{} {
	head := e.armed.First()
	if head == nil {
		e.stopWake()
		return nil
	}
	if e.wake != nil && e.wakeAt == head.expiry {
		return e.wake.C()
	}
	e.stopWake()
	e.wake = e.clock.WakeAt(head.expiry)
	e.wakeAt = head.expiry
	return e.wake.C()
}

func (e *Engine) stopWake() {
	if e.wake != nil {
		e.wake.Stop()
		e.wake = nil
	}
}

// dispatchDue 按到期顺序执行now之前到期的定时器.
// 周期定时器按重新读取的时刻续期, 前面的回调耗时不会让它提前到期
func (e *Engine) dispatchDue(now uint64) {
	for {
		t := e.armed.First()
		if t == nil || t.expiry > now {
			return
		}
		e.armed.Remove(t)
		if t.kind == Periodic {
			t.base = e.clock.Now()
			t.expiry = t.base + effective(t.period)
			t.expiryView.Store(t.expiry)
			e.armed.InsertSorted(t)
		} else {
			t.setState(stateArmed, false)
		}
		e.exec(t)
	}
}

func (e *Engine) exec(t *Timer) {
	rec := t.rec
	if rec == nil || rec.fn == nil {
		mlog.Errorf("timer %s#%d dispatched without callback record", t.name, t.seq)
		return
	}
	t.setState(stateExecuting, true)
	e.current.Store(&t.name)
	e.invoke(t.name, func() { rec.fn(rec.ctx) })
	e.current.Store(nil)
	t.setState(stateExecuting, false)
	e.dispatched.Add(1)

	if t.releasing {
		e.release(t)
	}
}

// invoke 回调panic时记录日志并继续服务, 违反约定的crash继续向上抛
func (e *Engine) invoke(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			if err, ok := r.(error); ok && errs.CodeOf(err) == errs.ErrCode_Contract {
				panic(r)
			}
			mlog.Errorf("timer %s callback panic: %v", name, r)
		}
	}()
	fn()
}

// call 把命令投递给定时器线程并等待执行完, 队列满时返回errs.Resource
func (e *Engine) call(f func()) error {
	return e.submit(context.Background(), f, false)
}

// callWait 队列满时阻塞等待空位
func (e *Engine) callWait(f func()) error {
	return e.submit(context.Background(), f, true)
}

// submit 在定时器线程上直接执行f; 否则投递后等待完成.
// ctx到期时返回errs.Timeout, 已投递的命令仍会执行
func (e *Engine) submit(ctx context.Context, f func(), block bool) error {
	if e.onWorker() {
		f()
		return nil
	}
	if e.closed.Load() {
		return errs.Closed.Printf("engine %s", e.id)
	}
	if !e.started.Load() {
		return errs.Closed.Printf("engine %s not started", e.id)
	}
	done := make(chan struct{})
	ff := func() {
		defer close(done)
		f()
	}
	if block {
		select {
		case e.inbox <- ff:
		case <-e.stopped:
			return errs.Closed.Printf("engine %s stopped", e.id)
		case <-ctx.Done():
			return errs.Timeout.Printf("enqueue: %v", ctx.Err())
		}
	} else {
		select {
		case e.inbox <- ff:
		default:
			return errs.Resource.Printf("timer command queue full, cap=%d", cap(e.inbox))
		}
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return errs.Timeout.Printf("wait: %v", ctx.Err())
	case <-e.stopped:
		select {
		case <-done:
			return nil
		default:
			return errs.Closed.Printf("engine %s stopped", e.id)
		}
	}
}

// effective 周期0按1个tick处理, 避免周期定时器在同一轮里无限触发
func effective(p kernel.Ticks) uint64 {
	if p == 0 {
		return 1
	}
	return uint64(p)
}

// arm 从当前时刻起计时, 已启动的定时器先摘下再按新到期时间插入
func (e *Engine) arm(t *Timer, ticks kernel.Ticks) {
	if t.freed.Load() {
		return
	}
	now := e.clock.Now()
	e.armed.Remove(t)
	t.base = now
	t.period = ticks
	t.expiry = now + effective(ticks)
	t.expiryView.Store(t.expiry)
	e.armed.InsertSorted(t)
	t.setState(stateArmed, true)
	mlog.Debugf("timer %s#%d armed, period=%d expiry=%d now=%d", t.name, t.seq, ticks, t.expiry, now)
}

func (e *Engine) disarm(t *Timer) {
	if e.armed.Remove(t) {
		mlog.Debugf("timer %s#%d stopped", t.name, t.seq)
	}
	t.setState(stateArmed, false)
}

func (e *Engine) register(t *Timer, fn Callback, ctx any) bool {
	ref, rec, ok := e.pool.Alloc()
	if !ok {
		return false
	}
	*rec = record{fn: fn, ctx: ctx, owned: true}
	e.seq++
	t.seq = e.seq
	t.ref = ref
	t.rec = rec
	e.names.Insert(nameKey(t), t)
	e.live.Add(1)
	return true
}

// release 归还回调记录并注销. 回调里销毁自己时推迟到回调返回后
func (e *Engine) release(t *Timer) {
	if t.freed.Load() {
		return
	}
	if t.state.Load()&stateExecuting != 0 {
		t.releasing = true
		return
	}
	e.armed.Remove(t)
	e.names.Delete(nameKey(t))
	if t.rec != nil && t.rec.owned {
		e.pool.Free(t.ref)
	}
	t.freed.Store(true)
	t.releasing = false
	e.live.Add(-1)
	mlog.Debugf("timer %s#%d released", t.name, t.seq)
}

// settle 轮询直到mask中的状态位全部清除. 在定时器线程上调用时不能等待自己
func (e *Engine) settle(ctx context.Context, t *Timer, mask uint32) error {
	if e.onWorker() {
		return nil
	}
	poll := e.conf.SettlePoll()
	var pollTimer *time.Timer
	for t.state.Load()&mask != 0 {
		if err := ctx.Err(); err != nil {
			return errs.Timeout.Printf("timer %s#%d not settled: %v", t.name, t.seq, err)
		}
		if poll <= 0 {
			runtime.Gosched()
			continue
		}
		if pollTimer == nil {
			pollTimer = time.NewTimer(poll)
			defer pollTimer.Stop()
		} else {
			pollTimer.Reset(poll)
		}
		select {
		case <-ctx.Done():
		case <-pollTimer.C:
		}
	}
	return nil
}

// Create 创建一个未启动的定时器, 名字取自调用方的应用id
func (e *Engine) Create(fn Callback, kind Kind, ctx any) (*Timer, error) {
	e.require(!e.irq.InIRQ(), "timer alloc: called from interrupt context")
	e.require(fn != nil, "timer alloc: nil callback")
	e.require(kind == Once || kind == Periodic, "timer alloc: invalid kind "+kind.String())

	t := &Timer{eng: e, kind: kind, name: e.ident.CurrentName()}
	var ok bool
	if err := e.call(func() { ok = e.register(t, fn, ctx) }); err != nil {
		return nil, err
	}
	if !ok {
		return nil, errs.Resource.Printf("timer pool exhausted, cap=%d", e.pool.Cap())
	}
	mlog.Debugf("timer %s#%d created, kind=%s", t.name, t.seq, kind)
	return t, nil
}
