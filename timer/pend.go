package timer

// PendingCallback 延迟到定时器线程上执行的一次性调用
type PendingCallback func(ctx any, arg uint32)

// Pend 投递一次延迟调用, 不返回句柄也不等待执行.
// 中断上下文里走非阻塞投递, 队列满时crash; 其他上下文队列满时阻塞等待
func (e *Engine) Pend(fn PendingCallback, ctx any, arg uint32) {
	e.require(fn != nil, "timer pend: nil callback")
	e.require(!e.closed.Load(), "timer pend: engine closed")

	job := func() { e.runPending(fn, ctx, arg) }
	if e.onWorker() {
		e.deferred = append(e.deferred, job)
		return
	}
	if e.irq.InIRQ() {
		select {
		case e.inbox <- job:
		default:
			e.require(false, "timer pend from isr: command queue full")
		}
		return
	}
	select {
	case e.inbox <- job:
	case <-e.stopped:
		e.require(false, "timer pend: engine stopped")
	}
}

func (e *Engine) runPending(fn PendingCallback, ctx any, arg uint32) {
	e.pended.Add(1)
	e.invoke("pending", func() { fn(ctx, arg) })
}

// runDeferred 执行回调里投递的调用, 返回执行期间是否又有新的投递
func (e *Engine) runDeferred() bool {
	if len(e.deferred) == 0 {
		return false
	}
	batch := e.deferred
	e.deferred = nil
	for _, job := range batch {
		job()
	}
	return len(e.deferred) > 0
}
