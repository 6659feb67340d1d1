package timer

import (
	"sync"
	"sync/atomic"

	"github.com/fixkme/swtimer/kernel"
)

var (
	builtinEngine atomic.Pointer[Engine]
	once          sync.Once
)

// Start 启动全局定时器服务, quit关闭时停止. 只有第一次调用生效
func Start(quit <-chan struct{}, opts ...Option) *Engine {
	once.Do(func() {
		e := New(opts...)
		e.Start()
		builtinEngine.Store(e)
		go func() {
			<-quit
			e.Close()
		}()
	})
	return builtinEngine.Load()
}

func Default() *Engine {
	e := builtinEngine.Load()
	if e == nil {
		kernel.Panic("timer: builtin engine not started")
	}
	return e
}

func Alloc(fn Callback, kind Kind, ctx any) (*Timer, error) {
	return Default().Create(fn, kind, ctx)
}

func PendCall(fn PendingCallback, ctx any, arg uint32) {
	Default().Pend(fn, ctx, arg)
}

func SetThreadPriority(p Priority) {
	Default().SetPriority(p)
}

func CurrentName() string {
	return Default().CurrentName()
}
