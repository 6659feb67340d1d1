package timer

import (
	"fmt"

	"github.com/fixkme/swtimer/kernel"
)

func nameKey(t *Timer) string {
	return fmt.Sprintf("%s#%08d", t.name, t.seq)
}

// CurrentName 正在执行回调的定时器名, 没有时为空串. 仅供诊断, 不保证与调用方同步
func (e *Engine) CurrentName() string {
	if p := e.current.Load(); p != nil {
		return *p
	}
	return ""
}

type Info struct {
	Name    string
	Kind    Kind
	Period  kernel.Ticks
	Expiry  uint64
	Running bool
}

// Lookup 名字以prefix开头的存活定时器, 按名字和创建顺序排序
func (e *Engine) Lookup(prefix string) (infos []Info, err error) {
	err = e.call(func() {
		e.names.WalkPrefix(prefix, func(_ string, v interface{}) bool {
			t := v.(*Timer)
			infos = append(infos, Info{
				Name:    t.name,
				Kind:    t.kind,
				Period:  t.period,
				Expiry:  t.expiry,
				Running: t.state.Load() != 0,
			})
			return false
		})
	})
	return
}

type Stats struct {
	Live       int64
	Armed      int
	Queued     int
	Dispatched uint64
	Pended     uint64
}

func (e *Engine) Stats() (st Stats, err error) {
	err = e.call(func() {
		st.Armed = e.armed.Len()
	})
	st.Live = e.live.Load()
	st.Queued = len(e.inbox)
	st.Dispatched = e.dispatched.Load()
	st.Pended = e.pended.Load()
	return
}
