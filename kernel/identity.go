package kernel

import (
	"sync"
)

// Identity 返回当前任务的诊断名, 定时器创建时用它命名
type Identity interface {
	CurrentName() string
}

const SystemAppID = "system"

var appIDs sync.Map // goroutine id -> string

// SetAppID 给当前goroutine绑定应用id
func SetAppID(name string) {
	appIDs.Store(GoroutineID(), name)
}

func ClearAppID() {
	appIDs.Delete(GoroutineID())
}

// AppID 当前goroutine的应用id, 没有绑定时为system
func AppID() string {
	if v, ok := appIDs.Load(GoroutineID()); ok {
		return v.(string)
	}
	return SystemAppID
}

// RunAs 以应用身份name执行fn
func RunAs(name string, fn func()) {
	gid := GoroutineID()
	prev, had := appIDs.Load(gid)
	appIDs.Store(gid, name)
	defer func() {
		if had {
			appIDs.Store(gid, prev)
		} else {
			appIDs.Delete(gid)
		}
	}()
	fn()
}

type appIdentity struct{}

func (appIdentity) CurrentName() string { return AppID() }

var DefaultIdentity Identity = appIdentity{}
