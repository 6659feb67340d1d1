package kernel

import (
	"os"

	"github.com/fixkme/swtimer/errs"
	"github.com/fixkme/swtimer/mlog"
)

// CrashFunc 调用方违反约定时终止系统, 不应返回
type CrashFunc func(reason string)

// Panic 默认的crash: 记日志后panic, 上层可以recover或者让进程退出
func Panic(reason string) {
	mlog.Errorf("system crash: %s", reason)
	panic(errs.Contract.Printf("%s", reason))
}

// Exit 记日志后直接退出进程
func Exit(reason string) {
	mlog.Errorf("system crash: %s", reason)
	os.Exit(1)
}

// CrashByName 按配置名选择crash函数, exit之外都用Panic
func CrashByName(name string) CrashFunc {
	if name == "exit" {
		return Exit
	}
	return Panic
}
