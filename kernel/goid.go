package kernel

import (
	"runtime"
)

// GoroutineID 从调用栈头部 "goroutine 123 [running]:" 解析id
func GoroutineID() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := buf[len("goroutine "):n]
	var id int64
	for _, c := range b {
		if c < '0' || c > '9' {
			break
		}
		id = id*10 + int64(c-'0')
	}
	return id
}
