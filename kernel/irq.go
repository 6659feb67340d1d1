package kernel

import (
	"sync"
)

// IRQ 判断调用方是否处于中断上下文(或中断被屏蔽)
type IRQ interface {
	InIRQ() bool
}

// 普通Go没有中断, 用goroutine id模拟: RunISR/Mask期间该goroutine视为中断上下文
type irqState struct {
	mu    sync.RWMutex
	depth map[int64]int
}

var interrupts = &irqState{depth: make(map[int64]int)}

func (s *irqState) enter(gid int64) {
	s.mu.Lock()
	s.depth[gid]++
	s.mu.Unlock()
}

func (s *irqState) leave(gid int64) {
	s.mu.Lock()
	if s.depth[gid] <= 1 {
		delete(s.depth, gid)
	} else {
		s.depth[gid]--
	}
	s.mu.Unlock()
}

func (s *irqState) active(gid int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.depth[gid] > 0
}

// RunISR 在模拟的中断上下文里执行fn
func RunISR(fn func()) {
	gid := GoroutineID()
	interrupts.enter(gid)
	defer interrupts.leave(gid)
	fn()
}

// Mask 屏蔽中断执行fn, 规则上与中断上下文相同: 不允许阻塞
func Mask(fn func()) {
	RunISR(fn)
}

func IsIRQOrMasked() bool {
	return interrupts.active(GoroutineID())
}

type goroutineIRQ struct{}

func (goroutineIRQ) InIRQ() bool { return IsIRQOrMasked() }

var DefaultIRQ IRQ = goroutineIRQ{}
