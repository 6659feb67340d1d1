// Package slotpool 静态链表实现的定长分配器.
// 数据存放在预分配的切片里, 空闲槽位用下标串成链表, 分配释放都是O(1).
// 释放时写入毒值, 代数递增, 用旧Ref访问会失败.
package slotpool

const Null = -1

// Ref 指向一个槽位, Gen用来识别槽位被释放后重用
type Ref struct {
	Index int
	Gen   uint32
}

type slot[T any] struct {
	data T
	next int
	gen  uint32
	used bool
}

type Pool[T any] struct {
	slots  []slot[T]
	free   int
	used   int
	poison T
}

// New 创建容量为size的池, 释放的槽位会被写成poison
func New[T any](size int, poison T) *Pool[T] {
	if size < 1 {
		size = 1
	}
	p := &Pool[T]{
		slots:  make([]slot[T], size),
		poison: poison,
	}
	for i := 0; i < size-1; i++ {
		p.slots[i].next = i + 1
	}
	p.slots[size-1].next = Null
	p.free = 0
	return p
}

// Alloc 分配一个槽位, 池满返回false
func (p *Pool[T]) Alloc() (Ref, *T, bool) {
	i := p.free
	if i == Null {
		return Ref{Index: Null}, nil, false
	}
	s := &p.slots[i]
	p.free = s.next
	s.next = Null
	s.used = true
	s.gen++
	p.used++
	return Ref{Index: i, Gen: s.gen}, &s.data, true
}

// Get 校验ref仍然有效
func (p *Pool[T]) Get(ref Ref) (*T, bool) {
	if ref.Index < 0 || ref.Index >= len(p.slots) {
		return nil, false
	}
	s := &p.slots[ref.Index]
	if !s.used || s.gen != ref.Gen {
		return nil, false
	}
	return &s.data, true
}

// Free 归还槽位, 重复释放或旧ref返回false
func (p *Pool[T]) Free(ref Ref) bool {
	if _, ok := p.Get(ref); !ok {
		return false
	}
	s := &p.slots[ref.Index]
	s.data = p.poison
	s.used = false
	s.next = p.free
	p.free = ref.Index
	p.used--
	return true
}

func (p *Pool[T]) Len() int {
	return p.used
}

func (p *Pool[T]) Cap() int {
	return len(p.slots)
}
