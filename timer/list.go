package timer

// 按(expiry, seq)有序的双向链表, root为哨兵
type timerList struct {
	root Timer
	len  int
}

func newTimerList() *timerList {
	l := new(timerList)
	l.root.prev = &l.root
	l.root.next = &l.root
	return l
}

func before(a, b *Timer) bool {
	if a.expiry != b.expiry {
		return a.expiry < b.expiry
	}
	return a.seq < b.seq
}

// InsertSorted 新到期时间通常靠后, 从尾部往前找插入位置
func (l *timerList) InsertSorted(t *Timer) {
	cur := l.root.prev
	for cur != &l.root && before(t, cur) {
		cur = cur.prev
	}
	t.prev = cur
	t.next = cur.next
	cur.next.prev = t
	cur.next = t
	l.len++
}

func (l *timerList) Remove(t *Timer) bool {
	if t == &l.root || t.prev == nil || t.next == nil {
		return false
	}
	t.prev.next = t.next
	t.next.prev = t.prev
	t.prev = nil
	t.next = nil
	l.len--
	return true
}

func (l *timerList) First() *Timer {
	if l.root.next == &l.root {
		return nil
	}
	return l.root.next
}

func (l *timerList) Len() int {
	return l.len
}
