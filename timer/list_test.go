package timer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimerListOrder(t *testing.T) {
	l := newTimerList()
	assert.Nil(t, l.First())

	mk := func(expiry, seq uint64) *Timer { return &Timer{expiry: expiry, seq: seq} }
	a := mk(10, 3)
	b := mk(5, 4)
	c := mk(10, 1)
	d := mk(20, 2)
	for _, x := range []*Timer{a, b, c, d} {
		l.InsertSorted(x)
	}
	assert.Equal(t, 4, l.Len())

	assert.True(t, l.Remove(c))
	assert.False(t, l.Remove(c))
	assert.Same(t, b, l.First())
	assert.True(t, l.Remove(b))
	assert.Same(t, a, l.First())
	assert.Equal(t, 2, l.Len())
}

func TestTimerListPopOrder(t *testing.T) {
	l := newTimerList()
	mk := func(expiry, seq uint64) *Timer { return &Timer{expiry: expiry, seq: seq} }
	a := mk(10, 3)
	b := mk(5, 4)
	c := mk(10, 1)
	d := mk(20, 2)
	for _, x := range []*Timer{a, b, c, d} {
		l.InsertSorted(x)
	}

	var got []*Timer
	for x := l.First(); x != nil; x = l.First() {
		l.Remove(x)
		got = append(got, x)
	}
	assert.Equal(t, []*Timer{b, c, a, d}, got)
	assert.Equal(t, 0, l.Len())
}
