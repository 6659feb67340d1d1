package slotpool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ctx int
	tag uint32
}

const deadbeef = 0xDEADBEEF

func TestAllocUntilFull(t *testing.T) {
	p := New(3, record{tag: deadbeef})
	refs := make([]Ref, 0, 3)
	for i := 0; i < 3; i++ {
		ref, r, ok := p.Alloc()
		require.True(t, ok)
		r.ctx = i
		refs = append(refs, ref)
	}
	_, _, ok := p.Alloc()
	assert.False(t, ok, "pool should be exhausted")
	assert.Equal(t, 3, p.Len())

	require.True(t, p.Free(refs[1]))
	ref, _, ok := p.Alloc()
	require.True(t, ok)
	assert.Equal(t, refs[1].Index, ref.Index)
	assert.NotEqual(t, refs[1].Gen, ref.Gen)
}

func TestFreeWritesPoison(t *testing.T) {
	p := New(2, record{tag: deadbeef})
	ref, r, ok := p.Alloc()
	require.True(t, ok)
	r.ctx = 42
	r.tag = 1

	require.True(t, p.Free(ref))
	// r 指向的内存在释放后被写成毒值
	assert.Equal(t, uint32(deadbeef), r.tag)
	assert.Equal(t, 0, r.ctx)
}

func TestStaleRef(t *testing.T) {
	p := New(1, record{})
	ref, _, _ := p.Alloc()
	require.True(t, p.Free(ref))
	assert.False(t, p.Free(ref), "double free")
	_, ok := p.Get(ref)
	assert.False(t, ok)

	again, _, ok := p.Alloc()
	require.True(t, ok)
	_, ok = p.Get(ref)
	assert.False(t, ok, "old generation must not alias the new slot")
	_, ok = p.Get(again)
	assert.True(t, ok)
	_, ok = p.Get(Ref{Index: 7})
	assert.False(t, ok)
}
