package timer

import (
	"testing"
	"time"

	"github.com/fixkme/swtimer/kernel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltin(t *testing.T) {
	clock := kernel.NewManualClock(0)
	quit := make(chan struct{})
	e := Start(quit, WithClock(clock))
	require.NotNil(t, e)
	assert.Same(t, e, Start(quit), "second Start returns the running engine")
	assert.Same(t, e, Default())

	names := make(chan string, 1)
	var tm *Timer
	kernel.RunAs("blink", func() {
		var err error
		tm, err = Alloc(func(any) { names <- CurrentName() }, Once, nil)
		require.NoError(t, err)
	})
	require.NoError(t, tm.Start(3))
	clock.Advance(3)
	select {
	case name := <-names:
		assert.Equal(t, "blink", name)
	case <-time.After(2 * time.Second):
		t.Fatal("builtin timer did not fire")
	}

	ran := make(chan uint32, 1)
	PendCall(func(_ any, arg uint32) { ran <- arg }, nil, 5)
	assert.Equal(t, uint32(5), <-ran)

	SetThreadPriority(PriorityElevated)
	assert.Equal(t, PriorityElevated, e.Priority())
	SetThreadPriority(PriorityNormal)

	tm.Destroy()
	close(quit)
	assert.Eventually(t, func() bool { return e.closed.Load() }, 2*time.Second, time.Millisecond)
}
