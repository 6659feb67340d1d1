package kernel

import (
	"errors"
	"os"
	"os/exec"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/fixkme/swtimer/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoroutineID(t *testing.T) {
	self := GoroutineID()
	assert.Greater(t, self, int64(0))
	var other int64
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		other = GoroutineID()
	}()
	wg.Wait()
	assert.NotEqual(t, self, other)
	assert.Equal(t, self, GoroutineID())
}

func TestRunISR(t *testing.T) {
	assert.False(t, IsIRQOrMasked())
	RunISR(func() {
		assert.True(t, IsIRQOrMasked())
		assert.True(t, DefaultIRQ.InIRQ())
		Mask(func() {
			assert.True(t, IsIRQOrMasked())
		})
		assert.True(t, IsIRQOrMasked(), "nested leave must not clear the outer ISR")

		done := make(chan bool)
		go func() { done <- IsIRQOrMasked() }()
		assert.False(t, <-done, "interrupt context is per goroutine")
	})
	assert.False(t, IsIRQOrMasked())
}

func TestAppID(t *testing.T) {
	assert.Equal(t, SystemAppID, DefaultIdentity.CurrentName())
	RunAs("gui", func() {
		assert.Equal(t, "gui", AppID())
		RunAs("storage", func() {
			assert.Equal(t, "storage", AppID())
		})
		assert.Equal(t, "gui", AppID())
	})
	assert.Equal(t, SystemAppID, AppID())

	SetAppID("bt")
	assert.Equal(t, "bt", DefaultIdentity.CurrentName())
	ClearAppID()
	assert.Equal(t, SystemAppID, AppID())
}

func TestManualClock(t *testing.T) {
	c := NewManualClock(0)
	w10 := c.WakeAt(10)
	w20 := c.WakeAt(20)
	assert.Equal(t, 2, c.Pending())

	c.Advance(9)
	select {
	case <-w10.C():
		t.Fatal("woke early")
	default:
	}

	assert.Equal(t, uint64(10), c.Advance(1))
	select {
	case <-w10.C():
	default:
		t.Fatal("waiter at 10 not fired")
	}
	assert.True(t, w20.Stop())
	assert.False(t, w20.Stop())
	c.Set(100)
	select {
	case <-w20.C():
		t.Fatal("stopped waiter fired")
	default:
	}

	past := c.WakeAt(50)
	select {
	case <-past.C():
	default:
		t.Fatal("waiter in the past must fire immediately")
	}
}

func TestSystemClock(t *testing.T) {
	c := NewSystemClock(time.Millisecond)
	start := c.Now()
	w := c.WakeAt(start + 5)
	select {
	case <-w.C():
	case <-time.After(time.Second):
		t.Fatal("system waiter did not fire")
	}
	assert.GreaterOrEqual(t, c.Now(), start+5)

	assert.Equal(t, Ticks(0), c.TicksFromDuration(0))
	assert.Equal(t, Ticks(2), c.TicksFromDuration(1500*time.Microsecond))
	assert.Equal(t, time.Millisecond, c.TickDuration())
}

func TestThreadTask(t *testing.T) {
	task := NewThreadTask(2, 6)
	assert.Equal(t, 2, task.Priority())
	done := make(chan struct{})
	go func() {
		defer close(done)
		task.SetPriority(6)
		assert.True(t, task.Locked())
		task.SetPriority(2)
		assert.False(t, task.Locked())
	}()
	<-done
	assert.Equal(t, 2, task.Priority())
}

func TestPanic(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.True(t, errors.Is(err, errs.Contract))
		assert.Contains(t, err.Error(), "bad callback")
	}()
	Panic("bad callback")
}

func TestCrashByName(t *testing.T) {
	same := func(want, got CrashFunc) bool {
		return reflect.ValueOf(want).Pointer() == reflect.ValueOf(got).Pointer()
	}
	assert.True(t, same(Exit, CrashByName("exit")))
	assert.True(t, same(Panic, CrashByName("panic")))
	assert.True(t, same(Panic, CrashByName("")))
}

// 在子进程里调用Exit, 检查退出码
func TestExit(t *testing.T) {
	if os.Getenv("SWTIMER_CRASH_EXIT") == "1" {
		Exit("isr queue full")
		return
	}
	cmd := exec.Command(os.Args[0], "-test.run=^TestExit$")
	cmd.Env = append(os.Environ(), "SWTIMER_CRASH_EXIT=1")
	err := cmd.Run()
	var exitErr *exec.ExitError
	require.True(t, errors.As(err, &exitErr), "expected exit error, got %v", err)
	assert.Equal(t, 1, exitErr.ExitCode())
}
