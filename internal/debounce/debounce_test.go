package debounce

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerRunsOnlyLastCall(t *testing.T) {
	d := New(20 * time.Millisecond)
	var fired atomic.Int32
	var last atomic.Int32

	for i := 1; i <= 5; i++ {
		n := int32(i)
		d.Do(func() {
			fired.Add(1)
			last.Store(n)
		})
		time.Sleep(2 * time.Millisecond)
	}

	time.Sleep(100 * time.Millisecond)
	if got := fired.Load(); got != 1 {
		t.Fatalf("fired %d times, want 1", got)
	}
	if got := last.Load(); got != 5 {
		t.Fatalf("ran call %d, want 5", got)
	}
}

func TestDebouncerStopCancelsPending(t *testing.T) {
	d := New(20 * time.Millisecond)
	var fired atomic.Int32
	d.Do(func() { fired.Add(1) })
	d.Stop()

	time.Sleep(60 * time.Millisecond)
	if fired.Load() != 0 {
		t.Fatal("stopped call still fired")
	}
}

func TestDebouncerDefaultsWait(t *testing.T) {
	d := New(0)
	if d.wait != DefaultWait {
		t.Fatalf("wait = %v, want %v", d.wait, DefaultWait)
	}
}
