package vitals

import (
	"sync"
	"testing"
)

func TestLockSerializes(t *testing.T) {
	var l Lock
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				l.Locked(func() { counter++ })
			}
		}()
	}
	wg.Wait()
	if counter != 1600 {
		t.Errorf("counter = %d, want 1600", counter)
	}
}

func TestLockedReleasesOnPanic(t *testing.T) {
	var l Lock
	func() {
		defer func() { recover() }()
		l.Locked(func() { panic("boom") })
	}()
	if !l.TryAcquire() {
		t.Fatal("lock still held after panic unwind")
	}
	l.Release()
}

func TestTryAcquire(t *testing.T) {
	var l Lock
	l.Acquire()
	if l.TryAcquire() {
		t.Fatal("TryAcquire succeeded on a held lock")
	}
	l.Release()
	if !l.TryAcquire() {
		t.Fatal("TryAcquire failed on a free lock")
	}
	l.Release()
}
