package usecase

import (
	"sync"
	"testing"
	"time"
)

func TestBatchLocks_SerializesSameKey(t *testing.T) {
	t.Parallel()

	locks := newBatchLocks()

	const workers = 50

	var (
		wg      sync.WaitGroup
		counter int
	)

	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()

			unlock := locks.Acquire("finished/Widget/WDG-070325")
			defer unlock()

			// Unsynchronized increment; the race detector flags any overlap.
			counter++
		}()
	}
	wg.Wait()

	if counter != workers {
		t.Errorf("counter = %d, want %d", counter, workers)
	}

	if len(locks.locks) != 0 {
		t.Errorf("lock table size = %d, want 0 after release", len(locks.locks))
	}
}

func TestBatchLocks_DifferentKeysDoNotBlock(t *testing.T) {
	t.Parallel()

	locks := newBatchLocks()

	unlockA := locks.Acquire("finished/Widget/WDG-070325")
	defer unlockA()

	acquired := make(chan struct{})
	go func() {
		unlockB := locks.Acquire("finished/Gadget/GDT-070325")
		defer unlockB()
		close(acquired)
	}()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second key blocked behind unrelated lock")
	}
}

func TestBatchLocks_ReleaseAllowsReacquire(t *testing.T) {
	t.Parallel()

	locks := newBatchLocks()

	unlock := locks.Acquire("k")
	unlock()

	done := make(chan struct{})
	go func() {
		unlock := locks.Acquire("k")
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock not reacquirable after release")
	}
}
