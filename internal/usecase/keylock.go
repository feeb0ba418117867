package usecase

import "sync"

// batchLocks hands out one mutex per batch key so that insert, delete and
// cascade recomputation for the same batch never run concurrently in this
// process. Different keys proceed in parallel. Cross-process serialization is
// the FOR UPDATE scan inside the database transaction; this guard keeps local
// writers from even reaching the database interleaved.
type batchLocks struct {
	mu    sync.Mutex
	locks map[string]*batchLock
}

type batchLock struct {
	mu   sync.Mutex
	refs int
}

func newBatchLocks() *batchLocks {
	return &batchLocks{locks: map[string]*batchLock{}}
}

// Acquire blocks until the key's lock is held and returns the release func.
func (b *batchLocks) Acquire(key string) func() {
	b.mu.Lock()
	l := b.locks[key]
	if l == nil {
		l = &batchLock{}
		b.locks[key] = l
	}
	l.refs++
	b.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		b.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(b.locks, key)
		}
		b.mu.Unlock()
	}
}
