package billing

import (
	"context"
	"sync"
)

// Locker serializes work on a single billing.
// Lock blocks until the billing is free or ctx is done; the returned func
// releases the lock and must be called exactly once.
type Locker interface {
	Lock(ctx context.Context, billingID int64) (unlock func(), err error)
}

// MemoryLocker is an in-process Locker keyed by billing ID.
// Entries are removed when no goroutine holds or waits for them.
type MemoryLocker struct {
	mu    sync.Mutex
	locks map[int64]*lockEntry
}

type lockEntry struct {
	sem  chan struct{}
	refs int
}

// NewMemoryLocker creates an empty MemoryLocker.
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{locks: make(map[int64]*lockEntry)}
}

// Lock acquires the lock for billingID.
func (l *MemoryLocker) Lock(ctx context.Context, billingID int64) (func(), error) {
	l.mu.Lock()
	e, ok := l.locks[billingID]
	if !ok {
		e = &lockEntry{sem: make(chan struct{}, 1)}
		l.locks[billingID] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		l.release(billingID, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.sem
			l.release(billingID, e)
		})
	}, nil
}

func (l *MemoryLocker) release(billingID int64, e *lockEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.locks, billingID)
	}
}

// size returns the number of live entries.
func (l *MemoryLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
