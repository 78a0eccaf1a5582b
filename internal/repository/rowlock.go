package repository

import "sync"

// rowLocks serializes work per post id without a global lock.
// Entries are reference counted and dropped once no goroutine holds or waits on them.
type rowLocks struct {
	mu    sync.Mutex
	locks map[uint64]*rowLock
}

type rowLock struct {
	mu   sync.Mutex
	refs int
}

func newRowLocks() *rowLocks {
	return &rowLocks{locks: make(map[uint64]*rowLock)}
}

// Lock blocks until the caller owns id and returns the matching unlock func
func (l *rowLocks) Lock(id uint64) func() {
	l.mu.Lock()
	e, ok := l.locks[id]
	if !ok {
		e = &rowLock{}
		l.locks[id] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()

		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}

// held returns the number of ids with an entry, for tests
func (l *rowLocks) held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
