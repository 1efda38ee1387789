package treeservice

import (
	"sync"

	"github.com/google/uuid"
)

type treeLock struct {
	sync.RWMutex
	refs int
}

// treeLocks hands out one RWMutex per tree id. Entries are dropped once no
// caller holds or waits on them.
type treeLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*treeLock
}

func newTreeLocks() *treeLocks {
	return &treeLocks{locks: make(map[uuid.UUID]*treeLock)}
}

func (l *treeLocks) acquire(id uuid.UUID) *treeLock {
	l.mu.Lock()
	defer l.mu.Unlock()
	lk, ok := l.locks[id]
	if !ok {
		lk = &treeLock{}
		l.locks[id] = lk
	}
	lk.refs++
	return lk
}

func (l *treeLocks) release(id uuid.UUID, lk *treeLock) {
	l.mu.Lock()
	defer l.mu.Unlock()
	lk.refs--
	if lk.refs == 0 {
		delete(l.locks, id)
	}
}

// Lock takes the write lock for id and returns its unlock function.
func (l *treeLocks) Lock(id uuid.UUID) func() {
	lk := l.acquire(id)
	lk.Lock()
	return func() {
		lk.Unlock()
		l.release(id, lk)
	}
}

// RLock takes the read lock for id and returns its unlock function.
func (l *treeLocks) RLock(id uuid.UUID) func() {
	lk := l.acquire(id)
	lk.RLock()
	return func() {
		lk.RUnlock()
		l.release(id, lk)
	}
}

func (l *treeLocks) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
