package services

import "sync"

// entityLocker serializes operations on the same entity id within this process.
// Entries are reference counted and dropped once no goroutine holds or waits on them.
type entityLocker struct {
	mu    sync.Mutex
	locks map[string]*entityLock
}

type entityLock struct {
	mu   sync.Mutex
	refs int
}

func newEntityLocker() *entityLocker {
	return &entityLocker{locks: make(map[string]*entityLock)}
}

// Lock blocks until the caller owns key and returns the matching unlock func.
func (l *entityLocker) Lock(key string) func() {
	l.mu.Lock()
	el, ok := l.locks[key]
	if !ok {
		el = &entityLock{}
		l.locks[key] = el
	}
	el.refs++
	l.mu.Unlock()

	el.mu.Lock()

	return func() {
		el.mu.Unlock()

		l.mu.Lock()
		el.refs--
		if el.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}
}
