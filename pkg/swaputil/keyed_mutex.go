package swaputil

import "sync"

type keyedLock struct {
	mtx  sync.Mutex
	refs int
}

// KeyedMutex provides mutual exclusion by arbitrary string key. Locks for
// distinct keys are independent, callers locking the same key serialize.
// Keys with no waiters hold no memory.
type KeyedMutex struct {
	mtx   sync.Mutex
	locks map[string]*keyedLock
}

// NewKeyedMutex returns an empty KeyedMutex.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*keyedLock)}
}

// Lock acquires the lock for the given key, blocking until it is available.
func (m *KeyedMutex) Lock(key string) {
	m.mtx.Lock()
	l, ok := m.locks[key]
	if !ok {
		l = &keyedLock{}
		m.locks[key] = l
	}
	l.refs++
	m.mtx.Unlock()

	l.mtx.Lock()
}

// Unlock releases the lock for the given key. It panics if the lock is not
// held.
func (m *KeyedMutex) Unlock(key string) {
	m.mtx.Lock()
	l, ok := m.locks[key]
	if !ok {
		m.mtx.Unlock()
		panic("unlock of unlocked key " + key)
	}
	l.refs--
	if l.refs <= 0 {
		delete(m.locks, key)
	}
	m.mtx.Unlock()

	l.mtx.Unlock()
}
