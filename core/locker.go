package core

import "sync"

// KeyedMutex hands out one mutex per key, eg. "assignment:<id>".
// Entries are dropped once no goroutine holds or waits for them.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	sync.Mutex
	refs int
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*keyedLock)}
}

// Lock blocks until key is free and returns the matching unlock func.
func (km *KeyedMutex) Lock(key string) (unlock func()) {
	km.mu.Lock()
	lk, ok := km.locks[key]
	if !ok {
		lk = &keyedLock{}
		km.locks[key] = lk
	}
	lk.refs++
	km.mu.Unlock()

	lk.Lock()
	return func() {
		lk.Unlock()
		km.mu.Lock()
		lk.refs--
		if lk.refs == 0 {
			delete(km.locks, key)
		}
		km.mu.Unlock()
	}
}

func (km *KeyedMutex) size() int {
	km.mu.Lock()
	defer km.mu.Unlock()
	return len(km.locks)
}
