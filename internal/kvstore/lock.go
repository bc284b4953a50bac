package kvstore

import (
	"errors"
	"sync"
	"time"
)

// ErrRetired is returned by Lock for a key whose owner has been deleted.
var ErrRetired = errors.New("kvstore: key retired")

// retireTTL is how long a retired key refuses writers. It only has to outlast
// requests that were already in flight when the key was retired.
const retireTTL = 10 * time.Minute

// Locker serializes read-modify-write cycles on a key within this process.
// Services that load a collection, change it and store it back hold the
// collection's key for the whole cycle.
type Locker struct {
	mu      sync.Mutex
	locks   map[string]*keyLock
	retired map[string]time.Time
	now     func() time.Time
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

// NewLocker returns an empty Locker.
func NewLocker() *Locker {
	return &Locker{
		locks:   make(map[string]*keyLock),
		retired: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Lock blocks until key is free and returns the function that releases it.
// If the key was retired while waiting, the lock is released again and
// ErrRetired is returned. Entries are dropped once nobody holds or waits on
// them.
func (l *Locker) Lock(key string) (unlock func(), err error) {
	l.mu.Lock()
	kl, ok := l.locks[key]
	if !ok {
		kl = &keyLock{}
		l.locks[key] = kl
	}
	kl.refs++
	l.mu.Unlock()

	kl.mu.Lock()
	unlock = func() {
		kl.mu.Unlock()
		l.mu.Lock()
		kl.refs--
		if kl.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}

	if l.isRetired(key) {
		unlock()
		return nil, ErrRetired
	}
	return unlock, nil
}

// Retire makes every later Lock on key fail with ErrRetired. The caller
// should hold key so that no cycle is halfway through when it is retired.
func (l *Locker) Retire(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for k, until := range l.retired {
		if now.After(until) {
			delete(l.retired, k)
		}
	}
	l.retired[key] = now.Add(retireTTL)
}

func (l *Locker) isRetired(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	until, ok := l.retired[key]
	if !ok {
		return false
	}
	if l.now().After(until) {
		delete(l.retired, key)
		return false
	}
	return true
}
