// File: services/session/lock.go
package session

import "sync"

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Keyed serializes work per caller id. Turns for distinct callers run
// concurrently; two near-simultaneous turns for the same caller would
// otherwise race on the read-modify-write of the session. Entries are
// refcounted and dropped when the last holder releases, so the map does
// not grow with every caller ever seen.
type Keyed struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

func NewKeyed() *Keyed {
	return &Keyed{locks: make(map[string]*lockEntry)}
}

func (k *Keyed) acquire(key string) *lockEntry {
	k.mu.Lock()
	defer k.mu.Unlock()
	e, ok := k.locks[key]
	if !ok {
		e = &lockEntry{}
		k.locks[key] = e
	}
	e.refs++
	return e
}

func (k *Keyed) release(key string, e *lockEntry) {
	k.mu.Lock()
	defer k.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(k.locks, key)
	}
}

// Do runs fn while holding the lock for key.
func (k *Keyed) Do(key string, fn func()) {
	e := k.acquire(key)
	defer k.release(key, e)

	e.mu.Lock()
	defer e.mu.Unlock()
	fn()
}
