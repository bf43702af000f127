// Package lock provides per-player locking for settlement-time balance
// and stats mutations.
package lock

import (
	"sync"

	"github.com/google/uuid"
)

// playerMutex wraps a mutex stored per player id.
type playerMutex struct {
	mu sync.Mutex
}

// PlayerLock provides per-player locking to prevent race conditions when
// concurrent settlements touch the same player's balance or stats.
type PlayerLock struct {
	locks sync.Map // map[uuid.UUID]*playerMutex
	pool  sync.Pool
}

// New creates a new PlayerLock instance.
func New() *PlayerLock {
	return &PlayerLock{
		pool: sync.Pool{
			New: func() any {
				return &playerMutex{}
			},
		},
	}
}

// getLock retrieves or creates a mutex for the given player id.
func (pl *PlayerLock) getLock(playerID uuid.UUID) *playerMutex {
	if v, ok := pl.locks.Load(playerID); ok {
		return v.(*playerMutex)
	}

	newLock := pl.pool.Get().(*playerMutex)
	actual, loaded := pl.locks.LoadOrStore(playerID, newLock)
	if loaded {
		// Another goroutine created the lock first, return ours to pool.
		pl.pool.Put(newLock)
	}
	return actual.(*playerMutex)
}

// Lock acquires the lock for a player.
func (pl *PlayerLock) Lock(playerID uuid.UUID) {
	pl.getLock(playerID).mu.Lock()
}

// Unlock releases the lock for a player.
func (pl *PlayerLock) Unlock(playerID uuid.UUID) {
	if v, ok := pl.locks.Load(playerID); ok {
		v.(*playerMutex).mu.Unlock()
	}
}

// TryLock attempts to acquire the lock without blocking.
// Returns true if the lock was acquired.
func (pl *PlayerLock) TryLock(playerID uuid.UUID) bool {
	return pl.getLock(playerID).mu.TryLock()
}

// WithLock executes fn while holding the player's lock.
func (pl *PlayerLock) WithLock(playerID uuid.UUID, fn func() error) error {
	pl.Lock(playerID)
	defer pl.Unlock(playerID)
	return fn()
}
