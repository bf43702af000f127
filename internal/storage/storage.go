// Package storage manages player coinflip statistics. Live records are
// cached in memory and mutated in place by the settlement pipeline; the
// durable side sits behind the OfflineStore boundary, which is invoked
// directly only when no cached record is resident.
package storage

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"coinflip-server/internal/pkg/lock"
)

// ErrPlayerUnknown is returned by offline stores that have never seen
// the player.
var ErrPlayerUnknown = errors.New("player unknown to offline store")

// PlayerData is one player's cached statistics record. Counters are
// monotonically increasing; the cache owner is responsible for flushing
// the record back to durable storage.
type PlayerData struct {
	id uuid.UUID

	mu                       sync.Mutex
	wins                     int64
	losses                   int64
	profit                   int64
	totalLosses              int64
	totalGambled             int64
	displayBroadcastMessages bool
}

// NewPlayerData creates a cached record for the given player.
// Broadcast messages are enabled by default.
func NewPlayerData(id uuid.UUID) *PlayerData {
	return &PlayerData{id: id, displayBroadcastMessages: true}
}

// ID returns the player's id.
func (p *PlayerData) ID() uuid.UUID { return p.id }

// UpdateWins increments the win counter.
func (p *PlayerData) UpdateWins() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.wins++
}

// UpdateLosses increments the loss counter.
func (p *PlayerData) UpdateLosses() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.losses++
}

// UpdateProfit adds an after-tax win amount to the profit accumulator.
func (p *PlayerData) UpdateProfit(amount int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.profit += amount
}

// UpdateTotalLosses adds a lost wager to the loss-amount accumulator.
func (p *PlayerData) UpdateTotalLosses(amount int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.totalLosses += amount
}

// UpdateGambled adds a pre-tax wager to the total-gambled accumulator.
func (p *PlayerData) UpdateGambled(amount int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.totalGambled += amount
}

// Wins returns the win counter.
func (p *PlayerData) Wins() int64 { p.mu.Lock(); defer p.mu.Unlock(); return p.wins }

// Losses returns the loss counter.
func (p *PlayerData) Losses() int64 { p.mu.Lock(); defer p.mu.Unlock(); return p.losses }

// Profit returns the after-tax profit accumulator.
func (p *PlayerData) Profit() int64 { p.mu.Lock(); defer p.mu.Unlock(); return p.profit }

// TotalLosses returns the loss-amount accumulator.
func (p *PlayerData) TotalLosses() int64 { p.mu.Lock(); defer p.mu.Unlock(); return p.totalLosses }

// TotalGambled returns the total-gambled accumulator.
func (p *PlayerData) TotalGambled() int64 { p.mu.Lock(); defer p.mu.Unlock(); return p.totalGambled }

// DisplayBroadcastMessages reports the player's broadcast preference.
func (p *PlayerData) DisplayBroadcastMessages() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.displayBroadcastMessages
}

// SetDisplayBroadcastMessages sets the player's broadcast preference.
func (p *PlayerData) SetDisplayBroadcastMessages(enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.displayBroadcastMessages = enabled
}

// OfflineStore is the durable statistics backend. Implementations apply
// updates idempotently against the persisted record; this module never
// reads or writes the authoritative copy itself.
type OfflineStore interface {
	// ApplyWin records a win: wins+1, profit += winAmount,
	// gambled += wager.
	ApplyWin(playerID uuid.UUID, winAmount, wager int64) error

	// ApplyLoss records a loss: losses+1, loss amount += wager,
	// gambled += wager.
	ApplyLoss(playerID uuid.UUID, wager int64) error
}

// Manager is the stats storage facade used by the settlement pipeline.
type Manager struct {
	mu      sync.RWMutex
	cache   map[uuid.UUID]*PlayerData
	offline OfflineStore
	locks   *lock.PlayerLock
}

// NewManager creates a Manager over the given offline store.
func NewManager(offline OfflineStore) *Manager {
	return &Manager{
		cache:   make(map[uuid.UUID]*PlayerData),
		offline: offline,
		locks:   lock.New(),
	}
}

// LoadPlayer caches a record for the player, typically at connect time.
// Returns the cached record, creating one if none exists.
func (m *Manager) LoadPlayer(id uuid.UUID) *PlayerData {
	m.mu.Lock()
	defer m.mu.Unlock()
	pd, ok := m.cache[id]
	if !ok {
		pd = NewPlayerData(id)
		m.cache[id] = pd
	}
	return pd
}

// UnloadPlayer drops the cached record, typically at disconnect time.
func (m *Manager) UnloadPlayer(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cache, id)
}

// Player returns the cached record for a player, if resident.
func (m *Manager) Player(id uuid.UUID) (*PlayerData, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	pd, ok := m.cache[id]
	return pd, ok
}

// UpdateOfflinePlayerWin applies a win directly against durable storage.
func (m *Manager) UpdateOfflinePlayerWin(id uuid.UUID, winAmount, wager int64) error {
	return m.locks.WithLock(id, func() error {
		return m.offline.ApplyWin(id, winAmount, wager)
	})
}

// UpdateOfflinePlayerLoss applies a loss directly against durable storage.
func (m *Manager) UpdateOfflinePlayerLoss(id uuid.UUID, wager int64) error {
	return m.locks.WithLock(id, func() error {
		return m.offline.ApplyLoss(id, wager)
	})
}
