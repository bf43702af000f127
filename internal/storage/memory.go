package storage

import (
	"sync"

	"github.com/google/uuid"
)

// MemoryOfflineStore is an in-process OfflineStore. It stands in for the
// real durable backend, which lives outside this module.
type MemoryOfflineStore struct {
	mu      sync.Mutex
	records map[uuid.UUID]*offlineRecord
}

type offlineRecord struct {
	wins, losses, profit, totalLosses, totalGambled int64
}

// NewMemoryOfflineStore creates an empty in-memory store.
func NewMemoryOfflineStore() *MemoryOfflineStore {
	return &MemoryOfflineStore{records: make(map[uuid.UUID]*offlineRecord)}
}

func (s *MemoryOfflineStore) record(id uuid.UUID) *offlineRecord {
	rec, ok := s.records[id]
	if !ok {
		rec = &offlineRecord{}
		s.records[id] = rec
	}
	return rec
}

// ApplyWin records a win against the persisted record.
func (s *MemoryOfflineStore) ApplyWin(playerID uuid.UUID, winAmount, wager int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.record(playerID)
	rec.wins++
	rec.profit += winAmount
	rec.totalGambled += wager
	return nil
}

// ApplyLoss records a loss against the persisted record.
func (s *MemoryOfflineStore) ApplyLoss(playerID uuid.UUID, wager int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.record(playerID)
	rec.losses++
	rec.totalLosses += wager
	rec.totalGambled += wager
	return nil
}

// Snapshot returns the persisted counters for a player. Used by tests
// and diagnostics.
func (s *MemoryOfflineStore) Snapshot(playerID uuid.UUID) (wins, losses, profit, totalLosses, totalGambled int64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[playerID]
	if !ok {
		return 0, 0, 0, 0, 0, ErrPlayerUnknown
	}
	return rec.wins, rec.losses, rec.profit, rec.totalLosses, rec.totalGambled, nil
}
