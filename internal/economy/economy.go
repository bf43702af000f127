// Package economy exposes the currency backends a wager can be held in.
// Provider implementations live outside this module; the in-memory
// provider exists for the local runtime and tests.
package economy

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"coinflip-server/internal/pkg/lock"
)

// Errors for provider registry operations.
var (
	ErrNilProvider     = errors.New("cannot register nil provider")
	ErrEmptyName       = errors.New("provider name cannot be empty")
	ErrUnknownProvider = errors.New("unknown currency provider")
)

// Provider is one currency backend.
type Provider interface {
	// Name returns the provider's registry key (e.g. "tokens").
	Name() string

	// DisplayName returns the human-readable currency name.
	DisplayName() string

	// Deposit credits the account with the given minor-unit amount.
	Deposit(account uuid.UUID, amount int64) error
}

// Manager is a thread-safe registry of currency providers keyed by name.
type Manager struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

// NewManager creates an empty provider registry.
func NewManager() *Manager {
	return &Manager{providers: make(map[string]Provider)}
}

// Register adds a provider to the registry. A provider with the same
// name is replaced.
func (m *Manager) Register(p Provider) error {
	if p == nil {
		return ErrNilProvider
	}
	if p.Name() == "" {
		return ErrEmptyName
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.providers[p.Name()] = p
	return nil
}

// Provider retrieves a provider by name.
func (m *Manager) Provider(name string) (Provider, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
	return p, nil
}

// Names returns all registered provider names.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.providers))
	for name := range m.providers {
		names = append(names, name)
	}
	return names
}

// Count returns the number of registered providers.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.providers)
}

// MemoryProvider is an in-process currency ledger.
type MemoryProvider struct {
	name        string
	displayName string

	mu       sync.Mutex
	balances map[uuid.UUID]int64
	locks    *lock.PlayerLock
}

// NewMemoryProvider creates an in-memory provider.
func NewMemoryProvider(name, displayName string) *MemoryProvider {
	return &MemoryProvider{
		name:        name,
		displayName: displayName,
		balances:    make(map[uuid.UUID]int64),
		locks:       lock.New(),
	}
}

// Name returns the provider's registry key.
func (p *MemoryProvider) Name() string { return p.name }

// DisplayName returns the human-readable currency name.
func (p *MemoryProvider) DisplayName() string { return p.displayName }

// Deposit credits the account. Deposits to accounts that have never
// been seen create them, so offline winners can still be paid.
func (p *MemoryProvider) Deposit(account uuid.UUID, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("negative deposit of %d to %s", amount, account)
	}
	return p.locks.WithLock(account, func() error {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.balances[account] += amount
		return nil
	})
}

// Balance returns the account's current balance.
func (p *MemoryProvider) Balance(account uuid.UUID) int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.balances[account]
}
