// Package presence tracks which participants are currently connected and
// exposes their live session handles.
package presence

import (
	"sync"

	"github.com/google/uuid"

	"coinflip-server/internal/model"
)

// Sound identifies a client-side sound effect.
type Sound string

// Sounds played during the coinflip animation.
const (
	SoundClick   Sound = "ui.button.click"
	SoundSuccess Sound = "player.levelup"
)

// Session is a live connection handle for an online participant.
type Session interface {
	// SendMessage delivers a chat message to the participant.
	SendMessage(text string) error

	// PlaySound plays a sound effect for the participant.
	PlaySound(s Sound)
}

type entry struct {
	participant model.Participant
	session     Session
}

// Registry is a thread-safe registry of online participants. Sessions
// join on connect and leave on disconnect; lookups reflect the current
// state, which may change at any point during a game.
type Registry struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]entry
}

// NewRegistry creates an empty presence registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[uuid.UUID]entry)}
}

// Join registers a participant's session. An existing session for the
// same participant is replaced.
func (r *Registry) Join(p model.Participant, s Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[p.ID] = entry{participant: p, session: s}
}

// Leave removes a participant's session.
func (r *Registry) Leave(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
}

// Session returns the live session for a participant, if connected.
func (r *Registry) Session(id uuid.UUID) (Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	return e.session, true
}

// Online returns a snapshot of all currently connected participants.
func (r *Registry) Online() []model.Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Participant, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.participant)
	}
	return out
}

// Count returns the number of connected participants.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
