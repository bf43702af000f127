// Package model defines the data models shared across the coinflip server.
package model

import "github.com/google/uuid"

// Participant is one side of a coinflip wager. The server does not own
// participants; they are referenced by games and resolved against the
// presence registry, since online status can change mid-game.
type Participant struct {
	ID   uuid.UUID
	Name string
}

// CoinflipGame holds an already-matched wager between two participants.
// It is created by matchmaking, consumed exactly once by the resolution
// engine, and discarded after settlement.
type CoinflipGame struct {
	// Amount is the stake each participant committed, in minor currency
	// units. Always positive.
	Amount int64

	// Provider identifies the currency provider the stake was taken in.
	Provider string

	// Creator opened the game; Opponent accepted the challenge.
	Creator  Participant
	Opponent Participant

	// TokenOwner and CachedToken carry the precomputed avatar visual for
	// one participant, so the animation can render it without a lookup.
	TokenOwner  uuid.UUID
	CachedToken Visual
}

// Visual describes one cell's content on a display surface. Kind is a
// client-side material/sprite identifier, Name an optional display label.
type Visual struct {
	Kind string
	Name string
}
