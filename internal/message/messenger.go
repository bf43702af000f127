// Package message delivers templated chat messages to participants.
// Templates come from configuration and use {PLACEHOLDER} substitution.
package message

import (
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"coinflip-server/internal/presence"
)

// Template keys used by the coinflip engine.
const (
	KeyPlayerChallenge   = "player-challenge"
	KeyGameSummaryWin    = "game-summary-win"
	KeyGameSummaryLoss   = "game-summary-loss"
	KeyCoinflipBroadcast = "coinflip-broadcast"
)

// Messenger renders templates and delivers them through live sessions.
// Sends to participants with no reachable session are silently skipped.
type Messenger struct {
	templates map[string]string
	registry  *presence.Registry
}

// NewMessenger creates a Messenger over the given templates and registry.
func NewMessenger(templates map[string]string, registry *presence.Registry) *Messenger {
	return &Messenger{templates: templates, registry: registry}
}

// Send renders the template registered under key with the placeholder
// pairs applied and delivers it to the recipient, if connected.
// Placeholders are given as alternating name/value pairs, e.g.
// "{WINNER}", "Alice".
func (m *Messenger) Send(to uuid.UUID, key string, placeholders ...string) {
	sess, ok := m.registry.Session(to)
	if !ok {
		return
	}

	tmpl, ok := m.templates[key]
	if !ok {
		log.Warn().Str("key", key).Msg("No message template configured")
		return
	}

	text := strings.NewReplacer(placeholders...).Replace(tmpl)
	if err := sess.SendMessage(text); err != nil {
		log.Debug().Err(err).Str("key", key).Stringer("recipient", to).Msg("Failed to deliver message")
	}
}
