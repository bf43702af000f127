// Package coinflip implements the animated resolution sequence for a
// two-player coinflip wager: a fairness-hardened winner draw, a
// synchronized slot-machine-style animation rendered to each online
// participant, and exactly-once settlement of the wager.
package coinflip

import (
	"time"

	"github.com/google/uuid"

	"coinflip-server/internal/config"
	"coinflip-server/internal/economy"
	"coinflip-server/internal/event"
	"coinflip-server/internal/gui"
	"coinflip-server/internal/model"
	"coinflip-server/internal/notify"
	"coinflip-server/internal/presence"
	"coinflip-server/internal/storage"
)

// Scheduler is the task-scheduling substrate. Tasks pinned to the same
// key run serially in FIFO order; the neutral context is for work that
// touches global state rather than viewer-local state.
type Scheduler interface {
	RunAt(key uuid.UUID, task func())
	RunAfter(key uuid.UUID, delay time.Duration, task func())
	RunNeutral(task func())
	RunNeutralAfter(delay time.Duration, task func())
}

// Directory resolves participants to live sessions. Connectivity may
// change at any point during a game; the engine re-checks before every
// session-touching call.
type Directory interface {
	Session(id uuid.UUID) (presence.Session, bool)
	Online() []model.Participant
}

// StatsStore is the player-statistics collaborator. Cached records are
// mutated in place; absent records are updated through the offline path.
type StatsStore interface {
	Player(id uuid.UUID) (*storage.PlayerData, bool)
	UpdateOfflinePlayerWin(id uuid.UUID, winAmount, wager int64) error
	UpdateOfflinePlayerLoss(id uuid.UUID, wager int64) error
}

// Messenger delivers templated messages. Sends to unreachable recipients
// are silently skipped.
type Messenger interface {
	Send(to uuid.UUID, key string, placeholders ...string)
}

// Default visuals used when no animation visuals are configured.
var (
	defaultFirstFiller  = model.Visual{Kind: "yellow_pane"}
	defaultSecondFiller = model.Visual{Kind: "gray_pane"}
	successVisual       = model.Visual{Kind: "light_blue_pane"}
)

// visualKindPlayerToken is the generic avatar visual for a participant
// whose token was not precomputed on the game.
const visualKindPlayerToken = "player_token"

// Engine resolves coinflip games. One Engine serves the whole server;
// concurrent games are independent and share no state.
type Engine struct {
	title                    string
	taxEnabled               bool
	taxRate                  float64
	minimumBroadcastWinnings int64
	firstFiller              model.Visual
	secondFiller             model.Visual

	sched     Scheduler
	displays  gui.Factory
	economy   *economy.Manager
	storage   StatsStore
	messenger Messenger
	directory Directory
	notifier  notify.Notifier
	events    *event.Bus
}

// Dependencies holds the collaborators an Engine needs.
type Dependencies struct {
	Scheduler Scheduler
	Displays  gui.Factory
	Economy   *economy.Manager
	Storage   StatsStore
	Messenger Messenger
	Directory Directory

	// Notifier is optional; nil disables the external notification hook.
	Notifier notify.Notifier

	Events *event.Bus
}

// New creates an Engine from a configuration snapshot and collaborators.
func New(cfg *config.Config, deps Dependencies) *Engine {
	e := &Engine{
		title:                    cfg.CoinflipGUI.Title,
		taxEnabled:               cfg.Settings.Tax.Enabled,
		taxRate:                  cfg.Settings.Tax.Rate,
		minimumBroadcastWinnings: cfg.Settings.MinimumBroadcastWinnings,
		firstFiller:              defaultFirstFiller,
		secondFiller:             defaultSecondFiller,

		sched:     deps.Scheduler,
		displays:  deps.Displays,
		economy:   deps.Economy,
		storage:   deps.Storage,
		messenger: deps.Messenger,
		directory: deps.Directory,
		notifier:  deps.Notifier,
		events:    deps.Events,
	}

	if v := cfg.CoinflipGUI.Animation.First; v != nil {
		e.firstFiller = model.Visual{Kind: v.Kind, Name: v.Name}
	}
	if v := cfg.CoinflipGUI.Animation.Second; v != nil {
		e.secondFiller = model.Visual{Kind: v.Kind, Name: v.Name}
	}

	return e
}

// tokenFor returns the avatar visual shown for a participant, preferring
// the token cached on the game.
func tokenFor(p model.Participant, game *model.CoinflipGame) model.Visual {
	if p.ID == game.TokenOwner && game.CachedToken != (model.Visual{}) {
		v := game.CachedToken
		v.Name = p.Name
		return v
	}
	return model.Visual{Kind: visualKindPlayerToken, Name: p.Name}
}
