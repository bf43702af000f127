package coinflip

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"coinflip-server/internal/config"
	"coinflip-server/internal/economy"
	"coinflip-server/internal/event"
	"coinflip-server/internal/gui"
	"coinflip-server/internal/model"
	"coinflip-server/internal/presence"
	"coinflip-server/internal/storage"
)

// inlineScheduler runs every task immediately on the caller's goroutine,
// ignoring pinning and delays, which makes animation runs deterministic.
type inlineScheduler struct{}

func (inlineScheduler) RunAt(_ uuid.UUID, task func()) { task() }
func (inlineScheduler) RunAfter(_ uuid.UUID, _ time.Duration, task func()) { task() }
func (inlineScheduler) RunNeutral(task func()) { task() }
func (inlineScheduler) RunNeutralAfter(_ time.Duration, task func()) { task() }

// recordingSession counts sounds and captures chat messages.
type recordingSession struct {
	mu       sync.Mutex
	messages []string
	sounds   []presence.Sound
}

func (s *recordingSession) SendMessage(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, text)
	return nil
}

func (s *recordingSession) PlaySound(sound presence.Sound) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sounds = append(s.sounds, sound)
}

func (s *recordingSession) soundCount(sound presence.Sound) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, got := range s.sounds {
		if got == sound {
			n++
		}
	}
	return n
}

// sentMessage is one recorded messenger call.
type sentMessage struct {
	to           uuid.UUID
	key          string
	placeholders []string
}

// recordingMessenger captures messenger calls in order.
type recordingMessenger struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (m *recordingMessenger) Send(to uuid.UUID, key string, placeholders ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMessage{to: to, key: key, placeholders: placeholders})
}

func (m *recordingMessenger) byKey(key string) []sentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []sentMessage
	for _, s := range m.sent {
		if s.key == key {
			out = append(out, s)
		}
	}
	return out
}

// recordingSurface tracks the sequence of visuals placed in the center
// cell on top of the regular grid state.
type recordingSurface struct {
	*gui.GridSurface
	mu     sync.Mutex
	center []model.Visual
}

func (s *recordingSurface) SetCell(slot int, v model.Visual) {
	if slot == centerSlot {
		s.mu.Lock()
		s.center = append(s.center, v)
		s.mu.Unlock()
	}
	s.GridSurface.SetCell(slot, v)
}

func (s *recordingSurface) centerHistory() []model.Visual {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Visual(nil), s.center...)
}

// captureFactory hands out recording surfaces and remembers them.
type captureFactory struct {
	mu       sync.Mutex
	surfaces []*recordingSurface
}

func (f *captureFactory) Create(rows int, title string) gui.Surface {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := &recordingSurface{GridSurface: gui.NewGridSurface(rows, title)}
	f.surfaces = append(f.surfaces, s)
	return s
}

// harness wires an Engine against in-memory collaborators.
type harness struct {
	engine    *Engine
	registry  *presence.Registry
	stats     *storage.Manager
	offline   *storage.MemoryOfflineStore
	provider  *economy.MemoryProvider
	factory   *captureFactory
	messenger *recordingMessenger
	bus       *event.Bus

	mu      sync.Mutex
	settled []event.CompletionEvent
}

func testConfig() *config.Config {
	return &config.Config{
		CoinflipGUI: config.GUIConfig{Title: "Coinflip"},
		Settings: config.SettingsConfig{
			Tax:                      config.TaxConfig{Enabled: false, Rate: 0},
			MinimumBroadcastWinnings: 100,
		},
	}
}

func newHarness(cfg *config.Config) *harness {
	h := &harness{
		registry:  presence.NewRegistry(),
		offline:   storage.NewMemoryOfflineStore(),
		provider:  economy.NewMemoryProvider("tokens", "Coins"),
		factory:   &captureFactory{},
		messenger: &recordingMessenger{},
		bus:       event.NewBus(),
	}
	h.stats = storage.NewManager(h.offline)

	providers := economy.NewManager()
	if err := providers.Register(h.provider); err != nil {
		panic(err)
	}

	h.bus.SubscribeCompletion(func(ev event.CompletionEvent) {
		h.mu.Lock()
		h.settled = append(h.settled, ev)
		h.mu.Unlock()
	})

	h.engine = New(cfg, Dependencies{
		Scheduler: inlineScheduler{},
		Displays:  h.factory,
		Economy:   providers,
		Storage:   h.stats,
		Messenger: h.messenger,
		Directory: h.registry,
		Events:    h.bus,
	})
	return h
}

func (h *harness) settlements() []event.CompletionEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]event.CompletionEvent(nil), h.settled...)
}

// join connects a participant with a recording session.
func (h *harness) join(p model.Participant) *recordingSession {
	sess := &recordingSession{}
	h.registry.Join(p, sess)
	return sess
}

func newParticipant(name string) model.Participant {
	return model.Participant{ID: uuid.New(), Name: name}
}

func newGame(creator, opponent model.Participant, amount int64) *model.CoinflipGame {
	return &model.CoinflipGame{
		Amount:     amount,
		Provider:   "tokens",
		Creator:    creator,
		Opponent:   opponent,
		TokenOwner: creator.ID,
		CachedToken: model.Visual{
			Kind: "cached_token",
		},
	}
}
