// Package main is the entry point for the coinflip resolution server.
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"coinflip-server/internal/config"
	"coinflip-server/internal/economy"
	"coinflip-server/internal/event"
	"coinflip-server/internal/game/coinflip"
	"coinflip-server/internal/gui"
	"coinflip-server/internal/message"
	"coinflip-server/internal/model"
	"coinflip-server/internal/notify"
	"coinflip-server/internal/presence"
	"coinflip-server/internal/sched"
	"coinflip-server/internal/storage"
)

func main() {
	demo := flag.Bool("demo", false, "resolve one demo game between two local players and exit")
	flag.Parse()

	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log.Info().Msg("Configuration loaded successfully")

	// Scheduling substrate
	scheduler := sched.New()
	defer scheduler.Shutdown()

	// Presence, stats storage and currency providers
	registry := presence.NewRegistry()
	stats := storage.NewManager(storage.NewMemoryOfflineStore())

	providers := economy.NewManager()
	if err := providers.Register(economy.NewMemoryProvider("tokens", "Coins")); err != nil {
		log.Fatal().Err(err).Msg("Failed to register currency provider")
	}
	log.Info().Strs("providers", providers.Names()).Msg("Currency providers registered")

	// Completion events
	bus := event.NewBus()
	bus.SubscribeCompletion(func(ev event.CompletionEvent) {
		log.Info().
			Str("winner", ev.Winner.Name).
			Str("loser", ev.Loser.Name).
			Int64("profit", ev.ProfitAfterTax).
			Msg("Coinflip completed")
	})

	// Optional external notification hook
	var notifier notify.Notifier
	if cfg.Notifications.Telegram.Enabled {
		tn, err := notify.NewTelegramNotifier(cfg.Notifications.Telegram.Token, cfg.Notifications.Telegram.ChatID)
		if err != nil {
			log.Error().Err(err).Msg("Failed to initialize telegram notifier, continuing without it")
		} else {
			notifier = tn
			log.Info().Msg("Telegram completion notifications enabled")
		}
	}

	engine := coinflip.New(cfg, coinflip.Dependencies{
		Scheduler: scheduler,
		Displays:  gui.GridFactory{},
		Economy:   providers,
		Storage:   stats,
		Messenger: message.NewMessenger(cfg.Messages, registry),
		Directory: registry,
		Notifier:  notifier,
		Events:    bus,
	})

	if *demo {
		runDemo(engine, registry, stats)
		return
	}

	log.Info().Msg("Coinflip engine ready")

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down")
}

// consoleSession is a stand-in session used by the demo run.
type consoleSession struct {
	name string
}

func (s *consoleSession) SendMessage(text string) error {
	log.Info().Str("player", s.name).Str("message", text).Msg("Chat")
	return nil
}

func (s *consoleSession) PlaySound(sound presence.Sound) {
	log.Debug().Str("player", s.name).Str("sound", string(sound)).Msg("Sound")
}

// runDemo resolves a single wager between two local players so the whole
// pipeline can be exercised without a game client.
func runDemo(engine *coinflip.Engine, registry *presence.Registry, stats *storage.Manager) {
	alice := model.Participant{ID: uuid.New(), Name: "Alice"}
	bob := model.Participant{ID: uuid.New(), Name: "Bob"}

	registry.Join(alice, &consoleSession{name: alice.Name})
	registry.Join(bob, &consoleSession{name: bob.Name})
	stats.LoadPlayer(alice.ID)
	stats.LoadPlayer(bob.ID)

	engine.StartGame(alice, bob, &model.CoinflipGame{
		Amount:     500,
		Provider:   "tokens",
		Creator:    alice,
		Opponent:   bob,
		TokenOwner: alice.ID,
	})

	// Let the animation chains and settlement run out.
	time.Sleep(10 * time.Second)
	log.Info().Msg("Demo game finished")
}
