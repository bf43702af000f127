// Package notify dispatches fire-and-forget completion notifications to
// an external channel. Failures are logged by the caller and never block
// settlement.
package notify

import (
	"fmt"
	"time"

	tele "gopkg.in/telebot.v3"

	"coinflip-server/internal/model"
	"coinflip-server/internal/pkg/format"
)

// Notifier receives a notification after each settled game.
type Notifier interface {
	GameCompleted(winner, loser model.Participant, currency string, profitAfterTax int64) error
}

// TelegramNotifier posts completion notifications to a Telegram chat.
type TelegramNotifier struct {
	bot  *tele.Bot
	chat tele.ChatID
}

// NewTelegramNotifier creates a notifier for the given bot token and
// target chat.
func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram token is required")
	}

	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	bot, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	return &TelegramNotifier{bot: bot, chat: tele.ChatID(chatID)}, nil
}

// GameCompleted posts the game result to the configured chat.
func (n *TelegramNotifier) GameCompleted(winner, loser model.Participant, currency string, profitAfterTax int64) error {
	text := fmt.Sprintf(
		"🪙 %s beat %s in a coinflip and won %s %s!",
		winner.Name, loser.Name, format.Amount(profitAfterTax), currency,
	)
	if _, err := n.bot.Send(n.chat, text); err != nil {
		return fmt.Errorf("failed to send completion notification: %w", err)
	}
	return nil
}
