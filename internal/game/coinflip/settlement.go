package coinflip

import (
	"strconv"

	"github.com/rs/zerolog/log"

	"coinflip-server/internal/event"
	"coinflip-server/internal/message"
	"coinflip-server/internal/model"
	"coinflip-server/internal/pkg/format"
)

// settle executes the one-time settlement for a finished game on the
// neutral context: payout, completion event, notification hook, stats,
// summary messages, broadcast. Steps are failure-isolated; a collaborator
// error is logged and the remaining steps still run.
func (e *Engine) settle(outcome Outcome, game *model.CoinflipGame) {
	rec := ComputePayout(game.Amount, e.taxEnabled, e.taxRate)

	currencyName := game.Provider
	provider, err := e.economy.Provider(game.Provider)
	if err != nil {
		log.Error().Err(err).Str("provider", game.Provider).Msg("Currency provider lookup failed")
	} else {
		currencyName = provider.DisplayName()
		if err := provider.Deposit(outcome.Winner.ID, rec.Payout); err != nil {
			log.Error().Err(err).
				Str("winner", outcome.Winner.Name).
				Int64("payout", rec.Payout).
				Msg("Failed to deposit coinflip payout")
		}
	}

	e.events.PublishCompletion(event.CompletionEvent{
		Winner:         outcome.Winner,
		Loser:          outcome.Loser,
		ProfitAfterTax: rec.ProfitAfterTax,
	})

	if e.notifier != nil {
		winner, loser := outcome.Winner, outcome.Loser
		currency := currencyName
		go func() {
			if err := e.notifier.GameCompleted(winner, loser, currency, rec.ProfitAfterTax); err != nil {
				log.Error().Err(err).Msg("An error occurred when triggering the completion notification")
			}
		}()
	}

	e.applyResult(outcome.Winner, true, rec.ProfitAfterTax, game.Amount)
	e.applyResult(outcome.Loser, false, 0, game.Amount)

	placeholders := e.resultPlaceholders(rec, outcome, currencyName)
	e.messenger.Send(outcome.Winner.ID, message.KeyGameSummaryWin, placeholders...)
	e.messenger.Send(outcome.Loser.ID, message.KeyGameSummaryLoss, placeholders...)

	e.maybeBroadcast(rec, outcome, currencyName)

	log.Info().
		Str("winner", outcome.Winner.Name).
		Str("loser", outcome.Loser.Name).
		Int64("wager", game.Amount).
		Int64("payout", rec.Payout).
		Int64("taxed", rec.Taxed).
		Str("currency", currencyName).
		Msg("Coinflip settled")
}

// applyResult records a game result for one player, mutating the cached
// record when resident and falling back to the offline-update path
// otherwise.
func (e *Engine) applyResult(p model.Participant, isWinner bool, winAmount, wager int64) {
	if data, ok := e.storage.Player(p.ID); ok {
		if isWinner {
			data.UpdateWins()
			data.UpdateProfit(winAmount)
			data.UpdateGambled(wager)
		} else {
			data.UpdateLosses()
			data.UpdateTotalLosses(wager)
			data.UpdateGambled(wager)
		}
		return
	}

	var err error
	if isWinner {
		err = e.storage.UpdateOfflinePlayerWin(p.ID, winAmount, wager)
	} else {
		err = e.storage.UpdateOfflinePlayerLoss(p.ID, wager)
	}
	if err != nil {
		log.Error().Err(err).Str("player", p.Name).Msg("Failed to apply offline stats update")
	}
}

// maybeBroadcast announces the result to every connected player whose
// preference allows it, gated by the configured minimum winnings.
// The boundary is inclusive.
func (e *Engine) maybeBroadcast(rec SettlementRecord, outcome Outcome, currencyName string) {
	if rec.ProfitAfterTax < e.minimumBroadcastWinnings {
		return
	}

	placeholders := e.resultPlaceholders(rec, outcome, currencyName)
	for _, p := range e.directory.Online() {
		data, ok := e.storage.Player(p.ID)
		if !ok || !data.DisplayBroadcastMessages() {
			continue
		}
		e.messenger.Send(p.ID, message.KeyCoinflipBroadcast, placeholders...)
	}
}

// resultPlaceholders builds the shared placeholder set used by summary
// and broadcast messages.
func (e *Engine) resultPlaceholders(rec SettlementRecord, outcome Outcome, currencyName string) []string {
	return []string{
		"{TAX_RATE}", strconv.FormatFloat(e.taxRate, 'f', -1, 64),
		"{TAX_DEDUCTION}", format.Amount(rec.Taxed),
		"{WINNER}", outcome.Winner.Name,
		"{LOSER}", outcome.Loser.Name,
		"{CURRENCY}", currencyName,
		"{WINNINGS}", format.Amount(rec.ProfitAfterTax),
	}
}
