package coinflip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"coinflip-server/internal/message"
)

// TestSettlementExactlyOnce exercises every online/offline combination.
// Whichever chains exist, plus the neutral fallback, must resolve to a
// single settlement and a single payout deposit.
func TestSettlementExactlyOnce(t *testing.T) {
	tests := []struct {
		name         string
		winnerOnline bool
		loserOnline  bool
	}{
		{"both online", true, true},
		{"only winner online", true, false},
		{"only loser online", false, true},
		{"neither online", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(testConfig())
			winner := newParticipant("Alice")
			loser := newParticipant("Bob")
			if tt.winnerOnline {
				h.join(winner)
			}
			if tt.loserOnline {
				h.join(loser)
			}

			game := newGame(winner, loser, 500)
			h.engine.runAnimation(Outcome{Winner: winner, Loser: loser}, game)

			require.Len(t, h.settlements(), 1)
			assert.Equal(t, winner.ID, h.settlements()[0].Winner.ID)
			assert.Equal(t, int64(1000), h.provider.Balance(winner.ID), "payout deposited exactly once")
			assert.Equal(t, int64(0), h.provider.Balance(loser.ID))
		})
	}
}

func TestSettlementTaxed(t *testing.T) {
	cfg := testConfig()
	cfg.Settings.Tax.Enabled = true
	cfg.Settings.Tax.Rate = 10

	h := newHarness(cfg)
	winner := newParticipant("Alice")
	loser := newParticipant("Bob")
	h.join(winner)
	h.join(loser)
	h.stats.LoadPlayer(winner.ID)

	h.engine.runAnimation(Outcome{Winner: winner, Loser: loser}, newGame(winner, loser, 1000))

	assert.Equal(t, int64(1900), h.provider.Balance(winner.ID))

	require.Len(t, h.settlements(), 1)
	assert.Equal(t, int64(900), h.settlements()[0].ProfitAfterTax)

	data, ok := h.stats.Player(winner.ID)
	require.True(t, ok)
	assert.Equal(t, int64(900), data.Profit(), "profit counted after tax")
	assert.Equal(t, int64(1000), data.TotalGambled(), "gambled counted before tax")

	wins := h.messenger.byKey(message.KeyGameSummaryWin)
	require.Len(t, wins, 1)
	assert.Contains(t, wins[0].placeholders, "900")
	assert.Contains(t, wins[0].placeholders, "100")
}

// TestStatsPathEquivalence checks that the cached-record path and the
// offline-update path leave equivalent counters for identical inputs.
func TestStatsPathEquivalence(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		wager := rapid.Int64Range(1, 1_000_000).Draw(t, "wager")
		winAmount := rapid.Int64Range(0, wager).Draw(t, "winAmount")
		isWinner := rapid.Bool().Draw(t, "isWinner")

		h := newHarness(testConfig())
		cached := newParticipant("Cached")
		offline := newParticipant("Offline")
		cachedData := h.stats.LoadPlayer(cached.ID)

		h.engine.applyResult(cached, isWinner, winAmount, wager)
		h.engine.applyResult(offline, isWinner, winAmount, wager)

		wins, losses, profit, totalLosses, gambled, err := h.offline.Snapshot(offline.ID)
		if err != nil {
			t.Fatalf("offline record missing: %v", err)
		}

		if cachedData.Wins() != wins || cachedData.Losses() != losses ||
			cachedData.Profit() != profit || cachedData.TotalLosses() != totalLosses ||
			cachedData.TotalGambled() != gambled {
			t.Fatalf("paths diverged: cached {%d %d %d %d %d}, offline {%d %d %d %d %d}",
				cachedData.Wins(), cachedData.Losses(), cachedData.Profit(),
				cachedData.TotalLosses(), cachedData.TotalGambled(),
				wins, losses, profit, totalLosses, gambled)
		}
	})
}

func TestBroadcastThresholdBoundary(t *testing.T) {
	tests := []struct {
		name     string
		wager    int64
		minimum  int64
		expected int
	}{
		{"winnings equal to minimum broadcast", 500, 500, 1},
		{"winnings below minimum do not", 499, 500, 0},
		{"winnings above minimum broadcast", 501, 500, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.Settings.MinimumBroadcastWinnings = tt.minimum

			h := newHarness(cfg)
			winner := newParticipant("Alice")
			loser := newParticipant("Bob")
			spectator := newParticipant("Carol")
			h.join(spectator)
			h.stats.LoadPlayer(spectator.ID)

			h.engine.runAnimation(Outcome{Winner: winner, Loser: loser}, newGame(winner, loser, tt.wager))

			assert.Len(t, h.messenger.byKey(message.KeyCoinflipBroadcast), tt.expected)
		})
	}
}

func TestBroadcastRespectsPreferenceAndRecords(t *testing.T) {
	h := newHarness(testConfig())
	winner := newParticipant("Alice")
	loser := newParticipant("Bob")

	optedIn := newParticipant("Carol")
	optedOut := newParticipant("Dave")
	noRecord := newParticipant("Erin")
	h.join(optedIn)
	h.join(optedOut)
	h.join(noRecord)
	h.stats.LoadPlayer(optedIn.ID)
	h.stats.LoadPlayer(optedOut.ID).SetDisplayBroadcastMessages(false)

	h.engine.runAnimation(Outcome{Winner: winner, Loser: loser}, newGame(winner, loser, 500))

	broadcasts := h.messenger.byKey(message.KeyCoinflipBroadcast)
	require.Len(t, broadcasts, 1)
	assert.Equal(t, optedIn.ID, broadcasts[0].to)
}

// TestCoinflipEndToEnd plays a whole game through StartGame with both
// participants online and checks every settlement effect.
func TestCoinflipEndToEnd(t *testing.T) {
	cfg := testConfig()
	cfg.Settings.MinimumBroadcastWinnings = 500

	h := newHarness(cfg)
	alice := newParticipant("Alice")
	bob := newParticipant("Bob")
	h.join(alice)
	h.join(bob)
	aliceData := h.stats.LoadPlayer(alice.ID)
	bobData := h.stats.LoadPlayer(bob.ID)

	h.engine.StartGame(alice, bob, newGame(alice, bob, 500))

	// Challenge went to Bob before anything else.
	h.messenger.mu.Lock()
	first := h.messenger.sent[0]
	h.messenger.mu.Unlock()
	require.Equal(t, message.KeyPlayerChallenge, first.key)
	require.Equal(t, bob.ID, first.to)

	settlements := h.settlements()
	require.Len(t, settlements, 1)
	winner, loser := settlements[0].Winner, settlements[0].Loser
	assert.Equal(t, int64(500), settlements[0].ProfitAfterTax)

	winnerData, loserData := aliceData, bobData
	if winner.ID == bob.ID {
		winnerData, loserData = bobData, aliceData
	}

	assert.Equal(t, int64(1000), h.provider.Balance(winner.ID), "both stakes paid out untaxed")

	assert.Equal(t, int64(1), winnerData.Wins())
	assert.Equal(t, int64(500), winnerData.Profit())
	assert.Equal(t, int64(500), winnerData.TotalGambled())
	assert.Equal(t, int64(0), winnerData.Losses())

	assert.Equal(t, int64(1), loserData.Losses())
	assert.Equal(t, int64(500), loserData.TotalLosses())
	assert.Equal(t, int64(500), loserData.TotalGambled())
	assert.Equal(t, int64(0), loserData.Wins())

	wins := h.messenger.byKey(message.KeyGameSummaryWin)
	require.Len(t, wins, 1)
	assert.Equal(t, winner.ID, wins[0].to)
	losses := h.messenger.byKey(message.KeyGameSummaryLoss)
	require.Len(t, losses, 1)
	assert.Equal(t, loser.ID, losses[0].to)

	// 500 winnings meet the 500 minimum, so both connected players with
	// records and default preferences hear about it.
	assert.Len(t, h.messenger.byKey(message.KeyCoinflipBroadcast), 2)

	// Terminal frame reveals the winner's token on both surfaces.
	require.Len(t, h.factory.surfaces, 2)
	for _, surface := range h.factory.surfaces {
		assert.Equal(t, winner.Name, surface.Cell(centerSlot).Name)
	}
}
