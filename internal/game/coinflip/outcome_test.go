package coinflip

import (
	"testing"

	"coinflip-server/internal/message"
)

// TestSelectOutcomeRoles verifies the draw always yields one winner and
// one loser from the two candidates.
func TestSelectOutcomeRoles(t *testing.T) {
	creator := newParticipant("Alice")
	opponent := newParticipant("Bob")

	for i := 0; i < 100; i++ {
		outcome := selectOutcome(creator, opponent)

		if outcome.Winner.ID != creator.ID && outcome.Winner.ID != opponent.ID {
			t.Fatalf("winner %s is neither participant", outcome.Winner.Name)
		}
		if outcome.Loser.ID == outcome.Winner.ID {
			t.Fatalf("winner and loser are both %s", outcome.Winner.Name)
		}
	}
}

// TestSelectOutcomeUniformity runs many draws with fixed participants and
// checks neither side wins disproportionately.
func TestSelectOutcomeUniformity(t *testing.T) {
	creator := newParticipant("Alice")
	opponent := newParticipant("Bob")

	const trials = 10000
	creatorWins := 0
	for i := 0; i < trials; i++ {
		if selectOutcome(creator, opponent).Winner.ID == creator.ID {
			creatorWins++
		}
	}

	// ~3.9 standard deviations around a fair coin; a biased draw fails,
	// a fair one fails less than once in ten thousand runs.
	low, high := 4500, 5500
	if creatorWins < low || creatorWins > high {
		t.Errorf("creator won %d of %d trials, want within [%d, %d]", creatorWins, trials, low, high)
	}
}

// TestStartGameChallengeFirst verifies the opponent is challenged with
// the creator's name before anything else happens.
func TestStartGameChallengeFirst(t *testing.T) {
	h := newHarness(testConfig())
	alice := newParticipant("Alice")
	bob := newParticipant("Bob")
	h.join(alice)
	h.join(bob)

	h.engine.StartGame(alice, bob, newGame(alice, bob, 500))

	h.messenger.mu.Lock()
	defer h.messenger.mu.Unlock()
	if len(h.messenger.sent) == 0 {
		t.Fatal("no messages sent")
	}
	first := h.messenger.sent[0]
	if first.key != message.KeyPlayerChallenge {
		t.Fatalf("first message key = %q, want %q", first.key, message.KeyPlayerChallenge)
	}
	if first.to != bob.ID {
		t.Errorf("challenge sent to %s, want opponent %s", first.to, bob.ID)
	}
	want := []string{"{OPPONENT}", "Alice"}
	if len(first.placeholders) != 2 || first.placeholders[0] != want[0] || first.placeholders[1] != want[1] {
		t.Errorf("challenge placeholders = %v, want %v", first.placeholders, want)
	}
}
