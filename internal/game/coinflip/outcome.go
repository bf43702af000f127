package coinflip

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"coinflip-server/internal/message"
	"coinflip-server/internal/model"
)

// Outcome is the canonical result of a coinflip draw. It is computed
// once per game and immutable afterwards; both animation chains render
// from the same assignment.
type Outcome struct {
	Winner model.Participant
	Loser  model.Participant
}

// StartGame resolves a matched wager: challenge message, winner draw,
// then the animated reveal and settlement. The challenge goes out before
// any reordering so the template's creator/opponent roles stay accurate.
func (e *Engine) StartGame(creator, opponent model.Participant, game *model.CoinflipGame) {
	e.messenger.Send(opponent.ID, message.KeyPlayerChallenge, "{OPPONENT}", creator.Name)

	outcome := selectOutcome(creator, opponent)

	log.Debug().
		Str("creator", creator.Name).
		Str("opponent", opponent.Name).
		Str("winner", outcome.Winner.Name).
		Int64("amount", game.Amount).
		Msg("Coinflip outcome selected")

	e.runAnimation(outcome, game)
}

// selectOutcome shuffles the two participants with a freshly seeded
// source and draws the winner uniformly.
func selectOutcome(creator, opponent model.Participant) Outcome {
	rng := seededRand(creator.ID, opponent.ID)

	players := []model.Participant{creator, opponent}
	rng.Shuffle(len(players), func(i, j int) {
		players[i], players[j] = players[j], players[i]
	})

	winner := players[rng.IntN(len(players))]
	loser := players[0]
	if loser.ID == winner.ID {
		loser = players[1]
	}

	return Outcome{Winner: winner, Loser: loser}
}

// seededRand builds a ChaCha8 source seeded from crypto entropy mixed
// with the clock and both participant identities, so rapid successive
// games never share a predictable seed.
func seededRand(a, b uuid.UUID) *rand.Rand {
	var seed [32]byte
	// Best effort: on the rare read failure the clock/identity mix below
	// still varies the seed per call.
	_, _ = crand.Read(seed[:])

	var mix [8]byte
	binary.LittleEndian.PutUint64(mix[:], uint64(time.Now().UnixNano()))
	for i := range seed {
		seed[i] ^= mix[i%len(mix)]
		seed[i] ^= a[i%len(a)]
		seed[i] ^= b[i%len(b)]
	}

	return rand.New(rand.NewChaCha8(seed))
}
