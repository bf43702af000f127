package coinflip

import (
	"sync"
	"time"

	"coinflip-server/internal/gui"
	"coinflip-server/internal/model"
	"coinflip-server/internal/presence"
)

// Animation timing and layout.
const (
	// animationFrameThreshold is the number of spinning frames rendered
	// before the terminal frame reveals the outcome.
	animationFrameThreshold = 12

	// frameInterval is the delay between animation frames.
	frameInterval = 500 * time.Millisecond

	// closeDelay is how long the terminal frame stays open before the
	// display is closed for the viewer.
	closeDelay = time.Second

	// guiRows is the height of the coinflip display.
	guiRows = 3

	// centerSlot is the cell the coin token occupies, the middle of the
	// second row.
	centerSlot = gui.Width + gui.Width/2
)

// gameRun ties one game's animation chains to its one-shot settlement
// trigger. Chains share nothing mutable beyond the sync.Once.
type gameRun struct {
	engine      *Engine
	game        *model.CoinflipGame
	outcome     Outcome
	winnerToken model.Visual
	loserToken  model.Visual
	settleOnce  sync.Once
}

// triggerSettlement hands settlement to the neutral context exactly once
// per game, no matter how many chains reach the terminal frame.
func (r *gameRun) triggerSettlement() {
	r.settleOnce.Do(func() {
		r.engine.sched.RunNeutral(func() {
			r.engine.settle(r.outcome, r.game)
		})
	})
}

// animationState is the per-viewer frame state. It is owned exclusively
// by its chain and mutated only between frames.
type animationState struct {
	viewer    model.Participant
	frame     int
	alternate bool
}

// runAnimation schedules an animation chain pinned to each participant
// who is online right now. A participant who is offline gets no visual
// sequence but is still settled: settlement fires from whichever chain
// reaches the terminal frame first, and a neutral fallback timer covers
// the case where no chain exists at all.
func (e *Engine) runAnimation(outcome Outcome, game *model.CoinflipGame) {
	run := &gameRun{
		engine:      e,
		game:        game,
		outcome:     outcome,
		winnerToken: tokenFor(outcome.Winner, game),
		loserToken:  tokenFor(outcome.Loser, game),
	}

	for _, viewer := range []model.Participant{outcome.Winner, outcome.Loser} {
		if _, online := e.directory.Session(viewer.ID); !online {
			continue
		}
		viewer := viewer
		e.sched.RunAt(viewer.ID, func() {
			surface := e.displays.Create(guiRows, e.title)
			surface.DisableInteraction()
			surface.Open(viewer.ID)
			e.frameLoop(run, surface, &animationState{viewer: viewer})
		})
	}

	fallback := time.Duration(animationFrameThreshold+2) * frameInterval
	e.sched.RunNeutralAfter(fallback, run.triggerSettlement)
}

// frameLoop renders one frame and reschedules itself, pinned to the
// viewer, until the terminal frame. Disconnection makes rendering inert
// but never stops the chain; timing stays independent of connectivity.
func (e *Engine) frameLoop(run *gameRun, surface gui.Surface, st *animationState) {
	var frame func()
	frame = func() {
		if st.frame >= animationFrameThreshold {
			e.renderTerminalFrame(run, surface, st)
			run.triggerSettlement()
			return
		}
		st.frame++

		center := run.loserToken
		filler := e.secondFiller
		if st.alternate {
			center = run.winnerToken
			filler = e.firstFiller
		}
		surface.SetCell(centerSlot, center)
		surface.Fill(filler, centerSlot)
		st.alternate = !st.alternate

		if sess, online := e.directory.Session(st.viewer.ID); online {
			sess.PlaySound(presence.SoundClick)
			surface.Refresh()
		}

		e.sched.RunAfter(st.viewer.ID, frameInterval, frame)
	}
	frame()
}

// renderTerminalFrame locks the winner token into the center, fills the
// rest with the success visual, and schedules the display to close.
func (e *Engine) renderTerminalFrame(run *gameRun, surface gui.Surface, st *animationState) {
	surface.SetCell(centerSlot, run.winnerToken)
	surface.Fill(successVisual, centerSlot)
	surface.DisableInteraction()
	surface.Refresh()

	if sess, online := e.directory.Session(st.viewer.ID); online {
		sess.PlaySound(presence.SoundSuccess)
		e.sched.RunAfter(st.viewer.ID, closeDelay, func() {
			if _, stillOnline := e.directory.Session(st.viewer.ID); stillOnline {
				surface.Close(st.viewer.ID)
			}
		})
	}
}
