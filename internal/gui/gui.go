// Package gui models the server-side state of a grid display surface.
// Actual client rendering is performed by the display toolkit; the server
// only tracks what each cell shows, who is viewing, and when the client
// must be told to redraw.
package gui

import (
	"sync"

	"github.com/google/uuid"

	"coinflip-server/internal/model"
)

// Width is the number of cells per display row.
const Width = 9

// Surface is a titled grid of cells that participants view during a game.
type Surface interface {
	// SetCell places a visual in the given cell.
	SetCell(slot int, v model.Visual)

	// Fill places a visual in every cell except the listed slots.
	Fill(v model.Visual, skip ...int)

	// DisableInteraction makes the surface output-only.
	DisableInteraction()

	// Refresh forces a redraw for every current viewer.
	Refresh()

	// Open adds a viewer to the surface.
	Open(viewerID uuid.UUID)

	// Close removes a viewer from the surface.
	Close(viewerID uuid.UUID)

	// Size returns the number of cells.
	Size() int
}

// Factory creates display surfaces.
type Factory interface {
	Create(rows int, title string) Surface
}

// GridSurface is the in-process Surface implementation. It is safe for
// use from a single task chain; distinct viewers get distinct surfaces.
type GridSurface struct {
	mu          sync.Mutex
	title       string
	cells       []model.Visual
	viewers     map[uuid.UUID]struct{}
	interactive bool
	revision    int
}

// NewGridSurface creates a surface with rows*Width empty cells.
func NewGridSurface(rows int, title string) *GridSurface {
	return &GridSurface{
		title:       title,
		cells:       make([]model.Visual, rows*Width),
		viewers:     make(map[uuid.UUID]struct{}),
		interactive: true,
	}
}

// SetCell places a visual in the given cell. Out-of-range slots are
// ignored rather than panicking; a disconnect-time race with the display
// toolkit must never take the game down.
func (g *GridSurface) SetCell(slot int, v model.Visual) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if slot < 0 || slot >= len(g.cells) {
		return
	}
	g.cells[slot] = v
}

// Fill places a visual in every cell except the listed slots.
func (g *GridSurface) Fill(v model.Visual, skip ...int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := range g.cells {
		skipped := false
		for _, s := range skip {
			if i == s {
				skipped = true
				break
			}
		}
		if !skipped {
			g.cells[i] = v
		}
	}
}

// DisableInteraction makes the surface output-only.
func (g *GridSurface) DisableInteraction() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.interactive = false
}

// Refresh bumps the surface revision, signalling viewers to redraw.
func (g *GridSurface) Refresh() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.revision++
}

// Open adds a viewer.
func (g *GridSurface) Open(viewerID uuid.UUID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.viewers[viewerID] = struct{}{}
}

// Close removes a viewer.
func (g *GridSurface) Close(viewerID uuid.UUID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.viewers, viewerID)
}

// Size returns the number of cells.
func (g *GridSurface) Size() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.cells)
}

// Cell returns the visual currently in the given cell.
func (g *GridSurface) Cell(slot int) model.Visual {
	g.mu.Lock()
	defer g.mu.Unlock()
	if slot < 0 || slot >= len(g.cells) {
		return model.Visual{}
	}
	return g.cells[slot]
}

// Title returns the surface title.
func (g *GridSurface) Title() string {
	return g.title
}

// Interactive reports whether interaction is still enabled.
func (g *GridSurface) Interactive() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.interactive
}

// Revision returns the number of refreshes so far.
func (g *GridSurface) Revision() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.revision
}

// Viewing reports whether the given viewer currently has the surface open.
func (g *GridSurface) Viewing(viewerID uuid.UUID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.viewers[viewerID]
	return ok
}

// GridFactory creates GridSurfaces.
type GridFactory struct{}

// Create returns a new surface with the given row count and title.
func (GridFactory) Create(rows int, title string) Surface {
	return NewGridSurface(rows, title)
}
