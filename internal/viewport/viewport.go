// Package viewport derives the per-frame view from the playback time.
// Nothing here is stored between frames.
package viewport

import (
	"math"

	"github.com/cbegin/midiviz-go/internal/layout"
	"github.com/cbegin/midiviz-go/internal/note"
)

// Viewport is the view of a layout at one instant.
type Viewport struct {
	Time float64
	// ScrollX is the horizontal content offset; 0 in vertical mode.
	ScrollX float64
	// Cursor is the playhead x or the hit line y.
	Cursor float64
	// Start and End bound the note time that is on screen.
	Start float64
	End   float64
}

// Compute returns the viewport of l at time t. Negative or non-finite times
// are treated as 0.
func Compute(l layout.Layout, t float64) Viewport {
	if math.IsNaN(t) || math.IsInf(t, 0) || t < 0 {
		t = 0
	}
	start, end := l.Visible(t)
	return Viewport{
		Time:    t,
		ScrollX: l.Scroll(t),
		Cursor:  l.Cursor(),
		Start:   start,
		End:     end,
	}
}

// Intersects reports whether any part of n falls inside the viewport's time span.
func (v Viewport) Intersects(n note.Note) bool {
	return n.End >= v.Start && n.Start <= v.End
}
