package render

import (
	"image/color"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/cbegin/midiviz-go/internal/layout"
	"github.com/cbegin/midiviz-go/internal/note"
	"github.com/cbegin/midiviz-go/internal/viewport"
)

var (
	laneColor     = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	whiteKeyColor = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	keyEdgeColor  = color.NRGBA{R: 0xaa, G: 0xaa, B: 0xaa, A: 0xff}
	blackKeyColor = color.NRGBA{A: 0xff}
)

const hitLineWidth = 2

type verticalRenderer struct {
	l    *layout.Vertical
	face font.Face
}

func (r *verticalRenderer) Layout() layout.Layout { return r.l }

// RenderStatic draws the lanes above the hit line and the idle keyboard.
func (r *verticalRenderer) RenderStatic(dc *gg.Context) {
	st := r.l.Style()
	w, _ := r.l.Size()
	keys := r.l.Keys()
	kbY := r.l.KeyboardY()
	kbH := r.l.KeyboardHeight()

	clearSurface(dc)
	dc.SetColor(laneColor)
	dc.DrawRectangle(0, 0, float64(w), kbY)
	dc.Fill()

	// Lane separators on C and F, where two white keys meet.
	dc.SetLineWidth(1)
	dc.SetColor(st.Grid)
	for p := keys.Min + 1; p <= keys.Max; p++ {
		if pc := p % 12; pc != 0 && pc != 5 {
			continue
		}
		x := r.l.PitchToX(p) + 0.5
		dc.DrawLine(x, 0, x, kbY)
		dc.Stroke()
	}

	dc.SetColor(whiteKeyColor)
	dc.DrawRectangle(0, kbY, float64(w), kbH)
	dc.Fill()
	dc.SetColor(keyEdgeColor)
	for p := keys.Min; p <= keys.Max; p++ {
		k := r.l.Key(p)
		if k.Black {
			continue
		}
		dc.DrawRectangle(k.X+0.5, kbY+0.5, k.W-1, kbH-1)
		dc.Stroke()
	}
	r.drawBlackKeys(dc, nil)

	dc.SetFontFace(r.face)
	dc.SetColor(st.Label)
	for p := keys.Min; p <= keys.Max; p++ {
		if p%12 != 0 {
			continue
		}
		k := r.l.Key(p)
		dc.DrawStringAnchored(note.Name(p), k.X+k.W/2, kbY+kbH-5, 0.5, 0)
	}
}

func (r *verticalRenderer) drawBlackKeys(dc *gg.Context, skip map[int]bool) {
	keys := r.l.Keys()
	dc.SetColor(blackKeyColor)
	for p := keys.Min; p <= keys.Max; p++ {
		k := r.l.Key(p)
		if !k.Black || skip[p] {
			continue
		}
		dc.DrawRectangle(k.X, r.l.KeyboardY(), k.W, r.l.BlackKeyHeight())
		dc.Fill()
	}
}

func (r *verticalRenderer) Placements(notes []note.Note, vp viewport.Viewport) []Placement {
	return placements(r.l, notes, vp)
}

// RenderDynamic lights the sounding keys, then draws the falling notes and the
// hit line. Notes below the hit line are gone.
func (r *verticalRenderer) RenderDynamic(dc *gg.Context, notes []note.Note, vp viewport.Viewport) {
	st := r.l.Style()
	w, _ := r.l.Size()
	keys := r.l.Keys()

	clearSurface(dc)
	active := make(map[int]bool)
	for _, n := range notes {
		if n.Start > vp.Time {
			break
		}
		if !n.ActiveAt(vp.Time) || !keys.Contains(n.Pitch) {
			continue
		}
		active[n.Pitch] = true
		k := r.l.Key(n.Pitch)
		h := r.l.KeyboardHeight()
		if k.Black {
			h = r.l.BlackKeyHeight()
		}
		fillBevelled(dc, layout.Rect{X: k.X, Y: r.l.KeyboardY(), W: k.W, H: h}, velocityColor(st.Highlight, n.Velocity))
	}
	// Idle black keys sit on top of any lit white neighbour.
	r.drawBlackKeys(dc, active)

	for _, p := range r.Placements(notes, vp) {
		fillBevelled(dc, p.Rect, noteColor(st, p))
	}

	dc.SetColor(st.Playhead)
	dc.SetLineWidth(hitLineWidth)
	dc.DrawLine(0, vp.Cursor, float64(w), vp.Cursor)
	dc.Stroke()
}
