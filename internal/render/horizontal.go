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
	gutterColor = color.NRGBA{R: 0xf8, G: 0xf8, B: 0xf8, A: 0xff}
	rollColor   = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

const playheadWidth = 2

type horizontalRenderer struct {
	l    *layout.Horizontal
	face font.Face
}

func (r *horizontalRenderer) Layout() layout.Layout { return r.l }

// RenderStatic draws the label gutter, the roll background and a grid line on
// every C row.
func (r *horizontalRenderer) RenderStatic(dc *gg.Context) {
	st := r.l.Style()
	cfg := r.l.Config()
	w, h := r.l.Size()
	pitches := r.l.Pitches()
	rowH := r.l.RowHeight()

	clearSurface(dc)
	dc.SetColor(gutterColor)
	dc.DrawRectangle(0, 0, cfg.LabelWidth, float64(h))
	dc.Fill()
	dc.SetColor(rollColor)
	dc.DrawRectangle(r.l.RollLeft(), 0, r.l.RollWidth(), float64(h))
	dc.Fill()

	dc.SetLineWidth(1)
	dc.SetColor(st.Grid)
	for p := pitches.Min; p <= pitches.Max; p++ {
		if p%12 != 0 {
			continue
		}
		y := r.l.PitchToY(p) + 0.5
		dc.DrawLine(r.l.RollLeft(), y, float64(w), y)
		dc.Stroke()
	}

	if cfg.LabelWidth <= 0 {
		return
	}
	dc.SetFontFace(r.face)
	dc.SetColor(st.Label)
	for p := pitches.Min; p <= pitches.Max; p++ {
		if p%12 != 0 {
			continue
		}
		y := r.l.PitchToY(p) + rowH/2
		dc.DrawStringAnchored(note.Name(p), cfg.LabelWidth-5, y, 1, 0.5)
	}
}

func (r *horizontalRenderer) Placements(notes []note.Note, vp viewport.Viewport) []Placement {
	return placements(r.l, notes, vp)
}

// RenderDynamic draws the visible notes and the playhead. Notes that have
// finished are faded to PlayedAlpha.
func (r *horizontalRenderer) RenderDynamic(dc *gg.Context, notes []note.Note, vp viewport.Viewport) {
	st := r.l.Style()
	alpha := r.l.Config().PlayedAlpha
	_, h := r.l.Size()

	clearSurface(dc)
	for _, p := range r.Placements(notes, vp) {
		fill := noteColor(st, p)
		if p.Played {
			fill = withAlpha(fill, alpha)
		}
		fillBevelled(dc, p.Rect, fill)
	}

	dc.SetColor(st.Playhead)
	dc.DrawRectangle(vp.Cursor, 0, playheadWidth, float64(h))
	dc.Fill()
}
