// Package render paints a layout onto gg surfaces.
//
// The static layer holds everything that does not depend on time and is drawn
// once per layout. The dynamic layer is cleared and redrawn for every frame
// from the note set and a viewport, and nothing else.
package render

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"

	"github.com/cbegin/midiviz-go/internal/failure"
	"github.com/cbegin/midiviz-go/internal/layout"
	"github.com/cbegin/midiviz-go/internal/note"
	"github.com/cbegin/midiviz-go/internal/viewport"
)

// Placement is where a note lands in one frame.
type Placement struct {
	Note   note.Note
	Rect   layout.Rect
	Active bool
	Played bool
}

// Renderer draws one layout. A Renderer owns a font face and is not safe for
// concurrent use; give each goroutine its own.
type Renderer interface {
	Layout() layout.Layout
	RenderStatic(dc *gg.Context)
	RenderDynamic(dc *gg.Context, notes []note.Note, vp viewport.Viewport)
	Placements(notes []note.Note, vp viewport.Viewport) []Placement
}

// New returns the renderer matching the layout variant. Layouts not built by
// layout.New are rejected.
func New(l layout.Layout) (Renderer, error) {
	switch v := l.(type) {
	case *layout.Vertical:
		return &verticalRenderer{l: v, face: labelFace(v.Style().LabelSize)}, nil
	case *layout.Horizontal:
		return &horizontalRenderer{l: v, face: labelFace(v.Style().LabelSize)}, nil
	}
	return nil, failure.New(failure.InvalidInput, fmt.Sprintf("unsupported layout %T", l), "The visualization layout is not supported.")
}

// Surfaces is the pair of layers drawn for one visualization.
type Surfaces struct {
	Static  *gg.Context
	Dynamic *gg.Context
}

func NewSurfaces(l layout.Layout) Surfaces {
	w, h := l.Size()
	return Surfaces{Static: gg.NewContext(w, h), Dynamic: gg.NewContext(w, h)}
}

// Compose flattens the dynamic layer over the static one.
func (s Surfaces) Compose() image.Image {
	b := s.Static.Image().Bounds()
	dc := gg.NewContext(b.Dx(), b.Dy())
	dc.DrawImage(s.Static.Image(), 0, 0)
	dc.DrawImage(s.Dynamic.Image(), 0, 0)
	return dc.Image()
}

func placements(l layout.Layout, notes []note.Note, vp viewport.Viewport) []Placement {
	var out []Placement
	for _, n := range notes {
		if n.Start > vp.End {
			break
		}
		if !vp.Intersects(n) {
			continue
		}
		r, ok := l.NoteRect(n, vp.Time)
		if !ok {
			continue
		}
		out = append(out, Placement{
			Note:   n,
			Rect:   r,
			Active: n.ActiveAt(vp.Time),
			Played: n.PlayedBy(vp.Time),
		})
	}
	return out
}
