package render

import (
	"image/color"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/cbegin/midiviz-go/internal/layout"
)

const (
	maxLighten = 70
	bevel      = 30
)

var (
	labelFontOnce sync.Once
	labelFont     *truetype.Font
)

// labelFace returns a fresh face; faces cache glyphs and must not be shared
// between goroutines. Falls back to the fixed 7x13 face if Go Regular does not parse.
func labelFace(size float64) font.Face {
	labelFontOnce.Do(func() {
		labelFont, _ = truetype.Parse(goregular.TTF)
	})
	if labelFont == nil {
		return basicfont.Face7x13
	}
	return truetype.NewFace(labelFont, &truetype.Options{Size: size})
}

// adjust shifts each colour channel by amount, keeping alpha.
func adjust(c color.NRGBA, amount int) color.NRGBA {
	ch := func(v uint8) uint8 {
		return uint8(max(0, min(255, int(v)+amount)))
	}
	return color.NRGBA{R: ch(c.R), G: ch(c.G), B: ch(c.B), A: c.A}
}

// velocityColor lightens base for quieter notes; velocity 127 keeps base.
func velocityColor(base color.NRGBA, velocity int) color.NRGBA {
	amount := int(math.Floor(maxLighten * float64(127-velocity) / 127))
	return adjust(base, amount)
}

func withAlpha(c color.NRGBA, alpha float64) color.NRGBA {
	c.A = uint8(math.Round(float64(c.A) * alpha))
	return c
}

func clearSurface(dc *gg.Context) {
	dc.SetColor(color.Transparent)
	dc.Clear()
}

// fillBevelled fills r and draws a light top-left and dark bottom-right edge.
func fillBevelled(dc *gg.Context, r layout.Rect, fill color.NRGBA) {
	dc.SetColor(fill)
	dc.DrawRectangle(r.X, r.Y, r.W, r.H)
	dc.Fill()
	if r.W <= 1 || r.H <= 1 {
		return
	}
	left, top := r.X+0.5, r.Y+0.5
	right, bottom := r.X+r.W-0.5, r.Y+r.H-0.5
	dc.SetLineWidth(1)
	dc.SetColor(adjust(fill, bevel))
	dc.MoveTo(right, top)
	dc.LineTo(left, top)
	dc.LineTo(left, bottom)
	dc.Stroke()
	dc.SetColor(adjust(fill, -bevel))
	dc.MoveTo(left, bottom)
	dc.LineTo(right, bottom)
	dc.LineTo(right, top)
	dc.Stroke()
}

func noteColor(st layout.Style, p Placement) color.NRGBA {
	base := st.Note
	if p.Active {
		base = st.Highlight
	}
	return velocityColor(base, p.Note.Velocity)
}
