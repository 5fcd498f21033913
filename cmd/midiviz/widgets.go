package main

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/golang/freetype/truetype"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	uiFontSize   = 15
	sliderLabelW = 64
	sliderValueW = 64
	trackH       = 6
)

var (
	bgColor       = color.RGBA{192, 192, 192, 255}
	panelColor    = color.RGBA{192, 192, 192, 255}
	borderColor   = color.RGBA{128, 128, 128, 255}
	bevelLight    = color.RGBA{255, 255, 255, 255}
	bevelDarker   = color.RGBA{64, 64, 64, 255}
	sunkenBgColor = color.RGBA{24, 24, 32, 255}
	viewBgColor   = color.RGBA{0, 0, 0, 255}
	labelColor    = color.RGBA{16, 16, 16, 255}
	errorColor    = color.RGBA{255, 200, 120, 255}
	statusColor   = color.RGBA{200, 220, 200, 255}
	trackFill     = color.RGBA{0, 0, 128, 255}
	onsetColor    = color.RGBA{96, 96, 96, 255}
)

// uiText renders window labels with Go Regular.
type uiText struct {
	face  *text.GoXFace
	lineH int
}

func newUIText() *uiText {
	var face font.Face = basicfont.Face7x13
	if f, err := truetype.Parse(goregular.TTF); err == nil {
		face = truetype.NewFace(f, &truetype.Options{Size: uiFontSize, DPI: 72, Hinting: font.HintingFull})
	}
	return &uiText{face: text.NewGoXFace(face), lineH: face.Metrics().Height.Ceil()}
}

func (t *uiText) width(s string) int { return int(math.Ceil(text.Advance(s, t.face))) }

// draw puts s with its top-left corner at (x, y).
func (t *uiText) draw(dst *ebiten.Image, s string, x, y int, clr color.Color) {
	if s == "" {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(dst, s, t.face, op)
}

// drawCentered centres s vertically in rect, starting pad pixels from the left.
func (t *uiText) drawCentered(dst *ebiten.Image, s string, rect image.Rectangle, pad int, clr color.Color) {
	t.draw(dst, t.fit(s, rect.Dx()-2*pad), rect.Min.X+pad, rect.Min.Y+(rect.Dy()-t.lineH)/2, clr)
}

// fit trims s from the end until it is at most maxW pixels wide.
func (t *uiText) fit(s string, maxW int) string {
	if t.width(s) <= maxW {
		return s
	}
	r := []rune(s)
	for len(r) > 0 {
		r = r[:len(r)-1]
		if cand := string(r) + "..."; t.width(cand) <= maxW {
			return cand
		}
	}
	return ""
}

// slider is a horizontal value control: label, track, value text.
type slider struct {
	rect  image.Rectangle
	label string
	value string
	frac  float64
}

func (s slider) track() image.Rectangle {
	y := s.rect.Min.Y + s.rect.Dy()/2 - trackH/2
	return image.Rect(s.rect.Min.X+sliderLabelW, y, s.rect.Max.X-sliderValueW, y+trackH)
}

// at maps a mouse x onto [0,1] along the track.
func (s slider) at(mx int) (float64, bool) {
	tr := s.track()
	if tr.Dx() <= 0 {
		return 0, false
	}
	return clamp(float64(mx-tr.Min.X)/float64(tr.Dx()), 0, 1), true
}

func (g *game) volumeSlider(rect image.Rectangle) slider {
	vol := g.viz.Status().Volume
	return slider{rect: rect, label: "Vol", value: fmt.Sprintf("%d%%", int(vol*100+0.5)), frac: vol}
}

func (g *game) progressSlider(rect image.Rectangle) slider {
	return slider{rect: rect, label: "Seek", frac: g.viz.Status().Progress()}
}

func (g *game) drawSlider(screen *ebiten.Image, s slider, marks []float64) {
	drawPanel(screen, s.rect)
	g.text.drawCentered(screen, s.label, image.Rect(s.rect.Min.X, s.rect.Min.Y, s.rect.Min.X+sliderLabelW, s.rect.Max.Y), 8, labelColor)
	g.text.drawCentered(screen, s.value, image.Rect(s.rect.Max.X-sliderValueW, s.rect.Min.Y, s.rect.Max.X, s.rect.Max.Y), 6, labelColor)

	tr := s.track()
	if tr.Dx() < 20 {
		return
	}
	fillRect(screen, tr, bevelDarker)
	drawSunkenBorder(screen, tr.Inset(-1))
	fillW := int(float64(tr.Dx()) * clamp(s.frac, 0, 1))
	if fillW > 0 {
		fillRect(screen, image.Rect(tr.Min.X, tr.Min.Y, tr.Min.X+fillW, tr.Max.Y), trackFill)
	}
	// One tick per occupied pixel column above the groove.
	last := -1
	for _, m := range marks {
		x := tr.Min.X + int(m*float64(tr.Dx()))
		if x == last || x >= tr.Max.X {
			continue
		}
		last = x
		fillRect(screen, image.Rect(x, tr.Min.Y-6, x+1, tr.Min.Y-2), onsetColor)
	}
	knobX := tr.Min.X + fillW
	knob := image.Rect(knobX-5, tr.Min.Y-6, knobX+5, tr.Max.Y+6)
	fillRect(screen, knob, panelColor)
	drawBorder(screen, knob)
}

// onsets returns note start times as fractions of the audio duration.
func (g *game) onsets() []float64 {
	d := g.viz.Status().Duration
	if !(d > 0) {
		return nil
	}
	if g.onsetFor == d {
		return g.onsetMarks
	}
	notes := g.viz.Notes().Notes()
	marks := make([]float64, 0, len(notes))
	for _, n := range notes {
		if n.Start <= d {
			marks = append(marks, n.Start/d)
		}
	}
	g.onsetFor, g.onsetMarks = d, marks
	return marks
}

func (g *game) updateVolumeFromMouse(mx int, rect image.Rectangle) {
	v, ok := g.volumeSlider(rect).at(mx)
	if !ok || v == g.viz.Status().Volume {
		return
	}
	g.viz.SetVolume(v)
	if !g.failed {
		g.setStatus(fmt.Sprintf("Volume: %d%%", int(v*100+0.5)))
	}
}

func (g *game) updateProgressFromMouse(mx int, rect image.Rectangle) {
	v, ok := g.progressSlider(rect).at(mx)
	st := g.viz.Status()
	if !ok || !(st.Duration > 0) {
		return
	}
	if t := v * st.Duration; t != st.CurrentTime {
		g.seek(t)
	}
}

func (g *game) drawStatus(screen *ebiten.Image, rect image.Rectangle) {
	clr := statusColor
	msg := g.status
	if g.statusErr {
		clr = errorColor
		msg = "Error: " + msg
	}
	g.text.drawCentered(screen, msg, rect, 10, clr)
}

func (g *game) drawButton(screen *ebiten.Image, rect image.Rectangle, label string) {
	drawPanel(screen, rect)
	x := rect.Min.X + (rect.Dx()-g.text.width(label))/2
	g.text.draw(screen, label, x, rect.Min.Y+(rect.Dy()-g.text.lineH)/2, labelColor)
}

func fillRect(dst *ebiten.Image, r image.Rectangle, clr color.Color) {
	vector.FillRect(dst, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), clr, false)
}

func drawPanel(screen *ebiten.Image, rect image.Rectangle) {
	fillRect(screen, rect, panelColor)
	drawBorder(screen, rect)
}

func drawSunkenPanel(screen *ebiten.Image, rect image.Rectangle, bg color.Color) {
	fillRect(screen, rect, bg)
	drawSunkenBorder(screen, rect)
}

// bevel draws a one pixel frame, lit on the top and left edges.
func bevel(dst *ebiten.Image, r image.Rectangle, lit, shade color.Color) {
	fillRect(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X-1, r.Min.Y+1), lit)
	fillRect(dst, image.Rect(r.Min.X, r.Min.Y+1, r.Min.X+1, r.Max.Y-1), lit)
	fillRect(dst, image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), shade)
	fillRect(dst, image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y), shade)
}

func drawBorder(screen *ebiten.Image, rect image.Rectangle) {
	bevel(screen, rect, bevelLight, bevelDarker)
	if rect.Dx() > 4 && rect.Dy() > 4 {
		bevel(screen, rect.Inset(1), panelColor, borderColor)
	}
}

func drawSunkenBorder(screen *ebiten.Image, rect image.Rectangle) {
	bevel(screen, rect, borderColor, bevelLight)
	if rect.Dx() > 4 && rect.Dy() > 4 {
		bevel(screen, rect.Inset(1), bevelDarker, color.Transparent)
	}
}

func clamp(v, lo, hi float64) float64 { return math.Max(lo, math.Min(hi, v)) }
