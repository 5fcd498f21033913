package layout

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/cbegin/midiviz-go/internal/note"
)

const (
	blackKeyWidth  = 0.6
	blackKeyHeight = 0.6
)

// whiteKeyOffsets is the left edge of each pitch class in white-key units.
var whiteKeyOffsets = [12]float64{0, 0.7, 1, 1.7, 2, 3, 3.7, 4, 4.7, 5, 5.7, 6}

// Key is one piano key on the vertical keyboard.
type Key struct {
	Pitch int
	X     float64
	W     float64
	Black bool
}

// Vertical is the falling-notes view: one lane per key, notes fall downward
// and reach the hit line on top of the keyboard at their start time.
type Vertical struct {
	cfg     Config
	style   Style
	pitches note.PitchRange
	keys    note.PitchRange
	width   int
	height  int
	hitY    float64
	origin  float64
}

func newVertical(cfg Config, style Style, pitches note.PitchRange, manualHeight float64, log logrus.FieldLogger) *Vertical {
	keys := pitches
	if r := cfg.VerticalPitchRange; len(r) > 0 {
		if len(r) == 2 && r[0] >= note.MinPitch && r[1] <= note.MaxPitch && r[0] <= r[1] {
			keys = note.PitchRange{Min: r[0], Max: r[1]}
		} else {
			log.WithField("verticalPitchRange", r).Warn("invalid keyboard range, using note range")
		}
	}

	height := cfg.VerticalHeight
	if manualHeight > 0 {
		height = manualHeight
	}
	if minHeight := cfg.KeyboardHeight + cfg.MinRowHeight; height < minHeight {
		log.WithField("height", height).Warnf("height too small for keyboard, using %v", minHeight)
		height = minHeight
	}

	v := &Vertical{
		cfg:     cfg,
		style:   style,
		pitches: pitches,
		keys:    keys,
		height:  int(math.Ceil(height)),
	}
	v.origin = v.absoluteX(keys.Min)
	last := v.Key(keys.Max)
	v.width = int(math.Ceil(last.X + last.W))
	v.hitY = float64(v.height) - cfg.KeyboardHeight
	return v
}

func (v *Vertical) absoluteX(pitch int) float64 {
	octave := pitch / 12
	return (float64(octave*7) + whiteKeyOffsets[pitch%12]) * v.cfg.NoteWidth
}

func (v *Vertical) Mode() Mode               { return ModeVertical }
func (v *Vertical) Size() (int, int)         { return v.width, v.height }
func (v *Vertical) Pitches() note.PitchRange { return v.pitches }
func (v *Vertical) Config() Config           { return v.cfg }
func (v *Vertical) Style() Style             { return v.style }
func (v *Vertical) Cursor() float64          { return v.hitY }

// Keys is the range of keys drawn on the keyboard.
func (v *Vertical) Keys() note.PitchRange { return v.keys }

func (v *Vertical) HitLineY() float64 { return v.hitY }

// Lookahead is how many seconds of upcoming notes fit above the hit line.
func (v *Vertical) Lookahead() float64 { return v.hitY / v.cfg.PixelsPerSecond }

func (v *Vertical) Scroll(float64) float64 { return 0 }

func (v *Vertical) Visible(now float64) (float64, float64) { return now, now + v.Lookahead() }

// KeyboardY is the top edge of the keyboard, which is also the hit line.
func (v *Vertical) KeyboardY() float64 { return v.hitY }

func (v *Vertical) KeyboardHeight() float64 { return v.cfg.KeyboardHeight }

// BlackKeyHeight is the height of a black key from the top of the keyboard.
func (v *Vertical) BlackKeyHeight() float64 { return v.cfg.KeyboardHeight * blackKeyHeight }

// Key returns the geometry of pitch relative to the first key in the range.
func (v *Vertical) Key(pitch int) Key {
	black := note.IsBlack(pitch)
	w := v.cfg.NoteWidth
	if black {
		w *= blackKeyWidth
	}
	return Key{Pitch: pitch, X: v.absoluteX(pitch) - v.origin, W: w, Black: black}
}

func (v *Vertical) PitchToX(pitch int) float64 { return v.Key(pitch).X }

// TimeToY maps a note time to y given the current time. Times after now are
// above the hit line.
func (v *Vertical) TimeToY(t, now float64) float64 {
	return v.hitY - (t-now)*v.cfg.PixelsPerSecond
}

// NoteRect clips the falling block to [0, hit line]. A note whose end has
// reached the hit line is gone.
func (v *Vertical) NoteRect(n note.Note, now float64) (Rect, bool) {
	if !v.keys.Contains(n.Pitch) {
		return Rect{}, false
	}
	bottom := v.TimeToY(n.Start, now)
	top := v.TimeToY(n.End, now)
	if top >= v.hitY || bottom <= 0 {
		return Rect{}, false
	}
	top = math.Max(0, top)
	bottom = math.Min(v.hitY, bottom)
	if bottom-top <= 0 {
		return Rect{}, false
	}
	k := v.Key(n.Pitch)
	return Rect{X: k.X, Y: top, W: k.W, H: bottom - top}, true
}
