// Package layout maps musical time and pitch onto surface pixels.
//
// A Layout is built once per load, resize or config change and is read-only
// afterwards. The two variants share nothing but the Layout interface; callers
// pick a variant through New and never branch on the mode again.
package layout

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/cbegin/midiviz-go/internal/failure"
	"github.com/cbegin/midiviz-go/internal/note"
)

type Mode string

const (
	ModeHorizontal Mode = "horizontal"
	ModeVertical   Mode = "vertical"
)

// ParseMode accepts the two mode names, case-insensitively. Empty means horizontal.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeHorizontal:
		return ModeHorizontal, nil
	case ModeVertical:
		return ModeVertical, nil
	}
	return "", failure.New(failure.InvalidInput, fmt.Sprintf("unknown mode %q", s), "The display mode must be horizontal or vertical.")
}

// Rect is an axis-aligned box in surface pixels.
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Empty() bool { return !(r.W > 0) || !(r.H > 0) }

// Layout is the geometry shared by the renderer and the viewport.
type Layout interface {
	Mode() Mode
	// Size is the surface size in pixels. Both layers use the same size.
	Size() (width, height int)
	Pitches() note.PitchRange
	Config() Config
	Style() Style
	// NoteRect places n at playback time now, clipped to the note area.
	// ok is false when no part of the note is visible.
	NoteRect(n note.Note, now float64) (r Rect, ok bool)
	// Cursor is the fixed pixel coordinate of "now": the playhead x in
	// horizontal mode, the hit line y in vertical mode.
	Cursor() float64
	// Scroll is the content offset at now. Zero for layouts that do not scroll.
	Scroll(now float64) float64
	// Visible is the span of note time drawn at now.
	Visible(now float64) (from, to float64)
}

// Params are the resolved inputs to a layout.
type Params struct {
	Mode   Mode
	Config Config
	// Pitches is the padded note range.
	Pitches note.PitchRange
	// ManualHeight overrides the derived surface height when > 0.
	ManualHeight float64
}

// New builds the variant for p.Mode.
func New(p Params, log logrus.FieldLogger) (Layout, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	log = log.WithField("component", "layout")
	if p.Pitches.Rows() < 1 {
		return nil, failure.New(failure.InvalidInput, "empty pitch range", "The pitch range is empty.")
	}
	cfg := p.Config.sanitize(log)
	style := resolveStyle(cfg, log)
	switch p.Mode {
	case ModeHorizontal, "":
		return newHorizontal(cfg, style, p.Pitches, p.ManualHeight, log), nil
	case ModeVertical:
		return newVertical(cfg, style, p.Pitches, p.ManualHeight, log), nil
	}
	_, err := ParseMode(string(p.Mode))
	return nil, err
}
