package layout

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/cbegin/midiviz-go/internal/note"
)

const minRollWidth = 16

// Horizontal is the scrolling piano roll: time runs left to right, high
// pitches on top, a label gutter of LabelWidth on the left.
type Horizontal struct {
	cfg       Config
	style     Style
	pitches   note.PitchRange
	rowHeight float64
	width     int
	height    int
	playhead  float64
}

func newHorizontal(cfg Config, style Style, pitches note.PitchRange, manualHeight float64, log logrus.FieldLogger) *Horizontal {
	rows := float64(pitches.Rows())
	rowHeight := cfg.NoteHeight
	if manualHeight > 0 {
		rowHeight = manualHeight / rows
	} else if manualHeight < 0 {
		log.WithField("manualHeight", manualHeight).Warn("negative height ignored")
	}
	if rowHeight < cfg.MinRowHeight {
		log.WithFields(logrus.Fields{
			"rows":      pitches.Rows(),
			"rowHeight": rowHeight,
		}).Warnf("row height clamped to %v", cfg.MinRowHeight)
		rowHeight = cfg.MinRowHeight
	}

	width := cfg.Width
	if width-cfg.LabelWidth < minRollWidth {
		log.WithField("width", width).Warnf("width too small for label gutter, using %v", cfg.LabelWidth+minRollWidth)
		width = cfg.LabelWidth + minRollWidth
	}
	roll := width - cfg.LabelWidth
	playhead := cfg.PlayheadPosition
	if playhead > roll-2 {
		log.WithField("playheadPosition", playhead).Warnf("playhead outside roll, using %v", roll-2)
		playhead = roll - 2
	}

	return &Horizontal{
		cfg:       cfg,
		style:     style,
		pitches:   pitches,
		rowHeight: rowHeight,
		width:     int(math.Ceil(width)),
		height:    int(math.Ceil(rowHeight * rows)),
		playhead:  playhead,
	}
}

func (h *Horizontal) Mode() Mode                  { return ModeHorizontal }
func (h *Horizontal) Size() (int, int)            { return h.width, h.height }
func (h *Horizontal) Pitches() note.PitchRange    { return h.pitches }
func (h *Horizontal) Config() Config              { return h.cfg }
func (h *Horizontal) Style() Style                { return h.style }
func (h *Horizontal) RowHeight() float64          { return h.rowHeight }
func (h *Horizontal) RollLeft() float64           { return h.cfg.LabelWidth }
func (h *Horizontal) RollWidth() float64          { return float64(h.width) - h.cfg.LabelWidth }
func (h *Horizontal) PixelsPerSecond() float64    { return h.cfg.PixelsPerSecond }
func (h *Horizontal) PlayheadOffset() float64     { return h.playhead }
func (h *Horizontal) Cursor() float64             { return h.RollLeft() + h.playhead }
func (h *Horizontal) TimeToX(t float64) float64   { return t * h.cfg.PixelsPerSecond }
func (h *Horizontal) PitchToY(pitch int) float64  { return float64(h.pitches.Max-pitch) * h.rowHeight }
func (h *Horizontal) ScrollX(now float64) float64 { return h.TimeToX(now) - h.playhead }
func (h *Horizontal) Scroll(now float64) float64  { return h.ScrollX(now) }

func (h *Horizontal) Visible(now float64) (float64, float64) {
	scroll := h.ScrollX(now)
	pps := h.cfg.PixelsPerSecond
	return scroll / pps, (scroll + h.RollWidth()) / pps
}

// NoteRect clips the note bar to the roll area, right of the label gutter.
func (h *Horizontal) NoteRect(n note.Note, now float64) (Rect, bool) {
	if !h.pitches.Contains(n.Pitch) {
		return Rect{}, false
	}
	scroll := h.ScrollX(now)
	x := h.TimeToX(n.Start) - scroll
	w := math.Max(1, h.TimeToX(n.End)-h.TimeToX(n.Start))
	roll := h.RollWidth()
	if x+w <= 0 || x >= roll {
		return Rect{}, false
	}
	left := math.Max(0, x)
	right := math.Min(roll, x+w)
	return Rect{
		X: h.RollLeft() + left,
		Y: h.PitchToY(n.Pitch),
		W: right - left,
		H: h.rowHeight,
	}, true
}
