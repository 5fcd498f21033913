package layout

import (
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"

	"github.com/cbegin/midiviz-go/internal/failure"
)

// Config holds the recognised render options. Keys match the user override
// names, so a free-form map decodes straight onto it.
type Config struct {
	NoteHeight         float64 `mapstructure:"noteHeight"`
	NoteWidth          float64 `mapstructure:"noteWidth"`
	PixelsPerSecond    float64 `mapstructure:"pixelsPerSecond"`
	PlayheadPosition   float64 `mapstructure:"playheadPosition"`
	PlayheadColor      string  `mapstructure:"playheadColor"`
	NoteColor          string  `mapstructure:"noteColor"`
	HighlightColor     string  `mapstructure:"highlightColor"`
	GridColor          string  `mapstructure:"gridColor"`
	LabelFont          string  `mapstructure:"labelFont"`
	LabelColor         string  `mapstructure:"labelColor"`
	LabelWidth         float64 `mapstructure:"labelWidth"`
	KeyboardHeight     float64 `mapstructure:"keyboardHeight"`
	VerticalPitchRange []int   `mapstructure:"verticalPitchRange"`
	Width              float64 `mapstructure:"width"`
	VerticalHeight     float64 `mapstructure:"verticalHeight"`
	PlayedAlpha        float64 `mapstructure:"playedAlpha"`
	MinRowHeight       float64 `mapstructure:"minRowHeight"`
}

func DefaultConfig() Config {
	return Config{
		NoteHeight:       5,
		NoteWidth:        16,
		PixelsPerSecond:  100,
		PlayheadPosition: 80,
		PlayheadColor:    "black",
		NoteColor:        "royalblue",
		HighlightColor:   "gold",
		GridColor:        "rgba(200, 200, 200, 0.6)",
		LabelFont:        "10px sans-serif",
		LabelColor:       "#333",
		LabelWidth:       40,
		KeyboardHeight:   60,
		Width:            800,
		VerticalHeight:   600,
		PlayedAlpha:      0.35,
		MinRowHeight:     2,
	}
}

// Merge decodes overrides on top of base. Unknown keys are ignored; a value
// that cannot be converted to the option's type is an InvalidInput error.
func Merge(base Config, overrides map[string]any) (Config, error) {
	cfg := base
	if len(overrides) == 0 {
		return cfg, nil
	}
	if base.VerticalPitchRange != nil {
		cfg.VerticalPitchRange = append([]int(nil), base.VerticalPitchRange...)
	}
	if _, ok := overrides["verticalPitchRange"]; ok {
		cfg.VerticalPitchRange = nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return base, err
	}
	if err := dec.Decode(overrides); err != nil {
		return base, failure.Wrap(err, failure.InvalidInput, "decode user config", "The display configuration has a value of the wrong type.")
	}
	return cfg, nil
}

// sanitize replaces unusable numeric options with their defaults.
func (c Config) sanitize(log logrus.FieldLogger) Config {
	def := DefaultConfig()
	positive := []struct {
		name string
		v    *float64
		def  float64
	}{
		{"noteHeight", &c.NoteHeight, def.NoteHeight},
		{"noteWidth", &c.NoteWidth, def.NoteWidth},
		{"pixelsPerSecond", &c.PixelsPerSecond, def.PixelsPerSecond},
		{"keyboardHeight", &c.KeyboardHeight, def.KeyboardHeight},
		{"width", &c.Width, def.Width},
		{"verticalHeight", &c.VerticalHeight, def.VerticalHeight},
		{"minRowHeight", &c.MinRowHeight, def.MinRowHeight},
	}
	for _, p := range positive {
		if !(*p.v > 0) {
			log.WithField("option", p.name).Warnf("%v is not positive, using %v", *p.v, p.def)
			*p.v = p.def
		}
	}
	if c.LabelWidth < 0 {
		log.WithField("option", "labelWidth").Warnf("%v is negative, using 0", c.LabelWidth)
		c.LabelWidth = 0
	}
	if c.PlayheadPosition < 0 {
		log.WithField("option", "playheadPosition").Warnf("%v is negative, using 0", c.PlayheadPosition)
		c.PlayheadPosition = 0
	}
	if c.PlayedAlpha < 0 || c.PlayedAlpha > 1 {
		log.WithField("option", "playedAlpha").Warnf("%v outside [0,1], using %v", c.PlayedAlpha, def.PlayedAlpha)
		c.PlayedAlpha = def.PlayedAlpha
	}
	return c
}
