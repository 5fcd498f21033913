package layout

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/colornames"
)

// Style is the resolved, drawable form of the colour and font options.
type Style struct {
	Playhead  color.NRGBA
	Note      color.NRGBA
	Highlight color.NRGBA
	Grid      color.NRGBA
	Label     color.NRGBA
	LabelSize float64
}

// ParseColor accepts CSS colour names, #rgb/#rrggbb and rgb()/rgba().
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := colornames.Map[s]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
	}
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return color.NRGBA{}, err
		}
		r, g, b := c.RGB255()
		return color.NRGBA{R: r, G: g, B: b, A: 0xff}, nil
	}
	if strings.HasPrefix(s, "rgb") {
		return parseRGBFunc(s)
	}
	return color.NRGBA{}, fmt.Errorf("unrecognised colour %q", s)
}

func parseRGBFunc(s string) (color.NRGBA, error) {
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return color.NRGBA{}, fmt.Errorf("malformed colour %q", s)
	}
	fn := s[:open]
	parts := strings.Split(s[open+1:len(s)-1], ",")
	if (fn == "rgb" && len(parts) != 3) || (fn == "rgba" && len(parts) != 4) || (fn != "rgb" && fn != "rgba") {
		return color.NRGBA{}, fmt.Errorf("malformed colour %q", s)
	}
	var ch [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("malformed colour %q: %w", s, err)
		}
		ch[i] = uint8(math.Round(math.Max(0, math.Min(255, v))))
	}
	alpha := uint8(0xff)
	if fn == "rgba" {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("malformed colour %q: %w", s, err)
		}
		alpha = uint8(math.Round(math.Max(0, math.Min(1, a)) * 255))
	}
	return color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: alpha}, nil
}

// parseFontSize reads the pixel size out of a CSS font shorthand such as
// "10px sans-serif". Only the size is honoured.
func parseFontSize(font string) (float64, bool) {
	for _, field := range strings.Fields(font) {
		if !strings.HasSuffix(field, "px") {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSuffix(field, "px"), 64)
		if err == nil && v > 0 {
			return v, true
		}
	}
	return 0, false
}

func resolveStyle(c Config, log logrus.FieldLogger) Style {
	def := DefaultConfig()
	pick := func(name, value, fallback string) color.NRGBA {
		col, err := ParseColor(value)
		if err == nil {
			return col
		}
		log.WithField("option", name).WithError(err).Warnf("using %s", fallback)
		col, _ = ParseColor(fallback)
		return col
	}
	st := Style{
		Playhead:  pick("playheadColor", c.PlayheadColor, def.PlayheadColor),
		Note:      pick("noteColor", c.NoteColor, def.NoteColor),
		Highlight: pick("highlightColor", c.HighlightColor, def.HighlightColor),
		Grid:      pick("gridColor", c.GridColor, def.GridColor),
		Label:     pick("labelColor", c.LabelColor, def.LabelColor),
	}
	size, ok := parseFontSize(c.LabelFont)
	if !ok {
		log.WithField("option", "labelFont").Warnf("no pixel size in %q, using 10px", c.LabelFont)
		size = 10
	}
	st.LabelSize = size
	return st
}
