package viewport

import (
	"io"
	"math"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/cbegin/midiviz-go/internal/layout"
	"github.com/cbegin/midiviz-go/internal/note"
)

func newLayout(t *testing.T, mode layout.Mode) layout.Layout {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	l, err := layout.New(layout.Params{Mode: mode, Config: layout.DefaultConfig(), Pitches: note.NewRange(60, 64, 2)}, log)
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	return l
}

func TestHorizontalScrollPinsPlayhead(t *testing.T) {
	l := newLayout(t, layout.ModeHorizontal)
	cases := []struct {
		t, scroll float64
	}{
		{0, -80},
		{0.5, -30},
		{2, 120},
	}
	for _, tc := range cases {
		v := Compute(l, tc.t)
		if v.ScrollX != tc.scroll {
			t.Fatalf("ScrollX(%v) = %v, want %v", tc.t, v.ScrollX, tc.scroll)
		}
		if v.Cursor != 40+80 {
			t.Fatalf("cursor moved: %v", v.Cursor)
		}
	}
}

func TestHorizontalScrollMonotonic(t *testing.T) {
	l := newLayout(t, layout.ModeHorizontal)
	prev := math.Inf(-1)
	for i := 0; i <= 500; i++ {
		v := Compute(l, float64(i)*0.013)
		if v.ScrollX < prev {
			t.Fatalf("scroll went backwards at step %d", i)
		}
		prev = v.ScrollX
	}
}

func TestVerticalWindow(t *testing.T) {
	l := newLayout(t, layout.ModeVertical)
	v := Compute(l, 1)
	if v.ScrollX != 0 {
		t.Fatalf("vertical ScrollX = %v, want 0", v.ScrollX)
	}
	if v.Cursor != 540 {
		t.Fatalf("hit line = %v, want 540", v.Cursor)
	}
	if v.Start != 1 || v.End != 1+5.4 {
		t.Fatalf("window = [%v, %v], want [1, 6.4]", v.Start, v.End)
	}
	if !v.Intersects(note.Note{Start: 1, End: 2}) {
		t.Fatalf("note starting at the hit line should intersect")
	}
	if v.Intersects(note.Note{Start: 7, End: 8}) {
		t.Fatalf("note beyond the lookahead should not intersect")
	}
}

// A viewport reached by seeking equals one reached by stepping frame by frame.
func TestSeekMatchesContinuousPlayback(t *testing.T) {
	for _, mode := range []layout.Mode{layout.ModeHorizontal, layout.ModeVertical} {
		l := newLayout(t, mode)
		var stepped Viewport
		const frame = 0.25
		for i := 0; i <= 12; i++ {
			stepped = Compute(l, float64(i)*frame)
		}
		seeked := Compute(l, 3)
		if stepped != seeked {
			t.Fatalf("%s: stepped %+v != seeked %+v", mode, stepped, seeked)
		}
	}
}

func TestComputeSanitisesTime(t *testing.T) {
	l := newLayout(t, layout.ModeHorizontal)
	zero := Compute(l, 0)
	for _, bad := range []float64{-3, math.NaN(), math.Inf(1)} {
		if got := Compute(l, bad); got != zero {
			t.Fatalf("Compute(%v) = %+v, want %+v", bad, got, zero)
		}
	}
}
