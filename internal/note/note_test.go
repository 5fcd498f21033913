package note

import (
	"math"
	"strings"
	"testing"

	"github.com/cbegin/midiviz-go/internal/failure"
)

func twoNoteEvents() []Event {
	return []Event{
		{Pitch: 64, Start: 1, End: 2, Velocity: 50},
		{Pitch: 60, Start: 0, End: 1, Velocity: 100},
	}
}

func TestBuildOrdersAndNamesNotes(t *testing.T) {
	set, err := Build(twoNoteEvents())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if set.Len() != 2 {
		t.Fatalf("len = %d, want 2", set.Len())
	}
	first := set.Notes()[0]
	if first.Pitch != 60 || first.Name != "C4" {
		t.Fatalf("first note = %+v, want pitch 60 named C4", first)
	}
	if set.MinPitch() != 60 || set.MaxPitch() != 64 {
		t.Fatalf("pitch bounds = %d..%d, want 60..64", set.MinPitch(), set.MaxPitch())
	}
	if set.End() != 2 {
		t.Fatalf("end = %v, want 2", set.End())
	}
}

func TestBuildKeepsSuppliedName(t *testing.T) {
	set, err := Build([]Event{{Pitch: 61, Start: 0, End: 1, Velocity: 1, Name: "Db4"}})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if got := set.Notes()[0].Name; got != "Db4" {
		t.Fatalf("name = %q, want Db4", got)
	}
}

func TestBuildRejectsContractViolations(t *testing.T) {
	cases := []struct {
		name   string
		events []Event
		want   string
	}{
		{name: "empty", events: nil, want: "empty"},
		{name: "negative pitch", events: []Event{{Pitch: -1, Start: 0, End: 1}}, want: "pitch -1"},
		{name: "pitch too high", events: []Event{{Pitch: 128, Start: 0, End: 1}}, want: "pitch 128"},
		{name: "end before start", events: []Event{{Pitch: 60, Start: 2, End: 1}}, want: "before start"},
		{name: "velocity", events: []Event{{Pitch: 60, Start: 0, End: 1, Velocity: 200}}, want: "velocity 200"},
		{name: "nan", events: []Event{{Pitch: 60, Start: math.NaN(), End: 1}}, want: "non-finite"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Build(tc.events)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !failure.Is(err, failure.InvalidInput) {
				t.Fatalf("error not tagged InvalidInput: %v", err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err.Error(), tc.want)
			}
		})
	}
}

func TestBuildReportsAllViolationsInOneError(t *testing.T) {
	_, err := Build([]Event{
		{Pitch: -3, Start: 0, End: 1},
		{Pitch: 60, Start: 0, End: 1},
		{Pitch: 61, Start: 3, End: 2},
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "note 0") || !strings.Contains(err.Error(), "note 2") {
		t.Fatalf("error should list both bad notes: %v", err)
	}
	if msg := failure.Message(err); !strings.Contains(msg, "2 invalid of 3") {
		t.Fatalf("user message = %q", msg)
	}
}

func TestNameAndBlackKeys(t *testing.T) {
	cases := map[int]string{0: "C-1", 21: "A0", 60: "C4", 61: "C#4", 108: "C8", 127: "G9"}
	for pitch, want := range cases {
		if got := Name(pitch); got != want {
			t.Fatalf("Name(%d) = %q, want %q", pitch, got, want)
		}
	}
	if Name(-1) != "" || Name(128) != "" {
		t.Fatalf("out of range pitches should have no name")
	}
	black := []int{61, 63, 66, 68, 70}
	for _, p := range black {
		if !IsBlack(p) {
			t.Fatalf("%d should be black", p)
		}
	}
	if IsBlack(60) || IsBlack(64) || IsBlack(65) {
		t.Fatalf("white keys reported black")
	}
}

func TestRangePadding(t *testing.T) {
	set, err := Build(twoNoteEvents())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	r := set.Range(2)
	if r.Min != 58 || r.Max != 66 {
		t.Fatalf("range = %+v, want 58..66", r)
	}
	if r.Rows() != 9 {
		t.Fatalf("rows = %d, want 9", r.Rows())
	}
}

func TestRangeClampsAndStaysNonEmpty(t *testing.T) {
	r := NewRange(1, 126, 4)
	if r.Min != 0 || r.Max != 127 {
		t.Fatalf("range = %+v, want clamped 0..127", r)
	}
	single := NewRange(60, 60, 0)
	if single.Rows() != 1 {
		t.Fatalf("single pitch rows = %d, want 1", single.Rows())
	}
	swapped := NewRange(70, 60, -5)
	if swapped.Min != 60 || swapped.Max != 70 {
		t.Fatalf("swapped range = %+v", swapped)
	}
}

func TestActiveAt(t *testing.T) {
	set, err := Build(twoNoteEvents())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	active := set.ActiveAt(0.5)
	if len(active) != 1 || active[0].Pitch != 60 {
		t.Fatalf("active at 0.5 = %+v", active)
	}
	active = set.ActiveAt(1.0)
	if len(active) != 1 || active[0].Pitch != 64 {
		t.Fatalf("active at 1.0 = %+v, end should be exclusive", active)
	}
	n := set.Notes()[0]
	if !n.PlayedBy(1.0) || n.PlayedBy(0.99) {
		t.Fatalf("PlayedBy boundary wrong for %+v", n)
	}
}
