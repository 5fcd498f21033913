// Package note builds the canonical note model the layout and render stages
// consume. Everything downstream of Build treats a Set as read-only.
package note

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/cbegin/midiviz-go/internal/failure"
)

const (
	MinPitch    = 0
	MaxPitch    = 127
	MaxVelocity = 127
)

var pitchClassNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Event is a raw note as delivered by a parser or a JSON payload.
type Event struct {
	Pitch    int     `json:"pitch"`
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	Velocity int     `json:"velocity"`
	Name     string  `json:"name,omitempty"`
}

// Note is a validated note. Times are in seconds.
type Note struct {
	Pitch    int
	Start    float64
	End      float64
	Velocity int
	Name     string
}

// Duration returns End-Start.
func (n Note) Duration() float64 { return n.End - n.Start }

// ActiveAt reports whether the note sounds at t. The end is exclusive.
func (n Note) ActiveAt(t float64) bool { return t >= n.Start && t < n.End }

// PlayedBy reports whether the note has fully ended at t.
func (n Note) PlayedBy(t float64) bool { return n.End <= t && !n.ActiveAt(t) }

// Intensity maps velocity to [0,1].
func (n Note) Intensity() float64 { return float64(n.Velocity) / MaxVelocity }

// Name returns the scientific pitch name, e.g. 60 -> "C4".
func Name(pitch int) string {
	if pitch < MinPitch || pitch > MaxPitch {
		return ""
	}
	return fmt.Sprintf("%s%d", pitchClassNames[pitch%12], pitch/12-1)
}

// IsBlack reports whether pitch falls on a black piano key.
func IsBlack(pitch int) bool {
	switch pitch % 12 {
	case 1, 3, 6, 8, 10:
		return true
	}
	return false
}

// Set is an immutable, start-ordered collection of notes.
type Set struct {
	notes    []Note
	minPitch int
	maxPitch int
	end      float64
}

// Build validates events and returns the note set. All contract violations are
// reported together in one error tagged failure.InvalidInput.
func Build(events []Event) (Set, error) {
	if len(events) == 0 {
		return Set{}, failure.New(failure.InvalidInput, "empty note set", "The performance contains no notes.")
	}
	var problems []string
	notes := make([]Note, 0, len(events))
	for i, ev := range events {
		if msg := validate(ev); msg != "" {
			problems = append(problems, fmt.Sprintf("note %d: %s", i, msg))
			continue
		}
		name := ev.Name
		if name == "" {
			name = Name(ev.Pitch)
		}
		notes = append(notes, Note{Pitch: ev.Pitch, Start: ev.Start, End: ev.End, Velocity: ev.Velocity, Name: name})
	}
	if len(problems) > 0 {
		msg := strings.Join(problems, "; ")
		desc := fmt.Sprintf("The note data is malformed (%d invalid of %d).", len(problems), len(events))
		return Set{}, failure.New(failure.InvalidInput, msg, desc)
	}

	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].Start != notes[j].Start {
			return notes[i].Start < notes[j].Start
		}
		return notes[i].Pitch < notes[j].Pitch
	})
	s := Set{notes: notes, minPitch: notes[0].Pitch, maxPitch: notes[0].Pitch}
	for _, n := range notes {
		s.minPitch = min(s.minPitch, n.Pitch)
		s.maxPitch = max(s.maxPitch, n.Pitch)
		s.end = max(s.end, n.End)
	}
	return s, nil
}

func validate(ev Event) string {
	switch {
	case ev.Pitch < MinPitch || ev.Pitch > MaxPitch:
		return fmt.Sprintf("pitch %d outside %d..%d", ev.Pitch, MinPitch, MaxPitch)
	case ev.Velocity < 0 || ev.Velocity > MaxVelocity:
		return fmt.Sprintf("velocity %d outside 0..%d", ev.Velocity, MaxVelocity)
	case math.IsNaN(ev.Start) || math.IsNaN(ev.End) || math.IsInf(ev.Start, 0) || math.IsInf(ev.End, 0):
		return "non-finite time"
	case ev.Start < 0:
		return fmt.Sprintf("start %.3f is negative", ev.Start)
	case ev.End < ev.Start:
		return fmt.Sprintf("end %.3f before start %.3f", ev.End, ev.Start)
	}
	return ""
}

// Len returns the number of notes.
func (s Set) Len() int { return len(s.notes) }

// Notes returns the notes ordered by start time. Callers must not modify the slice.
func (s Set) Notes() []Note { return s.notes }

// MinPitch and MaxPitch bound the unpadded pitches.
func (s Set) MinPitch() int { return s.minPitch }
func (s Set) MaxPitch() int { return s.maxPitch }

// End is the latest note end in seconds.
func (s Set) End() float64 { return s.end }

// Range returns the pitch range widened by padding rows on each side.
func (s Set) Range(padding int) PitchRange {
	return NewRange(s.minPitch, s.maxPitch, padding)
}

// ActiveAt returns the notes sounding at t.
func (s Set) ActiveAt(t float64) []Note {
	var out []Note
	for _, n := range s.notes {
		if n.Start > t {
			break
		}
		if n.ActiveAt(t) {
			out = append(out, n)
		}
	}
	return out
}
