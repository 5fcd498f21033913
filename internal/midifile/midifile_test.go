package midifile

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/cbegin/midiviz-go/internal/failure"
)

// At 120 bpm and 960 ticks per quarter, 960 ticks is half a second.
func buildSMF(t *testing.T, tracks ...smf.Track) []byte {
	t.Helper()
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(960)
	var tempo smf.Track
	tempo.Add(0, smf.MetaTempo(120))
	tempo.Close(0)
	if err := s.Add(tempo); err != nil {
		t.Fatalf("add tempo track: %v", err)
	}
	for _, tr := range tracks {
		if err := s.Add(tr); err != nil {
			t.Fatalf("add track: %v", err)
		}
	}
	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		t.Fatalf("write smf: %v", err)
	}
	return buf.Bytes()
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestReadMergesTracksWithTempo(t *testing.T) {
	var melody smf.Track
	melody.Add(0, midi.NoteOn(0, 60, 100))
	melody.Add(960, midi.NoteOff(0, 60))
	melody.Add(0, midi.NoteOn(0, 64, 50))
	melody.Add(960, midi.NoteOff(0, 64))
	melody.Close(0)

	var bass smf.Track
	bass.Add(480, midi.NoteOn(1, 48, 80))
	bass.Add(480, midi.NoteOn(1, 48, 0))
	bass.Close(0)

	f, err := ReadFrom(bytes.NewReader(buildSMF(t, melody, bass)))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if f.Tracks != 3 {
		t.Fatalf("tracks = %d, want 3", f.Tracks)
	}
	if len(f.Events) != 3 {
		t.Fatalf("events = %+v, want 3", f.Events)
	}
	want := []struct {
		pitch, vel int
		start, end float64
	}{
		{60, 100, 0, 0.5},
		{48, 80, 0.25, 0.5},
		{64, 50, 0.5, 1},
	}
	for i, w := range want {
		ev := f.Events[i]
		if ev.Pitch != w.pitch || ev.Velocity != w.vel || !near(ev.Start, w.start) || !near(ev.End, w.end) {
			t.Fatalf("event %d = %+v, want %+v", i, ev, w)
		}
	}
	if f.Events[0].Name != "C4" {
		t.Fatalf("name = %q, want C4", f.Events[0].Name)
	}
	if !near(f.Duration, 1) {
		t.Fatalf("duration = %v, want 1", f.Duration)
	}
}

func TestOverlappingNotesMatchFIFO(t *testing.T) {
	var tr smf.Track
	tr.Add(0, midi.NoteOn(0, 60, 90))
	tr.Add(480, midi.NoteOn(0, 60, 40))
	tr.Add(480, midi.NoteOff(0, 60))
	tr.Add(480, midi.NoteOff(0, 60))
	tr.Close(0)

	f, err := ReadFrom(bytes.NewReader(buildSMF(t, tr)))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(f.Events) != 2 {
		t.Fatalf("events = %+v", f.Events)
	}
	first, second := f.Events[0], f.Events[1]
	if first.Velocity != 90 || !near(first.End, 0.5) {
		t.Fatalf("first = %+v, want velocity 90 ending at 0.5", first)
	}
	if second.Velocity != 40 || !near(second.Start, 0.25) || !near(second.End, 0.75) {
		t.Fatalf("second = %+v", second)
	}
}

func TestUnterminatedNoteEndsWithTrack(t *testing.T) {
	var tr smf.Track
	tr.Add(0, midi.NoteOn(0, 72, 64))
	tr.Close(1920)

	f, err := ReadFrom(bytes.NewReader(buildSMF(t, tr)))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(f.Events) != 1 || !near(f.Events[0].End, 1) {
		t.Fatalf("events = %+v, want one note ending at 1s", f.Events)
	}
}

func TestReadErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Read(filepath.Join(dir, "missing.mid")); !failure.Is(err, failure.NotFound) {
		t.Fatalf("missing file err = %v, want NotFound", err)
	}
	bad := filepath.Join(dir, "bad.mid")
	if err := os.WriteFile(bad, []byte("not a midi file"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Read(bad); !failure.Is(err, failure.InvalidInput) {
		t.Fatalf("garbage err = %v, want InvalidInput", err)
	}
}

func TestReadFromDisk(t *testing.T) {
	var tr smf.Track
	tr.Add(0, midi.NoteOn(0, 60, 100))
	tr.Add(1920, midi.NoteOff(0, 60))
	tr.Close(0)
	path := filepath.Join(t.TempDir(), "song.mid")
	if err := os.WriteFile(path, buildSMF(t, tr), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	f, err := Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(f.Events) != 1 || !near(f.Events[0].End, 1) {
		t.Fatalf("events = %+v", f.Events)
	}
}
