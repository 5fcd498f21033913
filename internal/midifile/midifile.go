// Package midifile turns a Standard MIDI File into note events.
package midifile

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/cbegin/midiviz-go/internal/failure"
	"github.com/cbegin/midiviz-go/internal/note"
)

// File is the note content of one MIDI file.
type File struct {
	Events []note.Event
	Tracks int
	// Duration is the time of the last event of any track, in seconds.
	Duration float64
}

// Read parses the file at path.
func Read(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return File{}, failure.Wrap(err, failure.NotFound, "open midi", fmt.Sprintf("MIDI file %s does not exist.", path))
		}
		return File{}, failure.Wrap(err, failure.InvalidInput, "read midi", "The MIDI file could not be read.")
	}
	return ReadFrom(bytes.NewReader(data))
}

type noteKey struct {
	channel uint8
	key     uint8
}

type pending struct {
	start    int64
	velocity uint8
}

// ReadFrom parses an SMF stream. Notes from all tracks are merged; overlapping
// notes on the same channel and key are matched first-in first-out, and notes
// still sounding at the end of their track end there.
func ReadFrom(r io.Reader) (File, error) {
	s, err := smf.ReadFrom(r)
	if err != nil {
		return File{}, failure.Wrap(err, failure.InvalidInput, "parse midi", "The MIDI file is not valid.")
	}

	seconds := func(tick int64) float64 {
		return float64(s.TimeAt(tick)) / 1e6
	}
	out := File{Tracks: len(s.Tracks)}
	var lastTick int64
	for _, track := range s.Tracks {
		open := make(map[noteKey][]pending)
		var tick int64
		for _, ev := range track {
			tick += int64(ev.Delta)
			msg := midi.Message(ev.Message)
			var ch, key, vel uint8
			switch {
			case msg.GetNoteStart(&ch, &key, &vel):
				k := noteKey{ch, key}
				open[k] = append(open[k], pending{start: tick, velocity: vel})
			case msg.GetNoteEnd(&ch, &key):
				k := noteKey{ch, key}
				queue := open[k]
				if len(queue) == 0 {
					continue
				}
				p := queue[0]
				open[k] = queue[1:]
				out.Events = append(out.Events, event(key, p, seconds(p.start), seconds(tick)))
			}
		}
		for k, queue := range open {
			for _, p := range queue {
				out.Events = append(out.Events, event(k.key, p, seconds(p.start), seconds(tick)))
			}
		}
		lastTick = max(lastTick, tick)
	}
	out.Duration = seconds(lastTick)

	sort.SliceStable(out.Events, func(i, j int) bool {
		if out.Events[i].Start != out.Events[j].Start {
			return out.Events[i].Start < out.Events[j].Start
		}
		return out.Events[i].Pitch < out.Events[j].Pitch
	})
	return out, nil
}

func event(key uint8, p pending, start, end float64) note.Event {
	return note.Event{
		Pitch:    int(key),
		Start:    start,
		End:      end,
		Velocity: int(p.velocity),
		Name:     note.Name(int(key)),
	}
}
