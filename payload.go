package midiviz

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"

	"github.com/cbegin/midiviz-go/internal/failure"
	"github.com/cbegin/midiviz-go/internal/layout"
	"github.com/cbegin/midiviz-go/internal/midifile"
	"github.com/cbegin/midiviz-go/internal/note"
)

// DefaultPadding is the number of empty pitch rows kept above and below the notes.
const DefaultPadding = 2

// Payload is everything a visualizer is built from.
type Payload struct {
	Mode       string         `json:"mode"`
	NotesData  []note.Event   `json:"notesData"`
	UserConfig map[string]any `json:"userConfig,omitempty"`
	// ManualHeight replaces the derived surface height when set.
	ManualHeight *float64 `json:"manualHeight,omitempty"`
	MinPitch     *int     `json:"minPitch,omitempty"`
	MaxPitch     *int     `json:"maxPitch,omitempty"`
	Padding      *int     `json:"padding,omitempty"`
}

// DecodePayload reads a JSON payload.
func DecodePayload(r io.Reader) (Payload, error) {
	var p Payload
	dec := json.NewDecoder(r)
	if err := dec.Decode(&p); err != nil {
		return Payload{}, failure.Wrap(err, failure.InvalidInput, "decode payload", "The note payload is not valid JSON.")
	}
	return p, nil
}

// LoadPayload reads a payload from disk. Standard MIDI files (.mid, .midi)
// are converted with PayloadFromMIDI; anything else is decoded as JSON.
func LoadPayload(path string) (Payload, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return Payload{}, failure.Wrap(err, failure.InvalidInput, "expand path", fmt.Sprintf("The path %s is not valid.", path))
	}
	switch strings.ToLower(filepath.Ext(expanded)) {
	case ".mid", ".midi":
		f, err := midifile.Read(expanded)
		if err != nil {
			return Payload{}, err
		}
		return PayloadFromMIDI(f), nil
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		if os.IsNotExist(err) {
			return Payload{}, failure.Wrap(err, failure.NotFound, "open payload", fmt.Sprintf("Note file %s does not exist.", expanded))
		}
		return Payload{}, failure.Wrap(err, failure.InvalidInput, "read payload", "The note file could not be read.")
	}
	return DecodePayload(bytes.NewReader(data))
}

// PayloadFromMIDI builds a horizontal payload from parsed MIDI notes.
func PayloadFromMIDI(f midifile.File) Payload {
	return Payload{
		Mode:      string(layout.ModeHorizontal),
		NotesData: f.Events,
	}
}

func (p Payload) padding() int {
	if p.Padding == nil {
		return DefaultPadding
	}
	return *p.Padding
}

func (p Payload) manualHeight() float64 {
	if p.ManualHeight == nil {
		return 0
	}
	return *p.ManualHeight
}
