// Package synth renders a MIDI file to PCM through a SoundFont.
package synth

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
	"github.com/mitchellh/go-homedir"
	"github.com/sinshu/go-meltysynth/meltysynth"

	"github.com/cbegin/midiviz-go/internal/audio"
	"github.com/cbegin/midiviz-go/internal/failure"
)

const (
	block    = 512
	headroom = 0.99
)

// Options tune a render. Zero values take the defaults.
type Options struct {
	SampleRate int
	// Tail is rendered after the last event so releases can ring out.
	Tail time.Duration
}

func (o Options) withDefaults() Options {
	if o.SampleRate <= 0 {
		o.SampleRate = audio.DefaultSampleRate
	}
	if o.Tail < 0 {
		o.Tail = 0
	}
	return o
}

// Render plays the MIDI stream through the SoundFont and returns peak
// normalised stereo PCM.
func Render(midiData, soundFont io.ReadSeeker, opts Options) (audio.PCM, error) {
	opts = opts.withDefaults()
	sf, err := meltysynth.NewSoundFont(soundFont)
	if err != nil {
		return audio.PCM{}, failure.Wrap(err, failure.InvalidInput, "load soundfont", "The SoundFont is not valid.")
	}
	synth, err := meltysynth.NewSynthesizer(sf, meltysynth.NewSynthesizerSettings(int32(opts.SampleRate)))
	if err != nil {
		return audio.PCM{}, failure.Wrap(err, failure.InvalidInput, "new synthesizer", "The SoundFont could not be used.")
	}
	mf, err := meltysynth.NewMidiFile(midiData)
	if err != nil {
		return audio.PCM{}, failure.Wrap(err, failure.InvalidInput, "load midi", "The MIDI file is not valid.")
	}

	seq := meltysynth.NewMidiFileSequencer(synth)
	seq.Play(mf, false)

	length := mf.GetLength() + opts.Tail
	frames := int(length.Seconds() * float64(opts.SampleRate))
	left := make([]float32, frames)
	right := make([]float32, frames)
	for pos := 0; pos < frames; pos += block {
		end := min(pos+block, frames)
		seq.Render(left[pos:end], right[pos:end])
	}

	normalize(left, right)
	return audio.PCM{SampleRate: opts.SampleRate, Samples: interleave(left, right)}, nil
}

// RenderFiles is Render over two paths. A leading ~ is expanded.
func RenderFiles(midiPath, soundFontPath string, opts Options) (audio.PCM, error) {
	midiData, err := readFile(midiPath, "MIDI")
	if err != nil {
		return audio.PCM{}, err
	}
	sf, err := readFile(soundFontPath, "SoundFont")
	if err != nil {
		return audio.PCM{}, err
	}
	return Render(bytes.NewReader(midiData), bytes.NewReader(sf), opts)
}

func readFile(path, what string) ([]byte, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, failure.Wrap(err, failure.InvalidInput, "expand path", fmt.Sprintf("The %s path %s is not valid.", what, path))
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, failure.Wrap(err, failure.NotFound, "open "+what, fmt.Sprintf("%s file %s does not exist.", what, expanded))
		}
		return nil, failure.Wrap(err, failure.InvalidInput, "read "+what, fmt.Sprintf("The %s file could not be read.", what))
	}
	return data, nil
}

// normalize scales both channels so the loudest sample sits just below full scale.
func normalize(left, right []float32) {
	var peak float32
	for i := range left {
		peak = max(peak, float32(math.Abs(float64(left[i]))), float32(math.Abs(float64(right[i]))))
	}
	if peak == 0 {
		return
	}
	g := float32(headroom) / peak
	for i := range left {
		left[i] *= g
		right[i] *= g
	}
}

func interleave(left, right []float32) []float32 {
	out := make([]float32, 2*len(left))
	for i := range left {
		out[2*i] = left[i]
		out[2*i+1] = right[i]
	}
	return out
}

// WriteWAV encodes pcm as 16-bit stereo WAV.
func WriteWAV(w io.WriteSeeker, pcm audio.PCM) error {
	enc := gowav.NewEncoder(w, pcm.SampleRate, 16, 2, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 2, SampleRate: pcm.SampleRate},
		Data:           make([]int, len(pcm.Samples)),
		SourceBitDepth: 16,
	}
	for i, s := range pcm.Samples {
		buf.Data[i] = int(math.Round(float64(max(-1, min(1, s))) * 32767))
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	return enc.Close()
}

// WriteWAVFile writes pcm to path.
func WriteWAVFile(path string, pcm audio.PCM) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteWAV(f, pcm); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
