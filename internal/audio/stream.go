// Package audio opens playable audio and exposes it as a Clock.
package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	ebitaudio "github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"

	"github.com/cbegin/midiviz-go/internal/failure"
)

const DefaultSampleRate = 44100

// bytesPerFrame16 is one stereo frame of the 16-bit streams the ebiten
// decoders produce; bytesPerFrameF32 is one stereo float32 frame.
const (
	bytesPerFrame16  = 4
	bytesPerFrameF32 = 8
)

// PCM is interleaved stereo float32 audio.
type PCM struct {
	SampleRate int
	Samples    []float32
}

// Frames returns the number of stereo frames.
func (p PCM) Frames() int { return len(p.Samples) / 2 }

func (p PCM) Duration() time.Duration {
	if p.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(p.Frames()) / float64(p.SampleRate) * float64(time.Second))
}

// Bytes encodes the samples as little-endian float32, the layout NewPlayerF32
// reads.
func (p PCM) Bytes() []byte {
	out := make([]byte, len(p.Samples)*4)
	for i, s := range p.Samples {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(s))
	}
	return out
}

// Player is a Clock backed by an ebiten audio player.
type Player struct {
	player   *ebitaudio.Player
	duration time.Duration
}

var (
	audioContextOnce sync.Once
	audioContext     *ebitaudio.Context
	audioSampleRate  int
)

// ebiten allows one context per process, so every player shares it.
func sharedAudioContext(sampleRate int) (*ebitaudio.Context, error) {
	audioContextOnce.Do(func() {
		audioSampleRate = sampleRate
		audioContext = ebitaudio.NewContext(sampleRate)
	})
	if audioSampleRate != sampleRate {
		return nil, fmt.Errorf("audio context already initialized at %d Hz (requested %d Hz)", audioSampleRate, sampleRate)
	}
	return audioContext, nil
}

// NewPCMPlayer plays in-memory PCM.
func NewPCMPlayer(pcm PCM) (*Player, error) {
	if pcm.Frames() == 0 {
		return nil, failure.New(failure.AudioLoad, "empty pcm", "The rendered audio is empty.")
	}
	ctx, err := sharedAudioContext(pcm.SampleRate)
	if err != nil {
		return nil, failure.Wrap(err, failure.AudioLoad, "audio context", "The audio device could not be opened.")
	}
	data := pcm.Bytes()
	pl, err := ctx.NewPlayerF32(bytes.NewReader(data))
	if err != nil {
		return nil, failure.Wrap(err, failure.AudioLoad, "new player", "The audio could not be played.")
	}
	return &Player{player: pl, duration: framesDuration(int64(len(data)/bytesPerFrameF32), pcm.SampleRate)}, nil
}

// OpenFile decodes a WAV or MP3 file, resampled to sampleRate.
func OpenFile(path string, sampleRate int) (*Player, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, failure.Wrap(err, failure.NotFound, "open audio", fmt.Sprintf("Audio file %s does not exist.", path))
		}
		return nil, failure.Wrap(err, failure.AudioLoad, "read audio", "The audio file could not be read.")
	}
	return NewPlayerFromBytes(data, formatOf(path, data), sampleRate)
}

// Format names a supported encoded audio format.
type Format string

const (
	FormatWAV Format = "wav"
	FormatMP3 Format = "mp3"
)

func formatOf(path string, data []byte) Format {
	if len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WAVE" {
		return FormatWAV
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".wave":
		return FormatWAV
	}
	return FormatMP3
}

// NewPlayerFromBytes decodes an encoded file held in memory.
func NewPlayerFromBytes(data []byte, format Format, sampleRate int) (*Player, error) {
	ctx, err := sharedAudioContext(sampleRate)
	if err != nil {
		return nil, failure.Wrap(err, failure.AudioLoad, "audio context", "The audio device could not be opened.")
	}
	var (
		src    io.Reader
		length int64
	)
	switch format {
	case FormatWAV:
		s, err := wav.DecodeWithSampleRate(sampleRate, bytes.NewReader(data))
		if err != nil {
			return nil, failure.Wrap(err, failure.AudioLoad, "decode wav", "The WAV audio could not be decoded.")
		}
		src, length = s, s.Length()
	case FormatMP3:
		s, err := mp3.DecodeWithSampleRate(sampleRate, bytes.NewReader(data))
		if err != nil {
			return nil, failure.Wrap(err, failure.AudioLoad, "decode mp3", "The MP3 audio could not be decoded.")
		}
		src, length = s, s.Length()
	default:
		return nil, failure.New(failure.AudioLoad, fmt.Sprintf("unsupported format %q", format), "The audio format is not supported.")
	}
	pl, err := ctx.NewPlayer(src)
	if err != nil {
		return nil, failure.Wrap(err, failure.AudioLoad, "new player", "The audio could not be played.")
	}
	return &Player{player: pl, duration: framesDuration(length/bytesPerFrame16, sampleRate)}, nil
}

func framesDuration(frames int64, sampleRate int) time.Duration {
	if sampleRate <= 0 || frames <= 0 {
		return 0
	}
	return time.Duration(frames) * time.Second / time.Duration(sampleRate)
}

func (p *Player) Duration() time.Duration { return p.duration }

// Position returns the current playback position (what the listener actually hears).
func (p *Player) Position() time.Duration {
	return p.player.Position()
}

func (p *Player) SetPosition(pos time.Duration) error {
	return p.player.SetPosition(min(max(pos, 0), p.duration))
}

func (p *Player) Volume() float64     { return p.player.Volume() }
func (p *Player) SetVolume(v float64) { p.player.SetVolume(v) }
func (p *Player) Play()               { p.player.Play() }
func (p *Player) Pause()              { p.player.Pause() }
func (p *Player) IsPlaying() bool {
	return p.player.IsPlaying()
}

func (p *Player) Close() error {
	p.player.Pause()
	return p.player.Close()
}
