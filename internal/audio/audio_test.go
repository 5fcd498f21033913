package audio

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/cbegin/midiviz-go/internal/failure"
)

func TestManualClockAdvanceStopsAtEnd(t *testing.T) {
	c := NewManualClock(2 * time.Second)
	c.Advance(time.Second)
	if c.Position() != 0 {
		t.Fatalf("paused clock moved")
	}
	c.Play()
	c.Advance(1500 * time.Millisecond)
	if got := c.Position(); got != 1500*time.Millisecond {
		t.Fatalf("position = %v, want 1.5s", got)
	}
	c.Advance(time.Second)
	if c.Position() != 2*time.Second || c.IsPlaying() {
		t.Fatalf("clock should stop at the end: pos=%v playing=%v", c.Position(), c.IsPlaying())
	}
	c.Play()
	if c.IsPlaying() {
		t.Fatalf("clock at the end should not restart by itself")
	}
}

func TestManualClockClampsSeek(t *testing.T) {
	c := NewManualClock(2 * time.Second)
	_ = c.SetPosition(-time.Second)
	if c.Position() != 0 {
		t.Fatalf("negative seek = %v", c.Position())
	}
	_ = c.SetPosition(time.Minute)
	if c.Position() != 2*time.Second {
		t.Fatalf("seek past end = %v", c.Position())
	}
	if c.Volume() != 1 {
		t.Fatalf("initial volume = %v", c.Volume())
	}
	_ = c.Close()
	c.Play()
	if c.IsPlaying() {
		t.Fatalf("closed clock played")
	}
}

func TestPCMBytesAndDuration(t *testing.T) {
	pcm := PCM{SampleRate: 4, Samples: []float32{0.5, -0.5, 1, 0, 0, 0, 0, 0}}
	if pcm.Frames() != 4 {
		t.Fatalf("frames = %d, want 4", pcm.Frames())
	}
	if pcm.Duration() != time.Second {
		t.Fatalf("duration = %v, want 1s", pcm.Duration())
	}
	b := pcm.Bytes()
	if len(b) != 32 {
		t.Fatalf("len(bytes) = %d, want 32", len(b))
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(b[4:])); got != -0.5 {
		t.Fatalf("second sample = %v, want -0.5", got)
	}
}

func writeTestWAV(t *testing.T, path string, sampleRate, frames int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	enc := gowav.NewEncoder(f, sampleRate, 16, 2, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 2, SampleRate: sampleRate},
		Data:           make([]int, frames*2),
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestProbeWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	writeTestWAV(t, path, 8000, 16000)
	info, err := Probe(path)
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	if info.Format != FormatWAV || info.SampleRate != 8000 || info.Channels != 2 {
		t.Fatalf("info = %+v", info)
	}
	if info.Duration != 2*time.Second {
		t.Fatalf("duration = %v, want 2s", info.Duration)
	}
}

func TestProbeMissingFile(t *testing.T) {
	_, err := Probe(filepath.Join(t.TempDir(), "missing.wav"))
	if !failure.Is(err, failure.NotFound) {
		t.Fatalf("err = %v, want NotFound", err)
	}
}

func TestProbeRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noise.wav")
	if err := os.WriteFile(path, []byte("RIFF\x00\x00\x00\x00WAVEjunk"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Probe(path); !failure.Is(err, failure.AudioLoad) {
		t.Fatalf("err = %v, want AudioLoad", err)
	}
}

func TestFormatOf(t *testing.T) {
	if formatOf("x.bin", []byte("RIFF\x00\x00\x00\x00WAVE")) != FormatWAV {
		t.Fatalf("RIFF header not detected")
	}
	if formatOf("song.WAV", nil) != FormatWAV {
		t.Fatalf("extension not detected")
	}
	if formatOf("song.mp3", []byte("ID3")) != FormatMP3 {
		t.Fatalf("mp3 not detected")
	}
}
