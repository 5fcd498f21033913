package synth

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	gowav "github.com/go-audio/wav"

	"github.com/cbegin/midiviz-go/internal/audio"
	"github.com/cbegin/midiviz-go/internal/failure"
)

func TestNormalizeScalesToHeadroom(t *testing.T) {
	left := []float32{0.1, -0.5, 0.2}
	right := []float32{0.25, 0, -0.1}
	normalize(left, right)
	if left[1] != -0.99 {
		t.Fatalf("peak sample = %v, want -0.99", left[1])
	}
	if got := right[0]; got < 0.49 || got > 0.5 {
		t.Fatalf("scaled sample = %v, want about 0.495", got)
	}

	silent := []float32{0, 0}
	normalize(silent, silent)
	if silent[0] != 0 {
		t.Fatalf("silence changed")
	}
}

func TestInterleave(t *testing.T) {
	got := interleave([]float32{1, 2}, []float32{3, 4})
	want := []float32{1, 3, 2, 4}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("interleave = %v, want %v", got, want)
		}
	}
}

func TestWriteWAVRoundTripsHeader(t *testing.T) {
	pcm := audio.PCM{SampleRate: 8000, Samples: make([]float32, 2*8000)}
	pcm.Samples[0] = 1
	pcm.Samples[1] = -2
	path := filepath.Join(t.TempDir(), "out.wav")
	if err := WriteWAVFile(path, pcm); err != nil {
		t.Fatalf("write: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	d := gowav.NewDecoder(f)
	if !d.IsValidFile() {
		t.Fatalf("written file is not a valid wav")
	}
	if d.SampleRate != 8000 || d.NumChans != 2 || d.BitDepth != 16 {
		t.Fatalf("header = %d Hz %d ch %d bit", d.SampleRate, d.NumChans, d.BitDepth)
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(buf.Data) != len(pcm.Samples) {
		t.Fatalf("samples = %d, want %d", len(buf.Data), len(pcm.Samples))
	}
	if buf.Data[0] != 32767 || buf.Data[1] != -32767 {
		t.Fatalf("first frame = %d,%d; want clipped full scale", buf.Data[0], buf.Data[1])
	}
}

func TestRenderFilesMissingInputs(t *testing.T) {
	dir := t.TempDir()
	_, err := RenderFiles(filepath.Join(dir, "none.mid"), filepath.Join(dir, "none.sf2"), Options{})
	if !failure.Is(err, failure.NotFound) {
		t.Fatalf("err = %v, want NotFound", err)
	}
	mid := filepath.Join(dir, "song.mid")
	if err := os.WriteFile(mid, []byte("MThd"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err = RenderFiles(mid, filepath.Join(dir, "none.sf2"), Options{})
	if !failure.Is(err, failure.NotFound) {
		t.Fatalf("missing soundfont err = %v, want NotFound", err)
	}
}

func TestRenderRejectsBadSoundFont(t *testing.T) {
	_, err := Render(bytes.NewReader([]byte("MThd")), bytes.NewReader([]byte("not a soundfont")), Options{})
	if !failure.Is(err, failure.InvalidInput) {
		t.Fatalf("err = %v, want InvalidInput", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	o := Options{Tail: -time.Second}.withDefaults()
	if o.SampleRate != audio.DefaultSampleRate || o.Tail != 0 {
		t.Fatalf("defaults = %+v", o)
	}
}
