package audio

import (
	"fmt"
	"io"
	"os"
	"time"

	gowav "github.com/go-audio/wav"
	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/cbegin/midiviz-go/internal/failure"
)

// Info describes an encoded audio file without opening a sound device.
type Info struct {
	Format     Format
	SampleRate int
	Channels   int
	Duration   time.Duration
}

func (i Info) String() string {
	return fmt.Sprintf("%s %d Hz %d ch %s", i.Format, i.SampleRate, i.Channels, i.Duration.Round(time.Millisecond))
}

// Probe reads the header of a WAV or MP3 file.
func Probe(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Info{}, failure.Wrap(err, failure.NotFound, "probe audio", fmt.Sprintf("Audio file %s does not exist.", path))
		}
		return Info{}, failure.Wrap(err, failure.AudioLoad, "probe audio", "The audio file could not be read.")
	}
	defer f.Close()

	head := make([]byte, 12)
	n, _ := io.ReadFull(f, head)
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return Info{}, failure.Wrap(err, failure.AudioLoad, "probe audio", "The audio file could not be read.")
	}
	if formatOf(path, head[:n]) == FormatWAV {
		return probeWAV(f)
	}
	return probeMP3(f)
}

func probeWAV(r io.ReadSeeker) (Info, error) {
	d := gowav.NewDecoder(r)
	if !d.IsValidFile() {
		return Info{}, failure.New(failure.AudioLoad, "invalid wav header", "The WAV file is not valid.")
	}
	// The header duration counts the whole RIFF body; prefer the data chunk.
	dur, err := d.Duration()
	if err != nil {
		return Info{}, failure.Wrap(err, failure.AudioLoad, "wav duration", "The WAV file is not valid.")
	}
	if frameSize := int64(d.NumChans) * int64(d.BitDepth/8); d.FwdToPCM() == nil && d.PCMLen() > 0 && frameSize > 0 {
		dur = framesDuration(d.PCMLen()/frameSize, int(d.SampleRate))
	}
	return Info{
		Format:     FormatWAV,
		SampleRate: int(d.SampleRate),
		Channels:   int(d.NumChans),
		Duration:   dur,
	}, nil
}

func probeMP3(r io.ReadSeeker) (Info, error) {
	d, err := gomp3.NewDecoder(r)
	if err != nil {
		return Info{}, failure.Wrap(err, failure.AudioLoad, "decode mp3", "The MP3 file is not valid.")
	}
	// go-mp3 always decodes to 16-bit stereo.
	return Info{
		Format:     FormatMP3,
		SampleRate: d.SampleRate(),
		Channels:   2,
		Duration:   framesDuration(d.Length()/bytesPerFrame16, d.SampleRate()),
	}, nil
}
