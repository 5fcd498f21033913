package playback

import (
	"fmt"
	"math"
)

type State int

const (
	Idle State = iota
	Ready
	Playing
	Paused
	Seeking
	Ended
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Ready:
		return "ready"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Seeking:
		return "seeking"
	case Ended:
		return "ended"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// PlaybackState is the observable playback state. Times are in seconds;
// Duration is NaN until audio is loaded.
type PlaybackState struct {
	CurrentTime float64
	Duration    float64
	IsPlaying   bool
	Volume      float64
}

// FormatTime renders seconds as mm:ss, or --:-- when the value is unknown.
func FormatTime(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return "--:--"
	}
	total := int(math.Floor(seconds))
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// TimeDisplay is the "elapsed / total" text shown next to the progress bar.
func (s PlaybackState) TimeDisplay() string {
	return FormatTime(s.CurrentTime) + " / " + FormatTime(s.Duration)
}

// Progress is CurrentTime as a fraction of Duration, 0 when unknown.
func (s PlaybackState) Progress() float64 {
	if !(s.Duration > 0) {
		return 0
	}
	return math.Max(0, math.Min(1, s.CurrentTime/s.Duration))
}
