package audio

import (
	"sync"
	"time"
)

// Clock is a seekable, volume-controllable playback position. Position is the
// authority for what the listener hears; nothing else advances time.
type Clock interface {
	Duration() time.Duration
	Position() time.Duration
	SetPosition(time.Duration) error
	Volume() float64
	SetVolume(float64)
	Play()
	Pause()
	IsPlaying() bool
	Close() error
}

// ManualClock is a Clock that only moves when told to. It stands in for a
// sound device in tests and in offline rendering.
type ManualClock struct {
	mu       sync.Mutex
	duration time.Duration
	position time.Duration
	volume   float64
	playing  bool
	closed   bool
}

func NewManualClock(duration time.Duration) *ManualClock {
	return &ManualClock{duration: duration, volume: 1}
}

func (c *ManualClock) Duration() time.Duration { return c.duration }

func (c *ManualClock) Position() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *ManualClock) SetPosition(pos time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = min(max(pos, 0), c.duration)
	return nil
}

func (c *ManualClock) Volume() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.volume
}

func (c *ManualClock) SetVolume(v float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.volume = v
}

func (c *ManualClock) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.position >= c.duration {
		return
	}
	c.playing = true
}

func (c *ManualClock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playing = false
}

func (c *ManualClock) IsPlaying() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing
}

// Advance moves a playing clock forward by d. Like a real stream it stops on
// its own when it runs out.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.playing {
		return
	}
	c.position += d
	if c.position >= c.duration {
		c.position = c.duration
		c.playing = false
	}
}

func (c *ManualClock) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playing = false
	c.closed = true
	return nil
}
