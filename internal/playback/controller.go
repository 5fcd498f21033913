// Package playback owns the audio clock and the playback state machine.
//
// The Controller is the only writer of PlaybackState. It is driven from a
// single goroutine: commands (Play, Pause, Seek, SetVolume) and the per-frame
// Tick all run on the host's update loop.
package playback

import (
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cbegin/midiviz-go/internal/audio"
	"github.com/cbegin/midiviz-go/internal/failure"
)

// Frame is what one tick of the loop observed.
type Frame struct {
	State  State
	Status PlaybackState
	// Redraw is set when the dynamic layer is stale.
	Redraw bool
}

type Controller struct {
	log    logrus.FieldLogger
	clock  audio.Clock
	state  State
	status PlaybackState
	dirty  bool
}

func NewController(log logrus.FieldLogger) *Controller {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Controller{
		log:    log.WithField("component", "playback"),
		state:  Idle,
		status: PlaybackState{Duration: math.NaN(), Volume: 1},
		dirty:  true,
	}
}

func (c *Controller) State() State          { return c.state }
func (c *Controller) Status() PlaybackState { return c.status }
func (c *Controller) Running() bool         { return c.state == Playing }

func (c *Controller) setState(s State) {
	if s == c.state {
		return
	}
	c.log.WithFields(logrus.Fields{"from": c.state, "to": s}).Debug("state change")
	c.state = s
	c.status.IsPlaying = s == Playing
	c.dirty = true
}

// Load replaces the audio clock. On failure the controller is left Idle with
// no clock, and the error is tagged AudioLoad unless it is already a NotFound.
func (c *Controller) Load(open func() (audio.Clock, error)) error {
	c.release()
	clock, err := open()
	if err != nil {
		if !failure.Is(err, failure.AudioLoad) && !failure.Is(err, failure.NotFound) {
			err = failure.Wrap(err, failure.AudioLoad, "load audio", "The audio could not be loaded.")
		}
		c.log.WithError(err).Error("audio load failed")
		return err
	}
	clock.Pause()
	if err := clock.SetPosition(0); err != nil {
		_ = clock.Close()
		err = failure.Wrap(err, failure.AudioLoad, "rewind audio", "The audio could not be loaded.")
		c.log.WithError(err).Error("audio load failed")
		return err
	}
	clock.SetVolume(c.status.Volume)
	c.clock = clock
	c.status.CurrentTime = 0
	c.status.Duration = clock.Duration().Seconds()
	c.setState(Ready)
	c.log.WithField("duration", clock.Duration()).Info("audio loaded")
	return nil
}

func (c *Controller) notLoaded(op string) error {
	return failure.New(failure.NotLoaded, op+": no audio loaded", "Audio is not loaded yet.")
}

// Play starts or resumes playback. From Ended it restarts at 0.
func (c *Controller) Play() error {
	switch c.state {
	case Idle:
		return c.notLoaded("play")
	case Playing:
		return nil
	case Ended:
		if err := c.clock.SetPosition(0); err != nil {
			return failure.Wrap(err, failure.AudioLoad, "rewind", "The audio could not be restarted.")
		}
		c.status.CurrentTime = 0
	}
	c.clock.Play()
	c.setState(Playing)
	return nil
}

// Pause stops playback and keeps the current time.
func (c *Controller) Pause() {
	if c.state != Playing {
		return
	}
	c.clock.Pause()
	c.status.CurrentTime = c.clampTime(c.clock.Position().Seconds())
	c.setState(Paused)
}

func (c *Controller) Toggle() error {
	if c.state == Playing {
		c.Pause()
		return nil
	}
	return c.Play()
}

// Seek moves to t, clamped to [0, Duration]. The new time is visible
// immediately and the prior play state is kept; seeking from Ended lands in
// Paused.
func (c *Controller) Seek(t float64) error {
	if c.state == Idle {
		return c.notLoaded("seek")
	}
	t = c.clampTime(t)
	prior := c.state
	c.state = Seeking
	err := c.clock.SetPosition(time.Duration(t * float64(time.Second)))
	c.state = prior
	if err != nil {
		c.log.WithError(err).Warn("seek failed")
		return failure.Wrap(err, failure.AudioLoad, "seek", "The audio could not seek.")
	}
	c.status.CurrentTime = t
	switch {
	case prior == Ended:
		c.setState(Paused)
	case prior == Playing && !c.clock.IsPlaying():
		// The stream ran out before the next Tick noticed.
		c.clock.Play()
	}
	c.dirty = true
	return nil
}

// SetVolume clamps v to [0, 1] and applies it at once. Time and play state are
// untouched. A volume set before Load is applied when audio arrives.
func (c *Controller) SetVolume(v float64) {
	if math.IsNaN(v) {
		return
	}
	v = math.Max(0, math.Min(1, v))
	c.status.Volume = v
	if c.clock != nil {
		c.clock.SetVolume(v)
	}
}

// Tick reads the clock once and advances the state machine. Time only moves
// backwards through Seek.
func (c *Controller) Tick() Frame {
	if c.state == Playing {
		now := c.clampTime(c.clock.Position().Seconds())
		if now > c.status.CurrentTime {
			c.status.CurrentTime = now
		}
		if c.status.CurrentTime >= c.status.Duration || !c.clock.IsPlaying() {
			c.status.CurrentTime = c.status.Duration
			c.clock.Pause()
			c.setState(Ended)
		}
	}
	f := Frame{State: c.state, Status: c.status, Redraw: c.dirty || c.state == Playing}
	c.dirty = false
	return f
}

func (c *Controller) clampTime(t float64) float64 {
	if math.IsNaN(t) || t < 0 {
		return 0
	}
	if c.status.Duration >= 0 && t > c.status.Duration {
		return c.status.Duration
	}
	return t
}

func (c *Controller) release() {
	if c.clock != nil {
		if err := c.clock.Close(); err != nil {
			c.log.WithError(err).Warn("close audio")
		}
		c.clock = nil
	}
	c.status.CurrentTime = 0
	c.status.Duration = math.NaN()
	c.setState(Idle)
}

// Close stops audio and tears the state down. The controller can be loaded again.
func (c *Controller) Close() {
	c.release()
	c.dirty = true
}
