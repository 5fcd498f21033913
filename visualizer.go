// Package midiviz draws timed notes as a piano roll or as falling notes over a
// keyboard, kept in step with an audio clock.
package midiviz

import (
	"image"

	"github.com/sirupsen/logrus"

	"github.com/cbegin/midiviz-go/internal/audio"
	"github.com/cbegin/midiviz-go/internal/layout"
	"github.com/cbegin/midiviz-go/internal/note"
	"github.com/cbegin/midiviz-go/internal/playback"
	"github.com/cbegin/midiviz-go/internal/render"
	"github.com/cbegin/midiviz-go/internal/viewport"
)

type Option func(*visualizerConfig)

type visualizerConfig struct {
	log        logrus.FieldLogger
	sampleRate int
}

func defaultVisualizerConfig() visualizerConfig {
	return visualizerConfig{log: logrus.StandardLogger(), sampleRate: audio.DefaultSampleRate}
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(cfg *visualizerConfig) {
		if log != nil {
			cfg.log = log
		}
	}
}

// WithSampleRate sets the rate audio files are resampled to.
func WithSampleRate(sampleRate int) Option {
	return func(cfg *visualizerConfig) {
		if sampleRate > 0 {
			cfg.sampleRate = sampleRate
		}
	}
}

// Visualizer is one independent visualization: its notes, layout, surfaces
// and playback. It is driven from a single goroutine.
type Visualizer struct {
	log        logrus.FieldLogger
	sampleRate int
	notes      note.Set
	layout     layout.Layout
	renderer   render.Renderer
	surfaces   render.Surfaces
	ctrl       *playback.Controller
	rendered   float64
}

// New validates the payload, builds the layout and paints the static layer
// and the first frame. Audio is loaded separately.
func New(p Payload, opts ...Option) (*Visualizer, error) {
	cfg := defaultVisualizerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	log := cfg.log.WithField("component", "visualizer")

	mode, err := layout.ParseMode(p.Mode)
	if err != nil {
		return nil, err
	}
	notes, err := note.Build(p.NotesData)
	if err != nil {
		return nil, err
	}
	lcfg, err := layout.Merge(layout.DefaultConfig(), p.UserConfig)
	if err != nil {
		return nil, err
	}
	l, err := layout.New(layout.Params{
		Mode:         mode,
		Config:       lcfg,
		Pitches:      pitchRange(p, notes, log),
		ManualHeight: p.manualHeight(),
	}, cfg.log)
	if err != nil {
		return nil, err
	}

	r, err := render.New(l)
	if err != nil {
		return nil, err
	}
	v := &Visualizer{
		log:        log,
		sampleRate: cfg.sampleRate,
		notes:      notes,
		layout:     l,
		renderer:   r,
		surfaces:   render.NewSurfaces(l),
		ctrl:       playback.NewController(cfg.log),
	}
	v.renderer.RenderStatic(v.surfaces.Static)
	v.RenderAt(0)
	w, h := l.Size()
	log.WithFields(logrus.Fields{
		"mode":   mode,
		"notes":  notes.Len(),
		"width":  w,
		"height": h,
	}).Debug("visualizer ready")
	return v, nil
}

// pitchRange is the padded note range. Explicit bounds in the payload replace
// the note extent but never hide a note.
func pitchRange(p Payload, notes note.Set, log logrus.FieldLogger) note.PitchRange {
	lo, hi := notes.MinPitch(), notes.MaxPitch()
	if p.MinPitch != nil {
		if *p.MinPitch > lo {
			log.WithFields(logrus.Fields{"minPitch": *p.MinPitch, "lowest": lo}).Warn("minPitch above lowest note, widened")
		} else {
			lo = *p.MinPitch
		}
	}
	if p.MaxPitch != nil {
		if *p.MaxPitch < hi {
			log.WithFields(logrus.Fields{"maxPitch": *p.MaxPitch, "highest": hi}).Warn("maxPitch below highest note, widened")
		} else {
			hi = *p.MaxPitch
		}
	}
	return note.NewRange(lo, hi, p.padding())
}

func (v *Visualizer) Layout() layout.Layout          { return v.layout }
func (v *Visualizer) Notes() note.Set                { return v.notes }
func (v *Visualizer) Surfaces() render.Surfaces      { return v.surfaces }
func (v *Visualizer) State() playback.State          { return v.ctrl.State() }
func (v *Visualizer) Status() playback.PlaybackState { return v.ctrl.Status() }

// Running reports whether the frame loop should keep ticking.
func (v *Visualizer) Running() bool { return v.ctrl.Running() }

// LoadAudio installs the clock returned by open.
func (v *Visualizer) LoadAudio(open func() (audio.Clock, error)) error {
	return v.ctrl.Load(open)
}

// LoadAudioFile opens a WAV or MP3 file as the clock.
func (v *Visualizer) LoadAudioFile(path string) error {
	return v.ctrl.Load(func() (audio.Clock, error) {
		return audio.OpenFile(path, v.sampleRate)
	})
}

// LoadPCM plays rendered samples as the clock.
func (v *Visualizer) LoadPCM(pcm audio.PCM) error {
	return v.ctrl.Load(func() (audio.Clock, error) {
		return audio.NewPCMPlayer(pcm)
	})
}

func (v *Visualizer) Play() error           { return v.ctrl.Play() }
func (v *Visualizer) Pause()                { v.ctrl.Pause() }
func (v *Visualizer) Toggle() error         { return v.ctrl.Toggle() }
func (v *Visualizer) Seek(t float64) error  { return v.ctrl.Seek(t) }
func (v *Visualizer) SetVolume(vol float64) { v.ctrl.SetVolume(vol) }

// Tick advances playback from the clock and repaints the dynamic layer when
// the frame is stale.
func (v *Visualizer) Tick() playback.Frame {
	f := v.ctrl.Tick()
	if f.Redraw {
		v.RenderAt(f.Status.CurrentTime)
	}
	return f
}

// RenderAt repaints the dynamic layer for time t without touching playback.
func (v *Visualizer) RenderAt(t float64) {
	v.renderer.RenderDynamic(v.surfaces.Dynamic, v.notes.Notes(), viewport.Compute(v.layout, t))
	v.rendered = t
}

// RenderedAt is the time the dynamic layer was last painted for.
func (v *Visualizer) RenderedAt() float64 { return v.rendered }

// Placements lists the notes drawn at time t.
func (v *Visualizer) Placements(t float64) []render.Placement {
	return v.renderer.Placements(v.notes.Notes(), viewport.Compute(v.layout, t))
}

// Image is the current frame with both layers flattened.
func (v *Visualizer) Image() image.Image { return v.surfaces.Compose() }

// Duration is the audio duration when audio is loaded and the end of the
// last note otherwise.
func (v *Visualizer) Duration() float64 {
	if d := v.ctrl.Status().Duration; d >= 0 {
		return d
	}
	return v.notes.End()
}

// Close stops audio and the frame loop.
func (v *Visualizer) Close() {
	v.ctrl.Close()
	v.log.Debug("visualizer closed")
}
