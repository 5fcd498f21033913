package main

import (
	"encoding/json"
	"maps"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cbegin/midiviz-go"
	"github.com/cbegin/midiviz-go/internal/audio"
	"github.com/cbegin/midiviz-go/internal/failure"
	"github.com/cbegin/midiviz-go/internal/synth"
)

// vizFlags are the layout flags shared by every command that draws.
type vizFlags struct {
	mode       string
	padding    int
	height     float64
	userConfig string
}

func (f *vizFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.mode, "mode", "", "display mode: horizontal|vertical")
	cmd.Flags().IntVar(&f.padding, "padding", 2, "empty pitch rows above and below the notes")
	cmd.Flags().Float64Var(&f.height, "height", 0, "surface height in pixels (0 = derived)")
	cmd.Flags().StringVar(&f.userConfig, "user-config", "", `JSON render overrides, e.g. '{"noteHeight":8}'`)
}

// payload loads path and layers the config file and the flags over it.
// Precedence, lowest first: config file, payload file, flags.
func (a *app) payload(cmd *cobra.Command, path string, f vizFlags) (midiviz.Payload, error) {
	p, err := midiviz.LoadPayload(path)
	if err != nil {
		return midiviz.Payload{}, err
	}
	return applyOverrides(p, a.cfg, f, cmd.Flags().Changed)
}

func applyOverrides(p midiviz.Payload, cfg *Config, f vizFlags, changed func(string) bool) (midiviz.Payload, error) {
	if p.Mode == "" {
		p.Mode = cfg.Mode
	}
	if p.Padding == nil {
		padding := cfg.Padding
		p.Padding = &padding
	}
	if len(cfg.Render) > 0 {
		merged := maps.Clone(cfg.Render)
		maps.Copy(merged, p.UserConfig)
		p.UserConfig = merged
	}

	if changed("mode") {
		p.Mode = f.mode
	}
	if changed("padding") {
		padding := f.padding
		p.Padding = &padding
	}
	if changed("height") {
		height := f.height
		p.ManualHeight = &height
	}
	if strings.TrimSpace(f.userConfig) != "" {
		var overrides map[string]any
		if err := json.Unmarshal([]byte(f.userConfig), &overrides); err != nil {
			return midiviz.Payload{}, failure.Wrap(err, failure.InvalidInput, "parse --user-config", "--user-config is not a JSON object.")
		}
		merged := maps.Clone(p.UserConfig)
		if merged == nil {
			merged = map[string]any{}
		}
		maps.Copy(merged, overrides)
		p.UserConfig = merged
	}
	return p, nil
}

func isMIDI(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mid", ".midi":
		return true
	}
	return false
}

// loadAudio picks the audio for a visualization: an explicit file, or the
// MIDI input rendered through a SoundFont.
func (a *app) loadAudio(viz *midiviz.Visualizer, input, audioPath, soundFont string) error {
	if audioPath != "" {
		if info, err := audio.Probe(audioPath); err == nil {
			a.log.WithField("audio", info.String()).Info("audio probed")
		}
		return viz.LoadAudioFile(audioPath)
	}
	if soundFont == "" {
		soundFont = a.cfg.SoundFont
	}
	if !isMIDI(input) || soundFont == "" {
		return failure.New(failure.AudioLoad, "no audio", "No audio: pass --audio, or a MIDI file with --soundfont.")
	}
	a.log.WithField("soundfont", soundFont).Info("rendering audio")
	pcm, err := synth.RenderFiles(input, soundFont, synth.Options{SampleRate: a.cfg.SampleRate})
	if err != nil {
		return err
	}
	return viz.LoadPCM(pcm)
}

func (a *app) newVisualizer(p midiviz.Payload) (*midiviz.Visualizer, error) {
	return midiviz.New(p, midiviz.WithLogger(a.log), midiviz.WithSampleRate(a.cfg.SampleRate))
}
