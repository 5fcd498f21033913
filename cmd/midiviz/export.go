package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/cbegin/midiviz-go"
	"github.com/cbegin/midiviz-go/internal/audio"
	"github.com/cbegin/midiviz-go/internal/synth"
)

func (a *app) snapshotCmd() *cobra.Command {
	var (
		flags vizFlags
		at    float64
		out   string
	)
	cmd := &cobra.Command{
		Use:   "snapshot <notes.json|song.mid>",
		Short: "Write the frame at one point in time as PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.payload(cmd, args[0], flags)
			if err != nil {
				return err
			}
			viz, err := a.newVisualizer(p)
			if err != nil {
				return err
			}
			defer viz.Close()
			if err := viz.SnapshotFile(out, at); err != nil {
				return err
			}
			a.log.WithField("file", out).Infof("snapshot at %.3fs", at)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().Float64Var(&at, "at", 0, "time in seconds")
	cmd.Flags().StringVarP(&out, "out", "o", "snapshot.png", "output PNG")
	return cmd
}

func (a *app) framesCmd() *cobra.Command {
	var (
		flags vizFlags
		opts  struct {
			dir        string
			fps        int
			workers    int
			start, end float64
		}
	)
	cmd := &cobra.Command{
		Use:   "frames <notes.json|song.mid>",
		Short: "Export a numbered PNG sequence for video encoding",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.payload(cmd, args[0], flags)
			if err != nil {
				return err
			}
			viz, err := a.newVisualizer(p)
			if err != nil {
				return err
			}
			defer viz.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			step := max(1, opts.fps*5)
			n, err := viz.ExportFrames(ctx, midiviz.FrameOptions{
				Dir:     opts.dir,
				FPS:     opts.fps,
				Start:   opts.start,
				End:     opts.end,
				Workers: opts.workers,
				Progress: func(done, total int) {
					if done%step == 0 || done == total {
						a.log.Infof("frames %d/%d", done, total)
					}
				},
			})
			if err != nil {
				return fmt.Errorf("after %d frames: %w", n, err)
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&opts.dir, "out", "o", "_frames", "output directory")
	cmd.Flags().IntVar(&opts.fps, "fps", 30, "frames per second")
	cmd.Flags().IntVar(&opts.workers, "workers", 8, "parallel render workers")
	cmd.Flags().Float64Var(&opts.start, "start", 0, "first frame time in seconds")
	cmd.Flags().Float64Var(&opts.end, "end", 0, "last frame time in seconds (0 = full length)")
	return cmd
}

func (a *app) audioCmd() *cobra.Command {
	var (
		soundFont string
		out       string
	)
	cmd := &cobra.Command{
		Use:   "audio <song.mid>",
		Short: "Render a MIDI file through a SoundFont to WAV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if soundFont == "" {
				soundFont = a.cfg.SoundFont
			}
			if soundFont == "" {
				return fmt.Errorf("no soundfont: pass --soundfont or set soundFont in the config")
			}
			pcm, err := synth.RenderFiles(args[0], soundFont, synth.Options{SampleRate: a.cfg.SampleRate})
			if err != nil {
				return err
			}
			if err := synth.WriteWAVFile(out, pcm); err != nil {
				return err
			}
			info, err := audio.Probe(out)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), info)
			return nil
		},
	}
	cmd.Flags().StringVar(&soundFont, "soundfont", "", "SoundFont (.sf2) to render with")
	cmd.Flags().StringVarP(&out, "out", "o", "out.wav", "output WAV")
	return cmd
}

func (a *app) notesCmd() *cobra.Command {
	var flags vizFlags
	cmd := &cobra.Command{
		Use:   "notes <notes.json|song.mid>",
		Short: "Print the resolved payload as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.payload(cmd, args[0], flags)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(p)
		},
	}
	flags.register(cmd)
	return cmd
}
