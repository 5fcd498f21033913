package midiviz

import (
	"context"
	"fmt"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fogleman/gg"
	"github.com/sirupsen/logrus"

	"github.com/cbegin/midiviz-go/internal/render"
	"github.com/cbegin/midiviz-go/internal/viewport"
)

// Snapshot paints the frame at time t and writes it as PNG.
func (v *Visualizer) Snapshot(w io.Writer, t float64) error {
	v.RenderAt(t)
	if err := png.Encode(w, v.Image()); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

func (v *Visualizer) SnapshotFile(path string, t float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := v.Snapshot(f, t); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// FrameOptions controls ExportFrames.
type FrameOptions struct {
	Dir string
	FPS int
	// Start and End bound the exported time span. End <= 0 means the full duration.
	Start, End float64
	Workers    int
	// Progress, when set, is called from worker goroutines after each frame.
	Progress func(done, total int)
}

// FrameCount is the number of frames in [start, end] at fps, both ends included.
func FrameCount(start, end float64, fps int) int {
	if fps <= 0 || !(end >= start) {
		return 0
	}
	return int(math.Floor((end-start)*float64(fps)+1e-9)) + 1
}

// FrameName is the file name of frame i.
func FrameName(i int) string { return fmt.Sprintf("frame%05d.png", i+1) }

type frameWorker struct {
	r   render.Renderer
	dyn *gg.Context
	out *gg.Context
}

// ExportFrames writes one PNG per frame into opts.Dir using a pool of workers,
// each with its own renderer and surfaces. It returns the number of frames
// written. Playback state is not touched.
func (v *Visualizer) ExportFrames(ctx context.Context, opts FrameOptions) (int, error) {
	if opts.FPS <= 0 {
		opts.FPS = 30
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.End <= 0 {
		opts.End = v.Duration()
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return 0, err
	}
	total := FrameCount(opts.Start, opts.End, opts.FPS)
	log := v.log.WithFields(logrus.Fields{"frames": total, "fps": opts.FPS, "workers": opts.Workers})
	log.Info("exporting frames")

	static := v.surfaces.Static.Image()
	w, h := v.layout.Size()
	workers := make(chan *frameWorker, opts.Workers)
	for i := 0; i < opts.Workers; i++ {
		r, err := render.New(v.layout)
		if err != nil {
			return 0, err
		}
		workers <- &frameWorker{r: r, dyn: gg.NewContext(w, h), out: gg.NewContext(w, h)}
	}

	var (
		wg       sync.WaitGroup
		written  atomic.Int64
		errOnce  sync.Once
		firstErr error
	)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	notes := v.notes.Notes()
	for i := 0; i < total && ctx.Err() == nil; i++ {
		var fw *frameWorker
		select {
		case fw = <-workers:
		case <-ctx.Done():
		}
		if fw == nil {
			break
		}
		wg.Add(1)
		go func(fw *frameWorker, i int) {
			defer wg.Done()
			defer func() { workers <- fw }()
			t := opts.Start + float64(i)/float64(opts.FPS)
			fw.r.RenderDynamic(fw.dyn, notes, viewport.Compute(v.layout, t))
			fw.out.SetColor(color.Transparent)
			fw.out.Clear()
			fw.out.DrawImage(static, 0, 0)
			fw.out.DrawImage(fw.dyn.Image(), 0, 0)
			if err := fw.out.SavePNG(filepath.Join(opts.Dir, FrameName(i))); err != nil {
				errOnce.Do(func() {
					firstErr = fmt.Errorf("frame %d: %w", i, err)
					cancel()
				})
				return
			}
			n := int(written.Add(1))
			if opts.Progress != nil {
				opts.Progress(n, total)
			}
		}(fw, i)
	}
	wg.Wait()

	n := int(written.Load())
	if firstErr != nil {
		return n, firstErr
	}
	if n < total {
		return n, ctx.Err()
	}
	log.WithField("written", n).Info("frames exported")
	return n, nil
}
