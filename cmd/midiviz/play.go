package main

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cbegin/midiviz-go"
	"github.com/cbegin/midiviz-go/internal/failure"
	"github.com/cbegin/midiviz-go/internal/playback"
)

const (
	minWindowW = 640
	minWindowH = 360

	seekStep = 5.0
)

const (
	dragNone = iota
	dragProgress
	dragVolume
)

func (a *app) playCmd() *cobra.Command {
	var (
		flags     vizFlags
		audioPath string
		soundFont string
	)
	cmd := &cobra.Command{
		Use:   "play <notes.json|song.mid>",
		Short: "Open a window that plays the audio and draws the notes",
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

			g := newGame(viz, a.log)
			viz.SetVolume(a.cfg.Volume)
			if err := a.loadAudio(viz, args[0], audioPath, soundFont); err != nil {
				g.setError(failure.Message(err))
			}

			ebiten.SetWindowSize(max(a.cfg.Window.Width, minWindowW), max(a.cfg.Window.Height, minWindowH))
			ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
			ebiten.SetWindowSizeLimits(minWindowW, minWindowH, -1, -1)
			ebiten.SetWindowTitle("midiviz - " + filepath.Base(args[0]))
			return ebiten.RunGame(g)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&audioPath, "audio", "", "WAV or MP3 to play")
	cmd.Flags().StringVar(&soundFont, "soundfont", "", "SoundFont used to render MIDI input when --audio is not given")
	return cmd
}

type game struct {
	log logrus.FieldLogger
	viz *midiviz.Visualizer

	static  *ebiten.Image
	dynamic *ebiten.Image

	status    string
	statusErr bool
	// failed replaces the note view with the status message.
	failed bool

	dragging int

	text *uiText
	// onsetMarks caches note start fractions for the duration they were built for.
	onsetMarks []float64
	onsetFor   float64

	viewW int
	viewH int
}

func newGame(viz *midiviz.Visualizer, log logrus.FieldLogger) *game {
	s := viz.Surfaces()
	w, h := viz.Layout().Size()
	g := &game{
		log:     log.WithField("component", "ui"),
		viz:     viz,
		static:  ebiten.NewImageFromImage(s.Static.Image()),
		dynamic: ebiten.NewImage(w, h),
		status:  "Ready",
		text:    newUIText(),
		viewW:   minWindowW,
		viewH:   minWindowH,
	}
	g.uploadDynamic()
	return g
}

func (g *game) Update() error {
	g.handleKeys()
	g.handleMouse()
	f := g.viz.Tick()
	if f.Redraw {
		g.uploadDynamic()
	}
	if f.State == playback.Ended && !g.statusErr && g.status != "Playback ended" {
		g.setStatus("Playback ended")
	}
	return nil
}

func (g *game) uploadDynamic() {
	rgba, ok := g.viz.Surfaces().Dynamic.Image().(*image.RGBA)
	if !ok {
		return
	}
	g.dynamic.WritePixels(rgba.Pix)
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(bgColor)
	l := g.layoutRects()

	if g.failed {
		drawSunkenPanel(screen, l.view, sunkenBgColor)
		g.text.drawCentered(screen, g.status, l.view, 16, errorColor)
	} else {
		drawSunkenPanel(screen, l.view, viewBgColor)
		g.drawNotes(screen, l.view)
	}

	g.drawButton(screen, l.play, g.playButtonLabel())
	drawPanel(screen, l.time)
	g.text.drawCentered(screen, g.viz.Status().TimeDisplay(), l.time, 10, labelColor)
	g.drawSlider(screen, g.progressSlider(l.progress), g.onsets())
	g.drawSlider(screen, g.volumeSlider(l.volume), nil)
	drawSunkenPanel(screen, l.status, sunkenBgColor)
	g.drawStatus(screen, l.status)
}

// drawNotes scales both layers uniformly into rect.
func (g *game) drawNotes(screen *ebiten.Image, rect image.Rectangle) {
	w, h := g.viz.Layout().Size()
	inner := rect.Inset(4)
	scale := min(float64(inner.Dx())/float64(w), float64(inner.Dy())/float64(h))
	if scale <= 0 {
		return
	}
	x := float64(inner.Min.X) + (float64(inner.Dx())-float64(w)*scale)/2
	y := float64(inner.Min.Y) + (float64(inner.Dy())-float64(h)*scale)/2
	for _, img := range []*ebiten.Image{g.static, g.dynamic} {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(scale, scale)
		op.GeoM.Translate(x, y)
		op.Filter = ebiten.FilterLinear
		screen.DrawImage(img, op)
	}
}

func (g *game) Layout(outsideW, outsideH int) (int, int) {
	outsideW = max(outsideW, minWindowW)
	outsideH = max(outsideH, minWindowH)
	g.viewW = outsideW
	g.viewH = outsideH
	return outsideW, outsideH
}

func (g *game) handleKeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.togglePlayPause()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyLeft) {
		g.seek(g.viz.Status().CurrentTime - seekStep)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyRight) {
		g.seek(g.viz.Status().CurrentTime + seekStep)
	}
}

func (g *game) handleMouse() {
	mx, my := ebiten.CursorPosition()
	pt := image.Pt(mx, my)
	l := g.layoutRects()

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		switch {
		case pt.In(l.play):
			g.togglePlayPause()
			return
		case pt.In(l.progress):
			g.dragging = dragProgress
		case pt.In(l.volume):
			g.dragging = dragVolume
		}
	}
	if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		g.dragging = dragNone
	}
	switch g.dragging {
	case dragProgress:
		g.updateProgressFromMouse(mx, l.progress)
	case dragVolume:
		g.updateVolumeFromMouse(mx, l.volume)
	}
}

type uiLayout struct {
	view             image.Rectangle
	play, time       image.Rectangle
	progress, volume image.Rectangle
	status           image.Rectangle
}

func (g *game) layoutRects() uiLayout {
	w := max(g.viewW, minWindowW)
	h := max(g.viewH, minWindowH)

	pad := 20
	rowH := 44
	statusH := 40

	statusTop := h - pad - statusH
	controlsTop := statusTop - 8 - rowH

	playRect := image.Rect(pad, controlsTop, pad+110, controlsTop+rowH)
	timeW := g.text.width("00:00 / 00:00") + 20
	timeRect := image.Rect(playRect.Max.X+12, controlsTop, playRect.Max.X+12+timeW, controlsTop+rowH)
	volW := 240
	volumeRect := image.Rect(w-pad-volW, controlsTop, w-pad, controlsTop+rowH)
	progressRect := image.Rect(timeRect.Max.X+12, controlsTop, max(timeRect.Max.X+60, volumeRect.Min.X-12), controlsTop+rowH)

	return uiLayout{
		view:     image.Rect(pad, pad, w-pad, controlsTop-12),
		play:     playRect,
		time:     timeRect,
		progress: progressRect,
		volume:   volumeRect,
		status:   image.Rect(pad, statusTop, w-pad, statusTop+statusH),
	}
}

func (g *game) togglePlayPause() {
	if g.failed {
		return
	}
	if err := g.viz.Toggle(); err != nil {
		g.setError(failure.Message(err))
		return
	}
	if g.viz.Running() {
		g.setStatus("Playing")
	} else {
		g.setStatus("Paused")
	}
}

func (g *game) seek(t float64) {
	if g.failed {
		return
	}
	if err := g.viz.Seek(t); err != nil {
		g.setError(failure.Message(err))
		return
	}
	g.setStatus(fmt.Sprintf("Seek %s", playback.FormatTime(g.viz.Status().CurrentTime)))
}

func (g *game) playButtonLabel() string {
	if g.viz.Running() {
		return "Pause"
	}
	return "Play"
}

// setError shows msg in place of the notes.
func (g *game) setError(msg string) {
	g.log.WithField("message", msg).Warn("visualization unavailable")
	g.status = msg
	g.statusErr = true
	g.failed = true
}

func (g *game) setStatus(msg string) {
	g.status = msg
	g.statusErr = false
}
