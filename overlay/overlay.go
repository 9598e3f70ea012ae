// Package overlay runs the needle clock on a surface: it owns the layers,
// the clock and the frame pacing, and turns recoverable frame errors into
// dropped frames.
package overlay

import (
	"sync"
	"time"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/needle"
	"github.com/gogpu/needle/clock"
	"github.com/gogpu/needle/config"
	"github.com/gogpu/needle/fonts"
	"github.com/gogpu/needle/fps"
	"github.com/gogpu/needle/metrics"
	"github.com/gogpu/needle/notify"
	"github.com/gogpu/needle/render"
	"github.com/gogpu/needle/surface"
	"github.com/gogpu/needle/text"
)

// ExpiredMessage is sent when a running countdown reaches zero.
const ExpiredMessage = "Countdown finished"

// FontResolver turns a configured font name into font data. A
// *fonts.Finder is one.
type FontResolver interface {
	ResolveOrDefault(name string) fonts.Source
}

type defaultFonts struct{}

func (defaultFonts) ResolveOrDefault(string) fonts.Source { return fonts.Default() }

// Option configures an Overlay.
type Option func(*Overlay)

// WithFonts sets the font resolver. Without one the built-in font is used.
func WithFonts(r FontResolver) Option {
	return func(o *Overlay) {
		if r != nil {
			o.fonts = r
		}
	}
}

// WithNotifier sets where countdown expiry is reported.
func WithNotifier(n notify.Notifier) Option {
	return func(o *Overlay) { o.notifier = n }
}

// WithRecorder sets the frame metrics recorder.
func WithRecorder(r *metrics.Recorder) Option {
	return func(o *Overlay) { o.recorder = r }
}

// WithShaderDir sets the directory holding the background shaders. The
// default is the shaders directory under the configuration directory.
func WithShaderDir(dir string) Option {
	return func(o *Overlay) { o.shaderDir = dir }
}

// WithNow replaces the clock's time source. Used by tests.
func WithNow(now func() time.Time) Option {
	return func(o *Overlay) {
		if now != nil {
			o.now = now
		}
	}
}

// Overlay composes the background, the time and the optional FPS text
// into frames on a surface manager it does not own.
type Overlay struct {
	cfg       *config.Config
	manager   *surface.Manager
	fonts     FontResolver
	notifier  notify.Notifier
	recorder  *metrics.Recorder
	shaderDir string
	now       func() time.Time

	clock      *clock.Clock
	counter    fps.Counter
	limiter    *fps.Limiter
	composer   *render.Composer
	background *render.Background
	timeText   *render.Text
	fpsText    *render.Text

	cleared  bool // an image has been presented since the last (re)configure
	expired  bool // expiry was reported for the running countdown
	pending  sync.WaitGroup
	presents uint64
}

// New builds the layers for cfg on m and starts the clock in mode.
func New(cfg *config.Config, m *surface.Manager, mode clock.Mode, opts ...Option) (*Overlay, error) {
	o := &Overlay{
		cfg:     cfg,
		manager: m,
		fonts:   defaultFonts{},
		now:     time.Now,
		limiter: fps.NewLimiter(cfg.FPS.FrameLimit),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.shaderDir == "" {
		dir, err := config.Dir(config.ShadersDir)
		if err != nil {
			return nil, needle.NewError(needle.KindShaderRead, err)
		}
		o.shaderDir = dir
	}
	o.clock = clock.New(cfg.Time.Format, clock.WithMode(mode), clock.WithNow(o.now))

	if err := o.build(); err != nil {
		o.destroyLayers()
		return nil, err
	}
	needle.Logger().Info("overlay: ready",
		"mode", mode, "size", m.Size(), "fps", cfg.FPS.Enable, "frame_limit", cfg.FPS.FrameLimit)
	return o, nil
}

func (o *Overlay) build() error {
	font, err := o.loadFont()
	if err != nil {
		return err
	}

	o.composer = render.NewComposer(render.DefaultMargin)
	o.background, err = render.NewColorBackground(o.manager, o.shaderDir, o.cfg.Background, false)
	if err != nil {
		return err
	}
	o.composer.Add(o.background)

	format := o.manager.Config().Format
	o.timeText, err = render.NewText(o.manager.Device(), render.TextConfig{
		Name:   "Time",
		Font:   font,
		Rule:   o.cfg.Time.Text.Rule(),
		Format: format,
	})
	if err != nil {
		return err
	}
	o.composer.Add(o.timeText)

	if o.cfg.FPS.Enable {
		o.fpsText, err = render.NewText(o.manager.Device(), render.TextConfig{
			Name:   "FPS",
			Font:   font,
			Rule:   o.cfg.FPS.Text.Rule(),
			Format: format,
		})
		if err != nil {
			return err
		}
		o.composer.Add(o.fpsText)
	}
	return nil
}

// loadFont loads the configured font, falling back to the built-in one
// when the resolved file cannot be parsed.
func (o *Overlay) loadFont() (*text.Font, error) {
	src := o.fonts.ResolveOrDefault(o.cfg.Time.Font)
	font, err := text.LoadFont(src)
	if err == nil {
		return font, nil
	}
	needle.Logger().Warn("overlay: falling back to default font", "font", src.Name, "error", err)
	return text.LoadFont(fonts.Default())
}

// Clock returns the overlay's clock.
func (o *Overlay) Clock() *clock.Clock { return o.clock }

// Composer returns the layer composer.
func (o *Overlay) Composer() *render.Composer { return o.composer }

// FPS returns the measured frame rate.
func (o *Overlay) FPS() float64 { return o.counter.FPS() }

// Presented returns the number of frames presented.
func (o *Overlay) Presented() uint64 { return o.presents }

// ToggleTimer starts or pauses the timer.
func (o *Overlay) ToggleTimer() { o.clock.ToggleTimer() }

// SetMode switches the clock mode.
func (o *Overlay) SetMode(m clock.Mode) {
	if m != o.clock.Mode() {
		o.expired = false
	}
	o.clock.SetMode(m)
}

// Restart resets the timer to its paused initial state and re-arms the
// expiry notification.
func (o *Overlay) Restart() {
	o.clock.Restart()
	o.expired = false
}

// Resize reconfigures the surface for size and tells the layers. Zero
// sizes are ignored.
func (o *Overlay) Resize(size surface.Size) error {
	if size.Empty() {
		return nil
	}
	before := o.manager.Reconfigures()
	if err := o.manager.Resize(size); err != nil {
		return err
	}
	if o.manager.Reconfigures() != before {
		o.recorder.Reconfigured()
		o.cleared = false
	}
	o.composer.Resize(size)
	return nil
}

// RenderTick draws one frame for now, unless the frame limiter holds it
// back. Recoverable frame errors drop the frame and return nil; any other
// error is returned and the host should stop if it is fatal.
func (o *Overlay) RenderTick(now time.Time) error {
	if !o.limiter.Ready(now) {
		return nil
	}
	start := time.Now()

	o.counter.Tick(now)
	o.recorder.SetFPS(o.counter.FPS())
	o.timeText.SetText(o.clock.Display(now))
	if o.fpsText != nil {
		o.fpsText.SetText(o.counter.String())
	}
	o.checkExpired(now)

	var err error
	if o.cleared {
		err = o.composer.Frame(o.manager)
	} else {
		err = o.composer.Clear(o.manager, gputypes.Color{R: 0, G: 0, B: 0, A: 1})
	}
	outcome, err := o.handleFrameError(err)
	o.recorder.Frame(outcome, time.Since(start))
	if outcome != metrics.OutcomePresented {
		return err
	}

	o.cleared = true
	o.presents++
	if n := o.timeText.TrimAtlas(); n > 0 {
		needle.Logger().Debug("overlay: trimmed glyphs", "layer", "Time", "count", n)
	}
	if o.fpsText != nil {
		o.fpsText.TrimAtlas()
	}
	return nil
}

// handleFrameError applies the recovery policy to a frame error and
// reports the frame's outcome. Only errors the overlay cannot recover from
// are returned.
func (o *Overlay) handleFrameError(err error) (string, error) {
	if err == nil {
		return metrics.OutcomePresented, nil
	}
	kind, ok := needle.KindOf(err)
	if !ok || !kind.Recoverable() {
		needle.Logger().Error("overlay: frame failed", "error", err, "fatal", needle.IsFatal(err))
		return metrics.OutcomeError, err
	}

	switch kind {
	case needle.KindOutdated, needle.KindLost:
		if rerr := o.manager.Reconfigure(); rerr != nil {
			return metrics.OutcomeError, rerr
		}
		o.recorder.Reconfigured()
		o.cleared = false
	case needle.KindRemovedFromAtlas:
		o.timeText.ResetAtlas()
		if o.fpsText != nil {
			o.fpsText.ResetAtlas()
		}
	case needle.KindTimeout, needle.KindScreenResolutionChanged:
		// Retried on the next tick.
	}
	needle.Logger().Warn("overlay: frame dropped", "reason", kind, "error", err)
	return metrics.OutcomeDropped, nil
}

// checkExpired reports a countdown reaching zero once. The report is armed
// again as soon as the countdown is no longer expired, after a restart for
// example.
func (o *Overlay) checkExpired(now time.Time) {
	if !o.clock.Expired(now) {
		o.expired = false
		return
	}
	if o.expired {
		return
	}
	o.expired = true
	if o.notifier == nil {
		return
	}
	n := o.notifier
	o.pending.Add(1)
	go func() {
		defer o.pending.Done()
		if err := n.Info(ExpiredMessage); err != nil {
			needle.Logger().Warn("overlay: notification failed", "error", err)
		}
	}()
}

func (o *Overlay) destroyLayers() {
	if o.composer != nil {
		o.composer.Destroy(o.manager.Device())
		o.composer = nil
	}
}

// Close waits for pending notifications and releases the layers. The
// surface manager is left to its owner.
func (o *Overlay) Close() {
	o.pending.Wait()
	o.destroyLayers()
}
