// Command needle shows a clock, a count-up or a countdown timer in a GPU
// rendered window.
//
// Usage:
//
//	needle [-mode clock|countup|countdown] [-duration 25m] [-config path]
//	needle -write-config[=path|stdout] [-force]
//
// Space starts and pauses the timer, R restarts it.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gogpu/gogpu"
	"github.com/gogpu/gpucontext"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/gogpu/needle"
	"github.com/gogpu/needle/clock"
	"github.com/gogpu/needle/config"
	"github.com/gogpu/needle/fonts"
	"github.com/gogpu/needle/metrics"
	"github.com/gogpu/needle/notify"
	"github.com/gogpu/needle/overlay"
	"github.com/gogpu/needle/shaders"
	"github.com/gogpu/needle/surface"
)

const (
	defaultWidth  = 800
	defaultHeight = 450
)

// writeConfigFlag is a string flag that may also be given bare, meaning
// the default config path.
type writeConfigFlag struct {
	set  bool
	path string
}

func (f *writeConfigFlag) String() string   { return f.path }
func (f *writeConfigFlag) IsBoolFlag() bool { return true }

func (f *writeConfigFlag) Set(s string) error {
	f.set = true
	if s != "true" {
		f.path = s
	}
	return nil
}

type options struct {
	configPath  string
	writeConfig writeConfigFlag
	force       bool
	mode        string
	duration    time.Duration
	logLevel    string
	logFile     string
	metricsAddr string
	version     bool
}

func parseFlags() *options {
	o := &options{}
	flag.StringVar(&o.configPath, "config", "", "config file (default <config dir>/needle/config.toml)")
	flag.Var(&o.writeConfig, "write-config", "write the default config to `path`, the default location, or stdout, then exit")
	flag.BoolVar(&o.force, "force", false, "overwrite an existing file with -write-config")
	flag.StringVar(&o.mode, "mode", "clock", "clock, countup or countdown")
	flag.DurationVar(&o.duration, "duration", 25*time.Minute, "countdown duration")
	flag.StringVar(&o.logLevel, "log-level", "info", "debug, info, warn or error")
	flag.StringVar(&o.logFile, "log-file", "", "also write logs to this file, rotated")
	flag.StringVar(&o.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	flag.BoolVar(&o.version, "version", false, "print the version and exit")
	flag.Parse()
	return o
}

func main() {
	opts := parseFlags()
	if opts.version {
		fmt.Println(needle.VersionInfo())
		return
	}
	closeLog, err := setupLogging(opts.logLevel, opts.logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "needle: %v\n", err)
		os.Exit(2)
	}
	defer closeLog()

	if opts.writeConfig.set {
		if err := writeConfig(opts.writeConfig.path, opts.force); err != nil {
			fatal("write config", err)
		}
		return
	}
	if err := run(opts); err != nil {
		fatal("needle", err)
	}
}

func fatal(msg string, err error) {
	needle.Logger().Error(msg, "error", err)
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}

func setupLogging(level, file string) (func(), error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid -log-level %q", level)
	}
	var (
		w       io.Writer = os.Stderr
		closeFn           = func() {}
	)
	if file != "" {
		rotated := &lumberjack.Logger{
			Filename:   file,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		w = io.MultiWriter(os.Stderr, rotated)
		closeFn = func() { _ = rotated.Close() }
	}
	needle.SetLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})))
	return closeFn, nil
}

func writeConfig(path string, force bool) error {
	if path == "stdout" || path == "-" {
		_, err := config.Default().WriteTo(os.Stdout)
		return err
	}
	if path == "" {
		p, err := config.Path()
		if err != nil {
			return err
		}
		path = p
	}
	if err := config.WriteDefault(path, force); err != nil {
		return err
	}
	needle.Logger().Info("config written", "path", path)
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, config.ErrConfigNotExist) {
		needle.Logger().Info("no config file, using defaults", "error", err)
		return config.Default(), nil
	}
	return cfg, err
}

func run(opts *options) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	mode, err := clock.ParseMode(opts.mode, opts.duration)
	if err != nil {
		return err
	}

	shaderDir, err := config.Dir(config.ShadersDir)
	if err != nil {
		return err
	}
	if _, _, err := shaders.Install(shaderDir, false); err != nil {
		return err
	}
	fontDir, err := config.Dir(config.FontsDir)
	if err != nil {
		return err
	}
	notifier, err := notify.FromURLs("needle", cfg.Notify.URLs)
	if err != nil {
		return err
	}

	var recorder *metrics.Recorder
	var server *http.Server
	if opts.metricsAddr != "" {
		if recorder, err = metrics.New(nil); err != nil {
			return err
		}
		server = serveMetrics(opts.metricsAddr, recorder)
	}

	app := gogpu.NewApp(gogpu.DefaultConfig().
		WithTitle(needle.Name).
		WithSize(defaultWidth, defaultHeight).
		WithContinuousRender(true))

	var (
		current *gogpu.Context
		manager *surface.Manager
		ov      *overlay.Overlay
	)
	hostView := func() (any, uint32, uint32) {
		if current == nil {
			return nil, 0, 0
		}
		view := current.SurfaceView()
		if view == nil {
			return nil, 0, 0
		}
		sw, sh := current.SurfaceSize()
		return view.HalTextureView(), sw, sh
	}

	app.OnDraw(func(dc *gogpu.Context) {
		current = dc
		sw, sh := dc.SurfaceSize()
		size := surface.Size{Width: sw, Height: sh}
		if size.Empty() {
			return
		}

		if ov == nil {
			provider := app.GPUContextProvider()
			if provider == nil {
				return
			}
			var err error
			manager, err = surface.FromProvider(provider, surface.NewHostTarget(provider.SurfaceFormat(), hostView), size)
			if err != nil {
				fatal("surface", err)
			}
			ov, err = overlay.New(cfg, manager, mode,
				overlay.WithFonts(fonts.NewFinder(fontDir)),
				overlay.WithNotifier(notifier),
				overlay.WithRecorder(recorder),
				overlay.WithShaderDir(shaderDir),
			)
			if err != nil {
				fatal("overlay", err)
			}
			needle.Logger().Info("backend", "name", dc.Backend())
		}

		if err := ov.Resize(size); err != nil {
			needle.Logger().Warn("resize failed", "size", size, "error", err)
		}
		if err := ov.RenderTick(time.Now()); err != nil {
			if needle.IsFatal(err) {
				fatal("render", err)
			}
			needle.Logger().Error("frame failed", "error", err)
		}
	})

	app.EventSource().OnKeyPress(func(key gpucontext.Key, _ gpucontext.Modifiers) {
		if ov == nil {
			return
		}
		switch key {
		case gpucontext.KeySpace:
			ov.ToggleTimer()
			needle.Logger().Debug("timer toggled", "started", ov.Clock().Started())
		case gpucontext.KeyR:
			ov.Restart()
			needle.Logger().Debug("timer restarted", "mode", ov.Clock().Mode())
		}
	})

	app.OnClose(func() {
		if ov != nil {
			ov.Close()
		}
		if manager != nil {
			manager.Close()
		}
		if server != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
		}
	})

	needle.Logger().Info("starting", "version", needle.VersionInfo(), "mode", mode, "format", cfg.Time.Format)
	return app.Run()
}

func serveMetrics(addr string, recorder *metrics.Recorder) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", recorder.Handler())
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		needle.Logger().Info("metrics listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			needle.Logger().Error("metrics server failed", "addr", addr, "error", err)
		}
	}()
	return server
}
