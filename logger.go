package needle

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler drops every record and reports every level disabled.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// silent is the logger in effect until SetLogger installs another one.
var silent = slog.New(nopHandler{})

var current atomic.Pointer[slog.Logger]

func init() { current.Store(silent) }

// SetLogger routes the log output of needle and its sub-packages to l. A
// nil l silences them again.
//
// The command installs a text handler on stderr:
//
//	needle.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
//
// Debug carries pipeline and atlas detail. Info marks start-up
// choices such as the adapter and the font. Warn reports
// dropped frames and fallbacks.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = silent
	}
	current.Store(l)
}

// Logger returns the logger set by SetLogger. It may be called from the
// notification goroutines as well as the render loop.
func Logger() *slog.Logger { return current.Load() }
