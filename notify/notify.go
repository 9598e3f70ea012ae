// Package notify tells the user about timer events outside the overlay
// window.
package notify

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/containrrr/shoutrrr"

	"github.com/gogpu/needle"
)

// Level is the severity of a notification.
type Level uint8

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarn:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notifier delivers a message to the user.
type Notifier interface {
	Info(msg string) error
	Warn(msg string) error
	Error(msg string) error
}

// ErrNoURLs is returned by NewShoutrrr when there is nothing to send to.
var ErrNoURLs = errors.New("notify: no service URLs configured")

// Log writes notifications to a slog logger. The zero value uses
// needle.Logger().
type Log struct {
	Logger *slog.Logger
}

func (l Log) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return needle.Logger()
}

func (l Log) Info(msg string) error  { l.logger().Info("notify: " + msg); return nil }
func (l Log) Warn(msg string) error  { l.logger().Warn("notify: " + msg); return nil }
func (l Log) Error(msg string) error { l.logger().Error("notify: " + msg); return nil }

// Shoutrrr sends notifications to every configured shoutrrr service URL,
// for example "ntfy://ntfy.sh/needle" or "discord://token@id".
type Shoutrrr struct {
	title string
	urls  []string
	send  func(url, message string) error
}

// NewShoutrrr returns a notifier for urls. Messages are prefixed with
// title when it is not empty.
func NewShoutrrr(title string, urls []string) (*Shoutrrr, error) {
	clean := make([]string, 0, len(urls))
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			clean = append(clean, u)
		}
	}
	if len(clean) == 0 {
		return nil, ErrNoURLs
	}
	return &Shoutrrr{title: title, urls: clean, send: shoutrrr.Send}, nil
}

// URLs returns the service URLs.
func (s *Shoutrrr) URLs() []string { return s.urls }

func (s *Shoutrrr) Info(msg string) error  { return s.notify(LevelInfo, msg) }
func (s *Shoutrrr) Warn(msg string) error  { return s.notify(LevelWarn, msg) }
func (s *Shoutrrr) Error(msg string) error { return s.notify(LevelError, msg) }

func (s *Shoutrrr) format(level Level, msg string) string {
	if level != LevelInfo {
		msg = "[" + level.String() + "] " + msg
	}
	if s.title != "" {
		msg = s.title + ": " + msg
	}
	return msg
}

// notify sends to every URL, even after a failure, and joins the errors.
func (s *Shoutrrr) notify(level Level, msg string) error {
	message := s.format(level, msg)
	var errs []error
	for _, u := range s.urls {
		if err := s.send(u, message); err != nil {
			errs = append(errs, fmt.Errorf("notify: %s: %w", service(u), err))
			continue
		}
		needle.Logger().Debug("notify: sent", "service", service(u), "level", level)
	}
	return errors.Join(errs...)
}

// service returns the scheme of a service URL, which is safe to log.
func service(u string) string {
	if i := strings.Index(u, "://"); i > 0 {
		return u[:i]
	}
	return "unknown"
}

// Multi fans a notification out to several notifiers.
type Multi []Notifier

func (m Multi) Info(msg string) error  { return m.each(Notifier.Info, msg) }
func (m Multi) Warn(msg string) error  { return m.each(Notifier.Warn, msg) }
func (m Multi) Error(msg string) error { return m.each(Notifier.Error, msg) }

func (m Multi) each(fn func(Notifier, string) error, msg string) error {
	var errs []error
	for _, n := range m {
		if err := fn(n, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// FromURLs returns a Log notifier, combined with a Shoutrrr notifier when
// urls is not empty.
func FromURLs(title string, urls []string) (Notifier, error) {
	s, err := NewShoutrrr(title, urls)
	if errors.Is(err, ErrNoURLs) {
		return Log{}, nil
	}
	if err != nil {
		return nil, err
	}
	return Multi{Log{}, s}, nil
}
