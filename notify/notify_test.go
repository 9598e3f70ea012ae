package notify

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sent struct {
	url, message string
}

func recordingShoutrrr(t *testing.T, title string, urls []string, fail map[string]error) (*Shoutrrr, *[]sent) {
	t.Helper()
	s, err := NewShoutrrr(title, urls)
	require.NoError(t, err)
	var log []sent
	s.send = func(url, message string) error {
		log = append(log, sent{url, message})
		return fail[url]
	}
	return s, &log
}

func TestNewShoutrrrNoURLs(t *testing.T) {
	_, err := NewShoutrrr("needle", nil)
	assert.ErrorIs(t, err, ErrNoURLs)

	_, err = NewShoutrrr("needle", []string{"", "  "})
	assert.ErrorIs(t, err, ErrNoURLs)
}

func TestShoutrrrFormat(t *testing.T) {
	s, log := recordingShoutrrr(t, "needle", []string{"ntfy://ntfy.sh/needle"}, nil)

	require.NoError(t, s.Info("Countdown finished"))
	require.NoError(t, s.Warn("frame dropped"))
	require.NoError(t, s.Error("device lost"))

	require.Len(t, *log, 3)
	assert.Equal(t, "needle: Countdown finished", (*log)[0].message)
	assert.Equal(t, "needle: [warning] frame dropped", (*log)[1].message)
	assert.Equal(t, "needle: [error] device lost", (*log)[2].message)
}

func TestShoutrrrSendsToAllURLs(t *testing.T) {
	boom := errors.New("boom")
	urls := []string{"ntfy://ntfy.sh/a", " gotify://host/token ", "discord://token@id"}
	s, log := recordingShoutrrr(t, "", urls, map[string]error{"ntfy://ntfy.sh/a": boom})

	assert.Equal(t, []string{"ntfy://ntfy.sh/a", "gotify://host/token", "discord://token@id"}, s.URLs())

	err := s.Info("done")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "ntfy")
	assert.NotContains(t, err.Error(), "ntfy.sh/a", "URLs may carry secrets")

	// The failure does not stop delivery to the remaining services.
	assert.Len(t, *log, 3)
	assert.Equal(t, "done", (*log)[2].message)
}

func TestShoutrrrUnknownService(t *testing.T) {
	s, err := NewShoutrrr("needle", []string{"nosuchservice://somewhere"})
	require.NoError(t, err)
	assert.Error(t, s.Info("hello"))
}

func TestLog(t *testing.T) {
	var buf bytes.Buffer
	n := Log{Logger: slog.New(slog.NewTextHandler(&buf, nil))}

	require.NoError(t, n.Info("Countdown finished"))
	require.NoError(t, n.Warn("careful"))
	require.NoError(t, n.Error("broken"))

	out := buf.String()
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, "Countdown finished")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "level=ERROR")

	// The zero value falls back to the package logger.
	assert.NoError(t, Log{}.Info("silent"))
}

type countingNotifier struct {
	calls int
	err   error
}

func (c *countingNotifier) Info(string) error  { c.calls++; return c.err }
func (c *countingNotifier) Warn(string) error  { c.calls++; return c.err }
func (c *countingNotifier) Error(string) error { c.calls++; return c.err }

func TestMulti(t *testing.T) {
	boom := errors.New("boom")
	a, b := &countingNotifier{err: boom}, &countingNotifier{}
	m := Multi{a, b}

	assert.ErrorIs(t, m.Info("x"), boom)
	assert.ErrorIs(t, m.Warn("x"), boom)
	assert.ErrorIs(t, m.Error("x"), boom)
	assert.Equal(t, 3, a.calls)
	assert.Equal(t, 3, b.calls)

	assert.NoError(t, Multi{}.Info("x"))
}

func TestFromURLs(t *testing.T) {
	n, err := FromURLs("needle", nil)
	require.NoError(t, err)
	assert.IsType(t, Log{}, n)

	n, err = FromURLs("needle", []string{"ntfy://ntfy.sh/needle"})
	require.NoError(t, err)
	m, ok := n.(Multi)
	require.True(t, ok, "got %T", n)
	assert.Len(t, m, 2)
}
