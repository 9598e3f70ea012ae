package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Stdout is the WriteDefault path that writes to standard output.
const Stdout = "stdout"

// WriteDefault writes the commented default settings to path, creating
// missing directories. An existing file is left alone unless force is set.
// An empty path selects the default location.
func WriteDefault(path string, force bool) error {
	if path == Stdout {
		_, err := Default().WriteTo(os.Stdout)
		return err
	}
	if path == "" {
		p, err := Path()
		if err != nil {
			return err
		}
		path = p
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%w: %s", ErrConfigExists, path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("config: failed to stat %s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: failed to create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("config: failed to write %s: %w", path, err)
	}
	if _, err := Default().WriteTo(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("config: failed to write %s: %w", path, err)
	}
	return f.Close()
}

// WriteTo writes c as commented TOML. The output decodes back to c.
func (c *Config) WriteTo(w io.Writer) (int64, error) {
	cw := &countWriter{w: bufio.NewWriter(w)}
	p := func(format string, args ...any) { fmt.Fprintf(cw, format+"\n", args...) }

	p("# Background color : [r, g, b, alpha]")
	p("#  Range : (0.0 - 1.0)")
	p("background_color = [%s]", floats(c.Background[:]))
	p("")
	p("[time]")
	p("# Time format")
	p("#  HourMinSec : HH:MM:SS (default)")
	p("#  HourMinSecMSec : HH:MM:SS.mmm")
	p("format = %q", c.Time.Format.String())
	p("# Font (optional)")
	p("#  A file name under the fonts directory next to this file, or an")
	p("#  installed font name. \".ttf\" and \".otf\" files are supported.")
	p("#  Empty selects the built-in font.")
	p("font = %q", c.Time.Font)
	writeText(p, c.Time.Text)
	p("")
	p("[fps]")
	p("# FPS readout")
	p("#  true            : show the current frame rate")
	p("#  false (default) : hide it")
	p("enable = %t", c.FPS.Enable)
	p("# Frame rate cap, 0 for unlimited")
	p("frame_limit = %d", c.FPS.FrameLimit)
	writeText(p, c.FPS.Text)
	p("#  The FPS readout must sit in a corner and must not share the")
	p("#  time position.")
	p("")
	p("[notify]")
	p("# Notification targets as shoutrrr URLs, used when a countdown ends.")
	p("#  Example: urls = [\"ntfy://ntfy.sh/my-topic\"]")
	quoted := make([]string, len(c.Notify.URLs))
	for i, u := range c.Notify.URLs {
		quoted[i] = strconv.Quote(u)
	}
	p("urls = [%s]", strings.Join(quoted, ", "))

	if cw.err == nil {
		cw.err = cw.w.Flush()
	}
	return cw.n, cw.err
}

func writeText(p func(string, ...any), t Text) {
	p("# Text scale")
	p("config.scale = %s", float(t.Scale))
	p("# Text color : [r, g, b, alpha]")
	p("#  Range : (0 - 255)")
	p("config.color = [%d, %d, %d, %d]", t.Color[0], t.Color[1], t.Color[2], t.Color[3])
	p("# Position")
	p("#  top_left     top     top_right")
	p("#  left         center  right")
	p("#  bottom_left  bottom  bottom_right")
	p("#  Integers 0-8 select the same positions in reading order.")
	p("config.position = %q", t.Position.String())
}

func float(v float32) string {
	s := strconv.FormatFloat(float64(v), 'f', -1, 32)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func floats(vs []float32) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = float(v)
	}
	return strings.Join(parts, ", ")
}

type countWriter struct {
	w   *bufio.Writer
	n   int64
	err error
}

func (c *countWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
	return n, err
}
