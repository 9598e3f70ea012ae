package text

import "strings"

// Buffer holds a multi-line string and its shaped lines. Lines are
// re-shaped only when the text or metrics change.
type Buffer struct {
	shaper  *Shaper
	metrics Metrics
	text    string
	lines   []Line
	shaped  bool
	passes  int
}

// NewBuffer returns an empty Buffer.
func NewBuffer(s *Shaper, m Metrics) *Buffer {
	return &Buffer{shaper: s, metrics: m}
}

// Shaper returns the buffer's shaper.
func (b *Buffer) Shaper() *Shaper { return b.shaper }

// Metrics returns the layout metrics.
func (b *Buffer) Metrics() Metrics { return b.metrics }

// SetMetrics changes the layout metrics, re-shaping on the next read.
func (b *Buffer) SetMetrics(m Metrics) {
	if m == b.metrics {
		return
	}
	b.metrics = m
	b.shaped = false
}

// Text returns the current string.
func (b *Buffer) Text() string { return b.text }

// SetText replaces the string. It reports whether the buffer now needs a
// new layout, which is false when both text and metrics are unchanged.
func (b *Buffer) SetText(s string) bool {
	if s == b.text && b.shaped {
		return false
	}
	b.text = s
	b.shaped = false
	return true
}

// Lines returns the shaped lines, shaping them first if needed. An empty
// string has no lines.
func (b *Buffer) Lines() []Line {
	if !b.shaped {
		b.relayout()
	}
	return b.lines
}

// Passes returns how many times the buffer has been laid out.
func (b *Buffer) Passes() int { return b.passes }

func (b *Buffer) relayout() {
	b.lines = b.lines[:0]
	if b.text != "" {
		for _, l := range strings.Split(b.text, "\n") {
			b.lines = append(b.lines, b.shaper.Shape(l, b.metrics.FontSize))
		}
	}
	b.shaped = true
	b.passes++
}

// Size returns the bounding box of the laid-out text in pixels: the widest
// line by the line count times the line height, multiplied by scale.
func (b *Buffer) Size(scale float32) [2]float32 {
	var width float32
	lines := 0
	for _, l := range b.Lines() {
		width = max(width, l.Width)
		lines++
	}
	return [2]float32{width * scale, float32(lines) * b.metrics.LineHeight * scale}
}
