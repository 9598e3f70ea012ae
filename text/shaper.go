package text

import (
	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"

	"github.com/gogpu/needle/internal/cache"
)

// Glyph is one shaped glyph. X and Y are the pen offsets from the line
// origin in pixels, y increasing downwards.
type Glyph struct {
	ID      uint16
	X, Y    float32
	Advance float32
}

// Line is a shaped line of text.
type Line struct {
	Text   string
	Glyphs []Glyph
	// Width is the sum of the glyph advances.
	Width float32
}

type lineKey struct {
	text string
	size float32
}

// lineCacheSize bounds the shaped-line cache. A ticking clock produces a
// new line every second; older lines are rarely shown again.
const lineCacheSize = 256

// Shaper shapes single lines of text with a font.
//
// Shaper is not safe for concurrent use.
type Shaper struct {
	font  *Font
	hb    shaping.HarfbuzzShaper
	lines *cache.Cache[lineKey, Line]
}

// NewShaper returns a Shaper for f.
func NewShaper(f *Font) *Shaper {
	return &Shaper{
		font:  f,
		lines: cache.New[lineKey, Line](lineCacheSize),
	}
}

// Font returns the shaping font.
func (s *Shaper) Font() *Font { return s.font }

// Shape returns the shaped form of line at size pixels per em. Results are
// cached.
func (s *Shaper) Shape(line string, size float32) Line {
	key := lineKey{text: line, size: size}
	if l, ok := s.lines.Get(key); ok {
		return l
	}
	l := s.shape(line, size)
	s.lines.Set(key, l)
	return l
}

// CacheStats reports the shaped-line cache counters.
func (s *Shaper) CacheStats() cache.Stats { return s.lines.Stats() }

// Reset drops every cached line.
func (s *Shaper) Reset() { s.lines.Clear() }

func (s *Shaper) shape(line string, size float32) Line {
	out := Line{Text: line}
	if line == "" {
		return out
	}
	runes := []rune(line)
	output := s.hb.Shape(shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      s.font.face,
		Size:      toFixed(size),
		Script:    scriptOf(runes),
		Language:  language.NewLanguage("en"),
	})

	out.Glyphs = make([]Glyph, len(output.Glyphs))
	var x float32
	for i, g := range output.Glyphs {
		adv := fromFixed(g.Advance)
		out.Glyphs[i] = Glyph{
			ID:      uint16(g.GlyphID), //nolint:gosec // glyph indices fit in 16 bits for TrueType
			X:       x + fromFixed(g.XOffset),
			Y:       -fromFixed(g.YOffset),
			Advance: adv,
		}
		x += adv
	}
	out.Width = x
	return out
}

// scriptOf returns the script of the first non-space rune.
func scriptOf(runes []rune) language.Script {
	for _, r := range runes {
		switch r {
		case ' ', '\t':
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}
