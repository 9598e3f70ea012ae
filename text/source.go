package text

import (
	"bytes"
	"fmt"

	"github.com/go-text/typesetting/font"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/needle"
	"github.com/gogpu/needle/fonts"
)

// Font is a parsed font file. It holds the go-text face used for shaping
// and the sfnt font used for outlines and vertical metrics.
//
// Font is not safe for concurrent use.
type Font struct {
	name string
	face *font.Face
	outl *sfnt.Font
	sbuf sfnt.Buffer
}

// ParseFont parses TTF or OTF data. Failures are FontRead errors.
func ParseFont(name string, data []byte) (*Font, error) {
	if len(data) == 0 {
		return nil, needle.NewError(needle.KindFontRead, ErrEmptyFontData)
	}
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, needle.NewError(needle.KindFontRead, fmt.Errorf("text: failed to parse font %q: %w", name, err))
	}
	outl, err := sfnt.Parse(data)
	if err != nil {
		return nil, needle.NewError(needle.KindFontRead, fmt.Errorf("text: failed to parse font %q: %w", name, err))
	}
	f := &Font{name: name, face: face, outl: outl}
	if f.name == "" {
		if n, err := outl.Name(&f.sbuf, sfnt.NameIDFull); err == nil {
			f.name = n
		}
	}
	return f, nil
}

// LoadFont reads and parses a resolved font source.
func LoadFont(src fonts.Source) (*Font, error) {
	data, err := src.Bytes()
	if err != nil {
		return nil, err
	}
	return ParseFont(src.Name, data)
}

// Name returns the font's name.
func (f *Font) Name() string { return f.name }

// VerticalMetrics returns the ascent and descent in pixels at size, both
// positive.
func (f *Font) VerticalMetrics(size float32) (ascent, descent float32) {
	m, err := f.outl.Metrics(&f.sbuf, toFixed(size), xfont.HintingNone)
	if err != nil {
		// Typical proportions when the tables are unreadable.
		return size * 0.8, size * 0.2
	}
	return fromFixed(m.Ascent), fromFixed(m.Descent)
}

func toFixed(v float32) fixed.Int26_6 { return fixed.Int26_6(v * 64) }

func fromFixed(v fixed.Int26_6) float32 { return float32(v) / 64 }
