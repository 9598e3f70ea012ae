package text

import "errors"

// Sentinel errors for text package.
var (
	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("text: empty font data")

	// ErrAtlasFull is returned when a glyph does not fit in the atlas.
	ErrAtlasFull = errors.New("text: glyph atlas is full")

	// ErrGlyphTooLarge is returned when a glyph is larger than the atlas
	// can ever hold.
	ErrGlyphTooLarge = errors.New("text: glyph larger than atlas")
)
