package text

import (
	"fmt"
	"image"
)

// GlyphKey identifies a rasterized glyph: its index and the pixel size it
// was rendered at, in 26.6 fixed point.
type GlyphKey struct {
	ID   uint16
	Size int32
}

// KeyFor returns the key of glyph id at size.
func KeyFor(id uint16, size float32) GlyphKey {
	return GlyphKey{ID: id, Size: int32(toFixed(size))}
}

// Region is a glyph's place in the atlas.
type Region struct {
	X, Y, W, H int
	// Left and Top copy the mask bearing.
	Left, Top int
}

type atlasEntry struct {
	region Region
	frame  uint64
}

// Atlas is a CPU-side single-channel glyph cache. Glyphs are packed in
// shelves; the renderer uploads Pix to an R8 texture whenever Dirty
// reports changes.
//
// Glyphs not looked up between two calls to Trim are evicted by the
// second. Their space is reclaimed when the atlas is Reset, which also
// advances the generation so that stale quads can be detected.
type Atlas struct {
	width, height int
	maxSize       int
	pix           []byte
	packer        shelfPacker
	entries       map[GlyphKey]*atlasEntry
	frame         uint64
	generation    uint64
	dirty         bool
}

const atlasPadding = 1

// NewAtlas returns a size×size atlas that may grow up to maxSize.
func NewAtlas(size, maxSize int) *Atlas {
	if maxSize < size {
		maxSize = size
	}
	return &Atlas{
		width:   size,
		height:  size,
		maxSize: maxSize,
		pix:     make([]byte, size*size),
		packer:  newShelfPacker(size, size, atlasPadding),
		entries: make(map[GlyphKey]*atlasEntry),
		frame:   1,
	}
}

// Size returns the atlas dimensions.
func (a *Atlas) Size() (w, h int) { return a.width, a.height }

// Pix returns the R8 pixels, one byte per texel, row-major.
func (a *Atlas) Pix() []byte { return a.pix }

// Generation changes whenever previously returned regions become invalid.
func (a *Atlas) Generation() uint64 { return a.generation }

// Len returns the number of cached glyphs.
func (a *Atlas) Len() int { return len(a.entries) }

// Utilization returns the share of the atlas covered by glyphs.
func (a *Atlas) Utilization() float64 { return a.packer.utilization() }

// Dirty reports whether pixels changed since the last MarkClean.
func (a *Atlas) Dirty() bool { return a.dirty }

// MarkClean records that the pixels have been uploaded.
func (a *Atlas) MarkClean() { a.dirty = false }

// Lookup returns the cached region for k and marks it in use.
func (a *Atlas) Lookup(k GlyphKey) (Region, bool) {
	e, ok := a.entries[k]
	if !ok {
		return Region{}, false
	}
	e.frame = a.frame
	return e.region, true
}

// Holds reports whether k is still cached at r.
func (a *Atlas) Holds(k GlyphKey, r Region) bool {
	e, ok := a.entries[k]
	return ok && e.region == r
}

// Insert copies m into the atlas under k. It returns ErrAtlasFull when no
// shelf has room and ErrGlyphTooLarge when the glyph could never fit.
func (a *Atlas) Insert(k GlyphKey, m *Mask) (Region, error) {
	if r, ok := a.Lookup(k); ok {
		return r, nil
	}
	var w, h int
	if !m.Empty() {
		w, h = m.Alpha.Rect.Dx(), m.Alpha.Rect.Dy()
	}
	r := Region{W: w, H: h}
	if m != nil {
		r.Left, r.Top = m.Left, m.Top
	}
	if w > 0 && h > 0 {
		if !a.packer.fits(w, h) {
			if w+atlasPadding > a.maxSize || h+atlasPadding > a.maxSize {
				return Region{}, fmt.Errorf("%w: %dx%d", ErrGlyphTooLarge, w, h)
			}
			return Region{}, ErrAtlasFull
		}
		x, y, ok := a.packer.place(w, h)
		if !ok {
			return Region{}, ErrAtlasFull
		}
		r.X, r.Y = x, y
		a.blit(m.Alpha, x, y)
	}
	a.entries[k] = &atlasEntry{region: r, frame: a.frame}
	return r, nil
}

func (a *Atlas) blit(src *image.Alpha, x, y int) {
	b := src.Rect
	for row := 0; row < b.Dy(); row++ {
		s := src.Pix[row*src.Stride : row*src.Stride+b.Dx()]
		copy(a.pix[(y+row)*a.width+x:], s)
	}
	a.dirty = true
}

// Trim evicts glyphs that were not looked up since the previous Trim.
func (a *Atlas) Trim() int {
	n := 0
	for k, e := range a.entries {
		if e.frame < a.frame {
			delete(a.entries, k)
			n++
		}
	}
	a.frame++
	return n
}

// Reset drops every glyph and reclaims all space.
func (a *Atlas) Reset() {
	clear(a.entries)
	clear(a.pix)
	a.packer.reset()
	a.generation++
	a.dirty = true
}

// Grow doubles the atlas up to its maximum size, dropping every glyph.
// It reports false when the atlas is already at its maximum.
func (a *Atlas) Grow() bool {
	if a.width >= a.maxSize {
		return false
	}
	size := min(a.width*2, a.maxSize)
	a.width, a.height = size, size
	a.pix = make([]byte, size*size)
	a.packer = newShelfPacker(size, size, atlasPadding)
	clear(a.entries)
	a.generation++
	a.dirty = true
	return true
}
