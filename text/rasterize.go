package text

import (
	"fmt"
	"image"
	"math"

	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// Mask is a rasterized glyph coverage mask.
type Mask struct {
	// Alpha is the coverage, nil for glyphs without an outline.
	Alpha *image.Alpha
	// Left and Top place the mask's top-left pixel relative to the pen
	// position on the baseline. Top is negative above the baseline.
	Left, Top int
}

// Empty reports whether the mask has no pixels.
func (m *Mask) Empty() bool {
	return m == nil || m.Alpha == nil || m.Alpha.Rect.Empty()
}

// Rasterize renders glyph id at size pixels per em.
func (f *Font) Rasterize(id uint16, size float32) (*Mask, error) {
	segs, err := f.outl.LoadGlyph(&f.sbuf, sfnt.GlyphIndex(id), toFixed(size), nil)
	if err != nil {
		return nil, fmt.Errorf("text: failed to load glyph %d: %w", id, err)
	}
	if len(segs) == 0 {
		return &Mask{}, nil
	}

	bounds := segmentBounds(segs)
	minX := int(math.Floor(float64(bounds.Min.X) / 64))
	minY := int(math.Floor(float64(bounds.Min.Y) / 64))
	maxX := int(math.Ceil(float64(bounds.Max.X) / 64))
	maxY := int(math.Ceil(float64(bounds.Max.Y) / 64))
	w, h := maxX-minX, maxY-minY
	if w <= 0 || h <= 0 {
		return &Mask{}, nil
	}

	ox, oy := float32(minX), float32(minY)
	pt := func(p fixed.Point26_6) (float32, float32) {
		return fromFixed(p.X) - ox, fromFixed(p.Y) - oy
	}

	r := vector.NewRasterizer(w, h)
	open := false
	for _, seg := range segs {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			if open {
				r.ClosePath()
			}
			r.MoveTo(pt(seg.Args[0]))
			open = true
		case sfnt.SegmentOpLineTo:
			r.LineTo(pt(seg.Args[0]))
		case sfnt.SegmentOpQuadTo:
			bx, by := pt(seg.Args[0])
			cx, cy := pt(seg.Args[1])
			r.QuadTo(bx, by, cx, cy)
		case sfnt.SegmentOpCubeTo:
			bx, by := pt(seg.Args[0])
			cx, cy := pt(seg.Args[1])
			dx, dy := pt(seg.Args[2])
			r.CubeTo(bx, by, cx, cy, dx, dy)
		}
	}
	if open {
		r.ClosePath()
	}

	dst := image.NewAlpha(image.Rect(0, 0, w, h))
	r.Draw(dst, dst.Bounds(), image.Opaque, image.Point{})
	return &Mask{Alpha: dst, Left: minX, Top: minY}, nil
}

func segmentBounds(segs sfnt.Segments) fixed.Rectangle26_6 {
	b := fixed.Rectangle26_6{
		Min: fixed.Point26_6{X: math.MaxInt32, Y: math.MaxInt32},
		Max: fixed.Point26_6{X: math.MinInt32, Y: math.MinInt32},
	}
	for _, seg := range segs {
		n := 1
		switch seg.Op {
		case sfnt.SegmentOpQuadTo:
			n = 2
		case sfnt.SegmentOpCubeTo:
			n = 3
		}
		for _, p := range seg.Args[:n] {
			b.Min.X = min(b.Min.X, p.X)
			b.Min.Y = min(b.Min.Y, p.Y)
			b.Max.X = max(b.Max.X, p.X)
			b.Max.Y = max(b.Max.Y, p.Y)
		}
	}
	return b
}
