package text

import "errors"

// Quad is one glyph placed on screen, in pixels with y increasing
// downwards, together with the atlas region holding its mask.
type Quad struct {
	Key    GlyphKey
	Region Region
	X, Y   float32
	W, H   float32
}

// Placement is the result of Arrange.
type Placement struct {
	Quads []Quad
	// Generation is the atlas generation the quads refer to.
	Generation uint64
}

// Arrange places the buffer's glyphs with the box's top-left corner at
// (left, top), scaled by scale, and makes sure every glyph is in the
// atlas. A full atlas is reset, then grown, before giving up.
func Arrange(b *Buffer, a *Atlas, left, top, scale float32) (Placement, error) {
	for {
		p, err := arrange(b, a, left, top, scale)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, ErrAtlasFull) {
			return Placement{}, err
		}
		// A reset only helps if glyphs outside this layout were evicted.
		if a.Len() > 0 && a.Trim() > 0 {
			a.Reset()
			continue
		}
		if !a.Grow() {
			return Placement{}, err
		}
	}
}

func arrange(b *Buffer, a *Atlas, left, top, scale float32) (Placement, error) {
	m := b.Metrics()
	f := b.Shaper().Font()
	size := m.FontSize * scale
	lineH := m.LineHeight * scale
	ascent, descent := f.VerticalMetrics(size)
	// Center the glyph box vertically inside the line box.
	baseline := (lineH-(ascent+descent))/2 + ascent

	gen := a.Generation()
	var quads []Quad
	for i, line := range b.Lines() {
		y := top + float32(i)*lineH + baseline
		for _, g := range line.Glyphs {
			k := KeyFor(g.ID, size)
			r, ok := a.Lookup(k)
			if !ok {
				mask, err := f.Rasterize(g.ID, size)
				if err != nil {
					return Placement{}, err
				}
				if r, err = a.Insert(k, mask); err != nil {
					return Placement{}, err
				}
			}
			if r.W == 0 || r.H == 0 {
				continue
			}
			quads = append(quads, Quad{
				Key:    k,
				Region: r,
				X:      left + g.X*scale + float32(r.Left),
				Y:      y + g.Y*scale + float32(r.Top),
				W:      float32(r.W),
				H:      float32(r.H),
			})
		}
	}
	return Placement{Quads: quads, Generation: gen}, nil
}

// Valid reports whether every quad still refers to live atlas contents.
func (p Placement) Valid(a *Atlas) bool {
	if p.Generation != a.Generation() {
		return false
	}
	for _, q := range p.Quads {
		if !a.Holds(q.Key, q.Region) {
			return false
		}
	}
	return true
}
