package text

// shelfPacker packs rectangles into horizontal shelves. Each shelf is as
// tall as the tallest item placed on it; items fill a shelf left to right
// and a new shelf opens below when none has room. Space is reclaimed only
// by reset.
type shelfPacker struct {
	width, height int
	padding       int
	shelves       []shelf
	used          int
}

type shelf struct {
	y, height, x int
}

func newShelfPacker(width, height, padding int) shelfPacker {
	return shelfPacker{width: width, height: height, padding: padding}
}

// fits reports whether a w×h item could ever be placed in an empty packer.
func (p *shelfPacker) fits(w, h int) bool {
	return w+p.padding <= p.width && h+p.padding <= p.height
}

// place returns the top-left corner for a w×h item.
func (p *shelfPacker) place(w, h int) (x, y int, ok bool) {
	pw, ph := w+p.padding, h+p.padding
	last := len(p.shelves) - 1
	for i := range p.shelves {
		s := &p.shelves[i]
		if s.x+pw > p.width {
			continue
		}
		if h > s.height {
			// Only the last shelf can grow, and only into free space.
			if i != last || s.y+ph > p.height {
				continue
			}
			s.height = h
		}
		x, y = s.x, s.y
		s.x += pw
		p.used += w * h
		return x, y, true
	}

	top := 0
	if last >= 0 {
		top = p.shelves[last].y + p.shelves[last].height + p.padding
	}
	if top+ph > p.height || pw > p.width {
		return -1, -1, false
	}
	p.shelves = append(p.shelves, shelf{y: top, height: h, x: pw})
	p.used += w * h
	return 0, top, true
}

func (p *shelfPacker) reset() {
	p.shelves = p.shelves[:0]
	p.used = 0
}

// utilization returns the share of the area covered by items, 0 to 1.
func (p *shelfPacker) utilization() float64 {
	if p.width <= 0 || p.height <= 0 {
		return 0
	}
	return float64(p.used) / float64(p.width*p.height)
}
