package text

import (
	"errors"
	"image"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/needle"
)

func loadTestFont(t *testing.T) *Font {
	t.Helper()
	f, err := ParseFont("Go Regular", goregular.TTF)
	if err != nil {
		t.Fatalf("ParseFont: %v", err)
	}
	return f
}

func TestParseFontErrors(t *testing.T) {
	if _, err := ParseFont("empty", nil); !errors.Is(err, needle.ErrFontRead) {
		t.Errorf("empty data: err = %v, want FontRead", err)
	}
	if _, err := ParseFont("junk", []byte("definitely not a font")); !errors.Is(err, needle.ErrFontRead) {
		t.Errorf("junk data: err = %v, want FontRead", err)
	}
}

func TestFontMetrics(t *testing.T) {
	f := loadTestFont(t)
	if f.Name() == "" {
		t.Error("font name is empty")
	}
	asc, desc := f.VerticalMetrics(80)
	if asc <= 0 || desc <= 0 || asc+desc > 120 {
		t.Errorf("VerticalMetrics(80) = %v, %v", asc, desc)
	}
}

func TestShapeCaches(t *testing.T) {
	s := NewShaper(loadTestFont(t))
	l := s.Shape("12:00:00", 80)
	if len(l.Glyphs) != 8 {
		t.Fatalf("got %d glyphs, want 8", len(l.Glyphs))
	}
	if l.Width <= 0 {
		t.Fatalf("Width = %v", l.Width)
	}
	var sum float32
	for i, g := range l.Glyphs {
		if g.X < sum-0.01 || g.X > sum+0.01 {
			t.Errorf("glyph %d at x=%v, want pen %v", i, g.X, sum)
		}
		sum += g.Advance
	}
	if sum != l.Width {
		t.Errorf("Width = %v, sum of advances = %v", l.Width, sum)
	}

	again := s.Shape("12:00:00", 80)
	if again.Width != l.Width {
		t.Error("cached line differs")
	}
	if st := s.CacheStats(); st.Hits != 1 || st.Len != 1 {
		t.Errorf("cache stats = %+v, want one hit and one entry", st)
	}

	if e := s.Shape("", 80); len(e.Glyphs) != 0 || e.Width != 0 {
		t.Error("empty line should have no glyphs")
	}
}

func TestBufferRelayoutsOnChangeOnly(t *testing.T) {
	b := NewBuffer(NewShaper(loadTestFont(t)), DefaultMetrics())
	if !b.SetText("00:00:01") {
		t.Fatal("first SetText should report a change")
	}
	b.Lines()
	if b.SetText("00:00:01") {
		t.Error("same text should not need a layout")
	}
	b.Lines()
	if b.Passes() != 1 {
		t.Errorf("Passes = %d, want 1", b.Passes())
	}
	b.SetText("00:00:02")
	b.Lines()
	if b.Passes() != 2 {
		t.Errorf("Passes = %d, want 2", b.Passes())
	}
	b.SetMetrics(Metrics{FontSize: 40, LineHeight: 30})
	b.Lines()
	if b.Passes() != 3 {
		t.Errorf("Passes = %d after metrics change, want 3", b.Passes())
	}
}

func TestBufferSize(t *testing.T) {
	s := NewShaper(loadTestFont(t))
	b := NewBuffer(s, DefaultMetrics())

	if got := b.Size(1); got != [2]float32{0, 0} {
		t.Errorf("empty Size = %v, want zero", got)
	}

	b.SetText("1\n12:00:00")
	wide := s.Shape("12:00:00", 80).Width
	got := b.Size(0.5)
	if got[0] != wide*0.5 {
		t.Errorf("width = %v, want widest line %v", got[0], wide*0.5)
	}
	if got[1] != 2*60*0.5 {
		t.Errorf("height = %v, want %v", got[1], 2*60*0.5)
	}
}

func TestRasterize(t *testing.T) {
	f := loadTestFont(t)
	s := NewShaper(f)
	zero := s.Shape("0", 80).Glyphs[0]
	m, err := f.Rasterize(zero.ID, 80)
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	if m.Empty() {
		t.Fatal("mask for '0' is empty")
	}
	if m.Top >= 0 {
		t.Errorf("Top = %d, want negative (glyph above baseline)", m.Top)
	}
	covered := 0
	for _, a := range m.Alpha.Pix {
		if a > 0 {
			covered++
		}
	}
	if covered == 0 || covered == len(m.Alpha.Pix) {
		t.Errorf("coverage %d of %d pixels looks wrong", covered, len(m.Alpha.Pix))
	}

	space := s.Shape(" ", 80).Glyphs[0]
	sm, err := f.Rasterize(space.ID, 80)
	if err != nil {
		t.Fatalf("Rasterize(space): %v", err)
	}
	if !sm.Empty() {
		t.Error("space should rasterize to an empty mask")
	}
}

func solidMask(w, h int) *Mask {
	a := image.NewAlpha(image.Rect(0, 0, w, h))
	for i := range a.Pix {
		a.Pix[i] = 0xff
	}
	return &Mask{Alpha: a, Left: 1, Top: -h}
}

func TestAtlasInsertLookupTrim(t *testing.T) {
	a := NewAtlas(64, 64)
	k1, k2 := KeyFor(1, 10), KeyFor(2, 10)

	r1, err := a.Insert(k1, solidMask(10, 12))
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if !a.Dirty() {
		t.Error("insert should mark the atlas dirty")
	}
	if a.Pix()[r1.Y*64+r1.X] != 0xff {
		t.Error("mask not copied into atlas")
	}
	if _, err := a.Insert(k2, solidMask(10, 12)); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	// Both were touched in this frame.
	if n := a.Trim(); n != 0 {
		t.Errorf("Trim evicted %d fresh glyphs", n)
	}
	a.Lookup(k1)
	if n := a.Trim(); n != 1 {
		t.Errorf("Trim evicted %d, want 1", n)
	}
	if !a.Holds(k1, r1) {
		t.Error("used glyph was evicted")
	}
	if _, ok := a.Lookup(k2); ok {
		t.Error("unused glyph survived Trim")
	}

	gen := a.Generation()
	a.Reset()
	if a.Generation() == gen || a.Len() != 0 {
		t.Error("Reset should drop glyphs and advance the generation")
	}
}

func TestAtlasFullAndGrow(t *testing.T) {
	a := NewAtlas(16, 32)
	if _, err := a.Insert(KeyFor(1, 1), solidMask(12, 12)); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if _, err := a.Insert(KeyFor(2, 1), solidMask(12, 12)); !errors.Is(err, ErrAtlasFull) {
		t.Fatalf("err = %v, want ErrAtlasFull", err)
	}
	if !a.Grow() {
		t.Fatal("Grow failed below max size")
	}
	if w, h := a.Size(); w != 32 || h != 32 {
		t.Errorf("size after Grow = %dx%d", w, h)
	}
	if a.Grow() {
		t.Error("Grow should fail at max size")
	}
	if _, err := a.Insert(KeyFor(3, 1), solidMask(40, 4)); !errors.Is(err, ErrGlyphTooLarge) {
		t.Errorf("err = %v, want ErrGlyphTooLarge", err)
	}
}

func TestShelfPacker(t *testing.T) {
	p := newShelfPacker(20, 20, 0)
	x, y, ok := p.place(10, 5)
	if !ok || x != 0 || y != 0 {
		t.Fatalf("first = (%d,%d,%v)", x, y, ok)
	}
	x, y, ok = p.place(10, 8) // grows the only shelf
	if !ok || x != 10 || y != 0 {
		t.Fatalf("second = (%d,%d,%v)", x, y, ok)
	}
	x, y, ok = p.place(5, 5) // new shelf below the 8-high one
	if !ok || x != 0 || y != 8 {
		t.Fatalf("third = (%d,%d,%v)", x, y, ok)
	}
	if _, _, ok = p.place(5, 13); ok {
		t.Error("item taller than remaining space was placed")
	}
	if u := p.utilization(); u <= 0 || u > 1 {
		t.Errorf("utilization = %v", u)
	}
	p.reset()
	if x, y, ok = p.place(20, 20); !ok || x != 0 || y != 0 {
		t.Error("reset did not free space")
	}
}

func TestArrange(t *testing.T) {
	b := NewBuffer(NewShaper(loadTestFont(t)), DefaultMetrics())
	b.SetText("12:00:00")
	a := NewAtlas(256, 2048)

	p, err := Arrange(b, a, 100, 50, 1)
	if err != nil {
		t.Fatalf("Arrange: %v", err)
	}
	if len(p.Quads) != 8 {
		t.Fatalf("got %d quads, want 8", len(p.Quads))
	}
	if !p.Valid(a) {
		t.Fatal("fresh placement is not valid")
	}
	for i := 1; i < len(p.Quads); i++ {
		if p.Quads[i].X <= p.Quads[i-1].X {
			t.Errorf("quad %d at x=%v does not advance past quad %d", i, p.Quads[i].X, i-1)
		}
	}
	if p.Quads[0].X < 90 {
		t.Errorf("first quad at x=%v, want near the left edge 100", p.Quads[0].X)
	}
	// The two zeros share one atlas entry.
	if a.Len() != 4 {
		t.Errorf("atlas holds %d glyphs, want 4 distinct", a.Len())
	}

	a.Reset()
	if p.Valid(a) {
		t.Error("placement survived an atlas reset")
	}
}

func TestArrangeGrowsSmallAtlas(t *testing.T) {
	b := NewBuffer(NewShaper(loadTestFont(t)), DefaultMetrics())
	b.SetText("12:34:56")
	a := NewAtlas(64, 1024)

	p, err := Arrange(b, a, 0, 0, 1)
	if err != nil {
		t.Fatalf("Arrange: %v", err)
	}
	if w, _ := a.Size(); w == 64 {
		t.Error("atlas did not grow")
	}
	if !p.Valid(a) {
		t.Error("placement after growth is not valid")
	}
}
