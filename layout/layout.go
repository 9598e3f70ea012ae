// Package layout places measured text on the screen.
//
// A Rule anchors text to one of nine positions. Position is a pure function
// of the screen size, the text extent and a margin; it is defined for every
// anchor.
package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// Anchor is one of the nine screen positions text can be attached to.
//
// The numeric values follow reading order, so integer settings 0..8 map to
// TopLeft through BottomRight.
type Anchor uint8

const (
	TopLeft Anchor = iota
	Top
	TopRight
	Left
	Center
	Right
	BottomLeft
	Bottom
	BottomRight
)

// Anchors lists every anchor in numeric order.
var Anchors = [...]Anchor{TopLeft, Top, TopRight, Left, Center, Right, BottomLeft, Bottom, BottomRight}

var anchorNames = [...]string{
	TopLeft:     "top_left",
	Top:         "top",
	TopRight:    "top_right",
	Left:        "left",
	Center:      "center",
	Right:       "right",
	BottomLeft:  "bottom_left",
	Bottom:      "bottom",
	BottomRight: "bottom_right",
}

// String returns the snake_case name used in configuration files.
func (a Anchor) String() string {
	if int(a) < len(anchorNames) {
		return anchorNames[a]
	}
	return "Anchor(" + strconv.Itoa(int(a)) + ")"
}

// IsCorner reports whether a is one of the four corners.
func (a Anchor) IsCorner() bool {
	switch a {
	case TopLeft, TopRight, BottomLeft, BottomRight:
		return true
	}
	return false
}

// ParseAnchor parses an anchor name. It accepts snake_case ("top_right"),
// CamelCase ("TopRight") and the integers 0 through 8.
func ParseAnchor(s string) (Anchor, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n >= len(Anchors) {
			return Center, fmt.Errorf("layout: anchor %d out of range 0..%d", n, len(Anchors)-1)
		}
		return Anchor(n), nil
	}
	key := strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(s))
	for i, name := range anchorNames {
		if strings.ReplaceAll(name, "_", "") == key {
			return Anchor(i), nil
		}
	}
	return Center, fmt.Errorf("layout: unknown anchor %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (a Anchor) MarshalText() ([]byte, error) {
	if int(a) >= len(anchorNames) {
		return nil, fmt.Errorf("layout: invalid anchor %d", a)
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Anchor) UnmarshalText(text []byte) error {
	v, err := ParseAnchor(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Rule is the placement and appearance of one text overlay.
type Rule struct {
	Anchor Anchor
	// Scale multiplies the text's base size.
	Scale float32
	// Color is straight RGBA, 0-255 per channel.
	Color [4]uint8
}

// Position returns the top-left pixel coordinate of a text box of size
// text on a screen of size screen.
//
// Horizontal edges sit margin pixels from the left and right of the
// screen; vertical edges sit twice the margin from the top and bottom.
// Centered axes ignore the margin.
func (r Rule) Position(screen, text [2]float32, margin float32) (x, y float32) {
	return Place(r.Anchor, screen, text, margin)
}

// Place is Position for a bare anchor.
func Place(a Anchor, screen, text [2]float32, margin float32) (x, y float32) {
	cx := (screen[0] - text[0]) / 2
	cy := (screen[1] - text[1]) / 2
	left := margin
	right := screen[0] - text[0] - margin
	top := margin * 2
	bottom := screen[1] - text[1] - margin*2

	switch a {
	case TopLeft:
		return left, top
	case Top:
		return cx, top
	case TopRight:
		return right, top
	case Left:
		return left, cy
	case Right:
		return right, cy
	case BottomLeft:
		return left, bottom
	case Bottom:
		return cx, bottom
	case BottomRight:
		return right, bottom
	default:
		return cx, cy
	}
}
