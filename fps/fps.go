// Package fps measures the overlay's frame rate and caps its redraw rate.
package fps

import (
	"fmt"
	"time"
)

// Window is the span a Counter averages over.
const Window = time.Second

// Counter counts frames over consecutive one-second windows. FPS reports
// the rate of the last complete window, so it stays steady between them.
//
// The zero value is ready to use.
type Counter struct {
	start  time.Time
	frames int
	fps    float64
}

// Tick records a frame at now.
func (c *Counter) Tick(now time.Time) {
	if c.start.IsZero() {
		c.start = now
	}
	c.frames++
	if d := now.Sub(c.start); d >= Window {
		c.fps = float64(c.frames) / d.Seconds()
		c.frames = 0
		c.start = now
	}
}

// FPS returns the rate measured over the last complete window, or zero
// before the first one ends.
func (c *Counter) FPS() float64 { return c.fps }

// Reset discards the measurement.
func (c *Counter) Reset() { *c = Counter{} }

func (c *Counter) String() string {
	return fmt.Sprintf("%.0f FPS", c.fps)
}

// Limiter accepts at most Limit frames per second.
type Limiter struct {
	interval time.Duration
	last     time.Time
}

// NewLimiter returns a limiter for limit frames per second. A limit of
// zero accepts every frame.
func NewLimiter(limit uint) *Limiter {
	l := &Limiter{}
	l.SetLimit(limit)
	return l
}

// SetLimit changes the cap. Zero removes it.
func (l *Limiter) SetLimit(limit uint) {
	if limit == 0 {
		l.interval = 0
		return
	}
	l.interval = time.Second / time.Duration(limit)
}

// Interval returns the minimum spacing between accepted frames.
func (l *Limiter) Interval() time.Duration { return l.interval }

// Ready reports whether a frame at now is due, and if so records it as the
// last accepted frame.
func (l *Limiter) Ready(now time.Time) bool {
	if l.interval > 0 && !l.last.IsZero() && now.Sub(l.last) < l.interval {
		return false
	}
	l.last = now
	return true
}
