// Package clock tracks the wall clock and the count-up and count-down
// timers shown by the overlay.
//
// A Clock is a small state machine. Mode changes and timer toggles mutate
// it; reading the display string never does. All instants come from an
// injectable now function so tests can drive time explicitly.
package clock

import "time"

// Clock is the time state machine. The zero value is not usable; create
// one with New.
//
// Clock is not safe for concurrent use. The overlay drives it from the
// window event loop only.
type Clock struct {
	format  Format
	mode    Mode
	anchor  time.Time
	stop    time.Time
	stopped bool // stop holds a pause instant
	started bool
	now     func() time.Time
}

// Option configures a Clock.
type Option func(*Clock)

// WithNow replaces the time source. Used by tests.
func WithNow(now func() time.Time) Option {
	return func(c *Clock) {
		if now != nil {
			c.now = now
		}
	}
}

// WithMode sets the initial mode.
func WithMode(m Mode) Option {
	return func(c *Clock) { c.mode = m }
}

// New creates a Clock in the given format. The initial mode is ClockMode
// unless WithMode is passed.
func New(format Format, opts ...Option) *Clock {
	c := &Clock{
		format: format,
		mode:   ClockMode(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.anchor = c.now()
	return c
}

// Format returns the display format.
func (c *Clock) Format() Format { return c.format }

// SetFormat changes the display format. It does not affect timer state.
func (c *Clock) SetFormat(f Format) { c.format = f }

// Mode returns the current mode.
func (c *Clock) Mode() Mode { return c.mode }

// Started reports whether a timer is running. Always false in ClockMode.
func (c *Clock) Started() bool { return c.mode.IsTimer() && c.started }

// SetMode switches the operating mode. Setting the current mode again,
// including a CountDown with the same target, is a no-op. Switching into a
// timer mode re-anchors to now and clears any pause instant.
func (c *Clock) SetMode(m Mode) {
	if m == c.mode {
		return
	}
	c.mode = m
	if m.IsTimer() {
		c.anchor = c.now()
		c.clearStop()
	}
}

// Restart resets the current timer to its initial, paused state.
// It does nothing in ClockMode.
func (c *Clock) Restart() {
	if !c.mode.IsTimer() {
		return
	}
	c.started = false
	c.anchor = c.now()
	c.clearStop()
}

// ToggleTimer starts a paused timer or pauses a running one. It does
// nothing in ClockMode.
func (c *Clock) ToggleTimer() {
	if !c.mode.IsTimer() {
		return
	}
	now := c.now()
	if c.started {
		c.pause(now)
		return
	}
	switch c.mode.Kind() {
	case KindCountDown:
		c.resumeCountDown(now)
	case KindCountUp:
		c.resumeCountUp(now)
	}
	c.started = true
}

// pause records the pause instant.
func (c *Clock) pause(now time.Time) {
	c.stop = now
	c.stopped = true
	c.started = false
}

// resumeCountDown restarts a countdown. If it had already run past its
// target when paused, a fresh countdown begins from the full target.
// Otherwise it runs on from the original anchor: the countdown keeps
// counting against the instant it was first started.
func (c *Clock) resumeCountDown(now time.Time) {
	if !c.stopped {
		c.anchor = now
		return
	}
	if c.stop.Sub(c.anchor) > c.mode.Target() {
		c.anchor = now
	}
	c.clearStop()
}

// resumeCountUp restarts a count-up timer. The anchor moves forward by the
// paused span so elapsed time excludes the pause.
func (c *Clock) resumeCountUp(now time.Time) {
	if !c.stopped {
		c.anchor = now
		return
	}
	c.anchor = c.anchor.Add(now.Sub(c.stop))
	c.clearStop()
}

func (c *Clock) clearStop() {
	c.stop = time.Time{}
	c.stopped = false
}

// Elapsed returns the running time of the current timer as of now: the
// span up to the pause instant when paused, zero if it was never started.
// It returns zero in ClockMode.
func (c *Clock) Elapsed(now time.Time) time.Duration {
	if !c.mode.IsTimer() {
		return 0
	}
	var d time.Duration
	switch {
	case c.started:
		d = now.Sub(c.anchor)
	case c.stopped:
		d = c.stop.Sub(c.anchor)
	}
	if d < 0 {
		return 0
	}
	return d
}

// Remaining returns the time left on a countdown as of now, clamped to
// zero. It returns zero for other modes.
func (c *Clock) Remaining(now time.Time) time.Duration {
	if c.mode.Kind() != KindCountDown {
		return 0
	}
	left := c.mode.Target() - c.Elapsed(now)
	if left < 0 {
		return 0
	}
	return left
}

// Expired reports whether a running countdown has reached zero.
func (c *Clock) Expired(now time.Time) bool {
	return c.mode.Kind() == KindCountDown && c.started && c.Remaining(now) == 0
}

// Display returns the string to show as of now. It does not mutate c.
func (c *Clock) Display(now time.Time) string {
	switch c.mode.Kind() {
	case KindCountDown:
		return FormatDuration(c.Remaining(now), c.format)
	case KindCountUp:
		return FormatDuration(c.Elapsed(now), c.format)
	default:
		return FormatWallClock(now.Local(), c.format)
	}
}

// String returns the display string for the current instant.
func (c *Clock) String() string {
	return c.Display(c.now())
}
