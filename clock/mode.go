package clock

import (
	"fmt"
	"strings"
	"time"
)

// ModeKind is the operating mode of a Clock.
type ModeKind uint8

const (
	// KindClock shows the local wall-clock time.
	KindClock ModeKind = iota
	// KindCountUp shows the time since the timer was started.
	KindCountUp
	// KindCountDown shows the time left until a target duration elapses.
	KindCountDown
)

// Mode is an operating mode. CountDown modes carry their target duration;
// two modes are equal only when both kind and target match.
type Mode struct {
	kind   ModeKind
	target time.Duration
}

// ClockMode returns the wall-clock mode.
func ClockMode() Mode { return Mode{kind: KindClock} }

// CountUp returns the count-up timer mode.
func CountUp() Mode { return Mode{kind: KindCountUp} }

// CountDown returns a count-down timer mode with the given target.
// Negative targets are treated as zero.
func CountDown(target time.Duration) Mode {
	if target < 0 {
		target = 0
	}
	return Mode{kind: KindCountDown, target: target}
}

// Kind returns the mode kind.
func (m Mode) Kind() ModeKind { return m.kind }

// Target returns the count-down target, or zero for other modes.
func (m Mode) Target() time.Duration { return m.target }

// IsTimer reports whether the mode is CountUp or CountDown.
func (m Mode) IsTimer() bool { return m.kind == KindCountUp || m.kind == KindCountDown }

func (m Mode) String() string {
	switch m.kind {
	case KindCountUp:
		return "CountUp"
	case KindCountDown:
		return fmt.Sprintf("CountDown(%s)", m.target)
	default:
		return "Clock"
	}
}

// ParseMode parses "clock", "countup" or "countdown". The target is only
// used for countdown.
func ParseMode(name string, target time.Duration) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "clock", "":
		return ClockMode(), nil
	case "countup", "count-up", "up":
		return CountUp(), nil
	case "countdown", "count-down", "down":
		return CountDown(target), nil
	default:
		return ClockMode(), fmt.Errorf("clock: unknown mode %q", name)
	}
}
