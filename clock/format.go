package clock

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Format selects how a time value is rendered.
type Format uint8

const (
	// HourMinSec renders HH:MM:SS.
	HourMinSec Format = iota
	// HourMinSecMSec renders HH:MM:SS.mmm.
	HourMinSecMSec
)

// String returns the configuration name of the format.
func (f Format) String() string {
	switch f {
	case HourMinSecMSec:
		return "HourMinSecMSec"
	default:
		return "HourMinSec"
	}
}

// ParseFormat parses a format name as written by String. Matching is
// case-insensitive.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hourminsec", "":
		return HourMinSec, nil
	case "hourminsecmsec":
		return HourMinSecMSec, nil
	default:
		return HourMinSec, fmt.Errorf("clock: unknown time format %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Format) UnmarshalText(text []byte) error {
	v, err := ParseFormat(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// FormatToDigit renders v in decimal, left-padded with zeros to at least
// digits characters. Values wider than digits are never truncated.
func FormatToDigit(digits int, v uint64) string {
	s := strconv.FormatUint(v, 10)
	if len(s) >= digits {
		return s
	}
	return strings.Repeat("0", digits-len(s)) + s
}

// FormatDuration renders a non-negative duration. Hours are unbounded;
// minutes and seconds are taken modulo 60. Negative durations render as zero.
func FormatDuration(d time.Duration, f Format) string {
	if d < 0 {
		d = 0
	}
	secs := uint64(d / time.Second)
	h := secs / 3600
	m := (secs / 60) % 60
	s := secs % 60
	ms := uint64(d/time.Millisecond) % 1000
	return render(h, m, s, ms, f)
}

// FormatWallClock renders the time of day of t in its own location.
func FormatWallClock(t time.Time, f Format) string {
	ms := uint64(t.Nanosecond() / int(time.Millisecond))
	return render(uint64(t.Hour()), uint64(t.Minute()), uint64(t.Second()), ms, f)
}

func render(h, m, s, ms uint64, f Format) string {
	var b strings.Builder
	b.Grow(12)
	b.WriteString(FormatToDigit(2, h))
	b.WriteByte(':')
	b.WriteString(FormatToDigit(2, m))
	b.WriteByte(':')
	b.WriteString(FormatToDigit(2, s))
	if f == HourMinSecMSec {
		b.WriteByte('.')
		b.WriteString(FormatToDigit(3, ms))
	}
	return b.String()
}
