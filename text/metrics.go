package text

// Metrics is the base font size and line height of a Buffer, in pixels
// before the display scale is applied.
type Metrics struct {
	FontSize   float32
	LineHeight float32
}

// DefaultMetrics returns the metrics the overlay text is laid out with.
func DefaultMetrics() Metrics {
	return Metrics{FontSize: 80, LineHeight: 60}
}

// Scaled returns m multiplied by s.
func (m Metrics) Scaled(s float32) Metrics {
	return Metrics{FontSize: m.FontSize * s, LineHeight: m.LineHeight * s}
}
