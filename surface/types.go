// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// DefaultFrameLatency is the number of frames the presentation engine may
// queue ahead of the GPU.
const DefaultFrameLatency = 2

// Size is a physical size in pixels.
type Size struct {
	Width, Height uint32
}

// Empty reports whether either dimension is zero.
func (s Size) Empty() bool {
	return s.Width == 0 || s.Height == 0
}

// Vec returns the size as a float pair, the form layout and the text layer
// work in.
func (s Size) Vec() [2]float32 {
	return [2]float32{float32(s.Width), float32(s.Height)}
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// PresentMode selects how acquired images are queued for display.
type PresentMode uint8

const (
	PresentModeFifo PresentMode = iota
	PresentModeFifoRelaxed
	PresentModeMailbox
	PresentModeImmediate
)

var presentModeNames = [...]string{
	PresentModeFifo:        "Fifo",
	PresentModeFifoRelaxed: "FifoRelaxed",
	PresentModeMailbox:     "Mailbox",
	PresentModeImmediate:   "Immediate",
}

func (p PresentMode) String() string {
	if int(p) < len(presentModeNames) {
		return presentModeNames[p]
	}
	return fmt.Sprintf("PresentMode(%d)", p)
}

// Configuration is the state a Target is configured with.
// Width and Height are never zero once a Manager holds it.
type Configuration struct {
	Width, Height uint32
	Format        gputypes.TextureFormat
	PresentMode   PresentMode
	FrameLatency  uint32
}

// Size returns the configured size.
func (c Configuration) Size() Size {
	return Size{Width: c.Width, Height: c.Height}
}

// Capabilities lists what a Target supports, in the target's order of
// preference.
type Capabilities struct {
	Formats      []gputypes.TextureFormat
	PresentModes []PresentMode
}

// PreferredFormat returns the first sRGB format, else the first format.
// It returns TextureFormatUndefined if no format is reported.
func (c Capabilities) PreferredFormat() gputypes.TextureFormat {
	for _, f := range c.Formats {
		if isSRGB(f) {
			return f
		}
	}
	if len(c.Formats) > 0 {
		return c.Formats[0]
	}
	return gputypes.TextureFormatUndefined
}

// Configuration returns the configuration for size: the preferred format,
// the first present mode and the default frame latency. Zero dimensions are
// raised to 1.
func (c Capabilities) Configuration(size Size) Configuration {
	mode := PresentModeFifo
	if len(c.PresentModes) > 0 {
		mode = c.PresentModes[0]
	}
	return Configuration{
		Width:        max(size.Width, 1),
		Height:       max(size.Height, 1),
		Format:       c.PreferredFormat(),
		PresentMode:  mode,
		FrameLatency: DefaultFrameLatency,
	}
}

func isSRGB(f gputypes.TextureFormat) bool {
	switch f {
	case gputypes.TextureFormatBGRA8UnormSrgb, gputypes.TextureFormatRGBA8UnormSrgb:
		return true
	default:
		return false
	}
}

// Frame is one acquired image.
type Frame struct {
	// View is the color attachment for this frame.
	View hal.TextureView
	// Size is the image size, which matches the configuration the frame
	// was acquired under.
	Size Size
	// Suboptimal is set when the image can still be presented but the
	// target should be reconfigured.
	Suboptimal bool
	// Handle is owned by the Target that produced the frame.
	Handle any
}

// WindowHandle holds the native handles a window surface is created from:
// the display connection (X11 Display*, wl_display*, or 0 on Windows and
// macOS) and the window (HWND, X11 Window, wl_surface*, CAMetalLayer*).
type WindowHandle struct {
	Display uintptr
	Window  uintptr
}
