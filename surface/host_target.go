// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/needle"
)

// ViewFunc returns the window host's current surface view and its size.
// The view is a hal.TextureView or wraps one, like *wgpu.TextureView from
// gogpu's Context.SurfaceView. A nil view means no frame is in progress.
type ViewFunc func() (view any, width, height uint32)

// wrappedView is implemented by views that wrap a hal view.
type wrappedView interface {
	HalTextureView() hal.TextureView
}

func halView(v any) hal.TextureView {
	switch view := v.(type) {
	case hal.TextureView:
		return view
	case wrappedView:
		return view.HalTextureView()
	default:
		return nil
	}
}

// HostTarget renders into a surface owned by a window host that acquires
// and presents the image around its draw callback. Configure only records
// the configuration; Present is a no-op.
type HostTarget struct {
	format gputypes.TextureFormat
	view   ViewFunc
	config Configuration
}

// NewHostTarget returns a target reading the current view from view.
func NewHostTarget(format gputypes.TextureFormat, view ViewFunc) *HostTarget {
	return &HostTarget{format: format, view: view}
}

// Capabilities reports the host's surface format and Fifo.
func (t *HostTarget) Capabilities() Capabilities {
	return Capabilities{
		Formats:      []gputypes.TextureFormat{t.format},
		PresentModes: []PresentMode{PresentModeFifo},
	}
}

// Configure records cfg. The host resizes its own surface.
func (t *HostTarget) Configure(_ hal.Device, cfg Configuration) error {
	t.config = cfg
	return nil
}

// Unconfigure is a no-op.
func (t *HostTarget) Unconfigure(hal.Device) {}

// Acquire wraps the host's current view. No view yet is a Timeout, so the
// tick is skipped; a view whose size differs from the configuration is
// Outdated.
func (t *HostTarget) Acquire(hal.Device) (*Frame, error) {
	if t.view == nil {
		return nil, needle.Errorf(needle.KindTimeout, "host has no surface view")
	}
	v, w, h := t.view()
	view := halView(v)
	if view == nil {
		return nil, needle.Errorf(needle.KindTimeout, "host has no surface view")
	}
	size := Size{Width: w, Height: h}
	if size != t.config.Size() {
		return nil, needle.Errorf(needle.KindOutdated, "host surface is %s, configured %s", size, t.config.Size())
	}
	return &Frame{View: view, Size: size}, nil
}

// Present is a no-op: the host presents after its draw callback returns.
func (t *HostTarget) Present(hal.Queue, *Frame) error { return nil }

// Discard is a no-op.
func (t *HostTarget) Discard(hal.Device, *Frame) {}

// Destroy is a no-op.
func (t *HostTarget) Destroy() {}
