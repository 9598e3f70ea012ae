// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/needle"
)

// OffscreenTarget renders into a device texture. A configured target has one
// image that every Acquire returns; Present only counts.
type OffscreenTarget struct {
	format gputypes.TextureFormat

	texture hal.Texture
	view    hal.TextureView
	device  hal.Device
	config  Configuration

	acquired  bool
	presented uint64
	discarded uint64
}

// NewOffscreenTarget returns an unconfigured target of the given format.
func NewOffscreenTarget(format gputypes.TextureFormat) *OffscreenTarget {
	return &OffscreenTarget{format: format}
}

// Capabilities reports the target's single format and Fifo.
func (t *OffscreenTarget) Capabilities() Capabilities {
	return Capabilities{
		Formats:      []gputypes.TextureFormat{t.format},
		PresentModes: []PresentMode{PresentModeFifo},
	}
}

// Configure creates the texture for cfg.
func (t *OffscreenTarget) Configure(device hal.Device, cfg Configuration) error {
	t.release()
	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         needle.Label(needle.LabelTexture, "Offscreen"),
		Size:          hal.Extent3D{Width: cfg.Width, Height: cfg.Height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        cfg.Format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("surface: create offscreen texture: %w", err)
	}
	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         needle.Label(needle.LabelTexture, "Offscreen View"),
		Format:        cfg.Format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		device.DestroyTexture(tex)
		return fmt.Errorf("surface: create offscreen view: %w", err)
	}
	t.texture, t.view, t.device, t.config = tex, view, device, cfg
	return nil
}

// Unconfigure destroys the texture.
func (t *OffscreenTarget) Unconfigure(hal.Device) { t.release() }

func (t *OffscreenTarget) release() {
	if t.device == nil {
		return
	}
	if t.view != nil {
		t.device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.texture != nil {
		t.device.DestroyTexture(t.texture)
		t.texture = nil
	}
	t.acquired = false
}

// Acquire returns the texture. It is Outdated before Configure and while a
// previous frame is still held.
func (t *OffscreenTarget) Acquire(hal.Device) (*Frame, error) {
	if t.view == nil {
		return nil, needle.Errorf(needle.KindOutdated, "offscreen target is not configured")
	}
	if t.acquired {
		return nil, needle.Errorf(needle.KindTimeout, "offscreen image is still acquired")
	}
	t.acquired = true
	return &Frame{View: t.view, Size: t.config.Size()}, nil
}

// Present releases the frame.
func (t *OffscreenTarget) Present(hal.Queue, *Frame) error {
	t.acquired = false
	t.presented++
	return nil
}

// Discard releases the frame without counting it as presented.
func (t *OffscreenTarget) Discard(hal.Device, *Frame) {
	t.acquired = false
	t.discarded++
}

// Destroy releases the texture.
func (t *OffscreenTarget) Destroy() { t.release() }

// Texture returns the texture, for readback. It is nil until configured.
func (t *OffscreenTarget) Texture() hal.Texture { return t.texture }

// Presented returns the number of presented frames.
func (t *OffscreenTarget) Presented() uint64 { return t.presented }

// Discarded returns the number of discarded frames.
func (t *OffscreenTarget) Discarded() uint64 { return t.discarded }
