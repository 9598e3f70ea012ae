// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/needle"
)

// Open creates a window surface on the given backend, selects the first
// adapter that can present to it, opens a device and configures the
// surface for size. There are no retries: every failure is fatal.
func Open(backend gputypes.Backend, win WindowHandle, size Size) (*Manager, error) {
	b, ok := hal.GetBackend(backend)
	if !ok {
		return nil, needle.Errorf(needle.KindSurfaceCreationFailed, "backend %v is not available", backend)
	}
	instance, err := b.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, needle.NewError(needle.KindSurfaceCreationFailed, fmt.Errorf("create instance: %w", err))
	}
	surf, err := instance.CreateSurface(win.Display, win.Window)
	if err != nil {
		instance.Destroy()
		return nil, needle.NewError(needle.KindSurfaceCreationFailed, err)
	}

	adapter, caps, err := selectAdapter(instance, surf)
	if err != nil {
		surf.Destroy()
		instance.Destroy()
		return nil, err
	}
	openDev, err := adapter.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		surf.Destroy()
		instance.Destroy()
		return nil, needle.NewError(needle.KindDeviceRequestFailed, err)
	}
	needle.Logger().Info("surface: adapter selected",
		"name", adapter.Info.Name,
		"type", adapter.Info.DeviceType)

	m := &Manager{
		instance: instance,
		device:   openDev.Device,
		queue:    openDev.Queue,
		target:   newHALTarget(surf, caps),
	}
	if err := m.init(size, gputypes.TextureFormatUndefined); err != nil {
		m.Close()
		return nil, err
	}
	return m, nil
}

// selectAdapter returns the first adapter reporting support for surf.
func selectAdapter(instance hal.Instance, surf hal.Surface) (*hal.ExposedAdapter, *hal.SurfaceCapabilities, error) {
	adapters := instance.EnumerateAdapters(surf)
	for i := range adapters {
		caps := adapters[i].Adapter.SurfaceCapabilities(surf)
		if caps != nil && len(caps.Formats) > 0 {
			return &adapters[i], caps, nil
		}
	}
	return nil, nil, needle.Errorf(needle.KindNoSuitableAdapter, "%d adapters, none can present", len(adapters))
}

// halTarget presents through a hal window surface.
type halTarget struct {
	surface hal.Surface
	caps    Capabilities
	alpha   hal.CompositeAlphaMode
	device  hal.Device
	config  Configuration
}

func newHALTarget(surf hal.Surface, caps *hal.SurfaceCapabilities) *halTarget {
	t := &halTarget{
		surface: surf,
		caps:    Capabilities{Formats: caps.Formats},
		alpha:   hal.CompositeAlphaModeOpaque,
	}
	for _, pm := range caps.PresentModes {
		t.caps.PresentModes = append(t.caps.PresentModes, presentModeFromHAL(pm))
	}
	if len(caps.AlphaModes) > 0 {
		t.alpha = caps.AlphaModes[0]
	}
	return t
}

func (t *halTarget) Capabilities() Capabilities { return t.caps }

func (t *halTarget) Configure(device hal.Device, cfg Configuration) error {
	err := t.surface.Configure(device, &hal.SurfaceConfiguration{
		Width:       cfg.Width,
		Height:      cfg.Height,
		Format:      cfg.Format,
		Usage:       gputypes.TextureUsageRenderAttachment,
		PresentMode: presentModeToHAL(cfg.PresentMode),
		AlphaMode:   t.alpha,
	})
	if err != nil {
		return mapSurfaceError(err)
	}
	t.device = device
	t.config = cfg
	return nil
}

func (t *halTarget) Unconfigure(device hal.Device) {
	t.surface.Unconfigure(device)
}

// halFrame keeps the acquired surface texture.
type halFrame struct {
	texture hal.SurfaceTexture
}

func (t *halTarget) Acquire(device hal.Device) (*Frame, error) {
	acquired, err := t.surface.AcquireTexture(nil)
	if err != nil {
		return nil, mapSurfaceError(err)
	}
	view, err := device.CreateTextureView(acquired.Texture, &hal.TextureViewDescriptor{
		Label:         needle.Label(needle.LabelTexture, "Surface"),
		Format:        t.config.Format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		t.surface.DiscardTexture(acquired.Texture)
		return nil, needle.NewError(needle.KindOther, fmt.Errorf("create surface view: %w", err))
	}
	return &Frame{
		View:       view,
		Size:       t.config.Size(),
		Suboptimal: acquired.Suboptimal,
		Handle:     &halFrame{texture: acquired.Texture},
	}, nil
}

func (t *halTarget) Present(queue hal.Queue, f *Frame) error {
	hf, ok := f.Handle.(*halFrame)
	if !ok {
		return needle.Errorf(needle.KindOther, "frame was not acquired from this surface")
	}
	err := queue.Present(t.surface, hf.texture, nil)
	if t.device != nil && f.View != nil {
		t.device.DestroyTextureView(f.View)
	}
	if err != nil {
		return mapSurfaceError(err)
	}
	return nil
}

func (t *halTarget) Discard(device hal.Device, f *Frame) {
	if f.View != nil {
		device.DestroyTextureView(f.View)
	}
	if hf, ok := f.Handle.(*halFrame); ok {
		t.surface.DiscardTexture(hf.texture)
	}
}

func (t *halTarget) Destroy() {
	if t.surface != nil {
		t.surface.Destroy()
		t.surface = nil
	}
}

// mapSurfaceError classifies a hal surface error.
func mapSurfaceError(err error) error {
	switch {
	case errors.Is(err, hal.ErrSurfaceOutdated):
		return needle.NewError(needle.KindOutdated, err)
	case errors.Is(err, hal.ErrSurfaceLost):
		return needle.NewError(needle.KindLost, err)
	case errors.Is(err, hal.ErrTimeout):
		return needle.NewError(needle.KindTimeout, err)
	case errors.Is(err, hal.ErrDeviceOutOfMemory):
		return needle.NewError(needle.KindOutOfMemory, err)
	default:
		return needle.NewError(needle.KindOther, err)
	}
}

func presentModeFromHAL(pm hal.PresentMode) PresentMode {
	switch pm {
	case hal.PresentModeFifoRelaxed:
		return PresentModeFifoRelaxed
	case hal.PresentModeMailbox:
		return PresentModeMailbox
	case hal.PresentModeImmediate:
		return PresentModeImmediate
	default:
		return PresentModeFifo
	}
}

func presentModeToHAL(pm PresentMode) hal.PresentMode {
	switch pm {
	case PresentModeFifoRelaxed:
		return hal.PresentModeFifoRelaxed
	case PresentModeMailbox:
		return hal.PresentModeMailbox
	case PresentModeImmediate:
		return hal.PresentModeImmediate
	default:
		return hal.PresentModeFifo
	}
}
