// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import "github.com/gogpu/wgpu/hal"

// Target is a presentable image source: a window swapchain, a host-owned
// surface or an offscreen texture.
//
// Acquire and Present return *needle.Error values. Implementations map
// their backend's failures onto Timeout, Outdated, Lost, OutOfMemory and
// Other.
type Target interface {
	// Capabilities reports the supported formats and present modes.
	Capabilities() Capabilities

	// Configure (re)creates the images for cfg.
	Configure(device hal.Device, cfg Configuration) error

	// Unconfigure releases the images. The target may be configured again.
	Unconfigure(device hal.Device)

	// Acquire returns the next image to render into.
	Acquire(device hal.Device) (*Frame, error)

	// Present queues f for display. f must not be used afterwards.
	Present(queue hal.Queue, f *Frame) error

	// Discard returns an acquired frame without presenting it.
	Discard(device hal.Device, f *Frame)

	// Destroy releases the target. It is called once, after Unconfigure.
	Destroy()
}
