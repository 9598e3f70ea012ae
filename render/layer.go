// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"

	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/needle/surface"
)

// Stage orders layers within a frame. Lower stages draw first.
type Stage uint8

const (
	StageBackground Stage = iota
	StageText
)

func (s Stage) String() string {
	switch s {
	case StageBackground:
		return "Background"
	case StageText:
		return "Text"
	default:
		return fmt.Sprintf("Stage(%d)", s)
	}
}

// Layer is one drawable in the composed frame.
type Layer interface {
	// Stage reports where the layer draws relative to the others.
	Stage() Stage

	// Resize is called when the window's physical size changes.
	Resize(size surface.Size)

	// Update is called at the start of every frame with the current
	// surface configuration.
	Update(queue hal.Queue, cfg surface.Configuration)

	// Prepare uploads whatever Render needs. margin is the screen margin
	// in pixels used for positioning.
	Prepare(margin float32, device hal.Device, queue hal.Queue) error

	// Render records the layer's draws into pass.
	Render(pass hal.RenderPassEncoder) error

	// Destroy releases the layer's GPU objects.
	Destroy(device hal.Device)
}
