// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"slices"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/needle"
	"github.com/gogpu/needle/surface"
)

// DefaultMargin is the screen margin in pixels text is positioned with.
const DefaultMargin = 10

// Composer draws a set of layers into one frame per call.
type Composer struct {
	layers []Layer
	margin float32
}

// NewComposer returns a composer for layers, positioned with margin.
func NewComposer(margin float32, layers ...Layer) *Composer {
	c := &Composer{margin: margin}
	for _, l := range layers {
		c.Add(l)
	}
	return c
}

// Add inserts l after every layer of the same or a lower stage.
func (c *Composer) Add(l Layer) {
	c.layers = append(c.layers, l)
	slices.SortStableFunc(c.layers, func(a, b Layer) int {
		return int(a.Stage()) - int(b.Stage())
	})
}

// Layers returns the layers in draw order.
func (c *Composer) Layers() []Layer { return c.layers }

// Margin returns the positioning margin.
func (c *Composer) Margin() float32 { return c.margin }

// Resize forwards size to every layer.
func (c *Composer) Resize(size surface.Size) {
	for _, l := range c.layers {
		l.Resize(size)
	}
}

// Frame renders one frame over the image's previous contents.
func (c *Composer) Frame(m *surface.Manager) error {
	return c.compose(m, gputypes.LoadOpLoad, gputypes.Color{})
}

// Clear renders one frame after clearing the image to color. Freshly
// acquired images have undefined contents, so the first frame uses it.
func (c *Composer) Clear(m *surface.Manager, color gputypes.Color) error {
	return c.compose(m, gputypes.LoadOpClear, color)
}

func (c *Composer) compose(m *surface.Manager, load gputypes.LoadOp, clear gputypes.Color) error {
	device, queue, cfg := m.Device(), m.Queue(), m.Config()
	for _, l := range c.layers {
		l.Update(queue, cfg)
	}
	for _, l := range c.layers {
		if err := l.Prepare(c.margin, device, queue); err != nil {
			return err
		}
	}
	return m.RenderFrame(func(f *surface.Frame, enc hal.CommandEncoder) error {
		pass := enc.BeginRenderPass(&hal.RenderPassDescriptor{
			Label: needle.Label(needle.LabelRenderPass, ""),
			ColorAttachments: []hal.RenderPassColorAttachment{{
				View:       f.View,
				LoadOp:     load,
				StoreOp:    gputypes.StoreOpStore,
				ClearValue: clear,
			}},
		})
		defer pass.End()
		for _, l := range c.layers {
			if err := l.Render(pass); err != nil {
				return err
			}
		}
		return nil
	})
}

// Destroy destroys every layer.
func (c *Composer) Destroy(device hal.Device) {
	for _, l := range c.layers {
		l.Destroy(device)
	}
	c.layers = nil
}
