// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"path/filepath"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/needle"
	"github.com/gogpu/needle/geometry"
	"github.com/gogpu/needle/shaders"
	"github.com/gogpu/needle/surface"
)

// BackgroundConfig describes a background layer.
//
// Buffers and Layouts pair up by index. IndexBuffer and Indices are both
// set for indexed geometry and both nil otherwise.
type BackgroundConfig struct {
	Name string

	// VertexShader and FragmentShader are SPIR-V binaries, read once.
	VertexShader   string
	FragmentShader string

	// Format is the color target format.
	Format gputypes.TextureFormat

	Buffers     []hal.Buffer
	Layouts     []gputypes.VertexBufferLayout
	VertexCount uint32

	IndexBuffer hal.Buffer
	Indices     []uint16
}

func (c *BackgroundConfig) validate() error {
	if len(c.Buffers) == 0 || len(c.Buffers) != len(c.Layouts) {
		return needle.Errorf(needle.KindInvalidBufferRegistration,
			"%d vertex buffers, %d layouts", len(c.Buffers), len(c.Layouts))
	}
	if (c.IndexBuffer == nil) != (len(c.Indices) == 0) {
		return needle.Errorf(needle.KindInvalidBufferRegistration,
			"index buffer set: %t, index count: %d", c.IndexBuffer != nil, len(c.Indices))
	}
	return nil
}

// Background draws flat geometry with a fixed pipeline. It takes ownership
// of the buffers in its config once NewBackground succeeds.
type Background struct {
	name     string
	vertex   hal.ShaderModule
	fragment hal.ShaderModule
	layout   hal.PipelineLayout
	pipeline hal.RenderPipeline

	buffers     []hal.Buffer
	vertexCount uint32
	indexBuffer hal.Buffer
	indexCount  uint32
}

// NewBackground validates cfg, reads both shader binaries and builds the
// pipeline. Validation runs before any GPU object is created.
func NewBackground(device hal.Device, cfg BackgroundConfig) (*Background, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	vertSPIRV, err := shaders.Read(cfg.VertexShader)
	if err != nil {
		return nil, err
	}
	fragSPIRV, err := shaders.Read(cfg.FragmentShader)
	if err != nil {
		return nil, err
	}

	b := &Background{
		name:        cfg.Name,
		buffers:     cfg.Buffers,
		vertexCount: cfg.VertexCount,
		indexBuffer: cfg.IndexBuffer,
		indexCount:  uint32(len(cfg.Indices)), //nolint:gosec // a handful of indices
	}
	if err := b.createPipeline(device, cfg, vertSPIRV, fragSPIRV); err != nil {
		b.destroyPipeline(device)
		return nil, err
	}
	needle.Logger().Debug("render: background created",
		"name", cfg.Name, "buffers", len(cfg.Buffers), "indexed", b.Indexed())
	return b, nil
}

func (b *Background) createPipeline(device hal.Device, cfg BackgroundConfig, vertSPIRV, fragSPIRV []byte) error {
	var err error
	if b.vertex, err = shaders.Module(device, cfg.Name+" Vertex", vertSPIRV); err != nil {
		return err
	}
	if b.fragment, err = shaders.Module(device, cfg.Name+" Fragment", fragSPIRV); err != nil {
		return err
	}
	b.layout, err = device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: needle.Label(needle.LabelPipelineLayout, cfg.Name),
	})
	if err != nil {
		return needle.Errorf(needle.KindOther, "create %s pipeline layout: %w", cfg.Name, err)
	}
	b.pipeline, err = device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  needle.Label(needle.LabelPipeline, cfg.Name),
		Layout: b.layout,
		Vertex: hal.VertexState{
			Module:     b.vertex,
			EntryPoint: shaders.EntryMain,
			Buffers:    cfg.Layouts,
		},
		Fragment: &hal.FragmentState{
			Module:     b.fragment,
			EntryPoint: shaders.EntryMain,
			Targets: []gputypes.ColorTargetState{
				{
					// No blend state: the source replaces the target.
					Format:    cfg.Format,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology:  gputypes.PrimitiveTopologyTriangleList,
			FrontFace: gputypes.FrontFaceCCW,
			CullMode:  gputypes.CullModeBack,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return needle.Errorf(needle.KindOther, "create %s pipeline: %w", cfg.Name, err)
	}
	return nil
}

// NewColorBackground builds a full-screen background in color from the
// shaders installed in shaderDir. The indexed quad is used unless
// triangles is set, in which case a 6-vertex triangle list is drawn.
func NewColorBackground(m *surface.Manager, shaderDir string, color [4]float32, triangles bool) (*Background, error) {
	const name = "Background"
	var (
		vertices []geometry.Vertex
		indices  []uint16
	)
	if triangles {
		vertices = geometry.Rectangle([2]float32{1, 1}, [2]float32{0, 0}, 0, color)
	} else {
		vertices, indices = geometry.FullScreen(color)
	}

	device := m.Device()
	vb, err := m.CreateVertexBuffer(name, vertices)
	if err != nil {
		return nil, err
	}
	cfg := BackgroundConfig{
		Name:           name,
		VertexShader:   filepath.Join(shaderDir, shaders.SPIRVFile(shaders.BackgroundVertex)),
		FragmentShader: filepath.Join(shaderDir, shaders.SPIRVFile(shaders.BackgroundFragment)),
		Format:         m.Config().Format,
		Buffers:        []hal.Buffer{vb},
		Layouts:        []gputypes.VertexBufferLayout{geometry.VertexLayout()},
		VertexCount:    uint32(len(vertices)), //nolint:gosec // 4 or 6
	}
	if indices != nil {
		ib, err := m.CreateIndexBuffer(name, indices)
		if err != nil {
			device.DestroyBuffer(vb)
			return nil, err
		}
		cfg.IndexBuffer, cfg.Indices = ib, indices
	}

	b, err := NewBackground(device, cfg)
	if err != nil {
		device.DestroyBuffer(vb)
		if cfg.IndexBuffer != nil {
			device.DestroyBuffer(cfg.IndexBuffer)
		}
		return nil, err
	}
	return b, nil
}

// Indexed reports whether the background draws with an index buffer.
func (b *Background) Indexed() bool { return b.indexBuffer != nil }

// Stage implements Layer.
func (b *Background) Stage() Stage { return StageBackground }

// Resize implements Layer. Background geometry is in device coordinates.
func (b *Background) Resize(surface.Size) {}

// Update implements Layer.
func (b *Background) Update(hal.Queue, surface.Configuration) {}

// Prepare implements Layer. Everything was uploaded at construction.
func (b *Background) Prepare(float32, hal.Device, hal.Queue) error { return nil }

// Render implements Layer.
func (b *Background) Render(pass hal.RenderPassEncoder) error {
	pass.SetPipeline(b.pipeline)
	for i, buf := range b.buffers {
		pass.SetVertexBuffer(uint32(i), buf, 0) //nolint:gosec // slot count is tiny
	}
	if b.indexBuffer != nil {
		pass.SetIndexBuffer(b.indexBuffer, gputypes.IndexFormatUint16, 0)
		pass.DrawIndexed(b.indexCount, 1, 0, 0, 0)
		return nil
	}
	pass.Draw(b.vertexCount, 1, 0, 0)
	return nil
}

// Destroy implements Layer.
func (b *Background) Destroy(device hal.Device) {
	b.destroyPipeline(device)
	for _, buf := range b.buffers {
		device.DestroyBuffer(buf)
	}
	b.buffers = nil
	if b.indexBuffer != nil {
		device.DestroyBuffer(b.indexBuffer)
		b.indexBuffer = nil
	}
}

func (b *Background) destroyPipeline(device hal.Device) {
	if b.pipeline != nil {
		device.DestroyRenderPipeline(b.pipeline)
		b.pipeline = nil
	}
	if b.layout != nil {
		device.DestroyPipelineLayout(b.layout)
		b.layout = nil
	}
	if b.fragment != nil {
		device.DestroyShaderModule(b.fragment)
		b.fragment = nil
	}
	if b.vertex != nil {
		device.DestroyShaderModule(b.vertex)
		b.vertex = nil
	}
}
