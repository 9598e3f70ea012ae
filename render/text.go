// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/needle"
	"github.com/gogpu/needle/layout"
	"github.com/gogpu/needle/shaders"
	"github.com/gogpu/needle/surface"
	"github.com/gogpu/needle/text"
)

const (
	// textVertexStride: position vec2 + texel vec2 + color vec4.
	textVertexStride = 32
	// textUniformSize: screen vec2 + atlas vec2.
	textUniformSize = 16

	initialAtlasSize = 1024
	maxAtlasSize     = 4096
	initialQuadCap   = 64
	verticesPerQuad  = 6
	quadBytes        = textVertexStride * verticesPerQuad
)

// textVertexLayout matches VertexInput in text.wgsl.
func textVertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: textVertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},  // position
				{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},  // texel
				{Format: gputypes.VertexFormatFloat32x4, Offset: 16, ShaderLocation: 2}, // color
			},
		},
	}
}

// TextConfig describes a text layer.
type TextConfig struct {
	Name    string
	Font    *text.Font
	Metrics text.Metrics
	Rule    layout.Rule
	// Format is the color target format.
	Format gputypes.TextureFormat
}

// Text draws one block of text, positioned by a layout rule. Glyphs are
// rasterized on the CPU into an atlas that is uploaded when it changes.
type Text struct {
	name   string
	format gputypes.TextureFormat
	buffer *text.Buffer
	atlas  *text.Atlas
	rule   layout.Rule

	shader      hal.ShaderModule
	groupLayout hal.BindGroupLayout
	pipeLayout  hal.PipelineLayout
	pipeline    hal.RenderPipeline
	sampler     hal.Sampler
	uniform     hal.Buffer

	texture     hal.Texture
	textureView hal.TextureView
	textureSize [2]int
	bindGroup   hal.BindGroup

	vertices    hal.Buffer
	quadCap     int
	vertexCount uint32

	screen    surface.Size // last Resize
	viewport  surface.Size // last Update
	prepared  surface.Size // viewport used by the last Prepare
	placement text.Placement
}

// NewText creates the text pipeline. The atlas texture is created on the
// first Prepare.
func NewText(device hal.Device, cfg TextConfig) (*Text, error) {
	if cfg.Font == nil {
		return nil, needle.Errorf(needle.KindFontRead, "%s: no font", cfg.Name)
	}
	if cfg.Metrics == (text.Metrics{}) {
		cfg.Metrics = text.DefaultMetrics()
	}
	if cfg.Rule.Scale <= 0 {
		cfg.Rule.Scale = 1
	}
	t := &Text{
		name:   cfg.Name,
		format: cfg.Format,
		buffer: text.NewBuffer(text.NewShaper(cfg.Font), cfg.Metrics),
		atlas:  text.NewAtlas(initialAtlasSize, maxAtlasSize),
		rule:   cfg.Rule,
	}
	if err := t.createPipeline(device); err != nil {
		t.Destroy(device)
		return nil, err
	}
	return t, nil
}

func (t *Text) createPipeline(device hal.Device) error {
	spirv, err := shaders.Compile(shaders.Text)
	if err != nil {
		return err
	}
	if t.shader, err = shaders.Module(device, t.name, spirv); err != nil {
		return err
	}

	// Binding 0: Params (uniform), 1: atlas (texture_2d), 2: sampler.
	t.groupLayout, err = device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: needle.Label(needle.LabelBindGroupLayout, t.name),
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    2,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return needle.Errorf(needle.KindOther, "create %s bind group layout: %w", t.name, err)
	}

	t.pipeLayout, err = device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            needle.Label(needle.LabelPipelineLayout, t.name),
		BindGroupLayouts: []hal.BindGroupLayout{t.groupLayout},
	})
	if err != nil {
		return needle.Errorf(needle.KindOther, "create %s pipeline layout: %w", t.name, err)
	}

	t.sampler, err = device.CreateSampler(&hal.SamplerDescriptor{
		Label:        needle.Label(needle.LabelSampler, t.name),
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeLinear,
	})
	if err != nil {
		return needle.Errorf(needle.KindOther, "create %s sampler: %w", t.name, err)
	}

	t.uniform, err = device.CreateBuffer(&hal.BufferDescriptor{
		Label: needle.Label(needle.LabelUniformBuffer, t.name),
		Size:  textUniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return needle.Errorf(needle.KindOther, "create %s uniform buffer: %w", t.name, err)
	}

	premulBlend := gputypes.BlendStatePremultiplied()
	t.pipeline, err = device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  needle.Label(needle.LabelPipeline, t.name),
		Layout: t.pipeLayout,
		Vertex: hal.VertexState{
			Module:     t.shader,
			EntryPoint: shaders.EntryVertex,
			Buffers:    textVertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     t.shader,
			EntryPoint: shaders.EntryFragment,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    t.format,
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return needle.Errorf(needle.KindOther, "create %s pipeline: %w", t.name, err)
	}
	return nil
}

// Name returns the layer name.
func (t *Text) Name() string { return t.name }

// SetText replaces the text. Layout reruns only if s differs.
func (t *Text) SetText(s string) { t.buffer.SetText(s) }

// Text returns the current text.
func (t *Text) Text() string { return t.buffer.Text() }

// Rule returns the positioning rule.
func (t *Text) Rule() layout.Rule { return t.rule }

// SetRule replaces the positioning rule.
func (t *Text) SetRule(r layout.Rule) {
	if r.Scale <= 0 {
		r.Scale = 1
	}
	t.rule = r
}

// TextSize returns the laid-out extent in pixels at the rule's scale: the
// widest line by the number of lines times the line height.
func (t *Text) TextSize() [2]float32 { return t.buffer.Size(t.rule.Scale) }

// Buffer returns the line buffer.
func (t *Text) Buffer() *text.Buffer { return t.buffer }

// Atlas returns the glyph atlas.
func (t *Text) Atlas() *text.Atlas { return t.atlas }

// TrimAtlas evicts glyphs unused since the previous call. Call it once per
// presented frame.
func (t *Text) TrimAtlas() int { return t.atlas.Trim() }

// ResetAtlas empties the atlas and the shaping cache. The next Prepare
// rasterizes everything again.
func (t *Text) ResetAtlas() {
	t.atlas.Reset()
	t.buffer.Shaper().Reset()
	t.placement = text.Placement{}
	t.vertexCount = 0
	needle.Logger().Debug("render: text atlas reset", "layer", t.name)
}

// Stage implements Layer.
func (t *Text) Stage() Stage { return StageText }

// Resize implements Layer. Zero sizes are ignored, as the surface does.
func (t *Text) Resize(size surface.Size) {
	if !size.Empty() {
		t.screen = size
	}
}

// Update implements Layer.
func (t *Text) Update(_ hal.Queue, cfg surface.Configuration) {
	t.viewport = cfg.Size()
	if t.screen.Empty() {
		t.screen = t.viewport
	}
}

// Prepare implements Layer. It positions the text, rasterizes missing
// glyphs and uploads the atlas, the quads and the uniforms.
func (t *Text) Prepare(margin float32, device hal.Device, queue hal.Queue) error {
	x, y := t.rule.Position(t.viewport.Vec(), t.TextSize(), margin)
	placement, err := text.Arrange(t.buffer, t.atlas, x, y, t.rule.Scale)
	if err != nil {
		return needle.NewError(needle.KindRendererUpdateFailure, fmt.Errorf("%s: %w", t.name, err))
	}
	if err := t.syncAtlas(device, queue); err != nil {
		return needle.NewError(needle.KindRendererUpdateFailure, err)
	}
	if err := t.writeQuads(device, queue, placement.Quads); err != nil {
		return needle.NewError(needle.KindRendererUpdateFailure, err)
	}

	w, h := t.atlas.Size()
	params := make([]byte, textUniformSize)
	putFloats(params, float32(t.viewport.Width), float32(t.viewport.Height), float32(w), float32(h))
	if err := queue.WriteBuffer(t.uniform, 0, params); err != nil {
		return needle.NewError(needle.KindRendererUpdateFailure, fmt.Errorf("write %s uniforms: %w", t.name, err))
	}

	t.placement = placement
	t.prepared = t.viewport
	return nil
}

// syncAtlas (re)creates the atlas texture when the atlas size changed and
// uploads the atlas when the texture is new or the atlas is dirty.
func (t *Text) syncAtlas(device hal.Device, queue hal.Queue) error {
	w, h := t.atlas.Size()
	if t.texture == nil || t.textureSize != [2]int{w, h} {
		t.destroyTexture(device)
		tex, err := device.CreateTexture(&hal.TextureDescriptor{
			Label:         needle.Label(needle.LabelTexture, t.name+" Atlas"),
			Size:          hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1}, //nolint:gosec // bounded by maxAtlasSize
			MipLevelCount: 1,
			SampleCount:   1,
			Dimension:     gputypes.TextureDimension2D,
			Format:        gputypes.TextureFormatR8Unorm,
			Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("create %s atlas texture: %w", t.name, err)
		}
		t.texture = tex
		view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
			Label:         needle.Label(needle.LabelTexture, t.name+" Atlas View"),
			Format:        gputypes.TextureFormatR8Unorm,
			Dimension:     gputypes.TextureViewDimension2D,
			Aspect:        gputypes.TextureAspectAll,
			MipLevelCount: 1,
		})
		if err != nil {
			return fmt.Errorf("create %s atlas view: %w", t.name, err)
		}
		t.textureView = view
		t.textureSize = [2]int{w, h}
		if err := t.createBindGroup(device); err != nil {
			return err
		}
		needle.Logger().Debug("render: atlas texture created", "layer", t.name, "size", w)
	} else if !t.atlas.Dirty() {
		return nil
	}
	err := queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: t.texture, MipLevel: 0, Aspect: gputypes.TextureAspectAll},
		t.atlas.Pix(),
		&hal.ImageDataLayout{Offset: 0, BytesPerRow: uint32(w), RowsPerImage: uint32(h)}, //nolint:gosec // bounded by maxAtlasSize
		&hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},         //nolint:gosec // bounded by maxAtlasSize
	)
	if err != nil {
		return fmt.Errorf("upload %s atlas: %w", t.name, err)
	}
	t.atlas.MarkClean()
	return nil
}

func (t *Text) createBindGroup(device hal.Device) error {
	bg, err := device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  needle.Label(needle.LabelBindGroup, t.name),
		Layout: t.groupLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: t.uniform.NativeHandle(), Offset: 0, Size: textUniformSize}},
			{Binding: 1, Resource: gputypes.TextureViewBinding{TextureView: t.textureView.NativeHandle()}},
			{Binding: 2, Resource: gputypes.SamplerBinding{Sampler: t.sampler.NativeHandle()}},
		},
	})
	if err != nil {
		return fmt.Errorf("create %s bind group: %w", t.name, err)
	}
	t.bindGroup = bg
	return nil
}

// writeQuads uploads two triangles per quad, growing the vertex buffer to
// the next power of two when needed.
func (t *Text) writeQuads(device hal.Device, queue hal.Queue, quads []text.Quad) error {
	t.vertexCount = uint32(len(quads) * verticesPerQuad) //nolint:gosec // a few lines of text
	if len(quads) == 0 {
		return nil
	}
	if t.vertices == nil || len(quads) > t.quadCap {
		capacity := max(initialQuadCap, t.quadCap)
		for capacity < len(quads) {
			capacity *= 2
		}
		if t.vertices != nil {
			device.DestroyBuffer(t.vertices)
			t.vertices = nil
		}
		buf, err := device.CreateBuffer(&hal.BufferDescriptor{
			Label: needle.Label(needle.LabelVertexBuffer, t.name),
			Size:  uint64(capacity * quadBytes), //nolint:gosec // bounded
			Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("create %s vertex buffer: %w", t.name, err)
		}
		t.vertices, t.quadCap = buf, capacity
	}
	if err := queue.WriteBuffer(t.vertices, 0, quadVertices(quads, t.rule.Color)); err != nil {
		return fmt.Errorf("write %s vertices: %w", t.name, err)
	}
	return nil
}

// quadVertices expands quads into triangle-list vertices.
func quadVertices(quads []text.Quad, color [4]uint8) []byte {
	c := [4]float32{
		float32(color[0]) / 255,
		float32(color[1]) / 255,
		float32(color[2]) / 255,
		float32(color[3]) / 255,
	}
	data := make([]byte, len(quads)*quadBytes)
	off := 0
	for _, q := range quads {
		x0, y0 := q.X, q.Y
		x1, y1 := q.X+q.W, q.Y+q.H
		u0, v0 := float32(q.Region.X), float32(q.Region.Y)
		u1, v1 := u0+float32(q.Region.W), v0+float32(q.Region.H)
		corners := [verticesPerQuad][4]float32{
			{x0, y0, u0, v0},
			{x1, y0, u1, v0},
			{x0, y1, u0, v1},
			{x1, y0, u1, v0},
			{x1, y1, u1, v1},
			{x0, y1, u0, v1},
		}
		for _, v := range corners {
			putFloats(data[off:], v[0], v[1], v[2], v[3], c[0], c[1], c[2], c[3])
			off += textVertexStride
		}
	}
	return data
}

func putFloats(dst []byte, fs ...float32) {
	for i, f := range fs {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(f))
	}
}

// Render implements Layer. It fails with ScreenResolutionChanged if the
// window was resized after Prepare, and with RemovedFromAtlas if a
// prepared glyph has since left the atlas.
func (t *Text) Render(pass hal.RenderPassEncoder) error {
	if !t.screen.Empty() && t.prepared != t.screen {
		return needle.Errorf(needle.KindScreenResolutionChanged,
			"%s: prepared for %s, screen is %s", t.name, t.prepared, t.screen)
	}
	if !t.placement.Valid(t.atlas) {
		return needle.Errorf(needle.KindRemovedFromAtlas, "%s: atlas changed since prepare", t.name)
	}
	if t.vertexCount == 0 {
		return nil
	}
	pass.SetPipeline(t.pipeline)
	pass.SetBindGroup(0, t.bindGroup, nil)
	pass.SetVertexBuffer(0, t.vertices, 0)
	pass.Draw(t.vertexCount, 1, 0, 0)
	return nil
}

func (t *Text) destroyTexture(device hal.Device) {
	if t.bindGroup != nil {
		device.DestroyBindGroup(t.bindGroup)
		t.bindGroup = nil
	}
	if t.textureView != nil {
		device.DestroyTextureView(t.textureView)
		t.textureView = nil
	}
	if t.texture != nil {
		device.DestroyTexture(t.texture)
		t.texture = nil
	}
}

// Destroy implements Layer.
func (t *Text) Destroy(device hal.Device) {
	t.destroyTexture(device)
	if t.vertices != nil {
		device.DestroyBuffer(t.vertices)
		t.vertices = nil
	}
	if t.uniform != nil {
		device.DestroyBuffer(t.uniform)
		t.uniform = nil
	}
	if t.pipeline != nil {
		device.DestroyRenderPipeline(t.pipeline)
		t.pipeline = nil
	}
	if t.sampler != nil {
		device.DestroySampler(t.sampler)
		t.sampler = nil
	}
	if t.pipeLayout != nil {
		device.DestroyPipelineLayout(t.pipeLayout)
		t.pipeLayout = nil
	}
	if t.groupLayout != nil {
		device.DestroyBindGroupLayout(t.groupLayout)
		t.groupLayout = nil
	}
	if t.shader != nil {
		device.DestroyShaderModule(t.shader)
		t.shader = nil
	}
}
