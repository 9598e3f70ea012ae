// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/needle"
	"github.com/gogpu/needle/geometry"
)

// ErrClosed is returned by operations on a closed Manager.
var ErrClosed = errors.New("surface: manager is closed")

// DrawFunc records one frame into enc. The render pass it opens must target
// f.View.
type DrawFunc func(f *Frame, enc hal.CommandEncoder) error

// Manager owns the device, the queue and the target for the lifetime of the
// overlay. It is not safe for concurrent use.
type Manager struct {
	instance hal.Instance // nil unless the manager opened the device
	device   hal.Device
	queue    hal.Queue
	target   Target
	config   Configuration

	// shared devices belong to the window host and are never destroyed here.
	shared bool
	closed bool
	// stale is set when the target could not be configured at all.
	stale bool

	frames       uint64
	reconfigures uint64
}

// NewShared creates a manager on a device owned by someone else. The
// target is configured for size with the given format, or with the
// target's preferred format if format is TextureFormatUndefined.
func NewShared(device hal.Device, queue hal.Queue, target Target, size Size, format gputypes.TextureFormat) (*Manager, error) {
	if device == nil || queue == nil {
		return nil, needle.Errorf(needle.KindDeviceRequestFailed, "shared device or queue is nil")
	}
	if target == nil {
		return nil, needle.Errorf(needle.KindSurfaceCreationFailed, "target is nil")
	}
	m := &Manager{
		device: device,
		queue:  queue,
		target: target,
		shared: true,
	}
	if err := m.init(size, format); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manager) init(size Size, format gputypes.TextureFormat) error {
	m.config = m.target.Capabilities().Configuration(size)
	if format != gputypes.TextureFormatUndefined {
		m.config.Format = format
	}
	if m.config.Format == gputypes.TextureFormatUndefined {
		return needle.Errorf(needle.KindSurfaceCreationFailed, "target reports no texture formats")
	}
	if err := m.target.Configure(m.device, m.config); err != nil {
		return needle.NewError(needle.KindSurfaceCreationFailed, err)
	}
	needle.Logger().Info("surface: configured",
		"size", m.config.Size(),
		"format", m.config.Format,
		"present_mode", m.config.PresentMode,
		"shared", m.shared)
	return nil
}

// Device returns the device. Layers receive it per call and must not keep
// it past Close.
func (m *Manager) Device() hal.Device { return m.device }

// Queue returns the queue.
func (m *Manager) Queue() hal.Queue { return m.queue }

// Target returns the presentable target.
func (m *Manager) Target() Target { return m.target }

// Config returns the current configuration.
func (m *Manager) Config() Configuration { return m.config }

// Size returns the configured size.
func (m *Manager) Size() Size { return m.config.Size() }

// Frames returns the number of frames presented.
func (m *Manager) Frames() uint64 { return m.frames }

// Reconfigures returns the number of times the target was reconfigured
// after creation.
func (m *Manager) Reconfigures() uint64 { return m.reconfigures }

// Resize reconfigures the target for size. A size with a zero dimension,
// or the current size, leaves the manager untouched. If the target rejects
// the new size the previous configuration stays in effect.
func (m *Manager) Resize(size Size) error {
	if m.closed {
		return ErrClosed
	}
	if size.Empty() || (size == m.config.Size() && !m.stale) {
		return nil
	}
	cfg := m.config
	cfg.Width = size.Width
	cfg.Height = size.Height
	return m.apply(cfg)
}

// Reconfigure re-applies the current configuration. It is the recovery
// step after an Outdated or Lost frame.
func (m *Manager) Reconfigure() error {
	if m.closed {
		return ErrClosed
	}
	return m.apply(m.config)
}

// apply configures the target for cfg and commits cfg on success. On
// failure the last valid configuration is configured again; if that fails
// too the manager is stale and the next Resize or Reconfigure retries.
func (m *Manager) apply(cfg Configuration) error {
	prev := m.config
	m.target.Unconfigure(m.device)
	err := m.target.Configure(m.device, cfg)
	if err == nil {
		m.config = cfg
		m.stale = false
		m.reconfigures++
		needle.Logger().Debug("surface: reconfigured", "size", cfg.Size())
		return nil
	}

	if rerr := m.target.Configure(m.device, prev); rerr != nil {
		m.stale = true
		needle.Logger().Warn("surface: restoring configuration failed", "size", prev.Size(), "error", rerr)
	} else {
		m.stale = false
	}
	kind, ok := needle.KindOf(err)
	if !ok {
		kind = needle.KindOther
	}
	return needle.NewError(kind, fmt.Errorf("surface: configure %s: %w", cfg.Size(), err))
}

// RenderFrame acquires an image, lets draw record into a fresh encoder,
// then submits once and presents once. If draw fails nothing is submitted
// and the image is handed back to the target.
func (m *Manager) RenderFrame(draw DrawFunc) error {
	if m.closed {
		return ErrClosed
	}
	frame, err := m.target.Acquire(m.device)
	if err != nil {
		return err
	}
	if frame.Suboptimal {
		needle.Logger().Debug("surface: suboptimal frame", "size", frame.Size)
	}

	cmdBuf, err := m.encode(frame, draw)
	if err != nil {
		m.target.Discard(m.device, frame)
		return err
	}
	defer m.device.FreeCommandBuffer(cmdBuf)

	if err := m.submit(cmdBuf); err != nil {
		m.target.Discard(m.device, frame)
		return err
	}
	if err := m.target.Present(m.queue, frame); err != nil {
		return err
	}
	m.frames++
	return nil
}

func (m *Manager) encode(frame *Frame, draw DrawFunc) (hal.CommandBuffer, error) {
	encoder, err := m.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: needle.Label(needle.LabelCommandEncoder, ""),
	})
	if err != nil {
		return nil, needle.NewError(needle.KindOther, fmt.Errorf("create command encoder: %w", err))
	}
	if err := encoder.BeginEncoding(needle.Label(needle.LabelCommandEncoder, "Frame")); err != nil {
		return nil, needle.NewError(needle.KindOther, fmt.Errorf("begin encoding: %w", err))
	}
	if err := draw(frame, encoder); err != nil {
		encoder.DiscardEncoding()
		return nil, err
	}
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, needle.NewError(needle.KindOther, fmt.Errorf("end encoding: %w", err))
	}
	return cmdBuf, nil
}

func (m *Manager) submit(cmdBuf hal.CommandBuffer) error {
	idx, err := m.queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		return needle.NewError(needle.KindOther, fmt.Errorf("submit: %w", err))
	}
	if m.queue.PollCompleted() >= idx {
		return nil
	}
	if err := m.device.WaitIdle(); err != nil {
		return needle.NewError(needle.KindOther, fmt.Errorf("wait for GPU: %w", err))
	}
	return nil
}

// CreateVertexBuffer uploads vertices into a new vertex buffer.
func (m *Manager) CreateVertexBuffer(name string, vertices []geometry.Vertex) (hal.Buffer, error) {
	return m.createBuffer(needle.Label(needle.LabelVertexBuffer, name), geometry.VertexBytes(vertices), gputypes.BufferUsageVertex)
}

// CreateIndexBuffer uploads indices into a new index buffer.
func (m *Manager) CreateIndexBuffer(name string, indices []uint16) (hal.Buffer, error) {
	return m.createBuffer(needle.Label(needle.LabelIndexBuffer, name), geometry.IndexBytes(indices), gputypes.BufferUsageIndex)
}

func (m *Manager) createBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	if m.closed {
		return nil, ErrClosed
	}
	return UploadBuffer(m.device, m.queue, label, data, usage)
}

// UploadBuffer creates a buffer of len(data) bytes and writes data into it.
func UploadBuffer(device hal.Device, queue hal.Queue, label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("surface: %s: no data", label)
	}
	buf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("surface: create %s: %w", label, err)
	}
	if err := queue.WriteBuffer(buf, 0, data); err != nil {
		device.DestroyBuffer(buf)
		return nil, fmt.Errorf("surface: write %s: %w", label, err)
	}
	return buf, nil
}

// Close unconfigures and destroys the target, then the device and the
// instance unless they are shared. It is safe to call more than once.
func (m *Manager) Close() {
	if m.closed {
		return
	}
	m.closed = true
	m.target.Unconfigure(m.device)
	m.target.Destroy()
	if m.shared {
		m.device = nil
		m.queue = nil
		return
	}
	if m.device != nil {
		m.device.Destroy()
		m.device = nil
	}
	if m.instance != nil {
		m.instance.Destroy()
		m.instance = nil
	}
	m.queue = nil
}
