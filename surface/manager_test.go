// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"errors"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/needle"
	"github.com/gogpu/needle/geometry"
)

// createNoopDevice creates a noop device and queue for testing.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

// fakeTarget records configuration calls and fails on demand.
type fakeTarget struct {
	caps         Capabilities
	configures   int
	unconfigures int
	configErr    error
	failNext     int // Configure calls that fail before configErr applies
	acquireErr   error
	presentErr   error
	presented    int
	discarded    int
	destroyed    bool
	last         Configuration
}

func newFakeTarget() *fakeTarget {
	return &fakeTarget{caps: Capabilities{
		Formats:      []gputypes.TextureFormat{gputypes.TextureFormatBGRA8Unorm},
		PresentModes: []PresentMode{PresentModeMailbox, PresentModeFifo},
	}}
}

func (f *fakeTarget) Capabilities() Capabilities { return f.caps }

func (f *fakeTarget) Configure(_ hal.Device, cfg Configuration) error {
	if f.failNext > 0 {
		f.failNext--
		return errors.New("configure rejected")
	}
	if f.configErr != nil {
		return f.configErr
	}
	f.configures++
	f.last = cfg
	return nil
}

func (f *fakeTarget) Unconfigure(hal.Device) { f.unconfigures++ }

func (f *fakeTarget) Acquire(hal.Device) (*Frame, error) {
	if f.acquireErr != nil {
		return nil, f.acquireErr
	}
	return &Frame{Size: f.last.Size()}, nil
}

func (f *fakeTarget) Present(hal.Queue, *Frame) error {
	if f.presentErr != nil {
		return f.presentErr
	}
	f.presented++
	return nil
}

func (f *fakeTarget) Discard(hal.Device, *Frame) { f.discarded++ }
func (f *fakeTarget) Destroy()                   { f.destroyed = true }

func TestCapabilitiesPreferredFormat(t *testing.T) {
	tests := []struct {
		name    string
		formats []gputypes.TextureFormat
		want    gputypes.TextureFormat
	}{
		{"empty", nil, gputypes.TextureFormatUndefined},
		{"first", []gputypes.TextureFormat{gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatBGRA8Unorm}, gputypes.TextureFormatRGBA8Unorm},
		{"srgb", []gputypes.TextureFormat{gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatBGRA8UnormSrgb}, gputypes.TextureFormatBGRA8UnormSrgb},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Capabilities{Formats: tt.formats}.PreferredFormat()
			if got != tt.want {
				t.Errorf("PreferredFormat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCapabilitiesConfiguration(t *testing.T) {
	caps := newFakeTarget().caps
	cfg := caps.Configuration(Size{Width: 0, Height: 300})
	if cfg.Width != 1 || cfg.Height != 300 {
		t.Errorf("size = %dx%d, want 1x300", cfg.Width, cfg.Height)
	}
	if cfg.PresentMode != PresentModeMailbox {
		t.Errorf("PresentMode = %v, want first reported (Mailbox)", cfg.PresentMode)
	}
	if cfg.FrameLatency != DefaultFrameLatency {
		t.Errorf("FrameLatency = %d, want %d", cfg.FrameLatency, DefaultFrameLatency)
	}

	if mode := (Capabilities{}).Configuration(Size{Width: 1, Height: 1}).PresentMode; mode != PresentModeFifo {
		t.Errorf("PresentMode without modes = %v, want Fifo", mode)
	}
}

func TestNewSharedErrors(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	size := Size{Width: 800, Height: 600}

	_, err := NewShared(nil, queue, newFakeTarget(), size, gputypes.TextureFormatUndefined)
	if !errors.Is(err, needle.ErrDeviceRequestFailed) {
		t.Errorf("nil device: err = %v, want DeviceRequestFailed", err)
	}

	_, err = NewShared(device, queue, nil, size, gputypes.TextureFormatUndefined)
	if !errors.Is(err, needle.ErrSurfaceCreationFailed) {
		t.Errorf("nil target: err = %v, want SurfaceCreationFailed", err)
	}

	noFormats := newFakeTarget()
	noFormats.caps.Formats = nil
	_, err = NewShared(device, queue, noFormats, size, gputypes.TextureFormatUndefined)
	if !errors.Is(err, needle.ErrSurfaceCreationFailed) {
		t.Errorf("no formats: err = %v, want SurfaceCreationFailed", err)
	}

	failing := newFakeTarget()
	failing.configErr = errors.New("boom")
	_, err = NewShared(device, queue, failing, size, gputypes.TextureFormatUndefined)
	if !errors.Is(err, needle.ErrSurfaceCreationFailed) {
		t.Errorf("configure failure: err = %v, want SurfaceCreationFailed", err)
	}
	if !needle.IsFatal(err) {
		t.Error("startup failures must be fatal")
	}
}

func TestNewSharedFormatOverride(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	m, err := NewShared(device, queue, newFakeTarget(), Size{Width: 10, Height: 10}, gputypes.TextureFormatRGBA8Unorm)
	if err != nil {
		t.Fatalf("NewShared: %v", err)
	}
	defer m.Close()
	if got := m.Config().Format; got != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("Format = %v, want RGBA8Unorm", got)
	}
}

func TestResizeIdempotent(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	target := newFakeTarget()
	m, err := NewShared(device, queue, target, Size{Width: 800, Height: 600}, gputypes.TextureFormatUndefined)
	if err != nil {
		t.Fatalf("NewShared: %v", err)
	}
	defer m.Close()
	if target.configures != 1 {
		t.Fatalf("configures after creation = %d, want 1", target.configures)
	}

	for _, size := range []Size{{800, 600}, {0, 600}, {800, 0}, {0, 0}} {
		if err := m.Resize(size); err != nil {
			t.Fatalf("Resize(%v): %v", size, err)
		}
	}
	if target.configures != 1 {
		t.Errorf("configures after no-op resizes = %d, want 1", target.configures)
	}
	if m.Size() != (Size{Width: 800, Height: 600}) {
		t.Errorf("Size() = %v, want 800x600", m.Size())
	}

	if err := m.Resize(Size{Width: 1024, Height: 768}); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if err := m.Resize(Size{Width: 1024, Height: 768}); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if target.configures != 2 {
		t.Errorf("configures = %d, want 2", target.configures)
	}
	if target.last.Width != 1024 || target.last.Height != 768 {
		t.Errorf("target configured with %dx%d, want 1024x768", target.last.Width, target.last.Height)
	}
	if m.Reconfigures() != 1 {
		t.Errorf("Reconfigures() = %d, want 1", m.Reconfigures())
	}
}

func TestResizeError(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	target := newFakeTarget()
	m, err := NewShared(device, queue, target, Size{Width: 8, Height: 8}, gputypes.TextureFormatUndefined)
	if err != nil {
		t.Fatalf("NewShared: %v", err)
	}
	defer m.Close()
	valid := m.Config()

	target.failNext = 1
	err = m.Resize(Size{Width: 16, Height: 16})
	if !errors.Is(err, needle.ErrOther) {
		t.Fatalf("Resize err = %v, want Other", err)
	}
	if m.Config() != valid {
		t.Errorf("Config() = %v after failed resize, want last valid %v", m.Config().Size(), valid.Size())
	}
	if target.last.Size() != valid.Size() {
		t.Errorf("target configured with %v, want the restored %v", target.last.Size(), valid.Size())
	}
	if m.Reconfigures() != 0 {
		t.Errorf("Reconfigures() = %d, want 0", m.Reconfigures())
	}

	if err := m.Resize(Size{Width: 16, Height: 16}); err != nil {
		t.Fatalf("retry Resize: %v", err)
	}
	if m.Size() != (Size{Width: 16, Height: 16}) || target.last.Size() != m.Size() {
		t.Errorf("after retry: manager %v, target %v, want 16x16", m.Size(), target.last.Size())
	}
	if m.Reconfigures() != 1 {
		t.Errorf("Reconfigures() = %d, want 1", m.Reconfigures())
	}
}

func TestResizeErrorWithoutRestore(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	target := newFakeTarget()
	m, err := NewShared(device, queue, target, Size{Width: 8, Height: 8}, gputypes.TextureFormatUndefined)
	if err != nil {
		t.Fatalf("NewShared: %v", err)
	}
	defer m.Close()

	target.configErr = errors.New("device lost")
	if err := m.Resize(Size{Width: 16, Height: 16}); err == nil {
		t.Fatal("expected Resize to report the configure failure")
	}
	if m.Size() != (Size{Width: 8, Height: 8}) {
		t.Errorf("Size() = %v, want 8x8", m.Size())
	}

	// The target holds no configuration, so the unchanged size is applied again.
	target.configErr = nil
	configures := target.configures
	if err := m.Resize(Size{Width: 8, Height: 8}); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if target.configures != configures+1 {
		t.Errorf("configures = %d, want %d", target.configures, configures+1)
	}
	if err := m.Resize(Size{Width: 8, Height: 8}); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if target.configures != configures+1 {
		t.Error("unchanged size reconfigured a valid target")
	}
}

func TestReconfigureErrorKind(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	target := newFakeTarget()
	m, err := NewShared(device, queue, target, Size{Width: 8, Height: 8}, gputypes.TextureFormatUndefined)
	if err != nil {
		t.Fatalf("NewShared: %v", err)
	}
	defer m.Close()

	target.configErr = errors.New("rejected")
	if err := m.Reconfigure(); !errors.Is(err, needle.ErrOther) {
		t.Errorf("plain cause: err = %v, want Other", err)
	}
	target.configErr = needle.Errorf(needle.KindLost, "surface gone")
	if err := m.Reconfigure(); !errors.Is(err, needle.ErrLost) {
		t.Errorf("classified cause: err = %v, want Lost", err)
	}
}

func newOffscreenManager(t *testing.T) (*Manager, *OffscreenTarget, func()) {
	t.Helper()
	device, queue, cleanup := createNoopDevice(t)
	target := NewOffscreenTarget(gputypes.TextureFormatBGRA8Unorm)
	m, err := NewShared(device, queue, target, Size{Width: 64, Height: 32}, gputypes.TextureFormatUndefined)
	if err != nil {
		cleanup()
		t.Fatalf("NewShared: %v", err)
	}
	return m, target, func() {
		m.Close()
		cleanup()
	}
}

func clearPass(f *Frame, enc hal.CommandEncoder) error {
	rp := enc.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "test_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       f.View,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: gputypes.Color{R: 0, G: 0, B: 0, A: 1},
		}},
	})
	rp.End()
	return nil
}

func TestRenderFrame(t *testing.T) {
	m, target, cleanup := newOffscreenManager(t)
	defer cleanup()

	calls := 0
	err := m.RenderFrame(func(f *Frame, enc hal.CommandEncoder) error {
		calls++
		if f.Size != (Size{Width: 64, Height: 32}) {
			t.Errorf("frame size = %v, want 64x32", f.Size)
		}
		return clearPass(f, enc)
	})
	if err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}
	if calls != 1 {
		t.Errorf("draw called %d times, want 1", calls)
	}
	if target.Presented() != 1 || m.Frames() != 1 {
		t.Errorf("presented = %d, frames = %d, want 1 and 1", target.Presented(), m.Frames())
	}

	for i := 0; i < 3; i++ {
		if err := m.RenderFrame(clearPass); err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
	}
	if target.Presented() != 4 {
		t.Errorf("presented = %d, want 4", target.Presented())
	}
	if done := m.Queue().PollCompleted(); done != 4 {
		t.Errorf("completed submissions = %d, want one per frame (4)", done)
	}
}

func TestRenderFrameDrawError(t *testing.T) {
	m, target, cleanup := newOffscreenManager(t)
	defer cleanup()

	want := needle.Errorf(needle.KindRemovedFromAtlas, "glyph 7")
	err := m.RenderFrame(func(*Frame, hal.CommandEncoder) error { return want })
	if !errors.Is(err, needle.ErrRemovedFromAtlas) {
		t.Fatalf("err = %v, want RemovedFromAtlas", err)
	}
	if target.Presented() != 0 || target.Discarded() != 1 {
		t.Errorf("presented = %d, discarded = %d, want 0 and 1", target.Presented(), target.Discarded())
	}
	if m.Frames() != 0 {
		t.Errorf("Frames() = %d, want 0", m.Frames())
	}

	// The discarded image is available again.
	if err := m.RenderFrame(clearPass); err != nil {
		t.Fatalf("RenderFrame after discard: %v", err)
	}
}

func TestRenderFrameAcquireError(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	tests := []struct {
		err  error
		want error
	}{
		{needle.Errorf(needle.KindOutdated, "resized"), needle.ErrOutdated},
		{needle.Errorf(needle.KindLost, "lost"), needle.ErrLost},
		{needle.Errorf(needle.KindTimeout, "slow"), needle.ErrTimeout},
		{needle.Errorf(needle.KindOutOfMemory, "oom"), needle.ErrOutOfMemory},
	}
	for _, tt := range tests {
		target := newFakeTarget()
		m, err := NewShared(device, queue, target, Size{Width: 4, Height: 4}, gputypes.TextureFormatUndefined)
		if err != nil {
			t.Fatalf("NewShared: %v", err)
		}
		target.acquireErr = tt.err

		called := false
		err = m.RenderFrame(func(*Frame, hal.CommandEncoder) error {
			called = true
			return nil
		})
		if !errors.Is(err, tt.want) {
			t.Errorf("err = %v, want %v", err, tt.want)
		}
		if called {
			t.Error("draw must not run when acquisition fails")
		}
		if target.presented != 0 {
			t.Error("nothing may be presented when acquisition fails")
		}
		m.Close()
	}
}

func TestReconfigure(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	target := newFakeTarget()
	m, err := NewShared(device, queue, target, Size{Width: 20, Height: 10}, gputypes.TextureFormatUndefined)
	if err != nil {
		t.Fatalf("NewShared: %v", err)
	}
	defer m.Close()

	if err := m.Reconfigure(); err != nil {
		t.Fatalf("Reconfigure: %v", err)
	}
	if target.configures != 2 || target.unconfigures != 1 {
		t.Errorf("configures = %d, unconfigures = %d, want 2 and 1", target.configures, target.unconfigures)
	}
	if target.last != m.Config() {
		t.Errorf("reconfigured with %+v, want %+v", target.last, m.Config())
	}
}

func TestCreateBuffers(t *testing.T) {
	m, _, cleanup := newOffscreenManager(t)
	defer cleanup()

	verts, indices := geometry.IndexedRectangle([2]float32{1, 1}, [2]float32{0, 0}, 0, [4]float32{1, 0, 0, 1})
	vb, err := m.CreateVertexBuffer("Background", verts)
	if err != nil {
		t.Fatalf("CreateVertexBuffer: %v", err)
	}
	defer m.Device().DestroyBuffer(vb)

	ib, err := m.CreateIndexBuffer("Background", indices)
	if err != nil {
		t.Fatalf("CreateIndexBuffer: %v", err)
	}
	defer m.Device().DestroyBuffer(ib)

	if _, err := m.CreateVertexBuffer("Empty", nil); err == nil {
		t.Error("expected an error for an empty vertex buffer")
	}
}

func TestClose(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	target := newFakeTarget()
	m, err := NewShared(device, queue, target, Size{Width: 4, Height: 4}, gputypes.TextureFormatUndefined)
	if err != nil {
		t.Fatalf("NewShared: %v", err)
	}
	m.Close()
	m.Close()

	if !target.destroyed {
		t.Error("target not destroyed")
	}
	if m.Device() != nil {
		t.Error("shared device reference kept after Close")
	}
	if err := m.Resize(Size{Width: 8, Height: 8}); !errors.Is(err, ErrClosed) {
		t.Errorf("Resize after Close: err = %v, want ErrClosed", err)
	}
	if err := m.RenderFrame(clearPass); !errors.Is(err, ErrClosed) {
		t.Errorf("RenderFrame after Close: err = %v, want ErrClosed", err)
	}
}

func TestOffscreenTarget(t *testing.T) {
	device, _, cleanup := createNoopDevice(t)
	defer cleanup()

	target := NewOffscreenTarget(gputypes.TextureFormatRGBA8Unorm)
	if _, err := target.Acquire(device); !errors.Is(err, needle.ErrOutdated) {
		t.Errorf("Acquire before Configure: err = %v, want Outdated", err)
	}

	cfg := target.Capabilities().Configuration(Size{Width: 16, Height: 16})
	if err := target.Configure(device, cfg); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	defer target.Destroy()
	if target.Texture() == nil {
		t.Fatal("Texture() is nil after Configure")
	}

	f, err := target.Acquire(device)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if _, err := target.Acquire(device); !errors.Is(err, needle.ErrTimeout) {
		t.Errorf("second Acquire: err = %v, want Timeout", err)
	}
	if err := target.Present(nil, f); err != nil {
		t.Fatalf("Present: %v", err)
	}
	if _, err := target.Acquire(device); err != nil {
		t.Errorf("Acquire after Present: %v", err)
	}
}

func TestHostTarget(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	offscreen := NewOffscreenTarget(gputypes.TextureFormatBGRA8Unorm)
	if err := offscreen.Configure(device, offscreen.Capabilities().Configuration(Size{Width: 32, Height: 32})); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	defer offscreen.Destroy()
	hostView, _ := offscreen.Acquire(device)

	var view any
	w, h := uint32(32), uint32(32)
	target := NewHostTarget(gputypes.TextureFormatBGRA8Unorm, func() (any, uint32, uint32) {
		return view, w, h
	})
	m, err := NewShared(device, queue, target, Size{Width: 32, Height: 32}, gputypes.TextureFormatUndefined)
	if err != nil {
		t.Fatalf("NewShared: %v", err)
	}
	defer m.Close()

	if err := m.RenderFrame(clearPass); !errors.Is(err, needle.ErrTimeout) {
		t.Errorf("no view: err = %v, want Timeout", err)
	}

	view = hostView.View
	if err := m.RenderFrame(clearPass); err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}

	w = 64
	if err := m.RenderFrame(clearPass); !errors.Is(err, needle.ErrOutdated) {
		t.Errorf("resized host: err = %v, want Outdated", err)
	}
}

// mockProvider implements gpucontext.DeviceProvider and, optionally, the
// hal accessors.
type mockProvider struct {
	format gputypes.TextureFormat
}

type mockDevice struct{}

func (mockDevice) Poll(bool) {}
func (mockDevice) Destroy()  {}

type mockQueue struct{}
type mockAdapter struct{}

func (p *mockProvider) Device() gpucontext.Device             { return mockDevice{} }
func (p *mockProvider) Queue() gpucontext.Queue               { return mockQueue{} }
func (p *mockProvider) Adapter() gpucontext.Adapter           { return mockAdapter{} }
func (p *mockProvider) SurfaceFormat() gputypes.TextureFormat { return p.format }
func (p *mockProvider) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: "mock", Type: gpucontext.AdapterTypeUnknown}
}

type mockHalProvider struct {
	mockProvider
	device hal.Device
	queue  hal.Queue
}

func (p *mockHalProvider) HalDevice() any { return p.device }
func (p *mockHalProvider) HalQueue() any  { return p.queue }

// wrappedDevice stands in for *wgpu.Device.
type wrappedDevice struct {
	device hal.Device
	queue  hal.Queue
}

func (d *wrappedDevice) HalDevice() hal.Device { return d.device }
func (d *wrappedDevice) HalQueue() hal.Queue   { return d.queue }

type wrappingProvider struct {
	mockProvider
	dev *wrappedDevice
}

func (p *wrappingProvider) Device() gpucontext.Device { return p.dev }

func TestFromProvider(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	size := Size{Width: 100, Height: 50}

	_, err := FromProvider(&mockProvider{format: gputypes.TextureFormatBGRA8Unorm}, newFakeTarget(), size)
	if !errors.Is(err, needle.ErrDeviceRequestFailed) {
		t.Errorf("provider without hal: err = %v, want DeviceRequestFailed", err)
	}

	_, err = FromProvider(&mockHalProvider{}, newFakeTarget(), size)
	if !errors.Is(err, needle.ErrDeviceRequestFailed) {
		t.Errorf("provider with nil hal device: err = %v, want DeviceRequestFailed", err)
	}

	p := &mockHalProvider{
		mockProvider: mockProvider{format: gputypes.TextureFormatRGBA8Unorm},
		device:       device,
		queue:        queue,
	}
	m, err := FromProvider(p, newFakeTarget(), size)
	if err != nil {
		t.Fatalf("FromProvider: %v", err)
	}
	defer m.Close()
	if m.Device() != device {
		t.Error("manager does not use the provider's device")
	}
	if m.Config().Format != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("Format = %v, want the provider's RGBA8Unorm", m.Config().Format)
	}
}

func TestFromProviderWrappedDevice(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	size := Size{Width: 100, Height: 50}
	_, err := FromProvider(&wrappingProvider{dev: &wrappedDevice{}}, newFakeTarget(), size)
	if !errors.Is(err, needle.ErrDeviceRequestFailed) {
		t.Errorf("released device: err = %v, want DeviceRequestFailed", err)
	}

	p := &wrappingProvider{dev: &wrappedDevice{device: device, queue: queue}}
	m, err := FromProvider(p, newFakeTarget(), size)
	if err != nil {
		t.Fatalf("FromProvider: %v", err)
	}
	defer m.Close()
	if m.Device() != device || m.Queue() != queue {
		t.Error("manager does not use the wrapped device and queue")
	}
}

type fakeWrappedView struct{ view hal.TextureView }

func (v fakeWrappedView) HalTextureView() hal.TextureView { return v.view }

func TestHalView(t *testing.T) {
	device, _, cleanup := createNoopDevice(t)
	defer cleanup()

	offscreen := NewOffscreenTarget(gputypes.TextureFormatBGRA8Unorm)
	if err := offscreen.Configure(device, Configuration{Width: 4, Height: 4, Format: gputypes.TextureFormatBGRA8Unorm}); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	defer offscreen.Destroy()
	f, err := offscreen.Acquire(device)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	if got := halView(f.View); got != f.View {
		t.Error("hal view not returned as is")
	}
	if got := halView(fakeWrappedView{view: f.View}); got != f.View {
		t.Error("wrapped view not unwrapped")
	}
	if got := halView(fakeWrappedView{}); got != nil {
		t.Errorf("released wrapped view = %v, want nil", got)
	}
	if got := halView(nil); got != nil {
		t.Errorf("nil view = %v, want nil", got)
	}
	if got := halView("not a view"); got != nil {
		t.Errorf("foreign value = %v, want nil", got)
	}
}
