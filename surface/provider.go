// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/needle"
)

// halProvider is implemented by providers that expose their hal objects
// directly.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// halDevice is implemented by the device a provider returns when it wraps
// a hal device, such as *wgpu.Device from the gogpu App's provider.
type halDevice interface {
	HalDevice() hal.Device
	HalQueue() hal.Queue
}

// FromProvider creates a shared manager on the device of a window host.
// The provider's surface format overrides the target's preference unless
// it is TextureFormatUndefined.
func FromProvider(provider gpucontext.DeviceProvider, target Target, size Size) (*Manager, error) {
	if provider == nil {
		return nil, needle.Errorf(needle.KindDeviceRequestFailed, "provider is nil")
	}
	device, queue, err := halObjects(provider)
	if err != nil {
		return nil, err
	}
	info := provider.AdapterInfo()
	needle.Logger().Info("surface: using host device", "adapter", info.Name, "type", info.Type)
	return NewShared(device, queue, target, size, provider.SurfaceFormat())
}

func halObjects(provider gpucontext.DeviceProvider) (hal.Device, hal.Queue, error) {
	if hp, ok := provider.(halProvider); ok {
		device, ok := hp.HalDevice().(hal.Device)
		if !ok || device == nil {
			return nil, nil, needle.Errorf(needle.KindDeviceRequestFailed, "provider HalDevice is not hal.Device")
		}
		queue, ok := hp.HalQueue().(hal.Queue)
		if !ok || queue == nil {
			return nil, nil, needle.Errorf(needle.KindDeviceRequestFailed, "provider HalQueue is not hal.Queue")
		}
		return device, queue, nil
	}

	hd, ok := provider.Device().(halDevice)
	if !ok {
		return nil, nil, needle.Errorf(needle.KindDeviceRequestFailed, "provider does not expose HAL types")
	}
	device, queue := hd.HalDevice(), hd.HalQueue()
	if device == nil || queue == nil {
		return nil, nil, needle.Errorf(needle.KindDeviceRequestFailed, "provider device is released")
	}
	return device, queue, nil
}
