// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package surface owns the GPU device, the queue and the presentable target
// the overlay draws into.
//
// A Manager is created once, either by opening a native window surface
// (Open) or by borrowing a device from a window host (NewShared,
// FromProvider), and is mutated only by Resize and Reconfigure.
//
// Each frame goes through RenderFrame:
//
//	err := m.RenderFrame(func(f *surface.Frame, enc hal.CommandEncoder) error {
//	    pass := enc.BeginRenderPass(...)
//	    defer pass.End()
//	    ...
//	})
//
// RenderFrame acquires one image, submits exactly one command buffer and
// presents exactly one image. Acquisition failures are *needle.Error values
// with Kind Timeout, Outdated, Lost, OutOfMemory or Other.
package surface
