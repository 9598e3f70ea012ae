// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render composes the overlay's drawable layers into frames.
//
// A Layer is a self-contained drawable: a flat background (Background) or
// a line of text (Text). A Composer drives every layer through the same
// per-frame protocol:
//
//  1. Update on every layer, with the current surface configuration.
//  2. Prepare on every layer in stage order. The first error aborts the
//     frame before an image is acquired.
//  3. One render pass with LoadOpLoad, Render on every layer in the same
//     order. The first error ends the pass and nothing is presented.
//  4. The surface manager submits once and presents once.
//
// Layers never keep the device or the queue; both are passed to each call.
// A layer owns the GPU objects it creates and releases them in Destroy.
package render
