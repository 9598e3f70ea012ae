// Package needle renders an always-on-screen clock, timer and FPS overlay
// on a GPU surface.
//
// # Overview
//
// The module is organized bottom-up:
//
//   - geometry: vertex and index data for background quads
//   - clock: the clock, count-up and count-down state machine
//   - layout: the 9-anchor text position rule
//   - surface: the device, queue and presentable target owner
//   - render: the layer contract, background and text layers, and the
//     per-frame composition driver
//   - overlay: wires configuration, clock, layers and surface together
//
// The root package holds what every sub-package shares: the error taxonomy
// ([Error] and [Kind]), the logger ([SetLogger], [Logger]) and GPU object
// labels ([Label]).
//
// # Errors
//
// Every failure surfaced by the core carries a [Kind]. Use [KindOf] or
// errors.Is against the sentinel values to branch on it:
//
//	if errors.Is(err, needle.ErrOutdated) {
//	    // reconfigure and retry next tick
//	}
//
// [Kind.Fatal] reports kinds that should terminate the process;
// [Kind.Recoverable] reports kinds that only drop the current frame.
package needle
