// Package viz provides the interactive terminal viewer.
//
// Frames are drawn with half-block characters, two pixels per cell, and
// fill the largest square that fits the terminal above a two-line status
// bar. Rendering happens in the background through [engine.Engine.RenderAsync];
// the UI stays responsive while a frame is computed.
//
// # Key Bindings
//
//	Space  - Home view
//	Enter  - Step out (each bound 5% toward zero, zoom / 1.1)
//	+/-    - Zoom about the centre
//	Arrows - Pan by 10%
//	Click  - Zoom in at the pointer, right click zooms out
//	a/A    - Cycle palettes
//	s      - Toggle smoothing
//	b      - Toggle the Burning Ship variant
//	p      - Preset picker
//	t      - Cycle themes
//	w      - Save the current frame as PNG
//	?      - Show help overlay
package viz
