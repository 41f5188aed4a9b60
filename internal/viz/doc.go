// Package viz renders a running world in the terminal.
//
//   - [Model]: live Bubble Tea view of one scene
//   - [App]: preset picker that tunes a scene and opens the live view
//   - [Canvas]: braille canvas, 2x4 dots per cell
//   - [Camera]: orbiting perspective camera built on mgl64
//
// # Key Bindings
//
//	Space - Pause/Resume
//	n     - Step one frame while paused
//	r     - Teleport every non-sink body
//	R     - Rebuild the scene from its config
//	x/y   - Rotate the camera (shift reverses)
//	+/-   - Zoom
//	m     - Toggle the momentum graph
//	g     - Toggle GIF recording (ballsim.gif)
//	t     - Cycle color themes
//	?     - Help overlay
package viz
