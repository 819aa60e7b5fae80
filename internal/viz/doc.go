// Package viz draws the vehicle in the terminal.
//
//   - [Dashboard]: Bubble Tea program fed one snapshot per loop frame
//   - [TextRenderer]: plain ANSI frames for terminals without alt-screen
//   - [Canvas]: Braille pixel canvas the wheels are drawn on
//
// # Key Bindings
//
//	Q     - Quit (stops the simulation loop)
//	T     - Cycle color themes
//	?     - Show help
package viz
