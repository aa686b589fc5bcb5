// Package viz draws flights in the terminal and as HTML charts.
//
//   - [Live]: Bubble Tea cockpit flying a simulator from the keyboard
//   - [Picker]: preset menu shown before a live session
//   - [Canvas]: Braille pixel canvas behind the attitude indicator
//   - [WriteReport]: go-echarts page of a recorded run
//
// # Key Bindings
//
//	↑/↓    - Elevator (nose down/up)
//	←/→    - Aileron
//	A/D    - Rudder
//	W/S    - Throttle
//	C      - Center stick and rudder
//	Space  - Pause/Resume
//	R      - Restart from the initial state
//	[/]    - Slower/faster than real time
//	T      - Cycle color themes
//	?      - Show help overlay
package viz
