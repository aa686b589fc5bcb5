// Package control maps pilot and autopilot commands onto the aircraft.
//
// A [Source] produces [Inputs] each step:
//
//   - [Constant]: fixed commands for the whole run
//   - [Manual]: commands set concurrently, e.g. from a terminal UI
//   - [PitchHold]: PID autopilot holding a pitch attitude
//
// A [Mixer] turns those inputs into control-surface [Deflections] and
// engine throttle settings using the aircraft's mixing [Table].
//
// # Usage
//
//	table := control.NewTable(def)       // shared, immutable
//	mixer := control.NewMixer(table, lg) // one per simulator
//	defl := mixer.Mix(control.Inputs{1: 0.5})
package control
