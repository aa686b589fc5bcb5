// Package analysis post-processes recorded flights.
//
//   - [Spectrum]: power spectrum of a sampled trace
//   - [DominantPeriod]: period of the strongest oscillation, used to read
//     the phugoid and short-period modes off a recorded run
//   - [NewPhasePortrait]: two state fields plotted against each other
//
// A disturbed trim shows its phugoid in airspeed and altitude:
//
//	alt := make([]float64, len(states))
//	for i, s := range states {
//	    alt[i] = s.Altitude()
//	}
//	period := analysis.DominantPeriod(alt, dt)
package analysis
