// Package dynamo provides the numerical primitives shared by every part of
// the flight simulator.
//
//   - [State]: flat state vector advanced by an [Integrator]
//   - [System]: ODE right-hand side (dX/dt = f(X, u, t))
//   - [ForceMoment]: body-frame force and moment about the CG
//   - [ConfigurationError], [NumericalError]: the two fatal error families
//   - [ParallelFor]: chunked fan-out used by the aerodynamic model
//
// # Errors
//
// Loading an aircraft reports every problem at once as
// [ConfigurationErrors]; each entry matches [ErrInvalidConfig]:
//
//	if errors.Is(err, dynamo.ErrInvalidConfig) {
//	    var cerr *dynamo.ConfigurationError
//	    errors.As(err, &cerr) // first problem found
//	}
//
// A [NumericalError] carries the last good state and wraps [ErrNonFinite].
package dynamo
