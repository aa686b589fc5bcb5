// Package rigidbody integrates the six-degree-of-freedom equations of
// motion:
//
//	v̇ = F/m - ω×v
//	ω̇ = I⁻¹(M - ω×(Iω + h))
//	ṗ = q v q*
//	q̇ = ½ q ⊗ (0, ω)
//
// Force and moment are held constant across one step. The integration
// scheme is any [dynamo.Integrator]; the attitude quaternion is
// renormalized after every step.
package rigidbody
