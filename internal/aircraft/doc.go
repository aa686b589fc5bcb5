// Package aircraft loads aircraft definition files into validated,
// immutable [Definition] values.
//
// Angles in the file (max_deflection, sweep, dihedral, twist) are degrees;
// airfoil coefficients are per radian. Spanwise tables are either a scalar
// or a list of [span_fraction, value] pairs with strictly increasing span
// fractions. Unknown keys are rejected.
package aircraft
