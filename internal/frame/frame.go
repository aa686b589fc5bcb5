// Package frame converts between the body frame and the inertial NED frame.
//
// Attitude is a unit quaternion q rotating body vectors into the inertial
// frame: v_i = q v_b q*. Euler angles follow the 3-2-1 (yaw, pitch, roll)
// sequence.
package frame

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Identity is the level, north-facing attitude.
var Identity = quat.Number{Real: 1}

// Euler holds 3-2-1 angles in radians.
type Euler struct {
	Roll  float64
	Pitch float64
	Yaw   float64
}

// FromEuler builds the body-to-inertial quaternion for the given angles.
func FromEuler(e Euler) quat.Number {
	cr, sr := math.Cos(e.Roll/2), math.Sin(e.Roll/2)
	cp, sp := math.Cos(e.Pitch/2), math.Sin(e.Pitch/2)
	cy, sy := math.Cos(e.Yaw/2), math.Sin(e.Yaw/2)

	return quat.Number{
		Real: cr*cp*cy + sr*sp*sy,
		Imag: sr*cp*cy - cr*sp*sy,
		Jmag: cr*sp*cy + sr*cp*sy,
		Kmag: cr*cp*sy - sr*sp*cy,
	}
}

// ToEuler recovers 3-2-1 angles. Pitch is clamped at ±90° so a slightly
// denormalized quaternion cannot produce NaN.
func ToEuler(q quat.Number) Euler {
	e0, ex, ey, ez := q.Real, q.Imag, q.Jmag, q.Kmag

	sp := 2 * (e0*ey - ex*ez)
	if sp > 1 {
		sp = 1
	} else if sp < -1 {
		sp = -1
	}

	return Euler{
		Roll:  math.Atan2(2*(e0*ex+ey*ez), e0*e0+ez*ez-ex*ex-ey*ey),
		Pitch: math.Asin(sp),
		Yaw:   math.Atan2(2*(e0*ez+ex*ey), e0*e0+ex*ex-ey*ey-ez*ez),
	}
}

// Normalize returns q scaled to unit norm. A zero quaternion maps to
// Identity.
func Normalize(q quat.Number) quat.Number {
	n := quat.Abs(q)
	if n == 0 {
		return Identity
	}
	return quat.Scale(1/n, q)
}

// BodyToInertial rotates v from the body frame into the inertial frame.
func BodyToInertial(q quat.Number, v r3.Vec) r3.Vec {
	p := quat.Mul(quat.Mul(q, quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}), quat.Conj(q))
	return r3.Vec{X: p.Imag, Y: p.Jmag, Z: p.Kmag}
}

// InertialToBody rotates v from the inertial frame into the body frame.
func InertialToBody(q quat.Number, v r3.Vec) r3.Vec {
	return BodyToInertial(quat.Conj(q), v)
}

// Rate is the quaternion derivative for body rates w: 0.5 q ⊗ (0, w).
func Rate(q quat.Number, w r3.Vec) quat.Number {
	return quat.Scale(0.5, quat.Mul(q, quat.Number{Imag: w.X, Jmag: w.Y, Kmag: w.Z}))
}

func Deg(rad float64) float64 { return rad * 180 / math.Pi }

func Rad(deg float64) float64 { return deg * math.Pi / 180 }
