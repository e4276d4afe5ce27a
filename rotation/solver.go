// Package rotation converts touch samples on a unit sphere into rotations
// and torques. Every function is pure: callers own the orientation they
// compose the results into.
package rotation

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// degenerateEpsilon is the cross product length under which two directions
// are treated as parallel and no axis can be derived.
const degenerateEpsilon = 1e-12

// DeltaRotation returns the rotation that keeps the touched point under the
// finger while it moves from previous to current.
// Both vectors are normalized before use. It reports false when no axis can
// be derived (coincident or anti-parallel directions), which callers treat as
// a no-op and not as an error.
func DeltaRotation(previous, current mgl64.Vec3) (mgl64.Quat, bool) {
	previous = previous.Normalize()
	current = current.Normalize()

	cross := current.Cross(previous)
	if !IsValidVec(cross) || cross.Len() < degenerateEpsilon {
		return mgl64.Quat{}, false
	}
	axis := cross.Normalize()
	if !IsValidVec(axis) {
		return mgl64.Quat{}, false
	}

	// acos is undefined outside [-1, 1]; float drift can push the dot there
	angle := math.Acos(Clamp(current.Dot(previous), -1, 1))

	// the object turns by the negative of the finger displacement
	q := mgl64.QuatRotate(-angle, axis)
	if !IsValid(q) {
		return mgl64.Quat{}, false
	}

	return q, true
}

// Compose applies delta in parent space: the result is delta * old.
func Compose(delta, old mgl64.Quat) mgl64.Quat {
	return delta.Mul(old)
}

// HostTorque computes the torque handed to a host physics engine for a drag
// from start to end on a body centered at center. The torque axis is a unit
// vector expressed in world space through orientation, magnitude is the
// length of the lever arm cross force.
func HostTorque(start, end, center mgl64.Vec3, orientation mgl64.Quat) (mgl64.Vec3, float64, bool) {
	force := end.Sub(start)
	leverArm := start.Sub(center)
	torque := leverArm.Cross(force)

	magnitude := torque.Len()
	if math.IsNaN(magnitude) || magnitude < degenerateEpsilon {
		return mgl64.Vec3{}, 0, false
	}

	axis := orientation.Rotate(torque.Normalize())
	if !IsValidVec(axis) {
		return mgl64.Vec3{}, 0, false
	}

	return axis, magnitude, true
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// IsValid reports whether every component of q is finite.
func IsValid(q mgl64.Quat) bool {
	l := q.Len()
	return !math.IsNaN(l) && !math.IsInf(l, 0) && IsValidVec(q.V) && isFinite(q.W)
}

// IsValidVec reports whether every component of v is finite.
func IsValidVec(v mgl64.Vec3) bool {
	return isFinite(v[0]) && isFinite(v[1]) && isFinite(v[2])
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
