package actor

import (
	"errors"
	"fmt"

	"github.com/akmonengine/spin/rotation"
	"github.com/go-gl/mathgl/mgl64"
)

// AngularVelocityDecay is applied to the angular velocity once per
// Integrate call, whatever the time step.
const AngularVelocityDecay = 0.98

var ErrInvalidBody = errors.New("mass and radius must be positive")

// RotationState is the homegrown inertial model of a hollow sphere spinning
// about its center. It is not safe for concurrent use: the owner serializes
// every call.
type RotationState struct {
	AngularVelocity     mgl64.Vec3 // rad/s
	AngularAcceleration mgl64.Vec3 // rad/s²

	mass            float64
	radius          float64
	momentOfInertia float64

	lastUpdate    float64
	hasLastUpdate bool
}

// NewRotationState creates the state of a hollow sphere shell of the given
// mass (kg) and radius (m).
func NewRotationState(mass, radius float64) (*RotationState, error) {
	if !(mass > 0) || !(radius > 0) || !rotation.IsValidVec(mgl64.Vec3{mass, radius, 0}) {
		return nil, fmt.Errorf("%w: mass=%v radius=%v", ErrInvalidBody, mass, radius)
	}

	shell := &Sphere{Radius: radius, Hollow: true}

	return &RotationState{
		mass:            mass,
		radius:          radius,
		momentOfInertia: shell.MomentOfInertia(mass),
	}, nil
}

func (rs *RotationState) Mass() float64 {
	return rs.mass
}

func (rs *RotationState) Radius() float64 {
	return rs.radius
}

func (rs *RotationState) MomentOfInertia() float64 {
	return rs.momentOfInertia
}

// LastUpdate returns the timestamp of the last Integrate call, if any
func (rs *RotationState) LastUpdate() (float64, bool) {
	return rs.lastUpdate, rs.hasLastUpdate
}

// Torque models a push from previous to current on the surface: the lever
// arm is previous and the force is the displacement.
func (rs *RotationState) Torque(previous, current mgl64.Vec3) (mgl64.Vec3, bool) {
	force := current.Sub(previous)
	torque := previous.Cross(force)
	if !rotation.IsValidVec(torque.Normalize()) {
		return mgl64.Vec3{}, false
	}

	return torque, true
}

// ApplyTorque sets the angular acceleration from the torque of a drag.
// A degenerate drag keeps the previous acceleration.
func (rs *RotationState) ApplyTorque(previous, current mgl64.Vec3) bool {
	torque, ok := rs.Torque(previous, current)
	if !ok {
		return false
	}

	acceleration := torque.Mul(1.0 / rs.momentOfInertia)
	if !rotation.IsValidVec(acceleration) {
		return false
	}
	rs.AngularAcceleration = acceleration

	return true
}

// Integrate advances the angular velocity to now and returns the rotation
// covered since the previous call. The first call only records now.
// The caller composes the result as result * orientation.
func (rs *RotationState) Integrate(now float64) (mgl64.Quat, bool) {
	var q mgl64.Quat
	ok := false

	if rs.hasLastUpdate {
		dt := now - rs.lastUpdate

		omega := rs.AngularVelocity.Mul(AngularVelocityDecay)
		if rs.AngularAcceleration.Len() != 0 {
			omega = omega.Add(rs.AngularAcceleration.Mul(dt))
		}

		if rotation.IsValidVec(omega) {
			rs.AngularVelocity = omega

			if speed := omega.Len(); speed != 0 {
				q = mgl64.QuatRotate(speed*dt, omega.Normalize())
				ok = rotation.IsValid(q)
			}
		}
	}

	rs.lastUpdate = now
	rs.hasLastUpdate = true

	return q, ok
}

// ClearAcceleration drops the acceleration of the last drag, the velocity
// keeps coasting.
func (rs *RotationState) ClearAcceleration() {
	rs.AngularAcceleration = mgl64.Vec3{}
}

// Stop zeroes both the acceleration and the velocity
func (rs *RotationState) Stop() {
	rs.AngularAcceleration = mgl64.Vec3{}
	rs.AngularVelocity = mgl64.Vec3{}
}

// Reset stops the body and forgets the last timestamp, so the next Integrate
// starts a new time base.
func (rs *RotationState) Reset() {
	rs.Stop()
	rs.lastUpdate = 0
	rs.hasLastUpdate = false
}
