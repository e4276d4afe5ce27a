package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type Material struct {
	mass           float64
	AngularDamping float64 // 0.0 - 1.0, typical: 0.05
}

func (material Material) GetMass() float64 {
	return material.mass
}

// RigidBody is the host engine physics body of the sphere anchor.
// It is dynamic, unaffected by gravity and pinned at its position: only its
// rotation is simulated. Torque reaches it as impulses.
type RigidBody struct {
	// Spatial properties
	PreviousTransform Transform
	Transform         Transform

	// Angular motion
	AngularVelocity mgl64.Vec3 // rad/s
	// Inertia
	InertiaLocal        mgl64.Mat3
	InverseInertiaLocal mgl64.Mat3

	// angular impulse waiting for the next Integrate
	accumulatedImpulse mgl64.Vec3

	IsSleeping bool
	SleepTimer float64

	// Physical properties
	Material Material

	Shape ShapeInterface
}

// NewRigidBody creates a new rigid body of the given mass
func NewRigidBody(transform Transform, shape ShapeInterface, mass float64) *RigidBody {
	if transform.Rotation == (mgl64.Quat{}) {
		transform.SetRotation(mgl64.QuatIdent())
	}
	if transform.Scale == 0 {
		transform.Scale = 1
	}

	rb := &RigidBody{
		PreviousTransform: transform,
		Transform:         transform,
		Shape:             shape,
		Material: Material{
			mass:           mass,
			AngularDamping: 0.0,
		},
	}

	rb.InertiaLocal = shape.ComputeInertia(rb.Material.mass)
	rb.InverseInertiaLocal = rb.InertiaLocal.Inv()

	return rb
}

func (rb *RigidBody) TrySleep(dt float64, timethreshold float64, velocityThreshold float64) {
	if rb.AngularVelocity.Len() < velocityThreshold && rb.accumulatedImpulse.Len() == 0 {
		rb.SleepTimer += dt
		if rb.SleepTimer >= timethreshold {
			rb.Sleep()
		}
	} else {
		rb.Awake()
	}
}

func (rb *RigidBody) Sleep() {
	rb.IsSleeping = true
	rb.SleepTimer = 0.0

	rb.ClearForces()
	rb.AngularVelocity = mgl64.Vec3{}
}

func (rb *RigidBody) Awake() {
	rb.IsSleeping = false
	rb.SleepTimer = 0.0
}

func (rb *RigidBody) Integrate(dt float64) {
	if rb.IsSleeping || dt < 0 {
		return
	}

	rb.PreviousTransform.Rotation = rb.Transform.Rotation
	rb.PreviousTransform.InverseRotation = rb.Transform.InverseRotation

	// ========== ANGULAR IMPULSE ==========
	I_inv := rb.GetInverseInertiaWorld()
	rb.AngularVelocity = rb.AngularVelocity.Add(I_inv.Mul3x1(rb.accumulatedImpulse))

	// ========== ANGULAR DAMPING ==========
	rb.AngularVelocity = rb.AngularVelocity.Mul(math.Exp(-rb.Material.AngularDamping * dt))

	// ========== UPDATE QUATERNION ==========
	omegaQuat := mgl64.Quat{V: rb.AngularVelocity, W: 0}
	q_dot := omegaQuat.Mul(rb.Transform.Rotation).Scale(0.5)
	rb.Transform.SetRotation(rb.Transform.Rotation.Add(q_dot.Scale(dt)))

	rb.ClearForces()
}

// ApplyTorqueImpulse queues an angular impulse of the given magnitude about a
// world space unit axis. It is applied on the next Integrate.
func (rb *RigidBody) ApplyTorqueImpulse(axis mgl64.Vec3, magnitude float64) {
	rb.Awake()

	rb.accumulatedImpulse = rb.accumulatedImpulse.Add(axis.Mul(magnitude))
}

func (rb *RigidBody) ClearForces() {
	rb.accumulatedImpulse = mgl64.Vec3{0, 0, 0}
}

// ResetTransform makes the current transform the simulation starting point
// and stops the body.
func (rb *RigidBody) ResetTransform() {
	rb.PreviousTransform = rb.Transform
	rb.ClearForces()
	rb.AngularVelocity = mgl64.Vec3{}
	rb.Awake()
}

// I_world = R * I_local * R^T
func (rb *RigidBody) GetInertiaWorld() mgl64.Mat3 {
	R := rb.Transform.Rotation.Mat4().Mat3()
	return R.Mul3(rb.InertiaLocal).Mul3(R.Transpose())
}

// I_world^(-1) = R * I_local^(-1) * R^T
func (rb *RigidBody) GetInverseInertiaWorld() mgl64.Mat3 {
	R := rb.Transform.Rotation.Mat4().Mat3()
	return R.Mul3(rb.InverseInertiaLocal).Mul3(R.Transpose())
}
