package actor

import (
	"github.com/akmonengine/spin/rotation"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// animation interpolates the presented orientation toward the target one
type animation struct {
	from     mgl64.Quat
	to       mgl64.Quat
	start    float64
	duration float64
}

// VirtualObject is the sphere the user drags.
// It keeps two orientations: the target one set by the manipulation, and the
// presentation one a renderer shows while an animation toward the target runs.
type VirtualObject struct {
	ID uuid.UUID

	// PreviousTouch is the normalized baseline of the running drag, nil when idle
	PreviousTouch *mgl64.Vec3

	// PhysicsBody is the homegrown inertial model, owned by the object
	PhysicsBody *RotationState

	anim animation
}

func NewVirtualObject(body *RotationState) *VirtualObject {
	return &VirtualObject{
		ID:          uuid.New(),
		PhysicsBody: body,
		anim: animation{
			from: mgl64.QuatIdent(),
			to:   mgl64.QuatIdent(),
		},
	}
}

// Orientation returns the target orientation
func (o *VirtualObject) Orientation() mgl64.Quat {
	return o.anim.to
}

// Presentation returns the orientation shown at time now
func (o *VirtualObject) Presentation(now float64) mgl64.Quat {
	a := o.anim
	if a.duration <= 0 || now >= a.start+a.duration {
		return a.to
	}
	if now <= a.start {
		return a.from
	}

	return slerp(a.from, a.to, (now-a.start)/a.duration)
}

// SetOrientation sets the target orientation. With a positive duration the
// presentation moves toward it from where it is at now.
func (o *VirtualObject) SetOrientation(q mgl64.Quat, now, duration float64) {
	q = q.Normalize()
	if duration <= 0 {
		o.anim = animation{from: q, to: q, start: now}
		return
	}

	o.anim = animation{
		from:     o.Presentation(now),
		to:       q,
		start:    now,
		duration: duration,
	}
}

func (o *VirtualObject) IsTouched() bool {
	return o.PreviousTouch != nil
}

// Touch stores the normalized baseline of a drag
func (o *VirtualObject) Touch(point mgl64.Vec3) bool {
	point = point.Normalize()
	if !rotation.IsValidVec(point) {
		return false
	}
	o.PreviousTouch = &point

	return true
}

// ClearTouch ends the drag and drops the acceleration it produced
func (o *VirtualObject) ClearTouch() {
	o.PreviousTouch = nil
	if o.PhysicsBody != nil {
		o.PhysicsBody.ClearAcceleration()
	}
}

// Rotate turns the target orientation so the point under previous follows
// the finger to current.
func (o *VirtualObject) Rotate(previous, current mgl64.Vec3, now, duration float64) bool {
	delta, ok := rotation.DeltaRotation(previous, current)
	if !ok {
		return false
	}

	o.SetOrientation(rotation.Compose(delta, o.Orientation()), now, duration)

	return true
}

// ApplyTorque feeds a normalized drag to the homegrown physics body
func (o *VirtualObject) ApplyTorque(previous, current mgl64.Vec3) bool {
	if o.PhysicsBody == nil {
		return false
	}

	return o.PhysicsBody.ApplyTorque(previous.Normalize(), current.Normalize())
}

// slerp takes the shortest path between a and b
func slerp(a, b mgl64.Quat, t float64) mgl64.Quat {
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}

	return mgl64.QuatSlerp(a, b, t).Normalize()
}
