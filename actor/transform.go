package actor

import "github.com/go-gl/mathgl/mgl64"

// Transform represents the placement of a node in its parent space
type Transform struct {
	Position        mgl64.Vec3
	Rotation        mgl64.Quat
	InverseRotation mgl64.Quat
	// Scale is uniform, the sphere never deforms
	Scale float64
}

// NewTransform creates an identity transform
func NewTransform() Transform {
	return Transform{
		Position:        mgl64.Vec3{0, 0, 0},
		Rotation:        mgl64.QuatIdent(),
		InverseRotation: mgl64.QuatIdent(),
		Scale:           1,
	}
}

// SetRotation replaces the rotation and keeps InverseRotation in sync
func (t *Transform) SetRotation(q mgl64.Quat) {
	t.Rotation = q.Normalize()
	t.InverseRotation = t.Rotation.Inverse()
}
