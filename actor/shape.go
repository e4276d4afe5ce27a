package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ShapeInterface is the interface the manipulated shapes implement
type ShapeInterface interface {
	// ComputeMass calculates mass data for the shape given a density
	ComputeMass(density float64) float64
	ComputeInertia(mass float64) mgl64.Mat3
}

// Sphere represents a sphere rotating about its own center.
// A Hollow sphere is a thin shell: all of its mass sits on the surface.
type Sphere struct {
	Radius float64
	Hollow bool
}

// ComputeMass calculates mass data for the sphere
func (s *Sphere) ComputeMass(density float64) float64 {
	if s.Hollow {
		// Area of the shell = 4 * π * r², density is per unit area
		return density * 4.0 * math.Pi * s.Radius * s.Radius
	}

	// Volume of sphere = (4/3) * π * r³
	volume := (4.0 / 3.0) * math.Pi * math.Pow(s.Radius, 3)

	return density * volume
}

// MomentOfInertia returns the scalar moment about any axis through the center.
// Solid: I = (2/5) * m * r², hollow shell: I = (2/3) * m * r².
func (s *Sphere) MomentOfInertia(mass float64) float64 {
	if s.Hollow {
		return (2 * mass * s.Radius * s.Radius) / 3
	}

	return (2.0 / 5.0) * mass * s.Radius * s.Radius
}

func (s *Sphere) ComputeInertia(mass float64) mgl64.Mat3 {
	i := s.MomentOfInertia(mass)

	// A sphere has the same inertia on every axis
	return mgl64.Mat3{
		i, 0, 0,
		0, i, 0,
		0, 0, i,
	}
}
