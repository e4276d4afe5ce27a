package actor

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

// =============================================================================
// NewRotationState Tests
// =============================================================================

func TestNewRotationState_MomentOfInertia(t *testing.T) {
	rs, err := NewRotationState(0.8, 0.1524)
	if err != nil {
		t.Fatalf("NewRotationState() error = %v", err)
	}

	expected := (2 * 0.8 * math.Pow(0.1524, 2)) / 3
	if !almostEqual(rs.MomentOfInertia(), expected, 1e-15) {
		t.Errorf("MomentOfInertia() = %v, want %v", rs.MomentOfInertia(), expected)
	}
	if rs.Mass() != 0.8 || rs.Radius() != 0.1524 {
		t.Errorf("Mass(), Radius() = %v, %v, want 0.8, 0.1524", rs.Mass(), rs.Radius())
	}
	if rs.AngularVelocity != (mgl64.Vec3{}) || rs.AngularAcceleration != (mgl64.Vec3{}) {
		t.Error("new state should start at rest")
	}
	if _, ok := rs.LastUpdate(); ok {
		t.Error("new state should have no last update")
	}
}

func TestNewRotationState_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mass   float64
		radius float64
	}{
		{name: "zero mass", mass: 0, radius: 1},
		{name: "negative mass", mass: -1, radius: 1},
		{name: "zero radius", mass: 1, radius: 0},
		{name: "NaN mass", mass: math.NaN(), radius: 1},
		{name: "infinite radius", mass: 1, radius: math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs, err := NewRotationState(tt.mass, tt.radius)
			if !errors.Is(err, ErrInvalidBody) {
				t.Errorf("NewRotationState(%v, %v) error = %v, want ErrInvalidBody", tt.mass, tt.radius, err)
			}
			if rs != nil {
				t.Error("NewRotationState should not return a state on error")
			}
		})
	}
}

// =============================================================================
// Torque Tests
// =============================================================================

func TestTorque(t *testing.T) {
	rs := newTestRotationState(t)

	tests := []struct {
		name     string
		previous mgl64.Vec3
		current  mgl64.Vec3
		want     mgl64.Vec3
		wantOK   bool
	}{
		{
			name:     "x to y",
			previous: mgl64.Vec3{1, 0, 0},
			current:  mgl64.Vec3{0, 1, 0},
			want:     mgl64.Vec3{0, 0, 1},
			wantOK:   true,
		},
		{
			name:     "y to z",
			previous: mgl64.Vec3{0, 1, 0},
			current:  mgl64.Vec3{0, 0, 1},
			want:     mgl64.Vec3{1, 0, 0},
			wantOK:   true,
		},
		{
			name:     "no movement",
			previous: mgl64.Vec3{0, 1, 0},
			current:  mgl64.Vec3{0, 1, 0},
		},
		{
			name:     "anti-parallel",
			previous: mgl64.Vec3{0, 0, 1},
			current:  mgl64.Vec3{0, 0, -1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := rs.Torque(tt.previous, tt.current)
			if ok != tt.wantOK {
				t.Fatalf("Torque() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && !vec3AlmostEqual(got, tt.want, 1e-12) {
				t.Errorf("Torque() = %v, want %v", got, tt.want)
			}
		})
	}
}

// =============================================================================
// ApplyTorque Tests
// =============================================================================

func TestApplyTorque_SetsAcceleration(t *testing.T) {
	rs := newTestRotationState(t)

	if !rs.ApplyTorque(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0}) {
		t.Fatal("ApplyTorque() = false, want true")
	}

	expected := mgl64.Vec3{0, 0, 1 / rs.MomentOfInertia()}
	if !vec3AlmostEqual(rs.AngularAcceleration, expected, 1e-9) {
		t.Errorf("AngularAcceleration = %v, want %v", rs.AngularAcceleration, expected)
	}
}

func TestApplyTorque_DegenerateKeepsAcceleration(t *testing.T) {
	rs := newTestRotationState(t)
	rs.ApplyTorque(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0})
	before := rs.AngularAcceleration

	if rs.ApplyTorque(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 1, 0}) {
		t.Error("ApplyTorque() = true for a degenerate drag")
	}
	if rs.AngularAcceleration != before {
		t.Errorf("AngularAcceleration = %v, want unchanged %v", rs.AngularAcceleration, before)
	}
}

// =============================================================================
// Integrate Tests
// =============================================================================

func TestIntegrate_FirstCallRecordsTime(t *testing.T) {
	rs := newTestRotationState(t)
	rs.AngularVelocity = mgl64.Vec3{1, 0, 0}

	if _, ok := rs.Integrate(3.5); ok {
		t.Error("first Integrate() should not produce a rotation")
	}

	last, ok := rs.LastUpdate()
	if !ok || last != 3.5 {
		t.Errorf("LastUpdate() = %v, %v, want 3.5, true", last, ok)
	}
	if rs.AngularVelocity != (mgl64.Vec3{1, 0, 0}) {
		t.Errorf("AngularVelocity = %v, want unchanged on first call", rs.AngularVelocity)
	}
}

func TestIntegrate_ZeroTimeStep(t *testing.T) {
	rs := newTestRotationState(t)
	initial := mgl64.Vec3{1, -2, 3}
	rs.AngularVelocity = initial

	rs.Integrate(10)
	q, ok := rs.Integrate(10)

	if rs.AngularVelocity != initial.Mul(0.98) {
		t.Errorf("AngularVelocity = %v, want %v", rs.AngularVelocity, initial.Mul(0.98))
	}
	if ok && !quatAlmostEqual(q, mgl64.QuatIdent(), 1e-12) {
		t.Errorf("Integrate() with dt = 0 returned %v, want zero angle", q)
	}
}

func TestIntegrate_DecayIsPerStep(t *testing.T) {
	rs := newTestRotationState(t)
	rs.AngularVelocity = mgl64.Vec3{0, 10, 0}

	rs.Integrate(0)
	rs.Integrate(0.5)
	rs.Integrate(10)

	expected := mgl64.Vec3{0, 10, 0}.Mul(0.98).Mul(0.98)
	if !vec3AlmostEqual(rs.AngularVelocity, expected, 1e-12) {
		t.Errorf("AngularVelocity = %v, want %v whatever the step length", rs.AngularVelocity, expected)
	}
}

func TestRotationState_IntegrateAtRest(t *testing.T) {
	rs := newTestRotationState(t)

	rs.Integrate(0)
	if q, ok := rs.Integrate(1.0 / 60.0); ok {
		t.Errorf("Integrate() at rest = %v, want no rotation", q)
	}

	last, _ := rs.LastUpdate()
	if last != 1.0/60.0 {
		t.Errorf("LastUpdate() = %v, want %v even without rotation", last, 1.0/60.0)
	}
}

func TestIntegrate_TorqueScenario(t *testing.T) {
	rs := newTestRotationState(t)

	rs.ApplyTorque(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0})
	if rs.AngularAcceleration.Len() == 0 {
		t.Fatal("AngularAcceleration should be non-zero after ApplyTorque")
	}

	t0 := 100.0
	if _, ok := rs.Integrate(t0); ok {
		t.Error("first Integrate() should not produce a rotation")
	}
	q, ok := rs.Integrate(t0 + 1.0)
	if !ok {
		t.Fatal("Integrate() should produce a rotation")
	}

	if rs.AngularVelocity.Len() == 0 {
		t.Error("AngularVelocity should be non-zero")
	}
	if quatAlmostEqual(q, mgl64.QuatIdent(), 1e-6) {
		t.Error("rotation should not be identity")
	}

	// The spin axis aligns with the torque axis (0, 0, 1)
	axis := rs.AngularVelocity.Normalize()
	if !vec3AlmostEqual(axis, mgl64.Vec3{0, 0, 1}, 1e-9) {
		t.Errorf("spin axis = %v, want (0, 0, 1)", axis)
	}
	if q.V.Cross(mgl64.Vec3{0, 0, 1}).Len() > 1e-9 {
		t.Errorf("rotation %v is not about the torque axis", q)
	}

	expected := mgl64.QuatRotate(rs.AngularVelocity.Len()*1.0, axis)
	if !quatAlmostEqual(q, expected, 1e-9) {
		t.Errorf("rotation = %v, want %v", q, expected)
	}
}

func TestIntegrate_CoastsAfterClear(t *testing.T) {
	rs := newTestRotationState(t)
	rs.ApplyTorque(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0})
	rs.Integrate(0)
	rs.Integrate(0.1)

	rs.ClearAcceleration()
	speed := rs.AngularVelocity.Len()

	if _, ok := rs.Integrate(0.2); !ok {
		t.Fatal("released body should keep coasting")
	}
	if !almostEqual(rs.AngularVelocity.Len(), speed*0.98, 1e-9) {
		t.Errorf("speed = %v, want %v", rs.AngularVelocity.Len(), speed*0.98)
	}
}

func TestIntegrate_RejectsNaN(t *testing.T) {
	rs := newTestRotationState(t)
	rs.AngularVelocity = mgl64.Vec3{1, 0, 0}
	rs.Integrate(0)

	if _, ok := rs.Integrate(math.Inf(1)); ok {
		t.Error("Integrate() to an infinite time should not produce a rotation")
	}
	if rs.AngularVelocity.Len() > 1 || math.IsNaN(rs.AngularVelocity.Len()) {
		t.Errorf("AngularVelocity = %v, want finite", rs.AngularVelocity)
	}
}

// =============================================================================
// Reset Tests
// =============================================================================

func TestStopAndReset(t *testing.T) {
	rs := newTestRotationState(t)
	rs.ApplyTorque(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 1, 0})
	rs.Integrate(0)
	rs.Integrate(1)

	rs.Stop()
	if rs.AngularVelocity != (mgl64.Vec3{}) || rs.AngularAcceleration != (mgl64.Vec3{}) {
		t.Error("Stop() should zero velocity and acceleration")
	}
	if _, ok := rs.LastUpdate(); !ok {
		t.Error("Stop() should keep the last update")
	}

	rs.Reset()
	if _, ok := rs.LastUpdate(); ok {
		t.Error("Reset() should forget the last update")
	}
}

func newTestRotationState(t *testing.T) *RotationState {
	t.Helper()

	rs, err := NewRotationState(0.8, 0.1524)
	if err != nil {
		t.Fatalf("NewRotationState() error = %v", err)
	}
	return rs
}
