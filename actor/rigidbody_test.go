package actor

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func newBody(mass float64) *RigidBody {
	return NewRigidBody(NewTransform(mgl64.Vec3{0, 10, 0}, mgl64.QuatIdent()), &Sphere{Radius: 1}, mass)
}

// =============================================================================
// NewRigidBody Tests
// =============================================================================

func TestNewRigidBody_BodyType(t *testing.T) {
	tests := []struct {
		name  string
		shape ShapeInterface
		mass  float64
		want  BodyType
	}{
		{"dynamic sphere", &Sphere{Radius: 1}, 1, BodyTypeDynamic},
		{"zero mass", &Sphere{Radius: 1}, 0, BodyTypeStatic},
		{"under threshold", &Box{HalfExtents: mgl64.Vec3{1, 1, 1}}, StaticMassThreshold / 2, BodyTypeStatic},
		{"plane", &Plane{Normal: mgl64.Vec3{0, 1, 0}}, 10, BodyTypeStatic},
		{"mesh", &TriangleMesh{}, 10, BodyTypeStatic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rb := NewRigidBody(Transform{}, tt.shape, tt.mass)
			if rb.BodyType != tt.want {
				t.Errorf("BodyType = %v, want %v", rb.BodyType, tt.want)
			}
			if tt.want == BodyTypeStatic {
				if !math.IsInf(rb.Material.GetMass(), 1) || rb.Material.InverseMass() != 0 {
					t.Errorf("static mass = %v, inverse %v", rb.Material.GetMass(), rb.Material.InverseMass())
				}
			}
			if rb.Transform.Rotation != mgl64.QuatIdent() {
				t.Errorf("zero rotation should become identity, got %v", rb.Transform.Rotation)
			}
		})
	}
}

// =============================================================================
// Integration Tests
// =============================================================================

func TestIntegrate_Gravity(t *testing.T) {
	rb := newBody(2)
	gravity := mgl64.Vec3{0, -10, 0}

	rb.Integrate(0.1, gravity)

	if !rb.Velocity.ApproxEqualThreshold(mgl64.Vec3{0, -1, 0}, epsilon) {
		t.Errorf("Velocity = %v, want (0,-1,0)", rb.Velocity)
	}
	if !rb.Transform.Position.ApproxEqualThreshold(mgl64.Vec3{0, 9.9, 0}, epsilon) {
		t.Errorf("Position = %v, want (0,9.9,0)", rb.Transform.Position)
	}
	if rb.PreviousTransform.Position != (mgl64.Vec3{0, 10, 0}) {
		t.Errorf("PreviousTransform.Position = %v", rb.PreviousTransform.Position)
	}
}

func TestIntegrate_StaticAndSleeping(t *testing.T) {
	static := newBody(0)
	sleeping := newBody(1)
	sleeping.Sleep()

	for _, rb := range []*RigidBody{static, sleeping} {
		rb.Integrate(1, mgl64.Vec3{0, -10, 0})
		if rb.Transform.Position != (mgl64.Vec3{0, 10, 0}) {
			t.Errorf("body moved to %v", rb.Transform.Position)
		}
	}
}

func TestIntegrate_ForceIsCleared(t *testing.T) {
	rb := newBody(2)
	rb.AddForce(mgl64.Vec3{4, 0, 0})

	if rb.TotalForce() != (mgl64.Vec3{4, 0, 0}) {
		t.Fatalf("TotalForce() = %v", rb.TotalForce())
	}
	rb.Integrate(0.5, mgl64.Vec3{})

	if !rb.Velocity.ApproxEqualThreshold(mgl64.Vec3{1, 0, 0}, epsilon) {
		t.Errorf("Velocity = %v, want (1,0,0)", rb.Velocity)
	}
	if rb.TotalForce() != (mgl64.Vec3{}) {
		t.Errorf("TotalForce() after Integrate = %v, want 0", rb.TotalForce())
	}
}

func TestIntegrate_AngularVelocityRotates(t *testing.T) {
	rb := newBody(1)
	rb.AngularVelocity = mgl64.Vec3{0, math.Pi / 2, 0}

	for i := 0; i < 1000; i++ {
		rb.Integrate(0.001, mgl64.Vec3{})
	}

	// a quarter turn around Y maps +Z onto +X
	got := rb.Transform.Rotation.Rotate(mgl64.Vec3{0, 0, 1})
	if !got.ApproxEqualThreshold(mgl64.Vec3{1, 0, 0}, 1e-2) {
		t.Errorf("rotated +Z = %v, want about (1,0,0)", got)
	}
	if math.Abs(rb.Transform.Rotation.Len()-1) > 1e-9 {
		t.Errorf("rotation not normalized: %v", rb.Transform.Rotation.Len())
	}
}

func TestIntegrate_LinearDamping(t *testing.T) {
	rb := newBody(1)
	rb.Material.LinearDamping = 1
	rb.Velocity = mgl64.Vec3{1, 0, 0}

	rb.Integrate(1, mgl64.Vec3{})

	if math.Abs(rb.Velocity.X()-math.Exp(-1)) > epsilon {
		t.Errorf("Velocity.X = %v, want %v", rb.Velocity.X(), math.Exp(-1))
	}
}

func TestUpdate_DerivesVelocity(t *testing.T) {
	rb := newBody(1)
	rb.Integrate(0.1, mgl64.Vec3{})
	rb.Transform.Position = rb.PreviousTransform.Position.Add(mgl64.Vec3{0, 0.5, 0})

	rb.Update(0.1)

	if !rb.Velocity.ApproxEqualThreshold(mgl64.Vec3{0, 5, 0}, epsilon) {
		t.Errorf("Velocity = %v, want (0,5,0)", rb.Velocity)
	}
}

// =============================================================================
// Impulse, Torque and Sleep Tests
// =============================================================================

func TestApplyImpulse(t *testing.T) {
	rb := newBody(2)
	rb.ApplyImpulse(mgl64.Vec3{0, 4, 0}, mgl64.Vec3{})

	if rb.Velocity != (mgl64.Vec3{0, 2, 0}) {
		t.Errorf("Velocity = %v, want (0,2,0)", rb.Velocity)
	}
	if rb.AngularVelocity != (mgl64.Vec3{}) {
		t.Errorf("central impulse changed angular velocity: %v", rb.AngularVelocity)
	}

	rb.ApplyImpulse(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{1, 0, 0})
	if rb.AngularVelocity.Z() <= 0 {
		t.Errorf("off-center impulse should spin around +Z, got %v", rb.AngularVelocity)
	}
}

func TestAddForceAt_ProducesTorque(t *testing.T) {
	rb := newBody(1)
	rb.AddForceAt(mgl64.Vec3{0, 0, 1}, mgl64.Vec3{1, 0, 0})

	if rb.TotalTorque() != (mgl64.Vec3{0, -1, 0}) {
		t.Errorf("TotalTorque() = %v, want (0,-1,0)", rb.TotalTorque())
	}
}

func TestStaticIgnoresForces(t *testing.T) {
	rb := newBody(0)
	rb.AddForce(mgl64.Vec3{1, 0, 0})
	rb.AddTorque(mgl64.Vec3{1, 0, 0})
	rb.ApplyImpulse(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{})

	if rb.TotalForce() != (mgl64.Vec3{}) || rb.TotalTorque() != (mgl64.Vec3{}) || rb.Velocity != (mgl64.Vec3{}) {
		t.Error("static body accepted a force")
	}
}

func TestTrySleep(t *testing.T) {
	rb := newBody(1)

	rb.TrySleep(0.05, 0.1, 0.05)
	if rb.IsSleeping {
		t.Fatal("slept before the time threshold")
	}
	rb.TrySleep(0.06, 0.1, 0.05)
	if !rb.IsSleeping {
		t.Fatal("still awake after the time threshold")
	}

	rb.AddForce(mgl64.Vec3{1, 0, 0})
	if rb.IsSleeping {
		t.Error("AddForce should wake the body")
	}
}

func TestSetMass_SwitchesType(t *testing.T) {
	rb := newBody(1)
	rb.Velocity = mgl64.Vec3{1, 1, 1}

	rb.SetMass(0)
	if rb.BodyType != BodyTypeStatic || rb.Velocity != (mgl64.Vec3{}) {
		t.Errorf("SetMass(0): type %v velocity %v", rb.BodyType, rb.Velocity)
	}
	rb.SetMass(3)
	if rb.BodyType != BodyTypeDynamic || rb.Material.GetMass() != 3 {
		t.Errorf("SetMass(3): type %v mass %v", rb.BodyType, rb.Material.GetMass())
	}
}

func TestTransform_MatrixRoundTrip(t *testing.T) {
	tr := NewTransform(mgl64.Vec3{1, 2, 3}, mgl64.QuatRotate(0.4, mgl64.Vec3{1, 0, 0}))
	back := TransformFromMatrix(tr.Matrix())

	if !back.Position.ApproxEqualThreshold(tr.Position, epsilon) {
		t.Errorf("Position = %v, want %v", back.Position, tr.Position)
	}
	p := mgl64.Vec3{0, 1, 1}
	if !back.ToWorld(p).ApproxEqualThreshold(tr.ToWorld(p), 1e-9) {
		t.Errorf("ToWorld = %v, want %v", back.ToWorld(p), tr.ToWorld(p))
	}
}
