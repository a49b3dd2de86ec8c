package rigidbody

import (
	"errors"
	"testing"

	"github.com/akmonengine/gimbal/actor"
	"github.com/akmonengine/gimbal/geometry"
	"github.com/akmonengine/gimbal/orientation"
	"github.com/go-gl/mathgl/mgl64"
)

const tolerance = 1e-6

func newCube(t *testing.T) (*RigidBody, *fakeSimulation) {
	t.Helper()
	sim := &fakeSimulation{}
	rb := New(1, sim, testDefaults)
	info := CreateInfo{Shape: ShapeCube, Mass: 1, Dimensions: mgl64.Vec3{1, 1, 1}, InitialPosition: mgl64.Vec3{0, 5, 0}}
	if err := rb.Create(info, false); err != nil {
		t.Fatal(err)
	}

	return rb, sim
}

// =============================================================================
// Synchronization Tests
// =============================================================================

func TestCreate_PullsInitialTransform(t *testing.T) {
	rb, sim := newCube(t)

	if rb.Position() != (mgl64.Vec3{0, 5, 0}) {
		t.Errorf("Position() = %v, want (0,5,0)", rb.Position())
	}
	if sim.last().setTransformCalls != 0 {
		t.Errorf("Create wrote the transform back %d times", sim.last().setTransformCalls)
	}
}

func TestUpdate_DoesNotWriteBack(t *testing.T) {
	rb, sim := newCube(t)
	body := sim.last()

	for step := 1; step <= 3; step++ {
		// the application moves the body once per step
		rb.SetPositionXYZ(float64(step), 5, 0)

		// the simulation advances it
		body.position = mgl64.Vec3{float64(step), 4, 0}
		body.rotation = mgl64.QuatRotate(0.1*float64(step), mgl64.Vec3{0, 1, 0})
		rb.Update(1.0 / 60.0)

		if body.setTransformCalls != step {
			t.Fatalf("step %d: SetWorldTransform called %d times, want %d", step, body.setTransformCalls, step)
		}
		if rb.Position() != body.position {
			t.Errorf("step %d: Position() = %v, want %v", step, rb.Position(), body.position)
		}
		if !rb.LVector().ApproxEqualThreshold(body.rotation.Rotate(mgl64.Vec3{0, 0, 1}), tolerance) {
			t.Errorf("step %d: LVector() = %v does not follow the body", step, rb.LVector())
		}
	}
}

func TestOnStateChange_PushesTransform(t *testing.T) {
	rb, sim := newCube(t)
	body := sim.last()

	rb.Yaw(90)

	if body.setTransformCalls != 1 || body.activateCalls != 1 {
		t.Fatalf("SetWorldTransform/Activate = %d/%d, want 1/1", body.setTransformCalls, body.activateCalls)
	}
	if !body.rotation.Rotate(mgl64.Vec3{0, 0, 1}).ApproxEqualThreshold(mgl64.Vec3{1, 0, 0}, tolerance) {
		t.Errorf("pushed rotation maps +Z to %v, want (1,0,0)", body.rotation.Rotate(mgl64.Vec3{0, 0, 1}))
	}
	if body.position != (mgl64.Vec3{0, 5, 0}) {
		t.Errorf("pushed position = %v", body.position)
	}
}

func TestOnStateChange_IgnoresBinding(t *testing.T) {
	rb, sim := newCube(t)

	rb.SetBindingMatrix(mgl64.Translate3D(1, 0, 0))

	if sim.last().setTransformCalls != 0 {
		t.Error("a binding change was pushed to the simulation")
	}
}

func TestOnStateChange_WithoutBody(t *testing.T) {
	rb := New(1, &fakeSimulation{}, testDefaults)

	// must not reach a nil body
	rb.Move(3)
	rb.Update(1)

	if rb.Valid() {
		t.Error("Valid() = true before Create")
	}
}

// =============================================================================
// Binding Tests
// =============================================================================

func TestBind_ReferenceCounts(t *testing.T) {
	rb, _ := newCube(t)
	a, b := &fakeTarget{}, &fakeTarget{}

	rb.Bind(a, a)
	if a.adds != 1 || a.removes != 0 {
		t.Fatalf("after Bind(A): A adds/removes = %d/%d, want 1/0", a.adds, a.removes)
	}

	rb.Bind(b, b)
	if a.adds != 1 || a.removes != 1 {
		t.Errorf("after Bind(B): A adds/removes = %d/%d, want 1/1", a.adds, a.removes)
	}
	if b.adds != 1 || b.removes != 0 {
		t.Errorf("after Bind(B): B adds/removes = %d/%d, want 1/0", b.adds, b.removes)
	}

	rb.Destroy()
	rb.Destroy()
	if b.adds != 1 || b.removes != 1 {
		t.Errorf("after Destroy: B adds/removes = %d/%d, want 1/1", b.adds, b.removes)
	}
	if a.removes != 1 {
		t.Errorf("after Destroy: A removes = %d, want 1", a.removes)
	}
}

func TestUpdate_PropagatesToTarget(t *testing.T) {
	rb, sim := newCube(t)
	target := orientation.New()
	rb.Bind(target, nil)

	sim.last().position = mgl64.Vec3{3, 2, 1}
	sim.last().rotation = mgl64.QuatRotate(1, mgl64.Vec3{1, 0, 0})
	rb.Update(1.0 / 60.0)

	if target.Position() != (mgl64.Vec3{3, 2, 1}) {
		t.Errorf("target Position() = %v, want (3,2,1)", target.Position())
	}
	if !target.UVector().ApproxEqualThreshold(rb.UVector(), tolerance) {
		t.Errorf("target UVector() = %v, want %v", target.UVector(), rb.UVector())
	}
	if rb.BoundTarget() != target {
		t.Error("BoundTarget() is not the bound orientation")
	}
}

// =============================================================================
// Create Tests
// =============================================================================

func newHull(t *testing.T, description geometry.VertexDescription) *geometry.Geometry {
	t.Helper()
	g, err := geometry.New(7, description, []float32{0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1}, []uint32{0, 1, 2, 0, 2, 3})
	if err != nil {
		t.Fatal(err)
	}
	g.SetName("hull")

	return g
}

func TestCreateInfo_Validate(t *testing.T) {
	hull := newHull(t, geometry.PositionOnly)
	normals := newHull(t, geometry.VertexDescription{Attributes: []geometry.Attribute{{Name: "normal", Size: 3}}})
	noIndices, err := geometry.New(8, geometry.PositionOnly, []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, nil)
	if err != nil {
		t.Fatal(err)
	}
	released := newHull(t, geometry.PositionOnly)
	released.RemoveReference()

	tests := []struct {
		name    string
		info    CreateInfo
		wantErr error
	}{
		{"cube", CreateInfo{Shape: ShapeCube, Mass: 1}, nil},
		{"static sphere", CreateInfo{Shape: ShapeSphere, Mass: 0}, nil},
		{"negative mass", CreateInfo{Shape: ShapeSphere, Mass: -1}, ErrInvalidParam},
		{"unknown shape", CreateInfo{Shape: ShapeMesh + 1}, ErrInvalidParam},
		{"convex without geometry", CreateInfo{Shape: ShapeConvex, Mass: 1}, ErrInvalidParam},
		{"mesh without geometry", CreateInfo{Shape: ShapeMesh}, ErrInvalidParam},
		{"released geometry", CreateInfo{Shape: ShapeConvex, Geometry: released}, ErrInvalidParam},
		{"no position attribute", CreateInfo{Shape: ShapeConvex, Geometry: normals}, ErrInvalidParam},
		{"triangle list without indices", CreateInfo{Shape: ShapeMesh, Geometry: noIndices, IsTriangleList: true}, ErrInvalidParam},
		{"triangle strip without indices", CreateInfo{Shape: ShapeMesh, Geometry: noIndices}, nil},
		{"convex", CreateInfo{Shape: ShapeConvex, Mass: 1, Geometry: hull}, nil},
		{"indexed mesh", CreateInfo{Shape: ShapeMesh, Geometry: hull, IsTriangleList: true}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.info.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreate_InvalidKeepsPreviousBody(t *testing.T) {
	rb, sim := newCube(t)
	previous := rb.Body()

	err := rb.Create(CreateInfo{Shape: ShapeMesh}, false)

	if !errors.Is(err, ErrInvalidParam) {
		t.Fatalf("Create() error = %v, want ErrInvalidParam", err)
	}
	if rb.Body() != previous || len(sim.destroyed) != 0 || len(sim.created) != 1 {
		t.Error("a rejected create info touched the existing body")
	}
}

func TestCreate_ReplacesPreviousBody(t *testing.T) {
	rb, sim := newCube(t)
	first := sim.last()

	if err := rb.Create(CreateInfo{Shape: ShapeSphere, Mass: 1, Dimensions: mgl64.Vec3{1, 0, 0}}, false); err != nil {
		t.Fatal(err)
	}

	if len(sim.destroyed) != 1 || sim.destroyed[0] != first {
		t.Errorf("previous body destroyed %d times", len(sim.destroyed))
	}
}

func TestCreate_Shapes(t *testing.T) {
	hull := newHull(t, geometry.PositionOnly)

	tests := []struct {
		name     string
		info     CreateInfo
		check    func(shape actor.ShapeInterface) bool
		wantMass float64
	}{
		{
			"cube",
			CreateInfo{Shape: ShapeCube, Mass: 2, Dimensions: mgl64.Vec3{1, 2, 3}},
			func(s actor.ShapeInterface) bool { return s.(*actor.Box).HalfExtents == mgl64.Vec3{1, 2, 3} },
			2,
		},
		{
			"capsule",
			CreateInfo{Shape: ShapeCapsule, Mass: 1, Dimensions: mgl64.Vec3{2, 0.5, 0}},
			func(s actor.ShapeInterface) bool {
				c := s.(*actor.Capsule)
				return c.Radius == 0.5 && c.HalfHeight == 1
			},
			1,
		},
		{
			"cylinder",
			CreateInfo{Shape: ShapeCylinder, Mass: 1, Dimensions: mgl64.Vec3{0.5, 2, 0.5}},
			func(s actor.ShapeInterface) bool {
				c := s.(*actor.Cylinder)
				return c.Radius == 0.5 && c.HalfHeight == 1
			},
			1,
		},
		{
			"cone",
			CreateInfo{Shape: ShapeCone, Mass: 1, Dimensions: mgl64.Vec3{3, 1, 0}},
			func(s actor.ShapeInterface) bool {
				c := s.(*actor.Cone)
				return c.Radius == 1 && c.Height == 3
			},
			1,
		},
		{
			"convex",
			CreateInfo{Shape: ShapeConvex, Mass: 1, Geometry: hull},
			func(s actor.ShapeInterface) bool { return len(s.(*actor.ConvexHull).Points) == 4 },
			1,
		},
		{
			"mesh is static",
			CreateInfo{Shape: ShapeMesh, Mass: 10, Geometry: hull, IsTriangleList: true},
			func(s actor.ShapeInterface) bool { return len(s.(*actor.TriangleMesh).Triangles) == 2 },
			0,
		},
		{
			"triangle strip",
			CreateInfo{Shape: ShapeMesh, Geometry: hull},
			func(s actor.ShapeInterface) bool { return len(s.(*actor.TriangleMesh).Triangles) == 2 },
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim := &fakeSimulation{}
			rb := New(1, sim, testDefaults)
			if err := rb.Create(tt.info, false); err != nil {
				t.Fatal(err)
			}

			desc := sim.last().desc
			if !tt.check(desc.Shape) {
				t.Errorf("unexpected shape %#v", desc.Shape)
			}
			if desc.Mass != tt.wantMass {
				t.Errorf("Mass = %v, want %v", desc.Mass, tt.wantMass)
			}
			if desc.Restitution != 0.2 || desc.Friction != 0.2 {
				t.Errorf("default material = %v/%v, want 0.2/0.2", desc.Restitution, desc.Friction)
			}
		})
	}
}

func TestCreate_FromOrientation(t *testing.T) {
	o := orientation.New()
	o.SetPositionXYZ(1, 2, 3)
	o.Yaw(90)

	sim := &fakeSimulation{}
	rb := New(1, sim, testDefaults)
	if err := rb.Create(CreateInfo{Shape: ShapeCube, Mass: 1, InitialPosition: mgl64.Vec3{9, 9, 9}, Orientation: o}, false); err != nil {
		t.Fatal(err)
	}

	desc := sim.last().desc
	if desc.Position != (mgl64.Vec3{1, 2, 3}) {
		t.Errorf("Position = %v, want the orientation position", desc.Position)
	}
	if !desc.Rotation.Rotate(mgl64.Vec3{0, 0, 1}).ApproxEqualThreshold(mgl64.Vec3{1, 0, 0}, tolerance) {
		t.Errorf("Rotation does not match the orientation: %v", desc.Rotation)
	}
	if !rb.LVector().ApproxEqualThreshold(o.LVector(), tolerance) {
		t.Errorf("LVector() = %v, want %v", rb.LVector(), o.LVector())
	}
}

func TestCreate_SaveInfoHoldsGeometry(t *testing.T) {
	hull := newHull(t, geometry.PositionOnly)
	sim := &fakeSimulation{}
	rb := New(1, sim, testDefaults)

	if err := rb.Create(CreateInfo{Shape: ShapeConvex, Mass: 1, Geometry: hull}, true); err != nil {
		t.Fatal(err)
	}
	if hull.References() != 2 {
		t.Fatalf("References() = %d, want 2", hull.References())
	}

	rb.Destroy()
	if hull.References() != 1 {
		t.Errorf("References() after Destroy = %d, want 1", hull.References())
	}
}

// =============================================================================
// Forwarder Tests
// =============================================================================

func TestForwarders(t *testing.T) {
	rb, sim := newCube(t)
	body := sim.last()

	rb.SetLinearVelocity(mgl64.Vec3{1, 0, 0})
	rb.SetAngularVelocity(mgl64.Vec3{0, 1, 0})
	rb.SetLinearDamping(0.3)
	rb.SetAngularDamping(0.4)
	rb.SetBouncingPower(0.9)
	rb.SetFriction(0.6)
	rb.SetMass(4)
	rb.SetMassCenter(0, 0.5, 0)
	rb.ApplyForce(mgl64.Vec3{0, 10, 0})
	rb.ApplyTorque(mgl64.Vec3{0, 0, 2})
	rb.ApplyImpulse(mgl64.Vec3{1, 0, 0})

	if rb.LinearVelocity() != (mgl64.Vec3{2, 0, 0}) || rb.AngularVelocity() != (mgl64.Vec3{0, 1, 0}) {
		t.Errorf("velocities = %v, %v", rb.LinearVelocity(), rb.AngularVelocity())
	}
	if linear, angular := body.Damping(); linear != 0.3 || angular != 0.4 {
		t.Errorf("Damping() = %v, %v", linear, angular)
	}
	if body.restitution != 0.9 || body.friction != 0.6 || body.mass != 4 || body.massCenter != (mgl64.Vec3{0, 0.5, 0}) {
		t.Errorf("material not forwarded: %+v", body)
	}
	if rb.TotalForce() != (mgl64.Vec3{0, 10, 0}) || rb.TotalTorque() != (mgl64.Vec3{0, 0, 2}) {
		t.Errorf("TotalForce/TotalTorque = %v, %v", rb.TotalForce(), rb.TotalTorque())
	}
	if body.activateCalls != 5 {
		t.Errorf("Activate called %d times, want 5", body.activateCalls)
	}
}

func TestForwarders_WithoutBody(t *testing.T) {
	rb := New(1, &fakeSimulation{}, testDefaults)

	rb.SetLinearVelocity(mgl64.Vec3{1, 0, 0})
	rb.SetLinearDamping(1)
	rb.ApplyForce(mgl64.Vec3{1, 0, 0})

	if rb.LinearVelocity() != (mgl64.Vec3{}) || rb.TotalForce() != (mgl64.Vec3{}) {
		t.Error("forwarders without a body should be no-ops")
	}
}
