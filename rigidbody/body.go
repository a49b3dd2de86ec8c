package rigidbody

import (
	"github.com/akmonengine/gimbal/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// Body is the handle of one simulated body, owned by the RigidBody that
// created it. Positions and rotations are in world space.
type Body interface {
	WorldTransform() (mgl64.Vec3, mgl64.Quat)
	SetWorldTransform(position mgl64.Vec3, rotation mgl64.Quat)
	// Activate wakes the body up so the next step simulates it
	Activate()

	LinearVelocity() mgl64.Vec3
	SetLinearVelocity(velocity mgl64.Vec3)
	AngularVelocity() mgl64.Vec3
	SetAngularVelocity(velocity mgl64.Vec3)

	Damping() (linear, angular float64)
	SetDamping(linear, angular float64)
	Restitution() float64
	SetRestitution(restitution float64)
	Friction() float64
	SetFriction(friction float64)
	// Mass is 0 for static bodies
	Mass() float64
	SetMass(mass float64)
	MassCenter() mgl64.Vec3
	SetMassCenter(center mgl64.Vec3)

	// relative is a local offset from the body origin; zero means the center of mass
	ApplyForce(force, relative mgl64.Vec3)
	ApplyImpulse(impulse, relative mgl64.Vec3)
	ApplyTorque(torque mgl64.Vec3)
	TotalForce() mgl64.Vec3
	TotalTorque() mgl64.Vec3
}

// Simulation creates and destroys simulated bodies
type Simulation interface {
	CreateBody(desc BodyDesc) (Body, error)
	DestroyBody(body Body)
}

// BodyDesc is everything a Simulation needs to create a body
type BodyDesc struct {
	Shape    actor.ShapeInterface
	Position mgl64.Vec3
	Rotation mgl64.Quat
	// Mass under actor.StaticMassThreshold creates a static body
	Mass float64

	Restitution    float64
	Friction       float64
	LinearDamping  float64
	AngularDamping float64
}
