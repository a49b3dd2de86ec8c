package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// StaticMassThreshold is the mass under which a body is created static
const StaticMassThreshold = 0.0001

// BodyType represents the type of rigid body
type BodyType int

const (
	// BodyTypeDynamic bodies are affected by forces, gravity, and collisions
	// They have finite mass and can move freely
	BodyTypeDynamic BodyType = iota

	// BodyTypeStatic bodies are immovable and have infinite mass
	// They are not affected by forces or gravity (e.g., ground, walls)
	BodyTypeStatic
)

type Material struct {
	mass        float64
	Restitution float64 // 0= no rebound, 1= perfect restitution
	Friction    float64

	LinearDamping  float64 // fraction of velocity lost per second, typical 0.01
	AngularDamping float64 // typical 0.05
}

func (material Material) GetMass() float64 {
	return material.mass
}

// InverseMass is 0 for static bodies
func (material Material) InverseMass() float64 {
	if math.IsInf(material.mass, 1) || material.mass == 0 {
		return 0
	}

	return 1.0 / material.mass
}

// RigidBody represents a rigid body in the physics simulation
type RigidBody struct {
	// Spatial properties
	PreviousTransform Transform
	Transform         Transform

	// Linear motion; PresolveVelocity is the velocity predicted before contacts are solved
	PresolveVelocity mgl64.Vec3
	Velocity         mgl64.Vec3 // m/s

	// Angular motion
	AngularVelocity mgl64.Vec3 // rad/s

	InertiaLocal        mgl64.Mat3
	InverseInertiaLocal mgl64.Mat3

	// CenterOfMass is the local offset of the center of mass from the body origin
	CenterOfMass mgl64.Vec3

	accumulatedForce  mgl64.Vec3
	accumulatedTorque mgl64.Vec3

	IsSleeping bool
	SleepTimer float64

	Material Material
	BodyType BodyType

	Shape ShapeInterface
}

// NewRigidBody creates a new rigid body. A mass under StaticMassThreshold
// gives a static body with infinite mass.
func NewRigidBody(transform Transform, shape ShapeInterface, mass float64) *RigidBody {
	if transform.Rotation.Len() == 0 {
		transform = NewTransform(transform.Position, mgl64.QuatIdent())
	}

	rb := &RigidBody{
		PreviousTransform: transform,
		Transform:         transform,
		Shape:             shape,
	}
	rb.SetMass(mass)
	rb.Shape.ComputeAABB(rb.Transform)

	return rb
}

// SetMass updates the mass and the inertia tensor derived from the shape
func (rb *RigidBody) SetMass(mass float64) {
	if mass < StaticMassThreshold || rb.Shape.Type() == ShapeTypePlane || rb.Shape.Type() == ShapeTypeTriangleMesh {
		rb.BodyType = BodyTypeStatic
		rb.Material.mass = math.Inf(1)
		rb.InertiaLocal = mgl64.Mat3{}
		rb.InverseInertiaLocal = mgl64.Mat3{}
		rb.Velocity = mgl64.Vec3{}
		rb.AngularVelocity = mgl64.Vec3{}
		return
	}

	rb.BodyType = BodyTypeDynamic
	rb.Material.mass = mass
	rb.InertiaLocal = rb.Shape.ComputeInertia(mass)
	rb.InverseInertiaLocal = rb.InertiaLocal.Inv()
}

func (rb *RigidBody) TrySleep(dt float64, timethreshold float64, velocityThreshold float64) {
	if rb.BodyType == BodyTypeStatic || rb.IsSleeping {
		return
	}

	if rb.Velocity.Len() < velocityThreshold && rb.AngularVelocity.Len() < velocityThreshold {
		rb.SleepTimer += dt
		if rb.SleepTimer >= timethreshold {
			rb.Sleep()
		}
	} else {
		rb.SleepTimer = 0.0
	}
}

func (rb *RigidBody) Sleep() {
	rb.IsSleeping = true
	rb.SleepTimer = 0.0

	rb.Shape.ComputeAABB(rb.Transform)
	rb.ClearForces()
	rb.Velocity = mgl64.Vec3{}
	rb.AngularVelocity = mgl64.Vec3{}
}

func (rb *RigidBody) Awake() {
	rb.IsSleeping = false
	rb.SleepTimer = 0.0
}

// Teleport replaces the transform, as done when the application moves a body directly
func (rb *RigidBody) Teleport(transform Transform) {
	rb.Transform = transform
	rb.PreviousTransform = transform
	rb.Shape.ComputeAABB(rb.Transform)
}

// Integrate predicts the new transform from velocities, gravity and accumulated forces
func (rb *RigidBody) Integrate(dt float64, gravity mgl64.Vec3) {
	if rb.BodyType == BodyTypeStatic || rb.IsSleeping {
		return
	}

	rb.PreviousTransform = rb.Transform

	// linear
	acceleration := gravity.Add(rb.accumulatedForce.Mul(rb.Material.InverseMass()))
	rb.Velocity = rb.Velocity.Add(acceleration.Mul(dt))
	rb.Velocity = rb.Velocity.Mul(math.Exp(-rb.Material.LinearDamping * dt))
	rb.PresolveVelocity = rb.Velocity
	rb.Transform.Position = rb.Transform.Position.Add(rb.Velocity.Mul(dt))

	// angular
	angularAccel := rb.GetInverseInertiaWorld().Mul3x1(rb.accumulatedTorque)
	rb.AngularVelocity = rb.AngularVelocity.Add(angularAccel.Mul(dt))
	rb.AngularVelocity = rb.AngularVelocity.Mul(math.Exp(-rb.Material.AngularDamping * dt))

	omegaQuat := mgl64.Quat{V: rb.AngularVelocity, W: 0}
	qDot := omegaQuat.Mul(rb.Transform.Rotation).Scale(0.5)
	rb.Transform.Rotation = rb.Transform.Rotation.Add(qDot.Scale(dt)).Normalize()
	rb.Transform.InverseRotation = rb.Transform.Rotation.Inverse()

	rb.Shape.ComputeAABB(rb.Transform)
	rb.ClearForces()
}

// Update derives the velocities from the corrected positions
func (rb *RigidBody) Update(dt float64) {
	if rb.BodyType == BodyTypeStatic || rb.IsSleeping {
		return
	}

	rb.Velocity = rb.Transform.Position.Sub(rb.PreviousTransform.Position).Mul(1.0 / dt)

	qDelta := rb.Transform.Rotation.Mul(rb.PreviousTransform.Rotation.Conjugate()).Normalize()
	if qDelta.W >= 0.0 {
		rb.AngularVelocity = qDelta.V.Mul(2.0 / dt)
	} else {
		rb.AngularVelocity = qDelta.V.Mul(-2.0 / dt)
	}
}

// AddForce accumulates a force at the center of mass, in N
func (rb *RigidBody) AddForce(force mgl64.Vec3) {
	if rb.BodyType == BodyTypeStatic {
		return
	}
	rb.Awake()
	rb.accumulatedForce = rb.accumulatedForce.Add(force)
}

// AddForceAt accumulates a force applied at a local offset from the body origin
func (rb *RigidBody) AddForceAt(force, relative mgl64.Vec3) {
	if rb.BodyType == BodyTypeStatic {
		return
	}
	rb.AddForce(force)
	rb.AddTorque(rb.Transform.Rotation.Rotate(relative.Sub(rb.CenterOfMass)).Cross(force))
}

// AddTorque accumulates a torque, in N⋅m
func (rb *RigidBody) AddTorque(torque mgl64.Vec3) {
	if rb.BodyType == BodyTypeStatic {
		return
	}
	rb.Awake()
	rb.accumulatedTorque = rb.accumulatedTorque.Add(torque)
}

// ApplyImpulse changes velocities instantly; relative is a local offset from the body origin
func (rb *RigidBody) ApplyImpulse(impulse, relative mgl64.Vec3) {
	if rb.BodyType == BodyTypeStatic {
		return
	}
	rb.Awake()

	rb.Velocity = rb.Velocity.Add(impulse.Mul(rb.Material.InverseMass()))
	arm := rb.Transform.Rotation.Rotate(relative.Sub(rb.CenterOfMass))
	if arm.Len() > 0 {
		rb.AngularVelocity = rb.AngularVelocity.Add(rb.GetInverseInertiaWorld().Mul3x1(arm.Cross(impulse)))
	}
}

func (rb *RigidBody) ClearForces() {
	rb.accumulatedForce = mgl64.Vec3{0, 0, 0}
	rb.accumulatedTorque = mgl64.Vec3{0, 0, 0}
}

// TotalForce is the force accumulated since the last integration
func (rb *RigidBody) TotalForce() mgl64.Vec3 {
	return rb.accumulatedForce
}

// TotalTorque is the torque accumulated since the last integration
func (rb *RigidBody) TotalTorque() mgl64.Vec3 {
	return rb.accumulatedTorque
}

func (rb *RigidBody) SupportWorld(direction mgl64.Vec3) mgl64.Vec3 {
	localDirection := rb.Transform.InverseRotation.Rotate(direction)

	return rb.Transform.ToWorld(rb.Shape.Support(localDirection))
}

// GetInverseInertiaWorld is R * I_local^(-1) * R^T, zero for static bodies
func (rb *RigidBody) GetInverseInertiaWorld() mgl64.Mat3 {
	if rb.BodyType == BodyTypeStatic {
		return mgl64.Mat3{}
	}

	R := rb.Transform.Rotation.Mat4().Mat3()
	return R.Mul3(rb.InverseInertiaLocal).Mul3(R.Transpose())
}
