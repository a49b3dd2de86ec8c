package gimbal

import (
	"github.com/akmonengine/gimbal/actor"
	"github.com/akmonengine/gimbal/rigidbody"
	"github.com/go-gl/mathgl/mgl64"
)

// Handle is the rigidbody.Body of a World body
type Handle struct {
	world *World
	body  *actor.RigidBody
}

var _ rigidbody.Body = (*Handle)(nil)

// RigidBody returns the simulated body
func (h *Handle) RigidBody() *actor.RigidBody {
	return h.body
}

func (h *Handle) WorldTransform() (mgl64.Vec3, mgl64.Quat) {
	return h.body.Transform.Position, h.body.Transform.Rotation
}

// SetWorldTransform teleports the body, velocities are kept
func (h *Handle) SetWorldTransform(position mgl64.Vec3, rotation mgl64.Quat) {
	h.body.Teleport(actor.NewTransform(position, rotation))
}

func (h *Handle) Activate() {
	if h.body.BodyType == actor.BodyTypeStatic {
		return
	}
	h.body.Awake()
}

func (h *Handle) LinearVelocity() mgl64.Vec3 {
	return h.body.Velocity
}

func (h *Handle) SetLinearVelocity(velocity mgl64.Vec3) {
	if h.body.BodyType == actor.BodyTypeStatic {
		return
	}
	h.body.Velocity = velocity
}

func (h *Handle) AngularVelocity() mgl64.Vec3 {
	return h.body.AngularVelocity
}

func (h *Handle) SetAngularVelocity(velocity mgl64.Vec3) {
	if h.body.BodyType == actor.BodyTypeStatic {
		return
	}
	h.body.AngularVelocity = velocity
}

func (h *Handle) Damping() (linear, angular float64) {
	return h.body.Material.LinearDamping, h.body.Material.AngularDamping
}

func (h *Handle) SetDamping(linear, angular float64) {
	h.body.Material.LinearDamping = linear
	h.body.Material.AngularDamping = angular
}

func (h *Handle) Restitution() float64               { return h.body.Material.Restitution }
func (h *Handle) SetRestitution(restitution float64) { h.body.Material.Restitution = restitution }
func (h *Handle) Friction() float64                  { return h.body.Material.Friction }
func (h *Handle) SetFriction(friction float64)       { h.body.Material.Friction = friction }

// Mass is 0 for static bodies, whose actor mass is infinite
func (h *Handle) Mass() float64 {
	if h.body.BodyType == actor.BodyTypeStatic {
		return 0
	}

	return h.body.Material.GetMass()
}

func (h *Handle) SetMass(mass float64) {
	h.body.SetMass(mass)
}

func (h *Handle) MassCenter() mgl64.Vec3 {
	return h.body.CenterOfMass
}

func (h *Handle) SetMassCenter(center mgl64.Vec3) {
	h.body.CenterOfMass = center
}

func (h *Handle) ApplyForce(force, relative mgl64.Vec3) {
	if relative == (mgl64.Vec3{}) {
		h.body.AddForce(force)
		return
	}
	h.body.AddForceAt(force, relative)
}

func (h *Handle) ApplyImpulse(impulse, relative mgl64.Vec3) {
	if relative == (mgl64.Vec3{}) {
		relative = h.body.CenterOfMass
	}
	h.body.ApplyImpulse(impulse, relative)
}

func (h *Handle) ApplyTorque(torque mgl64.Vec3) {
	h.body.AddTorque(torque)
}

func (h *Handle) TotalForce() mgl64.Vec3 {
	return h.body.TotalForce()
}

func (h *Handle) TotalTorque() mgl64.Vec3 {
	return h.body.TotalTorque()
}
