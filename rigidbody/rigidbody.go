// Package rigidbody keeps an Orientation and a simulated body in sync.
//
// Each step runs in two directions. Update copies the simulated transform
// into the Orientation (and into the bound target) while a guard flag is
// raised; any other mutation of the Orientation reaches OnStateChange with
// the guard down and is pushed back into the simulation.
package rigidbody

import (
	"github.com/akmonengine/gimbal/config"
	"github.com/akmonengine/gimbal/entity"
	"github.com/akmonengine/gimbal/orientation"
	"github.com/go-gl/mathgl/mgl64"
	log "github.com/sirupsen/logrus"
)

// Target receives the simulated transform of the body it is bound to
type Target interface {
	SetPosition(position mgl64.Vec3)
	SetAngle(rotation mgl64.Quat)
}

// RigidBody is an Orientation driven by a simulated body
type RigidBody struct {
	entity.Base
	orientation.Orientation

	simulation Simulation
	defaults   config.RigidBodyConfiguration
	manager    *Manager

	body    Body
	syncing bool

	target    Target
	targetRef entity.Referencer

	saved *CreateInfo
}

// New creates a RigidBody without a simulated body; Create must be called
// before it follows the simulation
func New(id uint32, simulation Simulation, defaults config.RigidBodyConfiguration) *RigidBody {
	rb := &RigidBody{
		simulation: simulation,
		defaults:   defaults,
	}
	rb.Base = entity.NewBase(id, rb.Destroy)
	rb.Orientation.Init(rb)

	return rb
}

// Valid reports whether a simulated body exists
func (rb *RigidBody) Valid() bool {
	return rb.body != nil
}

// Body returns the simulated body, nil before Create
func (rb *RigidBody) Body() Body {
	return rb.body
}

// Create validates info, then replaces any previous simulated body with a new
// one. On error the previous body is kept. With saveInfo the create info is
// kept for Save, along with a reference on its geometry.
func (rb *RigidBody) Create(info CreateInfo, saveInfo bool) error {
	if err := info.Validate(); err != nil {
		log.WithError(err).WithField("id", rb.ID()).Warn("rigid body rejected")
		return err
	}
	shape, mass, err := info.shape()
	if err != nil {
		log.WithError(err).WithField("id", rb.ID()).Warn("rigid body rejected")
		return err
	}
	position, rotation := info.placement()

	rb.destroyResources()

	body, err := rb.simulation.CreateBody(BodyDesc{
		Shape:          shape,
		Position:       position,
		Rotation:       rotation,
		Mass:           mass,
		Restitution:    rb.defaults.Restitution,
		Friction:       rb.defaults.Friction,
		LinearDamping:  rb.defaults.LinearDamping,
		AngularDamping: rb.defaults.AngularDamping,
	})
	if err != nil {
		return err
	}
	rb.body = body

	if saveInfo {
		saved := info
		saved.Orientation = nil
		saved.InitialPosition = position
		saved.InitialRotation = rotation
		saved.Mass = mass
		if saved.Geometry != nil {
			saved.Geometry.AddReference()
		}
		rb.saved = &saved
	}

	log.WithFields(log.Fields{
		"id":    rb.ID(),
		"shape": info.Shape,
		"mass":  mass,
	}).Debug("rigid body created")

	rb.pull()
	return nil
}

// Update copies the simulated transform into the orientation and the bound
// target, without writing it back to the simulation
func (rb *RigidBody) Update(dt float64) {
	if rb.body == nil {
		return
	}

	rb.pull()
}

func (rb *RigidBody) pull() {
	rb.syncing = true
	defer func() { rb.syncing = false }()

	position, rotation := rb.body.WorldTransform()
	rb.SetPosition(position)
	rb.SetAngle(rotation)

	if rb.target != nil {
		rb.target.SetPosition(position)
		rb.target.SetAngle(rotation)
	}
}

// OnStateChange pushes the orientation into the simulation, unless the change
// comes from Update itself
func (rb *RigidBody) OnStateChange(change orientation.StateChange) {
	if rb.syncing || rb.body == nil {
		return
	}
	if change&(orientation.ChangeRotation|orientation.ChangeMotion) == 0 {
		return
	}

	rb.body.SetWorldTransform(rb.Position(), rb.Rotation())
	rb.body.Activate()
}

// Bind makes target follow the body. ref is kept referenced while bound, and
// the previously bound reference is released. Bind(nil, nil) unbinds.
func (rb *RigidBody) Bind(target Target, ref entity.Referencer) {
	if rb.targetRef != nil {
		rb.targetRef.RemoveReference()
	}

	rb.target = target
	rb.targetRef = ref

	if rb.targetRef != nil {
		rb.targetRef.AddReference()
	}
}

// BoundTarget returns the target set by Bind
func (rb *RigidBody) BoundTarget() Target {
	return rb.target
}

// Destroy unbinds the target, destroys the simulated body and leaves the
// manager. It runs automatically when the last reference is removed.
func (rb *RigidBody) Destroy() {
	rb.Bind(nil, nil)
	rb.destroyResources()

	if rb.manager != nil {
		rb.manager.remove(rb)
		rb.manager = nil
	}
}

func (rb *RigidBody) destroyResources() {
	if rb.body != nil {
		rb.simulation.DestroyBody(rb.body)
		rb.body = nil
		log.WithField("id", rb.ID()).Debug("rigid body destroyed")
	}
	if rb.saved != nil {
		if rb.saved.Geometry != nil {
			rb.saved.Geometry.RemoveReference()
		}
		rb.saved = nil
	}
}

func (rb *RigidBody) SetLinearVelocity(velocity mgl64.Vec3) {
	if rb.body != nil {
		rb.body.SetLinearVelocity(velocity)
		rb.body.Activate()
	}
}

func (rb *RigidBody) SetAngularVelocity(velocity mgl64.Vec3) {
	if rb.body != nil {
		rb.body.SetAngularVelocity(velocity)
		rb.body.Activate()
	}
}

func (rb *RigidBody) SetLinearDamping(power float64) {
	if rb.body != nil {
		_, angular := rb.body.Damping()
		rb.body.SetDamping(power, angular)
	}
}

func (rb *RigidBody) SetAngularDamping(power float64) {
	if rb.body != nil {
		linear, _ := rb.body.Damping()
		rb.body.SetDamping(linear, power)
	}
}

// SetBouncingPower sets the restitution, 0 for no rebound
func (rb *RigidBody) SetBouncingPower(bouncing float64) {
	if rb.body != nil {
		rb.body.SetRestitution(bouncing)
	}
}

func (rb *RigidBody) SetMass(mass float64) {
	if rb.body != nil {
		rb.body.SetMass(mass)
	}
}

func (rb *RigidBody) SetMassCenter(x, y, z float64) {
	if rb.body != nil {
		rb.body.SetMassCenter(mgl64.Vec3{x, y, z})
	}
}

func (rb *RigidBody) SetFriction(friction float64) {
	if rb.body != nil {
		rb.body.SetFriction(friction)
	}
}

// ApplyForce applies a force at the center of mass
func (rb *RigidBody) ApplyForce(force mgl64.Vec3) {
	rb.ApplyForceAt(force, mgl64.Vec3{})
}

// ApplyForceAt applies a force at a local offset from the body origin
func (rb *RigidBody) ApplyForceAt(force, relative mgl64.Vec3) {
	if rb.body != nil {
		rb.body.ApplyForce(force, relative)
		rb.body.Activate()
	}
}

func (rb *RigidBody) ApplyImpulse(impulse mgl64.Vec3) {
	rb.ApplyImpulseAt(impulse, mgl64.Vec3{})
}

func (rb *RigidBody) ApplyImpulseAt(impulse, relative mgl64.Vec3) {
	if rb.body != nil {
		rb.body.ApplyImpulse(impulse, relative)
		rb.body.Activate()
	}
}

func (rb *RigidBody) ApplyTorque(torque mgl64.Vec3) {
	if rb.body != nil {
		rb.body.ApplyTorque(torque)
		rb.body.Activate()
	}
}

func (rb *RigidBody) LinearVelocity() mgl64.Vec3 {
	if rb.body == nil {
		return mgl64.Vec3{}
	}

	return rb.body.LinearVelocity()
}

func (rb *RigidBody) AngularVelocity() mgl64.Vec3 {
	if rb.body == nil {
		return mgl64.Vec3{}
	}

	return rb.body.AngularVelocity()
}

func (rb *RigidBody) TotalForce() mgl64.Vec3 {
	if rb.body == nil {
		return mgl64.Vec3{}
	}

	return rb.body.TotalForce()
}

func (rb *RigidBody) TotalTorque() mgl64.Vec3 {
	if rb.body == nil {
		return mgl64.Vec3{}
	}

	return rb.body.TotalTorque()
}
