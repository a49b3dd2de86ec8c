package rigidbody

import (
	"github.com/akmonengine/gimbal/config"
	"github.com/go-gl/mathgl/mgl64"
)

// fakeBody records what the adapter asks of the simulation
type fakeBody struct {
	desc     BodyDesc
	position mgl64.Vec3
	rotation mgl64.Quat

	setTransformCalls int
	activateCalls     int

	velocity, angularVelocity mgl64.Vec3
	linearDamping             float64
	angularDamping            float64
	restitution               float64
	friction                  float64
	mass                      float64
	massCenter                mgl64.Vec3
	force, torque             mgl64.Vec3
}

func (b *fakeBody) WorldTransform() (mgl64.Vec3, mgl64.Quat) { return b.position, b.rotation }

func (b *fakeBody) SetWorldTransform(position mgl64.Vec3, rotation mgl64.Quat) {
	b.setTransformCalls++
	b.position = position
	b.rotation = rotation
}

func (b *fakeBody) Activate()                                 { b.activateCalls++ }
func (b *fakeBody) LinearVelocity() mgl64.Vec3                { return b.velocity }
func (b *fakeBody) SetLinearVelocity(velocity mgl64.Vec3)     { b.velocity = velocity }
func (b *fakeBody) AngularVelocity() mgl64.Vec3               { return b.angularVelocity }
func (b *fakeBody) SetAngularVelocity(velocity mgl64.Vec3)    { b.angularVelocity = velocity }
func (b *fakeBody) Damping() (float64, float64)               { return b.linearDamping, b.angularDamping }
func (b *fakeBody) Restitution() float64                      { return b.restitution }
func (b *fakeBody) SetRestitution(restitution float64)        { b.restitution = restitution }
func (b *fakeBody) Friction() float64                         { return b.friction }
func (b *fakeBody) SetFriction(friction float64)              { b.friction = friction }
func (b *fakeBody) Mass() float64                             { return b.mass }
func (b *fakeBody) SetMass(mass float64)                      { b.mass = mass }
func (b *fakeBody) MassCenter() mgl64.Vec3                    { return b.massCenter }
func (b *fakeBody) SetMassCenter(center mgl64.Vec3)           { b.massCenter = center }
func (b *fakeBody) ApplyForce(force, relative mgl64.Vec3)     { b.force = b.force.Add(force) }
func (b *fakeBody) ApplyImpulse(impulse, relative mgl64.Vec3) { b.velocity = b.velocity.Add(impulse) }
func (b *fakeBody) ApplyTorque(torque mgl64.Vec3)             { b.torque = b.torque.Add(torque) }
func (b *fakeBody) TotalForce() mgl64.Vec3                    { return b.force }
func (b *fakeBody) TotalTorque() mgl64.Vec3                   { return b.torque }

func (b *fakeBody) SetDamping(linear, angular float64) {
	b.linearDamping, b.angularDamping = linear, angular
}

type fakeSimulation struct {
	created   []*fakeBody
	destroyed []*fakeBody
}

func (s *fakeSimulation) CreateBody(desc BodyDesc) (Body, error) {
	b := &fakeBody{
		desc:           desc,
		position:       desc.Position,
		rotation:       desc.Rotation,
		restitution:    desc.Restitution,
		friction:       desc.Friction,
		linearDamping:  desc.LinearDamping,
		angularDamping: desc.AngularDamping,
		mass:           desc.Mass,
	}
	s.created = append(s.created, b)

	return b, nil
}

func (s *fakeSimulation) DestroyBody(body Body) {
	s.destroyed = append(s.destroyed, body.(*fakeBody))
}

func (s *fakeSimulation) last() *fakeBody {
	return s.created[len(s.created)-1]
}

var testDefaults = config.Default().RigidBody

// fakeTarget counts references and keeps the last transform it received
type fakeTarget struct {
	adds, removes int
	position      mgl64.Vec3
	rotation      mgl64.Quat
}

func (t *fakeTarget) AddReference()                   { t.adds++ }
func (t *fakeTarget) RemoveReference()                { t.removes++ }
func (t *fakeTarget) SetPosition(position mgl64.Vec3) { t.position = position }
func (t *fakeTarget) SetAngle(rotation mgl64.Quat)    { t.rotation = rotation }
