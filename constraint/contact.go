package constraint

import (
	"math"

	"github.com/akmonengine/gimbal/actor"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// DefaultCompliance controls soft constraint stiffness for contact resolution.
	// Lower values = stiffer contacts (less penetration, potential jitter)
	// Higher values = softer contacts (more penetration, smoother)
	DefaultCompliance = 1e-7

	// RestingSpeed is the approach speed under which a contact does not bounce
	RestingSpeed = 0.2
)

type ContactPoint struct {
	Position    mgl64.Vec3
	Penetration float64
}

// PlaneContact is a contact between a body and a static plane. Normal points
// out of the plane, toward the body.
type PlaneContact struct {
	Body   *actor.RigidBody
	Plane  *actor.RigidBody
	Points []ContactPoint
	Normal mgl64.Vec3
}

func (c *PlaneContact) active() bool {
	return len(c.Points) > 0 && c.Body.BodyType != actor.BodyTypeStatic && !c.Body.IsSleeping
}

func (c *PlaneContact) deepest() float64 {
	penetration := 0.0
	for _, point := range c.Points {
		penetration = math.Max(penetration, point.Penetration)
	}

	return penetration
}

// SolvePosition pushes the body out of the plane along the normal (PBD style)
func (c *PlaneContact) SolvePosition(dt float64) {
	if !c.active() {
		return
	}

	penetration := c.deepest()
	if penetration <= 1e-8 {
		return
	}

	invMass := c.Body.Material.InverseMass()
	if invMass <= 1e-8 {
		return
	}

	alphaTilde := DefaultCompliance / (dt * dt)
	deltaLambda := penetration / (invMass + alphaTilde)

	c.Body.Transform.Position = c.Body.Transform.Position.Add(c.Normal.Mul(deltaLambda * invMass))
	c.Body.Shape.ComputeAABB(c.Body.Transform)
}

// SolveVelocity applies restitution along the normal and Coulomb friction
// along the plane, both on the linear velocity
func (c *PlaneContact) SolveVelocity(dt float64) {
	if !c.active() {
		return
	}

	body := c.Body
	normalVel := body.Velocity.Dot(c.Normal)
	normalVelPrev := body.PresolveVelocity.Dot(c.Normal)

	restitution := ComputeRestitution(body.Material, c.Plane.Material)
	if math.Abs(normalVelPrev) < RestingSpeed {
		restitution = 0
	}

	targetVel := math.Max(-restitution*normalVelPrev, 0)
	deltaV := targetVel - normalVel

	// never pull the body toward the plane
	if deltaV < 0 {
		deltaV = 0
	}
	body.Velocity = body.Velocity.Add(c.Normal.Mul(deltaV))

	if deltaV > 0 {
		tangentVel := body.Velocity.Sub(c.Normal.Mul(body.Velocity.Dot(c.Normal)))
		tangentSpeed := tangentVel.Len()

		if tangentSpeed > 1e-6 {
			maxFriction := ComputeFriction(body.Material, c.Plane.Material) * deltaV
			if tangentSpeed <= maxFriction {
				body.Velocity = body.Velocity.Sub(tangentVel)
			} else {
				body.Velocity = body.Velocity.Sub(tangentVel.Mul(maxFriction / tangentSpeed))
			}
		}
	}

	clampSmallVelocities(body)
}
