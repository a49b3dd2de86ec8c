package gimbal

import (
	"github.com/akmonengine/gimbal/actor"
	"github.com/akmonengine/gimbal/constraint"
	"github.com/go-gl/mathgl/mgl64"
)

// worldPlane is a static plane expressed in world space
type worldPlane struct {
	body     *actor.RigidBody
	normal   mgl64.Vec3
	distance float64
}

// newWorldPlane moves the local plane equation of a plane body by its transform
func newWorldPlane(planeBody *actor.RigidBody) (worldPlane, bool) {
	plane, ok := planeBody.Shape.(*actor.Plane)
	if !ok {
		return worldPlane{}, false
	}

	normal := planeBody.Transform.Rotation.Rotate(plane.Normal).Normalize()
	return worldPlane{
		body:     planeBody,
		normal:   normal,
		distance: plane.Distance - normal.Dot(planeBody.Transform.Position),
	}, true
}

// collidePlanes returns the contacts of one body against every plane. The
// AABB rejects most bodies; the support point along -normal gives the deepest
// point of convex shapes.
func collidePlanes(body *actor.RigidBody, planes []worldPlane) []*constraint.PlaneContact {
	if body.BodyType == actor.BodyTypeStatic {
		return nil
	}

	var contacts []*constraint.PlaneContact
	aabb := body.Shape.GetAABB()
	for _, plane := range planes {
		if !aabb.BelowPlane(plane.normal, plane.distance) {
			continue
		}

		point := body.SupportWorld(plane.normal.Mul(-1))
		penetration := -(plane.normal.Dot(point) + plane.distance)
		if penetration <= 0 {
			continue
		}

		contacts = append(contacts, &constraint.PlaneContact{
			Body:   body,
			Plane:  plane.body,
			Normal: plane.normal,
			Points: []constraint.ContactPoint{{Position: point, Penetration: penetration}},
		})
	}

	return contacts
}
