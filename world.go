package gimbal

import (
	"errors"

	"github.com/akmonengine/gimbal/actor"
	"github.com/akmonengine/gimbal/config"
	"github.com/akmonengine/gimbal/constraint"
	"github.com/akmonengine/gimbal/rigidbody"
	"github.com/go-gl/mathgl/mgl64"
	log "github.com/sirupsen/logrus"
)

const DEFAULT_WORKERS = 1

var (
	ErrNoShape       = errors.New("gimbal: body description has no shape")
	ErrForeignBody   = errors.New("gimbal: body does not belong to this world")
	ErrNotNormalized = errors.New("gimbal: plane normal has zero length")
)

// World is a small XPBD simulation: dynamic bodies fall under gravity and
// collide with static planes. It implements rigidbody.Simulation.
type World struct {
	// List of all rigid bodies in the world, planes included
	Bodies []*actor.RigidBody
	// Gravity acceleration (m/s², or N/kg)
	Gravity  mgl64.Vec3
	Substeps int
	Workers  int

	// A body sleeps once its velocities stay under SleepVelocity for SleepTime seconds
	SleepTime     float64
	SleepVelocity float64

	Events Events
}

var _ rigidbody.Simulation = (*World)(nil)

// NewWorld creates an empty world from the physics configuration
func NewWorld(cfg config.PhysicsConfiguration) *World {
	return &World{
		Gravity:       mgl64.Vec3(cfg.Gravity),
		Substeps:      cfg.Substeps,
		Workers:       cfg.Workers,
		SleepTime:     cfg.SleepTime,
		SleepVelocity: cfg.SleepVelocity,
		Events:        NewEvents(),
	}
}

// AddBody adds a rigid body to the world
func (w *World) AddBody(body *actor.RigidBody) {
	w.Bodies = append(w.Bodies, body)
}

// RemoveBody removes a rigid body from the world
func (w *World) RemoveBody(body *actor.RigidBody) {
	k := -1
	for i, b := range w.Bodies {
		if b == body {
			k = i
			break
		}
	}

	if k != -1 {
		w.Bodies = append(w.Bodies[:k], w.Bodies[k+1:]...)
	}

	if w.Events.sleepStates != nil {
		w.Events.forget(body)
	}
}

// AddPlane adds a static plane normal·p + distance = 0
func (w *World) AddPlane(normal mgl64.Vec3, distance, restitution, friction float64) (*actor.RigidBody, error) {
	if normal.Len() == 0 {
		return nil, ErrNotNormalized
	}

	plane := actor.NewRigidBody(
		actor.NewTransform(mgl64.Vec3{}, mgl64.QuatIdent()),
		&actor.Plane{Normal: normal.Normalize(), Distance: distance},
		0,
	)
	plane.Material.Restitution = restitution
	plane.Material.Friction = friction
	w.AddBody(plane)

	log.WithFields(log.Fields{
		"normal":   normal,
		"distance": distance,
	}).Debug("plane added")

	return plane, nil
}

// CreateBody adds a body described by desc and returns its handle
func (w *World) CreateBody(desc rigidbody.BodyDesc) (rigidbody.Body, error) {
	if desc.Shape == nil {
		return nil, ErrNoShape
	}

	body := actor.NewRigidBody(actor.NewTransform(desc.Position, desc.Rotation), desc.Shape, desc.Mass)
	body.Material.Restitution = desc.Restitution
	body.Material.Friction = desc.Friction
	body.Material.LinearDamping = desc.LinearDamping
	body.Material.AngularDamping = desc.AngularDamping
	w.AddBody(body)

	log.WithFields(log.Fields{
		"shape":  body.Shape.Type(),
		"static": body.BodyType == actor.BodyTypeStatic,
		"bodies": len(w.Bodies),
	}).Debug("body created")

	return &Handle{world: w, body: body}, nil
}

// DestroyBody removes a body created by this world; other bodies are ignored
func (w *World) DestroyBody(body rigidbody.Body) {
	h, ok := body.(*Handle)
	if !ok || h.world != w {
		log.WithError(ErrForeignBody).Warn("body not destroyed")
		return
	}

	w.RemoveBody(h.body)
	h.world = nil
	log.WithField("bodies", len(w.Bodies)).Debug("body destroyed")
}

func (w *World) Step(dt float64) {
	if w.Events.listeners == nil {
		w.Events = NewEvents()
	}
	w.Workers = max(DEFAULT_WORKERS, w.Workers)
	substeps := max(1, w.Substeps)
	h := dt / float64(substeps)

	planes := w.planes()
	indices := make([]int, len(w.Bodies))
	for i := range indices {
		indices[i] = i
	}

	for _i := 0; _i < substeps; _i++ {
		w.integrate(h)

		// Phase 2: one contact list per body, so the solver can run bodies in parallel
		contacts := w.detectCollision(indices, planes)

		w.Events.recordCollisions(contacts)

		// Phase 3: Solver, only one iteration is required thanks to substeps
		w.solvePosition(h, contacts)

		// Phase 4: Update Position & Velocity
		// Calculate final velocities and commit positions
		w.update(h)

		// Phase 5: Velocity
		w.solveVelocity(h, contacts)

		w.trySleep(h)
	}

	w.Events.processSleepEvents(w.Bodies)
	w.Events.flush()
}

func (w *World) planes() []worldPlane {
	var planes []worldPlane
	for _, body := range w.Bodies {
		if plane, ok := newWorldPlane(body); ok {
			planes = append(planes, plane)
		}
	}

	return planes
}

func (w *World) integrate(h float64) {
	task(w.Workers, w.Bodies, func(body *actor.RigidBody) {
		body.Integrate(h, w.Gravity)
	})
}

func (w *World) detectCollision(indices []int, planes []worldPlane) [][]*constraint.PlaneContact {
	contacts := make([][]*constraint.PlaneContact, len(w.Bodies))
	task(w.Workers, indices, func(i int) {
		contacts[i] = collidePlanes(w.Bodies[i], planes)
	})

	return contacts
}

func (w *World) solvePosition(h float64, contacts [][]*constraint.PlaneContact) {
	task(w.Workers, contacts, func(bodyContacts []*constraint.PlaneContact) {
		for _, c := range bodyContacts {
			c.SolvePosition(h)
		}
	})
}

func (w *World) update(h float64) {
	task(w.Workers, w.Bodies, func(body *actor.RigidBody) {
		body.Update(h)
	})
}

func (w *World) solveVelocity(h float64, contacts [][]*constraint.PlaneContact) {
	task(w.Workers, contacts, func(bodyContacts []*constraint.PlaneContact) {
		for _, c := range bodyContacts {
			c.SolveVelocity(h)
		}
	})
}

// trySleep sets the body to sleep if its velocity is lower than the threshold, for a given duration
// this method is too simple to use a task, it slows down in multiple goroutines
func (w *World) trySleep(h float64) {
	for _, body := range w.Bodies {
		body.TrySleep(h, w.SleepTime, w.SleepVelocity)
	}
}
