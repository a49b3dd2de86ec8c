// Package scene holds the entities a renderer draws: objects placing
// geometries, cameras and particle systems. Each one embeds an Orientation
// and keeps its own matrices, refreshed through OnStateChange.
package scene

import (
	"github.com/akmonengine/gimbal/entity"
	"github.com/akmonengine/gimbal/geometry"
	"github.com/go-gl/mathgl/mgl64"
	log "github.com/sirupsen/logrus"
)

// Scene owns the registries of every scene entity. Entities created through
// the scene leave their registry when their last reference is removed.
type Scene struct {
	Objects    *entity.Registry[*Object]
	Cameras    *entity.Registry[*Camera]
	Particles  *entity.Registry[*Particles]
	Geometries *entity.Registry[*geometry.Geometry]
}

func New() *Scene {
	return &Scene{
		Objects:    entity.NewRegistry[*Object](),
		Cameras:    entity.NewRegistry[*Camera](),
		Particles:  entity.NewRegistry[*Particles](),
		Geometries: entity.NewRegistry[*geometry.Geometry](),
	}
}

func (s *Scene) CreateObject() *Object {
	o := NewObject(s.Objects.NextID())
	o.scene = s
	// NextID never returns an ID in use
	_ = s.Objects.Add(o)

	return o
}

func (s *Scene) CreateCamera() *Camera {
	c := NewCamera(s.Cameras.NextID())
	c.scene = s
	_ = s.Cameras.Add(c)

	return c
}

func (s *Scene) CreateParticles() *Particles {
	p := NewParticles(s.Particles.NextID())
	p.scene = s
	_ = s.Particles.Add(p)

	return p
}

// CreateBox creates and registers a named box geometry
func (s *Scene) CreateBox(name string, halfExtents mgl64.Vec3) (*geometry.Geometry, error) {
	g, err := geometry.NewBox(s.Geometries.NextID(), halfExtents)
	if err != nil {
		return nil, err
	}
	g.SetName(name)

	return g, s.AddGeometry(g)
}

// AddGeometry registers g; the scene keeps the creator's reference
func (s *Scene) AddGeometry(g *geometry.Geometry) error {
	if err := s.Geometries.Add(g); err != nil {
		log.WithError(err).WithField("name", g.Name()).Warn("geometry not added")
		return err
	}

	return nil
}

// RemoveGeometry unregisters g and drops the scene reference. Objects still
// using g keep it alive.
func (s *Scene) RemoveGeometry(g *geometry.Geometry) {
	if registered, ok := s.Geometries.Get(g.ID()); !ok || registered != g {
		return
	}
	s.Geometries.Remove(g.ID())
	g.RemoveReference()
}

// Visible returns the objects to draw for cam, in ID order
func (s *Scene) Visible(cam *Camera) []*Object {
	var visible []*Object
	s.Objects.Each(func(o *Object) {
		if o.visible(cam) {
			visible = append(visible, o)
		}
	})

	return visible
}

// VisibleParticles returns the particle systems to draw for cam, in ID order
func (s *Scene) VisibleParticles(cam *Camera) []*Particles {
	var visible []*Particles
	s.Particles.Each(func(p *Particles) {
		if p.visible(cam) {
			visible = append(visible, p)
		}
	})

	return visible
}
