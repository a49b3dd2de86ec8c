package rigidbody

import (
	"fmt"

	"github.com/akmonengine/gimbal/geometry"
	"github.com/akmonengine/gimbal/persist"
	"github.com/go-gl/mathgl/mgl64"
)

// GeometrySource resolves the geometry names stored in saved rigid bodies.
// entity.Registry[*geometry.Geometry] satisfies it.
type GeometrySource interface {
	ByName(name string) (*geometry.Geometry, bool)
}

// Save writes the saved create info and the current physical properties.
// It fails with ErrNotValid unless the body was created with saveInfo.
func (rb *RigidBody) Save(w *persist.Writer) error {
	if rb.body == nil || rb.saved == nil {
		return ErrNotValid
	}

	var geometryName persist.Name
	if rb.saved.Geometry != nil {
		name, err := persist.NewName(rb.saved.Geometry.Name())
		if err != nil {
			return err
		}
		geometryName = name
	}

	linear, angular := rb.body.Damping()
	record := persist.RigidBodyRecord{
		Shape:          uint32(rb.saved.Shape),
		IsTriangleList: rb.saved.IsTriangleList,
		Mass:           rb.saved.Mass,
		Dimensions:     rb.saved.Dimensions,
		Initial:        persist.NewOrientationRecord(rb.saved.InitialPosition, rb.saved.InitialRotation),
		GeometryName:   geometryName,
		LinearDamping:  linear,
		AngularDamping: angular,
		Restitution:    rb.body.Restitution(),
		BodyMass:       rb.body.Mass(),
		MassCenter:     rb.body.MassCenter(),
		Friction:       rb.body.Friction(),
	}

	return w.Write(&record)
}

// Load reads a record written by Save, recreates the body and restores its
// physical properties. Geometries are shared through geometries, never copied.
func (rb *RigidBody) Load(r *persist.Reader, geometries GeometrySource, saveInfo bool) error {
	var record persist.RigidBodyRecord
	if err := r.Read(&record); err != nil {
		return err
	}

	info := CreateInfo{
		Shape:           Shape(record.Shape),
		Mass:            record.Mass,
		Dimensions:      record.Dimensions,
		IsTriangleList:  record.IsTriangleList,
		InitialPosition: record.Initial.Vec3(),
		InitialRotation: record.Initial.Quat(),
	}
	if name := record.GeometryName.String(); name != "" {
		g, ok := geometries.ByName(name)
		if !ok {
			return fmt.Errorf("%w: geometry %q not found", ErrInvalidParam, name)
		}
		info.Geometry = g
	}

	if err := rb.Create(info, saveInfo); err != nil {
		return err
	}

	rb.body.SetDamping(record.LinearDamping, record.AngularDamping)
	rb.body.SetRestitution(record.Restitution)
	if record.BodyMass != info.Mass {
		rb.body.SetMass(record.BodyMass)
	}
	rb.body.SetMassCenter(mgl64.Vec3(record.MassCenter))
	rb.body.SetFriction(record.Friction)

	return nil
}
