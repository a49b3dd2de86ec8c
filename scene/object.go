package scene

import (
	"math"

	"github.com/akmonengine/gimbal/entity"
	"github.com/akmonengine/gimbal/geometry"
	"github.com/akmonengine/gimbal/orientation"
	"github.com/go-gl/mathgl/mgl64"
)

// Object is a renderable placement of a geometry. Its world matrix is
// binding × transformation × scale.
type Object struct {
	entity.Base
	orientation.Orientation

	geometry    *geometry.Geometry
	scale       mgl64.Vec3
	hidden      bool
	frustumCull bool

	world orientation.Cache
	scene *Scene
}

// NewObject creates a visible, frustum culled object without geometry
func NewObject(id uint32) *Object {
	o := &Object{
		scale:       mgl64.Vec3{1, 1, 1},
		frustumCull: true,
	}
	o.Base = entity.NewBase(id, o.destroy)
	o.Orientation.Init(o)

	return o
}

func (o *Object) destroy() {
	o.SetGeometry(nil)
	if o.scene != nil {
		o.scene.Objects.Remove(o.ID())
		o.scene = nil
	}
}

func (o *Object) OnStateChange(change orientation.StateChange) {
	o.world.Invalidate()
}

// Valid reports whether the object has a live geometry to draw
func (o *Object) Valid() bool {
	return o.geometry != nil && o.geometry.Valid()
}

// SetGeometry references g and releases the previous geometry
func (o *Object) SetGeometry(g *geometry.Geometry) {
	if g != nil {
		g.AddReference()
	}
	if o.geometry != nil {
		o.geometry.RemoveReference()
	}
	o.geometry = g
}

func (o *Object) Geometry() *geometry.Geometry {
	return o.geometry
}

func (o *Object) SetScale(x, y, z float64) {
	o.scale = mgl64.Vec3{x, y, z}
	o.world.Invalidate()
}

func (o *Object) Scale() mgl64.Vec3 {
	return o.scale
}

func (o *Object) Show()        { o.hidden = false }
func (o *Object) Hide()        { o.hidden = true }
func (o *Object) Hidden() bool { return o.hidden }

func (o *Object) EnableFrustumCulling()  { o.frustumCull = true }
func (o *Object) DisableFrustumCulling() { o.frustumCull = false }
func (o *Object) FrustumCulling() bool   { return o.frustumCull }

// WorldMatrix returns the cached binding × transformation × scale matrix
func (o *Object) WorldMatrix() mgl64.Mat4 {
	return o.world.Resolve(func() mgl64.Mat4 {
		m := o.ComputeTransformation().Mul4(mgl64.Scale3D(o.scale.X(), o.scale.Y(), o.scale.Z()))
		if o.IsBound() {
			m = o.BindingMatrix().Mul4(m)
		}
		return m
	})
}

// InCameraView tests the world bounds of the geometry against the camera
// frustum. Objects without geometry are tested as a point.
func (o *Object) InCameraView(cam *Camera) bool {
	world := o.WorldMatrix()
	if !o.Valid() {
		return cam.CheckPointInFrustum(mgl64.TransformCoordinate(mgl64.Vec3{}, world))
	}

	center, halfSize := transformBounds(world, o.geometry.MinPoint(), o.geometry.MaxPoint())
	return cam.CheckBoxInFrustum(center, halfSize)
}

// visible reports whether the object should be drawn for cam
func (o *Object) visible(cam *Camera) bool {
	if o.hidden || !o.Valid() {
		return false
	}

	return !o.frustumCull || o.InCameraView(cam)
}

// transformBounds returns the world AABB, as center and half size, of the
// local box min..max moved by m
func transformBounds(m mgl64.Mat4, min, max mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	lower := mgl64.TransformCoordinate(min, m)
	upper := lower
	for corner := 1; corner < 8; corner++ {
		local := min
		for axis := 0; axis < 3; axis++ {
			if corner&(1<<axis) != 0 {
				local[axis] = max[axis]
			}
		}

		p := mgl64.TransformCoordinate(local, m)
		for axis := 0; axis < 3; axis++ {
			lower[axis] = math.Min(lower[axis], p[axis])
			upper[axis] = math.Max(upper[axis], p[axis])
		}
	}

	return lower.Add(upper).Mul(0.5), upper.Sub(lower).Mul(0.5)
}
