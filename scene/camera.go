package scene

import (
	"math"

	"github.com/akmonengine/gimbal/entity"
	"github.com/akmonengine/gimbal/orientation"
	"github.com/go-gl/mathgl/mgl64"
)

// Projection selects how a camera maps view space to clip space
type Projection int

const (
	ProjectionPerspective Projection = iota
	ProjectionOrthographic
)

const (
	DefaultFOV    = 45.0
	DefaultNear   = 0.1
	DefaultFar    = 1000.0
	DefaultWidth  = 640.0
	DefaultHeight = 480.0
)

// flipZ maps the +Z looking view space onto the -Z looking clip convention of mgl64
var flipZ = mgl64.Scale3D(1, 1, -1)

// Frustum planes, in the order they are extracted
const (
	planeLeft = iota
	planeRight
	planeBottom
	planeTop
	planeNear
	planeFar
)

// Camera is an observer placed by its Orientation, looking along LVector.
// The view matrix, the projection and the frustum planes are cached and
// rebuilt on the first read after a change.
type Camera struct {
	entity.Base
	orientation.Orientation

	projectionType Projection
	fov            float64 // vertical, in degrees
	near, far      float64
	width, height  float64

	view       orientation.Cache
	projection orientation.Cache

	frustum      [6]mgl64.Vec4
	frustumValid bool

	scene *Scene
}

// NewCamera creates a perspective camera at the origin looking along +Z
func NewCamera(id uint32) *Camera {
	c := &Camera{
		projectionType: ProjectionPerspective,
		fov:            DefaultFOV,
		near:           DefaultNear,
		far:            DefaultFar,
		width:          DefaultWidth,
		height:         DefaultHeight,
	}
	c.Base = entity.NewBase(id, c.destroy)
	c.Orientation.Init(c)

	return c
}

func (c *Camera) destroy() {
	if c.scene != nil {
		c.scene.Cameras.Remove(c.ID())
		c.scene = nil
	}
}

// OnStateChange drops the view matrix and the frustum
func (c *Camera) OnStateChange(change orientation.StateChange) {
	c.view.Invalidate()
	c.frustumValid = false
}

func (c *Camera) invalidateProjection() {
	c.projection.Invalidate()
	c.frustumValid = false
}

// SetFOV sets the vertical field of view, in degrees
func (c *Camera) SetFOV(fov float64) {
	c.fov = fov
	c.invalidateProjection()
}

func (c *Camera) FOV() float64 {
	return c.fov
}

// SetRange sets the near and far clipping distances
func (c *Camera) SetRange(near, far float64) {
	c.near, c.far = near, far
	c.invalidateProjection()
}

func (c *Camera) Range() (near, far float64) {
	return c.near, c.far
}

// SetSize sets the viewport size; orthographic cameras use it in world units
func (c *Camera) SetSize(width, height float64) {
	c.width, c.height = width, height
	c.invalidateProjection()
}

func (c *Camera) Size() (width, height float64) {
	return c.width, c.height
}

func (c *Camera) SetProjection(projection Projection) {
	c.projectionType = projection
	c.invalidateProjection()
}

func (c *Camera) ProjectionType() Projection {
	return c.projectionType
}

// ViewMatrix is the inverse of the camera world matrix
func (c *Camera) ViewMatrix() mgl64.Mat4 {
	return c.view.Resolve(func() mgl64.Mat4 {
		view := c.ComputeInverseTransformation()
		if c.IsBound() {
			view = view.Mul4(c.BindingMatrix().Inv())
		}
		return view
	})
}

func (c *Camera) ProjectionMatrix() mgl64.Mat4 {
	return c.projection.Resolve(func() mgl64.Mat4 {
		if c.projectionType == ProjectionOrthographic {
			return mgl64.Ortho(-c.width/2, c.width/2, -c.height/2, c.height/2, c.near, c.far).Mul4(flipZ)
		}

		aspect := 1.0
		if c.height != 0 {
			aspect = c.width / c.height
		}
		return mgl64.Perspective(mgl64.DegToRad(c.fov), aspect, c.near, c.far).Mul4(flipZ)
	})
}

// frustumPlanes extracts the six clip planes from projection × view. Each
// plane (a, b, c, d) is normalized with its normal pointing inside.
func (c *Camera) frustumPlanes() *[6]mgl64.Vec4 {
	if c.frustumValid {
		return &c.frustum
	}

	m := c.ProjectionMatrix().Mul4(c.ViewMatrix())
	r0, r1, r2, r3 := m.Row(0), m.Row(1), m.Row(2), m.Row(3)

	c.frustum[planeLeft] = r3.Add(r0)
	c.frustum[planeRight] = r3.Sub(r0)
	c.frustum[planeBottom] = r3.Add(r1)
	c.frustum[planeTop] = r3.Sub(r1)
	c.frustum[planeNear] = r3.Add(r2)
	c.frustum[planeFar] = r3.Sub(r2)

	for i, p := range c.frustum {
		if length := p.Vec3().Len(); length > 0 {
			c.frustum[i] = p.Mul(1 / length)
		}
	}
	c.frustumValid = true

	return &c.frustum
}

func planeDistance(plane mgl64.Vec4, point mgl64.Vec3) float64 {
	return plane.Vec3().Dot(point) + plane.W()
}

// CheckPointInFrustum reports whether point is inside the view volume
func (c *Camera) CheckPointInFrustum(point mgl64.Vec3) bool {
	for _, plane := range c.frustumPlanes() {
		if planeDistance(plane, point) < 0 {
			return false
		}
	}

	return true
}

// CheckSphereInFrustum reports whether the sphere touches the view volume
func (c *Camera) CheckSphereInFrustum(center mgl64.Vec3, radius float64) bool {
	for _, plane := range c.frustumPlanes() {
		if planeDistance(plane, center) < -radius {
			return false
		}
	}

	return true
}

// CheckBoxInFrustum reports whether the axis-aligned box touches the view
// volume. The test is conservative: boxes near a frustum corner may pass.
func (c *Camera) CheckBoxInFrustum(center, halfSize mgl64.Vec3) bool {
	for _, plane := range c.frustumPlanes() {
		radius := math.Abs(plane.X())*halfSize.X() + math.Abs(plane.Y())*halfSize.Y() + math.Abs(plane.Z())*halfSize.Z()
		if planeDistance(plane, center) < -radius {
			return false
		}
	}

	return true
}
