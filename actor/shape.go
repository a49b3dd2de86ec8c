package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ShapeType represents the type of collision shape
type ShapeType int

const (
	ShapeTypeSphere ShapeType = iota
	ShapeTypeBox
	ShapeTypePlane
	ShapeTypeCapsule
	ShapeTypeCylinder
	ShapeTypeCone
	ShapeTypeConvexHull
	ShapeTypeTriangleMesh
)

// ShapeInterface is the interface that all collision shapes must implement
type ShapeInterface interface {
	Type() ShapeType
	// ComputeAABB calculates the axis-aligned bounding box for the shape
	// at the given transform
	ComputeAABB(transform Transform)
	GetAABB() AABB
	ComputeInertia(mass float64) mgl64.Mat3
	// Support returns the furthest local point along a local direction
	Support(direction mgl64.Vec3) mgl64.Vec3
}

type bounds struct {
	aabb AABB
}

func (b *bounds) GetAABB() AABB {
	return b.aabb
}

// supportAABB builds the world AABB of a convex shape from its support
// points along the six world axes.
func supportAABB(shape ShapeInterface, transform Transform) AABB {
	var aabb AABB
	for i := 0; i < 3; i++ {
		var axis mgl64.Vec3
		axis[i] = 1

		maxPoint := transform.ToWorld(shape.Support(transform.InverseRotation.Rotate(axis)))
		minPoint := transform.ToWorld(shape.Support(transform.InverseRotation.Rotate(axis.Mul(-1))))
		aabb.Max[i] = maxPoint[i]
		aabb.Min[i] = minPoint[i]
	}

	return aabb
}

func diagonal(x, y, z float64) mgl64.Mat3 {
	return mgl64.Mat3{
		x, 0, 0,
		0, y, 0,
		0, 0, z,
	}
}

// boxInertia is I = (m/12) * (d1² + d2²) on full dimensions
func boxInertia(mass float64, size mgl64.Vec3) mgl64.Mat3 {
	x, y, z := size.X(), size.Y(), size.Z()
	factor := mass / 12.0

	return diagonal(factor*(y*y+z*z), factor*(x*x+z*z), factor*(x*x+y*y))
}

// cylinderInertia for a solid cylinder along Y of full height h
func cylinderInertia(mass, radius, height float64) mgl64.Mat3 {
	side := mass * (3*radius*radius + height*height) / 12.0

	return diagonal(side, 0.5*mass*radius*radius, side)
}

// Box represents an oriented box collision shape
// The box is defined by its half-extents (half-width, half-height, half-depth)
type Box struct {
	HalfExtents mgl64.Vec3
	bounds
}

func (b *Box) Type() ShapeType {
	return ShapeTypeBox
}

func (b *Box) ComputeAABB(transform Transform) {
	b.aabb = supportAABB(b, transform)
}

func (b *Box) ComputeInertia(mass float64) mgl64.Mat3 {
	return boxInertia(mass, b.HalfExtents.Mul(2))
}

func (b *Box) Support(direction mgl64.Vec3) mgl64.Vec3 {
	hx, hy, hz := b.HalfExtents.X(), b.HalfExtents.Y(), b.HalfExtents.Z()

	if direction.X() < 0 {
		hx = -hx
	}
	if direction.Y() < 0 {
		hy = -hy
	}
	if direction.Z() < 0 {
		hz = -hz
	}

	return mgl64.Vec3{hx, hy, hz}
}

// Sphere represents a spherical collision shape
type Sphere struct {
	Radius float64
	bounds
}

func (s *Sphere) Type() ShapeType {
	return ShapeTypeSphere
}

// ComputeAABB calculates the axis-aligned bounding box for the sphere
func (s *Sphere) ComputeAABB(transform Transform) {
	// Sphere AABB is not affected by rotation, only by position
	radiusVec := mgl64.Vec3{s.Radius, s.Radius, s.Radius}

	s.aabb = AABB{
		Min: transform.Position.Sub(radiusVec),
		Max: transform.Position.Add(radiusVec),
	}
}

func (s *Sphere) ComputeInertia(mass float64) mgl64.Mat3 {
	i := (2.0 / 5.0) * mass * s.Radius * s.Radius

	return diagonal(i, i, i)
}

func (s *Sphere) Support(direction mgl64.Vec3) mgl64.Vec3 {
	if direction.Len() == 0 {
		return mgl64.Vec3{0, -s.Radius, 0}
	}

	return direction.Normalize().Mul(s.Radius)
}

// Capsule is a cylinder capped by two half spheres, aligned on the local Y axis.
// HalfHeight is half the length of the cylindrical part.
type Capsule struct {
	Radius     float64
	HalfHeight float64
	bounds
}

func (c *Capsule) Type() ShapeType {
	return ShapeTypeCapsule
}

func (c *Capsule) ComputeAABB(transform Transform) {
	c.aabb = supportAABB(c, transform)
}

func (c *Capsule) ComputeInertia(mass float64) mgl64.Mat3 {
	return cylinderInertia(mass, c.Radius, 2*(c.HalfHeight+c.Radius))
}

func (c *Capsule) Support(direction mgl64.Vec3) mgl64.Vec3 {
	center := mgl64.Vec3{0, c.HalfHeight, 0}
	if direction.Y() < 0 {
		center = center.Mul(-1)
	}
	if direction.Len() == 0 {
		return center
	}

	return center.Add(direction.Normalize().Mul(c.Radius))
}

// Cylinder is a solid cylinder aligned on the local Y axis
type Cylinder struct {
	Radius     float64
	HalfHeight float64
	bounds
}

func (c *Cylinder) Type() ShapeType {
	return ShapeTypeCylinder
}

func (c *Cylinder) ComputeAABB(transform Transform) {
	c.aabb = supportAABB(c, transform)
}

func (c *Cylinder) ComputeInertia(mass float64) mgl64.Mat3 {
	return cylinderInertia(mass, c.Radius, 2*c.HalfHeight)
}

func (c *Cylinder) Support(direction mgl64.Vec3) mgl64.Vec3 {
	y := c.HalfHeight
	if direction.Y() < 0 {
		y = -y
	}

	radial := mgl64.Vec3{direction.X(), 0, direction.Z()}
	if radial.Len() == 0 {
		return mgl64.Vec3{0, y, 0}
	}
	radial = radial.Normalize().Mul(c.Radius)

	return mgl64.Vec3{radial.X(), y, radial.Z()}
}

// Cone is a solid cone aligned on the local Y axis, apex up, centered on
// half its height
type Cone struct {
	Radius float64
	Height float64
	bounds
}

func (c *Cone) Type() ShapeType {
	return ShapeTypeCone
}

func (c *Cone) ComputeAABB(transform Transform) {
	c.aabb = supportAABB(c, transform)
}

func (c *Cone) ComputeInertia(mass float64) mgl64.Mat3 {
	side := mass * (3.0/80.0*c.Height*c.Height + 3.0/20.0*c.Radius*c.Radius)

	return diagonal(side, 3.0/10.0*mass*c.Radius*c.Radius, side)
}

func (c *Cone) Support(direction mgl64.Vec3) mgl64.Vec3 {
	half := c.Height / 2
	length := direction.Len()
	if length == 0 {
		return mgl64.Vec3{0, -half, 0}
	}

	sinAngle := c.Radius / math.Sqrt(c.Radius*c.Radius+c.Height*c.Height)
	if direction.Y()/length > sinAngle {
		return mgl64.Vec3{0, half, 0}
	}

	radial := mgl64.Vec3{direction.X(), 0, direction.Z()}
	if radial.Len() == 0 {
		return mgl64.Vec3{0, -half, 0}
	}
	radial = radial.Normalize().Mul(c.Radius)

	return mgl64.Vec3{radial.X(), -half, radial.Z()}
}

// ConvexHull is the convex hull of a point cloud in local space
type ConvexHull struct {
	Points []mgl64.Vec3
	bounds
}

func (h *ConvexHull) Type() ShapeType {
	return ShapeTypeConvexHull
}

func (h *ConvexHull) ComputeAABB(transform Transform) {
	h.aabb = supportAABB(h, transform)
}

// ComputeInertia approximates the hull by its local bounding box
func (h *ConvexHull) ComputeInertia(mass float64) mgl64.Mat3 {
	size := h.Support(mgl64.Vec3{1, 0, 0}).X() - h.Support(mgl64.Vec3{-1, 0, 0}).X()
	sizeY := h.Support(mgl64.Vec3{0, 1, 0}).Y() - h.Support(mgl64.Vec3{0, -1, 0}).Y()
	sizeZ := h.Support(mgl64.Vec3{0, 0, 1}).Z() - h.Support(mgl64.Vec3{0, 0, -1}).Z()

	return boxInertia(mass, mgl64.Vec3{size, sizeY, sizeZ})
}

func (h *ConvexHull) Support(direction mgl64.Vec3) mgl64.Vec3 {
	return furthestPoint(h.Points, direction)
}

// TriangleMesh is a static triangle soup in local space
type TriangleMesh struct {
	Triangles [][3]mgl64.Vec3
	bounds
}

func (m *TriangleMesh) Type() ShapeType {
	return ShapeTypeTriangleMesh
}

func (m *TriangleMesh) ComputeAABB(transform Transform) {
	m.aabb = supportAABB(m, transform)
}

// ComputeInertia is zero: triangle meshes are always static
func (m *TriangleMesh) ComputeInertia(mass float64) mgl64.Mat3 {
	return mgl64.Mat3{}
}

func (m *TriangleMesh) Support(direction mgl64.Vec3) mgl64.Vec3 {
	best := mgl64.Vec3{}
	bestDot := math.Inf(-1)
	for _, tri := range m.Triangles {
		for _, p := range tri {
			if d := p.Dot(direction); d > bestDot {
				bestDot = d
				best = p
			}
		}
	}

	return best
}

func furthestPoint(points []mgl64.Vec3, direction mgl64.Vec3) mgl64.Vec3 {
	best := mgl64.Vec3{}
	bestDot := math.Inf(-1)
	for _, p := range points {
		if d := p.Dot(direction); d > bestDot {
			bestDot = d
			best = p
		}
	}

	return best
}

// Plane represents an infinite plane collision shape
// The plane is defined by the equation: Normal · p + Distance = 0
// where Normal is the plane's normal vector (must be normalized)
// and Distance is the signed distance from the origin along the normal
type Plane struct {
	Normal   mgl64.Vec3 // Plane normal (must be normalized)
	Distance float64    // Plane constant (signed distance from origin)
	bounds
}

func (p *Plane) Type() ShapeType {
	return ShapeTypePlane
}

func (p *Plane) ComputeAABB(transform Transform) {
	const thickness = 1.0
	const infinity = 1e10

	// Point on the plane closest to the origin
	planePoint := p.Normal.Mul(-p.Distance)

	min := planePoint.Sub(p.Normal.Mul(thickness)).Add(transform.Position)
	max := planePoint.Add(transform.Position)

	// Extend the AABB to infinity in directions not aligned with the normal
	for i := 0; i < 3; i++ {
		if math.Abs(p.Normal[i]) < 1.0 {
			min[i] = -infinity
			max[i] = infinity
		}
	}

	p.aabb = AABB{Min: min, Max: max}
}

func (p *Plane) ComputeInertia(mass float64) mgl64.Mat3 {
	return mgl64.Mat3{}
}

// Support treats the plane as a thin 2000x2000 slab below its surface
func (p *Plane) Support(direction mgl64.Vec3) mgl64.Vec3 {
	const halfWidth = 1000.0
	const halfHeight = 0.5

	support := mgl64.Vec3{halfWidth, 0, halfWidth}
	if direction.X() < 0 {
		support[0] = -halfWidth
	}
	if direction.Y() <= 0 {
		support[1] = -halfHeight
	}
	if direction.Z() < 0 {
		support[2] = -halfWidth
	}

	return support
}
