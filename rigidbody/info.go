package rigidbody

import (
	"errors"
	"fmt"

	"github.com/akmonengine/gimbal/actor"
	"github.com/akmonengine/gimbal/geometry"
	"github.com/akmonengine/gimbal/orientation"
	"github.com/go-gl/mathgl/mgl64"
)

var (
	ErrInvalidParam = errors.New("rigidbody: invalid parameter")
	ErrNotValid     = errors.New("rigidbody: no simulated body")
)

// Shape selects the collision shape built from a CreateInfo
type Shape uint32

const (
	// ShapeCube uses Dimensions as half extents
	ShapeCube Shape = iota
	// ShapeSphere uses Dimensions.X as radius
	ShapeSphere
	// ShapeCapsule uses Dimensions.X as the distance between the cap centers and Dimensions.Y as radius
	ShapeCapsule
	// ShapeCylinder uses Dimensions.X as radius and Dimensions.Y as full height
	ShapeCylinder
	// ShapeCone uses Dimensions.X as height and Dimensions.Y as base radius
	ShapeCone
	// ShapeConvex is the convex hull of the geometry vertices
	ShapeConvex
	// ShapeMesh is a static triangle mesh built from the geometry
	ShapeMesh
)

var shapeNames = [...]string{"cube", "sphere", "capsule", "cylinder", "cone", "convex", "mesh"}

func (s Shape) String() string {
	if int(s) < len(shapeNames) {
		return shapeNames[s]
	}

	return fmt.Sprintf("shape(%d)", uint32(s))
}

// CreateInfo describes a rigid body to create
type CreateInfo struct {
	Shape      Shape
	Mass       float64
	Dimensions mgl64.Vec3

	// Geometry is required for ShapeConvex and ShapeMesh
	Geometry *geometry.Geometry
	// IsTriangleList reads the mesh through its index buffer; otherwise the
	// vertices are read as a triangle strip
	IsTriangleList bool

	// Orientation, when set, overrides InitialPosition and InitialRotation
	Orientation     *orientation.Orientation
	InitialPosition mgl64.Vec3
	InitialRotation mgl64.Quat
}

// Validate checks the shape preconditions without allocating anything
func (info CreateInfo) Validate() error {
	if info.Mass < 0 {
		return fmt.Errorf("%w: negative mass %v", ErrInvalidParam, info.Mass)
	}
	if info.Shape > ShapeMesh {
		return fmt.Errorf("%w: unknown %v", ErrInvalidParam, info.Shape)
	}
	if info.Shape != ShapeConvex && info.Shape != ShapeMesh {
		return nil
	}

	if info.Geometry == nil || !info.Geometry.Valid() {
		return fmt.Errorf("%w: %v shape requires a geometry", ErrInvalidParam, info.Shape)
	}
	if _, ok := info.Geometry.VertexDescription().Offset(geometry.AttributePosition); !ok {
		return fmt.Errorf("%w: geometry has no %s attribute", ErrInvalidParam, geometry.AttributePosition)
	}
	if info.Shape == ShapeMesh {
		if info.IsTriangleList && info.Geometry.NumIndices() <= 0 {
			return fmt.Errorf("%w: triangle list mesh without indices", ErrInvalidParam)
		}
		if !info.IsTriangleList && info.Geometry.NumVertices() < 3 {
			return fmt.Errorf("%w: triangle strip needs at least 3 vertices", ErrInvalidParam)
		}
	}

	return nil
}

// placement resolves the initial world transform
func (info CreateInfo) placement() (mgl64.Vec3, mgl64.Quat) {
	if info.Orientation != nil {
		return info.Orientation.Position(), info.Orientation.Rotation()
	}
	if info.InitialRotation.Len() == 0 {
		return info.InitialPosition, mgl64.QuatIdent()
	}

	return info.InitialPosition, info.InitialRotation
}

// shape builds the collision shape and the effective mass: meshes are always static
func (info CreateInfo) shape() (actor.ShapeInterface, float64, error) {
	d := info.Dimensions

	switch info.Shape {
	case ShapeCube:
		return &actor.Box{HalfExtents: d}, info.Mass, nil
	case ShapeSphere:
		return &actor.Sphere{Radius: d.X()}, info.Mass, nil
	case ShapeCapsule:
		return &actor.Capsule{Radius: d.Y(), HalfHeight: d.X() / 2}, info.Mass, nil
	case ShapeCylinder:
		return &actor.Cylinder{Radius: d.X(), HalfHeight: d.Y() / 2}, info.Mass, nil
	case ShapeCone:
		return &actor.Cone{Radius: d.Y(), Height: d.X()}, info.Mass, nil
	case ShapeConvex:
		points, err := info.Geometry.Positions()
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %w", ErrInvalidParam, err)
		}
		return &actor.ConvexHull{Points: points}, info.Mass, nil
	case ShapeMesh:
		triangles, err := info.triangles()
		if err != nil {
			return nil, 0, err
		}
		return &actor.TriangleMesh{Triangles: triangles}, 0, nil
	}

	return nil, 0, fmt.Errorf("%w: unknown %v", ErrInvalidParam, info.Shape)
}

func (info CreateInfo) triangles() ([][3]mgl64.Vec3, error) {
	points, err := info.Geometry.Positions()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParam, err)
	}

	if !info.IsTriangleList {
		triangles := make([][3]mgl64.Vec3, 0, len(points)-2)
		for i := 0; i+2 < len(points); i++ {
			triangles = append(triangles, [3]mgl64.Vec3{points[i], points[i+1], points[i+2]})
		}
		return triangles, nil
	}

	indices := info.Geometry.Indices()
	triangles := make([][3]mgl64.Vec3, 0, len(indices)/3)
	for i := 0; i+2 < len(indices); i += 3 {
		triangles = append(triangles, [3]mgl64.Vec3{points[indices[i]], points[indices[i+1]], points[indices[i+2]]})
	}

	return triangles, nil
}
