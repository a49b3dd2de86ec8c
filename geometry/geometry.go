package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/akmonengine/gimbal/entity"
	"github.com/go-gl/mathgl/mgl64"
)

// AttributePosition is the name of the vertex attribute holding positions
const AttributePosition = "position"

var (
	ErrNoPosition    = errors.New("geometry: vertex description has no position attribute")
	ErrInvalidLayout = errors.New("geometry: vertex data does not match the description")
)

// Attribute is one vertex attribute, Size is in float32 components
type Attribute struct {
	Name string
	Size int
}

// VertexDescription lists the interleaved attributes of a vertex
type VertexDescription struct {
	Attributes []Attribute
}

// Stride is the vertex size in float32 components
func (d VertexDescription) Stride() int {
	stride := 0
	for _, a := range d.Attributes {
		stride += a.Size
	}

	return stride
}

// Offset returns the component offset of the named attribute
func (d VertexDescription) Offset(name string) (int, bool) {
	offset := 0
	for _, a := range d.Attributes {
		if a.Name == name {
			return offset, true
		}
		offset += a.Size
	}

	return 0, false
}

// Geometry is a reference-counted vertex/index buffer pair kept in memory
type Geometry struct {
	entity.Base

	description VertexDescription
	vertices    []float32
	indices     []uint32
	min, max    mgl64.Vec3
}

// New creates a geometry holding one reference. The vertex slice must contain
// whole vertices, and every index must address an existing vertex.
func New(id uint32, description VertexDescription, vertices []float32, indices []uint32) (*Geometry, error) {
	stride := description.Stride()
	if stride <= 0 || len(vertices)%stride != 0 {
		return nil, fmt.Errorf("%w: %d components for stride %d", ErrInvalidLayout, len(vertices), stride)
	}
	numVertices := uint32(len(vertices) / stride)
	for _, i := range indices {
		if i >= numVertices {
			return nil, fmt.Errorf("%w: index %d out of %d vertices", ErrInvalidLayout, i, numVertices)
		}
	}

	g := &Geometry{
		description: description,
		vertices:    vertices,
		indices:     indices,
	}
	g.Base = entity.NewBase(id, g.destroy)
	g.computeBounds()

	return g, nil
}

func (g *Geometry) destroy() {
	g.vertices = nil
	g.indices = nil
}

// Valid reports whether the geometry still owns its buffers
func (g *Geometry) Valid() bool {
	return g.vertices != nil
}

func (g *Geometry) VertexDescription() VertexDescription {
	return g.description
}

func (g *Geometry) NumVertices() int {
	stride := g.description.Stride()
	if stride == 0 {
		return 0
	}

	return len(g.vertices) / stride
}

func (g *Geometry) NumIndices() int {
	return len(g.indices)
}

// Indices returns the index buffer; callers must not modify it
func (g *Geometry) Indices() []uint32 {
	return g.indices
}

// Positions reads the position attribute of every vertex
func (g *Geometry) Positions() ([]mgl64.Vec3, error) {
	offset, ok := g.description.Offset(AttributePosition)
	if !ok {
		return nil, ErrNoPosition
	}
	stride := g.description.Stride()

	positions := make([]mgl64.Vec3, g.NumVertices())
	for i := range positions {
		base := i*stride + offset
		positions[i] = mgl64.Vec3{
			float64(g.vertices[base]),
			float64(g.vertices[base+1]),
			float64(g.vertices[base+2]),
		}
	}

	return positions, nil
}

// MinPoint is the lower corner of the local bounding box
func (g *Geometry) MinPoint() mgl64.Vec3 {
	return g.min
}

// MaxPoint is the upper corner of the local bounding box
func (g *Geometry) MaxPoint() mgl64.Vec3 {
	return g.max
}

func (g *Geometry) computeBounds() {
	positions, err := g.Positions()
	if err != nil || len(positions) == 0 {
		return
	}

	g.min = mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	g.max = mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, p := range positions {
		for axis := 0; axis < 3; axis++ {
			g.min[axis] = math.Min(g.min[axis], p[axis])
			g.max[axis] = math.Max(g.max[axis], p[axis])
		}
	}
}

// PositionOnly is a description with a single position attribute
var PositionOnly = VertexDescription{Attributes: []Attribute{{Name: AttributePosition, Size: 3}}}

// NewBox creates an indexed triangle list box centered on the origin
func NewBox(id uint32, halfExtents mgl64.Vec3) (*Geometry, error) {
	hx, hy, hz := float32(halfExtents.X()), float32(halfExtents.Y()), float32(halfExtents.Z())
	vertices := []float32{
		-hx, -hy, -hz,
		+hx, -hy, -hz,
		+hx, +hy, -hz,
		-hx, +hy, -hz,
		-hx, -hy, +hz,
		+hx, -hy, +hz,
		+hx, +hy, +hz,
		-hx, +hy, +hz,
	}
	indices := []uint32{
		0, 2, 1, 0, 3, 2, // -Z
		4, 5, 6, 4, 6, 7, // +Z
		0, 4, 7, 0, 7, 3, // -X
		1, 2, 6, 1, 6, 5, // +X
		3, 7, 6, 3, 6, 2, // +Y
		0, 1, 5, 0, 5, 4, // -Y
	}

	return New(id, PositionOnly, vertices, indices)
}
