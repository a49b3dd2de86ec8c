package persist

import (
	"bytes"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// MaxAssetNameSize is the fixed size of a stored asset name, terminator included
const MaxAssetNameSize = 128

// Name is a zero-padded asset name
type Name [MaxAssetNameSize]byte

// NewName stores s, which must leave room for the terminating zero
func NewName(s string) (Name, error) {
	var n Name
	if len(s) >= MaxAssetNameSize {
		return n, fmt.Errorf("%w: %q", ErrNameTooLong, s)
	}
	copy(n[:], s)

	return n, nil
}

func (n Name) String() string {
	if i := bytes.IndexByte(n[:], 0); i >= 0 {
		return string(n[:i])
	}

	return string(n[:])
}

// OrientationRecord is a position and a rotation quaternion (W, X, Y, Z)
type OrientationRecord struct {
	Position [3]float64
	Rotation [4]float64
}

func NewOrientationRecord(position mgl64.Vec3, rotation mgl64.Quat) OrientationRecord {
	return OrientationRecord{
		Position: position,
		Rotation: [4]float64{rotation.W, rotation.V.X(), rotation.V.Y(), rotation.V.Z()},
	}
}

func (r OrientationRecord) Vec3() mgl64.Vec3 {
	return r.Position
}

func (r OrientationRecord) Quat() mgl64.Quat {
	return mgl64.Quat{W: r.Rotation[0], V: mgl64.Vec3{r.Rotation[1], r.Rotation[2], r.Rotation[3]}}
}

// RigidBodyRecord holds the create info of a rigid body followed by the
// physical properties of the simulated body at save time
type RigidBodyRecord struct {
	Shape          uint32
	IsTriangleList bool
	Mass           float64
	Dimensions     [3]float64
	Initial        OrientationRecord
	GeometryName   Name

	LinearDamping  float64
	AngularDamping float64
	Restitution    float64
	BodyMass       float64
	MassCenter     [3]float64
	Friction       float64
}
