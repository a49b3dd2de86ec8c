package actor

import "github.com/go-gl/mathgl/mgl64"

// Transform represents a position and a rotation in 3D space
type Transform struct {
	Position        mgl64.Vec3
	Rotation        mgl64.Quat
	InverseRotation mgl64.Quat
}

// NewTransform creates a transform, normalizing the rotation.
// A zero quaternion is treated as identity.
func NewTransform(position mgl64.Vec3, rotation mgl64.Quat) Transform {
	if rotation.Len() == 0 {
		rotation = mgl64.QuatIdent()
	}
	rotation = rotation.Normalize()

	return Transform{
		Position:        position,
		Rotation:        rotation,
		InverseRotation: rotation.Inverse(),
	}
}

// TransformFromMatrix splits a rigid world matrix into position and rotation
func TransformFromMatrix(m mgl64.Mat4) Transform {
	return NewTransform(mgl64.Vec3{m.At(0, 3), m.At(1, 3), m.At(2, 3)}, mgl64.Mat4ToQuat(m))
}

// Matrix returns the world matrix translate * rotate
func (t Transform) Matrix() mgl64.Mat4 {
	return mgl64.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z()).Mul4(t.Rotation.Mat4())
}

// ToWorld maps a point from local to world space
func (t Transform) ToWorld(local mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Rotate(local).Add(t.Position)
}
