package orientation

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon is the tolerance under which a length or component is treated as zero
const Epsilon = 1e-6

// ErrDegenerateTarget is returned by PointAt when the target coincides with the position
var ErrDegenerateTarget = errors.New("orientation: look target coincides with position")

var (
	worldRight = mgl64.Vec3{1, 0, 0}
	worldUp    = mgl64.Vec3{0, 1, 0}
	worldLook  = mgl64.Vec3{0, 0, 1}
)

// Orientation is a position plus an orthonormal right/up/look basis.
// Positive angles rotate counter-clockwise around the rotation axis, so
// Yaw(90) on the default basis turns look from +Z to +X.
//
// The zero value is not usable: call New, or Init when embedding.
type Orientation struct {
	position mgl64.Vec3
	right    mgl64.Vec3
	up       mgl64.Vec3
	look     mgl64.Vec3

	bound   bool
	binding mgl64.Mat4

	world    Cache
	observer StateObserver
}

// New creates an Orientation with the default basis at the origin
func New() *Orientation {
	o := &Orientation{}
	o.Init(nil)

	return o
}

// Init resets the orientation to the default basis at the origin and installs
// the owner's observer. Entities embedding an Orientation pass themselves.
func (o *Orientation) Init(observer StateObserver) {
	o.position = mgl64.Vec3{0, 0, 0}
	o.right = worldRight
	o.up = worldUp
	o.look = worldLook
	o.bound = false
	o.binding = mgl64.Ident4()
	o.world.Invalidate()
	o.observer = observer
}

// SetObserver replaces the owner's observer without touching the transform
func (o *Orientation) SetObserver(observer StateObserver) {
	o.observer = observer
}

// notify runs the base hook, drops the cached world matrix, then hands the
// change to the owner.
func (o *Orientation) notify(change StateChange) {
	o.OnStateChange(change)
	if change&(ChangeRotation|ChangeMotion) != 0 {
		o.world.Invalidate()
	}
	if o.observer != nil {
		o.observer.OnStateChange(change)
	}
}

// OnStateChange is the base hook: it keeps the basis orthonormal after any
// rotation. look is trusted, up is derived from look×right, and right is
// re-derived from up×look.
func (o *Orientation) OnStateChange(change StateChange) {
	if change&ChangeRotation == 0 {
		return
	}

	o.look = normalizeOr(o.look, func() mgl64.Vec3 {
		return normalizeOr(o.right.Cross(o.up), func() mgl64.Vec3 { return worldLook })
	})
	o.up = normalizeOr(o.look.Cross(o.right), func() mgl64.Vec3 {
		return perpendicular(o.look)
	})
	o.right = o.up.Cross(o.look).Normalize()
}

// SetPosition moves the orientation to pos
func (o *Orientation) SetPosition(pos mgl64.Vec3) {
	o.position = pos

	o.notify(ChangeMotion)
}

// SetPositionXYZ moves the orientation to (x, y, z)
func (o *Orientation) SetPositionXYZ(x, y, z float64) {
	o.SetPosition(mgl64.Vec3{x, y, z})
}

// PointAt turns look toward target, keeping the world Y axis as the up reference.
// When look ends up parallel to world Y, the current right vector is used as
// reference instead. A target at the current position is rejected and leaves
// the orientation untouched.
func (o *Orientation) PointAt(target mgl64.Vec3) error {
	dir := target.Sub(o.position)
	if dir.Len() < Epsilon {
		return ErrDegenerateTarget
	}

	look := dir.Normalize()
	right := worldUp.Cross(look)
	if right.Len() < Epsilon {
		right = o.right.Sub(look.Mul(o.right.Dot(look)))
		if right.Len() < Epsilon {
			right = perpendicular(look)
		}
	}

	o.look = look
	o.right = right.Normalize()
	o.up = o.look.Cross(o.right)

	o.notify(ChangeRotation)
	return nil
}

// SetAngle sets the basis from a unit rotation quaternion
func (o *Orientation) SetAngle(q mgl64.Quat) {
	x, y, z, w := q.V.X(), q.V.Y(), q.V.Z(), q.W

	m1 := mgl64.Mat4FromRows(
		mgl64.Vec4{w, z, -y, x},
		mgl64.Vec4{-z, w, x, y},
		mgl64.Vec4{y, -x, w, z},
		mgl64.Vec4{-x, -y, -z, w},
	)
	m2 := mgl64.Mat4FromRows(
		mgl64.Vec4{w, z, -y, -x},
		mgl64.Vec4{-z, w, x, -y},
		mgl64.Vec4{y, -x, w, -z},
		mgl64.Vec4{x, y, z, w},
	)
	f := m1.Mul4(m2)

	o.right = f.Row(0).Vec3()
	o.up = f.Row(1).Vec3()
	o.look = f.Row(2).Vec3()

	o.notify(ChangeRotation)
}

// SetToRotation copies the basis of other
func (o *Orientation) SetToRotation(other *Orientation) {
	o.look = other.look
	o.up = other.up
	o.right = other.right

	o.notify(ChangeRotation)
}

// SetULRVectors assigns the basis directly; the hook re-orthonormalizes it
func (o *Orientation) SetULRVectors(up, look, right mgl64.Vec3) {
	o.up = up
	o.look = look
	o.right = right

	o.notify(ChangeRotation)
}

// SetToTransformation takes position and basis from a world matrix
func (o *Orientation) SetToTransformation(m mgl64.Mat4) {
	o.position = mgl64.Vec3{m.At(0, 3), m.At(1, 3), m.At(2, 3)}

	inv := m.Inv()
	o.right = inv.Row(0).Vec3()
	o.up = inv.Row(1).Vec3()
	o.look = inv.Row(2).Vec3()

	o.notify(ChangeRotation | ChangeMotion)
}

// Yaw rotates right and look around up, in degrees
func (o *Orientation) Yaw(angle float64) {
	t := mgl64.HomogRotate3D(mgl64.DegToRad(angle), o.up)

	o.right = mgl64.TransformCoordinate(o.right, t)
	o.look = mgl64.TransformCoordinate(o.look, t)

	o.notify(ChangeRotation)
}

// Pitch rotates up and look around right, in degrees
func (o *Orientation) Pitch(angle float64) {
	t := mgl64.HomogRotate3D(mgl64.DegToRad(angle), o.right)

	o.up = mgl64.TransformCoordinate(o.up, t)
	o.look = mgl64.TransformCoordinate(o.look, t)

	o.notify(ChangeRotation)
}

// Roll rotates up and right around look, in degrees
func (o *Orientation) Roll(angle float64) {
	t := mgl64.HomogRotate3D(mgl64.DegToRad(angle), o.look)

	o.right = mgl64.TransformCoordinate(o.right, t)
	o.up = mgl64.TransformCoordinate(o.up, t)

	o.notify(ChangeRotation)
}

// Move translates along look
func (o *Orientation) Move(units float64) {
	o.position = o.position.Add(o.look.Mul(units))

	o.notify(ChangeMotion)
}

// Strafe translates along right
func (o *Orientation) Strafe(units float64) {
	o.position = o.position.Add(o.right.Mul(units))

	o.notify(ChangeMotion)
}

// Fly translates along up
func (o *Orientation) Fly(units float64) {
	o.position = o.position.Add(o.up.Mul(units))

	o.notify(ChangeMotion)
}

func (o *Orientation) PositionX() float64 {
	return o.position.X()
}

func (o *Orientation) PositionY() float64 {
	return o.position.Y()
}

func (o *Orientation) PositionZ() float64 {
	return o.position.Z()
}

func (o *Orientation) Position() mgl64.Vec3 {
	return o.position
}

// AngleX is the signed angle in degrees between look projected on the YZ plane and +Z
func (o *Orientation) AngleX() float64 {
	angle := projectedAngle(mgl64.Vec3{0, o.look.Y(), o.look.Z()}, worldLook)
	if o.look.Y() > 0 {
		angle = -angle
	}

	return angle
}

// AngleY is the signed angle in degrees between look projected on the XZ plane and +Z
func (o *Orientation) AngleY() float64 {
	angle := projectedAngle(mgl64.Vec3{o.look.X(), 0, o.look.Z()}, worldLook)
	if o.look.X() < 0 {
		angle = -angle
	}

	return angle
}

// AngleZ is the signed angle in degrees between up projected on the XY plane and +Y
func (o *Orientation) AngleZ() float64 {
	angle := projectedAngle(mgl64.Vec3{o.up.X(), o.up.Y(), 0}, worldUp)
	if o.up.X() > 0 {
		angle = -angle
	}

	return angle
}

// Rotation extracts the rotation quaternion from the world matrix.
// mgl64.Mat4ToQuat branches on the largest diagonal term, so a half turn
// (w close to 0) is still well defined.
func (o *Orientation) Rotation() mgl64.Quat {
	return mgl64.Mat4ToQuat(o.WorldMatrix()).Normalize()
}

func (o *Orientation) UVector() mgl64.Vec3 {
	return o.up
}

func (o *Orientation) LVector() mgl64.Vec3 {
	return o.look
}

func (o *Orientation) RVector() mgl64.Vec3 {
	return o.right
}

// SetBindingMatrix attaches an external transform overlay, stored by value
func (o *Orientation) SetBindingMatrix(m mgl64.Mat4) {
	o.bound = true
	o.binding = m

	o.notify(ChangeBinding)
}

// RemoveBinding drops the binding overlay
func (o *Orientation) RemoveBinding() {
	if !o.bound {
		return
	}
	o.bound = false
	o.binding = mgl64.Ident4()

	o.notify(ChangeBinding)
}

func (o *Orientation) BindingMatrix() mgl64.Mat4 {
	return o.binding
}

func (o *Orientation) IsBound() bool {
	return o.bound
}

// ComputeTransformation returns the world matrix: the inverse of the view-style matrix
func (o *Orientation) ComputeTransformation() mgl64.Mat4 {
	return o.ComputeInverseTransformation().Inv()
}

// ComputeInverseTransformation builds the view-style matrix straight from the
// basis: right, up and look as rows, translated by their dot products with
// the position.
func (o *Orientation) ComputeInverseTransformation() mgl64.Mat4 {
	return mgl64.Mat4FromRows(
		o.right.Vec4(-o.right.Dot(o.position)),
		o.up.Vec4(-o.up.Dot(o.position)),
		o.look.Vec4(-o.look.Dot(o.position)),
		mgl64.Vec4{0, 0, 0, 1},
	)
}

// WorldMatrix returns ComputeTransformation, recomputed only after a mutation
func (o *Orientation) WorldMatrix() mgl64.Mat4 {
	return o.world.Resolve(o.ComputeTransformation)
}

// projectedAngle returns the unsigned angle in degrees between v and the unit axis.
func projectedAngle(v, axis mgl64.Vec3) float64 {
	length := v.Len()
	if length == 0 {
		return 0
	}

	cos := mgl64.Clamp(axis.Dot(v)/length, -1, 1)
	return mgl64.RadToDeg(math.Acos(cos))
}

func normalizeOr(v mgl64.Vec3, fallback func() mgl64.Vec3) mgl64.Vec3 {
	if v.Len() < Epsilon {
		return fallback()
	}

	return v.Normalize()
}

// perpendicular returns a unit vector orthogonal to the unit vector n
func perpendicular(n mgl64.Vec3) mgl64.Vec3 {
	var tangent mgl64.Vec3
	if math.Abs(n.X()) > 0.9 {
		tangent = worldUp
	} else {
		tangent = worldRight
	}

	return tangent.Sub(n.Mul(tangent.Dot(n))).Normalize()
}
