// Package geom expresses enclosure walls and cylinder axes in world space.
//
// All transforms are column-vector mgl64 matrices. A wall's world matrix is
// Base * Translate(offset) * RotateY(yaw) * Scale(extent); a body's
// position is mapped into wall space through the inverse of that matrix.
package geom

import "github.com/go-gl/mathgl/mgl64"

// DefaultYaw is the enclosure base rotation about Y.
const DefaultYaw = -0.785398

// Frame is the enclosure base transform shared by walls and cylinders.
type Frame struct {
	Yaw    float64
	Offset mgl64.Vec3
}

// Matrix returns RotateY(yaw) * Translate(offset).
func (f Frame) Matrix() mgl64.Mat4 {
	return mgl64.HomogRotate3DY(f.Yaw).Mul4(mgl64.Translate3D(f.Offset[0], f.Offset[1], f.Offset[2]))
}

// Rotation returns the rotational part of the base transform.
func (f Frame) Rotation() mgl64.Mat4 {
	return mgl64.HomogRotate3DY(f.Yaw)
}

// Apply maps a point from enclosure space to world space.
func (f Frame) Apply(p mgl64.Vec3) mgl64.Vec3 {
	return transformPoint(f.Matrix(), p)
}

func transformPoint(m mgl64.Mat4, p mgl64.Vec3) mgl64.Vec3 {
	return m.Mul4x1(p.Vec4(1)).Vec3()
}

func transformDir(m mgl64.Mat4, d mgl64.Vec3) mgl64.Vec3 {
	return m.Mul4x1(d.Vec4(0)).Vec3()
}
