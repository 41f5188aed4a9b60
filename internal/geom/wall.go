package geom

import "github.com/go-gl/mathgl/mgl64"

// Wall is one vertical face of a segment with its transforms cached.
type Wall struct {
	Face      Face
	Extent    float64
	Transform mgl64.Mat4
	Inverse   mgl64.Mat4
	Normal    mgl64.Vec3 // world space
}

// NewWall builds the vertical face f of the segment whose floor is at height.
func NewWall(base Frame, height, extent float64, f Face) Wall {
	spec := faceSpecs[f]
	pos := mgl64.Vec3{spec.offset[0] * extent, height + spec.offset[1]*extent, spec.offset[2] * extent}

	m := base.Matrix().
		Mul4(mgl64.Translate3D(pos[0], pos[1], pos[2])).
		Mul4(mgl64.HomogRotate3DY(spec.yaw)).
		Mul4(mgl64.Scale3D(extent, extent, extent))

	rot := base.Rotation().Mul4(mgl64.HomogRotate3DY(spec.yaw))

	return Wall{
		Face:      f,
		Extent:    extent,
		Transform: m,
		Inverse:   m.Inv(),
		Normal:    transformDir(rot, spec.normal),
	}
}

// Local maps a world position into wall space.
func (w Wall) Local(p mgl64.Vec3) mgl64.Vec3 {
	return transformPoint(w.Inverse, p)
}

// Penetration is the signed measure compared against the face threshold:
// the local z and x offsets, each widened by the radius in wall units.
func (w Wall) Penetration(p mgl64.Vec3, radius float64) float64 {
	l := w.Local(p)
	return (l.Z() + radius/w.Extent) + (l.X() + radius/w.Extent)
}

// Penetrates reports whether a sphere at p crosses the wall.
func (w Wall) Penetrates(p mgl64.Vec3, radius float64) bool {
	m := w.Penetration(p, radius)
	if w.Face.Test() == TestNear {
		return (radius-nearMarginShrink)/2 > m
	}
	return farThreshold < m
}

// Reflect returns v - 2(n.v)n*restitution about the wall normal.
func (w Wall) Reflect(v mgl64.Vec3, restitution float64) mgl64.Vec3 {
	return Reflect(v, w.Normal, restitution)
}

// Reflect mirrors v about n and scales only the reflected term by restitution.
func Reflect(v, n mgl64.Vec3, restitution float64) mgl64.Vec3 {
	return v.Sub(n.Mul(2 * n.Dot(v) * restitution))
}

// Enclosure caches the four vertical walls of one segment.
type Enclosure struct {
	Floor   float64
	Ceiling float64
	Walls   [4]Wall // indexed by the vertical Face
}

// NewEnclosure builds the side walls of the segment starting at height.
func NewEnclosure(base Frame, height, extent float64) Enclosure {
	e := Enclosure{Floor: height, Ceiling: height + 2*extent}
	for _, f := range Faces {
		if f.Vertical() {
			e.Walls[f] = NewWall(base, height, extent, f)
		}
	}
	return e
}

// Contains reports whether y lies strictly inside the segment's vertical band.
func (e Enclosure) Contains(y float64) bool {
	return y > e.Floor && y < e.Ceiling
}
