package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Axis is a cylinder's segment in world space.
type Axis struct {
	A, B      mgl64.Vec3
	anchor    mgl64.Vec3
	length    float64
	transform mgl64.Mat4
}

// CylinderTransform composes base, then RotateY(yRot), then base again,
// then RotateY(xRot). Both stored angles rotate about Y; this order is what
// aligns the authored obstacles with the rendered ones.
func CylinderTransform(base Frame, xRot, yRot float64) mgl64.Mat4 {
	b := base.Matrix()
	first := mgl64.HomogRotate3DY(yRot).Mul4(b)
	second := mgl64.HomogRotate3DY(xRot).Mul4(b)
	return second.Mul4(first)
}

// NewAxis extends anchor by +/- length along local Z and maps both ends to world space.
func NewAxis(base Frame, anchor mgl64.Vec3, length, xRot, yRot float64) Axis {
	m := CylinderTransform(base, xRot, yRot)
	return Axis{
		A:         transformPoint(m, anchor.Add(mgl64.Vec3{0, 0, length})),
		B:         transformPoint(m, anchor.Sub(mgl64.Vec3{0, 0, length})),
		anchor:    anchor,
		length:    length,
		transform: m,
	}
}

// Distance returns the perpendicular distance h from p to the infinite line
// AB (from Heron's formula on triangle A,B,p) and the distance from A to p.
func (ax Axis) Distance(p mgl64.Vec3) (h, toA float64) {
	ab := ax.A.Sub(ax.B).Len()
	toA = ax.A.Sub(p).Len()
	toB := ax.B.Sub(p).Len()
	if ab == 0 {
		return toA, toA
	}

	s := (ab + toA + toB) / 2
	sq := s * (s - ab) * (s - toB) * (s - toA)
	if sq < 0 {
		sq = 0
	}
	area := math.Sqrt(sq)
	return 2 * area / ab, toA
}

// Contact reconstructs the point on the axis nearest p given h and |Ap|.
func (ax Axis) Contact(h, toA float64) mgl64.Vec3 {
	adjSq := toA*toA - h*h
	if adjSq < 0 {
		adjSq = 0
	}
	adj := math.Sqrt(adjSq)
	local := ax.anchor.Add(mgl64.Vec3{0, 0, ax.length - adj})
	return transformPoint(ax.transform, local)
}
