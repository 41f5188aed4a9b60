package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Face identifies one of a segment's six logical faces.
type Face int

const (
	NearZ Face = iota
	NearX
	FarZ
	FarX
	Top
	Bottom

	// NoFace marks events that did not involve an enclosure face.
	NoFace Face = -1
)

// Faces lists every face in resolution order; the first hit wins.
var Faces = [...]Face{NearZ, NearX, FarZ, FarX, Top, Bottom}

// Test is the penetration rule a face applies.
type Test int

const (
	TestNear Test = iota
	TestFar
	TestTop
	TestBottom
)

const diag = 0.707

// Face thresholds, in wall-local units.
const (
	nearMarginShrink = 0.5
	farThreshold     = 0.5
)

type faceSpec struct {
	name   string
	offset mgl64.Vec3 // in units of the wall extent, y relative to the segment height
	yaw    float64
	normal mgl64.Vec3 // wall-local
	test   Test
}

var faceSpecs = [...]faceSpec{
	NearZ:  {"near-z", mgl64.Vec3{0, 1, -1}, 0, mgl64.Vec3{-diag, 0, -diag}, TestNear},
	NearX:  {"near-x", mgl64.Vec3{-1, 1, 0}, math.Pi / 2, mgl64.Vec3{diag, 0, diag}, TestNear},
	FarZ:   {"far-z", mgl64.Vec3{0, 1, 1}, 0, mgl64.Vec3{diag, 0, diag}, TestFar},
	FarX:   {"far-x", mgl64.Vec3{1, 1, 0}, math.Pi / 2, mgl64.Vec3{-diag, 0, -diag}, TestFar},
	Top:    {"top", mgl64.Vec3{0, 2, 0}, 0, mgl64.Vec3{0, -diag, 0}, TestTop},
	Bottom: {"bottom", mgl64.Vec3{0, 0, 0}, 0, mgl64.Vec3{}, TestBottom},
}

func (f Face) String() string {
	if f == NoFace {
		return "none"
	}
	if f < 0 || int(f) >= len(faceSpecs) {
		return "unknown"
	}
	return faceSpecs[f].name
}

func (f Face) Test() Test { return faceSpecs[f].test }

// Vertical reports whether f is one of the four side walls.
func (f Face) Vertical() bool {
	t := f.Test()
	return t == TestNear || t == TestFar
}

// TopNormal is the fixed reflection normal of a segment lid.
func TopNormal() mgl64.Vec3 { return faceSpecs[Top].normal }
