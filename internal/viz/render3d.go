package viz

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/ballsim/internal/geom"
	"github.com/san-kum/ballsim/internal/physics"
)

// viewSpan is the world height that fills the canvas at zoom 1.
const viewSpan = 60.0

// Camera orbits Target at Distance and projects with a simple perspective.
type Camera struct {
	Target     mgl64.Vec3
	Distance   float64
	Near       float64
	RotX, RotY float64
	Zoom       float64
}

func NewCamera() *Camera {
	return &Camera{Target: mgl64.Vec3{0, 25, 0}, Distance: 80, Near: 0.1, RotX: 0.35, Zoom: 1.0}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

func (c *Camera) view() mgl64.Mat4 {
	return mgl64.HomogRotate3DX(c.RotX).
		Mul4(mgl64.HomogRotate3DY(c.RotY)).
		Mul4(mgl64.Translate3D(-c.Target[0], -c.Target[1], -c.Target[2]))
}

// Project maps a world point to sub-pixel coordinates on a sw x sh canvas.
// It returns the screen position, the pixels per world unit at that depth
// and whether the point is on screen.
func (c *Camera) Project(p mgl64.Vec3, sw, sh int) (int, int, float64, bool) {
	v := c.view().Mul4x1(p.Vec4(1)).Vec3()
	if v.Z() >= c.Distance-c.Near {
		return 0, 0, 0, false
	}
	minDim := math.Min(float64(sw), float64(sh))
	scale := c.Distance / (c.Distance - v.Z()) * minDim / viewSpan * c.Zoom
	sx := int(v.X()*scale) + sw/2
	sy := int(-v.Y()*scale) + sh/2
	return sx, sy, scale, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

type Edge struct {
	Start, End mgl64.Vec3
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe             { return &Wireframe{Edges: make([]Edge, 0)} }
func (w *Wireframe) AddEdge(s, e mgl64.Vec3) { w.Edges = append(w.Edges, Edge{s, e}) }
func (w *Wireframe) Clear()                 { w.Edges = w.Edges[:0] }

type projectedEdge struct {
	x1, y1, x2, y2 int
	depth          float64
}

// Render3D draws the wireframe far to near.
func Render3D(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	sw, sh := c.PixelSize()
	proj := make([]projectedEdge, 0, len(w.Edges))
	for _, e := range w.Edges {
		x1, y1, d1, v1 := cam.Project(e.Start, sw, sh)
		x2, y2, d2, v2 := cam.Project(e.End, sw, sh)
		if v1 || v2 {
			proj = append(proj, projectedEdge{x1, y1, x2, y2, (d1 + d2) / 2})
		}
	}
	sort.Slice(proj, func(i, j int) bool { return proj[i].depth < proj[j].depth })
	for _, e := range proj {
		c.DrawLine(e.x1, e.y1, e.x2, e.y2)
	}
}

// SceneWireframe outlines every segment's box and every cylinder axis.
// Lids are drawn only on segments that have one.
func SceneWireframe(w *physics.World) *Wireframe {
	frame := w.Frame()
	e := w.WallExtent()
	wf := NewWireframe()

	for _, seg := range w.Segments() {
		lo := boxRing(frame, seg.Height, e)
		hi := boxRing(frame, seg.Height+2*e, e)
		for i := 0; i < 4; i++ {
			wf.AddEdge(lo[i], lo[(i+1)%4])
			wf.AddEdge(lo[i], hi[i])
			if seg.Top {
				wf.AddEdge(hi[i], hi[(i+1)%4])
			}
		}
		if seg.Bottom {
			wf.AddEdge(lo[0], lo[2])
			wf.AddEdge(lo[1], lo[3])
		}
	}

	for _, ax := range w.Axes() {
		wf.AddEdge(ax.A, ax.B)
	}
	return wf
}

func boxRing(frame geom.Frame, y, e float64) [4]mgl64.Vec3 {
	return [4]mgl64.Vec3{
		frame.Apply(mgl64.Vec3{-e, y, -e}),
		frame.Apply(mgl64.Vec3{e, y, -e}),
		frame.Apply(mgl64.Vec3{e, y, e}),
		frame.Apply(mgl64.Vec3{-e, y, e}),
	}
}
