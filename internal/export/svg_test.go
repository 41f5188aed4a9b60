package export

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/ballsim/internal/dynamo"
	"github.com/san-kum/ballsim/internal/viz"
)

func TestCanvasToSVG(t *testing.T) {
	if CanvasToSVG(nil, 2) != "" {
		t.Error("nil canvas rendered")
	}
	c := viz.NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	svg := CanvasToSVG(c, 2)
	if n := strings.Count(svg, "<circle"); n != 2 {
		t.Errorf("got %d dots, want 2", n)
	}
	if !strings.Contains(svg, `width="8" height="8"`) {
		t.Error("unexpected image size")
	}
}

func TestFrameToSVG(t *testing.T) {
	f := dynamo.Frame{
		Time: 1.5,
		Bodies: []dynamo.BodyView{
			{Position: mgl64.Vec3{0, 0, 0}, Radius: 1, Static: true},
			{Position: mgl64.Vec3{5, 5, 0}, Radius: 0.5, Color: mgl64.Vec3{1, 0, 0}},
		},
	}
	svg := FrameToSVG(f, View{MinX: -10, MaxX: 10, MinY: -10, MaxY: 10}, 200, 200)
	if !strings.Contains(svg, `cx="100.0" cy="100.0" r="10.0" fill="none"`) {
		t.Errorf("static body not outlined at the centre:\n%s", svg)
	}
	if !strings.Contains(svg, `cx="150.0" cy="50.0" r="5.0" fill="#ff0000"`) {
		t.Errorf("dynamic body misplaced:\n%s", svg)
	}
	if FrameToSVG(f, View{}, 10, 10) != "" {
		t.Error("empty view rendered")
	}
}

func TestTrajectoryToSVG(t *testing.T) {
	if TrajectoryToSVG([]mgl64.Vec2{{0, 0}}, 10, 10, "#fff") != "" {
		t.Error("single point rendered")
	}
	svg := TrajectoryToSVG([]mgl64.Vec2{{0, 0}, {1, 1}, {2, 0}}, 100, 100, "#fff")
	if strings.Count(svg, " L") != 2 {
		t.Errorf("expected two segments:\n%s", svg)
	}
}
