package export

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/ballsim/internal/dynamo"
	"github.com/san-kum/ballsim/internal/viz"
)

const defaultFill = "#00ff88"

func header(sb *strings.Builder, width, height float64) {
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))
}

// CanvasToSVG draws every lit braille dot as a circle, scale pixels apart.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}
	sw, sh := canvas.PixelSize()

	var sb strings.Builder
	header(&sb, float64(sw)*scale, float64(sh)*scale)
	sb.WriteString("<g fill=\"#00ff00\">\n")
	dotRadius := scale * 0.4
	for y := 0; y < sh; y++ {
		for x := 0; x < sw; x++ {
			if canvas.IsSet(x, y) {
				sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, float64(x)*scale+scale/2, float64(y)*scale+scale/2, dotRadius))
			}
		}
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// View is the world rectangle on the XY plane mapped onto the image.
type View struct {
	MinX, MaxX, MinY, MaxY float64
}

func (v View) project(p mgl64.Vec2, width, height int) (float64, float64, float64) {
	sx := float64(width) / (v.MaxX - v.MinX)
	sy := float64(height) / (v.MaxY - v.MinY)
	return (p.X() - v.MinX) * sx, float64(height) - (p.Y()-v.MinY)*sy, sx
}

func colorHex(c mgl64.Vec3) string {
	if c == (mgl64.Vec3{}) {
		return defaultFill
	}
	clamp := func(v float64) int { return int(mgl64.Clamp(v, 0, 1) * 255) }
	return fmt.Sprintf("#%02x%02x%02x", clamp(c[0]), clamp(c[1]), clamp(c[2]))
}

// FrameToSVG draws a side view of the frame's bodies. Static bodies are
// outlined, dynamic ones filled with their colour.
func FrameToSVG(f dynamo.Frame, view View, width, height int) string {
	if view.MaxX <= view.MinX || view.MaxY <= view.MinY {
		return ""
	}
	var sb strings.Builder
	header(&sb, float64(width), float64(height))
	for _, b := range f.Bodies {
		x, y, scale := view.project(b.Position.Vec2(), width, height)
		fill := colorHex(b.Color)
		if b.Static {
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="%s"/>
`, x, y, b.Radius*scale, fill))
		} else {
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, x, y, b.Radius*scale, fill))
		}
	}
	sb.WriteString(fmt.Sprintf(`<text x="4" y="14" fill="#888899" font-size="12">t=%.2fs bodies=%d p=%.4f</text>
</svg>`, f.Time, len(f.Bodies), f.Momentum))
	return sb.String()
}

// TrajectoryToSVG draws points as one polyline fitted to the image with
// ten percent padding.
func TrajectoryToSVG(points []mgl64.Vec2, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}

	minX, maxX := points[0].X(), points[0].X()
	minY, maxY := points[0].Y(), points[0].Y()
	for _, p := range points {
		minX, maxX = min(minX, p.X()), max(maxX, p.X())
		minY, maxY = min(minY, p.Y()), max(maxY, p.Y())
	}
	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	view := View{
		MinX: minX - rangeX*0.1, MaxX: maxX + rangeX*0.1,
		MinY: minY - rangeY*0.1, MaxY: maxY + rangeY*0.1,
	}

	var sb strings.Builder
	header(&sb, float64(width), float64(height))
	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor))
	for i, p := range points {
		x, y, _ := view.project(p, width, height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}
	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
