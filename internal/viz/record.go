package viz

import (
	"errors"
	"image"
	"image/color"
	"image/gif"
	"os"
)

var errNoFrames = errors.New("no frames recorded")

// recorder accumulates canvas frames for a GIF.
type recorder struct {
	on     bool
	frames []*image.Paletted
}

func (r *recorder) active() bool { return r.on }

func (r *recorder) start() {
	r.on = true
	r.frames = r.frames[:0]
}

// capture rasterises every braille dot of c as a charW/2 by charH/4 block.
func (r *recorder) capture(c *Canvas) {
	const charW, charH = 8, 16
	img := image.NewPaletted(image.Rect(0, 0, c.Width*charW, c.Height*charH), color.Palette{color.Black, color.White})
	sw, sh := c.PixelSize()
	dotW, dotH := charW/2, charH/4
	for y := 0; y < sh; y++ {
		for x := 0; x < sw; x++ {
			if !c.IsSet(x, y) {
				continue
			}
			for py := 0; py < dotH; py++ {
				for px := 0; px < dotW; px++ {
					img.SetColorIndex(x*dotW+px, y*dotH+py, 1)
				}
			}
		}
	}
	r.frames = append(r.frames, img)
}

// save writes the frames to path and stops recording.
func (r *recorder) save(path string) (string, error) {
	r.on = false
	if len(r.frames) == 0 {
		return "", errNoFrames
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 2)
	}
	r.frames = nil
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := gif.EncodeAll(f, &anim); err != nil {
		return "", err
	}
	return path, nil
}
