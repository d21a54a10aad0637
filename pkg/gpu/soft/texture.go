package soft

import (
	"image"
	"image/color"

	"github.com/pion/nv12play/pkg/gpu"
)

type texture struct {
	width, height int
	format        gpu.PixelFormat
	pitch         int
	pix           []byte
	locked        bool
	released      bool
}

func newTexture(width, height int, format gpu.PixelFormat, alignment int) *texture {
	pitch := width * format.BytesPerPixel()
	if alignment > 1 {
		pitch = (pitch + alignment - 1) / alignment * alignment
	}
	return &texture{
		width:  width,
		height: height,
		format: format,
		pitch:  pitch,
		pix:    make([]byte, pitch*height),
	}
}

func (t *texture) Width() int              { return t.width }
func (t *texture) Height() int             { return t.height }
func (t *texture) Format() gpu.PixelFormat { return t.format }

func (t *texture) texelOffset(x, y int) int {
	return y*t.pitch + x*t.format.BytesPerPixel()
}

func (t *texture) bounds() image.Rectangle {
	return image.Rect(0, 0, t.width, t.height)
}

func (t *texture) check() error {
	switch {
	case t.released:
		return gpu.ErrReleased
	case t.locked:
		return gpu.ErrSurfaceBusy
	}
	return nil
}

func (t *texture) Lock() ([]byte, int, error) {
	if err := t.check(); err != nil {
		return nil, 0, err
	}
	t.locked = true
	return t.pix, t.pitch, nil
}

func (t *texture) Unlock() error {
	if t.released {
		return gpu.ErrReleased
	}
	t.locked = false
	return nil
}

func (t *texture) Release() error {
	if t.released {
		return gpu.ErrReleased
	}
	t.released = true
	t.locked = false
	t.pix = nil
	return nil
}

// pointSampler implements nearest texel lookup with clamp-to-edge addressing.
type pointSampler struct {
	t *texture
}

func clampIndex(coord float32, size int) int {
	i := int(coord * float32(size))
	if coord < 0 {
		i = 0
	}
	if i >= size {
		i = size - 1
	}
	return i
}

func (s *pointSampler) Sample(u, v float32) [4]float32 {
	x := clampIndex(u, s.t.width)
	y := clampIndex(v, s.t.height)
	p := s.t.pix[s.t.texelOffset(x, y):]

	switch s.t.format {
	case gpu.FormatR8:
		return [4]float32{norm(p[0]), 0, 0, 1}
	case gpu.FormatRG8:
		return [4]float32{norm(p[0]), norm(p[1]), 0, 1}
	case gpu.FormatBGRA:
		return [4]float32{norm(p[2]), norm(p[1]), norm(p[0]), norm(p[3])}
	}
	return [4]float32{}
}

func norm(b byte) float32 {
	return float32(b) / 255
}

// bgraImage exposes a BGRA texture as an image.Image.
type bgraImage struct {
	t *texture
}

func (b *bgraImage) ColorModel() color.Model { return color.RGBAModel }
func (b *bgraImage) Bounds() image.Rectangle { return b.t.bounds() }

func (b *bgraImage) At(x, y int) color.Color {
	if !(image.Point{x, y}.In(b.t.bounds())) {
		return color.RGBA{}
	}
	i := b.t.texelOffset(x, y)
	s := b.t.pix[i : i+4 : i+4]
	return color.RGBA{R: s[2], G: s[1], B: s[0], A: s[3]}
}
