package soft

import (
	"math"

	"github.com/pion/nv12play/pkg/gpu"
)

// edgeTolerance keeps pixel centers that sit on a shared diagonal from being
// dropped by both triangles due to rounding.
const edgeTolerance = 1e-5

type screenVertex struct {
	x, y float32
	u, v float32
}

func (d *Device) toScreen(v gpu.Vertex) screenVertex {
	w, h := float32(d.Width()), float32(d.Height())
	return screenVertex{
		x: (v.X + 1) / 2 * w,
		y: (1 - v.Y) / 2 * h,
		u: v.U,
		v: v.V,
	}
}

func edge(a, b screenVertex, px, py float32) float32 {
	return (b.x-a.x)*(py-a.y) - (b.y-a.y)*(px-a.x)
}

// rasterize shades every pixel whose center lies inside the triangle. Pixels
// on an edge shared by two triangles of a strip are shaded by both, with the
// same result.
func (d *Device) rasterize(v0, v1, v2 gpu.Vertex, kernel gpu.Kernel, samplers []gpu.Sampler) {
	a, b, c := d.toScreen(v0), d.toScreen(v1), d.toScreen(v2)
	area := edge(a, b, c.x, c.y)
	if area == 0 {
		return
	}

	minX := clampInt(floor32(min3(a.x, b.x, c.x)), 0, d.Width())
	maxX := clampInt(ceil32(max3(a.x, b.x, c.x)), 0, d.Width())
	minY := clampInt(floor32(min3(a.y, b.y, c.y)), 0, d.Height())
	maxY := clampInt(ceil32(max3(a.y, b.y, c.y)), 0, d.Height())

	for py := minY; py < maxY; py++ {
		cy := float32(py) + 0.5
		for px := minX; px < maxX; px++ {
			cx := float32(px) + 0.5
			w0 := edge(b, c, cx, cy) / area
			w1 := edge(c, a, cx, cy) / area
			w2 := edge(a, b, cx, cy) / area
			if w0 < -edgeTolerance || w1 < -edgeTolerance || w2 < -edgeTolerance {
				continue
			}

			u := w0*a.u + w1*b.u + w2*c.u
			v := w0*a.v + w1*b.v + w2*c.v
			out := kernel(samplers, u, v)

			i := d.back.PixOffset(px, py)
			p := d.back.Pix[i : i+4 : i+4]
			p[0] = unorm(out[0])
			p[1] = unorm(out[1])
			p[2] = unorm(out[2])
			p[3] = unorm(out[3])
		}
	}
}

func unorm(f float32) uint8 {
	switch {
	case f <= 0:
		return 0
	case f >= 1:
		return 255
	}
	return uint8(f*255 + 0.5)
}

func min3(a, b, c float32) float32 {
	return float32(math.Min(float64(a), math.Min(float64(b), float64(c))))
}

func max3(a, b, c float32) float32 {
	return float32(math.Max(float64(a), math.Max(float64(b), float64(c))))
}

func floor32(f float32) int { return int(math.Floor(float64(f))) }
func ceil32(f float32) int  { return int(math.Ceil(float64(f))) }

func clampInt(i, lo, hi int) int {
	if i < lo {
		return lo
	}
	if i > hi {
		return hi
	}
	return i
}
