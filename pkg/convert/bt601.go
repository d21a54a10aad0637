package convert

import (
	"fmt"

	"github.com/pion/nv12play/pkg/frame"
)

// BT601 converts one limited-range Y'CbCr sample to full-range RGB using the
// BT.601 integer approximation. Each channel is clamped to [0,255].
func BT601(y, cb, cr uint8) (r, g, b uint8) {
	c := int32(y) - 16
	d := int32(cb) - 128
	e := int32(cr) - 128

	r = clamp8((298*c + 409*e + 128) >> 8)
	g = clamp8((298*c - 100*d - 208*e + 128) >> 8)
	b = clamp8((298*c + 516*d + 128) >> 8)
	return
}

func clamp8(v int32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// NV12ToBGRA converts f into dst, a BGRA buffer whose rows are stride bytes
// apart. Both pixels of an even/odd column pair read the chroma pair at
// (y/2)*Width + (x - x%2); there is no vertical or horizontal interpolation.
// Bytes past Width*4 in each row are not written.
func NV12ToBGRA(dst []byte, stride int, f frame.NV12) error {
	w, h := f.Width, f.Height
	if stride < w*4 {
		return fmt.Errorf("stride %d is smaller than a %d pixel row", stride, w)
	}
	if need := stride*(h-1) + w*4; len(dst) < need {
		return &frame.InsufficientBufferError{RequiredSize: need}
	}

	for y := 0; y < h; y++ {
		yRow := f.Y[y*w : (y+1)*w]
		uvRow := f.UV[(y/2)*w : (y/2+1)*w]
		out := dst[y*stride : y*stride+w*4]
		for x := 0; x < w; x++ {
			ci := x - x%2
			r, g, b := BT601(yRow[x], uvRow[ci], uvRow[ci+1])
			o := out[x*4 : x*4+4 : x*4+4]
			o[0] = b
			o[1] = g
			o[2] = r
			o[3] = 255
		}
	}
	return nil
}
