package frame

import "fmt"

// NV12 is a view over one raw NV12 frame. Y and UV alias the buffer the frame
// was read into, so a NV12 value is only valid until the next read.
type NV12 struct {
	// Y holds Width*Height luma samples, row after row.
	Y []byte
	// UV holds (Width/2)*(Height/2) interleaved (Cb, Cr) pairs. One chroma row
	// is Width bytes long.
	UV     []byte
	Width  int
	Height int
}

// NewNV12 splits buf into its luma and chroma planes.
func NewNV12(buf []byte, width, height int) (NV12, error) {
	if width <= 0 || height <= 0 || width%2 != 0 || height%2 != 0 {
		return NV12{}, fmt.Errorf("invalid frame size %dx%d", width, height)
	}

	yi := width * height
	ci := int(frameSizeNV12(width, height))
	if ci > len(buf) {
		return NV12{}, &InsufficientBufferError{RequiredSize: ci}
	}

	return NV12{
		Y:      buf[:yi:yi],
		UV:     buf[yi:ci:ci],
		Width:  width,
		Height: height,
	}, nil
}

// ChromaWidth is the number of chroma pairs per chroma row.
func (f NV12) ChromaWidth() int {
	return f.Width / 2
}

// ChromaHeight is the number of chroma rows.
func (f NV12) ChromaHeight() int {
	return f.Height / 2
}
