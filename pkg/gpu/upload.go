package gpu

import (
	"fmt"

	"github.com/pion/nv12play/pkg/frame"
)

// UploadPlane copies a tightly packed plane of width x height texels into dst.
// Rows are copied one at a time since the texture pitch may be larger than the
// plane's row size. Bytes past the row in each pitch are left untouched.
func UploadPlane(dst Texture, plane []byte, width, height int) (err error) {
	bpp := dst.Format().BytesPerPixel()
	if width > dst.Width() || height > dst.Height() {
		return fmt.Errorf("plane %dx%d doesn't fit %dx%d texture", width, height, dst.Width(), dst.Height())
	}

	rowSize := width * bpp
	if len(plane) < rowSize*height {
		return &frame.InsufficientBufferError{RequiredSize: rowSize * height}
	}

	pix, pitch, err := dst.Lock()
	if err != nil {
		return err
	}
	defer func() {
		if unlockErr := dst.Unlock(); err == nil {
			err = unlockErr
		}
	}()

	if pitch < rowSize || len(pix) < pitch*(height-1)+rowSize {
		return fmt.Errorf("locked texture pitch %d too small for %d byte rows", pitch, rowSize)
	}

	for y := 0; y < height; y++ {
		src := plane[y*rowSize : (y+1)*rowSize]
		copy(pix[y*pitch:y*pitch+rowSize], src)
	}
	return nil
}
