package prop

import (
	"fmt"
	"reflect"
	"time"

	"github.com/pion/nv12play/pkg/frame"
)

// Video represents the properties of a raw video stream. Dimensions are not
// carried by the stream itself, so they always come from configuration.
type Video struct {
	Width, Height int
	FrameRate     float32
	FrameFormat   frame.Format
}

// DefaultVideo is 640x360 NV12 paced at 33ms per frame.
var DefaultVideo = Video{
	Width:       640,
	Height:      360,
	FrameRate:   30,
	FrameFormat: frame.FormatNV12,
}

// Merge merges all the field values from o to p, except zero values.
func (p *Video) Merge(o Video) {
	rp := reflect.ValueOf(p).Elem()
	ro := reflect.ValueOf(o)

	for i := 0; i < rp.NumField(); i++ {
		fieldB := ro.Field(i)
		if fieldB.IsZero() {
			continue
		}
		rp.Field(i).Set(fieldB)
	}
}

// Interval is the pacing interval between two presented frames, truncated to
// whole milliseconds. 30fps gives 33ms.
func (p Video) Interval() time.Duration {
	if p.FrameRate <= 0 {
		return 0
	}
	ms := int64(1000 / p.FrameRate)
	return time.Duration(ms) * time.Millisecond
}

// FrameSize is the size in bytes of one raw frame.
func (p Video) FrameSize() int {
	size, err := frame.Size(p.FrameFormat, p.Width, p.Height)
	if err != nil {
		return 0
	}
	return size
}

// Validate reports configuration errors.
func (p Video) Validate() error {
	switch {
	case p.Width <= 0 || p.Height <= 0:
		return fmt.Errorf("invalid frame size %dx%d", p.Width, p.Height)
	case p.Width%2 != 0 || p.Height%2 != 0:
		return fmt.Errorf("frame size %dx%d must be even", p.Width, p.Height)
	case p.FrameRate <= 0:
		return fmt.Errorf("invalid frame rate %v", p.FrameRate)
	}
	if _, err := frame.Size(p.FrameFormat, p.Width, p.Height); err != nil {
		return err
	}
	return nil
}

func (p Video) String() string {
	return fmt.Sprintf("%dx%d %s @ %vfps", p.Width, p.Height, p.FrameFormat, p.FrameRate)
}
