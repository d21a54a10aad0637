package frame

import "fmt"

// FrameSizeMap returns a function to get the number of bytes a frame will occupy
// in the given format
var FrameSizeMap = map[Format]frameSizeFunc{
	FormatNV12: frameSizeNV12,
}

type frameSizeFunc func(width, height int) uint

func frameSizeNV12(width, height int) uint {
	yi := width * height
	ci := yi + width*height/2
	return uint(ci)
}

// Size returns the size in bytes of one raw frame.
func Size(f Format, width, height int) (int, error) {
	getFrameSize, ok := FrameSizeMap[f]
	if !ok {
		return 0, fmt.Errorf("%s is not supported", f)
	}
	return int(getFrameSize(width, height)), nil
}
