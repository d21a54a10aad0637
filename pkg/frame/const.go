package frame

type Format string

const (
	// FormatNV12 https://www.fourcc.org/pixel-format/yuv-nv12/
	// One full resolution luma plane followed by one half resolution plane of
	// interleaved (Cb, Cr) pairs.
	FormatNV12 Format = "NV12"
)
