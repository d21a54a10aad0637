package source

import (
	"io"
	"math/rand"

	"github.com/pion/nv12play/pkg/prop"
)

// colorBars are 75% SMPTE-like bars as (Y, Cb, Cr).
var colorBars = [][3]byte{
	{235, 128, 128},
	{210, 16, 146},
	{170, 166, 16},
	{145, 54, 34},
	{107, 202, 222},
	{82, 90, 240},
	{41, 240, 110},
}

// NewPattern returns a source producing count frames of color bars above a
// gray gradation and a noise area. count <= 0 produces frames forever.
func NewPattern(video prop.Video, count int) (*Source, error) {
	if err := video.Validate(); err != nil {
		return nil, err
	}
	return New(newPatternReader(video, count), video)
}

type patternReader struct {
	base      []byte
	cur       []byte
	off       int
	remaining int
	infinite  bool
	width     int
	height    int
	noiseX    int
	noiseY    int
	random    *rand.Rand
}

func newPatternReader(p prop.Video, count int) *patternReader {
	yi := p.Width * p.Height
	base := make([]byte, p.FrameSize())
	yy := base[:yi]
	uv := base[yi:]

	hColorBarEnd := p.Height * 3 / 4
	wGradationEnd := p.Width * 5 / 7
	for y := 0; y < p.Height; y++ {
		yRow := yy[y*p.Width : (y+1)*p.Width]
		uvRow := uv[(y/2)*p.Width : (y/2+1)*p.Width]
		for x := 0; x < p.Width; x++ {
			cb, cr := byte(128), byte(128)
			switch {
			case y < hColorBarEnd:
				// Color bar
				c := colorBars[x*len(colorBars)/p.Width]
				yRow[x] = uint8(uint16(c[0]) * 75 / 100)
				cb, cr = c[1], c[2]
			case x < wGradationEnd:
				// Gray gradation
				yRow[x] = uint8(x * 255 / wGradationEnd)
			}
			uvRow[x-x%2] = cb
			uvRow[x-x%2+1] = cr
		}
	}

	return &patternReader{
		base:      base,
		cur:       make([]byte, len(base)),
		off:       len(base),
		remaining: count,
		infinite:  count <= 0,
		width:     p.Width,
		height:    p.Height,
		noiseX:    wGradationEnd,
		noiseY:    hColorBarEnd,
		random:    rand.New(rand.NewSource(0)),
	}
}

func (r *patternReader) nextFrame() bool {
	if !r.infinite {
		if r.remaining == 0 {
			return false
		}
		r.remaining--
	}
	copy(r.cur, r.base)
	for y := r.noiseY; y < r.height; y++ {
		row := r.cur[y*r.width : (y+1)*r.width]
		for x := r.noiseX; x < r.width; x++ {
			// Noise
			row[x] = uint8(r.random.Int31n(2) * 255)
		}
	}
	r.off = 0
	return true
}

func (r *patternReader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if r.off == len(r.cur) && !r.nextFrame() {
			break
		}
		copied := copy(p[n:], r.cur[r.off:])
		r.off += copied
		n += copied
	}
	if n == 0 && len(p) > 0 {
		return 0, io.EOF
	}
	return n, nil
}
