// Package source reads fixed size raw frames from a byte stream.
package source

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pion/nv12play/internal/logging"
	"github.com/pion/nv12play/pkg/frame"
	"github.com/pion/nv12play/pkg/prop"
)

var logger = logging.NewLogger("source")

// Source reads one frame record at a time. The stream carries no header and
// no markers, so the frame size comes entirely from the video properties.
type Source struct {
	r      io.Reader
	closer func() error
	video  prop.Video
	size   int
	frames int
	eos    bool
	err    error
}

// New reads frames described by video from r. If r is an io.Closer, Close
// closes it.
func New(r io.Reader, video prop.Video) (*Source, error) {
	if err := video.Validate(); err != nil {
		return nil, err
	}
	s := &Source{
		r:     r,
		video: video,
		size:  video.FrameSize(),
	}
	if c, ok := r.(io.Closer); ok {
		s.closer = c.Close
	}
	return s, nil
}

// Open reads frames from the file at path. A path that cannot be opened is a
// configuration error.
func Open(path string, video prop.Video) (*Source, error) {
	if err := video.Validate(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open frame stream: %w", err)
	}
	s, err := New(f, video)
	if err != nil {
		f.Close()
		return nil, err
	}
	logger.Infof("reading %s frames from %s", video, path)
	return s, nil
}

// ReadNextFrame fills buf[:FrameSize()] with the next frame. It returns false
// once the stream has fewer bytes left than one frame, and on read errors,
// which are then reported by Err. After the first false every call returns
// false without reading.
func (s *Source) ReadNextFrame(buf []byte) bool {
	if s.eos {
		return false
	}
	if len(buf) < s.size {
		s.err = &frame.InsufficientBufferError{RequiredSize: s.size}
		return false
	}

	_, err := io.ReadFull(s.r, buf[:s.size])
	switch {
	case err == nil:
		s.frames++
		return true
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		logger.Debugf("end of stream after %d frames", s.frames)
	default:
		logger.Errorf("failed to read frame %d: %v", s.frames, err)
		s.err = err
	}
	s.eos = true
	return false
}

// Err returns the error that ended the stream, or nil if it ended on a short
// read.
func (s *Source) Err() error {
	return s.err
}

// Frames returns the number of complete frames read so far.
func (s *Source) Frames() int {
	return s.frames
}

// FrameSize returns the size of one frame record in bytes.
func (s *Source) FrameSize() int {
	return s.size
}

// Video returns the properties the source was opened with.
func (s *Source) Video() prop.Video {
	return s.video
}

// Close releases the underlying stream. It is safe to call more than once.
func (s *Source) Close() error {
	s.eos = true
	if s.closer == nil {
		return nil
	}
	closer := s.closer
	s.closer = nil
	return closer()
}
