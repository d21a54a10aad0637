package frame

import (
	"errors"
	"testing"
)

func TestNewNV12(t *testing.T) {
	const (
		width  = 4
		height = 2
	)
	input := []byte{
		// Y
		0x01, 0x02, 0x03, 0x04,
		0x05, 0x06, 0x07, 0x08,
		// Cb    Cr    Cb    Cr
		0x80, 0x81, 0x82, 0x83,
	}

	f, err := NewNV12(input, width, height)
	if err != nil {
		t.Fatal(err)
	}
	if len(f.Y) != width*height {
		t.Errorf("expected %d luma bytes, got %d", width*height, len(f.Y))
	}
	if len(f.UV) != width*height/2 {
		t.Errorf("expected %d chroma bytes, got %d", width*height/2, len(f.UV))
	}
	if f.UV[0] != 0x80 || f.UV[3] != 0x83 {
		t.Errorf("wrong chroma plane: %v", f.UV)
	}
	if f.ChromaWidth() != 2 || f.ChromaHeight() != 1 {
		t.Errorf("wrong chroma size %dx%d", f.ChromaWidth(), f.ChromaHeight())
	}

	// Planes must not be able to grow into each other.
	if cap(f.Y) != width*height {
		t.Errorf("luma plane capacity leaks into chroma plane: %d", cap(f.Y))
	}
}

func TestNewNV12Errors(t *testing.T) {
	cases := map[string]struct {
		buf           []byte
		width, height int
	}{
		"ShortBuffer": {make([]byte, 11), 4, 2},
		"OddWidth":    {make([]byte, 64), 3, 2},
		"OddHeight":   {make([]byte, 64), 4, 3},
		"Zero":        {make([]byte, 64), 0, 0},
	}
	for name, c := range cases {
		c := c
		t.Run(name, func(t *testing.T) {
			if _, err := NewNV12(c.buf, c.width, c.height); err == nil {
				t.Fatal("expected error")
			}
		})
	}

	_, err := NewNV12(make([]byte, 11), 4, 2)
	var e *InsufficientBufferError
	if !errors.As(err, &e) || e.RequiredSize != 12 {
		t.Errorf("expected InsufficientBufferError{12}, got %v", err)
	}
}

func TestSize(t *testing.T) {
	size, err := Size(FormatNV12, 640, 360)
	if err != nil {
		t.Fatal(err)
	}
	if size != 640*360*3/2 {
		t.Errorf("expected %d, got %d", 640*360*3/2, size)
	}

	if _, err := Size(Format("MJPEG"), 640, 360); err == nil {
		t.Error("expected unsupported format error")
	}
}
