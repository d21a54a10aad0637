package nv12play

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"io"
	"testing"
	"testing/iotest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pion/nv12play/pkg/event"
	"github.com/pion/nv12play/pkg/frame"
	"github.com/pion/nv12play/pkg/gpu"
	"github.com/pion/nv12play/pkg/gpu/soft"
	"github.com/pion/nv12play/pkg/host/headless"
	"github.com/pion/nv12play/pkg/prop"
	"github.com/pion/nv12play/pkg/source"
)

var testVideo = prop.Video{
	Width:       8,
	Height:      4,
	FrameRate:   30,
	FrameFormat: frame.FormatNV12,
}

func solidStream(frames int, y, cb, cr byte) []byte {
	size := testVideo.FrameSize()
	yi := testVideo.Width * testVideo.Height
	stream := make([]byte, 0, frames*size)
	for i := 0; i < frames; i++ {
		f := make([]byte, size)
		for j := range f {
			switch {
			case j < yi:
				f[j] = y
			case (j-yi)%2 == 0:
				f[j] = cb
			default:
				f[j] = cr
			}
		}
		stream = append(stream, f...)
	}
	return stream
}

type trackingSource struct {
	*source.Source
	closed int
}

func (s *trackingSource) Close() error {
	s.closed++
	return s.Source.Close()
}

func newTrackingSource(t *testing.T, stream []byte) *trackingSource {
	t.Helper()
	src, err := source.New(bytes.NewReader(stream), testVideo)
	require.NoError(t, err)
	return &trackingSource{Source: src}
}

// faultyDevice fails selected calls of an otherwise working soft device.
type faultyDevice struct {
	*soft.Device
	presents    int
	failPresent int
	compileErr  error
	released    int
}

func (d *faultyDevice) Present() error {
	d.presents++
	if d.presents == d.failPresent {
		return gpu.ErrSurfaceBusy
	}
	return d.Device.Present()
}

func (d *faultyDevice) CompileProgram(src gpu.ProgramSource) (gpu.Program, error) {
	if d.compileErr != nil {
		return nil, d.compileErr
	}
	return d.Device.CompileProgram(src)
}

func (d *faultyDevice) Release() error {
	d.released++
	return d.Device.Release()
}

func newDevice(t *testing.T, display soft.Display) *faultyDevice {
	t.Helper()
	dev, err := soft.New(testVideo.Width, testVideo.Height, display)
	require.NoError(t, err)
	return &faultyDevice{Device: dev}
}

func TestPlayerPacing(t *testing.T) {
	for _, renderer := range []string{RendererCPU, RendererGPU} {
		renderer := renderer
		t.Run(renderer, func(t *testing.T) {
			clock := newFakeClock()
			start := clock.Now()

			var presentedAt []time.Duration
			display := headless.New(func(int, *image.RGBA) {
				presentedAt = append(presentedAt, clock.Now().Sub(start))
			})
			src := newTrackingSource(t, solidStream(5, 128, 128, 128))
			dev := newDevice(t, display)

			p, err := New(Config{Video: testVideo, Renderer: renderer, Clock: clock}, src, dev, event.NewQueue(0))
			require.NoError(t, err)

			code, err := p.Run()
			require.NoError(t, err)
			assert.Equal(t, 0, code)

			expected := []time.Duration{
				33 * time.Millisecond,
				66 * time.Millisecond,
				99 * time.Millisecond,
				132 * time.Millisecond,
				165 * time.Millisecond,
			}
			assert.Equal(t, expected, presentedAt)
			assert.Equal(t, Stats{Presented: 5, Elapsed: 198 * time.Millisecond}, p.Stats())

			assert.Equal(t, 1, src.closed)
			assert.Equal(t, 1, dev.released)
		})
	}
}

func TestPlayerMidGray(t *testing.T) {
	cases := map[string]struct {
		renderer string
		expected color.RGBA
	}{
		"CPU": {RendererCPU, color.RGBA{R: 130, G: 130, B: 130, A: 255}},
		"GPU": {RendererGPU, color.RGBA{R: 112, G: 112, B: 112, A: 255}},
	}
	for name, c := range cases {
		c := c
		t.Run(name, func(t *testing.T) {
			display := headless.New(nil)
			src := newTrackingSource(t, solidStream(1, 128, 128, 128))
			p, err := New(Config{Video: testVideo, Renderer: c.renderer, Clock: newFakeClock()},
				src, newDevice(t, display), nil)
			require.NoError(t, err)

			code, err := p.Run()
			require.NoError(t, err)
			assert.Equal(t, 0, code)
			assert.Equal(t, 1, display.Frames())
			assert.Equal(t, 1, p.Stats().Presented)

			img := display.Last()
			require.NotNil(t, img)
			for y := 0; y < testVideo.Height; y++ {
				for x := 0; x < testVideo.Width; x++ {
					require.Equal(t, c.expected, img.RGBAAt(x, y), "pixel (%d, %d)", x, y)
				}
			}

			assert.False(t, src.ReadNextFrame(make([]byte, testVideo.FrameSize())),
				"stream must report end of stream after the only frame")
		})
	}
}

func TestPlayerQuit(t *testing.T) {
	t.Run("BeforeFirstFrame", func(t *testing.T) {
		events := event.NewQueue(0)
		events.Push(event.Event{Type: event.Key, Code: 'x'})
		events.Push(event.Event{Type: event.Quit, Code: 3})

		display := headless.New(nil)
		p, err := New(Config{Video: testVideo, Renderer: RendererCPU, Clock: newFakeClock()},
			newTrackingSource(t, solidStream(4, 16, 128, 128)), newDevice(t, display), events)
		require.NoError(t, err)

		code, err := p.Run()
		require.NoError(t, err)
		assert.Equal(t, 3, code)
		assert.Equal(t, 0, display.Frames())
	})

	t.Run("AfterSecondFrame", func(t *testing.T) {
		events := event.NewQueue(0)
		display := headless.New(func(n int, _ *image.RGBA) {
			if n == 2 {
				events.Push(event.Event{Type: event.Quit, Code: 1})
				events.Push(event.Event{Type: event.Quit, Code: 42})
			}
		})
		p, err := New(Config{Video: testVideo, Renderer: RendererGPU, Clock: newFakeClock()},
			newTrackingSource(t, solidStream(4, 16, 128, 128)), newDevice(t, display), events)
		require.NoError(t, err)

		code, err := p.Run()
		require.NoError(t, err)
		assert.Equal(t, 42, code, "the last drained quit decides the exit status")
		assert.Equal(t, 2, display.Frames())
	})
}

func TestPlayerDropsFrame(t *testing.T) {
	display := headless.New(nil)
	dev := newDevice(t, display)
	dev.failPresent = 2

	p, err := New(Config{Video: testVideo, Renderer: RendererCPU, Clock: newFakeClock()},
		newTrackingSource(t, solidStream(3, 128, 128, 128)), dev, nil)
	require.NoError(t, err)

	code, err := p.Run()
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, 2, display.Frames())
	assert.Equal(t, Stats{Presented: 2, Dropped: 1, Elapsed: 132 * time.Millisecond}, p.Stats())
}

func TestPlayerDropsFrameOnBusySurface(t *testing.T) {
	display := headless.New(nil)
	p, err := New(Config{Video: testVideo, Renderer: RendererCPU, Clock: newFakeClock()},
		newTrackingSource(t, solidStream(2, 128, 128, 128)), newDevice(t, display), nil)
	require.NoError(t, err)

	surface := p.renderer.(*cpuRenderer).surface
	_, _, err = surface.Lock()
	require.NoError(t, err)

	code, err := p.Run()
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, 0, display.Frames())
	assert.Equal(t, 2, p.Stats().Dropped)
}

func TestNewReleasesOnError(t *testing.T) {
	t.Run("CompileError", func(t *testing.T) {
		dev := newDevice(t, nil)
		dev.compileErr = &gpu.CompileError{Program: "nv12-bt709", Stage: "fragment", Log: "0:12: error: syntax error"}
		src := newTrackingSource(t, solidStream(1, 0, 0, 0))

		_, err := New(Config{Video: testVideo, Renderer: RendererGPU}, src, dev, nil)
		var compileErr *gpu.CompileError
		require.True(t, errors.As(err, &compileErr), "expected CompileError, got %v", err)
		assert.Contains(t, err.Error(), "0:12: error: syntax error")
		assert.Equal(t, 1, src.closed)
		assert.Equal(t, 1, dev.released)
	})

	t.Run("UnknownRenderer", func(t *testing.T) {
		dev := newDevice(t, nil)
		src := newTrackingSource(t, solidStream(1, 0, 0, 0))

		_, err := New(Config{Video: testVideo, Renderer: "vulkan"}, src, dev, nil)
		assert.Error(t, err)
		assert.Equal(t, 1, src.closed)
		assert.Equal(t, 1, dev.released)
	})

	t.Run("InvalidVideo", func(t *testing.T) {
		dev := newDevice(t, nil)
		src := newTrackingSource(t, solidStream(1, 0, 0, 0))

		_, err := New(Config{Video: prop.Video{}, Renderer: RendererCPU}, src, dev, nil)
		assert.Error(t, err)
		assert.Equal(t, 1, src.closed)
		assert.Equal(t, 1, dev.released)
	})
}

func TestPlayerRunOnce(t *testing.T) {
	dev := newDevice(t, nil)
	src := newTrackingSource(t, nil)
	p, err := New(Config{Video: testVideo, Renderer: RendererCPU, Clock: newFakeClock()}, src, dev, nil)
	require.NoError(t, err)

	code, err := p.Run()
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	_, err = p.Run()
	assert.True(t, errors.Is(err, errPlayerReleased))
	assert.NoError(t, p.Close())
	assert.Equal(t, 1, src.closed)
	assert.Equal(t, 1, dev.released)
}

func TestPlayerReadError(t *testing.T) {
	errBroken := errors.New("broken pipe")
	src, err := source.New(io.MultiReader(
		bytes.NewReader(solidStream(1, 128, 128, 128)),
		iotest.ErrReader(errBroken),
	), testVideo)
	require.NoError(t, err)

	p, err := New(Config{Video: testVideo, Renderer: RendererCPU, Clock: newFakeClock()}, src, newDevice(t, nil), nil)
	require.NoError(t, err)

	code, err := p.Run()
	assert.Equal(t, 1, code)
	assert.True(t, errors.Is(err, errBroken), "unexpected error: %v", err)
	assert.Equal(t, 1, p.Stats().Presented)
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(gpu.ErrSurfaceBusy))
	assert.False(t, IsTransient(gpu.ErrReleased))
	assert.False(t, IsTransient(nil))
}
