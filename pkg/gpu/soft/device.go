// Package soft is a software implementation of gpu.Device. Textures live in
// host memory with hardware-like padded pitches, programs run their Go
// kernel per pixel and the back buffer is handed to a Display on Present.
package soft

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"golang.org/x/image/draw"

	"github.com/pion/nv12play/internal/logging"
	"github.com/pion/nv12play/pkg/gpu"
)

var logger = logging.NewLogger("gpu/soft")

// DefaultPitchAlignment matches the row alignment of common hardware surfaces.
const DefaultPitchAlignment = 64

var errInvalidSize = errors.New("invalid size")

// Display receives the back buffer on every Present. The image is reused by
// the device, so a Display must finish with it before returning.
type Display interface {
	Show(img *image.RGBA) error
}

// Option configures a Device.
type Option func(*Device)

// WithPitchAlignment rounds texture pitches up to a multiple of n bytes.
// n <= 1 gives tightly packed rows.
func WithPitchAlignment(n int) Option {
	return func(d *Device) {
		d.alignment = n
	}
}

// Device implements gpu.Device in software.
type Device struct {
	back      *image.RGBA
	display   Display
	alignment int
	presented int
	released  bool
}

var _ gpu.Device = &Device{}

// New creates a device with a width x height back buffer. display may be nil.
func New(width, height int, display Display, opts ...Option) (*Device, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: back buffer %dx%d", errInvalidSize, width, height)
	}
	d := &Device{
		back:      image.NewRGBA(image.Rect(0, 0, width, height)),
		display:   display,
		alignment: DefaultPitchAlignment,
	}
	for _, opt := range opts {
		opt(d)
	}
	logger.Debugf("created %dx%d device, pitch alignment %d", width, height, d.alignment)
	return d, nil
}

func (d *Device) Width() int  { return d.back.Rect.Dx() }
func (d *Device) Height() int { return d.back.Rect.Dy() }

// BackBuffer returns the image Present hands to the display.
func (d *Device) BackBuffer() *image.RGBA {
	return d.back
}

// Presented returns the number of Present calls that succeeded.
func (d *Device) Presented() int {
	return d.presented
}

func (d *Device) CreateTexture(width, height int, format gpu.PixelFormat) (gpu.Texture, error) {
	if d.released {
		return nil, gpu.ErrReleased
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: texture %dx%d", errInvalidSize, width, height)
	}
	if format.BytesPerPixel() == 0 {
		return nil, gpu.ErrFormatMismatch
	}
	return newTexture(width, height, format, d.alignment), nil
}

type vertexBuffer struct {
	vertices []gpu.Vertex
	released bool
}

func (b *vertexBuffer) Len() int { return len(b.vertices) }

func (b *vertexBuffer) Release() error {
	if b.released {
		return gpu.ErrReleased
	}
	b.released = true
	b.vertices = nil
	return nil
}

func (d *Device) CreateVertexBuffer(vertices []gpu.Vertex) (gpu.VertexBuffer, error) {
	if d.released {
		return nil, gpu.ErrReleased
	}
	if len(vertices) < 3 {
		return nil, fmt.Errorf("triangle strip needs at least 3 vertices, got %d", len(vertices))
	}
	return &vertexBuffer{vertices: append([]gpu.Vertex(nil), vertices...)}, nil
}

type program struct {
	name     string
	kernel   gpu.Kernel
	released bool
}

func (p *program) Name() string { return p.name }

func (p *program) Release() error {
	if p.released {
		return gpu.ErrReleased
	}
	p.released = true
	return nil
}

// CompileProgram checks that both stages are present and declare an entry
// point, then binds the program's Go kernel. The shader text itself is not
// executed.
func (d *Device) CompileProgram(src gpu.ProgramSource) (gpu.Program, error) {
	if d.released {
		return nil, gpu.ErrReleased
	}
	stages := []struct {
		name, source string
	}{
		{"vertex", src.Vertex},
		{"fragment", src.Fragment},
	}
	for _, s := range stages {
		if strings.TrimSpace(s.source) == "" {
			return nil, &gpu.CompileError{Program: src.Name, Stage: s.name, Log: "0:1: error: empty shader source"}
		}
		if !strings.Contains(s.source, "void main") {
			return nil, &gpu.CompileError{Program: src.Name, Stage: s.name, Log: "0:0: error: missing entry point 'main'"}
		}
	}
	if src.Kernel == nil {
		return nil, &gpu.CompileError{
			Program: src.Name,
			Stage:   "fragment",
			Log:     fmt.Sprintf("software device: no kernel bound to program %q", src.Name),
		}
	}
	return &program{name: src.Name, kernel: src.Kernel}, nil
}

func (d *Device) StretchRect(src gpu.Texture) error {
	if d.released {
		return gpu.ErrReleased
	}
	t, ok := src.(*texture)
	if !ok {
		return fmt.Errorf("texture %T was not created by this device", src)
	}
	if t.format != gpu.FormatBGRA {
		return gpu.ErrFormatMismatch
	}
	if err := t.check(); err != nil {
		return err
	}
	s := &bgraImage{t}
	draw.NearestNeighbor.Scale(d.back, d.back.Bounds(), s, s.Bounds(), draw.Src, nil)
	return nil
}

func (d *Device) Draw(p gpu.Program, vb gpu.VertexBuffer, textures ...gpu.Texture) error {
	if d.released {
		return gpu.ErrReleased
	}
	prog, ok := p.(*program)
	if !ok || prog.released {
		return fmt.Errorf("program %T is not usable on this device", p)
	}
	buf, ok := vb.(*vertexBuffer)
	if !ok || buf.released {
		return fmt.Errorf("vertex buffer %T is not usable on this device", vb)
	}

	samplers := make([]gpu.Sampler, len(textures))
	for i, tex := range textures {
		t, ok := tex.(*texture)
		if !ok {
			return fmt.Errorf("texture %T was not created by this device", tex)
		}
		if err := t.check(); err != nil {
			return err
		}
		samplers[i] = &pointSampler{t}
	}

	for i := 0; i+2 < len(buf.vertices); i++ {
		d.rasterize(buf.vertices[i], buf.vertices[i+1], buf.vertices[i+2], prog.kernel, samplers)
	}
	return nil
}

func (d *Device) Present() error {
	if d.released {
		return gpu.ErrReleased
	}
	if d.display != nil {
		if err := d.display.Show(d.back); err != nil {
			return err
		}
	}
	d.presented++
	return nil
}

func (d *Device) Release() error {
	if d.released {
		return gpu.ErrReleased
	}
	d.released = true
	logger.Debugf("released device after %d presents", d.presented)
	return nil
}
