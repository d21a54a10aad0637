package nv12play

import (
	"fmt"

	ilogging "github.com/pion/nv12play/internal/logging"
	"github.com/pion/nv12play/pkg/convert"
	"github.com/pion/nv12play/pkg/frame"
	"github.com/pion/nv12play/pkg/gpu"
	"github.com/pion/nv12play/pkg/prop"
)

const (
	// RendererCPU converts frames with the BT.601 integer transform into an
	// offscreen BGRA surface and stretch-blits it to the back buffer.
	RendererCPU = "cpu"
	// RendererGPU uploads the two planes as textures and converts with the
	// BT.709 shader while drawing a full viewport quad.
	RendererGPU = "gpu"
)

var rendererLog = ilogging.NewLogger("renderer")

// Renderer turns one frame into the device's back buffer. The player
// presents after Draw.
type Renderer interface {
	gpu.Releaser
	Name() string
	// Init creates the device resources. Errors are configuration errors.
	Init(dev gpu.Device, video prop.Video) error
	// Convert writes f into device memory.
	Convert(f frame.NV12) error
	// Draw renders the converted frame to the back buffer.
	Draw() error
}

// NewRenderer returns the strategy called name.
func NewRenderer(name string) (Renderer, error) {
	switch name {
	case RendererCPU:
		return &cpuRenderer{}, nil
	case RendererGPU:
		return &gpuRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown renderer %q, expected %q or %q", name, RendererCPU, RendererGPU)
	}
}

type cpuRenderer struct {
	dev     gpu.Device
	surface gpu.Texture
	scope   gpu.Scope
}

func (r *cpuRenderer) Name() string { return RendererCPU }

func (r *cpuRenderer) Init(dev gpu.Device, video prop.Video) error {
	surface, err := dev.CreateTexture(video.Width, video.Height, gpu.FormatBGRA)
	if err != nil {
		return fmt.Errorf("failed to create offscreen surface: %w", err)
	}
	r.scope.Add(surface)
	r.dev = dev
	r.surface = surface
	return nil
}

func (r *cpuRenderer) Convert(f frame.NV12) (err error) {
	pix, pitch, err := r.surface.Lock()
	if err != nil {
		return fmt.Errorf("failed to lock offscreen surface: %w", err)
	}
	defer func() {
		if unlockErr := r.surface.Unlock(); err == nil {
			err = unlockErr
		}
	}()
	return convert.NV12ToBGRA(pix, pitch, f)
}

func (r *cpuRenderer) Draw() error {
	return r.dev.StretchRect(r.surface)
}

func (r *cpuRenderer) Release() error {
	return r.scope.Release()
}

type gpuRenderer struct {
	dev      gpu.Device
	luma     gpu.Texture
	chroma   gpu.Texture
	vertices gpu.VertexBuffer
	program  gpu.Program
	scope    gpu.Scope
}

func (r *gpuRenderer) Name() string { return RendererGPU }

func (r *gpuRenderer) Init(dev gpu.Device, video prop.Video) (err error) {
	defer func() {
		if err != nil {
			if releaseErr := r.scope.Release(); releaseErr != nil {
				rendererLog.Warnf("failed to release %s renderer resources: %v", RendererGPU, releaseErr)
			}
		}
	}()

	if r.program, err = dev.CompileProgram(convert.NV12Program); err != nil {
		return err
	}
	r.scope.Add(r.program)

	if r.luma, err = dev.CreateTexture(video.Width, video.Height, gpu.FormatR8); err != nil {
		return fmt.Errorf("failed to create luma texture: %w", err)
	}
	r.scope.Add(r.luma)

	if r.chroma, err = dev.CreateTexture(video.Width/2, video.Height/2, gpu.FormatRG8); err != nil {
		return fmt.Errorf("failed to create chroma texture: %w", err)
	}
	r.scope.Add(r.chroma)

	if r.vertices, err = dev.CreateVertexBuffer(convert.QuadVertices); err != nil {
		return fmt.Errorf("failed to create vertex buffer: %w", err)
	}
	r.scope.Add(r.vertices)

	r.dev = dev
	return nil
}

func (r *gpuRenderer) Convert(f frame.NV12) error {
	if err := gpu.UploadPlane(r.luma, f.Y, f.Width, f.Height); err != nil {
		return fmt.Errorf("failed to upload luma plane: %w", err)
	}
	if err := gpu.UploadPlane(r.chroma, f.UV, f.ChromaWidth(), f.ChromaHeight()); err != nil {
		return fmt.Errorf("failed to upload chroma plane: %w", err)
	}
	return nil
}

func (r *gpuRenderer) Draw() error {
	return r.dev.Draw(r.program, r.vertices, r.luma, r.chroma)
}

func (r *gpuRenderer) Release() error {
	return r.scope.Release()
}
