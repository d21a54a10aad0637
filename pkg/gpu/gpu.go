// Package gpu describes the graphics device the player draws through.
// A host provides the Device: a hardware backed one, or the software
// reference device in package soft.
package gpu

// PixelFormat is the memory layout of a texture.
type PixelFormat int

const (
	// FormatR8 is a single channel 8 bit texture. Luma planes are uploaded as R8.
	FormatR8 PixelFormat = iota + 1
	// FormatRG8 is a two channel 8 bit texture. Interleaved chroma planes are
	// uploaded as RG8 with Cb in R and Cr in G.
	FormatRG8
	// FormatBGRA is a packed 32 bit color surface, bytes in B, G, R, A order.
	FormatBGRA
)

// BytesPerPixel returns the size of one texel.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case FormatR8:
		return 1
	case FormatRG8:
		return 2
	case FormatBGRA:
		return 4
	default:
		return 0
	}
}

func (f PixelFormat) String() string {
	switch f {
	case FormatR8:
		return "R8"
	case FormatRG8:
		return "RG8"
	case FormatBGRA:
		return "BGRA"
	default:
		return "unknown"
	}
}

// Releaser is implemented by every device owned resource.
type Releaser interface {
	Release() error
}

// Texture is device memory holding one image. Rows may be padded: the pitch
// returned by Lock is at least Width*BytesPerPixel and writes must use it.
type Texture interface {
	Releaser
	Width() int
	Height() int
	Format() PixelFormat
	// Lock maps the texture for writing. A texture can be locked by one
	// writer at a time; locking a locked texture returns ErrSurfaceBusy.
	Lock() (pix []byte, pitch int, err error)
	Unlock() error
}

// Vertex is a position in normalized device coordinates plus a texture
// coordinate.
type Vertex struct {
	X, Y float32
	U, V float32
}

// VertexBuffer holds vertices drawn as a triangle strip.
type VertexBuffer interface {
	Releaser
	Len() int
}

// Program is a compiled shading program.
type Program interface {
	Releaser
	Name() string
}

// Sampler reads a texture with point filtering and clamped addressing.
// Channels are normalized to [0,1].
type Sampler interface {
	Sample(u, v float32) [4]float32
}

// Kernel is the per pixel stage of a program expressed in Go, for devices
// that cannot run the shader source. samplers are bound in the order the
// textures are passed to Draw.
type Kernel func(samplers []Sampler, u, v float32) [4]float32

// ProgramSource is everything a device needs to build a Program.
type ProgramSource struct {
	Name     string
	Vertex   string
	Fragment string
	Kernel   Kernel
}

// Device is the host graphics device. All calls happen on the player's
// control goroutine.
type Device interface {
	Releaser
	// Width and Height are the size of the back buffer.
	Width() int
	Height() int
	CreateTexture(width, height int, format PixelFormat) (Texture, error)
	CreateVertexBuffer(vertices []Vertex) (VertexBuffer, error)
	// CompileProgram returns a *CompileError carrying the compiler
	// diagnostic when the source does not build.
	CompileProgram(src ProgramSource) (Program, error)
	// StretchRect copies src onto the whole back buffer with nearest
	// filtering.
	StretchRect(src Texture) error
	// Draw runs p over the triangle strip in vb with textures bound in order.
	Draw(p Program, vb VertexBuffer, textures ...Texture) error
	// Present shows the back buffer.
	Present() error
}
