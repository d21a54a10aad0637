package convert

import "github.com/pion/nv12play/pkg/gpu"

const (
	lumaOffset   = float32(16) / 255
	chromaOffset = float32(128) / 255
)

// BT709 converts one normalized Y'UV sample to RGB with BT.709 coefficients,
// each channel saturated to [0,1].
func BT709(y, u, v float32) (r, g, b float32) {
	y -= lumaOffset
	u -= chromaOffset
	v -= chromaOffset

	r = saturate(y + 1.5748*v)
	g = saturate(y - 0.1873*u - 0.4681*v)
	b = saturate(y + 1.8556*u)
	return
}

func saturate(f float32) float32 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// NV12Kernel is the Go form of the NV12 fragment shader. samplers[0] is the
// R8 luma texture and samplers[1] the half resolution RG8 chroma texture.
func NV12Kernel(samplers []gpu.Sampler, u, v float32) [4]float32 {
	luma := samplers[0].Sample(u, v)
	chroma := samplers[1].Sample(u, v)
	r, g, b := BT709(luma[0], chroma[0], chroma[1])
	return [4]float32{r, g, b, 1}
}

const nv12VertexShader = `#version 330 core
layout(location = 0) in vec2 position;
layout(location = 1) in vec2 texCoord;
out vec2 uv;

void main() {
	uv = texCoord;
	gl_Position = vec4(position, 0.0, 1.0);
}
`

// The samplers must be configured with GL_NEAREST filtering and
// GL_CLAMP_TO_EDGE addressing.
const nv12FragmentShader = `#version 330 core
in vec2 uv;
out vec4 color;
uniform sampler2D lumaTexture;
uniform sampler2D chromaTexture;

void main() {
	float y = texture(lumaTexture, uv).r - 16.0 / 255.0;
	vec2 c = texture(chromaTexture, uv).rg - vec2(128.0 / 255.0);
	vec3 rgb = vec3(
		y + 1.5748 * c.y,
		y - 0.1873 * c.x - 0.4681 * c.y,
		y + 1.8556 * c.x
	);
	color = vec4(clamp(rgb, 0.0, 1.0), 1.0);
}
`

// NV12Program is the shader program of the GPU path.
var NV12Program = gpu.ProgramSource{
	Name:     "nv12-bt709",
	Vertex:   nv12VertexShader,
	Fragment: nv12FragmentShader,
	Kernel:   NV12Kernel,
}

// QuadVertices covers the whole viewport as a two triangle strip, texture
// coordinates running from (0,0) at the top left to (1,1) at the bottom right.
var QuadVertices = []gpu.Vertex{
	{X: -1, Y: 1, U: 0, V: 0},
	{X: 1, Y: 1, U: 1, V: 0},
	{X: -1, Y: -1, U: 0, V: 1},
	{X: 1, Y: -1, U: 1, V: 1},
}
