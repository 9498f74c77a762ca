package pulse

import (
	"github.com/oliverbestmann/webgpu/wgpu"
)

// Releaser is implemented by every gpu resource that must be released
// explicitly once it is not needed anymore.
type Releaser interface {
	Release()
}

type Buffer interface {
	Releaser

	// Size returns the size of the buffer in bytes
	Size() uint64
}

type ShaderModule interface {
	Releaser
}

type RenderPipeline interface {
	Releaser
}

// Device creates gpu resources. It is implemented by *Context for a
// real webgpu device.
type Device interface {
	// NewVertexBuffer creates a gpu resident vertex buffer that is initialized
	// with the given contents. The buffer has the exact size of contents.
	NewVertexBuffer(label string, contents []byte) (Buffer, error)

	// NewShaderModule compiles the given wgsl source code
	NewShaderModule(label string, code string) (ShaderModule, error)

	NewRenderPipeline(desc RenderPipelineDescriptor) (RenderPipeline, error)

	NewCommandQueue() (CommandQueue, error)
}

type VertexAttribute struct {
	Format         wgpu.VertexFormat
	Offset         uint64
	ShaderLocation uint32
}

type VertexLayout struct {
	Stride     uint64
	Attributes []VertexAttribute
}

type RenderPipelineDescriptor struct {
	Label string

	VertexFunction   ShaderFunction
	FragmentFunction ShaderFunction

	VertexLayout VertexLayout

	// format of the color attachment the pipeline renders to
	ColorFormat wgpu.TextureFormat
}

// Drawable is a texture handed out by a Layer for exactly one frame.
type Drawable interface {
	Releaser
}

// Layer is the display surface drawables are acquired from.
type Layer interface {
	PixelFormat() wgpu.TextureFormat

	// NextDrawable returns the next drawable to render into. If no drawable
	// is currently available, ok is false and the frame should be skipped.
	NextDrawable() (drawable Drawable, ok bool)
}

type ColorAttachment struct {
	Target     Drawable
	LoadOp     wgpu.LoadOp
	ClearColor Color
}

type RenderPassDescriptor struct {
	Label           string
	ColorAttachment ColorAttachment
}

type CommandQueue interface {
	Releaser

	NewCommandBuffer(label string) (CommandBuffer, error)
}

// CommandBuffer records gpu commands that are submitted as one unit when
// calling Commit. A CommandBuffer can only be committed once.
type CommandBuffer interface {
	Releaser

	BeginRenderPass(desc RenderPassDescriptor) (RenderPassEncoder, error)

	// PresentDrawable schedules the drawable to be presented once the
	// command buffer was submitted.
	PresentDrawable(drawable Drawable)

	Commit() error
}

type RenderPassEncoder interface {
	Releaser

	SetPipeline(pipeline RenderPipeline)
	SetVertexBuffer(slot uint32, buffer Buffer, offset uint64)
	Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32)

	// End finishes encoding of the render pass.
	End() error
}
