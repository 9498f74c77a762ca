package triangle

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/oliverbestmann/hellotriangle/pulse"
	"github.com/oliverbestmann/webgpu/wgpu"
)

// ErrBufferSize is returned if the vertex buffer created by the device
// does not exactly fit the vertex data.
var ErrBufferSize = errors.New("vertex buffer size mismatch")

// DefaultClearColor is the background color of the frame.
var DefaultClearColor = pulse.ColorLinearRGBA(0.0, 104.0/255.0, 55.0/255.0, 1.0)

type Options struct {
	// background color, DefaultClearColor if nil
	ClearColor *pulse.Color

	VertexFunction   string
	FragmentFunction string
}

func (opts Options) withDefaults() Options {
	if opts.ClearColor == nil {
		clearColor := DefaultClearColor
		opts.ClearColor = &clearColor
	}

	if opts.VertexFunction == "" {
		opts.VertexFunction = "basic_vertex"
	}

	if opts.FragmentFunction == "" {
		opts.FragmentFunction = "basic_fragment"
	}

	return opts
}

// FrameStats counts the frames a Renderer has processed.
type FrameStats struct {
	// number of calls to Render
	Frames uint64

	// number of committed command buffers
	Submitted uint64

	// number of frames skipped because no drawable was available
	Skipped uint64
}

// Renderer holds the gpu state created once during Setup and
// renders the triangle each frame.
type Renderer struct {
	layer pulse.Layer

	vertexBuffer pulse.Buffer
	pipeline     pulse.RenderPipeline
	queue        pulse.CommandQueue

	clearColor pulse.Color

	stats FrameStats
	times FrameTimes
	now   func() time.Time
}

// Setup creates all gpu resources needed to render the triangle.
// Any error is fatal, no partially initialized Renderer is returned.
func Setup(dev pulse.Device, layer pulse.Layer, lib *pulse.ShaderLibrary, opts Options) (r *Renderer, err error) {
	opts = opts.withDefaults()

	r = &Renderer{
		layer:      layer,
		clearColor: *opts.ClearColor,
		now:        time.Now,
	}

	defer func() {
		if err != nil {
			r.Release()
			r = nil
		}
	}()

	// upload the vertex data into a buffer of exactly the same size
	vertexData := VertexData()

	r.vertexBuffer, err = dev.NewVertexBuffer("Triangle.Vertices", vertexData)
	if err != nil {
		return r, fmt.Errorf("create vertex buffer: %w", err)
	}

	if size := r.vertexBuffer.Size(); size != uint64(len(vertexData)) {
		return r, fmt.Errorf("%w: got %d bytes, want %d", ErrBufferSize, size, len(vertexData))
	}

	vertexFunction, err := lib.StageFunction(opts.VertexFunction, pulse.StageVertex)
	if err != nil {
		return r, fmt.Errorf("load vertex function: %w", err)
	}

	fragmentFunction, err := lib.StageFunction(opts.FragmentFunction, pulse.StageFragment)
	if err != nil {
		return r, fmt.Errorf("load fragment function: %w", err)
	}

	slog.Info(
		"Create RenderPipeline for triangle",
		slog.String("vertex", vertexFunction.Name),
		slog.String("fragment", fragmentFunction.Name),
		slog.Any("format", layer.PixelFormat()),
	)

	r.pipeline, err = dev.NewRenderPipeline(pulse.RenderPipelineDescriptor{
		Label:            "Triangle",
		VertexFunction:   vertexFunction,
		FragmentFunction: fragmentFunction,
		VertexLayout:     VertexLayout(),
		ColorFormat:      layer.PixelFormat(),
	})

	if err != nil {
		return r, fmt.Errorf("compile pipeline: %w", err)
	}

	r.queue, err = dev.NewCommandQueue()
	if err != nil {
		return r, fmt.Errorf("create command queue: %w", err)
	}

	return r, nil
}

// Render renders one frame. If the layer has no drawable available,
// the frame is skipped without error.
func (r *Renderer) Render() error {
	r.stats.Frames++

	if r.times.Tick(r.now()) {
		slog.Debug("Frame stats",
			slog.Float64("fps", r.times.FPS()),
			slog.Duration("max", r.times.MaxDuration),
			slog.Uint64("skipped", r.stats.Skipped),
		)
	}

	drawable, ok := r.layer.NextDrawable()
	if !ok {
		r.stats.Skipped++
		return nil
	}

	// everything allocated for this frame is released when the frame ends
	var scope pulse.FrameScope
	defer scope.Release()

	pulse.Track(&scope, drawable)

	cmd, err := r.queue.NewCommandBuffer("Triangle")
	if err != nil {
		return fmt.Errorf("create command buffer: %w", err)
	}

	pulse.Track(&scope, cmd)

	pass, err := cmd.BeginRenderPass(pulse.RenderPassDescriptor{
		Label: "Triangle",
		ColorAttachment: pulse.ColorAttachment{
			Target:     drawable,
			LoadOp:     wgpu.LoadOpClear,
			ClearColor: r.clearColor,
		},
	})

	if err != nil {
		return fmt.Errorf("begin render pass: %w", err)
	}

	pulse.Track(&scope, pass)

	pass.SetPipeline(r.pipeline)
	pass.SetVertexBuffer(0, r.vertexBuffer, 0)
	pass.Draw(VertexCount, 1, 0, 0)

	if err := pass.End(); err != nil {
		return fmt.Errorf("end render pass: %w", err)
	}

	// present the drawable as soon as drawing completes
	cmd.PresentDrawable(drawable)

	if err := cmd.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	r.stats.Submitted++

	return nil
}

func (r *Renderer) Stats() FrameStats {
	return r.stats
}

func (r *Renderer) Pipeline() pulse.RenderPipeline {
	return r.pipeline
}

func (r *Renderer) VertexBuffer() pulse.Buffer {
	return r.vertexBuffer
}

// Release releases the gpu resources in reverse order of creation.
func (r *Renderer) Release() {
	if r.queue != nil {
		r.queue.Release()
		r.queue = nil
	}

	if r.pipeline != nil {
		r.pipeline.Release()
		r.pipeline = nil
	}

	if r.vertexBuffer != nil {
		r.vertexBuffer.Release()
		r.vertexBuffer = nil
	}
}
