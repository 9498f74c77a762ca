package triangle

import (
	"errors"
	"testing"

	"github.com/oliverbestmann/hellotriangle/pulse"
	"github.com/oliverbestmann/hellotriangle/pulse/pulsetest"
	"github.com/oliverbestmann/webgpu/wgpu"
)

func setupFake(t *testing.T, dev *pulsetest.Device, layer *pulsetest.Layer, opts Options) (*Renderer, error) {
	t.Helper()

	lib, err := pulse.DefaultLibrary(dev)
	if err != nil {
		t.Fatalf("DefaultLibrary() error = %v", err)
	}

	t.Cleanup(lib.Release)

	return Setup(dev, layer, lib, opts)
}

func mustSetup(t *testing.T, layer *pulsetest.Layer) (*Renderer, *pulsetest.Device) {
	t.Helper()

	dev := &pulsetest.Device{}

	r, err := setupFake(t, dev, layer, Options{})
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}

	return r, dev
}

func TestVertexDataSize(t *testing.T) {
	data := VertexData()

	if len(data) != 9*4 {
		t.Errorf("len(VertexData()) = %d, want %d", len(data), 9*4)
	}

	if VertexDataSize != 36 {
		t.Errorf("VertexDataSize = %d, want 36", VertexDataSize)
	}
}

func TestSetupCreatesResources(t *testing.T) {
	r, dev := mustSetup(t, &pulsetest.Layer{})

	if len(dev.Buffers) != 1 {
		t.Fatalf("created %d buffers, want 1", len(dev.Buffers))
	}

	if got := r.VertexBuffer().Size(); got != 36 {
		t.Errorf("vertex buffer size = %d, want 36", got)
	}

	if got := string(dev.Buffers[0].Contents); got != string(VertexData()) {
		t.Errorf("vertex buffer contents do not match vertex data")
	}

	if len(dev.Pipelines) != 1 {
		t.Fatalf("created %d pipelines, want 1", len(dev.Pipelines))
	}

	desc := dev.Pipelines[0].Descriptor
	if desc.VertexFunction.Name != "basic_vertex" {
		t.Errorf("vertex function = %q, want basic_vertex", desc.VertexFunction.Name)
	}

	if desc.FragmentFunction.Name != "basic_fragment" {
		t.Errorf("fragment function = %q, want basic_fragment", desc.FragmentFunction.Name)
	}

	if desc.ColorFormat != wgpu.TextureFormatBGRA8Unorm {
		t.Errorf("color format = %v, want %v", desc.ColorFormat, wgpu.TextureFormatBGRA8Unorm)
	}

	if desc.VertexLayout.Stride != 12 {
		t.Errorf("vertex stride = %d, want 12", desc.VertexLayout.Stride)
	}

	if len(dev.Queues) != 1 {
		t.Errorf("created %d queues, want 1", len(dev.Queues))
	}
}

func TestSetupFailures(t *testing.T) {
	tests := []struct {
		name string
		dev  *pulsetest.Device
		opts Options
		want error
	}{
		{
			name: "buffer",
			dev:  &pulsetest.Device{FailBuffer: pulsetest.ErrInjected},
			want: pulsetest.ErrInjected,
		},
		{
			name: "buffer size",
			dev:  &pulsetest.Device{BufferPadding: 4},
			want: ErrBufferSize,
		},
		{
			name: "missing vertex function",
			dev:  &pulsetest.Device{},
			opts: Options{VertexFunction: "missing_vertex"},
			want: pulse.ErrFunctionNotFound,
		},
		{
			name: "missing fragment function",
			dev:  &pulsetest.Device{},
			opts: Options{FragmentFunction: "missing_fragment"},
			want: pulse.ErrFunctionNotFound,
		},
		{
			name: "wrong stage",
			dev:  &pulsetest.Device{},
			opts: Options{VertexFunction: "basic_fragment"},
			want: pulse.ErrWrongStage,
		},
		{
			name: "pipeline compilation",
			dev:  &pulsetest.Device{FailPipeline: pulsetest.ErrInjected},
			want: pulsetest.ErrInjected,
		},
		{
			name: "queue",
			dev:  &pulsetest.Device{FailQueue: pulsetest.ErrInjected},
			want: pulsetest.ErrInjected,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, err := setupFake(t, tc.dev, &pulsetest.Layer{}, tc.opts)
			if !errors.Is(err, tc.want) {
				t.Fatalf("Setup() error = %v, want %v", err, tc.want)
			}

			if r != nil {
				t.Errorf("Setup() returned a renderer on failure")
			}

			// partially created resources must be released
			for _, buf := range tc.dev.Buffers {
				if !buf.Released {
					t.Errorf("buffer %q not released", buf.Label)
				}
			}

			for _, pipeline := range tc.dev.Pipelines {
				if !pipeline.Released {
					t.Errorf("pipeline not released")
				}
			}
		})
	}
}

func TestRenderEncodesOneClearAndOneDraw(t *testing.T) {
	layer := &pulsetest.Layer{}
	r, dev := mustSetup(t, layer)

	if err := r.Render(); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	queue := dev.Queues[0]
	if len(queue.CommandBuffers) != 1 {
		t.Fatalf("created %d command buffers, want 1", len(queue.CommandBuffers))
	}

	cmd := queue.CommandBuffers[0]
	if !cmd.Committed {
		t.Errorf("command buffer not committed")
	}

	if cmd.CommittedWithOpenPass {
		t.Errorf("command buffer committed before the render pass ended")
	}

	if len(cmd.Passes) != 1 {
		t.Fatalf("encoded %d render passes, want 1", len(cmd.Passes))
	}

	pass := cmd.Passes[0]

	attachment := pass.Descriptor.ColorAttachment
	if attachment.LoadOp != wgpu.LoadOpClear {
		t.Errorf("load op = %v, want clear", attachment.LoadOp)
	}

	if attachment.ClearColor != DefaultClearColor {
		t.Errorf("clear color = %v, want %v", attachment.ClearColor.ToVec(), DefaultClearColor.ToVec())
	}

	if attachment.Target != pulse.Drawable(layer.Drawables[0]) {
		t.Errorf("render pass does not target the drawable")
	}

	want := []pulsetest.Command{
		{Op: pulsetest.OpSetPipeline, Pipeline: r.Pipeline()},
		{Op: pulsetest.OpSetVertexBuffer, Slot: 0, Buffer: r.VertexBuffer(), Offset: 0},
		{Op: pulsetest.OpDraw, VertexCount: 3, InstanceCount: 1},
	}

	if len(pass.Commands) != len(want) {
		t.Fatalf("recorded %d commands, want %d", len(pass.Commands), len(want))
	}

	for idx := range want {
		if pass.Commands[idx] != want[idx] {
			t.Errorf("command %d = %+v, want %+v", idx, pass.Commands[idx], want[idx])
		}
	}

	if len(cmd.Presented) != 1 || cmd.Presented[0] != pulse.Drawable(layer.Drawables[0]) {
		t.Errorf("drawable not scheduled for presentation")
	}
}

func TestRenderReleasesFrameResources(t *testing.T) {
	layer := &pulsetest.Layer{}
	r, dev := mustSetup(t, layer)

	if err := r.Render(); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	cmd := dev.Queues[0].CommandBuffers[0]
	if !cmd.Released {
		t.Errorf("command buffer not released")
	}

	if !cmd.Passes[0].Released {
		t.Errorf("render pass not released")
	}

	if !layer.Drawables[0].Released {
		t.Errorf("drawable not released")
	}

	// process lifetime resources stay alive
	if dev.Buffers[0].Released || dev.Pipelines[0].Released || dev.Queues[0].Released {
		t.Errorf("setup resources released by a frame")
	}
}

func TestRenderSkipsFrameWithoutDrawable(t *testing.T) {
	layer := &pulsetest.Layer{
		Available: func(int) bool { return false },
	}

	r, dev := mustSetup(t, layer)

	if err := r.Render(); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	if n := len(dev.Queues[0].CommandBuffers); n != 0 {
		t.Errorf("created %d command buffers, want 0", n)
	}

	stats := r.Stats()
	if stats.Skipped != 1 || stats.Submitted != 0 || stats.Frames != 1 {
		t.Errorf("Stats() = %+v", stats)
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	r, dev := mustSetup(t, &pulsetest.Layer{})

	for range 3 {
		if err := r.Render(); err != nil {
			t.Fatalf("Render() error = %v", err)
		}
	}

	buffers := dev.Queues[0].CommandBuffers
	first := buffers[0].Passes[0].Commands

	for _, buf := range buffers[1:] {
		commands := buf.Passes[0].Commands
		if len(commands) != len(first) {
			t.Fatalf("recorded %d commands, want %d", len(commands), len(first))
		}

		for idx := range first {
			if commands[idx] != first[idx] {
				t.Errorf("command %d = %+v, want %+v", idx, commands[idx], first[idx])
			}
		}
	}
}

func TestRenderSixtyFrames(t *testing.T) {
	// every seventh drawable request fails
	layer := &pulsetest.Layer{
		Available: func(request int) bool { return request%7 != 6 },
	}

	r, dev := mustSetup(t, layer)

	for range 60 {
		if err := r.Render(); err != nil {
			t.Fatalf("Render() error = %v", err)
		}
	}

	committed := dev.Queues[0].Committed()

	stats := r.Stats()
	if stats.Frames != 60 {
		t.Errorf("Frames = %d, want 60", stats.Frames)
	}

	if stats.Skipped != 8 {
		t.Errorf("Skipped = %d, want 8", stats.Skipped)
	}

	if uint64(len(committed)) != stats.Submitted || stats.Submitted != 52 {
		t.Errorf("committed %d command buffers, Submitted = %d, want 52", len(committed), stats.Submitted)
	}

	for idx, cmd := range committed {
		commands := cmd.Passes[0].Commands

		if commands[0].Pipeline != r.Pipeline() {
			t.Errorf("frame %d uses a different pipeline", idx)
		}

		if commands[1].Buffer != r.VertexBuffer() {
			t.Errorf("frame %d uses a different vertex buffer", idx)
		}

		if draws := cmd.Passes[0].Draws(); len(draws) != 1 || draws[0].VertexCount != 3 {
			t.Errorf("frame %d draws = %+v", idx, draws)
		}
	}

	if len(dev.Pipelines) != 1 || len(dev.Buffers) != 1 {
		t.Errorf("frames created new setup resources")
	}
}

func TestRenderCommandBufferFailure(t *testing.T) {
	layer := &pulsetest.Layer{}
	r, dev := mustSetup(t, layer)
	dev.Queues[0].FailCommandBuffer = pulsetest.ErrInjected

	err := r.Render()
	if !errors.Is(err, pulsetest.ErrInjected) {
		t.Errorf("Render() error = %v, want %v", err, pulsetest.ErrInjected)
	}

	if len(layer.Drawables) != 1 {
		t.Fatalf("acquired %d drawables, want 1", len(layer.Drawables))
	}

	if !layer.Drawables[0].Released {
		t.Errorf("drawable not released after a failed frame")
	}

	if stats := r.Stats(); stats.Submitted != 0 {
		t.Errorf("Submitted = %d, want 0", stats.Submitted)
	}
}

func TestCustomClearColor(t *testing.T) {
	dev := &pulsetest.Device{}
	clearColor := pulse.ColorBlack

	r, err := setupFake(t, dev, &pulsetest.Layer{}, Options{ClearColor: &clearColor})
	if err != nil {
		t.Fatalf("Setup() error = %v", err)
	}

	if err := r.Render(); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	got := dev.Queues[0].CommandBuffers[0].Passes[0].Descriptor.ColorAttachment.ClearColor
	if got != pulse.ColorBlack {
		t.Errorf("clear color = %v, want black", got.ToVec())
	}
}

func TestReleaseSetupResources(t *testing.T) {
	r, dev := mustSetup(t, &pulsetest.Layer{})
	r.Release()

	if !dev.Buffers[0].Released || !dev.Pipelines[0].Released || !dev.Queues[0].Released {
		t.Errorf("Release() did not release all setup resources")
	}

	// releasing twice is a no-op
	r.Release()
}
