package pulse

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/oliverbestmann/webgpu/wgpu"
)

// ErrNoAdapter is returned if no gpu adapter is available that is
// able to render to the requested surface.
var ErrNoAdapter = errors.New("no compatible gpu adapter")

var forceFallbackAdapter = os.Getenv("WGPU_FORCE_FALLBACK_ADAPTER") == "1"

func init() {
	// glfw and the surface must be driven from the main thread
	runtime.LockOSThread()

	switch strings.ToUpper(os.Getenv("WGPU_LOG_LEVEL")) {
	case "OFF":
		wgpu.SetLogLevel(wgpu.LogLevelOff)
	case "ERROR":
		wgpu.SetLogLevel(wgpu.LogLevelError)
	case "WARN":
		wgpu.SetLogLevel(wgpu.LogLevelWarn)
	case "INFO":
		wgpu.SetLogLevel(wgpu.LogLevelInfo)
	case "DEBUG":
		wgpu.SetLogLevel(wgpu.LogLevelDebug)
	case "TRACE":
		wgpu.SetLogLevel(wgpu.LogLevelTrace)
	}
}

// Context encapsulates the low level state of the webgpu context,
// this includes the Device, Surface and active Adapter.
// Context implements the Device interface.
type Context struct {
	*wgpu.Device
	*wgpu.Queue
	Surface *wgpu.Surface
	Adapter *wgpu.Adapter
}

var _ Device = (*Context)(nil)

func New(sd *wgpu.SurfaceDescriptor) (st *Context, err error) {
	defer func() {
		if err != nil && st != nil {
			st.Release()
			st = nil
		}
	}()

	st = &Context{}

	// create the webgpu instance
	instance := wgpu.CreateInstance(nil)
	defer instance.Release()

	// create a Surface based on the window
	st.Surface = instance.CreateSurface(sd)

	// create an adapter that can render to the Surface
	st.Adapter, err = instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    st.Surface,
	})

	if err != nil {
		return st, fmt.Errorf("%w: %w", ErrNoAdapter, err)
	}

	if st.Adapter == nil {
		return st, ErrNoAdapter
	}

	// get a Device with the default settings
	st.Device, err = st.Adapter.RequestDevice(nil)
	if err != nil {
		return st, fmt.Errorf("request device: %w", err)
	}

	st.Queue = st.Device.GetQueue()

	return st, nil
}

func (d *Context) Release() {
	if d.Queue != nil {
		d.Queue.Release()
		d.Queue = nil
	}

	if d.Device != nil {
		d.Device.Release()
		d.Device = nil
	}

	if d.Adapter != nil {
		d.Adapter.Release()
		d.Adapter = nil
	}

	if d.Surface != nil {
		d.Surface.Release()
		d.Surface = nil
	}
}

func (d *Context) NewVertexBuffer(label string, contents []byte) (Buffer, error) {
	buf, err := d.Device.TryCreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label,
		Contents: contents,
		Usage:    wgpu.BufferUsageVertex,
	})

	if err != nil {
		return nil, fmt.Errorf("create buffer %q: %w", label, err)
	}

	return gpuBuffer{Buffer: buf}, nil
}

func (d *Context) NewShaderModule(label string, code string) (ShaderModule, error) {
	shader, err := d.Device.TryCreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:      label,
		WGSLSource: &wgpu.ShaderSourceWGSL{Code: code},
	})

	if err != nil {
		return nil, fmt.Errorf("compile shader %q: %w", label, err)
	}

	return gpuShaderModule{ShaderModule: shader}, nil
}

func (d *Context) NewRenderPipeline(conf RenderPipelineDescriptor) (RenderPipeline, error) {
	vertexShader, ok := conf.VertexFunction.Module.(gpuShaderModule)
	if !ok {
		return nil, fmt.Errorf("vertex function %q was not compiled by this device", conf.VertexFunction.Name)
	}

	fragmentShader, ok := conf.FragmentFunction.Module.(gpuShaderModule)
	if !ok {
		return nil, fmt.Errorf("fragment function %q was not compiled by this device", conf.FragmentFunction.Name)
	}

	var attributes []wgpu.VertexAttribute
	for _, attr := range conf.VertexLayout.Attributes {
		attributes = append(attributes, wgpu.VertexAttribute{
			Format:         attr.Format,
			Offset:         attr.Offset,
			ShaderLocation: attr.ShaderLocation,
		})
	}

	desc := &wgpu.RenderPipelineDescriptor{
		Label: conf.Label,
		Vertex: wgpu.VertexState{
			Module:     vertexShader.ShaderModule,
			EntryPoint: conf.VertexFunction.Name,
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: conf.VertexLayout.Stride,
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes:  attributes,
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     fragmentShader.ShaderModule,
			EntryPoint: conf.FragmentFunction.Name,
			Targets: []wgpu.ColorTargetState{
				{
					Format:    conf.ColorFormat,
					Blend:     nil,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		DepthStencil: nil,
		Multisample: wgpu.MultisampleState{
			Count:                  1,
			Mask:                   0xFFFFFFFF,
			AlphaToCoverageEnabled: false,
		},
	}

	pipeline, err := d.Device.TryCreateRenderPipeline(desc)
	if err != nil {
		return nil, fmt.Errorf("build pipeline %q: %w", conf.Label, err)
	}

	return gpuRenderPipeline{RenderPipeline: pipeline}, nil
}

func (d *Context) NewCommandQueue() (CommandQueue, error) {
	queue := d.Device.GetQueue()
	if queue == nil {
		return nil, errors.New("device has no queue")
	}

	return &commandQueue{device: d.Device, queue: queue}, nil
}

type gpuBuffer struct {
	*wgpu.Buffer
}

func (b gpuBuffer) Size() uint64 {
	return b.Buffer.GetSize()
}

type gpuShaderModule struct {
	*wgpu.ShaderModule
}

type gpuRenderPipeline struct {
	*wgpu.RenderPipeline
}
