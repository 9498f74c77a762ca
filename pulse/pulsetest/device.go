// Package pulsetest provides recording fakes of the pulse gpu interfaces.
package pulsetest

import (
	"errors"
	"fmt"

	"github.com/oliverbestmann/hellotriangle/pulse"
	"github.com/oliverbestmann/webgpu/wgpu"
)

var ErrInjected = errors.New("injected failure")

// Device records every resource it creates. Setting one of the Fail fields
// makes the corresponding call fail with that error.
type Device struct {
	Buffers   []*Buffer
	Modules   []*ShaderModule
	Pipelines []*RenderPipeline
	Queues    []*CommandQueue

	// added to the size of every buffer created
	BufferPadding uint64

	FailBuffer       error
	FailShaderModule error
	FailPipeline     error
	FailQueue        error
}

var _ pulse.Device = (*Device)(nil)

func (d *Device) NewVertexBuffer(label string, contents []byte) (pulse.Buffer, error) {
	if d.FailBuffer != nil {
		return nil, d.FailBuffer
	}

	buf := &Buffer{
		Label:    label,
		Contents: append([]byte(nil), contents...),
		size:     uint64(len(contents)) + d.BufferPadding,
	}

	d.Buffers = append(d.Buffers, buf)

	return buf, nil
}

func (d *Device) NewShaderModule(label string, code string) (pulse.ShaderModule, error) {
	if d.FailShaderModule != nil {
		return nil, d.FailShaderModule
	}

	module := &ShaderModule{Label: label, Code: code}
	d.Modules = append(d.Modules, module)

	return module, nil
}

func (d *Device) NewRenderPipeline(desc pulse.RenderPipelineDescriptor) (pulse.RenderPipeline, error) {
	if d.FailPipeline != nil {
		return nil, fmt.Errorf("build pipeline %q: %w", desc.Label, d.FailPipeline)
	}

	pipeline := &RenderPipeline{Descriptor: desc}
	d.Pipelines = append(d.Pipelines, pipeline)

	return pipeline, nil
}

func (d *Device) NewCommandQueue() (pulse.CommandQueue, error) {
	if d.FailQueue != nil {
		return nil, d.FailQueue
	}

	queue := &CommandQueue{}
	d.Queues = append(d.Queues, queue)

	return queue, nil
}

type Buffer struct {
	Label    string
	Contents []byte
	Released bool

	size uint64
}

func (b *Buffer) Size() uint64 {
	return b.size
}

func (b *Buffer) Release() {
	b.Released = true
}

type ShaderModule struct {
	Label    string
	Code     string
	Released bool
}

func (m *ShaderModule) Release() {
	m.Released = true
}

type RenderPipeline struct {
	Descriptor pulse.RenderPipelineDescriptor
	Released   bool
}

func (p *RenderPipeline) Release() {
	p.Released = true
}

// Layer hands out drawables. If Available is set, a drawable is only handed
// out for the requests where it returns true.
type Layer struct {
	Format    wgpu.TextureFormat
	Available func(request int) bool

	Requests  int
	Drawables []*Drawable
}

var _ pulse.Layer = (*Layer)(nil)

func (l *Layer) PixelFormat() wgpu.TextureFormat {
	if l.Format == wgpu.TextureFormatUndefined {
		return wgpu.TextureFormatBGRA8Unorm
	}

	return l.Format
}

func (l *Layer) NextDrawable() (pulse.Drawable, bool) {
	request := l.Requests
	l.Requests++

	if l.Available != nil && !l.Available(request) {
		return nil, false
	}

	drawable := &Drawable{Request: request}
	l.Drawables = append(l.Drawables, drawable)

	return drawable, true
}

type Drawable struct {
	Request  int
	Released bool
}

func (d *Drawable) Release() {
	d.Released = true
}
