package pulse

import (
	"errors"
	"fmt"

	"github.com/oliverbestmann/webgpu/wgpu"
)

var ErrCommitted = errors.New("command buffer already committed")

type commandQueue struct {
	device *wgpu.Device
	queue  *wgpu.Queue
}

func (q *commandQueue) NewCommandBuffer(label string) (CommandBuffer, error) {
	enc, err := q.device.TryCreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return nil, fmt.Errorf("create command encoder %q: %w", label, err)
	}

	return &commandBuffer{label: label, queue: q.queue, encoder: enc}, nil
}

func (q *commandQueue) Release() {
	if q.queue != nil {
		q.queue.Release()
		q.queue = nil
	}
}

type commandBuffer struct {
	label   string
	queue   *wgpu.Queue
	encoder *wgpu.CommandEncoder

	presents  []*surfaceDrawable
	committed bool
}

func (c *commandBuffer) BeginRenderPass(desc RenderPassDescriptor) (RenderPassEncoder, error) {
	drawable, ok := desc.ColorAttachment.Target.(*surfaceDrawable)
	if !ok {
		return nil, fmt.Errorf("render pass %q: target is not a surface drawable", desc.Label)
	}

	pass := c.encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: desc.Label,
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       drawable.view,
				LoadOp:     desc.ColorAttachment.LoadOp,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: desc.ColorAttachment.ClearColor.ToWGPU(),
			},
		},
	})

	return &renderPass{pass: pass}, nil
}

func (c *commandBuffer) PresentDrawable(drawable Drawable) {
	if d, ok := drawable.(*surfaceDrawable); ok {
		c.presents = append(c.presents, d)
	}
}

func (c *commandBuffer) Commit() error {
	if c.committed {
		return ErrCommitted
	}

	c.committed = true

	// encode into a command buffer
	buf, err := c.encoder.TryFinish(&wgpu.CommandBufferDescriptor{Label: c.label})
	if err != nil {
		return fmt.Errorf("finish command buffer %q: %w", c.label, err)
	}

	defer buf.Release()

	c.queue.Submit(buf)

	// present the new texture as soon as drawing completes
	for _, drawable := range c.presents {
		drawable.present()
	}

	return nil
}

func (c *commandBuffer) Release() {
	if c.encoder != nil {
		c.encoder.Release()
		c.encoder = nil
	}

	c.presents = nil
}

type renderPass struct {
	pass *wgpu.RenderPassEncoder
}

func (p *renderPass) SetPipeline(pipeline RenderPipeline) {
	p.pass.SetPipeline(pipeline.(gpuRenderPipeline).RenderPipeline)
}

func (p *renderPass) SetVertexBuffer(slot uint32, buffer Buffer, offset uint64) {
	p.pass.SetVertexBuffer(slot, buffer.(gpuBuffer).Buffer, offset, wgpu.WholeSize)
}

func (p *renderPass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	p.pass.Draw(vertexCount, instanceCount, firstVertex, firstInstance)
}

func (p *renderPass) End() error {
	if p.pass == nil {
		return errors.New("render pass already ended")
	}

	err := p.pass.TryEnd()

	// must release pass before finishing the encoder
	p.Release()

	return err
}

func (p *renderPass) Release() {
	if p.pass != nil {
		p.pass.Release()
		p.pass = nil
	}
}
