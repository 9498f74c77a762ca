package pulsetest

import (
	"errors"

	"github.com/oliverbestmann/hellotriangle/pulse"
)

type CommandQueue struct {
	CommandBuffers []*CommandBuffer
	Released       bool

	FailCommandBuffer error
}

func (q *CommandQueue) NewCommandBuffer(label string) (pulse.CommandBuffer, error) {
	if q.FailCommandBuffer != nil {
		return nil, q.FailCommandBuffer
	}

	buf := &CommandBuffer{Label: label}
	q.CommandBuffers = append(q.CommandBuffers, buf)

	return buf, nil
}

func (q *CommandQueue) Release() {
	q.Released = true
}

// Committed returns the command buffers that were committed.
func (q *CommandQueue) Committed() []*CommandBuffer {
	var result []*CommandBuffer
	for _, buf := range q.CommandBuffers {
		if buf.Committed {
			result = append(result, buf)
		}
	}

	return result
}

type CommandBuffer struct {
	Label     string
	Passes    []*RenderPass
	Presented []pulse.Drawable
	Committed bool
	Released  bool

	// set if a pass was still open when Commit was called
	CommittedWithOpenPass bool
}

func (c *CommandBuffer) BeginRenderPass(desc pulse.RenderPassDescriptor) (pulse.RenderPassEncoder, error) {
	pass := &RenderPass{Descriptor: desc}
	c.Passes = append(c.Passes, pass)
	return pass, nil
}

func (c *CommandBuffer) PresentDrawable(drawable pulse.Drawable) {
	c.Presented = append(c.Presented, drawable)
}

func (c *CommandBuffer) Commit() error {
	if c.Committed {
		return pulse.ErrCommitted
	}

	for _, pass := range c.Passes {
		if !pass.Ended {
			c.CommittedWithOpenPass = true
		}
	}

	c.Committed = true

	return nil
}

func (c *CommandBuffer) Release() {
	c.Released = true
}

type Op uint8

const (
	OpSetPipeline Op = iota + 1
	OpSetVertexBuffer
	OpDraw
)

// Command is a single recorded render pass command. Only the fields
// relevant for Op are set.
type Command struct {
	Op Op

	Pipeline pulse.RenderPipeline

	Slot   uint32
	Buffer pulse.Buffer
	Offset uint64

	VertexCount   uint32
	InstanceCount uint32
	FirstVertex   uint32
	FirstInstance uint32
}

type RenderPass struct {
	Descriptor pulse.RenderPassDescriptor
	Commands   []Command
	Ended      bool
	Released   bool
}

func (p *RenderPass) SetPipeline(pipeline pulse.RenderPipeline) {
	p.record(Command{Op: OpSetPipeline, Pipeline: pipeline})
}

func (p *RenderPass) SetVertexBuffer(slot uint32, buffer pulse.Buffer, offset uint64) {
	p.record(Command{Op: OpSetVertexBuffer, Slot: slot, Buffer: buffer, Offset: offset})
}

func (p *RenderPass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	p.record(Command{
		Op:            OpDraw,
		VertexCount:   vertexCount,
		InstanceCount: instanceCount,
		FirstVertex:   firstVertex,
		FirstInstance: firstInstance,
	})
}

func (p *RenderPass) End() error {
	if p.Ended {
		return errors.New("render pass already ended")
	}

	p.Ended = true
	return nil
}

func (p *RenderPass) Release() {
	p.Released = true
}

// Draws returns all draw commands recorded in this pass.
func (p *RenderPass) Draws() []Command {
	var draws []Command
	for _, cmd := range p.Commands {
		if cmd.Op == OpDraw {
			draws = append(draws, cmd)
		}
	}

	return draws
}

func (p *RenderPass) record(cmd Command) {
	if p.Ended {
		panic("command recorded after render pass ended")
	}

	p.Commands = append(p.Commands, cmd)
}
