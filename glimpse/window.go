package glimpse

import (
	"context"

	"github.com/oliverbestmann/webgpu/wgpu"
)

// DisplayLink calls tick once per display refresh until the context is
// cancelled or tick returns an error. Calls to tick never overlap.
type DisplayLink interface {
	Run(ctx context.Context, tick func() error) error
}

type Window interface {
	DisplayLink

	// GetSize returns the size of the framebuffer in pixels
	GetSize() (uint32, uint32)
	SurfaceDescriptor() *wgpu.SurfaceDescriptor
	Terminate()
}
