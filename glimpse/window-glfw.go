package glimpse

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/oliverbestmann/webgpu/wgpu"
	"github.com/oliverbestmann/webgpu/wgpuglfw"
	"github.com/pkg/profile"
)

type glfwWindow struct {
	win  *glfw.Window
	prof interface{ Stop() }
}

func NewWindow(width, height int, title string) (Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("initialize glfw: %w", err)
	}

	// webgpu manages the surface, glfw must not create a gl context
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.False)

	window, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}

	w := &glfwWindow{
		win:  window,
		prof: startProfile(os.Getenv("TRIANGLE_PROFILE")),
	}

	return w, nil
}

func (g *glfwWindow) GetSize() (uint32, uint32) {
	width, height := g.win.GetFramebufferSize()
	return uint32(width), uint32(height)
}

func (g *glfwWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return wgpuglfw.GetSurfaceDescriptor(g.win)
}

func (g *glfwWindow) Terminate() {
	if g.prof != nil {
		g.prof.Stop()
	}

	g.win.Destroy()
	glfw.Terminate()
}

// Run polls window events and calls tick once per iteration. With a fifo
// present mode, acquiring the next surface texture blocks until the next
// vertical refresh, which paces the loop to the display.
func (g *glfwWindow) Run(ctx context.Context, tick func() error) error {
	for !g.win.ShouldClose() {
		if ctx.Err() != nil {
			return nil
		}

		glfw.PollEvents()

		if err := tick(); err != nil {
			return err
		}
	}

	return nil
}

type noopProfile struct{}

func (noopProfile) Stop() {}

func startProfile(mode string) interface{ Stop() } {
	switch strings.ToLower(mode) {
	case "":
		return noopProfile{}
	case "cpu":
		return profile.Start(profile.CPUProfile, profile.NoShutdownHook)
	case "mem":
		return profile.Start(profile.MemProfile, profile.NoShutdownHook)
	}

	slog.Warn("Unknown profile mode", slog.String("mode", mode))

	return noopProfile{}
}
