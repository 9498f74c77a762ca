package triangle

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/oliverbestmann/hellotriangle/glimpse"
	"github.com/oliverbestmann/hellotriangle/pulse"
)

type RunOptions struct {
	WindowWidth  int
	WindowHeight int
	WindowTitle  string

	// stop after this many frames, run until the window is closed if zero
	MaxFrames uint64

	Renderer Options
}

func (opts RunOptions) withDefaults() RunOptions {
	if opts.WindowWidth == 0 {
		opts.WindowWidth = 800
	}

	if opts.WindowHeight == 0 {
		opts.WindowHeight = 600
	}

	if opts.WindowTitle == "" {
		opts.WindowTitle = "Hello Triangle"
	}

	return opts
}

// Run opens a window, sets up the gpu and renders the triangle on every
// display refresh until the window is closed or ctx is cancelled.
func Run(ctx context.Context, opts RunOptions) error {
	opts = opts.withDefaults()

	// create a new window
	win, err := glimpse.NewWindow(
		opts.WindowWidth,
		opts.WindowHeight,
		opts.WindowTitle,
	)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}

	defer win.Terminate()

	// initialize the webgpu device
	gpu, err := pulse.New(win.SurfaceDescriptor())
	if err != nil {
		return fmt.Errorf("initializing wgpu: %w", err)
	}

	defer gpu.Release()

	// size the surface to match the window
	width, height := win.GetSize()

	view, err := pulse.NewView(gpu, width, height)
	if err != nil {
		return fmt.Errorf("create view: %w", err)
	}

	lib, err := pulse.DefaultLibrary(gpu)
	if err != nil {
		return fmt.Errorf("load shader library: %w", err)
	}

	defer lib.Release()

	renderer, err := Setup(gpu, view, lib, opts.Renderer)
	if err != nil {
		return fmt.Errorf("setup renderer: %w", err)
	}

	defer renderer.Release()

	err = Drive(ctx, win, renderer, opts.MaxFrames)

	stats := renderer.Stats()
	slog.Info("Renderer stopped",
		slog.Uint64("frames", stats.Frames),
		slog.Uint64("submitted", stats.Submitted),
		slog.Uint64("skipped", stats.Skipped),
	)

	return err
}

// Drive renders a frame on every tick of the display link. It stops after
// maxFrames frames if maxFrames is not zero.
func Drive(ctx context.Context, link glimpse.DisplayLink, renderer *Renderer, maxFrames uint64) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var frames uint64

	return link.Run(ctx, func() error {
		if err := renderer.Render(); err != nil {
			return fmt.Errorf("render frame %d: %w", frames, err)
		}

		frames++
		if maxFrames != 0 && frames >= maxFrames {
			cancel()
		}

		return nil
	})
}
