package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/oliverbestmann/hellotriangle/triangle"
)

func main() {
	width := flag.Int("width", 800, "width of the window")
	height := flag.Int("height", 600, "height of the window")
	title := flag.String("title", "Hello Triangle", "title of the window")
	frames := flag.Uint64("frames", 0, "stop after this many frames, 0 runs until the window is closed")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{AddSource: true, Level: level})
	slog.SetDefault(slog.New(handler))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := triangle.RunOptions{
		WindowWidth:  *width,
		WindowHeight: *height,
		WindowTitle:  *title,
		MaxFrames:    *frames,
	}

	if err := triangle.Run(ctx, opts); err != nil {
		slog.Error("Render triangle", slog.String("err", err.Error()))
		stop()
		os.Exit(1)
	}
}
