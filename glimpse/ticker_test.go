package glimpse

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestTickerStopsAfterMaxTicks(t *testing.T) {
	var count int

	link := Ticker{Interval: time.Millisecond, MaxTicks: 60}

	err := link.Run(context.Background(), func() error {
		count++
		return nil
	})

	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if count != 60 {
		t.Errorf("tick called %d times, want 60", count)
	}
}

func TestTickerStopsOnError(t *testing.T) {
	errStop := errors.New("stop")

	var count int

	link := Ticker{Interval: time.Millisecond}

	err := link.Run(context.Background(), func() error {
		count++
		if count == 3 {
			return errStop
		}

		return nil
	})

	if !errors.Is(err, errStop) {
		t.Errorf("Run() error = %v, want %v", err, errStop)
	}

	if count != 3 {
		t.Errorf("tick called %d times, want 3", count)
	}
}

func TestTickerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var count int

	link := Ticker{Interval: time.Millisecond}

	err := link.Run(ctx, func() error {
		count++
		if count == 5 {
			cancel()
		}

		return nil
	})

	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if count != 5 {
		t.Errorf("tick called %d times, want 5", count)
	}
}
