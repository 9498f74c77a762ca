package glimpse

import (
	"context"
	"time"
)

// RefreshInterval is the refresh interval of a 60Hz display.
const RefreshInterval = time.Second / 60

// Ticker is a DisplayLink that is driven by a fixed interval timer instead
// of a display. It is used to drive rendering without a window.
type Ticker struct {
	Interval time.Duration

	// stop after this many ticks, unlimited if zero
	MaxTicks uint64
}

var _ DisplayLink = Ticker{}

func (t Ticker) Run(ctx context.Context, tick func() error) error {
	interval := t.Interval
	if interval <= 0 {
		interval = RefreshInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var ticks uint64

	for t.MaxTicks == 0 || ticks < t.MaxTicks {
		select {
		case <-ctx.Done():
			return nil

		case <-ticker.C:
			if ctx.Err() != nil {
				return nil
			}

			ticks++

			if err := tick(); err != nil {
				return err
			}
		}
	}

	return nil
}
