package ws

import (
	"context"
	"time"

	"github.com/juju/clock"
)

const defaultStatsInterval = 30 * time.Second

// StatsTicker re-broadcasts the connection count on a fixed cadence so
// viewer dashboards stay fresh between joins and leaves.
type StatsTicker struct {
	hub      *Hub
	interval time.Duration
	clock    clock.Clock
}

func NewStatsTicker(hub *Hub, interval time.Duration, clk clock.Clock) *StatsTicker {
	if interval <= 0 {
		interval = defaultStatsInterval
	}
	if clk == nil {
		clk = clock.WallClock
	}
	return &StatsTicker{hub: hub, interval: interval, clock: clk}
}

// Run broadcasts stats every interval until ctx ends.
func (t *StatsTicker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.clock.After(t.interval):
			t.hub.BroadcastStats()
		}
	}
}
