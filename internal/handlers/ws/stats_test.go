package ws

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/juju/clock/testclock"
)

func waitForStatsCount(t *testing.T, conn *MockConn, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(statsFrames(conn)) >= want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("got %d stats frames, want at least %d", len(statsFrames(conn)), want)
}

func TestStatsTickerBroadcastsOnInterval(t *testing.T) {
	h := NewHub()
	_, conn := connectSubscriber(t, h)
	connectFrames := len(statsFrames(conn))

	clk := testclock.NewClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	ticker := NewStatsTicker(h, 30*time.Second, clk)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ticker.Run(ctx) }()

	if err := clk.WaitAdvance(30*time.Second, time.Second, 1); err != nil {
		t.Fatalf("WaitAdvance: %v", err)
	}
	waitForStatsCount(t, conn, connectFrames+1)

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run returned %v, want context.Canceled", err)
	}
}

func TestStatsTickerDefaults(t *testing.T) {
	ticker := NewStatsTicker(NewHub(), 0, nil)
	if ticker.interval != defaultStatsInterval {
		t.Errorf("interval = %v, want %v", ticker.interval, defaultStatsInterval)
	}
	if ticker.clock == nil {
		t.Error("clock not defaulted")
	}
}
