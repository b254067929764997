package feed

import (
	"context"
	"time"

	"github.com/juju/clock"

	"github.com/F1Justin/Chat-Message-Danmaku-System/internal/logging"
	"github.com/F1Justin/Chat-Message-Danmaku-System/internal/models"
	"github.com/F1Justin/Chat-Message-Danmaku-System/internal/repository"
	"github.com/F1Justin/Chat-Message-Danmaku-System/internal/service"
)

const (
	defaultPollInterval = time.Second
	pollErrorBackoff    = 5 * time.Second

	// skewTolerance bounds how far store timestamps may run ahead of the
	// local clock before they are treated as unreliable; skewFallback is
	// the window the feed rewinds to when that happens.
	skewTolerance = 30 * time.Minute
	skewFallback  = time.Hour
)

// PollingFeed discovers new rows by querying for timestamps strictly past a
// watermark. The watermark lives in memory only: a restart re-seeds it from
// the store's own max timestamp, so a skewed local clock cannot create a gap.
type PollingFeed struct {
	records  repository.MessageRecordRepositoryInterface
	resolver *service.GroupResolver
	clock    clock.Clock
	interval time.Duration

	watermark time.Time
	events    chan models.DanmakuEvent
}

func NewPollingFeed(records repository.MessageRecordRepositoryInterface, resolver *service.GroupResolver, interval time.Duration, clk clock.Clock) *PollingFeed {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if clk == nil {
		clk = clock.WallClock
	}
	return &PollingFeed{
		records:  records,
		resolver: resolver,
		clock:    clk,
		interval: interval,
		events:   make(chan models.DanmakuEvent, eventBuffer),
	}
}

func (f *PollingFeed) Events() <-chan models.DanmakuEvent {
	return f.events
}

// Run polls until ctx is cancelled. Cycle errors are logged and retried
// after a backoff; they never terminate the feed.
func (f *PollingFeed) Run(ctx context.Context) error {
	f.initWatermark()
	logging.Info("polling feed started", logging.Fields{
		"interval":  f.interval.String(),
		"watermark": f.watermark,
	})

	for {
		wait := f.interval
		if err := f.cycle(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logging.Error("poll cycle failed", logging.Fields{"error": err.Error()})
			wait = pollErrorBackoff
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-f.clock.After(wait):
		}
	}
}

// initWatermark seeds the watermark from the newest row in the store, or
// from an hour ago when the store is empty or unreachable.
func (f *PollingFeed) initWatermark() {
	max, err := f.records.MaxTimestamp()
	if err != nil {
		logging.Warn("watermark seed query failed, falling back to local clock", logging.Fields{"error": err.Error()})
	}
	if err != nil || max == nil {
		f.watermark = f.clock.Now().UTC().Add(-skewFallback)
		return
	}
	f.watermark = *max
}

// cycle runs one poll pass: fetch rows past the watermark, emit them oldest
// first, then advance the watermark just past the newest emitted timestamp.
// An empty pass leaves the watermark untouched.
func (f *PollingFeed) cycle(ctx context.Context) error {
	now := f.clock.Now().UTC()

	if f.watermark.After(now.Add(skewTolerance)) {
		logging.Warn("watermark is ahead of local clock, rewinding", logging.Fields{
			"watermark": f.watermark,
			"local_now": now,
		})
		f.watermark = now.Add(-skewFallback)
	}

	lower := f.watermark
	storeMax, err := f.records.MaxTimestamp()
	if err != nil {
		return err
	}
	if storeMax != nil && storeMax.After(now.Add(skewTolerance)) {
		// The store clock is untrustworthy; query from a window anchored
		// to the local clock instead so the feed cannot stall waiting for
		// timestamps that never arrive.
		logging.Warn("store max timestamp is ahead of local clock", logging.Fields{
			"store_max": *storeMax,
			"local_now": now,
		})
		lower = now.Add(-skewFallback)
	}

	rows, err := f.records.FindNewerThan(lower)
	if err != nil {
		return err
	}

	var newest time.Time
	for _, row := range rows {
		event := eventFromRow(row, f.resolver)
		select {
		case f.events <- event:
		case <-ctx.Done():
			return ctx.Err()
		}
		if row.Time.After(newest) {
			newest = row.Time
		}
	}

	if len(rows) > 0 {
		f.watermark = newest.Add(time.Millisecond)
	}
	return nil
}
