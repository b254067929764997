package feed

import (
	"context"
	"testing"
	"time"

	"github.com/juju/clock/testclock"

	"github.com/F1Justin/Chat-Message-Danmaku-System/internal/models"
	"github.com/F1Justin/Chat-Message-Danmaku-System/internal/repository"
)

var pollNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestPollingFeed(records *MockRecordsRepository) *PollingFeed {
	return NewPollingFeed(records, nil, time.Second, testclock.NewClock(pollNow))
}

func drainEvents(f Feed) []models.DanmakuEvent {
	var events []models.DanmakuEvent
	for {
		select {
		case event := <-f.Events():
			events = append(events, event)
		default:
			return events
		}
	}
}

func TestPollCycleEmitsInOrderAndAdvancesWatermark(t *testing.T) {
	records := NewMockRecordsRepository()
	records.rows = []repository.MessageRow{
		{ID: 1, Time: pollNow.Add(-3 * time.Minute), MessageID: "m1", PlainText: "Alice: one", SessionID: 11, UserID: "u1", GroupID: "880000"},
		{ID: 2, Time: pollNow.Add(-2 * time.Minute), MessageID: "m2", PlainText: "two", SessionID: 11, UserID: "u2", GroupID: "880000"},
		{ID: 3, Time: pollNow.Add(-1 * time.Minute), MessageID: "m3", PlainText: "three", SessionID: 12, UserID: "u3", GroupID: "990000"},
	}
	f := newTestPollingFeed(records)
	f.watermark = pollNow.Add(-10 * time.Minute)

	if err := f.cycle(context.Background()); err != nil {
		t.Fatalf("cycle: %v", err)
	}

	events := drainEvents(f)
	if len(events) != 3 {
		t.Fatalf("len(events) = %d, want 3", len(events))
	}
	for i, want := range []string{"m1", "m2", "m3"} {
		if events[i].MessageID != want {
			t.Errorf("events[%d].MessageID = %q, want %q", i, events[i].MessageID, want)
		}
	}
	if events[0].Content != "one" {
		t.Errorf("events[0].Content = %q, want %q (speaker label stripped)", events[0].Content, "one")
	}

	wantWatermark := pollNow.Add(-1 * time.Minute).Add(time.Millisecond)
	if !f.watermark.Equal(wantWatermark) {
		t.Errorf("watermark = %v, want %v", f.watermark, wantWatermark)
	}
}

func TestPollCycleOnlyEmitsRowsPastWatermark(t *testing.T) {
	records := NewMockRecordsRepository()
	records.rows = []repository.MessageRow{
		{ID: 1, Time: pollNow.Add(-3 * time.Minute), MessageID: "old", GroupID: "880000", PlainText: "x", SessionID: 11},
		{ID: 2, Time: pollNow.Add(-1 * time.Minute), MessageID: "new", GroupID: "880000", PlainText: "y", SessionID: 11},
	}
	f := newTestPollingFeed(records)
	f.watermark = pollNow.Add(-2 * time.Minute)

	if err := f.cycle(context.Background()); err != nil {
		t.Fatalf("cycle: %v", err)
	}

	events := drainEvents(f)
	if len(events) != 1 || events[0].MessageID != "new" {
		t.Fatalf("events = %+v, want only the row past the watermark", events)
	}
}

func TestPollEmptyCycleLeavesWatermarkUnchanged(t *testing.T) {
	f := newTestPollingFeed(NewMockRecordsRepository())
	watermark := pollNow.Add(-5 * time.Minute)
	f.watermark = watermark

	if err := f.cycle(context.Background()); err != nil {
		t.Fatalf("cycle: %v", err)
	}
	if events := drainEvents(f); len(events) != 0 {
		t.Fatalf("events = %+v, want none", events)
	}
	if !f.watermark.Equal(watermark) {
		t.Errorf("watermark = %v, want unchanged %v", f.watermark, watermark)
	}
}

func TestPollInitWatermark(t *testing.T) {
	t.Run("Seeds from store max", func(t *testing.T) {
		records := NewMockRecordsRepository()
		max := pollNow.Add(-7 * time.Minute)
		records.maxOverride = &max
		f := newTestPollingFeed(records)

		f.initWatermark()
		if !f.watermark.Equal(max) {
			t.Errorf("watermark = %v, want store max %v", f.watermark, max)
		}
	})

	t.Run("Empty store falls back an hour", func(t *testing.T) {
		f := newTestPollingFeed(NewMockRecordsRepository())

		f.initWatermark()
		if want := pollNow.Add(-time.Hour); !f.watermark.Equal(want) {
			t.Errorf("watermark = %v, want %v", f.watermark, want)
		}
	})

	t.Run("Store error falls back an hour", func(t *testing.T) {
		records := NewMockRecordsRepository()
		records.failReads = true
		f := newTestPollingFeed(records)

		f.initWatermark()
		if want := pollNow.Add(-time.Hour); !f.watermark.Equal(want) {
			t.Errorf("watermark = %v, want %v", f.watermark, want)
		}
	})
}

func TestPollClampsQueryWhenStoreClockIsAhead(t *testing.T) {
	records := NewMockRecordsRepository()
	skewedMax := pollNow.Add(40 * time.Minute)
	records.maxOverride = &skewedMax
	f := newTestPollingFeed(records)
	f.watermark = skewedMax // seeded from the skewed store

	// The watermark itself is ahead of the local clock, so it is rewound,
	// and the query window is anchored to the local clock.
	if err := f.cycle(context.Background()); err != nil {
		t.Fatalf("cycle: %v", err)
	}

	if len(records.newerThanArgs) != 1 {
		t.Fatalf("FindNewerThan calls = %d, want 1", len(records.newerThanArgs))
	}
	if want := pollNow.Add(-time.Hour); !records.newerThanArgs[0].Equal(want) {
		t.Errorf("query lower bound = %v, want clamped %v", records.newerThanArgs[0], want)
	}
	if want := pollNow.Add(-time.Hour); !f.watermark.Equal(want) {
		t.Errorf("watermark = %v, want rewound %v", f.watermark, want)
	}
}

func TestPollClampIgnoresWatermarkWithinTolerance(t *testing.T) {
	records := NewMockRecordsRepository()
	skewedMax := pollNow.Add(40 * time.Minute)
	records.maxOverride = &skewedMax
	f := newTestPollingFeed(records)
	f.watermark = pollNow.Add(-time.Minute) // healthy watermark, sick store clock

	if err := f.cycle(context.Background()); err != nil {
		t.Fatalf("cycle: %v", err)
	}

	if want := pollNow.Add(-time.Hour); !records.newerThanArgs[0].Equal(want) {
		t.Errorf("query lower bound = %v, want clamped %v", records.newerThanArgs[0], want)
	}
	// The watermark itself was sane, so it stays put on an empty pass.
	if want := pollNow.Add(-time.Minute); !f.watermark.Equal(want) {
		t.Errorf("watermark = %v, want unchanged %v", f.watermark, want)
	}
}

func TestPollCycleSurfacesStoreErrors(t *testing.T) {
	records := NewMockRecordsRepository()
	records.failReads = true
	f := newTestPollingFeed(records)

	if err := f.cycle(context.Background()); err == nil {
		t.Fatal("cycle on failing store: expected error, got nil")
	}
}
