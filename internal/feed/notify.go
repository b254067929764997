package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/juju/clock"
	"gorm.io/gorm"

	"github.com/F1Justin/Chat-Message-Danmaku-System/internal/logging"
	"github.com/F1Justin/Chat-Message-Danmaku-System/internal/models"
	"github.com/F1Justin/Chat-Message-Danmaku-System/internal/repository"
	"github.com/F1Justin/Chat-Message-Danmaku-System/internal/service"
)

const (
	notifyReconnectBackoff = 5 * time.Second

	// seenRingSize bounds the dedup window for redelivered notifications.
	seenRingSize = 512
)

// NotifyFeed rides the store's LISTEN/NOTIFY channel. Each notification
// carries the new row's id; the feed fetches the full row and emits one
// event. There is no watermark on this path — the store pushes exactly what
// it wants delivered — but a dropped connection can replay notifications,
// so recently seen ids are remembered and skipped.
type NotifyFeed struct {
	url     string
	channel string

	records  repository.MessageRecordRepositoryInterface
	resolver *service.GroupResolver
	clock    clock.Clock

	seen   *seenRing
	events chan models.DanmakuEvent
}

func NewNotifyFeed(url, channel string, records repository.MessageRecordRepositoryInterface, resolver *service.GroupResolver, clk clock.Clock) *NotifyFeed {
	if clk == nil {
		clk = clock.WallClock
	}
	return &NotifyFeed{
		url:      url,
		channel:  channel,
		records:  records,
		resolver: resolver,
		clock:    clk,
		seen:     newSeenRing(seenRingSize),
		events:   make(chan models.DanmakuEvent, eventBuffer),
	}
}

func (f *NotifyFeed) Events() <-chan models.DanmakuEvent {
	return f.events
}

// Run listens until ctx is cancelled, reconnecting with a backoff whenever
// the connection drops. Connection errors never terminate the feed.
func (f *NotifyFeed) Run(ctx context.Context) error {
	for {
		err := f.listen(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logging.Error("notification channel failed, reconnecting", logging.Fields{
			"channel": f.channel,
			"error":   err.Error(),
		})

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-f.clock.After(notifyReconnectBackoff):
		}
	}
}

// listen holds one dedicated connection for the lifetime of the
// subscription; WaitForNotification cannot share a pooled conn.
func (f *NotifyFeed) listen(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, f.url)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{f.channel}.Sanitize()); err != nil {
		return fmt.Errorf("listen %s: %w", f.channel, err)
	}
	logging.Info("listening for store notifications", logging.Fields{"channel": f.channel})

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			return err
		}
		if err := f.handlePayload(ctx, notification.Payload); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			var payloadErr *PayloadError
			if errors.As(err, &payloadErr) {
				logging.Warn("dropping malformed notification", logging.Fields{"error": err.Error()})
				continue
			}
			logging.Error("notification handling failed", logging.Fields{"error": err.Error()})
		}
	}
}

// handlePayload turns one notification into at most one event: parse the row
// id, skip ids already seen, fetch the row, emit. A row that vanished before
// the fetch (deleted, or the insert rolled back) is skipped silently.
func (f *NotifyFeed) handlePayload(ctx context.Context, payload string) error {
	id, err := parsePayload(payload)
	if err != nil {
		return err
	}

	if f.seen.Contains(id) {
		return nil
	}

	row, err := f.records.FindMessageByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Rows that fail the message filters also land here, which is routine.
		logging.Logger().WithField("row_id", id).Debug("notified row not found, skipping")
		return nil
	}
	if err != nil {
		return err
	}

	event := eventFromRow(*row, f.resolver)
	select {
	case f.events <- event:
	case <-ctx.Done():
		return ctx.Err()
	}
	f.seen.Add(id)
	return nil
}

func parsePayload(payload string) (int64, error) {
	var body struct {
		ID json.Number `json:"id"`
	}
	decoder := json.NewDecoder(strings.NewReader(payload))
	if err := decoder.Decode(&body); err != nil {
		return 0, &PayloadError{Payload: payload, Err: err}
	}
	if body.ID == "" {
		return 0, &PayloadError{Payload: payload, Err: errors.New("missing id field")}
	}
	id, err := body.ID.Int64()
	if err != nil {
		return 0, &PayloadError{Payload: payload, Err: err}
	}
	return id, nil
}
