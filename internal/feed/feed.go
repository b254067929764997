// Package feed discovers newly appended chat message rows and turns them
// into danmaku events. Two interchangeable strategies exist: PollingFeed
// scans for rows past a moving watermark, NotifyFeed rides the store's
// notification channel. Both emit onto an ordered channel and treat every
// store failure as retryable.
package feed

import (
	"context"
	"fmt"

	"github.com/F1Justin/Chat-Message-Danmaku-System/internal/models"
	"github.com/F1Justin/Chat-Message-Danmaku-System/internal/repository"
	"github.com/F1Justin/Chat-Message-Danmaku-System/internal/service"
	"github.com/F1Justin/Chat-Message-Danmaku-System/internal/validation"
)

const eventBuffer = 256

// Feed is a restartable source of danmaku events. Run blocks until the
// context is cancelled; within one feed, events arrive on Events() in
// non-decreasing time order. The channel is never closed — consumers stop
// through their own context.
type Feed interface {
	Run(ctx context.Context) error
	Events() <-chan models.DanmakuEvent
}

// PayloadError reports a notification payload that could not be parsed.
// The offending notification is logged and dropped; the feed continues.
type PayloadError struct {
	Payload string
	Err     error
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("malformed notification payload %q: %v", e.Payload, e.Err)
}

func (e *PayloadError) Unwrap() error { return e.Err }

// eventFromRow builds the outgoing event for one store row and keeps the
// resolver cache warm with the session→group pair the row already carries.
func eventFromRow(row repository.MessageRow, resolver *service.GroupResolver) models.DanmakuEvent {
	if resolver != nil {
		resolver.PrimeID(row.SessionID, row.GroupID)
	}
	return models.DanmakuEvent{
		GroupID:   row.GroupID,
		UserID:    row.UserID,
		Content:   validation.NormalizeContent(row.PlainText),
		MessageID: row.MessageID,
		Time:      row.Time,
	}
}
