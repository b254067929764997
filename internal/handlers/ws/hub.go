// Package ws fans danmaku events and control frames out to websocket
// subscribers and dispatches the commands they send back. The Hub is the
// single registry; everything else in the package hangs off it.
package ws

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/F1Justin/Chat-Message-Danmaku-System/internal/logging"
	"github.com/F1Justin/Chat-Message-Danmaku-System/internal/models"
)

// Hub tracks connected subscribers and the global filter they inherit on
// connect. All mutation goes through its methods; iteration always works on
// a snapshot so slow writes never block registration.
type Hub struct {
	mu           sync.RWMutex
	subscribers  map[string]*Subscriber
	globalFilter Filter
}

func NewHub() *Hub {
	return &Hub{
		subscribers:  make(map[string]*Subscriber),
		globalFilter: NewFilter(false, nil),
	}
}

// Connect registers a new subscriber over conn. The subscriber starts with
// a copy of the current global filter, receives a greeting carrying its id,
// and the updated connection count is broadcast to everyone.
func (h *Hub) Connect(conn Conn) *Subscriber {
	sub := &Subscriber{
		ID:          uuid.NewString(),
		ConnectedAt: time.Now().UTC(),
		conn:        conn,
	}

	h.mu.Lock()
	sub.filter = h.globalFilter.Clone()
	h.subscribers[sub.ID] = sub
	count := len(h.subscribers)
	h.mu.Unlock()

	logging.Info("subscriber connected", logging.Fields{
		"subscriber_id": sub.ID,
		"connections":   count,
	})

	if err := sub.Send(newConnectionFrame(sub.ID)); err != nil {
		logging.Warn("greeting write failed, dropping subscriber", logging.Fields{
			"subscriber_id": sub.ID,
			"error":         err.Error(),
		})
		h.remove(sub.ID)
		return sub
	}
	h.BroadcastStats()
	return sub
}

// Disconnect removes a subscriber and closes its connection. Disconnecting
// an unknown id is a no-op, so the read loop and a failed broadcast can
// both report the same death without double counting.
func (h *Hub) Disconnect(id string) {
	if !h.remove(id) {
		return
	}
	logging.Info("subscriber disconnected", logging.Fields{
		"subscriber_id": id,
		"connections":   h.Count(),
	})
	h.BroadcastStats()
}

func (h *Hub) remove(id string) bool {
	h.mu.Lock()
	sub, ok := h.subscribers[id]
	if ok {
		delete(h.subscribers, id)
	}
	h.mu.Unlock()
	if !ok {
		return false
	}
	_ = sub.conn.Close()
	return true
}

// Count returns the number of connected subscribers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Subscriber looks up a connected subscriber by id.
func (h *Hub) Subscriber(id string) (*Subscriber, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	sub, ok := h.subscribers[id]
	return sub, ok
}

func (h *Hub) snapshot() []*Subscriber {
	h.mu.RLock()
	defer h.mu.RUnlock()
	subs := make([]*Subscriber, 0, len(h.subscribers))
	for _, sub := range h.subscribers {
		subs = append(subs, sub)
	}
	return subs
}

// BroadcastDanmaku delivers one event to every subscriber whose filter
// passes its group. Subscribers whose write fails are dropped.
func (h *Hub) BroadcastDanmaku(event models.DanmakuEvent) {
	frame := event.ToFrame()
	failed := h.deliver(frame, func(sub *Subscriber) bool {
		return sub.Filter().ShouldReceive(event.GroupID)
	})
	h.reap(failed)
}

// BroadcastToAll delivers a control frame to every subscriber.
func (h *Hub) BroadcastToAll(frame interface{}) {
	h.reap(h.deliver(frame, nil))
}

// BroadcastStats pushes the current connection count to everyone.
func (h *Hub) BroadcastStats() {
	failed := h.deliver(newStatsFrame(h.Count()), nil)
	h.reap(failed)
}

// deliver writes frame to every subscriber accepted by want (nil means
// all) and returns the ids whose write failed.
func (h *Hub) deliver(frame interface{}, want func(*Subscriber) bool) []string {
	var failed []string
	for _, sub := range h.snapshot() {
		if want != nil && !want(sub) {
			continue
		}
		if err := sub.Send(frame); err != nil {
			logging.Warn("dropping subscriber after failed write", logging.Fields{
				"subscriber_id": sub.ID,
				"error":         err.Error(),
			})
			failed = append(failed, sub.ID)
		}
	}
	return failed
}

// reap removes dead subscribers and keeps re-broadcasting the shrinking
// connection count until a stats push reaches everyone left.
func (h *Hub) reap(ids []string) {
	for len(ids) > 0 {
		for _, id := range ids {
			h.remove(id)
		}
		ids = h.deliver(newStatsFrame(h.Count()), nil)
	}
}

// SetGlobalFilter replaces the global filter, overwrites every connected
// subscriber's filter with a copy, and announces the change. Returns the
// installed filter.
func (h *Hub) SetGlobalFilter(enabled bool, groupIDs []string) Filter {
	filter := NewFilter(enabled, groupIDs)

	h.mu.Lock()
	h.globalFilter = filter
	for _, sub := range h.subscribers {
		sub.setFilter(filter.Clone())
	}
	h.mu.Unlock()

	logging.Info("global filter updated", logging.Fields{
		"enabled": filter.Enabled,
		"groups":  len(filter.AllowedList()),
	})
	h.BroadcastToAll(newFilterUpdateFrame(filter))
	return filter
}

// GlobalFilter returns a copy of the current global filter.
func (h *Hub) GlobalFilter() Filter {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.globalFilter.Clone()
}

// SetSubscriberFilter replaces one subscriber's filter without touching the
// global one. Reports whether the subscriber exists.
func (h *Hub) SetSubscriberFilter(id string, enabled bool, groupIDs []string) (Filter, bool) {
	sub, ok := h.Subscriber(id)
	if !ok {
		return Filter{}, false
	}
	filter := NewFilter(enabled, groupIDs)
	sub.setFilter(filter)
	return filter, true
}
