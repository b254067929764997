package ws

import (
	"sync"
	"time"
)

const writeTimeout = 10 * time.Second

// Conn is the transport a subscriber writes to. *websocket.Conn satisfies
// it; tests plug in fakes.
type Conn interface {
	WriteJSON(v interface{}) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Subscriber is one connected viewer. The hub owns registration; the
// subscriber owns its connection writes and its filter copy.
type Subscriber struct {
	ID          string
	ConnectedAt time.Time

	conn    Conn
	writeMu sync.Mutex

	filterMu sync.RWMutex
	filter   Filter
}

// Send writes one frame. Writes are serialized so event fan-out and
// command responses from different goroutines cannot interleave.
func (s *Subscriber) Send(frame interface{}) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return s.conn.WriteJSON(frame)
}

// Filter returns the currently installed filter. The returned value shares
// the allowed set with the installed one, which is safe because filters are
// replaced, never mutated in place.
func (s *Subscriber) Filter() Filter {
	s.filterMu.RLock()
	defer s.filterMu.RUnlock()
	return s.filter
}

func (s *Subscriber) setFilter(filter Filter) {
	s.filterMu.Lock()
	s.filter = filter
	s.filterMu.Unlock()
}
