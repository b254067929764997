package feed

// seenRing remembers the most recent row ids handled, to absorb the
// duplicate deliveries a reconnecting notification channel can produce.
// Oldest entries are overwritten once the ring is full. Not safe for
// concurrent use; it is owned by the feed's run loop.
type seenRing struct {
	slots []int64
	index map[int64]struct{}
	next  int
}

func newSeenRing(size int) *seenRing {
	return &seenRing{
		slots: make([]int64, size),
		index: make(map[int64]struct{}, size),
	}
}

func (r *seenRing) Contains(id int64) bool {
	_, ok := r.index[id]
	return ok
}

func (r *seenRing) Add(id int64) {
	if r.Contains(id) {
		return
	}
	// Row ids start at 1, so 0 marks an empty slot.
	if old := r.slots[r.next]; old != 0 {
		delete(r.index, old)
	}
	r.slots[r.next] = id
	r.index[id] = struct{}{}
	r.next = (r.next + 1) % len(r.slots)
}
