package ws

import (
	"sort"

	"github.com/samber/lo"
)

// Filter decides which groups a subscriber receives danmaku for. A disabled
// filter passes everything regardless of the allowed set; an enabled filter
// with an empty set passes nothing.
type Filter struct {
	Enabled bool
	allowed map[string]struct{}
}

// NewFilter builds a filter over the given group ids. Duplicates and empty
// ids are dropped.
func NewFilter(enabled bool, groupIDs []string) Filter {
	allowed := make(map[string]struct{}, len(groupIDs))
	for _, id := range groupIDs {
		if id == "" {
			continue
		}
		allowed[id] = struct{}{}
	}
	return Filter{Enabled: enabled, allowed: allowed}
}

// ShouldReceive reports whether an event for groupID passes this filter.
func (f Filter) ShouldReceive(groupID string) bool {
	if !f.Enabled {
		return true
	}
	_, ok := f.allowed[groupID]
	return ok
}

// Clone returns an independent copy. Installed filters are only ever
// replaced wholesale, never mutated, so cloning on hand-off is what keeps
// a subscriber's copy detached from later global changes.
func (f Filter) Clone() Filter {
	allowed := make(map[string]struct{}, len(f.allowed))
	for id := range f.allowed {
		allowed[id] = struct{}{}
	}
	return Filter{Enabled: f.Enabled, allowed: allowed}
}

// AllowedList returns the allowed group ids in sorted order.
func (f Filter) AllowedList() []string {
	ids := lo.Keys(f.allowed)
	sort.Strings(ids)
	return ids
}
