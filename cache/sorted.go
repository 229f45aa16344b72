package cache

import "github.com/hgfantasy/tpf2-timetable-core/model"

type stationKey struct{ Line, Stop int }

// SortedSlotCache holds each (line,stop)'s slot list sorted by arrival-slot
// ascending, the order slotassign.Assign requires (spec §4.J).
type SortedSlotCache struct {
	entries map[stationKey][]model.Slot
}

// NewSortedSlotCache returns an empty cache.
func NewSortedSlotCache() *SortedSlotCache {
	return &SortedSlotCache{entries: make(map[stationKey][]model.Slot)}
}

// Get returns the cached sorted slots for (line,stop), computing and
// caching them via compute if absent.
func (c *SortedSlotCache) Get(line, stop int, compute func() []model.Slot) []model.Slot {
	k := stationKey{line, stop}
	if v, ok := c.entries[k]; ok {
		return v
	}
	v := compute()
	c.entries[k] = v
	return v
}

// Invalidate drops the cached entry for (line,stop).
func (c *SortedSlotCache) Invalidate(line, stop int) {
	delete(c.entries, stationKey{line, stop})
}

// InvalidateLine drops every cached entry belonging to line.
func (c *SortedSlotCache) InvalidateLine(line int) {
	for k := range c.entries {
		if k.Line == line {
			delete(c.entries, k)
		}
	}
}
