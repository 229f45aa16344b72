package cache

import "github.com/hgfantasy/tpf2-timetable-core/model"

type hashSetEntry struct {
	hash uint64
	set  map[model.Slot]bool
}

// HashSetCache gives O(1) amortized slot-membership tests for slotassign's
// hot path, rebuilt only when a station's content hash changes rather than
// on every mutator invalidation event — a station that gets its constraint
// re-set to the same content does not pay a rebuild (spec §4.J, §8
// property 6).
type HashSetCache struct {
	entries map[stationKey]hashSetEntry
}

// NewHashSetCache returns an empty cache.
func NewHashSetCache() *HashSetCache {
	return &HashSetCache{entries: make(map[stationKey]hashSetEntry)}
}

// MembershipSet returns a set{slot} for (line,stop), rebuilding it only if
// ContentHash(slots) differs from what is cached.
func (c *HashSetCache) MembershipSet(line, stop int, slots []model.Slot) map[model.Slot]bool {
	k := stationKey{line, stop}
	h := ContentHash(slots)
	if e, ok := c.entries[k]; ok && e.hash == h {
		return e.set
	}
	set := make(map[model.Slot]bool, len(slots))
	for _, s := range slots {
		set[s] = true
	}
	c.entries[k] = hashSetEntry{hash: h, set: set}
	return set
}

// Invalidate forces the next MembershipSet call for (line,stop) to rebuild
// regardless of hash (used when a station is removed entirely).
func (c *HashSetCache) Invalidate(line, stop int) {
	delete(c.entries, stationKey{line, stop})
}

// InvalidateLine drops every cached entry belonging to line.
func (c *HashSetCache) InvalidateLine(line int) {
	for k := range c.entries {
		if k.Line == line {
			delete(c.entries, k)
		}
	}
}
