package cache

import "github.com/hgfantasy/tpf2-timetable-core/model"

type activePeriodEntry struct {
	index      int
	lastUpdate int
}

// ActivePeriodCache remembers which time-period index was active for
// (line,stop) and re-searches only after 60 simulated seconds elapse
// (spec §4.J), instead of resolving the active period on every call.
type ActivePeriodCache struct {
	entries map[stationKey]activePeriodEntry
}

// NewActivePeriodCache returns an empty cache.
func NewActivePeriodCache() *ActivePeriodCache {
	return &ActivePeriodCache{entries: make(map[stationKey]activePeriodEntry)}
}

// ActiveIndex returns the index into periods active at slot-time now,
// reusing the cached index if it was computed within the last 60 seconds
// of simulated time. periods must be sorted by Start ascending. Returns -1
// if no period contains now.
func (c *ActivePeriodCache) ActiveIndex(line, stop, now int, periods []model.TimePeriod) int {
	k := stationKey{line, stop}
	if e, ok := c.entries[k]; ok && now-e.lastUpdate < 60 && now >= e.lastUpdate {
		return e.index
	}
	idx := searchActive(periods, now)
	c.entries[k] = activePeriodEntry{index: idx, lastUpdate: now}
	return idx
}

// searchActive binary-searches periods by Start for a containing period,
// falling back to a linear scan to handle wraparound periods (Start>End)
// that a plain binary search over Start can miss.
func searchActive(periods []model.TimePeriod, t int) int {
	lo, hi := 0, len(periods)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		if periods[mid].Contains(t) {
			return mid
		}
		if periods[mid].Start <= t {
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	for i, p := range periods {
		if p.Contains(t) {
			return i
		}
	}
	return -1
}

// Invalidate drops the cached entry for (line,stop), forcing a fresh
// search on the next call regardless of the 60s window.
func (c *ActivePeriodCache) Invalidate(line, stop int) {
	delete(c.entries, stationKey{line, stop})
}

// InvalidateLine drops every cached entry belonging to line.
func (c *ActivePeriodCache) InvalidateLine(line int) {
	for k := range c.entries {
		if k.Line == line {
			delete(c.entries, k)
		}
	}
}
