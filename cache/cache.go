// Package cache implements the semantically-transparent cache layer (spec
// §4.J, invariant 6: clearing any cache never changes observable behavior,
// only latency): a sorted-slot cache, a content-hash slot-set cache, an
// active-period cache, a station-centric index, and a one-tick
// vehicle-state cache, wired together by an invalidation event bus.
package cache

// Caches bundles every cache kind plus the event bus that keeps them
// consistent with the model. The Engine owns one Caches value and
// publishes an Event to Bus after every mutator call that changes slot
// content.
type Caches struct {
	Bus          *Bus
	Sorted       *SortedSlotCache
	HashSet      *HashSetCache
	ActivePeriod *ActivePeriodCache
	StationIndex *StationIndex
	VehicleState *VehicleStateCache
}

// New wires up an empty cache layer with invalidation subscribed.
func New() *Caches {
	c := &Caches{
		Bus:          NewBus(),
		Sorted:       NewSortedSlotCache(),
		HashSet:      NewHashSetCache(),
		ActivePeriod: NewActivePeriodCache(),
		StationIndex: NewStationIndex(),
		VehicleState: NewVehicleStateCache(),
	}
	c.Bus.Subscribe(c.onEvent)
	return c
}

func (c *Caches) onEvent(e Event) {
	switch ev := e.(type) {
	case SlotsChanged:
		// The hash-set cache is keyed by content hash and rebuilds itself
		// on its own when the slot content changes, so it is not dropped here.
		c.Sorted.Invalidate(ev.Line, ev.Stop)
		c.ActivePeriod.Invalidate(ev.Line, ev.Stop)
	case StationRemoved:
		c.Sorted.Invalidate(ev.Line, ev.Stop)
		c.HashSet.Invalidate(ev.Line, ev.Stop)
		c.ActivePeriod.Invalidate(ev.Line, ev.Stop)
	case LineRemoved:
		c.Sorted.InvalidateLine(ev.Line)
		c.HashSet.InvalidateLine(ev.Line)
		c.ActivePeriod.InvalidateLine(ev.Line)
	}
}
