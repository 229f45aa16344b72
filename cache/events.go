package cache

// Event is the marker for cache-invalidation events emitted by model
// mutators. Caches subscribe to a Bus rather than being poked directly by
// every mutator, so invalidation stays auditable in one place (spec §9
// design note: "cache cross-module invalidation via side effects" ->
// "cache invalidation bus").
type Event interface{ isEvent() }

// SlotsChanged reports that a (line, stop)'s slot content changed: its
// sorted-slot, hash-set, and active-period caches are stale.
type SlotsChanged struct {
	Line, Stop int
}

func (SlotsChanged) isEvent() {}

// StationRemoved reports that a station slot was dropped from a line.
type StationRemoved struct {
	Line, Stop int
}

func (StationRemoved) isEvent() {}

// LineRemoved reports that a whole line was dropped (e.g. by prune()).
type LineRemoved struct {
	Line int
}

func (LineRemoved) isEvent() {}

// Bus is a synchronous, in-process publish/subscribe channel: Publish
// calls every subscriber inline, in subscription order. There is no
// buffering or goroutine hop — the engine is single-threaded per spec §5.
type Bus struct {
	subscribers []func(Event)
}

// NewBus returns an empty event bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers fn to be called for every future Publish.
func (b *Bus) Subscribe(fn func(Event)) {
	b.subscribers = append(b.subscribers, fn)
}

// Publish delivers e to every subscriber, in order.
func (b *Bus) Publish(e Event) {
	for _, fn := range b.subscribers {
		fn(e)
	}
}
