// Package slotassign implements the nearest-usable-slot selection algorithm
// (spec §4.C): given a sorted slot list, an arrival time, and who else is
// waiting, pick the slot a vehicle should target.
package slotassign

import (
	"github.com/hgfantasy/tpf2-timetable-core/cache"
	"github.com/hgfantasy/tpf2-timetable-core/clock"
	"github.com/hgfantasy/tpf2-timetable-core/model"
)

// Params bundles one call's inputs. Slots must already be sorted by
// arrival-slot ascending (the sorted-slot cache's job, not this package's).
type Params struct {
	Slots       []model.Slot
	ArrivalTime int
	Now         int
	VehicleID   int
	Waiting     map[int]*model.WaitingEntry
	Binding     *model.TrainAssignment

	// LineID and Stop key the slot-membership cache below; unused if
	// Caches is nil.
	LineID int
	Stop   int
	// Caches gives the binding-membership test (§4.C) O(1) amortized
	// lookup via the hash-set cache instead of a linear scan of Slots
	// (spec §4.J). Nil falls back to a linear scan, for callers with no
	// cache layer wired up.
	Caches *cache.Caches
}

// slotMember reports whether s is present in p.Slots, preferring the
// hash-set cache's membership set when available.
func (p Params) slotMember(s model.Slot) bool {
	if p.Caches != nil && p.Caches.HashSet != nil {
		return p.Caches.HashSet.MembershipSet(p.LineID, p.Stop, p.Slots)[s]
	}
	return containsSlot(p.Slots, s)
}

// Result reports which slot was chosen and what side effects selection had.
//
// When a binding exists but is contested by another waiting vehicle,
// Assign cannot decide on its own: resolving that conflict needs the
// priority computation in package binding, which this package does not
// import (so tests can substitute an alternative priority policy per spec
// §9). In that case Assign returns BindingBlockedBy set and Slot unset;
// the caller resolves the conflict, then either calls Assign again with
// Binding cleared (binding lost) or evicts the blocker from Waiting first
// (binding won) and calls Assign again.
type Result struct {
	Slot             model.Slot
	UsedBinding      bool
	BindingInvalid   bool
	BindingBlockedBy int
}

// Assign runs the full selection: the train-binding preference check, then
// (for |S|>1) nearest-slot search walking in circular order, skipping slots
// that are already past or held by another waiter. Degrades gracefully to
// the nearest slot if every candidate is unavailable.
func Assign(p Params) Result {
	n := len(p.Slots)
	if n == 0 {
		return Result{}
	}

	if p.Binding != nil {
		if !p.slotMember(p.Binding.Slot) {
			return assignWithoutBinding(p, n, true)
		}
		if holder, held := preDepartureHolder(p.Waiting, p.Binding.Slot, p.VehicleID); held {
			return Result{BindingBlockedBy: holder}
		}
		return Result{Slot: p.Binding.Slot, UsedBinding: true}
	}

	return assignWithoutBinding(p, n, false)
}

func assignWithoutBinding(p Params, n int, bindingInvalid bool) Result {
	t := clock.Mod(p.ArrivalTime)

	if n == 1 {
		for k := range p.Waiting {
			delete(p.Waiting, k)
		}
		return Result{Slot: p.Slots[0], BindingInvalid: bindingInvalid}
	}

	nearestIdx := nearestIndex(p.Slots, t)
	prunePastWaiting(p.Waiting, p.Now)
	pre, post := partition(p.Waiting, p.ArrivalTime, p.VehicleID)

	for step := 0; step < n; step++ {
		i := (nearestIdx + step) % n
		s := p.Slots[i]
		if s.AfterDeparture(t) {
			continue
		}
		if pre[s] {
			continue
		}
		if _, blocked := post[s]; blocked {
			forgetOtherPostDeparture(p.Waiting, post, s)
			continue
		}
		return Result{Slot: s, BindingInvalid: bindingInvalid}
	}
	return Result{Slot: p.Slots[nearestIdx], BindingInvalid: bindingInvalid}
}

func containsSlot(slots []model.Slot, s model.Slot) bool {
	for _, x := range slots {
		if x == s {
			return true
		}
	}
	return false
}

// nearestIndex returns the index of the slot with minimum circular
// distance from t, by arrival-slot. Ties favor the earlier index in the
// (already sorted) list.
func nearestIndex(slots []model.Slot, t int) int {
	best := 0
	bestDist := clock.SlotPeriod
	for i, s := range slots {
		d := clock.CircularDiff(s.ArrivalSlot(), t)
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

// prunePastWaiting drops waiting entries whose departure time has already
// passed the current clock.
func prunePastWaiting(waiting map[int]*model.WaitingEntry, now int) {
	for vehicle, entry := range waiting {
		if entry.DepartureTime < now {
			delete(waiting, vehicle)
		}
	}
}

// partition splits waiting entries (excluding the requesting vehicle) into
// pre-departure (arrivalTime <= their departureTime) slot membership and
// post-departure (arrivalTime > their departureTime) slot->vehicle holders.
func partition(waiting map[int]*model.WaitingEntry, arrivalTime, self int) (pre map[model.Slot]bool, post map[model.Slot]int) {
	pre = make(map[model.Slot]bool)
	post = make(map[model.Slot]int)
	for vehicle, entry := range waiting {
		if vehicle == self || entry.Slot == nil {
			continue
		}
		if arrivalTime <= entry.DepartureTime {
			pre[*entry.Slot] = true
		} else {
			post[*entry.Slot] = vehicle
		}
	}
	return pre, post
}

// forgetOtherPostDeparture drops every post-departure waiting entry except
// the one holding `keep` — once a post-departure waiter is found blocking
// a candidate slot, every other post-departure entry is stale (it already
// missed its own departure) and can be garbage-collected in the same pass.
func forgetOtherPostDeparture(waiting map[int]*model.WaitingEntry, post map[model.Slot]int, keep model.Slot) {
	for slot, vehicle := range post {
		if slot == keep {
			continue
		}
		delete(waiting, vehicle)
	}
}

// preDepartureHolder reports whether some vehicle other than self currently
// holds slot in the waiting map, before or after its departure time alike,
// returning its id.
func preDepartureHolder(waiting map[int]*model.WaitingEntry, slot model.Slot, self int) (int, bool) {
	for vehicle, entry := range waiting {
		if vehicle == self || entry.Slot == nil {
			continue
		}
		if *entry.Slot == slot {
			return vehicle, true
		}
	}
	return 0, false
}
