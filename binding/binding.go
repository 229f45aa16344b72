// Package binding implements persistent vehicle-to-slot assignments and
// priority-based conflict resolution (spec §4.F), factored out as its own
// policy object so tests can substitute an alternative priority rule
// (spec §9 design note).
package binding

import "github.com/hgfantasy/tpf2-timetable-core/model"

// AssignResult reports the outcome of AssignTrainToSlot: how many other
// vehicles were evicted from the same slotIndex.
type AssignResult struct {
	Evicted int
}

// AssignTrainToSlot stores {slotIndex, slot} for vehicle at (line, stop),
// evicting any other vehicle currently assigned to the same slotIndex —
// the current vehicle always wins (spec §4.F).
func AssignTrainToSlot(s *model.StationSlot, vehicle, slotIndex int, slot model.Slot) (AssignResult, error) {
	if s == nil {
		return AssignResult{}, model.NewError(model.NotFound, "station not found")
	}
	if s.TrainAssignments == nil {
		s.TrainAssignments = make(map[int]*model.TrainAssignment)
	}
	evicted := 0
	for v, a := range s.TrainAssignments {
		if v != vehicle && a.SlotIndex == slotIndex {
			delete(s.TrainAssignments, v)
			evicted++
		}
	}
	s.TrainAssignments[vehicle] = &model.TrainAssignment{SlotIndex: slotIndex, Slot: slot}
	return AssignResult{Evicted: evicted}, nil
}

// RemoveTrainAssignment drops vehicle's binding, if any.
func RemoveTrainAssignment(s *model.StationSlot, vehicle int) {
	if s == nil {
		return
	}
	delete(s.TrainAssignments, vehicle)
}

// GetAssignedSlot returns the bound slot for vehicle, if any.
func GetAssignedSlot(s *model.StationSlot, vehicle int) (model.Slot, bool) {
	if s == nil {
		return model.Slot{}, false
	}
	a, ok := s.TrainAssignments[vehicle]
	if !ok {
		return model.Slot{}, false
	}
	return a.Slot, true
}

// IsTrainAssigned reports whether vehicle has a binding at s.
func IsTrainAssigned(s *model.StationSlot, vehicle int) bool {
	_, ok := GetAssignedSlot(s, vehicle)
	return ok
}

// GetTrainAssignment returns the full assignment record for vehicle.
func GetTrainAssignment(s *model.StationSlot, vehicle int) (*model.TrainAssignment, bool) {
	if s == nil {
		return nil, false
	}
	a, ok := s.TrainAssignments[vehicle]
	return a, ok
}

// ClearInvalidAssignments drops every assignment whose slot is not present
// in active, or is structurally malformed (spec §4.F, §3 invariant 5).
func ClearInvalidAssignments(s *model.StationSlot, active []model.Slot) {
	if s == nil {
		return
	}
	present := make(map[model.Slot]bool, len(active))
	for _, sl := range active {
		present[sl] = true
	}
	for v, a := range s.TrainAssignments {
		if !a.Slot.Valid() || !present[a.Slot] {
			delete(s.TrainAssignments, v)
		}
	}
}

// Priority inputs for conflict resolution (spec §4.F): arrival delay in
// seconds and the vehicle's current load factor in [0,1].
type Priority struct {
	ArrivalDelay int
	LoadFactor   float64
}

// Compute derives a contention priority: base 50, plus up to 30 for a
// severely delayed arrival (>120s), up to 15 for a moderately delayed one
// (>60s), plus up to 20 for high load (>0.8), up to 10 for moderate load
// (>0.5). Delay and load bonuses are each the higher of their two
// thresholds, not cumulative within themselves.
func Compute(p Priority) int {
	score := 50
	switch {
	case p.ArrivalDelay > 120:
		score += 30
	case p.ArrivalDelay > 60:
		score += 15
	}
	switch {
	case p.LoadFactor > 0.8:
		score += 20
	case p.LoadFactor > 0.5:
		score += 10
	}
	return score
}

// Preempts reports whether a contending vehicle with priority `challenger`
// may evict every current holder in `holders`: it must be strictly greater
// than all of them. Ties favor the incumbent.
func Preempts(challenger int, holders ...int) bool {
	for _, h := range holders {
		if challenger <= h {
			return false
		}
	}
	return true
}
