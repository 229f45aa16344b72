package timetable

import (
	"github.com/hgfantasy/tpf2-timetable-core/binding"
	"github.com/hgfantasy/tpf2-timetable-core/delaystats"
	"github.com/hgfantasy/tpf2-timetable-core/model"
	"github.com/hgfantasy/tpf2-timetable-core/validate"
)

// GetActiveSlots returns the slot list effective at now for (line, stop)
// (spec §6 "slot lists" query). A legacy flat list is routed through the
// sorted-slot cache (spec §4.J); a time-period list is resolved against
// now on every call, since which period is active changes with time.
func (e *Engine) GetActiveSlots(line, stop, now int) []model.Slot {
	s := e.timetable.Station(line, stop)
	if s == nil {
		return nil
	}
	ad, ok := s.Constraint.(model.ArrDepConstraint)
	if !ok {
		return nil
	}
	if ad.UsesPeriods() {
		slots, _ := ad.ActiveSlots(now)
		return sortedByArrival(slots)
	}
	return e.caches.Sorted.Get(line, stop, func() []model.Slot {
		slots, _ := ad.ActiveSlots(now)
		return sortedByArrival(slots)
	})
}

func sortedByArrival(slots []model.Slot) []model.Slot {
	out := append([]model.Slot(nil), slots...)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].ArrivalSlot() < out[j-1].ArrivalSlot(); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// AssignmentInfo is the UI-facing projection of a vehicle's train-slot
// binding at a station.
type AssignmentInfo struct {
	SlotIndex int
	Slot      model.Slot
}

// GetAssignmentInfo reports vehicle's current binding at (line, stop), if
// any (spec §6 "assignment info" query).
func (e *Engine) GetAssignmentInfo(line, stop, vehicle int) (AssignmentInfo, bool) {
	s := e.timetable.Station(line, stop)
	if s == nil {
		return AssignmentInfo{}, false
	}
	a, ok := binding.GetTrainAssignment(s, vehicle)
	if !ok {
		return AssignmentInfo{}, false
	}
	return AssignmentInfo{SlotIndex: a.SlotIndex, Slot: a.Slot}, true
}

// PredictNextDeparture estimates when a vehicle currently at stop index
// fromStop, carrying currentDelay seconds of signed delay, will reach
// targetStop (spec §4.I, §6 "next-departure predictions" query).
func (e *Engine) PredictNextDeparture(now int, sectionTimes []int, fromStop, targetStop, currentDelay int) int {
	return delaystats.PredictArrivalTime(now, sectionTimes, fromStop, targetStop, currentDelay)
}

// GetStatistics returns the rolling delay distribution recorded at (line,
// stop) (spec §6 "statistics" query).
func (e *Engine) GetStatistics(line, stop int) delaystats.EnhancedStatistics {
	return e.stats.GetEnhancedStatistics(line, stop)
}

// GetHistoricalDelay returns the mean recent departure delay at (line,
// stop), the same bias slotassign.Assign's callers use.
func (e *Engine) GetHistoricalDelay(line, stop, arrivalTime int) float64 {
	return e.stats.GetHistoricalDelay(line, stop, arrivalTime)
}

// SuggestBufferTime wraps the buffer-time recommendation.
func (e *Engine) SuggestBufferTime(line, stop int) (seconds int, ok bool) {
	return e.stats.SuggestBufferTime(line, stop)
}

// ValidateLine runs the static validation engine against a line (spec §6
// "validation reports" query). sectionTimes may be nil if unknown.
func (e *Engine) ValidateLine(line int, sectionTimes []int) validate.Report {
	return validate.ValidateLine(line, e.timetable.Line(line), sectionTimes, e.stats)
}
