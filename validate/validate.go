// Package validate implements the static validation engine: severity-tagged
// warnings and buffer suggestions over a line's slots and time periods
// (spec §4.H).
package validate

import (
	"fmt"
	"sort"

	"github.com/hgfantasy/tpf2-timetable-core/clock"
	"github.com/hgfantasy/tpf2-timetable-core/delaystats"
	"github.com/hgfantasy/tpf2-timetable-core/model"
)

// Severity ranks how urgently a warning should be surfaced.
type Severity int

const (
	Low Severity = iota
	Medium
	High
)

func (s Severity) String() string {
	switch s {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	default:
		return "unknown"
	}
}

// Kind names which rule produced a Warning (spec §4.H table).
type Kind int

const (
	DepartureBeforeArrival Kind = iota
	SlotsTooClose
	ImpossibleJourneyTime
	OverlappingTimePeriods
	InvalidTimePeriod
	NoSlotsInPeriod
	FrequencyMismatch
	InsufficientBuffer
)

// Warning is one static finding against a station or a line's leg.
type Warning struct {
	Kind     Kind
	Severity Severity
	Stop     int
	Message  string
}

// Suggestion is an actionable recommendation, currently only buffer-time
// suggestions (spec §4.I's suggestBufferTime surfaced through validation).
type Suggestion struct {
	Stop          int
	BufferSeconds int
	Message       string
}

// Report is the full output of validating a line.
type Report struct {
	Valid                   bool
	Warnings                []Warning
	Suggestions             []Suggestion
	HasHighSeverityWarnings bool
}

func (r *Report) add(w Warning) {
	r.Warnings = append(r.Warnings, w)
	if w.Severity == High {
		r.HasHighSeverityWarnings = true
		r.Valid = false
	}
}

// ValidateLine runs every check in spec §4.H's table against one line.
// sectionTimes[i] is the travel time in seconds from stop i+1 to stop i+2;
// pass nil if unknown (ImpossibleJourneyTime/SlotsTooClose's journey-time
// checks are then skipped, since spec.md requires an actual travel time
// to compare against).
func ValidateLine(lineID int, l *model.Line, sectionTimes []int, stats *delaystats.Stats) Report {
	report := Report{Valid: true}
	if l == nil {
		return report
	}

	stops := make([]int, 0, len(l.Stations))
	for stop := range l.Stations {
		stops = append(stops, stop)
	}
	sort.Ints(stops)

	for _, stop := range stops {
		s := l.Stations[stop]
		ad, ok := s.Constraint.(model.ArrDepConstraint)
		if !ok {
			continue
		}
		validateStation(&report, stop, ad, sectionTimes)
		if stats != nil {
			validateBuffer(&report, lineID, stop, s, stats)
		}
	}

	if len(sectionTimes) > 0 {
		validateFrequency(&report, l, sectionTimes)
		validateImpossibleJourney(&report, l, stops, sectionTimes)
	}

	return report
}

func validateStation(report *Report, stop int, ad model.ArrDepConstraint, sectionTimes []int) {
	journeyTime, hasJourney := legJourneyTime(stop, sectionTimes)

	if ad.UsesPeriods() {
		for i, p := range ad.Periods {
			if p.InvalidTimePeriod() {
				report.add(Warning{Kind: InvalidTimePeriod, Severity: High, Stop: stop,
					Message: fmt.Sprintf("period %d has start >= end", i)})
			}
			if len(p.Slots) == 0 {
				report.add(Warning{Kind: NoSlotsInPeriod, Severity: Medium, Stop: stop,
					Message: fmt.Sprintf("period %d has no slots", i)})
			}
			validateSlotSet(report, stop, p.Slots, journeyTime, hasJourney)
		}
		for i := 0; i < len(ad.Periods); i++ {
			for j := i + 1; j < len(ad.Periods); j++ {
				if ad.Periods[i].Overlaps(ad.Periods[j]) {
					report.add(Warning{Kind: OverlappingTimePeriods, Severity: High, Stop: stop,
						Message: fmt.Sprintf("periods %d and %d overlap", i, j)})
				}
			}
		}
		return
	}
	validateSlotSet(report, stop, ad.Slots, journeyTime, hasJourney)
}

// legJourneyTime returns the travel time feeding into stop from the
// previous stop on the line, the same leg sectionTimes[stop-2] that
// validateImpossibleJourney compares against — SlotsTooClose's high-severity
// tier needs the same notion of "how long a vehicle actually takes to get
// here" to judge whether back-to-back slots leave enough room.
func legJourneyTime(stop int, sectionTimes []int) (int, bool) {
	legIdx := stop - 2
	if legIdx < 0 || legIdx >= len(sectionTimes) {
		return 0, false
	}
	return sectionTimes[legIdx], true
}

func validateSlotSet(report *Report, stop int, slots []model.Slot, journeyTime int, hasJourney bool) {
	for _, s := range slots {
		dwell := clock.Mod(s.DepartureSlot() - s.ArrivalSlot())
		switch {
		case dwell == 0:
			report.add(Warning{Kind: DepartureBeforeArrival, Severity: Low, Stop: stop,
				Message: "slot has zero dwell time"})
		case s.DepartureSlot() < s.ArrivalSlot() && dwell > 60:
			report.add(Warning{Kind: DepartureBeforeArrival, Severity: Medium, Stop: stop,
				Message: "slot departure precedes arrival (wraps past the hour)"})
		}
	}

	sorted := append([]model.Slot(nil), slots...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ArrivalSlot() < sorted[j].ArrivalSlot() })
	for i := 0; i+1 < len(sorted); i++ {
		gap := clock.Mod(sorted[i+1].ArrivalSlot() - sorted[i].DepartureSlot())
		switch {
		case hasJourney && gap < journeyTime:
			report.add(Warning{Kind: SlotsTooClose, Severity: High, Stop: stop,
				Message: fmt.Sprintf("slots %d seconds apart, below the %ds leg travel time", gap, journeyTime)})
		case gap < 30:
			report.add(Warning{Kind: SlotsTooClose, Severity: Medium, Stop: stop,
				Message: fmt.Sprintf("slots %d seconds apart", gap)})
		}
	}
}

func validateFrequency(report *Report, l *model.Line, sectionTimes []int) {
	if !l.FrequencyEnabled || l.Frequency <= 0 {
		return
	}
	for stop, s := range l.Stations {
		ad, ok := s.Constraint.(model.ArrDepConstraint)
		if !ok || ad.UsesPeriods() || len(ad.Slots) < 2 {
			continue
		}
		sorted := append([]model.Slot(nil), ad.Slots...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].ArrivalSlot() < sorted[j].ArrivalSlot() })
		span := clock.Mod(sorted[len(sorted)-1].DepartureSlot() - sorted[0].ArrivalSlot())
		expected := l.Frequency * (len(sorted) - 1)
		if expected == 0 {
			continue
		}
		diff := span - expected
		if diff < 0 {
			diff = -diff
		}
		if float64(diff)/float64(expected) > 0.2 {
			report.add(Warning{Kind: FrequencyMismatch, Severity: Medium, Stop: stop,
				Message: "slot span diverges from line frequency by more than 20%"})
		}
	}
}

func validateImpossibleJourney(report *Report, l *model.Line, stops []int, sectionTimes []int) {
	for _, stop := range stops {
		legIdx := stop - 2
		if legIdx < 0 || legIdx >= len(sectionTimes) {
			continue
		}
		journeyTime := sectionTimes[legIdx]
		curr, okCurr := l.Stations[stop].Constraint.(model.ArrDepConstraint)
		prevStation, hasPrev := l.Stations[stop-1]
		if !hasPrev || !okCurr {
			continue
		}
		prev, okPrev := prevStation.Constraint.(model.ArrDepConstraint)
		if !okPrev || curr.UsesPeriods() || prev.UsesPeriods() || len(curr.Slots) == 0 || len(prev.Slots) == 0 {
			continue
		}
		gap := clock.Mod(curr.Slots[0].ArrivalSlot() - prev.Slots[0].DepartureSlot())
		if float64(gap) < 0.8*float64(journeyTime) {
			report.add(Warning{Kind: ImpossibleJourneyTime, Severity: High, Stop: stop,
				Message: "available gap between consecutive stations is below 80% of travel time"})
		}
	}
}

func validateBuffer(report *Report, lineID, stop int, s *model.StationSlot, stats *delaystats.Stats) {
	buffer, ok := stats.SuggestBufferTime(lineID, stop)
	if !ok {
		// No buffer recommendation can be made yet (fewer than 5 samples).
		// A station that already leans on a delay tolerance but has no
		// evidence to justify it is worth flagging on its own.
		if s.MaxDelayToleranceEnabled {
			report.add(Warning{Kind: InsufficientBuffer, Severity: Low, Stop: stop,
				Message: "max delay tolerance enabled with no delay samples recorded yet"})
		}
		return
	}
	st := stats.GetEnhancedStatistics(lineID, stop)
	if st.TotalCount > 10 && float64(buffer) > 1.5*st.AvgDelay {
		report.add(Warning{Kind: InsufficientBuffer, Severity: Low, Stop: stop,
			Message: "recorded delay exceeds current schedule buffer"})
		report.Suggestions = append(report.Suggestions, Suggestion{
			Stop: stop, BufferSeconds: buffer,
			Message: fmt.Sprintf("increase buffer at stop %d to %ds", stop, buffer),
		})
	}
}
