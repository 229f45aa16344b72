// Package model owns the scheduling data model: slots, time periods,
// constraint variants, stations, and lines, plus the mutators that keep
// them internally consistent (spec §3, §4.B).
package model

import (
	"fmt"

	"github.com/hgfantasy/tpf2-timetable-core/clock"
)

// Slot is four non-negative integers (arrMin, arrSec, depMin, depSec); its
// 4-tuple is both its equality and its hash-key identity (spec §3, design
// note on identity-based slot comparison).
type Slot struct {
	ArrMin int `json:"arr_min"`
	ArrSec int `json:"arr_sec"`
	DepMin int `json:"dep_min"`
	DepSec int `json:"dep_sec"`
}

// ArrivalSlot returns the arrival slot-time in [0, clock.SlotPeriod).
func (s Slot) ArrivalSlot() int { return s.ArrMin*60 + s.ArrSec }

// DepartureSlot returns the departure slot-time in [0, clock.SlotPeriod).
func (s Slot) DepartureSlot() int { return s.DepMin*60 + s.DepSec }

// Valid reports whether all four fields fall within their [0,60) ranges
// (spec §3 invariant 5).
func (s Slot) Valid() bool {
	return s.ArrMin >= 0 && s.ArrMin < 60 &&
		s.ArrSec >= 0 && s.ArrSec < 60 &&
		s.DepMin >= 0 && s.DepMin < 60 &&
		s.DepSec >= 0 && s.DepSec < 60
}

// String renders the slot as mm:ss-mm:ss for logging/diagnostics.
func (s Slot) String() string {
	return fmt.Sprintf("%02d:%02d-%02d:%02d", s.ArrMin, s.ArrSec, s.DepMin, s.DepSec)
}

// WaitTime delegates to clock.WaitTime using this slot's derived slot-times.
func (s Slot) WaitTime(arrivalTime int) int {
	return clock.WaitTime(s.ArrivalSlot(), s.DepartureSlot(), arrivalTime)
}

// AfterDeparture reports whether arrivalTime is past this slot's departure.
func (s Slot) AfterDeparture(arrivalTime int) bool {
	return clock.AfterDepartureSlot(s.ArrivalSlot(), s.DepartureSlot(), arrivalTime)
}

// TimePeriod optionally refines a group of slots to a sub-window of the
// hour. If Start<=End the period is [Start,End); otherwise it wraps past
// the hour boundary.
type TimePeriod struct {
	Start int    `json:"start_time"`
	End   int    `json:"end_time"`
	Slots []Slot `json:"slots"`
}

// Contains reports whether slotTime falls within the period, wrap-aware.
// A period whose start and end coincide modulo the hour covers the whole
// hour (the convention legacy-promoted periods use).
func (p TimePeriod) Contains(slotTime int) bool {
	t := clock.Mod(slotTime)
	s, e := clock.Mod(p.Start), clock.Mod(p.End)
	if s == e {
		return true
	}
	if s <= e {
		return t >= s && t < e
	}
	return t >= s || t < e
}

// Overlaps reports whether two (possibly wrapped) periods intersect.
// Two zero-length periods (Start==End, the "full hour" convention used for
// legacy-promoted periods) are treated as covering the whole hour and so
// always overlap with anything.
func (p TimePeriod) Overlaps(q TimePeriod) bool {
	if p.Start == p.End || q.Start == q.End {
		return true
	}
	// Expand each into a set of [lo,hi) sub-intervals on a doubled ring to
	// handle wraparound simply.
	pi := splitPeriod(p.Start, p.End)
	qi := splitPeriod(q.Start, q.End)
	for _, a := range pi {
		for _, b := range qi {
			if a.lo < b.hi && b.lo < a.hi {
				return true
			}
		}
	}
	return false
}

type interval struct{ lo, hi int }

func splitPeriod(start, end int) []interval {
	s, e := clock.Mod(start), clock.Mod(end)
	if s <= e {
		return []interval{{s, e}}
	}
	return []interval{{s, clock.SlotPeriod}, {0, e}}
}

// InvalidTimePeriod reports whether the period is malformed per the
// validation rule "start >= end with end != 0".
func (p TimePeriod) InvalidTimePeriod() bool {
	return p.Start >= p.End && p.End != 0
}
