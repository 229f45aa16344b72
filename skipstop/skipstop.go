// Package skipstop decides whether a vehicle bypasses a stop under one of
// the four skip-stop pattern kinds a station may carry (spec §4.G).
package skipstop

import "github.com/hgfantasy/tpf2-timetable-core/model"

// Input is everything IsSkipped needs to evaluate all four pattern kinds
// for one (vehicle, stop) pair.
type Input struct {
	Patterns model.SkipPatterns
	Stop     int
	VehicleID int
	// VehicleIndex is the vehicle's 1-based position in the line's vehicle
	// roster, used by the alternating pattern.
	VehicleIndex int
	// BoundSlot is the vehicle's currently-bound slot, if any; required
	// for the slot-based pattern.
	BoundSlot *model.Slot
}

// IsSkipped reports whether any enabled pattern bypasses this stop for
// this vehicle. The Departure State Machine treats true as "release
// without evaluating constraints" (spec §4.G).
func IsSkipped(in Input) bool {
	if bySlot(in) || byVehicle(in) || byAlternating(in) || byZone(in) {
		return true
	}
	return false
}

func bySlot(in Input) bool {
	p := in.Patterns.SlotBased
	if p == nil || !p.Enabled || in.BoundSlot == nil {
		return false
	}
	stops, ok := p.Skips[*in.BoundSlot]
	if !ok {
		return false
	}
	for _, st := range stops {
		if st == in.Stop {
			return true
		}
	}
	return false
}

func byVehicle(in Input) bool {
	p := in.Patterns.VehicleBased
	if p == nil || !p.Enabled {
		return false
	}
	_, ok := p.Vehicles[in.VehicleID]
	return ok
}

func byAlternating(in Input) bool {
	p := in.Patterns.Alternating
	if p == nil || !p.Enabled || in.VehicleIndex <= 0 {
		return false
	}
	odd := in.VehicleIndex%2 == 1
	switch p.Mode {
	case model.AlternatingAB:
		return !odd
	case model.AlternatingBA:
		return odd
	default:
		return false
	}
}

func byZone(in Input) bool {
	p := in.Patterns.ZoneExpress
	if p == nil || !p.Enabled {
		return false
	}
	for _, z := range p.Zones {
		if !z.Enabled {
			continue
		}
		for _, st := range z.SkipStops {
			if st == in.Stop {
				return true
			}
		}
	}
	return false
}
