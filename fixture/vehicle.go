// Package fixture is a synthetic simulation facade: a small, deterministic
// stand-in for the host game's vehicle/route state, used to drive engine
// tests without a real simulation attached. It is adapted from a live
// bus-fleet model into a static, tick-advanced fixture — no passenger
// queues, no wall-clock, no randomness beyond what a test seeds explicitly.
package fixture

// VehicleType is a category of vehicle with a seating capacity, used only
// to populate the facade's optional passengerCount/capacity fields.
type VehicleType struct {
	ID       int
	Name     string
	Capacity int
}

// Vehicle is one bus/train/tram under fixture control: its position on a
// line and the door/auto-departure state the core's Departure State
// Machine reads every tick.
type Vehicle struct {
	ID      int
	Type    *VehicleType
	LineID  int
	Direction string

	// StopIndex is the 1-based index of the stop the vehicle currently
	// occupies (0 means "in transit"). The facade projection reports it as
	// StopIndex-1, the facade contract's 0-based stop index.
	StopIndex int

	AutoDepartureEnabled bool
	DoorsOpen            bool
	DoorsOpenedAt        int

	// SectionTimes[i] is the travel time in seconds from stop i+1 to stop
	// i+2 (0-indexed slice over 1-based stops).
	SectionTimes []int

	// LineStopDepartures[i] is the last recorded absolute departure time
	// from stop i+1, or 0 if the vehicle has never departed that stop.
	LineStopDepartures []int

	PassengersOnboard int
}

// RemainingCapacity returns how many more passengers the vehicle can carry,
// or 0 if no type/capacity is set.
func (v *Vehicle) RemainingCapacity() int {
	if v.Type == nil {
		return 0
	}
	r := v.Type.Capacity - v.PassengersOnboard
	if r < 0 {
		return 0
	}
	return r
}

// OpenDoors marks the vehicle as having opened its doors at t. It leaves
// AutoDepartureEnabled unchanged.
func (v *Vehicle) OpenDoors(t int) {
	v.DoorsOpen = true
	v.DoorsOpenedAt = t
}

// Depart closes the doors, advances the vehicle to the next stop on its
// line (wrapping to the first stop past the last), records the departure
// time for the stop it just left, and re-enables auto-departure.
func (v *Vehicle) Depart(line *Line, t int) {
	v.DoorsOpen = false
	if v.StopIndex >= 1 && v.StopIndex <= len(v.LineStopDepartures) {
		v.LineStopDepartures[v.StopIndex-1] = t
	}
	v.AutoDepartureEnabled = true
	if line != nil && len(line.Stops) > 0 {
		v.StopIndex = v.StopIndex%len(line.Stops) + 1
	}
}
