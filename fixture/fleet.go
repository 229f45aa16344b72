package fixture

import "math/rand"

// FleetQuantity declares how many vehicles of a given type to deploy on a
// line, mirroring the teacher's fleet-deployment config shape.
type FleetQuantity struct {
	TypeID   int
	Quantity int
}

// randomSectionTime samples a plausible inter-stop travel time in seconds,
// the fixture analogue of the teacher's randomSpeedForType: a type-biased
// mean with bounded spread, rather than a fixed schedule every test has to
// hand-author.
func randomSectionTime(rng *rand.Rand, t *VehicleType) int {
	mean := 90.0
	spread := 15.0
	if t != nil && t.Capacity >= 120 {
		// Larger vehicles run on busier, slower-turning lines.
		mean = 110.0
		spread = 20.0
	}
	v := rng.NormFloat64()*spread + mean
	if v < 30 {
		v = 30
	}
	if v > 300 {
		v = 300
	}
	return int(v)
}

// BuildFleet creates one Vehicle per requested quantity, distributing them
// across the line's stops with each vehicle starting at either the first
// or the last stop, chosen at random, and
// randomized per-leg section times (spec §6: a facade's VehicleState is
// expected to report SectionTimes per vehicle).
func BuildFleet(types map[int]*VehicleType, q []FleetQuantity, line *Line, rng *rand.Rand) []*Vehicle {
	vehicles := make([]*Vehicle, 0)
	if line == nil || len(line.Stops) == 0 {
		return vehicles
	}
	legs := len(line.Stops) - 1
	if legs < 1 {
		legs = 1
	}

	id := 1
	for _, it := range q {
		vt := types[it.TypeID]
		if vt == nil {
			continue
		}
		for i := 0; i < it.Quantity; i++ {
			startStop := 1
			if rng.Intn(2) == 1 {
				startStop = len(line.Stops)
			}
			sectionTimes := make([]int, legs)
			for s := range sectionTimes {
				sectionTimes[s] = randomSectionTime(rng, vt)
			}
			v := &Vehicle{
				ID:                 id,
				Type:               vt,
				LineID:             line.ID,
				StopIndex:          startStop,
				SectionTimes:       sectionTimes,
				LineStopDepartures: make([]int, len(line.Stops)),
			}
			vehicles = append(vehicles, v)
			line.Vehicles = append(line.Vehicles, v)
			id++
		}
	}
	return vehicles
}
