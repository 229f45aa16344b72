// Package clock implements the circular 60-minute time algebra shared by
// every other component: slot encode/decode, wrap-aware differences, and
// dwell/wait computation. Every function here is pure and total; no other
// package re-implements modular arithmetic over the 3600-second clock.
package clock

// SlotPeriod is the length in seconds of the circular scheduling period
// (one hour). Every slot-time is an integer in [0, SlotPeriod).
const SlotPeriod = 3600

// reasonableArrivalWindow is the half-period (30 minutes) used to decide
// whether an arrival is "close enough" to a slot to count as having reached
// it. It is a scheduling policy carried over from the source mod, not a
// physical constant — see SPEC_FULL.md Open Question 3.
const reasonableArrivalWindow = SlotPeriod / 2

// Mod normalizes t into [0, SlotPeriod).
func Mod(t int) int {
	t %= SlotPeriod
	if t < 0 {
		t += SlotPeriod
	}
	return t
}

// CircularDiff returns the shortest distance between two slot-times, in
// [0, SlotPeriod/2].
func CircularDiff(a, b int) int {
	a, b = Mod(a), Mod(b)
	d := a - b
	if d < 0 {
		d = -d
	}
	if d > SlotPeriod-d {
		return SlotPeriod - d
	}
	return d
}

// AfterArrivalSlot reports whether arrivalTime has reached arrSlot's
// reasonable arrival window: at or after the slot's arrival time and less
// than 30 minutes past it, modulo wrap.
func AfterArrivalSlot(arrSlot, arrivalTime int) bool {
	t := Mod(arrivalTime)
	a := Mod(arrSlot)
	// window is [a, a+reasonableArrivalWindow) modulo wrap.
	rel := Mod(t - a)
	return rel < reasonableArrivalWindow
}

// AfterDepartureSlot reports whether arrivalTime is at or past the slot's
// departure moment, handling both arrSlot<=depSlot and the wraparound case.
func AfterDepartureSlot(arrSlot, depSlot, arrivalTime int) bool {
	a, d, t := Mod(arrSlot), Mod(depSlot), Mod(arrivalTime)
	if a <= d {
		return t >= d
	}
	// Wraparound slot (e.g. arr=59:30, dep=00:30): the slot is "within" for
	// t>=a or t<d; everything from d up to (not including) a is past it.
	return t >= d && t < a
}

// WaitTime computes how long, in seconds, a vehicle arriving at arrivalTime
// must wait for a slot with the given arrival/departure slot-times to
// depart. Three cases per spec: not yet reached, arrived within the slot,
// or already past it (wait = 0).
func WaitTime(arrSlot, depSlot, arrivalTime int) int {
	a, d, t := Mod(arrSlot), Mod(depSlot), Mod(arrivalTime)
	switch {
	case withinSlot(a, d, t):
		return Mod(d - t)
	case AfterDepartureSlot(a, d, t):
		return 0
	default:
		// Not yet reached: full cycle from arrival to this slot's departure.
		return Mod(d-a) + Mod(a-t)
	}
}

// withinSlot reports whether t lies within [a, d) (wrap-aware).
func withinSlot(a, d, t int) bool {
	if a <= d {
		return t >= a && t < d
	}
	return t >= a || t < d
}

// DepartureTimeBounds clamps a computed wait by per-stop min/max waiting
// time, each optionally enabled. Negative wait always becomes 0.
func DepartureTimeBounds(wait int, minWait int, minEnabled bool, maxWait int, maxEnabled bool) int {
	if wait < 0 {
		wait = 0
	}
	if minEnabled && wait < minWait {
		wait = minWait
	}
	if maxEnabled && wait > maxWait {
		wait = maxWait
	}
	return wait
}
