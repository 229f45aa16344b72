// Package recovery implements the six delay-recovery strategies that
// adjust a vehicle's departure time once it is running late (spec §4.E).
package recovery

import "github.com/hgfantasy/tpf2-timetable-core/model"

// arrivalDelayThreshold is the "on arrival" trigger: recovery effects from
// the arrival column only apply once delay exceeds this (spec §4.D.i).
const arrivalDelayThreshold = 30

// ArrivalInput is what OnArrival needs: the mode in effect, how late the
// vehicle's door-open was relative to its arrival slot, whether the stop
// is a line terminus, and the wait computed before any recovery
// adjustment.
type ArrivalInput struct {
	Mode         model.DelayRecoveryMode
	ArrivalDelay int
	IsTerminus   bool
	Wait         int
}

// OnArrival applies a mode's "applied on arrival" effect (spec §4.E table)
// and returns the adjusted wait. Callers should only invoke this when
// ArrivalDelay exceeds arrivalDelayThreshold (30s); below that, no mode has
// an arrival-time effect, so the base wait stands unchanged either way.
func OnArrival(in ArrivalInput) int {
	if in.ArrivalDelay <= arrivalDelayThreshold {
		return in.Wait
	}
	switch in.Mode {
	case model.RecoveryHoldAtTerminus:
		if in.IsTerminus {
			return in.Wait + int(terminusFactor(in.ArrivalDelay)*float64(in.ArrivalDelay))
		}
	case model.RecoverySkipStops:
		if !in.IsTerminus {
			return in.Wait / 2
		}
	case model.RecoveryResetAtTerminus:
		if in.IsTerminus {
			extra := in.ArrivalDelay
			if extra > 300 {
				extra = 300
			}
			return in.Wait + extra
		}
	}
	return in.Wait
}

// terminusFactor grows 0.4->0.6 with delay magnitude, saturating at a
// ten-minute delay.
func terminusFactor(delaySeconds int) float64 {
	f := 0.4 + 0.2*float64(delaySeconds)/600
	if f > 0.6 {
		f = 0.6
	}
	if f < 0.4 {
		f = 0.4
	}
	return f
}

// Action reports what a continued-holding evaluation should do next.
type Action int

const (
	// ActionDeparture means NewDepartureTime is the mode's answer.
	ActionDeparture Action = iota
	// ActionReselectSlot means the stored slot must be invalidated and
	// slot-assignment (§4.C) re-run from scratch (SkipToNext).
	ActionReselectSlot
)

// HoldingInput is what OnContinuedHold needs: the mode, the current clock,
// the vehicle's previously stored departure time, how far past it the
// clock now is, whether the stop is a terminus, and the effective
// recovery rate for GradualRecovery.
type HoldingInput struct {
	Mode         model.DelayRecoveryMode
	Now          int
	Stored       int
	Delay        int
	IsTerminus   bool
	RecoveryRate float64
}

// Result is OnContinuedHold's answer.
type Result struct {
	Action           Action
	NewDepartureTime int
}

// OnContinuedHold applies a mode's "applied on continued holding" effect
// (spec §4.E table), for a vehicle whose stored departure time has already
// passed while it remains held.
func OnContinuedHold(in HoldingInput) Result {
	switch in.Mode {
	case model.RecoverySkipToNext:
		return Result{Action: ActionReselectSlot}
	case model.RecoveryGradualRecovery:
		rate := in.RecoveryRate
		if rate <= 0 {
			rate = 0.1
		}
		return Result{Action: ActionDeparture, NewDepartureTime: in.Stored + int(float64(in.Delay)*(1-rate))}
	case model.RecoveryHoldAtTerminus:
		if in.IsTerminus {
			return Result{Action: ActionDeparture, NewDepartureTime: in.Stored + int(terminusFactor(in.Delay)*float64(in.Delay))}
		}
		return Result{Action: ActionDeparture, NewDepartureTime: catchUp(in.Now, in.Stored, in.Delay)}
	default:
		// CatchUp, SkipStops, ResetAtTerminus all fall back to CatchUp's
		// rule once a vehicle is still holding past its stored departure.
		return Result{Action: ActionDeparture, NewDepartureTime: catchUp(in.Now, in.Stored, in.Delay)}
	}
}

// catchUp releases as soon as possible, except a severely delayed vehicle
// (>300s) gets a 30s buffer instead of departing the instant it is
// evaluated, to avoid bunching with the vehicle behind it.
func catchUp(now, stored, delay int) int {
	if delay > 300 {
		return now + 30
	}
	if now > stored {
		return now
	}
	return stored
}
