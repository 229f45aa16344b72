// Package depart implements the Departure State Machine (spec §4.D): given
// one vehicle's facade-observable state at a stop, it decides hold vs
// release by routing through skip-stop (§4.G), slot-assignment (§4.C),
// train-slot binding (§4.F), and delay recovery (§4.E), recording outcomes
// into delay statistics (§4.I) along the way.
package depart

import (
	"github.com/hgfantasy/tpf2-timetable-core/binding"
	"github.com/hgfantasy/tpf2-timetable-core/cache"
	"github.com/hgfantasy/tpf2-timetable-core/clock"
	"github.com/hgfantasy/tpf2-timetable-core/delaystats"
	"github.com/hgfantasy/tpf2-timetable-core/model"
	"github.com/hgfantasy/tpf2-timetable-core/recovery"
	"github.com/hgfantasy/tpf2-timetable-core/skipstop"
	"github.com/hgfantasy/tpf2-timetable-core/slotassign"
)

// Action is the facade command (if any) Evaluate's caller should issue.
type Action int

const (
	// ActionHold means no facade command is needed; the vehicle keeps
	// waiting with doors open (or auto-departure already stopped).
	ActionHold Action = iota
	// ActionStopAutoDeparture means the caller should command the facade
	// to disable the vehicle's automatic departure so it can be held.
	ActionStopAutoDeparture
	// ActionForceDepart means the line has ForceDeparture set: release by
	// forcing the vehicle out regardless of auto-departure state.
	ActionForceDepart
	// ActionRestartAutoDeparture means release by re-enabling the
	// vehicle's normal automatic departure.
	ActionRestartAutoDeparture
)

// Decision is Evaluate's answer for one (vehicle, line, stop) tick.
type Decision struct {
	Action   Action
	Released bool
}

// Input bundles everything one Evaluate call needs: the facade-observable
// vehicle state, the line/station configuration, and the cross-vehicle
// context (other waiters, recorded departures, load factors) a single
// vehicle's facade projection cannot carry on its own.
type Input struct {
	Now    int
	LineID int
	Stop   int

	VehicleID int
	// VehicleIndex is the vehicle's 1-based position in the line's
	// vehicle roster (skip-stop alternating pattern only).
	VehicleIndex int

	AutoDepartureEnabled bool
	DoorsOpen            bool
	DoorsOpenedAt        int
	IsTerminus           bool

	Line    *model.Line
	Station *model.StationSlot

	// BoundSlot is the vehicle's currently-bound slot, if any, used by the
	// slot-based skip-stop pattern. It is resolved by the caller (usually
	// from Station.TrainAssignments or the vehicle's waiting entry).
	BoundSlot *model.Slot

	LoadFactor   float64
	LoadFactorOf map[int]float64 // other waiting vehicles' load factors, keyed by vehicle id

	// VehicleCountOnLine and AnotherVehicleWaitingEarlier support the
	// Unbunch/AutoUnbunch path (§4.D.ii), which needs facts about other
	// vehicles on the line that a per-vehicle facade call cannot derive on
	// its own.
	VehicleCountOnLine           int
	AnotherVehicleWaitingEarlier bool
	// RecordedDepartures holds departure times already observed at this
	// stop; only the values are read, the keys are not interpreted.
	RecordedDepartures map[int]int

	Stats  *delaystats.Stats
	Caches *cache.Caches
}

// Evaluate runs one tick of the Departure State Machine for a single
// (vehicle, line, stop). It mutates Input.Station.VehiclesWaiting and
// Input.Stats as a side effect of releasing or continuing to hold.
func Evaluate(in Input) Decision {
	if !in.DoorsOpen {
		if in.AutoDepartureEnabled {
			return Decision{Action: ActionStopAutoDeparture}
		}
		return Decision{Action: ActionHold}
	}

	if !readyToDepart(in) {
		return Decision{Action: ActionHold}
	}

	if in.Line != nil && in.Line.ForceDeparture {
		return Decision{Action: ActionForceDepart, Released: true}
	}
	return Decision{Action: ActionRestartAutoDeparture, Released: true}
}

// readyToDepart routes by constraint kind (spec §4.D): a half-initialized
// station — missing line, station, or constraint — never wedges a
// vehicle, and an enabled skip-stop pattern always bypasses constraint
// evaluation entirely.
func readyToDepart(in Input) bool {
	if in.Line == nil || in.Station == nil || in.Station.Constraint == nil {
		return true
	}
	if skipStopTriggered(in) {
		return true
	}
	switch c := in.Station.Constraint.(type) {
	case model.NoConstraint:
		return true
	case model.ArrDepConstraint:
		return arrDepReady(in, c)
	case model.UnbunchConstraint:
		return unbunchReady(in, c.GapSeconds())
	case model.AutoUnbunchConstraint:
		gap := 0
		if in.Line != nil {
			gap = in.Line.Frequency - c.MarginSeconds()
		}
		return unbunchReady(in, gap)
	default:
		return true
	}
}

func skipStopTriggered(in Input) bool {
	return skipstop.IsSkipped(skipstop.Input{
		Patterns:     in.Station.SkipPatterns,
		Stop:         in.Stop,
		VehicleID:    in.VehicleID,
		VehicleIndex: in.VehicleIndex,
		BoundSlot:    in.BoundSlot,
	})
}

// arrDepReady implements §4.D.i.
func arrDepReady(in Input, c model.ArrDepConstraint) bool {
	slots := activeSlots(in, c)
	if len(slots) == 0 {
		return true
	}

	entry := resolveEntry(in, slots)
	if in.Now < entry.DepartureTime {
		return false
	}
	if in.Stats != nil {
		in.Stats.RecordDelay(in.LineID, in.Stop, in.Now-entry.DepartureTime)
	}
	delete(in.Station.VehiclesWaiting, in.VehicleID)
	return true
}

// activeSlots resolves the slot set active right now: the legacy flat list
// (cached, since only an explicit mutation changes it) or the currently
// active time-period's list (re-resolved on every call via the
// active-period cache's own 60s throttling, since which period is active
// changes with elapsed time rather than a model mutation — caching the
// period's slot list under the same key as the legacy list would go stale
// silently).
func activeSlots(in Input, c model.ArrDepConstraint) []model.Slot {
	if !c.UsesPeriods() {
		return in.Caches.Sorted.Get(in.LineID, in.Stop, func() []model.Slot {
			return sortedSlots(c.Slots)
		})
	}
	idx := in.Caches.ActivePeriod.ActiveIndex(in.LineID, in.Stop, in.Now, c.Periods)
	if idx < 0 {
		return nil
	}
	return sortedSlots(c.Periods[idx].Slots)
}

func sortedSlots(s []model.Slot) []model.Slot {
	out := append([]model.Slot(nil), s...)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].ArrivalSlot() > out[j].ArrivalSlot(); j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// resolveEntry returns the waiting entry to evaluate for release: the
// vehicle's existing entry, honoured (with continued-holding recovery
// applied) if it is still valid and within tolerance, or a freshly
// selected one otherwise.
func resolveEntry(in Input, slots []model.Slot) *model.WaitingEntry {
	if entry, ok := in.Station.VehiclesWaiting[in.VehicleID]; ok &&
		entry.ArrivalTime >= in.DoorsOpenedAt && entry.Slot != nil && containsSlot(slots, *entry.Slot) {
		curDelay := in.Now - entry.DepartureTime
		if !in.Station.MaxDelayToleranceEnabled || curDelay <= in.Station.MaxDelayTolerance {
			if !applyHoldingRecovery(in, entry) {
				return entry
			}
		}
		delete(in.Station.VehiclesWaiting, in.VehicleID)
	}
	return selectNewEntry(in, slots)
}

// applyHoldingRecovery adjusts entry's stored departure time in place when
// it has already passed and the vehicle is still held. Returns true when
// the mode instead demands a fresh slot selection (SkipToNext).
func applyHoldingRecovery(in Input, entry *model.WaitingEntry) (reselect bool) {
	if in.Now < entry.DepartureTime {
		return false
	}
	res := recovery.OnContinuedHold(recovery.HoldingInput{
		Mode:         in.Station.EffectiveRecoveryMode(in.Line),
		Now:          in.Now,
		Stored:       entry.DepartureTime,
		Delay:        in.Now - entry.DepartureTime,
		IsTerminus:   in.IsTerminus,
		RecoveryRate: in.Station.EffectiveRecoveryRate(in.Line),
	})
	if res.Action == recovery.ActionReselectSlot {
		return true
	}
	entry.DepartureTime = res.NewDepartureTime
	return false
}

// selectNewEntry runs slot-assignment, arrival-recovery, and binding
// conflict resolution to produce and store a fresh waiting entry (§4.D.i
// step 3).
func selectNewEntry(in Input, slots []model.Slot) *model.WaitingEntry {
	biasedArrival := in.DoorsOpenedAt
	if in.Stats != nil {
		if hist := in.Stats.GetHistoricalDelay(in.LineID, in.Stop, in.DoorsOpenedAt); hist != 0 {
			biasedArrival += int(0.5 * hist)
		}
	}

	var b *model.TrainAssignment
	if a, ok := in.Station.TrainAssignments[in.VehicleID]; ok {
		b = a
	}

	params := slotassign.Params{
		Slots:       slots,
		ArrivalTime: biasedArrival,
		Now:         in.Now,
		VehicleID:   in.VehicleID,
		Waiting:     in.Station.VehiclesWaiting,
		Binding:     b,
		LineID:      in.LineID,
		Stop:        in.Stop,
		Caches:      in.Caches,
	}
	res := slotassign.Assign(params)
	if res.BindingBlockedBy != 0 {
		res = resolveBindingConflict(in, params, b, biasedArrival, res.BindingBlockedBy)
	}

	wait := res.Slot.WaitTime(biasedArrival)
	wait = clock.DepartureTimeBounds(wait,
		in.Station.MinWaitingTime, in.Station.MinWaitEnabled,
		in.Station.MaxWaitingTime, in.Station.MaxWaitEnabled)

	arrivalDelay := arrivalDelaySeconds(in.DoorsOpenedAt, res.Slot.ArrivalSlot())
	wait = recovery.OnArrival(recovery.ArrivalInput{
		Mode:         in.Station.EffectiveRecoveryMode(in.Line),
		ArrivalDelay: arrivalDelay,
		IsTerminus:   in.IsTerminus,
		Wait:         wait,
	})
	if in.Stats != nil {
		in.Stats.RecordArrivalDelay(in.LineID, in.Stop, arrivalDelay)
	}

	departureTime := in.DoorsOpenedAt + wait
	slot := res.Slot
	entry := &model.WaitingEntry{
		VehicleID:     in.VehicleID,
		ArrivalTime:   in.DoorsOpenedAt,
		Slot:          &slot,
		DepartureTime: departureTime,
	}
	in.Station.VehiclesWaiting[in.VehicleID] = entry

	if in.Caches != nil && in.Caches.VehicleState != nil {
		in.Caches.VehicleState.Advance(in.Now)
		in.Caches.VehicleState.Set(in.VehicleID, cache.VehicleSnapshot{
			PredictedArrival: in.DoorsOpenedAt,
			CurrentDelay:     arrivalDelay,
		})
	}

	return entry
}

// resolveBindingConflict decides a contested train-slot binding using
// priority (§4.F): the challenger (this vehicle) preempts the blocking
// holder only if its priority strictly exceeds the holder's. The holder's
// arrival delay is read from this tick's vehicle-state cache when
// available (another evaluation earlier in the same tick populated it),
// falling back to how long the holder has already been waiting.
func resolveBindingConflict(in Input, params slotassign.Params, b *model.TrainAssignment, biasedArrival int, holderID int) slotassign.Result {
	challengerDelay := arrivalDelaySeconds(biasedArrival, b.Slot.ArrivalSlot())
	if challengerDelay < 0 {
		challengerDelay = 0
	}

	holderDelay := 0
	if in.Caches != nil && in.Caches.VehicleState != nil {
		if snap, ok := in.Caches.VehicleState.Get(holderID); ok {
			holderDelay = snap.CurrentDelay
		}
	}
	if holderDelay == 0 {
		if entry, ok := in.Station.VehiclesWaiting[holderID]; ok {
			holderDelay = in.Now - entry.ArrivalTime
		}
	}
	if holderDelay < 0 {
		holderDelay = 0
	}

	challenger := binding.Compute(binding.Priority{ArrivalDelay: challengerDelay, LoadFactor: in.LoadFactor})
	holder := binding.Compute(binding.Priority{ArrivalDelay: holderDelay, LoadFactor: in.LoadFactorOf[holderID]})

	if binding.Preempts(challenger, holder) {
		delete(in.Station.VehiclesWaiting, holderID)
		return slotassign.Assign(params)
	}
	params.Binding = nil
	return slotassign.Assign(params)
}

// unbunchReady implements §4.D.ii; gap is the pre-resolved departure
// offset (unbunch gap, or line frequency minus auto-unbunch margin).
func unbunchReady(in Input, gap int) bool {
	entry, ok := in.Station.VehiclesWaiting[in.VehicleID]
	if !ok {
		if in.VehicleCountOnLine <= 1 {
			return true
		}
		if in.AnotherVehicleWaitingEarlier {
			return false
		}
		prev := previousDepartureAcrossLine(in.Now, in.RecordedDepartures, in.Station.VehiclesWaiting)
		departureTime := prev + gap
		entry = &model.WaitingEntry{
			VehicleID:     in.VehicleID,
			ArrivalTime:   in.DoorsOpenedAt,
			DepartureTime: departureTime,
		}
		in.Station.VehiclesWaiting[in.VehicleID] = entry
	}

	if in.Now < entry.DepartureTime {
		return false
	}
	if in.Stats != nil {
		in.Stats.RecordDelay(in.LineID, in.Stop, in.Now-entry.DepartureTime)
	}
	delete(in.Station.VehiclesWaiting, in.VehicleID)
	return true
}

// previousDepartureAcrossLine is the max over every recorded departure at
// this stop (across all vehicles on the line) and every currently stored
// departureTime among this stop's waiting entries. With no prior
// departures recorded anywhere (e.g. a line just un-paused), it returns
// now rather than a stale zero value, so the first vehicle's departure is
// one full gap after the current time.
func previousDepartureAcrossLine(now int, recorded map[int]int, waiting map[int]*model.WaitingEntry) int {
	found := false
	max := 0
	for _, t := range recorded {
		if !found || t > max {
			max, found = t, true
		}
	}
	for _, e := range waiting {
		if !found || e.DepartureTime > max {
			max, found = e.DepartureTime, true
		}
	}
	if !found {
		return now
	}
	return max
}

// arrivalDelaySeconds returns the signed delay of doorsOpenedAt relative
// to arrSlot: positive when late, negative when early, using the same
// half-period window convention as clock.AfterArrivalSlot.
func arrivalDelaySeconds(doorsOpenedAt, arrSlot int) int {
	rel := clock.Mod(doorsOpenedAt - arrSlot)
	if rel <= clock.SlotPeriod/2 {
		return rel
	}
	return rel - clock.SlotPeriod
}

func containsSlot(slots []model.Slot, s model.Slot) bool {
	for _, x := range slots {
		if x == s {
			return true
		}
	}
	return false
}
