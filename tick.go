package timetable

import (
	"github.com/hgfantasy/tpf2-timetable-core/binding"
	"github.com/hgfantasy/tpf2-timetable-core/cache"
	"github.com/hgfantasy/tpf2-timetable-core/depart"
	"github.com/hgfantasy/tpf2-timetable-core/model"
)

// UpdateForVehicle is the per-tick workhorse (spec §6): evaluate one
// vehicle's hold/release decision and issue the corresponding command.
// It never returns an error — a missing line is logged and treated as
// "release", and a missing station or constraint is treated as "release"
// (spec §7's defensive shortcut), so a half-configured station can never
// wedge the simulation.
func (e *Engine) UpdateForVehicle(sink CommandSink, vehicleID, lineID int, vehiclesOnLine []int, vs VehicleState, now int) {
	e.caches.VehicleState.Advance(now)

	line := e.timetable.Line(lineID)
	if line == nil {
		e.log.Warn().Int("line", lineID).Int("vehicle", vehicleID).Msg("updateForVehicle: unknown line, releasing")
		e.issue(sink, depart.Decision{Released: true, Action: depart.ActionRestartAutoDeparture}, vehicleID)
		return
	}
	if !line.HasTimetable {
		return
	}

	stop := vs.StopIndex + 1
	station := line.Station(stop)

	stopCount := len(vs.SectionTimes) + 1
	isTerminus := model.IsTerminus(stop, stopCount)

	vehicleIndex := indexOf(vehiclesOnLine, vehicleID)

	var boundSlot *model.Slot
	if station != nil {
		if a, ok := binding.GetTrainAssignment(station, vehicleID); ok {
			boundSlot = &a.Slot
		}
	}

	in := depart.Input{
		Now:                          now,
		LineID:                       lineID,
		Stop:                         stop,
		VehicleID:                    vehicleID,
		VehicleIndex:                 vehicleIndex,
		AutoDepartureEnabled:         vs.AutoDepartureEnabled,
		DoorsOpen:                    vs.DoorsOpen,
		DoorsOpenedAt:                vs.DoorsOpenedAt,
		IsTerminus:                   isTerminus,
		Line:                         line,
		Station:                      station,
		BoundSlot:                    boundSlot,
		VehicleCountOnLine:           len(vehiclesOnLine),
		AnotherVehicleWaitingEarlier: anotherVehicleWaiting(station, vehicleID),
		RecordedDepartures:           lastDepartures(vs.LineStopDepartures, stop),
		Stats:                        e.stats,
		Caches:                       e.caches,
	}
	if vs.Capacity > 0 {
		in.LoadFactor = float64(vs.PassengerCount) / float64(vs.Capacity)
	}

	d := depart.Evaluate(in)
	e.issue(sink, d, vehicleID)
}

// lastDepartures adapts the facade's flat lineStopDepartures slice into
// the per-vehicle recorded-departure map Unbunch's previousDepartureAcrossLine
// expects. The facade only reports one scalar per stop (the last observed
// departure there, across whichever vehicle produced it last), which is
// exactly what that lookup needs: a single running "last departure" value,
// not a per-vehicle history.
func lastDepartures(lineStopDepartures []int, stop int) map[int]int {
	idx := stop - 1
	if idx < 0 || idx >= len(lineStopDepartures) {
		return nil
	}
	return map[int]int{0: lineStopDepartures[idx]}
}

// anotherVehicleWaiting reports whether some other vehicle already holds a
// waiting entry at station — used by the Unbunch path (§4.D.ii) to decide
// whether this vehicle should defer without computing its own departure
// time yet.
func anotherVehicleWaiting(station *model.StationSlot, vehicleID int) bool {
	if station == nil {
		return false
	}
	for v := range station.VehiclesWaiting {
		if v != vehicleID {
			return true
		}
	}
	return false
}

func indexOf(ids []int, id int) int {
	for i, v := range ids {
		if v == id {
			return i + 1
		}
	}
	return 0
}

func (e *Engine) issue(sink CommandSink, d depart.Decision, vehicleID int) {
	if sink == nil {
		return
	}
	var err error
	switch d.Action {
	case depart.ActionStopAutoDeparture:
		err = sink.StopAutoDeparture(vehicleID)
	case depart.ActionForceDepart:
		err = sink.ForceDepart(vehicleID)
	case depart.ActionRestartAutoDeparture:
		err = sink.RestartAutoDeparture(vehicleID)
	case depart.ActionHold:
		return
	}
	if err != nil {
		e.log.Warn().Err(err).Int("vehicle", vehicleID).Str("action", actionName(d.Action)).
			Msg("command sink failed; failure is logged but not propagated")
	}
}

func actionName(a depart.Action) string {
	switch a {
	case depart.ActionHold:
		return "hold"
	case depart.ActionStopAutoDeparture:
		return "stopAutoDeparture"
	case depart.ActionForceDepart:
		return "forceDepart"
	case depart.ActionRestartAutoDeparture:
		return "restartAutoDeparture"
	default:
		return "unknown"
	}
}

// CleanTimetable prunes stale lines, out-of-range stations, and vehicles no
// longer reported as on their line (spec §4.B `prune()`, spec §6
// `cleanTimetable(now)`), then drops now-invalid train assignments at every
// remaining station. The line/station/vehicle pruning is driven entirely
// by the facade-reported topology; now only selects which time period's
// slots the assignment sweep checks against.
func (e *Engine) CleanTimetable(facade SimFacade, now int) {
	existingLines := make(map[int]bool)
	stopCounts := make(map[int]int)
	vehiclesOnLine := make(map[int]map[int]bool)

	for _, lineID := range facade.ListLines() {
		existingLines[lineID] = true
		if info, ok := facade.LineInfo(lineID); ok {
			stopCounts[lineID] = len(info.Stops)
		}
		onLine := make(map[int]bool)
		for _, v := range facade.ListVehiclesOnLine(lineID) {
			onLine[v] = true
		}
		vehiclesOnLine[lineID] = onLine
	}

	for lineID, l := range e.timetable.Lines {
		if existingLines[lineID] {
			continue
		}
		for stop := range l.Stations {
			e.caches.Bus.Publish(cache.StationRemoved{Line: lineID, Stop: stop})
		}
		e.caches.Bus.Publish(cache.LineRemoved{Line: lineID})
	}

	e.timetable.Prune(existingLines, stopCounts, vehiclesOnLine)
	e.caches.StationIndex.Rebuild(e.timetable)

	for lineID, l := range e.timetable.Lines {
		for stop, s := range l.Stations {
			ad, ok := s.Constraint.(model.ArrDepConstraint)
			if !ok {
				continue
			}
			active, _ := ad.ActiveSlots(now)
			e.timetable.PruneInvalidAssignments(lineID, stop, active)
		}
	}
}
