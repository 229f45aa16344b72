package fixture

import timetable "github.com/hgfantasy/tpf2-timetable-core"

// World is a synthetic simulation facade: it implements timetable.SimFacade
// and timetable.CommandSink directly over a small in-memory fleet, the way
// a test or a CLI demo drives the core without a real game attached.
type World struct {
	Clock int
	Lines map[int]*Line

	vehicleIndex map[int]*Vehicle
	lineOf       map[int]*Line
}

// NewWorld returns an empty facade. Use AddLine to populate it.
func NewWorld() *World {
	return &World{
		Lines:        make(map[int]*Line),
		vehicleIndex: make(map[int]*Vehicle),
		lineOf:       make(map[int]*Line),
	}
}

// AddLine registers line and indexes its current vehicles for lookup.
func (w *World) AddLine(line *Line) {
	w.Lines[line.ID] = line
	for _, v := range line.Vehicles {
		w.vehicleIndex[v.ID] = v
		w.lineOf[v.ID] = line
	}
}

// Now implements timetable.SimFacade.
func (w *World) Now() int { return w.Clock }

// ListLines implements timetable.SimFacade.
func (w *World) ListLines() []int {
	ids := make([]int, 0, len(w.Lines))
	for id := range w.Lines {
		ids = append(ids, id)
	}
	return ids
}

// ListVehiclesOnLine implements timetable.SimFacade.
func (w *World) ListVehiclesOnLine(lineID int) []int {
	l, ok := w.Lines[lineID]
	if !ok {
		return nil
	}
	return l.VehicleIDs()
}

// VehicleState implements timetable.SimFacade, projecting a fixture Vehicle
// into the facade's wire shape.
func (w *World) VehicleState(vehicleID int) (timetable.VehicleState, bool) {
	v, ok := w.vehicleIndex[vehicleID]
	if !ok {
		return timetable.VehicleState{}, false
	}
	state := timetable.InTransit
	if v.DoorsOpen {
		state = timetable.Stopped
	}
	return timetable.VehicleState{
		StopIndex:            v.StopIndex - 1,
		Line:                 v.LineID,
		State:                state,
		AutoDepartureEnabled: v.AutoDepartureEnabled,
		DoorsOpen:            v.DoorsOpen,
		DoorsOpenedAt:        v.DoorsOpenedAt,
		SectionTimes:         v.SectionTimes,
		LineStopDepartures:   v.LineStopDepartures,
		Carrier:              timetable.CarrierBus,
		PassengerCount:       v.PassengersOnboard,
		Capacity:             vehicleCapacity(v),
	}, true
}

func vehicleCapacity(v *Vehicle) int {
	if v.Type == nil {
		return 0
	}
	return v.Type.Capacity
}

// LineInfo implements timetable.SimFacade.
func (w *World) LineInfo(lineID int) (timetable.LineInfo, bool) {
	l, ok := w.Lines[lineID]
	if !ok {
		return timetable.LineInfo{}, false
	}
	stops := make([]timetable.StopInfo, len(l.Stops))
	for i, s := range l.Stops {
		stops[i] = timetable.StopInfo{
			StationGroupID: s.StationGroupID,
			MinWaitingTime: s.MinWaitingTime,
			MaxWaitingTime: s.MaxWaitingTime,
		}
	}
	return timetable.LineInfo{Stops: stops, Frequency: l.Frequency}, true
}

// StationName implements timetable.SimFacade.
func (w *World) StationName(stationGroupID int) string {
	for _, l := range w.Lines {
		for _, s := range l.Stops {
			if s.StationGroupID == stationGroupID {
				return s.Name
			}
		}
	}
	return ""
}

// StopAutoDeparture implements timetable.CommandSink.
func (w *World) StopAutoDeparture(vehicleID int) error {
	v, ok := w.vehicleIndex[vehicleID]
	if !ok {
		return errVehicleNotFound(vehicleID)
	}
	v.AutoDepartureEnabled = false
	return nil
}

// RestartAutoDeparture implements timetable.CommandSink: closing the loop,
// it departs the vehicle the way the real facade would once auto-departure
// resumes and doors close.
func (w *World) RestartAutoDeparture(vehicleID int) error {
	v, ok := w.vehicleIndex[vehicleID]
	if !ok {
		return errVehicleNotFound(vehicleID)
	}
	v.Depart(w.lineOf[vehicleID], w.Clock)
	return nil
}

// ForceDepart implements timetable.CommandSink.
func (w *World) ForceDepart(vehicleID int) error {
	return w.RestartAutoDeparture(vehicleID)
}

type vehicleNotFoundError int

func (e vehicleNotFoundError) Error() string {
	return "fixture: vehicle not found"
}

func errVehicleNotFound(vehicleID int) error {
	return vehicleNotFoundError(vehicleID)
}
