package timetable

// VehicleState is the per-vehicle snapshot the facade reports each tick
// (spec §6). SectionTimes[i] is the travel time in seconds from stop i+1
// to stop i+2; LineStopDepartures[i] is the last recorded departure time
// at stop i+1, used to seed Unbunch's previous-departure lookup.
type VehicleState struct {
	StopIndex            int
	Line                 int
	State                VehicleMotionState
	AutoDepartureEnabled bool
	DoorsOpen            bool
	DoorsOpenedAt        int
	SectionTimes         []int
	LineStopDepartures   []int
	Carrier              Carrier
	PassengerCount       int
	Capacity             int
}

// VehicleMotionState names the vehicle's coarse physical state, mirrored
// from the facade's own enum (spec §6: "AtTerminal | InTransit | …").
type VehicleMotionState int

const (
	AtTerminal VehicleMotionState = iota
	InTransit
	Stopped
)

// Carrier names the vehicle's mode, used only for UI projections.
type Carrier int

const (
	CarrierUnknown Carrier = iota
	CarrierBus
	CarrierTram
	CarrierTrain
)

// StopInfo describes one stop on a line's ordered stop list (spec §6).
type StopInfo struct {
	StationGroupID int
	MinWaitingTime int
	MaxWaitingTime int
}

// LineInfo is a line's static timetable-relevant metadata.
type LineInfo struct {
	Stops     []StopInfo
	Frequency int
}

// SimFacade is the read side of the simulation facade the core depends on
// (spec §6): vehicle/line state queries the Engine needs every tick, plus
// station name resolution for UI-facing accessors. The facade owns wall
// clock and vehicle physics; the core only ever reads through this
// interface and writes back through CommandSink.
type SimFacade interface {
	Now() int
	ListLines() []int
	ListVehiclesOnLine(lineID int) []int
	VehicleState(vehicleID int) (VehicleState, bool)
	LineInfo(lineID int) (LineInfo, bool)
	StationName(stationGroupID int) string
}

// CommandSink is the write side: fire-and-forget commands the core issues
// back to the simulation (spec §6: "All command sinks are fire-and-forget;
// failure is logged but not propagated"). A facade that cannot execute a
// command should return a non-nil error purely so the Engine can log it —
// the Engine never surfaces that error to its own caller.
type CommandSink interface {
	StopAutoDeparture(vehicleID int) error
	RestartAutoDeparture(vehicleID int) error
	ForceDepart(vehicleID int) error
}
