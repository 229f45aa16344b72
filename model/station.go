package model

// DelayRecoveryMode selects how a delayed vehicle's departure time is
// adjusted (spec §4.E). The zero value, RecoveryCatchUp, is the default
// used whenever neither the station nor the line picks a mode explicitly.
type DelayRecoveryMode int

const (
	RecoveryCatchUp DelayRecoveryMode = iota
	RecoverySkipToNext
	RecoveryHoldAtTerminus
	RecoveryGradualRecovery
	RecoverySkipStops
	RecoveryResetAtTerminus
)

func (m DelayRecoveryMode) String() string {
	switch m {
	case RecoveryCatchUp:
		return "CatchUp"
	case RecoverySkipToNext:
		return "SkipToNext"
	case RecoveryHoldAtTerminus:
		return "HoldAtTerminus"
	case RecoveryGradualRecovery:
		return "GradualRecovery"
	case RecoverySkipStops:
		return "SkipStops"
	case RecoveryResetAtTerminus:
		return "ResetAtTerminus"
	default:
		return "Unknown"
	}
}

// WaitingEntry is a vehicle's in-progress hold at a station slot: the
// absolute time it arrived, the slot it was assigned (nil before a slot
// is picked for it, e.g. the Unbunch paths), and its computed absolute
// departure time.
type WaitingEntry struct {
	VehicleID     int   `json:"vehicle_id"`
	ArrivalTime   int   `json:"arrival_time"`
	Slot          *Slot `json:"slot,omitempty"`
	DepartureTime int   `json:"departure_time"`
}

// TrainAssignment is a persistent vehicle-to-slot binding that outranks
// nearest-slot selection (spec §4.F).
type TrainAssignment struct {
	SlotIndex int  `json:"slot_index"`
	Slot      Slot `json:"slot"`
}

// StationSlot is the per-(line,stop) scheduling configuration and runtime
// state (spec §3 "Station slot").
type StationSlot struct {
	Constraint ConstraintVariant `json:"-"`

	VehiclesWaiting  map[int]*WaitingEntry       `json:"vehicles_waiting,omitempty"`
	TrainAssignments map[int]*TrainAssignment    `json:"train_assignments,omitempty"`

	SkipPatterns SkipPatterns `json:"skip_patterns"`

	MaxDelayTolerance        int  `json:"max_delay_tolerance,omitempty"`
	MaxDelayToleranceEnabled bool `json:"max_delay_tolerance_enabled"`

	// DelayRecoveryMode/RecoveryRate are pointers: nil means "defer to the
	// line-level default", matching spec §4.E's selection precedence
	// (station overrides line overrides CatchUp).
	DelayRecoveryMode *DelayRecoveryMode `json:"delay_recovery_mode,omitempty"`
	RecoveryRate      *float64           `json:"recovery_rate,omitempty"`

	StationID int `json:"station_id"`

	MinWaitingTime int  `json:"min_waiting_time,omitempty"`
	MinWaitEnabled bool `json:"min_wait_enabled"`
	MaxWaitingTime int  `json:"max_waiting_time,omitempty"`
	MaxWaitEnabled bool `json:"max_wait_enabled"`
}

// NewStationSlot returns a station slot with no constraint (ready to
// depart unconditionally) and all maps initialized.
func NewStationSlot(stationID int) *StationSlot {
	return &StationSlot{
		Constraint:       NoConstraint{},
		VehiclesWaiting:  make(map[int]*WaitingEntry),
		TrainAssignments: make(map[int]*TrainAssignment),
		StationID:        stationID,
	}
}

// EffectiveRecoveryMode resolves station-then-line-then-default precedence.
func (s *StationSlot) EffectiveRecoveryMode(line *Line) DelayRecoveryMode {
	if s.DelayRecoveryMode != nil {
		return *s.DelayRecoveryMode
	}
	if line != nil {
		return line.DelayRecoveryMode
	}
	return RecoveryCatchUp
}

// EffectiveRecoveryRate resolves station-then-line-then-default(0.1)
// precedence for GradualRecovery's rate parameter.
func (s *StationSlot) EffectiveRecoveryRate(line *Line) float64 {
	if s.RecoveryRate != nil {
		return *s.RecoveryRate
	}
	if line != nil && line.RecoveryRate > 0 {
		return line.RecoveryRate
	}
	return 0.1
}
