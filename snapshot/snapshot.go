// Package snapshot implements versioned serialization of the full core
// state (spec §4.K): a self-describing tree keyed by version, line, and
// stop, with an explicit migration-hook registry so an unrecognized
// version fails loudly instead of silently misreading a future format.
package snapshot

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/hgfantasy/tpf2-timetable-core/model"
)

// CurrentVersion is the only version this build can produce.
const CurrentVersion = "v1"

// Migrations maps a version tag to its decoder. Only "v1" is populated;
// a future version bump plugs in here rather than branching inline
// (spec §4.K: "Version increments require a migration hook that is
// explicit").
var Migrations = map[string]func([]byte) (*model.Timetable, error){
	CurrentVersion: decodeV1,
}

// Snapshot encodes t into its current-version wire form.
func Snapshot(t *model.Timetable) (version string, blob []byte, err error) {
	data, err := json.Marshal(toWire(t))
	if err != nil {
		return "", nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return CurrentVersion, data, nil
}

// Restore decodes blob using the migration registered for version. An
// unregistered version returns a VersionUnsupported *model.Error.
func Restore(version string, blob []byte) (*model.Timetable, error) {
	fn, ok := Migrations[version]
	if !ok {
		return nil, model.NewError(model.VersionUnsupported, "unsupported snapshot version %q", version)
	}
	return fn(blob)
}

func decodeV1(blob []byte) (*model.Timetable, error) {
	var b wireBlob
	if err := json.Unmarshal(blob, &b); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return fromWire(b)
}

// wireBlob is the top-level serialized shape (spec §6 "Serialization
// format"): version, then lines keyed by their (string, for JSON map
// compatibility) line id.
type wireBlob struct {
	Version string              `json:"version"`
	Lines   map[string]wireLine `json:"lines"`
}

type wireLine struct {
	HasTimetable      bool                 `json:"has_timetable"`
	ForceDeparture    bool                 `json:"force_departure"`
	MinWaitEnabled    bool                 `json:"min_wait_enabled"`
	MaxWaitEnabled    bool                 `json:"max_wait_enabled"`
	Frequency         int                  `json:"frequency,omitempty"`
	FrequencyEnabled  bool                 `json:"frequency_enabled"`
	DelayRecoveryMode int                  `json:"delay_recovery_mode,omitempty"`
	RecoveryRate      float64              `json:"recovery_rate,omitempty"`
	Stations          map[string]wireStation `json:"stations"`
}

type wireStation struct {
	StationID                int                         `json:"station_id"`
	Conditions               wireConstraint              `json:"conditions"`
	SkipPatterns             model.SkipPatterns          `json:"skip_patterns"`
	MaxDelayTolerance        int                         `json:"max_delay_tolerance,omitempty"`
	MaxDelayToleranceEnabled bool                        `json:"max_delay_tolerance_enabled"`
	DelayRecoveryMode        *int                        `json:"delay_recovery_mode,omitempty"`
	RecoveryRate             *float64                    `json:"recovery_rate,omitempty"`
	MinWaitingTime           int                         `json:"min_waiting_time,omitempty"`
	MinWaitEnabled           bool                        `json:"min_wait_enabled"`
	MaxWaitingTime           int                         `json:"max_waiting_time,omitempty"`
	MaxWaitEnabled           bool                        `json:"max_wait_enabled"`
	VehiclesWaiting          map[string]model.WaitingEntry    `json:"vehicles_waiting,omitempty"`
	TrainAssignments         map[string]model.TrainAssignment `json:"train_assignments,omitempty"`
}

// wireConstraint is a self-tagged union: Type selects which of the
// remaining fields are meaningful. Backward compatibility rule (spec §6):
// when a station's ArrDep is a flat Slots list with no TimePeriods, treat
// it as one time-period covering [0,3600); fromWire leaves that promotion
// to the caller (model.Timetable's own mutators), storing the flat form
// as-is.
type wireConstraint struct {
	Type        string             `json:"type"`
	Slots       []model.Slot       `json:"slots,omitempty"`
	TimePeriods []model.TimePeriod `json:"time_periods,omitempty"`
	Minutes     int                `json:"minutes,omitempty"`
	Seconds     int                `json:"seconds,omitempty"`
	MarginMin   int                `json:"margin_min,omitempty"`
	MarginSec   int                `json:"margin_sec,omitempty"`
}

func toWire(t *model.Timetable) wireBlob {
	b := wireBlob{Version: CurrentVersion, Lines: make(map[string]wireLine, len(t.Lines))}
	for lineID, l := range t.Lines {
		wl := wireLine{
			HasTimetable:      l.HasTimetable,
			ForceDeparture:    l.ForceDeparture,
			MinWaitEnabled:    l.MinWaitEnabled,
			MaxWaitEnabled:    l.MaxWaitEnabled,
			Frequency:         l.Frequency,
			FrequencyEnabled:  l.FrequencyEnabled,
			DelayRecoveryMode: int(l.DelayRecoveryMode),
			RecoveryRate:      l.RecoveryRate,
			Stations:          make(map[string]wireStation, len(l.Stations)),
		}
		for stop, s := range l.Stations {
			wl.Stations[strconv.Itoa(stop)] = stationToWire(s)
		}
		b.Lines[strconv.Itoa(lineID)] = wl
	}
	return b
}

func stationToWire(s *model.StationSlot) wireStation {
	ws := wireStation{
		StationID:                s.StationID,
		Conditions:               constraintToWire(s.Constraint),
		SkipPatterns:             s.SkipPatterns,
		MaxDelayTolerance:        s.MaxDelayTolerance,
		MaxDelayToleranceEnabled: s.MaxDelayToleranceEnabled,
		MinWaitingTime:           s.MinWaitingTime,
		MinWaitEnabled:           s.MinWaitEnabled,
		MaxWaitingTime:           s.MaxWaitingTime,
		MaxWaitEnabled:           s.MaxWaitEnabled,
	}
	if s.DelayRecoveryMode != nil {
		v := int(*s.DelayRecoveryMode)
		ws.DelayRecoveryMode = &v
	}
	if s.RecoveryRate != nil {
		v := *s.RecoveryRate
		ws.RecoveryRate = &v
	}
	if len(s.VehiclesWaiting) > 0 {
		ws.VehiclesWaiting = make(map[string]model.WaitingEntry, len(s.VehiclesWaiting))
		for vehicle, e := range s.VehiclesWaiting {
			ws.VehiclesWaiting[strconv.Itoa(vehicle)] = *e
		}
	}
	if len(s.TrainAssignments) > 0 {
		ws.TrainAssignments = make(map[string]model.TrainAssignment, len(s.TrainAssignments))
		for vehicle, a := range s.TrainAssignments {
			ws.TrainAssignments[strconv.Itoa(vehicle)] = *a
		}
	}
	return ws
}

func constraintToWire(c model.ConstraintVariant) wireConstraint {
	switch v := c.(type) {
	case model.ArrDepConstraint:
		return wireConstraint{Type: "ArrDep", Slots: v.Slots, TimePeriods: v.Periods}
	case model.UnbunchConstraint:
		return wireConstraint{Type: "Unbunch", Minutes: v.Minutes, Seconds: v.Seconds}
	case model.AutoUnbunchConstraint:
		return wireConstraint{Type: "AutoUnbunch", MarginMin: v.MarginMin, MarginSec: v.MarginSec}
	default:
		return wireConstraint{Type: "None"}
	}
}

func fromWire(b wireBlob) (*model.Timetable, error) {
	t := model.NewTimetable()
	for lineKey, wl := range b.Lines {
		lineID, err := strconv.Atoi(lineKey)
		if err != nil {
			return nil, fmt.Errorf("non-integer line key %q: %w", lineKey, err)
		}
		l := t.LineOrCreate(lineID)
		l.HasTimetable = wl.HasTimetable
		l.ForceDeparture = wl.ForceDeparture
		l.MinWaitEnabled = wl.MinWaitEnabled
		l.MaxWaitEnabled = wl.MaxWaitEnabled
		l.Frequency = wl.Frequency
		l.FrequencyEnabled = wl.FrequencyEnabled
		l.DelayRecoveryMode = model.DelayRecoveryMode(wl.DelayRecoveryMode)
		l.RecoveryRate = wl.RecoveryRate
		for stopKey, ws := range wl.Stations {
			stop, err := strconv.Atoi(stopKey)
			if err != nil {
				return nil, fmt.Errorf("non-integer stop key %q: %w", stopKey, err)
			}
			l.Stations[stop] = stationFromWire(ws)
		}
	}
	return t, nil
}

func stationFromWire(ws wireStation) *model.StationSlot {
	s := model.NewStationSlot(ws.StationID)
	s.Constraint = constraintFromWire(ws.Conditions)
	s.SkipPatterns = ws.SkipPatterns
	s.MaxDelayTolerance = ws.MaxDelayTolerance
	s.MaxDelayToleranceEnabled = ws.MaxDelayToleranceEnabled
	s.MinWaitingTime = ws.MinWaitingTime
	s.MinWaitEnabled = ws.MinWaitEnabled
	s.MaxWaitingTime = ws.MaxWaitingTime
	s.MaxWaitEnabled = ws.MaxWaitEnabled
	if ws.DelayRecoveryMode != nil {
		m := model.DelayRecoveryMode(*ws.DelayRecoveryMode)
		s.DelayRecoveryMode = &m
	}
	if ws.RecoveryRate != nil {
		r := *ws.RecoveryRate
		s.RecoveryRate = &r
	}
	for vehicleKey, e := range ws.VehiclesWaiting {
		vehicle, err := strconv.Atoi(vehicleKey)
		if err != nil {
			continue
		}
		entry := e
		s.VehiclesWaiting[vehicle] = &entry
	}
	for vehicleKey, a := range ws.TrainAssignments {
		vehicle, err := strconv.Atoi(vehicleKey)
		if err != nil {
			continue
		}
		assignment := a
		s.TrainAssignments[vehicle] = &assignment
	}
	return s
}

func constraintFromWire(w wireConstraint) model.ConstraintVariant {
	switch w.Type {
	case "ArrDep":
		return model.ArrDepConstraint{Slots: w.Slots, Periods: w.TimePeriods}
	case "Unbunch":
		return model.UnbunchConstraint{Minutes: w.Minutes, Seconds: w.Seconds}
	case "AutoUnbunch":
		return model.AutoUnbunchConstraint{MarginMin: w.MarginMin, MarginSec: w.MarginSec}
	default:
		return model.NoConstraint{}
	}
}
