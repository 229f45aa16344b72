package timetable

import (
	"github.com/hgfantasy/tpf2-timetable-core/binding"
	"github.com/hgfantasy/tpf2-timetable-core/cache"
	"github.com/hgfantasy/tpf2-timetable-core/model"
)

// slotsChanged publishes the invalidation event the cache layer listens
// for, after a mutator that touched a station's slot content succeeds
// (spec §4.J), and rebuilds the constraints-by-station index. Kept here
// rather than inside the model package so model stays free of a cache
// dependency (spec §9 design note).
func (e *Engine) slotsChanged(line, stop int) {
	e.caches.Bus.Publish(cache.SlotsChanged{Line: line, Stop: stop})
	e.caches.StationIndex.Rebuild(e.timetable)
}

// SetHasTimetable flips a line's master switch.
func (e *Engine) SetHasTimetable(line int, enabled bool) error {
	return e.timetable.SetHasTimetable(line, enabled)
}

// SetForceDepartureEnabled sets the line-level force-departure flag (spec
// §4.D: when set, a vehicle the Departure State Machine releases is
// force-departed instead of having its auto-departure restarted).
func (e *Engine) SetForceDepartureEnabled(line int, enabled bool) error {
	e.timetable.LineOrCreate(line).ForceDeparture = enabled
	return nil
}

// SetMinWaitEnabled / SetMaxWaitEnabled set the line-level dwell-time bound
// flags, which are stored and persisted with the line. The departure path's
// clock.DepartureTimeBounds clamp reads the station's own MinWaitEnabled /
// MaxWaitEnabled, not these line-level flags.
func (e *Engine) SetMinWaitEnabled(line int, enabled bool) error {
	e.timetable.LineOrCreate(line).MinWaitEnabled = enabled
	return nil
}

func (e *Engine) SetMaxWaitEnabled(line int, enabled bool) error {
	e.timetable.LineOrCreate(line).MaxWaitEnabled = enabled
	return nil
}

// SetFrequency sets the line's dispatch frequency, used by AutoUnbunch.
func (e *Engine) SetFrequency(line, seconds int) error {
	if seconds < 0 {
		return model.NewError(model.InvalidArgument, "frequency must be non-negative")
	}
	e.timetable.LineOrCreate(line).Frequency = seconds
	return nil
}

func (e *Engine) SetFrequencyEnabled(line int, enabled bool) error {
	e.timetable.LineOrCreate(line).FrequencyEnabled = enabled
	return nil
}

// SetMaxDelayTolerance sets a station's tolerance window, in seconds, past
// which a held vehicle's stale slot is invalidated and reselected (spec
// §4.D.i).
func (e *Engine) SetMaxDelayTolerance(line, stop, seconds int) error {
	s := e.timetable.Station(line, stop)
	if s == nil {
		return model.NewError(model.NotFound, "line %d stop %d not found", line, stop)
	}
	if seconds < 0 {
		return model.NewError(model.InvalidArgument, "tolerance must be non-negative")
	}
	s.MaxDelayTolerance = seconds
	return nil
}

func (e *Engine) SetMaxDelayToleranceEnabled(line, stop int, enabled bool) error {
	s := e.timetable.Station(line, stop)
	if s == nil {
		return model.NewError(model.NotFound, "line %d stop %d not found", line, stop)
	}
	s.MaxDelayToleranceEnabled = enabled
	return nil
}

// SetDelayRecoveryMode sets the line-level default recovery strategy.
func (e *Engine) SetDelayRecoveryMode(line int, mode model.DelayRecoveryMode) error {
	e.timetable.LineOrCreate(line).DelayRecoveryMode = mode
	return nil
}

// SetStationDelayRecoveryMode overrides the recovery strategy at one
// station; pass nil to defer back to the line-level default.
func (e *Engine) SetStationDelayRecoveryMode(line, stop int, mode *model.DelayRecoveryMode) error {
	s := e.timetable.Station(line, stop)
	if s == nil {
		return model.NewError(model.NotFound, "line %d stop %d not found", line, stop)
	}
	s.DelayRecoveryMode = mode
	return nil
}

// SetRecoveryRate sets the line-level GradualRecovery rate, in (0,1].
func (e *Engine) SetRecoveryRate(line int, rate float64) error {
	if rate <= 0 || rate > 1 {
		return model.NewError(model.InvalidArgument, "recovery rate must be in (0,1]")
	}
	e.timetable.LineOrCreate(line).RecoveryRate = rate
	return nil
}

// SetStationRecoveryRate overrides the GradualRecovery rate at one
// station; pass nil to defer back to the line-level default.
func (e *Engine) SetStationRecoveryRate(line, stop int, rate *float64) error {
	if rate != nil && (*rate <= 0 || *rate > 1) {
		return model.NewError(model.InvalidArgument, "recovery rate must be in (0,1]")
	}
	s := e.timetable.Station(line, stop)
	if s == nil {
		return model.NewError(model.NotFound, "line %d stop %d not found", line, stop)
	}
	s.RecoveryRate = rate
	return nil
}

// SetConditionType, AddCondition, RemoveCondition, RemoveAllConditions,
// UpdateArrDep, InsertArrDepCondition, AddTimePeriod, UpdateTimePeriod,
// and RemoveTimePeriod pass through to the model's mutators (spec §4.B),
// additionally publishing the cache-invalidation event those mutators
// require.

func (e *Engine) SetConditionType(line, stop, stationID int, kind model.ConstraintKind) error {
	if err := e.timetable.SetConditionType(line, stop, stationID, kind); err != nil {
		return err
	}
	e.slotsChanged(line, stop)
	return nil
}

func (e *Engine) AddCondition(line, stop int, slot model.Slot) error {
	if err := e.timetable.AddCondition(line, stop, slot); err != nil {
		return err
	}
	e.slotsChanged(line, stop)
	return nil
}

func (e *Engine) RemoveCondition(line, stop, index int) error {
	if err := e.timetable.RemoveCondition(line, stop, index); err != nil {
		return err
	}
	e.slotsChanged(line, stop)
	return nil
}

func (e *Engine) RemoveAllConditions(line, stop int, kind model.ConstraintKind) error {
	if err := e.timetable.RemoveAllConditions(line, stop, kind); err != nil {
		return err
	}
	e.slotsChanged(line, stop)
	return nil
}

func (e *Engine) UpdateArrDep(line, stop, slotIndex, fieldIndex, value int) error {
	if err := e.timetable.UpdateArrDep(line, stop, slotIndex, fieldIndex, value); err != nil {
		return err
	}
	e.slotsChanged(line, stop)
	return nil
}

func (e *Engine) InsertArrDepCondition(line, stop, index int, slot model.Slot) error {
	if err := e.timetable.InsertArrDepCondition(line, stop, index, slot); err != nil {
		return err
	}
	e.slotsChanged(line, stop)
	return nil
}

func (e *Engine) AddTimePeriod(line, stop int, period model.TimePeriod) error {
	if err := e.timetable.AddTimePeriod(line, stop, period); err != nil {
		return err
	}
	e.slotsChanged(line, stop)
	return nil
}

func (e *Engine) UpdateTimePeriod(line, stop, index int, period model.TimePeriod) error {
	if err := e.timetable.UpdateTimePeriod(line, stop, index, period); err != nil {
		return err
	}
	e.slotsChanged(line, stop)
	return nil
}

func (e *Engine) RemoveTimePeriod(line, stop, index int) error {
	if err := e.timetable.RemoveTimePeriod(line, stop, index); err != nil {
		return err
	}
	e.slotsChanged(line, stop)
	return nil
}

func (e *Engine) CopyConstraints(line, stop int) (*model.ConstraintSnapshot, error) {
	return e.timetable.CopyConstraints(line, stop)
}

func (e *Engine) PasteConstraints(line, stop, stationID int, snap *model.ConstraintSnapshot) error {
	if err := e.timetable.PasteConstraints(line, stop, stationID, snap); err != nil {
		return err
	}
	e.slotsChanged(line, stop)
	return nil
}

func (e *Engine) CopyLineTimetable(line int) (map[int]*model.ConstraintSnapshot, error) {
	return e.timetable.CopyLineTimetable(line)
}

func (e *Engine) PasteLineTimetable(line int, snaps map[int]*model.ConstraintSnapshot) error {
	if err := e.timetable.PasteLineTimetable(line, snaps); err != nil {
		return err
	}
	for stop := range snaps {
		e.slotsChanged(line, stop)
	}
	return nil
}

// AssignTrainToSlot and RemoveTrainAssignment pass through to package
// binding (spec §4.F).
func (e *Engine) AssignTrainToSlot(line, stop, vehicle, slotIndex int, slot model.Slot) (binding.AssignResult, error) {
	s := e.timetable.Station(line, stop)
	if s == nil {
		return binding.AssignResult{}, model.NewError(model.NotFound, "line %d stop %d not found", line, stop)
	}
	r, err := binding.AssignTrainToSlot(s, vehicle, slotIndex, slot)
	if err != nil {
		return r, err
	}
	if r.Evicted > 0 {
		e.log.Info().Int("line", line).Int("stop", stop).Int("vehicle", vehicle).Int("evicted", r.Evicted).
			Msg("train-slot binding evicted a prior holder")
	}
	return r, nil
}

func (e *Engine) RemoveTrainAssignment(line, stop, vehicle int) {
	binding.RemoveTrainAssignment(e.timetable.Station(line, stop), vehicle)
}

// SetSkipPatterns replaces a station's skip-stop configuration wholesale
// (spec §4.G); the four sub-patterns are independently nilable so callers
// can enable exactly the ones they need.
func (e *Engine) SetSkipPatterns(line, stop int, patterns model.SkipPatterns) error {
	s := e.timetable.Station(line, stop)
	if s == nil {
		return model.NewError(model.NotFound, "line %d stop %d not found", line, stop)
	}
	s.SkipPatterns = patterns
	return nil
}
