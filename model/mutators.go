package model

// This file implements the public mutators of spec §4.B. Every mutator that
// changes slot content must invalidate the sorted-slot cache, slot-hash-set
// cache, active-period cache, and the constraints-by-station index for the
// affected (line, stop); the Engine does this by emitting a cache.SlotsChanged
// event after a successful call (see cache/events.go), not by the model
// package reaching into the cache layer itself — keeping this package
// free of a cache dependency.

// SetConditionType replaces the station's constraint with a fresh, empty
// value of the given kind. Setting the same kind the station already has
// is a no-op (spec §8 property 6: idempotent on cache hashes) — the
// station's state and any existing slots are left untouched.
func (t *Timetable) SetConditionType(line, stop int, stationID int, kind ConstraintKind) error {
	s := t.LineOrCreate(line).StationOrCreate(stop, stationID)
	if s.Constraint != nil && s.Constraint.Kind() == kind {
		return nil
	}
	switch kind {
	case ConstraintNone:
		s.Constraint = NoConstraint{}
	case ConstraintArrDep:
		s.Constraint = ArrDepConstraint{}
	case ConstraintUnbunch:
		s.Constraint = UnbunchConstraint{}
	case ConstraintAutoUnbunch:
		s.Constraint = AutoUnbunchConstraint{}
	default:
		return NewError(InvalidArgument, "unknown constraint kind %v", kind)
	}
	return nil
}

// AddCondition appends a slot to an ArrDep station's legacy (non-perioded)
// slot list. It is an error to call this on a station whose constraint is
// not ArrDep, or whose ArrDep has already been promoted to time periods
// (use AddTimePeriod/UpdateTimePeriod there instead).
func (t *Timetable) AddCondition(line, stop int, slot Slot) error {
	s := t.Station(line, stop)
	if s == nil {
		return NewError(NotFound, "line %d stop %d not found", line, stop)
	}
	ad, ok := s.Constraint.(ArrDepConstraint)
	if !ok {
		return NewError(InvalidArgument, "station is not ArrDep")
	}
	if ad.UsesPeriods() {
		return NewError(InvalidArgument, "station uses time periods; use AddTimePeriod/UpdateTimePeriod")
	}
	ad.Slots = append(ad.Slots, slot)
	s.Constraint = ad
	return nil
}

// RemoveCondition removes the slot at index from an ArrDep station's
// legacy slot list.
func (t *Timetable) RemoveCondition(line, stop, index int) error {
	s := t.Station(line, stop)
	if s == nil {
		return NewError(NotFound, "line %d stop %d not found", line, stop)
	}
	ad, ok := s.Constraint.(ArrDepConstraint)
	if !ok {
		return NewError(InvalidArgument, "station is not ArrDep")
	}
	if index < 0 || index >= len(ad.Slots) {
		return NewError(InvalidArgument, "slot index %d out of bounds", index)
	}
	ad.Slots = append(ad.Slots[:index:index], ad.Slots[index+1:]...)
	s.Constraint = ad
	return nil
}

// RemoveAllConditions clears every slot (legacy or periods) from an ArrDep
// station. kind must match the station's current constraint kind, or an
// InvalidArgument error is returned; for a matching non-ArrDep kind it is a
// no-op.
func (t *Timetable) RemoveAllConditions(line, stop int, kind ConstraintKind) error {
	s := t.Station(line, stop)
	if s == nil {
		return NewError(NotFound, "line %d stop %d not found", line, stop)
	}
	if s.Constraint == nil || s.Constraint.Kind() != kind {
		return NewError(InvalidArgument, "station constraint kind mismatch")
	}
	if kind == ConstraintArrDep {
		s.Constraint = ArrDepConstraint{}
	}
	return nil
}

// UpdateArrDep overwrites one of the four fields (0=arrMin,1=arrSec,
// 2=depMin,3=depSec) of the legacy slot at slotIndex.
func (t *Timetable) UpdateArrDep(line, stop, slotIndex, fieldIndex, value int) error {
	s := t.Station(line, stop)
	if s == nil {
		return NewError(NotFound, "line %d stop %d not found", line, stop)
	}
	ad, ok := s.Constraint.(ArrDepConstraint)
	if !ok {
		return NewError(InvalidArgument, "station is not ArrDep")
	}
	if slotIndex < 0 || slotIndex >= len(ad.Slots) {
		return NewError(InvalidArgument, "slot index %d out of bounds", slotIndex)
	}
	if value < 0 || value >= 60 {
		return NewError(InvalidArgument, "field value %d out of range", value)
	}
	slot := &ad.Slots[slotIndex]
	switch fieldIndex {
	case 0:
		slot.ArrMin = value
	case 1:
		slot.ArrSec = value
	case 2:
		slot.DepMin = value
	case 3:
		slot.DepSec = value
	default:
		return NewError(InvalidArgument, "field index %d out of range", fieldIndex)
	}
	s.Constraint = ad
	return nil
}

// InsertArrDepCondition inserts slot at index in the legacy slot list,
// shifting later entries up.
func (t *Timetable) InsertArrDepCondition(line, stop, index int, slot Slot) error {
	s := t.Station(line, stop)
	if s == nil {
		return NewError(NotFound, "line %d stop %d not found", line, stop)
	}
	ad, ok := s.Constraint.(ArrDepConstraint)
	if !ok {
		return NewError(InvalidArgument, "station is not ArrDep")
	}
	if index < 0 || index > len(ad.Slots) {
		return NewError(InvalidArgument, "index %d out of bounds", index)
	}
	ad.Slots = append(ad.Slots, Slot{})
	copy(ad.Slots[index+1:], ad.Slots[index:])
	ad.Slots[index] = slot
	s.Constraint = ad
	return nil
}

// AddTimePeriod appends period to the station's ArrDep periods, promoting
// any pre-existing legacy slot list to a single [0,3600) period first
// (spec §4.B).
func (t *Timetable) AddTimePeriod(line, stop int, period TimePeriod) error {
	s := t.Station(line, stop)
	if s == nil {
		return NewError(NotFound, "line %d stop %d not found", line, stop)
	}
	ad, ok := s.Constraint.(ArrDepConstraint)
	if !ok {
		return NewError(InvalidArgument, "station is not ArrDep")
	}
	if !ad.UsesPeriods() && len(ad.Slots) > 0 {
		ad.Periods = append(ad.Periods, TimePeriod{Start: 0, End: 0, Slots: ad.Slots})
		ad.Slots = nil
	}
	ad.Periods = append(ad.Periods, period)
	s.Constraint = ad
	return nil
}

// UpdateTimePeriod replaces the period at index.
func (t *Timetable) UpdateTimePeriod(line, stop, index int, period TimePeriod) error {
	s := t.Station(line, stop)
	if s == nil {
		return NewError(NotFound, "line %d stop %d not found", line, stop)
	}
	ad, ok := s.Constraint.(ArrDepConstraint)
	if !ok {
		return NewError(InvalidArgument, "station is not ArrDep")
	}
	if index < 0 || index >= len(ad.Periods) {
		return NewError(InvalidArgument, "period index %d out of bounds", index)
	}
	ad.Periods[index] = period
	s.Constraint = ad
	return nil
}

// RemoveTimePeriod removes the period at index.
func (t *Timetable) RemoveTimePeriod(line, stop, index int) error {
	s := t.Station(line, stop)
	if s == nil {
		return NewError(NotFound, "line %d stop %d not found", line, stop)
	}
	ad, ok := s.Constraint.(ArrDepConstraint)
	if !ok {
		return NewError(InvalidArgument, "station is not ArrDep")
	}
	if index < 0 || index >= len(ad.Periods) {
		return NewError(InvalidArgument, "period index %d out of bounds", index)
	}
	ad.Periods = append(ad.Periods[:index:index], ad.Periods[index+1:]...)
	s.Constraint = ad
	return nil
}

// SetHasTimetable flips the line's master switch. Disabling clears every
// station's vehiclesWaiting on that line (spec §4.B).
func (t *Timetable) SetHasTimetable(line int, enabled bool) error {
	l := t.LineOrCreate(line)
	l.HasTimetable = enabled
	if !enabled {
		for _, s := range l.Stations {
			s.VehiclesWaiting = make(map[int]*WaitingEntry)
		}
	}
	return nil
}

// ConstraintSnapshot is a deep-copyable capture of one station's constraint
// plus its delay-tolerance pair, used by Copy/Paste-Constraints and
// Copy/Paste-LineTimetable.
type ConstraintSnapshot struct {
	Constraint               ConstraintVariant
	MaxDelayTolerance        int
	MaxDelayToleranceEnabled bool
}

// CopyConstraints deep-copies a station's constraint and delay-tolerance
// pair for later pasting.
func (t *Timetable) CopyConstraints(line, stop int) (*ConstraintSnapshot, error) {
	s := t.Station(line, stop)
	if s == nil {
		return nil, NewError(NotFound, "line %d stop %d not found", line, stop)
	}
	return &ConstraintSnapshot{
		Constraint:               deepCopyConstraint(s.Constraint),
		MaxDelayTolerance:        s.MaxDelayTolerance,
		MaxDelayToleranceEnabled: s.MaxDelayToleranceEnabled,
	}, nil
}

// PasteConstraints applies a previously copied snapshot to (line, stop),
// copying the delay-tolerance pair only when the snapshot's constraint is
// ArrDep (spec §4.B).
func (t *Timetable) PasteConstraints(line, stop int, stationID int, snap *ConstraintSnapshot) error {
	if snap == nil {
		return NewError(InvalidArgument, "nil snapshot")
	}
	s := t.LineOrCreate(line).StationOrCreate(stop, stationID)
	s.Constraint = deepCopyConstraint(snap.Constraint)
	if snap.Constraint != nil && snap.Constraint.Kind() == ConstraintArrDep {
		s.MaxDelayTolerance = snap.MaxDelayTolerance
		s.MaxDelayToleranceEnabled = snap.MaxDelayToleranceEnabled
	}
	return nil
}

// CopyLineTimetable deep-copies every station slot's constraint snapshot
// on a line, keyed by stop index.
func (t *Timetable) CopyLineTimetable(line int) (map[int]*ConstraintSnapshot, error) {
	l := t.Line(line)
	if l == nil {
		return nil, NewError(NotFound, "line %d not found", line)
	}
	out := make(map[int]*ConstraintSnapshot, len(l.Stations))
	for stop, s := range l.Stations {
		out[stop] = &ConstraintSnapshot{
			Constraint:               deepCopyConstraint(s.Constraint),
			MaxDelayTolerance:        s.MaxDelayTolerance,
			MaxDelayToleranceEnabled: s.MaxDelayToleranceEnabled,
		}
	}
	return out, nil
}

// PasteLineTimetable applies a previously copied per-stop snapshot set to
// line, creating station slots as needed.
func (t *Timetable) PasteLineTimetable(line int, snaps map[int]*ConstraintSnapshot) error {
	l := t.LineOrCreate(line)
	for stop, snap := range snaps {
		s, ok := l.Stations[stop]
		if !ok {
			s = NewStationSlot(0)
			l.Stations[stop] = s
		}
		s.Constraint = deepCopyConstraint(snap.Constraint)
		if snap.Constraint != nil && snap.Constraint.Kind() == ConstraintArrDep {
			s.MaxDelayTolerance = snap.MaxDelayTolerance
			s.MaxDelayToleranceEnabled = snap.MaxDelayToleranceEnabled
		}
	}
	return nil
}

// Prune removes lines not present in existingLines, drops station entries
// whose stop index exceeds that line's stop count (per stopCounts), and
// clears vehiclesWaiting entries for vehicles no longer reported as on the
// line (per vehiclesOnLine) — spec §4.B.
func (t *Timetable) Prune(existingLines map[int]bool, stopCounts map[int]int, vehiclesOnLine map[int]map[int]bool) {
	for lineID, l := range t.Lines {
		if !existingLines[lineID] {
			delete(t.Lines, lineID)
			continue
		}
		count := stopCounts[lineID]
		onLine := vehiclesOnLine[lineID]
		for stop, s := range l.Stations {
			if stop > count {
				delete(l.Stations, stop)
				continue
			}
			for vehicle := range s.VehiclesWaiting {
				if onLine != nil && !onLine[vehicle] {
					delete(s.VehiclesWaiting, vehicle)
				}
			}
		}
	}
}

// PruneInvalidAssignments drops train assignments whose slot is no longer
// present in the station's current active slot list.
func (t *Timetable) PruneInvalidAssignments(line, stop int, active []Slot) {
	s := t.Station(line, stop)
	if s == nil {
		return
	}
	present := make(map[Slot]bool, len(active))
	for _, sl := range active {
		present[sl] = true
	}
	for vehicle, a := range s.TrainAssignments {
		if !present[a.Slot] {
			delete(s.TrainAssignments, vehicle)
		}
	}
}

func deepCopyConstraint(c ConstraintVariant) ConstraintVariant {
	switch v := c.(type) {
	case nil:
		return NoConstraint{}
	case NoConstraint:
		return NoConstraint{}
	case ArrDepConstraint:
		out := ArrDepConstraint{}
		if v.Slots != nil {
			out.Slots = append([]Slot(nil), v.Slots...)
		}
		if v.Periods != nil {
			out.Periods = make([]TimePeriod, len(v.Periods))
			for i, p := range v.Periods {
				out.Periods[i] = TimePeriod{Start: p.Start, End: p.End, Slots: append([]Slot(nil), p.Slots...)}
			}
		}
		return out
	case UnbunchConstraint:
		return v
	case AutoUnbunchConstraint:
		return v
	default:
		return v
	}
}
