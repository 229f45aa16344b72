package timetable_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	timetable "github.com/hgfantasy/tpf2-timetable-core"
	"github.com/hgfantasy/tpf2-timetable-core/model"
	"github.com/hgfantasy/tpf2-timetable-core/validate"
)

type fakeSink struct {
	calls []string
}

func (f *fakeSink) StopAutoDeparture(id int) error    { f.calls = append(f.calls, "stop"); return nil }
func (f *fakeSink) RestartAutoDeparture(id int) error { f.calls = append(f.calls, "restart"); return nil }
func (f *fakeSink) ForceDepart(id int) error          { f.calls = append(f.calls, "force"); return nil }

func (f *fakeSink) last() string {
	if len(f.calls) == 0 {
		return ""
	}
	return f.calls[len(f.calls)-1]
}

func TestUpdateForVehicleUnknownLineReleases(t *testing.T) {
	e := timetable.New(nil)
	sink := &fakeSink{}

	e.UpdateForVehicle(sink, 1, 99, []int{1}, timetable.VehicleState{DoorsOpen: true}, 100)

	assert.Equal(t, "restart", sink.last())
}

func TestUpdateForVehicleWithoutTimetableIsNoop(t *testing.T) {
	e := timetable.New(nil)
	require.NoError(t, e.SetHasTimetable(1, false))
	sink := &fakeSink{}

	e.UpdateForVehicle(sink, 1, 1, []int{1}, timetable.VehicleState{DoorsOpen: true}, 100)

	assert.Empty(t, sink.calls)
}

func TestUpdateForVehicleArrDepHoldsThenReleases(t *testing.T) {
	e := timetable.New(nil)
	require.NoError(t, e.SetHasTimetable(1, true))
	require.NoError(t, e.SetConditionType(1, 1, 500, model.ConstraintArrDep))
	require.NoError(t, e.AddCondition(1, 1, model.Slot{ArrMin: 0, ArrSec: 0, DepMin: 2, DepSec: 0}))

	sink := &fakeSink{}
	vs := timetable.VehicleState{
		StopIndex:            0,
		DoorsOpen:            true,
		AutoDepartureEnabled: true,
		SectionTimes:         []int{100, 100},
	}

	// doors just opened at t=0: the vehicle should be held (not yet at
	// its computed departure time).
	e.UpdateForVehicle(sink, 7, 1, []int{7}, vs, 0)
	assert.Empty(t, sink.calls)

	// well past the 2:00 departure: it should now release.
	e.UpdateForVehicle(sink, 7, 1, []int{7}, vs, 200)
	assert.Equal(t, "restart", sink.last())
}

func TestUpdateForVehicleDoorsClosedStopsAutoDeparture(t *testing.T) {
	e := timetable.New(nil)
	require.NoError(t, e.SetHasTimetable(1, true))
	require.NoError(t, e.SetConditionType(1, 1, 500, model.ConstraintArrDep))
	require.NoError(t, e.AddCondition(1, 1, model.Slot{DepMin: 1}))

	sink := &fakeSink{}
	vs := timetable.VehicleState{AutoDepartureEnabled: true, DoorsOpen: false}

	e.UpdateForVehicle(sink, 7, 1, []int{7}, vs, 0)

	assert.Equal(t, "stop", sink.last())
}

func TestUpdateForVehicleForceDepartureForces(t *testing.T) {
	e := timetable.New(nil)
	require.NoError(t, e.SetHasTimetable(1, true))
	require.NoError(t, e.SetForceDepartureEnabled(1, true))

	sink := &fakeSink{}
	vs := timetable.VehicleState{DoorsOpen: true}

	e.UpdateForVehicle(sink, 7, 1, []int{7}, vs, 0)

	assert.Equal(t, "force", sink.last())
}

func TestSetMaxDelayToleranceRejectsNegative(t *testing.T) {
	e := timetable.New(nil)
	require.NoError(t, e.SetConditionType(1, 1, 500, model.ConstraintArrDep))

	err := e.SetMaxDelayTolerance(1, 1, -5)

	require.Error(t, err)
	var terr *timetable.Error
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, timetable.InvalidArgument, terr.Kind)
}

func TestSetMaxDelayToleranceUnknownStationNotFound(t *testing.T) {
	e := timetable.New(nil)

	err := e.SetMaxDelayTolerance(1, 1, 30)

	require.Error(t, err)
	assert.ErrorIs(t, err, timetable.ErrNotFound)
}

func TestAssignAndRemoveTrainAssignment(t *testing.T) {
	e := timetable.New(nil)
	require.NoError(t, e.SetConditionType(1, 1, 500, model.ConstraintArrDep))

	slot := model.Slot{ArrMin: 10, DepMin: 12}
	res, err := e.AssignTrainToSlot(1, 1, 7, 0, slot)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Evicted)

	info, ok := e.GetAssignmentInfo(1, 1, 7)
	require.True(t, ok)
	assert.Equal(t, slot, info.Slot)

	// a second vehicle claiming the same slot index evicts the first.
	res, err = e.AssignTrainToSlot(1, 1, 8, 0, slot)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Evicted)

	e.RemoveTrainAssignment(1, 1, 8)
	_, ok = e.GetAssignmentInfo(1, 1, 8)
	assert.False(t, ok)
}

func TestGetActiveSlotsSortsByArrival(t *testing.T) {
	e := timetable.New(nil)
	require.NoError(t, e.SetConditionType(1, 1, 500, model.ConstraintArrDep))
	require.NoError(t, e.AddCondition(1, 1, model.Slot{ArrMin: 40, DepMin: 41}))
	require.NoError(t, e.AddCondition(1, 1, model.Slot{ArrMin: 10, DepMin: 11}))

	slots := e.GetActiveSlots(1, 1, 0)

	require.Len(t, slots, 2)
	assert.Equal(t, 10, slots[0].ArrMin)
	assert.Equal(t, 40, slots[1].ArrMin)
}

func TestValidateLineFlagsZeroDwell(t *testing.T) {
	e := timetable.New(nil)
	require.NoError(t, e.SetConditionType(1, 1, 500, model.ConstraintArrDep))
	require.NoError(t, e.AddCondition(1, 1, model.Slot{ArrMin: 5, ArrSec: 0, DepMin: 5, DepSec: 0}))

	report := e.ValidateLine(1, nil)

	require.NotEmpty(t, report.Warnings)
	assert.Equal(t, validate.DepartureBeforeArrival, report.Warnings[0].Kind)
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	e := timetable.New(nil)
	require.NoError(t, e.SetConditionType(1, 1, 500, model.ConstraintArrDep))
	require.NoError(t, e.AddCondition(1, 1, model.Slot{ArrMin: 5, DepMin: 7}))

	version, blob, err := e.Snapshot()
	require.NoError(t, err)

	e2 := timetable.New(nil)
	require.NoError(t, e2.Restore(version, blob))

	slots := e2.GetActiveSlots(1, 1, 0)
	require.Len(t, slots, 1)
	assert.Equal(t, 5, slots[0].ArrMin)
}

func TestCleanTimetablePrunesRemovedLines(t *testing.T) {
	e := timetable.New(nil)
	require.NoError(t, e.SetConditionType(1, 1, 500, model.ConstraintArrDep))

	facade := &fakeFacade{}
	e.CleanTimetable(facade, 0)

	assert.Nil(t, e.Timetable().Line(1))
}

type fakeFacade struct{}

func (f *fakeFacade) Now() int                                  { return 0 }
func (f *fakeFacade) ListLines() []int                          { return nil }
func (f *fakeFacade) ListVehiclesOnLine(lineID int) []int       { return nil }
func (f *fakeFacade) VehicleState(id int) (timetable.VehicleState, bool) {
	return timetable.VehicleState{}, false
}
func (f *fakeFacade) LineInfo(lineID int) (timetable.LineInfo, bool) {
	return timetable.LineInfo{}, false
}
func (f *fakeFacade) StationName(id int) string { return "" }
