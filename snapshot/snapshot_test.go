package snapshot_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hgfantasy/tpf2-timetable-core/model"
	"github.com/hgfantasy/tpf2-timetable-core/snapshot"
)

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	tt := model.NewTimetable()
	require.NoError(t, tt.SetConditionType(1, 1, 100, model.ConstraintArrDep))
	require.NoError(t, tt.AddCondition(1, 1, model.Slot{ArrMin: 5, DepMin: 5, DepSec: 30}))
	tt.Station(1, 1).MaxDelayToleranceEnabled = true
	tt.Station(1, 1).MaxDelayTolerance = 20
	tt.Station(1, 1).VehiclesWaiting[7] = &model.WaitingEntry{VehicleID: 7, ArrivalTime: 10, DepartureTime: 40}

	version, blob, err := snapshot.Snapshot(tt)
	require.NoError(t, err)
	assert.Equal(t, snapshot.CurrentVersion, version)

	restored, err := snapshot.Restore(version, blob)
	require.NoError(t, err)

	ad := restored.Station(1, 1).Constraint.(model.ArrDepConstraint)
	assert.Equal(t, []model.Slot{{ArrMin: 5, DepMin: 5, DepSec: 30}}, ad.Slots)
	assert.Equal(t, 20, restored.Station(1, 1).MaxDelayTolerance)
	assert.Equal(t, 7, restored.Station(1, 1).VehiclesWaiting[7].VehicleID)
}

func TestSnapshotRestoreStructurallyEqual(t *testing.T) {
	tt := model.NewTimetable()
	require.NoError(t, tt.SetConditionType(2, 3, 300, model.ConstraintUnbunch))

	_, blob, err := snapshot.Snapshot(tt)
	require.NoError(t, err)
	restored, err := snapshot.Restore(snapshot.CurrentVersion, blob)
	require.NoError(t, err)

	diff := cmp.Diff(tt.Station(2, 3).Constraint, restored.Station(2, 3).Constraint)
	assert.Empty(t, diff)
}

func TestRestoreUnknownVersionFails(t *testing.T) {
	_, err := snapshot.Restore("v99", []byte(`{}`))
	require.Error(t, err)
}
