package fixture_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hgfantasy/tpf2-timetable-core/fixture"
)

func testLine() *fixture.Line {
	return &fixture.Line{
		ID:        1,
		Name:      "A1",
		Frequency: 600,
		Stops: []*fixture.Stop{
			{ID: 10, Name: "Central", StationGroupID: 100},
			{ID: 11, Name: "Park", StationGroupID: 101},
			{ID: 12, Name: "Depot", StationGroupID: 102},
		},
	}
}

func TestBuildFleetDistributesAcrossStartingStops(t *testing.T) {
	line := testLine()
	types := map[int]*fixture.VehicleType{1: {ID: 1, Name: "standard", Capacity: 80}}
	rng := rand.New(rand.NewSource(1))

	vehicles := fixture.BuildFleet(types, []fixture.FleetQuantity{{TypeID: 1, Quantity: 4}}, line, rng)

	require.Len(t, vehicles, 4)
	assert.Len(t, line.Vehicles, 4)
	for _, v := range vehicles {
		assert.Len(t, v.SectionTimes, 2)
		assert.Contains(t, []int{1, 3}, v.StopIndex)
	}
}

func TestBuildFleetSkipsUnknownType(t *testing.T) {
	line := testLine()
	vehicles := fixture.BuildFleet(nil, []fixture.FleetQuantity{{TypeID: 9, Quantity: 2}}, line, rand.New(rand.NewSource(1)))
	assert.Empty(t, vehicles)
}

func TestVehicleDepartAdvancesAndWraps(t *testing.T) {
	line := testLine()
	v := &fixture.Vehicle{ID: 1, StopIndex: 3, LineStopDepartures: make([]int, 3)}

	v.OpenDoors(50)
	assert.True(t, v.DoorsOpen)

	v.Depart(line, 100)
	assert.False(t, v.DoorsOpen)
	assert.True(t, v.AutoDepartureEnabled)
	assert.Equal(t, 100, v.LineStopDepartures[2])
	assert.Equal(t, 1, v.StopIndex) // wraps past the last stop
}

func TestWorldRoundTripsFacadeAndCommands(t *testing.T) {
	line := testLine()
	types := map[int]*fixture.VehicleType{1: {ID: 1, Name: "standard", Capacity: 80}}
	fixture.BuildFleet(types, []fixture.FleetQuantity{{TypeID: 1, Quantity: 1}}, line, rand.New(rand.NewSource(1)))

	w := fixture.NewWorld()
	w.AddLine(line)

	assert.Equal(t, []int{1}, w.ListLines())
	ids := w.ListVehiclesOnLine(1)
	require.Len(t, ids, 1)

	vs, ok := w.VehicleState(ids[0])
	require.True(t, ok)
	assert.Equal(t, 1, vs.Line)
	assert.Equal(t, 80, vs.Capacity)

	info, ok := w.LineInfo(1)
	require.True(t, ok)
	assert.Len(t, info.Stops, 3)
	assert.Equal(t, "Central", w.StationName(100))

	require.NoError(t, w.StopAutoDeparture(ids[0]))
	v, _ := w.VehicleState(ids[0])
	assert.False(t, v.AutoDepartureEnabled)

	require.NoError(t, w.RestartAutoDeparture(ids[0]))
	v, _ = w.VehicleState(ids[0])
	assert.True(t, v.AutoDepartureEnabled)

	err := w.ForceDepart(999)
	assert.Error(t, err)
}
