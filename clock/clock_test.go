package clock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hgfantasy/tpf2-timetable-core/clock"
)

func TestCircularDiff(t *testing.T) {
	cases := []struct {
		a, b, want int
	}{
		{0, 0, 0},
		{0, 1800, 1800},
		{10, 3590, 20},
		{3599, 0, 1},
		{100, 200, 100},
	}
	for _, c := range cases {
		got := clock.CircularDiff(c.a, c.b)
		assert.Equalf(t, c.want, got, "CircularDiff(%d,%d)", c.a, c.b)
		require.GreaterOrEqual(t, got, 0)
		require.LessOrEqual(t, got, clock.SlotPeriod/2)
	}
}

func TestWaitTimeScenario1(t *testing.T) {
	// Scenario 1 from spec: slot (10,0)-(10,30), arrival at slot-time 10:10 (610s).
	arr := 10 * 60
	dep := 10*60 + 30
	got := clock.WaitTime(arr, dep, 610)
	assert.Equal(t, 20, got)
}

func TestWaitTimeScenario2WrapAround(t *testing.T) {
	// Slot {59,30 -> 0,30}; arrival at 59:55 (3595s).
	arr := 59*60 + 30
	dep := 30
	got := clock.WaitTime(arr, dep, 3595)
	assert.Equal(t, 35, got)
}

func TestWaitTimeNonNegativeAndBounded(t *testing.T) {
	for arr := 0; arr < clock.SlotPeriod; arr += 137 {
		for dep := 0; dep < clock.SlotPeriod; dep += 211 {
			for tt := 0; tt < clock.SlotPeriod; tt += 311 {
				w := clock.WaitTime(arr, dep, tt)
				require.GreaterOrEqual(t, w, 0)
				require.Less(t, w, clock.SlotPeriod)
			}
		}
	}
}

func TestWaitTimePastSlotIsZero(t *testing.T) {
	arr, dep := 10*60, 10*60+30
	got := clock.WaitTime(arr, dep, dep+5)
	assert.Equal(t, 0, got)
}

func TestDepartureTimeBounds(t *testing.T) {
	assert.Equal(t, 0, clock.DepartureTimeBounds(-5, 0, false, 0, false))
	assert.Equal(t, 30, clock.DepartureTimeBounds(10, 30, true, 0, false))
	assert.Equal(t, 60, clock.DepartureTimeBounds(120, 0, false, 60, true))
}

func TestAfterDepartureSlotWraparound(t *testing.T) {
	// arr=59:30 (3570), dep=0:30 (30): wraparound slot.
	arr, dep := 3570, 30
	assert.False(t, clock.AfterDepartureSlot(arr, dep, 3595)) // within slot, not past
	assert.True(t, clock.AfterDepartureSlot(arr, dep, 40))    // just past departure, before arr next cycle
	assert.True(t, clock.AfterDepartureSlot(arr, dep, 3000)) // mid-hour, already past this cycle's departure
}
