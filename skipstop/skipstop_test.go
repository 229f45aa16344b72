package skipstop_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hgfantasy/tpf2-timetable-core/model"
	"github.com/hgfantasy/tpf2-timetable-core/skipstop"
)

func TestIsSkippedNoPatternsEnabled(t *testing.T) {
	assert.False(t, skipstop.IsSkipped(skipstop.Input{Stop: 3}))
}

func TestIsSkippedBySlot(t *testing.T) {
	slot := model.Slot{ArrMin: 10}
	patterns := model.SkipPatterns{
		SlotBased: &model.SlotBasedSkipPattern{
			Enabled: true,
			Skips:   map[model.Slot][]int{slot: {2, 4}},
		},
	}
	assert.True(t, skipstop.IsSkipped(skipstop.Input{Patterns: patterns, Stop: 4, BoundSlot: &slot}))
	assert.False(t, skipstop.IsSkipped(skipstop.Input{Patterns: patterns, Stop: 5, BoundSlot: &slot}))
	assert.False(t, skipstop.IsSkipped(skipstop.Input{Patterns: patterns, Stop: 4, BoundSlot: nil}), "no bound slot, no skip")
}

func TestIsSkippedByVehicle(t *testing.T) {
	patterns := model.SkipPatterns{
		VehicleBased: &model.VehicleBasedSkipPattern{Enabled: true, Vehicles: map[int]struct{}{9: {}}},
	}
	assert.True(t, skipstop.IsSkipped(skipstop.Input{Patterns: patterns, VehicleID: 9}))
	assert.False(t, skipstop.IsSkipped(skipstop.Input{Patterns: patterns, VehicleID: 1}))
}

func TestIsSkippedByAlternating(t *testing.T) {
	ab := model.SkipPatterns{
		Alternating: &model.AlternatingSkipPattern{Enabled: true, Mode: model.AlternatingAB},
	}
	assert.False(t, skipstop.IsSkipped(skipstop.Input{Patterns: ab, VehicleIndex: 1}), "odd index under AB mode is not skipped")
	assert.True(t, skipstop.IsSkipped(skipstop.Input{Patterns: ab, VehicleIndex: 2}))

	ba := model.SkipPatterns{
		Alternating: &model.AlternatingSkipPattern{Enabled: true, Mode: model.AlternatingBA},
	}
	assert.True(t, skipstop.IsSkipped(skipstop.Input{Patterns: ba, VehicleIndex: 1}))
	assert.False(t, skipstop.IsSkipped(skipstop.Input{Patterns: ba, VehicleIndex: 2}))
}

func TestIsSkippedByZoneOnlyWhenZoneEnabled(t *testing.T) {
	patterns := model.SkipPatterns{
		ZoneExpress: &model.ZoneExpressSkipPattern{
			Enabled: true,
			Zones: []model.Zone{
				{Name: "core", Enabled: false, SkipStops: []int{7}},
				{Name: "outer", Enabled: true, SkipStops: []int{8}},
			},
		},
	}
	assert.False(t, skipstop.IsSkipped(skipstop.Input{Patterns: patterns, Stop: 7}), "disabled zone must not skip")
	assert.True(t, skipstop.IsSkipped(skipstop.Input{Patterns: patterns, Stop: 8}))
}
