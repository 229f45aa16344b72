package slotassign_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hgfantasy/tpf2-timetable-core/cache"
	"github.com/hgfantasy/tpf2-timetable-core/model"
	"github.com/hgfantasy/tpf2-timetable-core/slotassign"
)

func slots() []model.Slot {
	return []model.Slot{
		{ArrMin: 0, DepMin: 0, DepSec: 10},
		{ArrMin: 20, DepMin: 20, DepSec: 10},
		{ArrMin: 40, DepMin: 40, DepSec: 10},
	}
}

func TestAssignEmptySlotsReturnsZeroResult(t *testing.T) {
	r := slotassign.Assign(slotassign.Params{})
	assert.Equal(t, model.Slot{}, r.Slot)
}

func TestAssignSingleSlotAlwaysWinsAndClearsWaiting(t *testing.T) {
	waiting := map[int]*model.WaitingEntry{5: {VehicleID: 5}}
	r := slotassign.Assign(slotassign.Params{
		Slots:   []model.Slot{{ArrMin: 10}},
		Waiting: waiting,
	})
	assert.Equal(t, model.Slot{ArrMin: 10}, r.Slot)
	assert.Empty(t, waiting, "sole-slot stations never need a waiting list")
}

func TestAssignPicksNearestSlotByCircularDistance(t *testing.T) {
	r := slotassign.Assign(slotassign.Params{
		Slots:       slots(),
		ArrivalTime: 19 * 60,
		Waiting:     map[int]*model.WaitingEntry{},
	})
	assert.Equal(t, 20, r.Slot.ArrMin)
}

func TestAssignSkipsSlotHeldByPreDepartureWaiter(t *testing.T) {
	held := model.Slot{ArrMin: 20, DepMin: 20, DepSec: 10}
	waiting := map[int]*model.WaitingEntry{
		9: {VehicleID: 9, Slot: &held, DepartureTime: 10000},
	}
	r := slotassign.Assign(slotassign.Params{
		Slots:       slots(),
		ArrivalTime: 19 * 60,
		VehicleID:   1,
		Waiting:     waiting,
	})
	assert.NotEqual(t, 20, r.Slot.ArrMin, "slot held by a pre-departure waiter must be skipped")
}

func TestAssignUsesValidBinding(t *testing.T) {
	bound := model.Slot{ArrMin: 40, DepMin: 40, DepSec: 10}
	r := slotassign.Assign(slotassign.Params{
		Slots:       slots(),
		ArrivalTime: 0,
		Waiting:     map[int]*model.WaitingEntry{},
		Binding:     &model.TrainAssignment{Slot: bound},
	})
	assert.Equal(t, bound, r.Slot)
	assert.True(t, r.UsedBinding)
}

func TestAssignUsesValidBindingViaHashSetCache(t *testing.T) {
	bound := model.Slot{ArrMin: 40, DepMin: 40, DepSec: 10}
	caches := cache.New()
	r := slotassign.Assign(slotassign.Params{
		Slots:       slots(),
		ArrivalTime: 0,
		Waiting:     map[int]*model.WaitingEntry{},
		Binding:     &model.TrainAssignment{Slot: bound},
		LineID:      1,
		Stop:        1,
		Caches:      caches,
	})
	assert.Equal(t, bound, r.Slot)
	assert.True(t, r.UsedBinding)

	r2 := slotassign.Assign(slotassign.Params{
		Slots:       slots(),
		ArrivalTime: 0,
		Waiting:     map[int]*model.WaitingEntry{},
		Binding:     &model.TrainAssignment{Slot: model.Slot{ArrMin: 59}},
		LineID:      1,
		Stop:        1,
		Caches:      caches,
	})
	assert.True(t, r2.BindingInvalid, "a slot absent from the cached membership set must still be rejected")
}

func TestAssignBindingToRemovedSlotFallsBackToNearest(t *testing.T) {
	r := slotassign.Assign(slotassign.Params{
		Slots:       slots(),
		ArrivalTime: 0,
		Waiting:     map[int]*model.WaitingEntry{},
		Binding:     &model.TrainAssignment{Slot: model.Slot{ArrMin: 59}},
	})
	assert.True(t, r.BindingInvalid)
	assert.False(t, r.UsedBinding)
}

func TestAssignBindingContestedReturnsBlockedBy(t *testing.T) {
	bound := model.Slot{ArrMin: 40, DepMin: 40, DepSec: 10}
	waiting := map[int]*model.WaitingEntry{
		3: {VehicleID: 3, Slot: &bound, ArrivalTime: 0, DepartureTime: 10000},
	}
	r := slotassign.Assign(slotassign.Params{
		Slots:       slots(),
		ArrivalTime: 0,
		VehicleID:   1,
		Waiting:     waiting,
		Binding:     &model.TrainAssignment{Slot: bound},
	})
	assert.Equal(t, 3, r.BindingBlockedBy)
	assert.Equal(t, model.Slot{}, r.Slot)
}

func TestAssignPrunesWaitingEntriesPastDeparture(t *testing.T) {
	stale := model.Slot{ArrMin: 0, DepMin: 0, DepSec: 10}
	waiting := map[int]*model.WaitingEntry{
		7: {VehicleID: 7, Slot: &stale, DepartureTime: 5},
	}
	slotassign.Assign(slotassign.Params{
		Slots:       slots(),
		ArrivalTime: 0,
		Now:         100,
		Waiting:     waiting,
	})
	assert.Empty(t, waiting, "entry whose departure time (5) is before now (100) must be pruned")
}
