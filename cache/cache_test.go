package cache_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hgfantasy/tpf2-timetable-core/cache"
	"github.com/hgfantasy/tpf2-timetable-core/model"
)

func TestSortedSlotCacheComputesOnceThenReuses(t *testing.T) {
	c := cache.NewSortedSlotCache()
	calls := 0
	compute := func() []model.Slot {
		calls++
		return []model.Slot{{ArrMin: 1}}
	}
	c.Get(1, 1, compute)
	c.Get(1, 1, compute)
	assert.Equal(t, 1, calls)

	c.Invalidate(1, 1)
	c.Get(1, 1, compute)
	assert.Equal(t, 2, calls)
}

func TestSortedSlotCacheInvalidateLine(t *testing.T) {
	c := cache.NewSortedSlotCache()
	c.Get(1, 1, func() []model.Slot { return []model.Slot{{ArrMin: 1}} })
	c.Get(1, 2, func() []model.Slot { return []model.Slot{{ArrMin: 2}} })
	c.InvalidateLine(1)

	calls := 0
	c.Get(1, 1, func() []model.Slot { calls++; return nil })
	c.Get(1, 2, func() []model.Slot { calls++; return nil })
	assert.Equal(t, 2, calls, "both stops on line 1 must recompute")
}

func TestContentHashIsOrderIndependent(t *testing.T) {
	a := []model.Slot{{ArrMin: 1}, {ArrMin: 2}}
	b := []model.Slot{{ArrMin: 2}, {ArrMin: 1}}
	assert.Equal(t, cache.ContentHash(a), cache.ContentHash(b))
}

func TestContentHashDiffersOnDifferentContent(t *testing.T) {
	a := []model.Slot{{ArrMin: 1}}
	b := []model.Slot{{ArrMin: 2}}
	assert.NotEqual(t, cache.ContentHash(a), cache.ContentHash(b))
}

func TestHashSetCacheRebuildsOnlyWhenContentChanges(t *testing.T) {
	c := cache.NewHashSetCache()
	slots := []model.Slot{{ArrMin: 1}}
	set1 := c.MembershipSet(1, 1, slots)
	set2 := c.MembershipSet(1, 1, slots)
	assert.True(t, set1[model.Slot{ArrMin: 1}])
	assert.True(t, set2[model.Slot{ArrMin: 1}])

	set3 := c.MembershipSet(1, 1, []model.Slot{{ArrMin: 2}})
	assert.False(t, set3[model.Slot{ArrMin: 1}])
	assert.True(t, set3[model.Slot{ArrMin: 2}])
}

func TestActivePeriodCacheReusesWithinWindow(t *testing.T) {
	c := cache.NewActivePeriodCache()
	periods := []model.TimePeriod{
		{Start: 0, End: 1800},
		{Start: 1800, End: 3600},
	}
	idx := c.ActiveIndex(1, 1, 100, periods)
	assert.Equal(t, 0, idx)

	idx2 := c.ActiveIndex(1, 1, 140, periods)
	assert.Equal(t, 0, idx2, "within the 60s window the cached index is reused without a fresh search")

	idx3 := c.ActiveIndex(1, 1, 2000, periods)
	assert.Equal(t, 1, idx3, "past the window, ActiveIndex re-searches and finds period 1")
}

func TestVehicleStateCacheAdvanceClearsPreviousTick(t *testing.T) {
	c := cache.NewVehicleStateCache()
	c.Set(1, cache.VehicleSnapshot{CurrentDelay: 30})
	_, ok := c.Get(1)
	assert.True(t, ok)

	c.Advance(2)
	_, ok = c.Get(1)
	assert.False(t, ok, "advancing to a new tick clears all entries")
}

func TestStationIndexRebuildAndByStation(t *testing.T) {
	tt := model.NewTimetable()
	tt.SetConditionType(1, 1, 100, model.ConstraintArrDep)
	tt.SetConditionType(2, 1, 100, model.ConstraintArrDep)

	si := cache.NewStationIndex()
	si.Rebuild(tt)
	byStation := si.ByStation(100)
	assert.Len(t, byStation, 2, "station 100 appears on both line 1 and line 2")
}

func TestBusPublishesToSubscribersInOrder(t *testing.T) {
	b := cache.NewBus()
	var order []int
	b.Subscribe(func(cache.Event) { order = append(order, 1) })
	b.Subscribe(func(cache.Event) { order = append(order, 2) })
	b.Publish(cache.SlotsChanged{Line: 1, Stop: 1})
	assert.Equal(t, []int{1, 2}, order)
}

func TestCachesOnEventInvalidatesAffectedCaches(t *testing.T) {
	c := cache.New()
	c.Sorted.Get(1, 1, func() []model.Slot { return []model.Slot{{ArrMin: 1}} })
	c.Bus.Publish(cache.SlotsChanged{Line: 1, Stop: 1})

	calls := 0
	c.Sorted.Get(1, 1, func() []model.Slot { calls++; return nil })
	assert.Equal(t, 1, calls, "SlotsChanged must invalidate the sorted-slot cache")
}
