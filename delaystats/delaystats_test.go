package delaystats_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hgfantasy/tpf2-timetable-core/delaystats"
)

func TestGetEnhancedStatisticsNoSamples(t *testing.T) {
	s := delaystats.New()
	got := s.GetEnhancedStatistics(1, 1)
	assert.Equal(t, delaystats.EnhancedStatistics{}, got)
}

func TestGetEnhancedStatisticsSummarizesSamples(t *testing.T) {
	s := delaystats.New()
	for _, v := range []int{-10, 0, 10, 20, 40} {
		s.RecordDelay(1, 1, v)
	}
	got := s.GetEnhancedStatistics(1, 1)
	assert.Equal(t, 5, got.TotalCount)
	assert.Equal(t, -10, got.MinDelay)
	assert.Equal(t, 40, got.MaxDelay)
	assert.InDelta(t, 12.0, got.AvgDelay, 0.001)
	assert.Equal(t, 4, got.OnTimeCount, "values within [-30,30] count as on-time")
}

func TestGetHistoricalDelayZeroWithNoSamples(t *testing.T) {
	s := delaystats.New()
	assert.Equal(t, 0.0, s.GetHistoricalDelay(1, 1, 0))
}

func TestGetHistoricalDelayMeansRecordedDepartureDelays(t *testing.T) {
	s := delaystats.New()
	s.RecordDelay(2, 3, 10)
	s.RecordDelay(2, 3, 30)
	assert.InDelta(t, 20.0, s.GetHistoricalDelay(2, 3, 0), 0.001)
}

func TestSuggestBufferTimeRequiresFiveSamples(t *testing.T) {
	s := delaystats.New()
	for i := 0; i < 4; i++ {
		s.RecordDelay(1, 1, 10)
	}
	_, ok := s.SuggestBufferTime(1, 1)
	assert.False(t, ok)

	s.RecordDelay(1, 1, 10)
	secs, ok := s.SuggestBufferTime(1, 1)
	assert.True(t, ok)
	assert.GreaterOrEqual(t, secs, 30)
	assert.LessOrEqual(t, secs, 300)
}

func TestPredictArrivalTimeSumsSectionTimesPlusHalfDelay(t *testing.T) {
	sections := []int{60, 90, 120}
	got := delaystats.PredictArrivalTime(1000, sections, 0, 3, 20)
	// fromStop=0 up to targetStop-1=2 (exclusive): sections[0]+sections[1] = 150
	assert.Equal(t, 1000+150+10, got)
}

func TestRecordDelayWrapsRingCapacity(t *testing.T) {
	s := delaystats.New()
	for i := 0; i < 300; i++ {
		s.RecordDelay(1, 1, i)
	}
	got := s.GetEnhancedStatistics(1, 1)
	assert.Equal(t, 256, got.TotalCount, "ring caps at 256 samples regardless of how many were recorded")
}
