package recovery_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hgfantasy/tpf2-timetable-core/model"
	"github.com/hgfantasy/tpf2-timetable-core/recovery"
)

func TestOnArrivalBelowThresholdLeavesWaitUnchanged(t *testing.T) {
	got := recovery.OnArrival(recovery.ArrivalInput{
		Mode: model.RecoveryHoldAtTerminus, ArrivalDelay: 30, IsTerminus: true, Wait: 100,
	})
	assert.Equal(t, 100, got)
}

func TestOnArrivalHoldAtTerminusOnlyAppliesAtTerminus(t *testing.T) {
	at := recovery.OnArrival(recovery.ArrivalInput{
		Mode: model.RecoveryHoldAtTerminus, ArrivalDelay: 600, IsTerminus: true, Wait: 100,
	})
	assert.Equal(t, 100+int(0.6*600), at)

	notAt := recovery.OnArrival(recovery.ArrivalInput{
		Mode: model.RecoveryHoldAtTerminus, ArrivalDelay: 600, IsTerminus: false, Wait: 100,
	})
	assert.Equal(t, 100, notAt)
}

func TestOnArrivalSkipStopsHalvesWaitExceptAtTerminus(t *testing.T) {
	got := recovery.OnArrival(recovery.ArrivalInput{
		Mode: model.RecoverySkipStops, ArrivalDelay: 100, IsTerminus: false, Wait: 200,
	})
	assert.Equal(t, 100, got)

	atTerm := recovery.OnArrival(recovery.ArrivalInput{
		Mode: model.RecoverySkipStops, ArrivalDelay: 100, IsTerminus: true, Wait: 200,
	})
	assert.Equal(t, 200, atTerm)
}

func TestOnArrivalResetAtTerminusClampsExtraAt300(t *testing.T) {
	got := recovery.OnArrival(recovery.ArrivalInput{
		Mode: model.RecoveryResetAtTerminus, ArrivalDelay: 1000, IsTerminus: true, Wait: 50,
	})
	assert.Equal(t, 50+300, got)
}

func TestOnContinuedHoldSkipToNextRequestsReselect(t *testing.T) {
	r := recovery.OnContinuedHold(recovery.HoldingInput{Mode: model.RecoverySkipToNext})
	assert.Equal(t, recovery.ActionReselectSlot, r.Action)
}

func TestOnContinuedHoldGradualRecoveryDefaultsRate(t *testing.T) {
	r := recovery.OnContinuedHold(recovery.HoldingInput{
		Mode: model.RecoveryGradualRecovery, Stored: 1000, Delay: 100,
	})
	assert.Equal(t, recovery.ActionDeparture, r.Action)
	assert.Equal(t, 1000+int(100*0.9), r.NewDepartureTime)
}

func TestOnContinuedHoldCatchUpBuffersSevereDelay(t *testing.T) {
	r := recovery.OnContinuedHold(recovery.HoldingInput{
		Mode: model.RecoveryCatchUp, Now: 500, Stored: 400, Delay: 400,
	})
	assert.Equal(t, 530, r.NewDepartureTime)
}

func TestOnContinuedHoldCatchUpReleasesNowWhenPastStored(t *testing.T) {
	r := recovery.OnContinuedHold(recovery.HoldingInput{
		Mode: model.RecoveryCatchUp, Now: 500, Stored: 400, Delay: 50,
	})
	assert.Equal(t, 500, r.NewDepartureTime)
}
