package model

// Line is a transit line's timetable configuration: the master switch, its
// per-stop station slots, and line-level defaults (spec §3 "Line").
type Line struct {
	HasTimetable bool `json:"has_timetable"`

	// Stations maps a 1-based stop index (position in the line's ordered
	// stop list) to its station slot.
	Stations map[int]*StationSlot `json:"stations"`

	Frequency        int  `json:"frequency,omitempty"`
	FrequencyEnabled bool `json:"frequency_enabled"`

	ForceDeparture bool `json:"force_departure"`
	MinWaitEnabled bool `json:"min_wait_enabled"`
	MaxWaitEnabled bool `json:"max_wait_enabled"`

	DelayRecoveryMode DelayRecoveryMode `json:"delay_recovery_mode"`
	RecoveryRate      float64           `json:"recovery_rate,omitempty"`
}

// NewLine returns an empty line with the timetable switch off.
func NewLine() *Line {
	return &Line{Stations: make(map[int]*StationSlot)}
}

// Station returns the station slot at stop, or nil if none has been
// configured yet (constraint has never been set there).
func (l *Line) Station(stop int) *StationSlot {
	return l.Stations[stop]
}

// StationOrCreate returns the station slot at stop, lazily creating it
// (spec §3 lifecycle: "Station slot entries are created lazily when a
// constraint is first set").
func (l *Line) StationOrCreate(stop, stationID int) *StationSlot {
	s, ok := l.Stations[stop]
	if !ok {
		s = NewStationSlot(stationID)
		l.Stations[stop] = s
	}
	return s
}

// IsTerminus reports whether stop is the first or last stop on a line with
// stopCount stops (1-based indices).
func IsTerminus(stop, stopCount int) bool {
	return stop == 1 || stop == stopCount
}
