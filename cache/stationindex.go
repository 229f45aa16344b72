package cache

import "github.com/hgfantasy/tpf2-timetable-core/model"

// StationIndex supports station-centric lookups: "every (line,stop) slot
// configured at this physical station" (spec §4.J), for UIs that browse by
// station rather than by line.
type StationIndex struct {
	byStation map[int]map[int]map[int]*model.StationSlot // stationID -> line -> stop -> slot
}

// NewStationIndex returns an empty index.
func NewStationIndex() *StationIndex {
	return &StationIndex{byStation: make(map[int]map[int]map[int]*model.StationSlot)}
}

// Rebuild recomputes the index from scratch against the current timetable.
// Cheap enough to call after any structural mutator (stations are not
// added at simulation-tick frequency).
func (si *StationIndex) Rebuild(t *model.Timetable) {
	si.byStation = make(map[int]map[int]map[int]*model.StationSlot)
	for lineID, l := range t.Lines {
		for stop, s := range l.Stations {
			perLine, ok := si.byStation[s.StationID]
			if !ok {
				perLine = make(map[int]map[int]*model.StationSlot)
				si.byStation[s.StationID] = perLine
			}
			perStop, ok := perLine[lineID]
			if !ok {
				perStop = make(map[int]*model.StationSlot)
				perLine[lineID] = perStop
			}
			perStop[stop] = s
		}
	}
}

// ByStation returns every (line -> stop -> slot) configured at stationID.
func (si *StationIndex) ByStation(stationID int) map[int]map[int]*model.StationSlot {
	return si.byStation[stationID]
}
