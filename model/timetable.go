package model

// Timetable is the root aggregate owning every line's configuration. It is
// the single piece of mutable state the core holds; everything else
// (caches, statistics, validation reports) is a derivation or sits
// alongside it in the Engine.
type Timetable struct {
	Lines map[int]*Line `json:"lines"`
}

// NewTimetable returns an empty timetable.
func NewTimetable() *Timetable {
	return &Timetable{Lines: make(map[int]*Line)}
}

// Line returns the line, or nil if it has never been touched.
func (t *Timetable) Line(line int) *Line {
	return t.Lines[line]
}

// LineOrCreate returns the line, lazily creating it with the timetable
// switch off.
func (t *Timetable) LineOrCreate(line int) *Line {
	l, ok := t.Lines[line]
	if !ok {
		l = NewLine()
		t.Lines[line] = l
	}
	return l
}

// Station looks up a station slot without creating anything, returning nil
// through any missing link (line, or stop) — the defensive-shortcut shape
// used by release evaluation (spec §7).
func (t *Timetable) Station(line, stop int) *StationSlot {
	l := t.Lines[line]
	if l == nil {
		return nil
	}
	return l.Stations[stop]
}
