package timetable

import (
	"github.com/hgfantasy/tpf2-timetable-core/cache"
	"github.com/hgfantasy/tpf2-timetable-core/snapshot"
)

// Snapshot encodes the entire timetable into its current-version wire form
// (spec §4.K, §6 "Persistence: snapshot()").
func (e *Engine) Snapshot() (version string, blob []byte, err error) {
	return snapshot.Snapshot(e.timetable)
}

// Restore replaces the Engine's timetable with the one decoded from blob.
// Every derived cache is discarded and rebuilt fresh rather than patched
// entry-by-entry — a restore is rare enough that a full rebuild's cost
// never matters, and it rules out any chance of a stale entry surviving
// the swap (spec §6 "Persistence: restore()").
func (e *Engine) Restore(version string, blob []byte) error {
	t, err := snapshot.Restore(version, blob)
	if err != nil {
		return err
	}
	e.timetable = t
	e.caches = cache.New()
	e.caches.StationIndex.Rebuild(e.timetable)
	return nil
}
