// Package timetable wires the scheduling-core packages (clock, model,
// slotassign, depart, recovery, binding, skipstop, validate, delaystats,
// cache, snapshot) into the facade-facing Engine spec §6 describes: a
// single-writer, single-threaded scheduling core driven by a host
// simulation's tick loop through SimFacade/CommandSink.
package timetable

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/hgfantasy/tpf2-timetable-core/cache"
	"github.com/hgfantasy/tpf2-timetable-core/delaystats"
	"github.com/hgfantasy/tpf2-timetable-core/model"
)

// Engine owns the core's entire mutable state: the timetable model, its
// derived caches, and rolling delay statistics. One Engine per simulation
// instance; it is not safe for concurrent use (spec §5: single writer).
type Engine struct {
	timetable *model.Timetable
	caches    *cache.Caches
	stats     *delaystats.Stats
	log       zerolog.Logger
}

// EngineOptions configures a new Engine. A nil Logger defaults to a
// no-op logger, so embedding this core never forces a logging dependency
// on the host (spec.md's non-goals explicitly exclude a logging facade).
type EngineOptions struct {
	Logger *zerolog.Logger
}

// New constructs an empty Engine. Pass nil for default options.
func New(opts *EngineOptions) *Engine {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.Disabled)
	if opts != nil && opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Engine{
		timetable: model.NewTimetable(),
		caches:    cache.New(),
		stats:     delaystats.New(),
		log:       logger,
	}
}

// Timetable exposes the underlying model for callers that need direct
// read access beyond the query accessors below (e.g. building a UI tree).
// The returned pointer must not be mutated outside the Engine's own
// mutator methods (spec §5: the core is the single writer).
func (e *Engine) Timetable() *model.Timetable {
	return e.timetable
}
