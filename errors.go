package timetable

import "github.com/hgfantasy/tpf2-timetable-core/model"

// Error and Kind are re-exported at the root so callers never need to
// import model directly just to branch on a failure reason (spec §7).
type Error = model.Error
type Kind = model.Kind

const (
	InvalidArgument    = model.InvalidArgument
	NotFound           = model.NotFound
	InvariantViolation = model.InvariantViolation
	ConflictResolved   = model.ConflictResolved
	VersionUnsupported = model.VersionUnsupported
)

var (
	ErrInvalidArgument    = model.ErrInvalidArgument
	ErrNotFound           = model.ErrNotFound
	ErrInvariantViolation = model.ErrInvariantViolation
	ErrConflictResolved   = model.ErrConflictResolved
	ErrVersionUnsupported = model.ErrVersionUnsupported
)
