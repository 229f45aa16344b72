package model

// ConstraintVariant is the tagged union of scheduling constraints a station
// slot can carry: None, ArrDep (slots or time periods), Unbunch, or
// AutoUnbunch. It is modeled as a marker interface with one implementing
// type per variant (the same sum-type-via-marker-interface pattern the
// teacher repo uses for its simulation events), rather than a single struct
// with a kind tag and unused sibling fields.
type ConstraintVariant interface {
	Kind() ConstraintKind
	isConstraintVariant()
}

// ConstraintKind names which variant a ConstraintVariant value holds, for
// callers that need to branch without a type switch (e.g. serialization).
type ConstraintKind int

const (
	ConstraintNone ConstraintKind = iota
	ConstraintArrDep
	ConstraintUnbunch
	ConstraintAutoUnbunch
)

func (k ConstraintKind) String() string {
	switch k {
	case ConstraintNone:
		return "None"
	case ConstraintArrDep:
		return "ArrDep"
	case ConstraintUnbunch:
		return "Unbunch"
	case ConstraintAutoUnbunch:
		return "AutoUnbunch"
	default:
		return "Unknown"
	}
}

// NoConstraint is the absence of a constraint: readyToDepart is always true.
type NoConstraint struct{}

func (NoConstraint) Kind() ConstraintKind { return ConstraintNone }
func (NoConstraint) isConstraintVariant() {}

// ArrDepConstraint holds either a flat legacy slot list or a set of time
// periods (each with its own slot list). When Periods is non-empty it takes
// precedence; Slots is the pre-promotion legacy form (spec §4.B: the legacy
// form is auto-promoted to a single [0,3600) period the first time
// AddTimePeriod is called).
type ArrDepConstraint struct {
	Slots   []Slot       `json:"slots,omitempty"`
	Periods []TimePeriod `json:"time_periods,omitempty"`
}

func (ArrDepConstraint) Kind() ConstraintKind { return ConstraintArrDep }
func (ArrDepConstraint) isConstraintVariant() {}

// UsesPeriods reports whether this constraint has been promoted to the
// time-period form.
func (c ArrDepConstraint) UsesPeriods() bool { return len(c.Periods) > 0 }

// ActiveSlots resolves the slot list effective at slotTime: the active
// period's slots if periods are in use, otherwise the flat legacy list.
// Returns the period index used (-1 if the legacy list was used or no
// period matched) so callers can drive the active-period cache.
func (c ArrDepConstraint) ActiveSlots(slotTime int) (slots []Slot, periodIndex int) {
	if !c.UsesPeriods() {
		return c.Slots, -1
	}
	for i, p := range c.Periods {
		if p.Contains(slotTime) {
			return p.Slots, i
		}
	}
	return nil, -1
}

// UnbunchConstraint enforces a minimum gap, in minutes/seconds, between
// successive departures at a stop.
type UnbunchConstraint struct {
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

func (UnbunchConstraint) Kind() ConstraintKind { return ConstraintUnbunch }
func (UnbunchConstraint) isConstraintVariant() {}

// GapSeconds returns the configured unbunch gap in seconds.
func (c UnbunchConstraint) GapSeconds() int { return c.Minutes*60 + c.Seconds }

// AutoUnbunchConstraint enforces unbunching using the line's dispatch
// frequency, reduced by a safety margin.
type AutoUnbunchConstraint struct {
	MarginMin int `json:"margin_min"`
	MarginSec int `json:"margin_sec"`
}

func (AutoUnbunchConstraint) Kind() ConstraintKind { return ConstraintAutoUnbunch }
func (AutoUnbunchConstraint) isConstraintVariant() {}

// MarginSeconds returns the configured safety margin in seconds.
func (c AutoUnbunchConstraint) MarginSeconds() int { return c.MarginMin*60 + c.MarginSec }
