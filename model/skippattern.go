package model

// SkipPatterns bundles the up-to-four stop-skipping patterns a station slot
// may carry (spec §4.G). Each sub-pattern nil-checks independently; the
// skipstop package decides which (if any) fires for a given vehicle.
type SkipPatterns struct {
	SlotBased   *SlotBasedSkipPattern   `json:"slot_based,omitempty"`
	VehicleBased *VehicleBasedSkipPattern `json:"vehicle_based,omitempty"`
	Alternating *AlternatingSkipPattern `json:"alternating,omitempty"`
	ZoneExpress *ZoneExpressSkipPattern `json:"zone_express,omitempty"`
}

// SlotBasedSkipPattern skips a stop when the vehicle's currently-bound slot
// key names that stop in its skip set.
type SlotBasedSkipPattern struct {
	Enabled bool          `json:"enabled"`
	Skips   map[Slot][]int `json:"-"`
}

// AlternatingMode selects which half of a line's vehicle roster skips.
type AlternatingMode int

const (
	AlternatingAB AlternatingMode = iota
	AlternatingBA
)

// VehicleBasedSkipPattern skips a stop for an explicit set of vehicles.
type VehicleBasedSkipPattern struct {
	Enabled  bool      `json:"enabled"`
	Vehicles map[int]struct{} `json:"-"`
}

// AlternatingSkipPattern skips even or odd 1-based positions in the line's
// vehicle roster, depending on Mode.
type AlternatingSkipPattern struct {
	Enabled bool            `json:"enabled"`
	Mode    AlternatingMode `json:"mode"`
}

// Zone is one named group of stops skipped together under zone-express mode.
type Zone struct {
	Name      string `json:"name"`
	Enabled   bool   `json:"enabled"`
	SkipStops []int  `json:"skip_stops"`
}

// ZoneExpressSkipPattern skips any stop listed by an enabled zone.
type ZoneExpressSkipPattern struct {
	Enabled bool   `json:"enabled"`
	Zones   []Zone `json:"zones"`
}
