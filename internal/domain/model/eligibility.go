package model

// LastActivation summarizes the most recent activation at a partner for the
// cooldown axis of an eligibility report.
type LastActivation struct {
	HoursAgo float64
}

// EligibilityReport is the aggregate pass/fail decision over subscription,
// proximity, opening hours and cooldown. It is a transient value object,
// rebuilt wholesale on every evaluation tick and never persisted.
//
// When signal gathering fails (location denied, collaborator unreachable)
// the report carries a single generic reason and no partial fields: stale
// or defaulted data must never satisfy the proximity check.
type EligibilityReport struct {
	CanActivate     bool
	DistanceMeters  *float64 // nil when location could not be obtained
	IsOpen          bool
	HasSubscription bool
	LastActivation  *LastActivation // nil when no prior activation at this partner
	Reasons         []string        // one entry per failing condition, empty when eligible
}
