package checkout

// TripContext carries what the intake/ticket-analysis collaborator knows
// about the journey before the checkout starts. A zero value is a valid
// context: flows degrade to showing every step rather than failing.
type TripContext struct {
	Origin       string `json:"origin,omitempty"`
	Destination  string `json:"destination,omitempty"`
	TravelDate   string `json:"travel_date,omitempty"` // YYYY-MM-DD
	DurationDays int    `json:"duration_days,omitempty"`
	BudgetTier   string `json:"budget_tier,omitempty"`
}

// KnownDuration reports whether the collaborator supplied a trip length.
// Elision predicates must not fire on an unknown duration.
func (c TripContext) KnownDuration() bool {
	return c.DurationDays > 0
}
