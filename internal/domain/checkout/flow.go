package checkout

// Step identifies one state of the checkout state machine.
type Step string

const (
	StepTransport       Step = "transport"
	StepStay            Step = "stay"
	StepExperiences     Step = "experiences"
	StepGroceries       Step = "groceries"
	StepFood            Step = "food"
	StepHotelTransfer   Step = "hotel_transfer"
	StepReturnTransport Step = "return_transport"
	StepSummary         Step = "summary"
	StepPayment         Step = "payment"
	StepConfirmed       Step = "confirmed"
)

// FlowID names one of the registered checkout flows.
type FlowID string

const (
	FlowTrip  FlowID = "trip"
	FlowFood  FlowID = "food"
	FlowSmart FlowID = "smart"
)

// StepDef is one selection step in a flow. SkipWhen, if set, elides the step
// based on trip context. The predicate runs exactly once, when the preceding
// step is exited; an elided step is recorded as skipped and never revisited.
type StepDef struct {
	ID       Step
	SkipWhen func(TripContext) bool
}

// Flow is the table of step definitions driving a Session. HasSummary flows
// insert a summary state between the last selection and payment;
// RequireItems flows refuse to enter payment with an empty cart.
type Flow struct {
	ID           FlowID
	Steps        []StepDef
	HasSummary   bool
	RequireItems bool
}

func shortStay(c TripContext) bool {
	return c.KnownDuration() && c.DurationDays < 2
}

// Registry returns the flow definitions for the three booking surfaces.
func Registry() map[FlowID]Flow {
	return map[FlowID]Flow{
		FlowTrip: {
			ID: FlowTrip,
			Steps: []StepDef{
				{ID: StepTransport},
				{ID: StepStay},
				{ID: StepExperiences},
				{ID: StepGroceries, SkipWhen: shortStay},
			},
			HasSummary:   true,
			RequireItems: true,
		},
		FlowFood: {
			ID: FlowFood,
			Steps: []StepDef{
				{ID: StepFood},
			},
		},
		FlowSmart: {
			ID: FlowSmart,
			Steps: []StepDef{
				{ID: StepHotelTransfer},
				{ID: StepStay},
				{ID: StepGroceries, SkipWhen: shortStay},
				{ID: StepReturnTransport},
			},
			HasSummary:   true,
			RequireItems: true,
		},
	}
}
