// Package model contains domain models passed between layers.
package model

// Participant is a scored entrant in a prize split.
type Participant struct {
	Name  string  // display name, trimmed and non-empty
	Score float64 // non-negative score
}

// ParticipantResult is a participant with its pre- and post-redistribution amounts.
// Ineligible participants carry zero for both amounts.
type ParticipantResult struct {
	Name           string
	Score          float64
	OriginalAmount float64 // flat contribution before redistribution
	DeservedAmount float64 // score-proportional share of the pool
}

// Difference returns DeservedAmount - OriginalAmount. Positive means the
// participant is owed money, negative means it owes money.
func (r ParticipantResult) Difference() float64 {
	return r.DeservedAmount - r.OriginalAmount
}

// Transfer is a directional payment from a net debtor to a net creditor.
type Transfer struct {
	From   string
	To     string
	Amount float64
}

// Distribution is the output of the distribution calculator.
type Distribution struct {
	Eligible           []ParticipantResult
	Ineligible         []ParticipantResult
	TotalPool          float64
	TotalEligibleScore float64
	MinimumScore       float64
}

// All returns eligible results followed by ineligible results, in that order.
// The returned slice is a fresh copy.
func (d Distribution) All() []ParticipantResult {
	all := make([]ParticipantResult, 0, len(d.Eligible)+len(d.Ineligible))
	all = append(all, d.Eligible...)
	all = append(all, d.Ineligible...)
	return all
}
