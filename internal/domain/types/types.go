// Package types contains the request and response shapes shared by the API,
// the service and the tooling.
package types

import "github.com/okian/fairshare/internal/domain/model"

// ParticipantInput is one participant as submitted by a client. Score is a
// pointer so a missing value can be told apart from zero.
type ParticipantInput struct {
	Name  string   `json:"name" koanf:"name"`
	Score *float64 `json:"score" koanf:"score"`
}

// CalculationRequest is the body of POST /calculations.
type CalculationRequest struct {
	ContributionPerParticipant *float64           `json:"contribution_per_participant" koanf:"contribution_per_participant"`
	MinimumScore               *float64           `json:"minimum_score,omitempty" koanf:"minimum_score"`
	Participants               []ParticipantInput `json:"participants" koanf:"participants"`
}

// ParticipantResult is a participant row of a calculation.
type ParticipantResult struct {
	Name           string  `json:"name"`
	Score          float64 `json:"score"`
	OriginalAmount float64 `json:"original_amount"`
	DeservedAmount float64 `json:"deserved_amount"`
	Difference     float64 `json:"difference"`
}

// Transfer is a payment from one participant to another.
type Transfer struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

// Calculation is the full result of one prize split.
type Calculation struct {
	ID                         string              `json:"id"`
	ContributionPerParticipant float64             `json:"contribution_per_participant"`
	MinimumScore               float64             `json:"minimum_score"`
	TotalPool                  float64             `json:"total_pool"`
	TotalEligibleScore         float64             `json:"total_eligible_score"`
	Eligible                   []ParticipantResult `json:"eligible"`
	Ineligible                 []ParticipantResult `json:"ineligible"`
	Transfers                  []Transfer          `json:"transfers"`
	// ConservationViolated is set when deserved amounts do not add up to the
	// pool, which happens when every eligible score is zero.
	ConservationViolated bool    `json:"conservation_violated"`
	UnsettledAmount      float64 `json:"unsettled_amount"`
}

// RenameRequest is the body of POST /calculations/rename.
type RenameRequest struct {
	Calculation Calculation `json:"calculation"`
	Previous    string      `json:"previous"`
	Next        string      `json:"next"`
}

// NewCalculation builds the response shape from domain results.
func NewCalculation(id string, contribution float64, d model.Distribution, transfers []model.Transfer) Calculation {
	c := Calculation{
		ID:                         id,
		ContributionPerParticipant: contribution,
		MinimumScore:               d.MinimumScore,
		TotalPool:                  d.TotalPool,
		TotalEligibleScore:         d.TotalEligibleScore,
		Eligible:                   convertResults(d.Eligible),
		Ineligible:                 convertResults(d.Ineligible),
		Transfers:                  make([]Transfer, len(transfers)),
	}
	for i, tr := range transfers {
		c.Transfers[i] = Transfer{From: tr.From, To: tr.To, Amount: tr.Amount}
	}
	return c
}

func convertResults(results []model.ParticipantResult) []ParticipantResult {
	out := make([]ParticipantResult, len(results))
	for i, r := range results {
		out[i] = ParticipantResult{
			Name:           r.Name,
			Score:          r.Score,
			OriginalAmount: r.OriginalAmount,
			DeservedAmount: r.DeservedAmount,
			Difference:     r.Difference(),
		}
	}
	return out
}

// Table returns the distribution table rows: eligible first, then ineligible.
func (c Calculation) Table() []ParticipantResult {
	rows := make([]ParticipantResult, 0, len(c.Eligible)+len(c.Ineligible))
	rows = append(rows, c.Eligible...)
	return append(rows, c.Ineligible...)
}

// Rename returns a copy of c with every occurrence of previous replaced by
// next, in participant rows and transfers alike. The receiver is not modified.
func (c Calculation) Rename(previous, next string) Calculation {
	out := c
	out.Eligible = renameResults(c.Eligible, previous, next)
	out.Ineligible = renameResults(c.Ineligible, previous, next)
	out.Transfers = make([]Transfer, len(c.Transfers))
	for i, tr := range c.Transfers {
		if tr.From == previous {
			tr.From = next
		}
		if tr.To == previous {
			tr.To = next
		}
		out.Transfers[i] = tr
	}
	return out
}

func renameResults(results []ParticipantResult, previous, next string) []ParticipantResult {
	out := make([]ParticipantResult, len(results))
	for i, r := range results {
		if r.Name == previous {
			r.Name = next
		}
		out[i] = r
	}
	return out
}
