// Package distribution splits a prize pool among eligible participants in
// proportion to their scores.
package distribution

import (
	"github.com/okian/fairshare/internal/domain/model"
)

// Compute partitions participants by minimumScore (inclusive) and computes the
// original and deserved amount for each of them.
//
// Every eligible participant contributes contributionPerParticipant to the pool
// and receives score/totalEligibleScore of it. Ineligible participants neither
// contribute nor receive. When the eligible scores sum to zero every deserved
// amount is zero and the pool is not conserved; callers detect this through
// settlement.Imbalance.
//
// Inputs are assumed valid (see the validation package). Partition order is
// stable with respect to the input.
func Compute(participants []model.Participant, contributionPerParticipant, minimumScore float64) model.Distribution {
	eligible := make([]model.ParticipantResult, 0, len(participants))
	ineligible := make([]model.ParticipantResult, 0)

	var totalEligibleScore float64
	for _, p := range participants {
		r := model.ParticipantResult{Name: p.Name, Score: p.Score}
		if p.Score >= minimumScore {
			eligible = append(eligible, r)
			totalEligibleScore += p.Score
			continue
		}
		ineligible = append(ineligible, r)
	}

	totalPool := float64(len(eligible)) * contributionPerParticipant

	for i := range eligible {
		eligible[i].OriginalAmount = contributionPerParticipant
		if totalEligibleScore > 0 {
			eligible[i].DeservedAmount = (eligible[i].Score / totalEligibleScore) * totalPool
		}
	}

	return model.Distribution{
		Eligible:           eligible,
		Ineligible:         ineligible,
		TotalPool:          totalPool,
		TotalEligibleScore: totalEligibleScore,
		MinimumScore:       minimumScore,
	}
}
