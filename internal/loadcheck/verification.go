package loadcheck

import (
	"fmt"
	"math"
	"strings"

	"github.com/okian/fairshare/internal/domain/types"
)

// Verify checks a calculation returned for req against the calculator's
// properties and returns one message per violation.
func Verify(req types.CalculationRequest, calc types.Calculation, tolerance float64) []string {
	var v violations

	if req.MinimumScore != nil && *req.MinimumScore != calc.MinimumScore {
		v.addf("minimum score %v was answered as %v", *req.MinimumScore, calc.MinimumScore)
	}
	if req.ContributionPerParticipant != nil && *req.ContributionPerParticipant != calc.ContributionPerParticipant {
		v.addf("contribution %v was answered as %v", *req.ContributionPerParticipant, calc.ContributionPerParticipant)
	}

	verifyPartition(&v, req, calc)
	verifyAmounts(&v, calc, tolerance)
	verifyTransfers(&v, calc, tolerance)

	return v.list
}

type violations struct {
	list []string
}

func (v *violations) addf(format string, args ...any) {
	v.list = append(v.list, fmt.Sprintf(format, args...))
}

// verifyPartition checks every submitted participant lands in exactly one
// list, on the side its score dictates.
func verifyPartition(v *violations, req types.CalculationRequest, calc types.Calculation) {
	rows := len(calc.Eligible) + len(calc.Ineligible)
	if rows != len(req.Participants) {
		v.addf("partition has %d rows for %d participants", rows, len(req.Participants))
	}

	pending := make(map[string]int, len(req.Participants))
	for _, p := range req.Participants {
		pending[strings.TrimSpace(p.Name)]++
	}
	seen := func(name string) {
		if pending[name] == 0 {
			v.addf("participant %q appears more often than submitted", name)
			return
		}
		pending[name]--
	}

	for _, r := range calc.Eligible {
		seen(r.Name)
		if r.Score < calc.MinimumScore {
			v.addf("eligible participant %q scored %v below %v", r.Name, r.Score, calc.MinimumScore)
		}
	}
	for _, r := range calc.Ineligible {
		seen(r.Name)
		if r.Score >= calc.MinimumScore {
			v.addf("ineligible participant %q scored %v at or above %v", r.Name, r.Score, calc.MinimumScore)
		}
		if r.OriginalAmount != 0 || r.DeservedAmount != 0 {
			v.addf("ineligible participant %q has non-zero amounts", r.Name)
		}
	}
	for name, n := range pending {
		if n > 0 {
			v.addf("participant %q is missing from the result", name)
		}
	}
}

// verifyAmounts checks the pool size and its conservation.
func verifyAmounts(v *violations, calc types.Calculation, tolerance float64) {
	wantPool := float64(len(calc.Eligible)) * calc.ContributionPerParticipant
	if math.Abs(calc.TotalPool-wantPool) > amountEpsilon {
		v.addf("total pool %v, want %v", calc.TotalPool, wantPool)
	}

	var deserved float64
	for _, r := range calc.Eligible {
		deserved += r.DeservedAmount
		if r.OriginalAmount != calc.ContributionPerParticipant {
			v.addf("eligible participant %q started with %v, want %v", r.Name, r.OriginalAmount, calc.ContributionPerParticipant)
		}
	}

	conserved := math.Abs(deserved-calc.TotalPool) <= amountEpsilon
	switch {
	case calc.TotalEligibleScore > 0 && !conserved:
		v.addf("deserved amounts sum to %v, pool is %v", deserved, calc.TotalPool)
	case calc.TotalEligibleScore > 0 && calc.ConservationViolated:
		v.addf("conservation flagged although eligible scores sum to %v", calc.TotalEligibleScore)
	case calc.TotalEligibleScore == 0 && calc.TotalPool > tolerance && !calc.ConservationViolated:
		v.addf("zero eligible score with pool %v is not flagged", calc.TotalPool)
	}
}

// verifyTransfers checks each transfer and that transfers settle every
// participant's difference. Differences below tolerance are never settled
// and every cursor advance may drop up to tolerance, so both widen the
// accepted error.
func verifyTransfers(v *violations, calc types.Calculation, tolerance float64) {
	rows := calc.Table()
	known := make(map[string]bool, len(rows))
	for _, r := range rows {
		known[r.Name] = true
	}

	net := make(map[string]float64, len(rows))
	for i, tr := range calc.Transfers {
		if tr.From == tr.To {
			v.addf("transfer %d pays %q to itself", i, tr.From)
		}
		if tr.Amount <= tolerance {
			v.addf("transfer %d amount %v is not above tolerance %v", i, tr.Amount, tolerance)
		}
		if !known[tr.From] || !known[tr.To] {
			v.addf("transfer %d references an unknown participant", i)
		}
		net[tr.From] += tr.Amount
		net[tr.To] -= tr.Amount
	}

	if calc.ConservationViolated {
		return
	}

	var slack float64
	for _, r := range rows {
		if d := math.Abs(r.DeservedAmount - r.OriginalAmount); d < tolerance {
			slack += d
		}
	}

	allowed := tolerance*float64(len(rows)) + slack + amountEpsilon
	for _, r := range rows {
		owed := r.OriginalAmount - r.DeservedAmount
		if math.Abs(owed) <= tolerance {
			continue
		}
		if got := net[r.Name]; math.Abs(got-owed) > allowed {
			v.addf("participant %q settles %v, owes %v", r.Name, got, owed)
		}
	}
}
