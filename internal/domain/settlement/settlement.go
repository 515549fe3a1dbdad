// Package settlement reconciles original and deserved amounts into a short
// list of debtor-to-creditor transfers.
package settlement

import (
	"math"
	"sort"

	"github.com/okian/fairshare/internal/domain/model"
)

// DefaultTolerance is the amount below which a balance counts as settled and
// a transfer is not worth reporting.
const DefaultTolerance = 0.01

// Option applies a configuration option to the Matcher.
type Option func(*Matcher)

// WithTolerance sets the settlement tolerance. Non-positive values are ignored.
func WithTolerance(tolerance float64) Option {
	return func(m *Matcher) {
		if tolerance > 0 && !math.IsInf(tolerance, 0) {
			m.tolerance = tolerance
		}
	}
}

// Matcher computes transfers with a greedy waterfall: the largest creditor is
// paid by the largest debtor until one of them is settled, then the next one
// steps in. A Matcher holds no per-call state and is safe for concurrent use.
type Matcher struct {
	tolerance float64
}

// NewMatcher creates a Matcher with configuration options.
func NewMatcher(opts ...Option) *Matcher {
	m := &Matcher{tolerance: DefaultTolerance}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Tolerance returns the configured tolerance.
func (m *Matcher) Tolerance() float64 {
	return m.tolerance
}

// balance is the working copy of one side of a participant's difference.
type balance struct {
	name      string
	remaining float64
}

// Transfers returns the transfers that move every participant from its
// original amount to its deserved amount, in emission order.
//
// Equal balances keep their input order. If creditor and debtor totals differ
// the leftover is dropped; use Imbalance to detect it.
func (m *Matcher) Transfers(results []model.ParticipantResult) []model.Transfer {
	var creditors, debtors []balance
	for _, r := range results {
		diff := r.Difference()
		switch {
		case diff >= m.tolerance:
			creditors = append(creditors, balance{name: r.Name, remaining: diff})
		case diff <= -m.tolerance:
			debtors = append(debtors, balance{name: r.Name, remaining: -diff})
		}
	}

	sort.SliceStable(creditors, func(i, j int) bool { return creditors[i].remaining > creditors[j].remaining })
	sort.SliceStable(debtors, func(i, j int) bool { return debtors[i].remaining > debtors[j].remaining })

	transfers := make([]model.Transfer, 0, len(creditors)+len(debtors))
	ci, di := 0, 0
	for ci < len(creditors) && di < len(debtors) {
		creditor := &creditors[ci]
		debtor := &debtors[di]

		amount := math.Min(creditor.remaining, debtor.remaining)
		if amount > m.tolerance {
			transfers = append(transfers, model.Transfer{
				From:   debtor.name,
				To:     creditor.name,
				Amount: amount,
			})
		}

		creditor.remaining -= amount
		debtor.remaining -= amount

		if creditor.remaining < m.tolerance {
			ci++
		}
		if debtor.remaining < m.tolerance {
			di++
		}
	}

	return transfers
}

// defaultMatcher backs the package-level Transfers.
var defaultMatcher = NewMatcher() //nolint:gochecknoglobals // stateless default instance

// Transfers computes transfers with DefaultTolerance.
func Transfers(results []model.ParticipantResult) []model.Transfer {
	return defaultMatcher.Transfers(results)
}

// Imbalance returns sum(deserved) - sum(original). It is zero, up to rounding,
// whenever the distribution conserved the pool.
func Imbalance(results []model.ParticipantResult) float64 {
	var total float64
	for _, r := range results {
		total += r.Difference()
	}
	return total
}
