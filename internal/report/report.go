// Package report renders a calculation as a plain-text summary.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/okian/fairshare/internal/domain/types"
)

// Write renders calc to w. Amounts are rounded half away from zero to cents.
func Write(w io.Writer, calc types.Calculation) error {
	ew := &errWriter{w: w}

	ew.printf("Summary\n")
	ew.printf("  Total prize pool:     %s\n", Money(calc.TotalPool))
	ew.printf("  Eligible players:     %d (score >= %s)\n", len(calc.Eligible), Number(calc.MinimumScore))
	ew.printf("  Ineligible players:   %d (score < %s)\n", len(calc.Ineligible), Number(calc.MinimumScore))
	ew.printf("  Total eligible score: %s\n", Number(calc.TotalEligibleScore))
	if calc.ConservationViolated {
		ew.printf("  Unsettled amount:     %s\n", Money(calc.UnsettledAmount))
	}

	ew.printf("\nEligible players (score >= %s)\n", Number(calc.MinimumScore))
	for _, r := range calc.Eligible {
		ew.printf("  %s (%s): %s\n", r.Name, Number(r.Score), Money(r.DeservedAmount))
	}

	if len(calc.Ineligible) > 0 {
		ew.printf("\nIneligible players (score < %s)\n", Number(calc.MinimumScore))
		for _, r := range calc.Ineligible {
			ew.printf("  %s (%s): %s\n", r.Name, Number(r.Score), Money(0))
		}
	}

	ew.printf("\nDistribution\n")
	if ew.err == nil {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(tw, "  Player\tScore\tOriginal\tDeserved\tDifference\t")
		for _, r := range calc.Table() {
			_, _ = fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\t\n",
				r.Name, Number(r.Score), Money(r.OriginalAmount), Money(r.DeservedAmount), SignedMoney(r.Difference))
		}
		ew.err = tw.Flush()
	}

	ew.printf("\nTransfers\n")
	if len(calc.Transfers) == 0 {
		ew.printf("  No transfers needed.\n")
	}
	for _, tr := range calc.Transfers {
		ew.printf("  %s pays %s to %s\n", tr.From, Money(tr.Amount), tr.To)
	}

	return ew.err
}

// Money formats v as dollars with two decimals, e.g. "$31.58".
func Money(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	if d.IsNegative() {
		return "-$" + d.Abs().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}

// SignedMoney is Money with an explicit "+" for positive amounts.
func SignedMoney(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	if d.IsPositive() {
		return "+$" + d.StringFixed(2)
	}
	return Money(v)
}

// Number formats a score or threshold without trailing zeros.
func Number(v float64) string {
	return decimal.NewFromFloat(v).String()
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
