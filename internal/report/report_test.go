package report_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/okian/fairshare/internal/domain/distribution"
	"github.com/okian/fairshare/internal/domain/model"
	"github.com/okian/fairshare/internal/domain/settlement"
	"github.com/okian/fairshare/internal/domain/types"
	"github.com/okian/fairshare/internal/report"
	. "github.com/smartystreets/goconvey/convey"
)

func calculate(participants []model.Participant, contribution, minimumScore float64) types.Calculation {
	d := distribution.Compute(participants, contribution, minimumScore)
	return types.NewCalculation("calc-1", contribution, d, settlement.Transfers(d.All()))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWrite(t *testing.T) {
	Convey("Given the four-player calculation", t, func() {
		calc := calculate([]model.Participant{
			{Name: "A", Score: 80},
			{Name: "B", Score: 60},
			{Name: "C", Score: 10},
			{Name: "D", Score: 50},
		}, 25, 20)

		var buf bytes.Buffer
		err := report.Write(&buf, calc)
		out := buf.String()

		Convey("Then the summary should be rendered", func() {
			So(err, ShouldBeNil)
			So(out, ShouldContainSubstring, "Total prize pool:     $75.00")
			So(out, ShouldContainSubstring, "Eligible players:     3 (score >= 20)")
			So(out, ShouldContainSubstring, "Ineligible players:   1 (score < 20)")
			So(out, ShouldContainSubstring, "Total eligible score: 190")
			So(out, ShouldNotContainSubstring, "Unsettled")
		})

		Convey("And deserved amounts should be rounded to cents", func() {
			So(out, ShouldContainSubstring, "A (80): $31.58")
			So(out, ShouldContainSubstring, "B (60): $23.68")
			So(out, ShouldContainSubstring, "D (50): $19.74")
			So(out, ShouldContainSubstring, "C (10): $0.00")
		})

		Convey("And the table should carry signed differences", func() {
			So(out, ShouldContainSubstring, "+$6.58")
			So(out, ShouldContainSubstring, "-$5.26")
			So(out, ShouldContainSubstring, "-$1.32")
		})

		Convey("And the transfers should be listed in order", func() {
			first := strings.Index(out, "D pays $5.26 to A")
			second := strings.Index(out, "B pays $1.32 to A")
			So(first, ShouldBeGreaterThan, 0)
			So(second, ShouldBeGreaterThan, first)
		})
	})

	Convey("Given a calculation where everyone is eligible and tied", t, func() {
		calc := calculate([]model.Participant{
			{Name: "A", Score: 40},
			{Name: "B", Score: 40},
		}, 10, 20)

		var buf bytes.Buffer
		So(report.Write(&buf, calc), ShouldBeNil)
		out := buf.String()

		Convey("Then no ineligible section or transfers are rendered", func() {
			So(out, ShouldNotContainSubstring, "Ineligible players (")
			So(out, ShouldContainSubstring, "No transfers needed.")
		})
	})

	Convey("Given a conservation-violating calculation", t, func() {
		calc := calculate([]model.Participant{
			{Name: "A", Score: 0},
			{Name: "B", Score: 0},
		}, 25, 0)
		calc.ConservationViolated = true
		calc.UnsettledAmount = 50

		var buf bytes.Buffer
		So(report.Write(&buf, calc), ShouldBeNil)

		Convey("Then the unsettled amount is shown", func() {
			So(buf.String(), ShouldContainSubstring, "Unsettled amount:     $50.00")
		})
	})

	Convey("Given a writer that fails", t, func() {
		err := report.Write(failingWriter{}, types.Calculation{})

		Convey("Then the error is returned", func() {
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldEqual, "disk full")
		})
	})
}

func TestFormatting(t *testing.T) {
	Convey("Given amounts to format", t, func() {
		So(report.Money(31.578947), ShouldEqual, "$31.58")
		So(report.Money(-5.263158), ShouldEqual, "-$5.26")
		So(report.Money(-0.001), ShouldEqual, "$0.00")
		So(report.SignedMoney(6.578947), ShouldEqual, "+$6.58")
		So(report.SignedMoney(0), ShouldEqual, "$0.00")
		So(report.SignedMoney(-25), ShouldEqual, "-$25.00")
		So(report.Number(20), ShouldEqual, "20")
		So(report.Number(12.5), ShouldEqual, "12.5")
	})
}
