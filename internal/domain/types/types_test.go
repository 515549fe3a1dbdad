package types_test

import (
	"testing"

	"github.com/okian/fairshare/internal/domain/model"
	types "github.com/okian/fairshare/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func sampleCalculation() types.Calculation {
	d := model.Distribution{
		Eligible: []model.ParticipantResult{
			{Name: "A", Score: 80, OriginalAmount: 25, DeservedAmount: 30},
			{Name: "B", Score: 60, OriginalAmount: 25, DeservedAmount: 20},
		},
		Ineligible: []model.ParticipantResult{
			{Name: "C", Score: 10},
		},
		TotalPool:          50,
		TotalEligibleScore: 140,
		MinimumScore:       20,
	}
	transfers := []model.Transfer{{From: "B", To: "A", Amount: 5}}
	return types.NewCalculation("calc-1", 25, d, transfers)
}

func TestNewCalculation(t *testing.T) {
	Convey("Given a domain distribution and transfers", t, func() {
		c := sampleCalculation()

		Convey("Then the response shape should carry every value", func() {
			So(c.ID, ShouldEqual, "calc-1")
			So(c.ContributionPerParticipant, ShouldEqual, 25.0)
			So(c.MinimumScore, ShouldEqual, 20.0)
			So(c.TotalPool, ShouldEqual, 50.0)
			So(c.TotalEligibleScore, ShouldEqual, 140.0)
			So(len(c.Eligible), ShouldEqual, 2)
			So(len(c.Ineligible), ShouldEqual, 1)
			So(c.Transfers, ShouldResemble, []types.Transfer{{From: "B", To: "A", Amount: 5}})
		})

		Convey("And rows should carry their signed difference", func() {
			So(c.Eligible[0].Difference, ShouldEqual, 5.0)
			So(c.Eligible[1].Difference, ShouldEqual, -5.0)
			So(c.Ineligible[0].Difference, ShouldEqual, 0.0)
		})

		Convey("And the table should list eligible rows first", func() {
			rows := c.Table()
			So(len(rows), ShouldEqual, 3)
			So(rows[0].Name, ShouldEqual, "A")
			So(rows[2].Name, ShouldEqual, "C")
		})
	})

	Convey("Given no transfers", t, func() {
		c := types.NewCalculation("calc-2", 10, model.Distribution{}, nil)

		Convey("Then transfers should be an empty, non-nil list", func() {
			So(c.Transfers, ShouldNotBeNil)
			So(c.Transfers, ShouldBeEmpty)
		})
	})
}

func TestCalculation_Rename(t *testing.T) {
	Convey("Given a calculation", t, func() {
		c := sampleCalculation()

		Convey("When renaming a participant that appears in a transfer", func() {
			renamed := c.Rename("A", "Alice")

			Convey("Then rows and transfers should use the new name", func() {
				So(renamed.Eligible[0].Name, ShouldEqual, "Alice")
				So(renamed.Transfers[0].To, ShouldEqual, "Alice")
				So(renamed.Transfers[0].From, ShouldEqual, "B")
			})

			Convey("And the original calculation should be untouched", func() {
				So(c.Eligible[0].Name, ShouldEqual, "A")
				So(c.Transfers[0].To, ShouldEqual, "A")
			})
		})

		Convey("When renaming an ineligible participant", func() {
			renamed := c.Rename("C", "Carol")

			Convey("Then only that row changes", func() {
				So(renamed.Ineligible[0].Name, ShouldEqual, "Carol")
				So(renamed.Eligible[0].Name, ShouldEqual, "A")
				So(renamed.Eligible[1].Name, ShouldEqual, "B")
			})
		})

		Convey("When renaming a name that is not present", func() {
			renamed := c.Rename("Zed", "Zoe")

			Convey("Then nothing should change", func() {
				So(renamed, ShouldResemble, c)
			})
		})
	})
}
