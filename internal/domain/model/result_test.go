package model_test

import (
	"testing"

	"github.com/okian/clanmove/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestClans(t *testing.T) {
	Convey("Given the fixed clan list", t, func() {
		clans := model.Clans()

		Convey("Then it should contain the three clans in placement order", func() {
			So(clans[0], ShouldEqual, "RGR")
			So(clans[1], ShouldEqual, "OTL")
			So(clans[2], ShouldEqual, "RND")
		})

		Convey("Then IsClan should recognize each of them", func() {
			for _, c := range clans {
				So(model.IsClan(c), ShouldBeTrue)
			}
		})

		Convey("Then IsClan should reject other labels", func() {
			So(model.IsClan("rgr"), ShouldBeFalse)
			So(model.IsClan("Hold"), ShouldBeFalse)
			So(model.IsClan(""), ShouldBeFalse)
		})
	})
}

func TestOverrideKindString(t *testing.T) {
	Convey("Given the override kinds", t, func() {
		So(model.OverrideHold.String(), ShouldEqual, "hold")
		So(model.OverrideStay.String(), ShouldEqual, "stay")
		So(model.OverrideMove.String(), ShouldEqual, "move")
		So(model.OverrideOther.String(), ShouldEqual, "other")
	})
}

func TestDistributionResultEmpty(t *testing.T) {
	Convey("Given a nil result", t, func() {
		var r *model.DistributionResult

		Convey("Then it should be empty and count zero", func() {
			So(r.Empty(), ShouldBeTrue)
			So(r.VisibleCount("RGR"), ShouldEqual, 0)
		})
	})

	Convey("Given a result with only empty groups", t, func() {
		r := &model.DistributionResult{
			Groups: map[string][]model.PlayerRecord{"RGR": {}, "OTL": {}, "RND": {}},
		}

		Convey("Then it should be empty", func() {
			So(r.Empty(), ShouldBeTrue)
		})
	})

	Convey("Given a result with one visible move", t, func() {
		r := &model.DistributionResult{
			Groups: map[string][]model.PlayerRecord{
				"OTL": {{DisplayName: "Anna"}},
			},
		}

		Convey("Then it should not be empty", func() {
			So(r.Empty(), ShouldBeFalse)
			So(r.VisibleCount("OTL"), ShouldEqual, 1)
			So(r.VisibleCount("RND"), ShouldEqual, 0)
		})
	})

	Convey("Given a result with only overrides", t, func() {
		r := &model.DistributionResult{
			Overrides: []model.Override{{Kind: model.OverrideHold, Target: "RGR"}},
		}

		Convey("Then it should not be empty", func() {
			So(r.Empty(), ShouldBeFalse)
		})
	})
}
