package identity_test

import (
	"testing"

	"github.com/okian/clanmove/internal/domain/identity"
	"github.com/okian/clanmove/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestIdentify(t *testing.T) {
	Convey("Given records with different fields populated", t, func() {
		Convey("When the display name is set it wins", func() {
			r := model.PlayerRecord{DisplayName: "Anna", Mention: "<@111111>", ExternalID: "111111"}
			So(identity.Identify(r), ShouldEqual, "Anna")
		})

		Convey("When only the mention is set it is used", func() {
			r := model.PlayerRecord{Mention: "<@222222>", ExternalID: "222222"}
			So(identity.Identify(r), ShouldEqual, "<@222222>")
		})

		Convey("When only the external id is set it is used", func() {
			r := model.PlayerRecord{ExternalID: "333333"}
			So(identity.Identify(r), ShouldEqual, "333333")
		})

		Convey("When only extra cells are set the first non-empty wins", func() {
			r := model.PlayerRecord{Extra: []string{"", "alt-name", "other"}}
			So(identity.Identify(r), ShouldEqual, "alt-name")
		})

		Convey("When nothing is set it falls back to Unknown", func() {
			So(identity.Identify(model.PlayerRecord{}), ShouldEqual, "Unknown")
		})

		Convey("Then identification is stable for equal content", func() {
			a := model.PlayerRecord{DisplayName: "Bo", CurrentClan: "RGR", Metric: 100}
			b := model.PlayerRecord{DisplayName: "Bo", CurrentClan: "OTL", Metric: 5}
			So(identity.Identify(a), ShouldEqual, identity.Identify(b))
		})
	})
}

func TestExtractID(t *testing.T) {
	Convey("Given mention-shaped queries", t, func() {
		So(identity.ExtractID("<@123456789>"), ShouldEqual, "123456789")
		So(identity.ExtractID("<@!987654321>"), ShouldEqual, "987654321")
		So(identity.ExtractID("please move 123456789 now"), ShouldEqual, "123456789")
		So(identity.ExtractID("no id here"), ShouldEqual, "")
		So(identity.ExtractID("1234"), ShouldEqual, "") // too short to be an id
	})
}

func TestResolveByQuery(t *testing.T) {
	Convey("Given a resolver over a small roster", t, func() {
		roster := []model.PlayerRecord{
			{DisplayName: "Annabel", Mention: "<@100000001>", ExternalID: "100000001", CurrentClan: "RGR"},
			{DisplayName: "Bruno", Mention: "<@100000002>", ExternalID: "100000002", CurrentClan: "OTL"},
			{DisplayName: "Cass", CurrentClan: "RND"},
		}
		res := identity.NewResolver(roster, nil)

		Convey("When querying by exact mention", func() {
			p := res.ResolveByQuery("<@100000002>")
			So(p, ShouldNotBeNil)
			So(p.DisplayName, ShouldEqual, "Bruno")
		})

		Convey("When querying by exact name, case-insensitively", func() {
			p := res.ResolveByQuery("bruno")
			So(p, ShouldNotBeNil)
			So(p.ExternalID, ShouldEqual, "100000002")
		})

		Convey("When querying by a name fragment", func() {
			p := res.ResolveByQuery("nnab")
			So(p, ShouldNotBeNil)
			So(p.DisplayName, ShouldEqual, "Annabel")
		})

		Convey("Then an exact name beats a substring hit", func() {
			withPrefix := append(roster, model.PlayerRecord{DisplayName: "Cassandra"})
			p := identity.NewResolver(withPrefix, nil).ResolveByQuery("cass")
			So(p, ShouldNotBeNil)
			So(p.DisplayName, ShouldEqual, "Cass")
		})

		Convey("When querying by an embedded numeric id", func() {
			p := res.ResolveByQuery("<@!100000001>")
			So(p, ShouldNotBeNil)
			So(p.DisplayName, ShouldEqual, "Annabel")
		})

		Convey("When nothing matches it returns nil, not an error", func() {
			So(res.ResolveByQuery("zelda"), ShouldBeNil)
			So(res.ResolveByQuery(""), ShouldBeNil)
		})
	})

	Convey("Given a resolver with a distribution result attached", t, func() {
		roster := []model.PlayerRecord{
			{DisplayName: "Annabel", ExternalID: "100000001"},
		}
		result := &model.DistributionResult{
			Groups: map[string][]model.PlayerRecord{
				"OTL": {{DisplayName: "Grouped", ExternalID: "100000009"}},
			},
			Overrides: []model.Override{
				{Player: model.PlayerRecord{DisplayName: "Held", ExternalID: "100000010"}, Kind: model.OverrideHold, Target: "RGR"},
			},
		}
		res := identity.NewResolver(roster, result)

		Convey("Then group members are found as a fallback", func() {
			p := res.ResolveByQuery("grouped")
			So(p, ShouldNotBeNil)
			So(p.ExternalID, ShouldEqual, "100000009")
		})

		Convey("Then override players are found as a fallback", func() {
			p := res.ResolveByQuery("<@100000010>")
			So(p, ShouldNotBeNil)
			So(p.DisplayName, ShouldEqual, "Held")
		})
	})
}
