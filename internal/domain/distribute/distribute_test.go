package distribute_test

import (
	"fmt"
	"testing"

	"github.com/okian/clanmove/internal/domain/distribute"
	"github.com/okian/clanmove/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func player(name, clan string, metric float64) model.PlayerRecord {
	return model.PlayerRecord{DisplayName: name, CurrentClan: clan, Metric: metric}
}

func actioned(name, clan string, metric float64, action string) model.PlayerRecord {
	p := player(name, clan, metric)
	p.ManualAction = action
	return p
}

func TestDistributeBasics(t *testing.T) {
	Convey("Given an engine with default capacity", t, func() {
		engine := distribute.New()

		Convey("When distributing an empty roster", func() {
			result := engine.Distribute(nil, "Trophies", "")

			Convey("Then the result is empty and well-formed", func() {
				So(result.Empty(), ShouldBeTrue)
				So(result.SortMetric, ShouldEqual, "Trophies")
				for _, clan := range model.Clans() {
					So(result.Counts[clan], ShouldEqual, 0)
				}
			})
		})

		Convey("When distributing six players with no actions", func() {
			roster := []model.PlayerRecord{
				player("P1", "", 600),
				player("P2", "", 500),
				player("P3", "", 400),
				player("P4", "", 300),
				player("P5", "", 200),
				player("P6", "", 100),
			}
			small := distribute.New(distribute.WithCapacity(2))
			result := small.Distribute(roster, "Trophies", "S1")

			Convey("Then players fill clans in rank order", func() {
				So(result.Groups["RGR"], ShouldHaveLength, 2)
				So(result.Groups["RGR"][0].DisplayName, ShouldEqual, "P1")
				So(result.Groups["RGR"][1].DisplayName, ShouldEqual, "P2")
				So(result.Groups["OTL"][0].DisplayName, ShouldEqual, "P3")
				So(result.Groups["RND"][1].DisplayName, ShouldEqual, "P6")
			})

			Convey("Then the season label is retained", func() {
				So(result.SeasonLabel, ShouldEqual, "S1")
			})
		})
	})
}

func TestCapacityInvariant(t *testing.T) {
	Convey("Given a large mixed roster", t, func() {
		var roster []model.PlayerRecord
		for i := 0; i < 40; i++ {
			roster = append(roster, player(fmt.Sprintf("A%d", i), "RGR", float64(1000-i)))
		}
		roster = append(roster,
			actioned("H1", "RGR", 10, "Hold"),
			actioned("H2", "OTL", 10, "Hold"),
			actioned("M1", "RND", 10, "OTL"),
			actioned("S1", "RND", 10, "RND"),
		)
		engine := distribute.New(distribute.WithCapacity(10))

		Convey("When distributing", func() {
			result := engine.Distribute(roster, "Trophies", "")

			Convey("Then no clan's headcount exceeds capacity", func() {
				for _, clan := range model.Clans() {
					So(result.Counts[clan], ShouldBeLessThanOrEqualTo, 10)
				}
			})

			Convey("Then visible moves never exceed the headcount", func() {
				for _, clan := range model.Clans() {
					So(len(result.Groups[clan]), ShouldBeLessThanOrEqualTo, result.Counts[clan])
				}
			})
		})
	})
}

func TestDeterminismAndStableSort(t *testing.T) {
	Convey("Given a roster with tied metrics", t, func() {
		roster := []model.PlayerRecord{
			player("First", "", 500),
			player("Second", "", 500),
			player("Third", "", 500),
			player("Top", "", 900),
		}
		engine := distribute.New(distribute.WithCapacity(50))

		Convey("When distributing twice", func() {
			a := engine.Distribute(roster, "Trophies", "")
			b := engine.Distribute(roster, "Trophies", "")

			Convey("Then both runs produce identical structure", func() {
				So(b.Groups, ShouldResemble, a.Groups)
				So(b.Overrides, ShouldResemble, a.Overrides)
				So(b.Counts, ShouldResemble, a.Counts)
			})

			Convey("Then tied players keep their input order", func() {
				rgr := a.Groups["RGR"]
				So(rgr[0].DisplayName, ShouldEqual, "Top")
				So(rgr[1].DisplayName, ShouldEqual, "First")
				So(rgr[2].DisplayName, ShouldEqual, "Second")
				So(rgr[3].DisplayName, ShouldEqual, "Third")
			})
		})
	})
}

func TestNoOpSuppression(t *testing.T) {
	Convey("Given a top player already resident in the first clan", t, func() {
		roster := []model.PlayerRecord{
			player("Resident", "RGR", 900),
			player("Mover", "OTL", 800),
		}
		engine := distribute.New(distribute.WithCapacity(1))

		Convey("When distributing", func() {
			result := engine.Distribute(roster, "Trophies", "")

			Convey("Then the resident is counted but not visible", func() {
				So(result.Counts["RGR"], ShouldEqual, 1)
				So(result.Groups["RGR"], ShouldBeEmpty)
			})

			Convey("Then the resident's slot pushes the next player onward", func() {
				So(result.Groups["OTL"], ShouldBeEmpty) // Mover already lives in OTL
				So(result.Counts["OTL"], ShouldEqual, 1)
			})

			Convey("Then clan comparison is case-insensitive", func() {
				r2 := engine.Distribute([]model.PlayerRecord{player("Lower", "rgr", 900)}, "Trophies", "")
				So(r2.Counts["RGR"], ShouldEqual, 1)
				So(r2.Groups["RGR"], ShouldBeEmpty)
			})
		})
	})
}

func TestOverrideClassification(t *testing.T) {
	Convey("Given players with every kind of manual action", t, func() {
		roster := []model.PlayerRecord{
			actioned("Held", "OTL", 700, "Hold"),
			actioned("HeldNowhere", "", 650, "Hold"),
			actioned("Stayer", "RND", 600, "RND"),
			actioned("Mover", "RND", 100, "OTL"),
			actioned("Typo", "RGR", 50, "OTTL"),
		}
		engine := distribute.New()

		Convey("When distributing", func() {
			result := engine.Distribute(roster, "Trophies", "")

			Convey("Then overrides keep input roster order", func() {
				So(result.Overrides, ShouldHaveLength, 5)
				So(result.Overrides[0].Player.DisplayName, ShouldEqual, "Held")
				So(result.Overrides[4].Player.DisplayName, ShouldEqual, "Typo")
			})

			Convey("Then Hold anchors at the current clan", func() {
				So(result.Overrides[0].Kind, ShouldEqual, model.OverrideHold)
				So(result.Overrides[0].Target, ShouldEqual, "OTL")
			})

			Convey("Then Hold without a clan anchors at Unknown", func() {
				So(result.Overrides[1].Kind, ShouldEqual, model.OverrideHold)
				So(result.Overrides[1].Target, ShouldEqual, "Unknown")
			})

			Convey("Then an action matching the current clan is a stay", func() {
				So(result.Overrides[2].Kind, ShouldEqual, model.OverrideStay)
				So(result.Overrides[2].Target, ShouldEqual, "RND")
			})

			Convey("Then an action naming another clan is a move", func() {
				So(result.Overrides[3].Kind, ShouldEqual, model.OverrideMove)
				So(result.Overrides[3].Target, ShouldEqual, "OTL")
			})

			Convey("Then an unrecognized action passes through raw", func() {
				So(result.Overrides[4].Kind, ShouldEqual, model.OverrideOther)
				So(result.Overrides[4].Target, ShouldEqual, "OTTL")
			})

			Convey("Then Hold, Stay and Move consume slots but Other does not", func() {
				So(result.Counts["OTL"], ShouldEqual, 2) // Held + Mover
				So(result.Counts["RND"], ShouldEqual, 1) // Stayer
				So(result.Counts["RGR"], ShouldEqual, 0) // Typo counts nowhere
			})
		})
	})
}

func TestMoveOverrideConsumesSlot(t *testing.T) {
	Convey("Given a move override into a clan with one slot", t, func() {
		roster := []model.PlayerRecord{
			actioned("Forced", "RND", 10, "RGR"),
			player("Ranked", "", 999),
		}
		engine := distribute.New(distribute.WithCapacity(1))

		Convey("When distributing", func() {
			result := engine.Distribute(roster, "Trophies", "")

			Convey("Then the forced player holds the slot and the ranked player skips ahead", func() {
				So(result.Counts["RGR"], ShouldEqual, 1)
				So(result.Groups["RGR"], ShouldBeEmpty)
				So(result.Groups["OTL"], ShouldHaveLength, 1)
				So(result.Groups["OTL"][0].DisplayName, ShouldEqual, "Ranked")
			})
		})
	})
}

func TestHoldInCaseVariantClan(t *testing.T) {
	Convey("Given a held player whose current clan is a case variant", t, func() {
		roster := []model.PlayerRecord{
			actioned("Held", "rgr", 10, "Hold"),
			player("Ranked", "", 999),
		}
		engine := distribute.New(distribute.WithCapacity(1))

		Convey("When distributing", func() {
			result := engine.Distribute(roster, "Trophies", "")

			Convey("Then the hold anchors at the canonical clan label", func() {
				So(result.Overrides[0].Kind, ShouldEqual, model.OverrideHold)
				So(result.Overrides[0].Target, ShouldEqual, "RGR")
			})

			Convey("Then the hold consumes the clan's only slot", func() {
				So(result.Counts["RGR"], ShouldEqual, 1)
				So(result.Groups["RGR"], ShouldBeEmpty)
			})

			Convey("Then the ranked player is pushed to the next clan", func() {
				So(result.Groups["OTL"], ShouldHaveLength, 1)
				So(result.Groups["OTL"][0].DisplayName, ShouldEqual, "Ranked")
			})
		})
	})
}

func TestCapacityExhaustion(t *testing.T) {
	Convey("Given more players than total capacity", t, func() {
		var roster []model.PlayerRecord
		for i := 0; i < 5; i++ {
			roster = append(roster, player(fmt.Sprintf("P%d", i), "", float64(500-i)))
		}
		engine := distribute.New(distribute.WithCapacity(1))

		Convey("When distributing", func() {
			result := engine.Distribute(roster, "Trophies", "")

			Convey("Then three players are placed and the rest surface as unplaced", func() {
				placed := 0
				for _, clan := range model.Clans() {
					placed += result.Counts[clan]
				}
				So(placed, ShouldEqual, 3)
				So(result.Unplaced, ShouldHaveLength, 2)
				So(result.Unplaced[0].DisplayName, ShouldEqual, "P3")
				So(result.Unplaced[1].DisplayName, ShouldEqual, "P4")
			})
		})
	})
}

func TestReferenceScenario(t *testing.T) {
	Convey("Given the four-player reference roster at capacity one", t, func() {
		roster := []model.PlayerRecord{
			player("P1", "", 7480),
			actioned("P2", "RGR", 7410, "Hold"),
			actioned("P3", "RND", 100, "OTL"),
			player("P4", "", 50),
		}
		engine := distribute.New(distribute.WithCapacity(1))

		Convey("When distributing", func() {
			result := engine.Distribute(roster, "Trophies", "")

			Convey("Then P2's hold consumes RGR's only slot", func() {
				So(result.Counts["RGR"], ShouldEqual, 1)
				So(result.Groups["RGR"], ShouldBeEmpty)
			})

			Convey("Then P3's move consumes OTL's only slot", func() {
				// The move override is classified before automatic
				// placement, so OTL is already full when P1 is placed.
				So(result.Overrides[1].Kind, ShouldEqual, model.OverrideMove)
				So(result.Overrides[1].Target, ShouldEqual, "OTL")
				So(result.Counts["OTL"], ShouldEqual, 1)
			})

			Convey("Then P1 lands in RND and P4 is unplaced", func() {
				So(result.Groups["RND"], ShouldHaveLength, 1)
				So(result.Groups["RND"][0].DisplayName, ShouldEqual, "P1")
				So(result.Unplaced, ShouldHaveLength, 1)
				So(result.Unplaced[0].DisplayName, ShouldEqual, "P4")
			})
		})
	})
}
