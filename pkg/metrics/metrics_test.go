package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNewManager(t *testing.T) {
	Convey("Given a manager on a fresh registry", t, func() {
		reg := prometheus.NewRegistry()
		m := NewManager(WithRegistry(reg), WithNamespace("test"), WithSubsystem("unit"))

		Convey("Then all metrics should be registered without panicking", func() {
			So(m, ShouldNotBeNil)
			families, err := reg.Gather()
			So(err, ShouldBeNil)
			So(len(families), ShouldBeGreaterThan, 0)
		})

		Convey("Then metric names should carry the configured namespace", func() {
			families, err := reg.Gather()
			So(err, ShouldBeNil)
			for _, f := range families {
				So(f.GetName(), ShouldStartWith, "test_unit_")
			}
		})
	})
}

func TestGlobalHelpers(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("When recording through every helper", func() {
			RecordDistributionRun()
			RecordDistributionError()
			UpdateUnplacedPlayers(2)
			UpdateClanHeadcount("RGR", 50)
			UpdateClanVisibleMoves("OTL", 12)
			UpdateOverrides("hold", 3)
			RecordCompletionToggle()
			UpdateCompletedPlayers(7)
			RecordRosterFetchLatency(12.5)
			RecordRosterWriteLatency(8.0)
			RecordRosterError()
			RecordStateSave()
			RecordStateLoad()
			RecordDiscordEvent("distribute")
			UpdateDiscordQueueDepth(1)
			RecordDiscordSendError()
			RecordLookupMiss()

			Convey("Then the handler should expose the recorded values", func() {
				rec := httptest.NewRecorder()
				Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
				body := rec.Body.String()
				So(rec.Code, ShouldEqual, 200)
				So(body, ShouldContainSubstring, "clanmove_bot_distributions_run_total")
				So(body, ShouldContainSubstring, `clanmove_bot_clan_headcount{clan="RGR"} 50`)
				So(body, ShouldContainSubstring, `clanmove_bot_discord_events_total{type="distribute"}`)
			})
		})
	})
}

func TestDisabledManager(t *testing.T) {
	Convey("Given a disabled manager", t, func() {
		reg := prometheus.NewRegistry()
		m := NewManager(WithRegistry(reg), WithEnabled(false))

		Convey("Then it should still register metrics but the enabled flag is off", func() {
			So(m.enabled, ShouldBeFalse)
			families, err := reg.Gather()
			So(err, ShouldBeNil)
			// Vec metrics have no series until first use.
			for _, f := range families {
				So(strings.HasPrefix(f.GetName(), "clanmove_"), ShouldBeTrue)
			}
		})
	})
}
