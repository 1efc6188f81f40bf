// Package metrics provides Prometheus metrics for the clanmove bot.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager manages all Prometheus metrics for the bot.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         *prometheus.Registry

	// Distribution metrics
	distributionsRun   prometheus.Counter
	unplacedPlayers    prometheus.Gauge
	clanHeadcount      *prometheus.GaugeVec
	clanVisibleMoves   *prometheus.GaugeVec
	overridesByKind    *prometheus.GaugeVec
	distributionErrors prometheus.Counter

	// Completion metrics
	completionToggles prometheus.Counter
	completedPlayers  prometheus.Gauge

	// Roster store metrics
	rosterFetchLatency prometheus.Histogram
	rosterWriteLatency prometheus.Histogram
	rosterErrors       prometheus.Counter
	stateSaves         prometheus.Counter
	stateLoads         prometheus.Counter

	// Discord adapter metrics
	discordEvents     *prometheus.CounterVec
	discordQueueDepth prometheus.Gauge
	discordSendErrors prometheus.Counter
	lookupMisses      prometheus.Counter
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "clanmove",
		subsystem:        "bot",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.NewRegistry(),
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.distributionsRun = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "distributions_run_total",
		Help:      "Total number of distribution runs",
	})

	m.unplacedPlayers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "unplaced_players",
		Help:      "Players left unassigned in the last run because every clan was full",
	})

	m.clanHeadcount = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "clan_headcount",
		Help:      "Final headcount per clan after the last run",
	}, []string{"clan"})

	m.clanVisibleMoves = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "clan_visible_moves",
		Help:      "Players that must physically move into each clan after the last run",
	}, []string{"clan"})

	m.overridesByKind = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "overrides",
		Help:      "Manually-actioned players from the last run, by resolved kind",
	}, []string{"kind"})

	m.distributionErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "distribution_errors_total",
		Help:      "Total number of failed distribution requests",
	})

	m.completionToggles = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "completion_toggles_total",
		Help:      "Total number of completion flag toggles",
	})

	m.completedPlayers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "completed_players",
		Help:      "Current number of players marked as moved",
	})

	m.rosterFetchLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "roster_fetch_latency_milliseconds",
		Help:      "Histogram of roster fetch latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.rosterWriteLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "roster_write_latency_milliseconds",
		Help:      "Histogram of roster write latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.rosterErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "roster_errors_total",
		Help:      "Total number of roster store failures",
	})

	m.stateSaves = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "state_saves_total",
		Help:      "Total number of persisted state snapshots",
	})

	m.stateLoads = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "state_loads_total",
		Help:      "Total number of restored state snapshots",
	})

	m.discordEvents = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "discord_events_total",
		Help:      "Total number of inbound Discord interactions, by type",
	}, []string{"type"})

	m.discordQueueDepth = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "discord_event_queue_depth",
		Help:      "Current depth of the serialized interaction queue",
	})

	m.discordSendErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "discord_send_errors_total",
		Help:      "Total number of failed Discord sends",
	})

	m.lookupMisses = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "lookup_misses_total",
		Help:      "Total number of manual operations that matched no player",
	})
}

// Handler returns an http.Handler serving the custom registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(customRegistry, promhttp.HandlerOpts{})
}

// Package-level helpers against the global manager.

// RecordDistributionRun increments the run counter.
func RecordDistributionRun() {
	if globalManager.enabled {
		globalManager.distributionsRun.Inc()
	}
}

// RecordDistributionError increments the failed-run counter.
func RecordDistributionError() {
	if globalManager.enabled {
		globalManager.distributionErrors.Inc()
	}
}

// UpdateUnplacedPlayers sets the unplaced-player gauge.
func UpdateUnplacedPlayers(n int) {
	if globalManager.enabled {
		globalManager.unplacedPlayers.Set(float64(n))
	}
}

// UpdateClanHeadcount sets the headcount gauge for one clan.
func UpdateClanHeadcount(clan string, n int) {
	if globalManager.enabled {
		globalManager.clanHeadcount.WithLabelValues(clan).Set(float64(n))
	}
}

// UpdateClanVisibleMoves sets the visible-move gauge for one clan.
func UpdateClanVisibleMoves(clan string, n int) {
	if globalManager.enabled {
		globalManager.clanVisibleMoves.WithLabelValues(clan).Set(float64(n))
	}
}

// UpdateOverrides sets the override gauge for one kind.
func UpdateOverrides(kind string, n int) {
	if globalManager.enabled {
		globalManager.overridesByKind.WithLabelValues(kind).Set(float64(n))
	}
}

// RecordCompletionToggle increments the toggle counter.
func RecordCompletionToggle() {
	if globalManager.enabled {
		globalManager.completionToggles.Inc()
	}
}

// UpdateCompletedPlayers sets the completed-player gauge.
func UpdateCompletedPlayers(n int) {
	if globalManager.enabled {
		globalManager.completedPlayers.Set(float64(n))
	}
}

// RecordRosterFetchLatency records one fetch duration in milliseconds.
func RecordRosterFetchLatency(ms float64) {
	if globalManager.enabled {
		globalManager.rosterFetchLatency.Observe(ms)
	}
}

// RecordRosterWriteLatency records one write duration in milliseconds.
func RecordRosterWriteLatency(ms float64) {
	if globalManager.enabled {
		globalManager.rosterWriteLatency.Observe(ms)
	}
}

// RecordRosterError increments the roster failure counter.
func RecordRosterError() {
	if globalManager.enabled {
		globalManager.rosterErrors.Inc()
	}
}

// RecordStateSave increments the snapshot-save counter.
func RecordStateSave() {
	if globalManager.enabled {
		globalManager.stateSaves.Inc()
	}
}

// RecordStateLoad increments the snapshot-load counter.
func RecordStateLoad() {
	if globalManager.enabled {
		globalManager.stateLoads.Inc()
	}
}

// RecordDiscordEvent increments the inbound interaction counter for a type.
func RecordDiscordEvent(eventType string) {
	if globalManager.enabled {
		globalManager.discordEvents.WithLabelValues(eventType).Inc()
	}
}

// UpdateDiscordQueueDepth sets the interaction queue depth gauge.
func UpdateDiscordQueueDepth(n int) {
	if globalManager.enabled {
		globalManager.discordQueueDepth.Set(float64(n))
	}
}

// RecordDiscordSendError increments the failed-send counter.
func RecordDiscordSendError() {
	if globalManager.enabled {
		globalManager.discordSendErrors.Inc()
	}
}

// RecordLookupMiss increments the player-not-found counter.
func RecordLookupMiss() {
	if globalManager.enabled {
		globalManager.lookupMisses.Inc()
	}
}
