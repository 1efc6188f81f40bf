// Package service provides the core session that implements the
// operations exposed through the Discord adapter.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/okian/clanmove/internal/adapters/roster"
	"github.com/okian/clanmove/internal/domain/completion"
	"github.com/okian/clanmove/internal/domain/distribute"
	"github.com/okian/clanmove/internal/domain/format"
	"github.com/okian/clanmove/internal/domain/identity"
	"github.com/okian/clanmove/internal/domain/model"
	"github.com/okian/clanmove/pkg/logger"
	"github.com/okian/clanmove/pkg/metrics"
)

// ResetScope selects what an administrative reset discards.
type ResetScope string

const (
	// ResetDistribution discards only the current distribution result.
	ResetDistribution ResetScope = "distribution-only"
	// ResetAll additionally clears the completion set and saved state.
	ResetAll ResetScope = "all"
)

// Service owns the session state: the current distribution result and
// the completion set. Every operation is one atomic request-response
// unit; the mutex serializes them so overlapping interactions from the
// chat platform cannot interleave mutations.
type Service struct {
	mu sync.Mutex

	store   roster.Store
	engine  *distribute.Engine
	tracker *completion.Tracker

	// Current session state, all guarded by mu.
	result   *model.DistributionResult
	roster   []model.PlayerRecord
	resolver *identity.Resolver

	// Configuration
	rosterRange   string
	sourceRange   string
	defaultMetric string

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the roster store. Required.
func WithStore(store roster.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithCapacity sets the per-clan headcount limit.
func WithCapacity(capacity int) Option {
	return func(s *Service) {
		if capacity > 0 {
			s.engine = distribute.New(distribute.WithCapacity(capacity))
		}
	}
}

// WithRosterRange sets the working roster range.
func WithRosterRange(rng string) Option {
	return func(s *Service) {
		if rng != "" {
			s.rosterRange = rng
		}
	}
}

// WithSourceRange sets the season source range for rollover.
func WithSourceRange(rng string) Option {
	return func(s *Service) {
		if rng != "" {
			s.sourceRange = rng
		}
	}
}

// WithDefaultMetric sets the metric used when a request names none.
func WithDefaultMetric(metric string) Option {
	return func(s *Service) {
		if metric != "" {
			s.defaultMetric = metric
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		engine:        distribute.New(),
		tracker:       completion.New(),
		rosterRange:   "Roster!A1:H60",
		sourceRange:   "Season!A1:H60",
		defaultMetric: "Trophies",
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Named("session")
	}
	return s
}

// Start restores persisted state and, when a previous run exists,
// rebuilds an equivalent distribution from a fresh roster fetch.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob, err := s.store.LoadState(ctx)
	if errors.Is(err, roster.ErrNoState) {
		s.logger.Info(ctx, "no saved state; starting empty")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}

	state, err := decodeState(blob)
	if err != nil {
		s.logger.Warn(ctx, "saved state unreadable; starting empty", logger.Error(err))
		return nil
	}

	s.tracker.Restore(state.Completed)
	metrics.UpdateCompletedPlayers(s.tracker.Size())

	if state.SortMetric == "" {
		return nil
	}
	if err := s.redistribute(ctx, state.SortMetric, state.SeasonLabel); err != nil {
		// A store outage at boot is not fatal; the state blob survives
		// for the next distribute.
		s.logger.Warn(ctx, "could not rebuild distribution from saved state", logger.Error(err))
		return nil
	}
	s.logger.Info(ctx, "restored session",
		logger.String("metric", state.SortMetric),
		logger.String("season", state.SeasonLabel),
		logger.Int("completed", s.tracker.Size()),
	)
	return nil
}

// Distribute runs a fresh distribution. An empty metric falls back to
// the configured default.
func (s *Service) Distribute(ctx context.Context, metricName, seasonLabel string) (*model.DistributionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if metricName == "" {
		metricName = s.defaultMetric
	}
	if err := s.redistribute(ctx, metricName, seasonLabel); err != nil {
		metrics.RecordDistributionError()
		return nil, err
	}
	if err := s.saveState(ctx); err != nil {
		s.logger.Warn(ctx, "state save failed after distribute", logger.Error(err))
	}
	return s.result, nil
}

// Refresh re-runs the distribution with the previous metric and season.
// Manual actions are re-read from the store; completion flags survive.
func (s *Service) Refresh(ctx context.Context) (*model.DistributionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.result == nil {
		return nil, ErrNoDistribution
	}
	if err := s.redistribute(ctx, s.result.SortMetric, s.result.SeasonLabel); err != nil {
		metrics.RecordDistributionError()
		return nil, err
	}
	return s.result, nil
}

// ManualMove force-moves a player to a clan by writing the manual
// action and re-running the distribution. The store write is confirmed
// before any in-memory state changes.
func (s *Service) ManualMove(ctx context.Context, query, clan string) (*model.DistributionResult, error) {
	if !model.IsClan(clan) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownClan, clan)
	}
	return s.writeActionAndRefresh(ctx, query, clan)
}

// Hold anchors a player in their current clan.
func (s *Service) Hold(ctx context.Context, query string) (*model.DistributionResult, error) {
	return s.writeActionAndRefresh(ctx, query, model.ActionHold)
}

// Include clears a player's manual action, returning them to automatic
// placement.
func (s *Service) Include(ctx context.Context, query string) (*model.DistributionResult, error) {
	return s.writeActionAndRefresh(ctx, query, "")
}

// ToggleComplete flips a player's done flag. The query is resolved
// against the roster when possible; an unresolvable query toggles the
// raw string so legacy mention entries keep working. Returns the new
// state and the display label of what was toggled.
func (s *Service) ToggleComplete(ctx context.Context, query string) (bool, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := query
	if s.resolver != nil {
		if p := s.resolver.ResolveByQuery(query); p != nil {
			id = identity.Identify(*p)
		}
	}

	now := s.tracker.Toggle(id)
	if err := s.saveState(ctx); err != nil {
		// Keep memory and store consistent: undo the flip.
		s.tracker.Toggle(id)
		return !now, id, fmt.Errorf("persist completion: %w", err)
	}
	metrics.RecordCompletionToggle()
	metrics.UpdateCompletedPlayers(s.tracker.Size())
	s.logger.Info(ctx, "completion toggled", logger.String("player", id), logger.Bool("complete", now))
	return now, id, nil
}

// FormatDistribution renders the current result as chat blocks.
func (s *Service) FormatDistribution() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return format.Distribution(s.result, s.tracker)
}

// Remaining builds the still-to-move view. A non-nil pinned list keeps
// membership fixed and re-evaluates flags only.
func (s *Service) Remaining(pinned []model.PlayerRecord) format.RemainingView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return format.Remaining(s.result, s.tracker, pinned)
}

// Result returns the current distribution result, nil before any run.
func (s *Service) Result() *model.DistributionResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// FindPlayer resolves a free-text query, nil on miss.
func (s *Service) FindPlayer(query string) *model.PlayerRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.resolver == nil {
		return nil
	}
	return s.resolver.ResolveByQuery(query)
}

// Reset discards the distribution and, with ResetAll, the completion
// set and the saved state.
func (s *Service) Reset(ctx context.Context, scope ResetScope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.result = nil
	s.roster = nil
	s.resolver = nil
	if scope == ResetAll {
		s.tracker.Reset()
		metrics.UpdateCompletedPlayers(0)
		if err := s.store.SaveState(ctx, encodeState(sessionState{})); err != nil {
			return fmt.Errorf("clear saved state: %w", err)
		}
	}
	s.logger.Info(ctx, "session reset", logger.String("scope", string(scope)))
	return nil
}

// Rollover copies the season source range over the working roster and
// discards the current distribution.
func (s *Service) Rollover(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.CopyRange(ctx, s.sourceRange, s.rosterRange); err != nil {
		return fmt.Errorf("season rollover: %w", err)
	}
	s.result = nil
	s.roster = nil
	s.resolver = nil
	return nil
}

// ClearActions empties every manual action cell in the store.
func (s *Service) ClearActions(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.ClearActions(ctx)
}

// writeActionAndRefresh is the shared path of manual operations: find
// the player, confirm the store write, then recompute everything.
func (s *Service) writeActionAndRefresh(ctx context.Context, query, action string) (*model.DistributionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var player *model.PlayerRecord
	if s.resolver != nil {
		player = s.resolver.ResolveByQuery(query)
	}
	if player == nil {
		metrics.RecordLookupMiss()
		return nil, fmt.Errorf("%w: %q", ErrPlayerNotFound, query)
	}

	key := player.ExternalID
	if key == "" {
		key = identity.Identify(*player)
	}
	if err := s.store.WriteAction(ctx, key, action); err != nil {
		return nil, fmt.Errorf("write action: %w", err)
	}

	metric, season := s.defaultMetric, ""
	if s.result != nil {
		metric, season = s.result.SortMetric, s.result.SeasonLabel
	}
	if err := s.redistribute(ctx, metric, season); err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "manual action applied",
		logger.String("player", identity.Identify(*player)),
		logger.String("action", action),
	)
	return s.result, nil
}

// redistribute fetches a fresh roster and recomputes the result.
// Callers hold mu. In-memory state is replaced only after the fetch
// succeeds, never partially.
func (s *Service) redistribute(ctx context.Context, metricName, seasonLabel string) error {
	records, err := s.store.Fetch(ctx, roster.Selector{Range: s.rosterRange, Metric: metricName})
	if err != nil {
		return fmt.Errorf("fetch roster: %w", err)
	}

	result := s.engine.Distribute(records, metricName, seasonLabel)
	result.RunID = uuid.NewString()

	s.roster = records
	s.result = &result
	s.resolver = identity.NewResolver(records, &result)

	metrics.RecordDistributionRun()
	metrics.UpdateUnplacedPlayers(len(result.Unplaced))
	overrideKinds := map[string]int{}
	for _, o := range result.Overrides {
		overrideKinds[o.Kind.String()]++
	}
	for _, kind := range []string{"hold", "stay", "move", "other"} {
		metrics.UpdateOverrides(kind, overrideKinds[kind])
	}
	for _, clan := range model.Clans() {
		metrics.UpdateClanHeadcount(clan, result.Counts[clan])
		metrics.UpdateClanVisibleMoves(clan, len(result.Groups[clan]))
	}

	if len(result.Unplaced) > 0 {
		s.logger.Warn(ctx, "all clans full; players left unplaced",
			logger.Int("unplaced", len(result.Unplaced)),
			logger.String("run", result.RunID),
		)
	}
	s.logger.Info(ctx, "distribution computed",
		logger.String("run", result.RunID),
		logger.String("metric", metricName),
		logger.Int("players", len(records)),
		logger.Int("overrides", len(result.Overrides)),
	)
	return nil
}

// saveState persists the session parameters and completion set.
// Callers hold mu.
func (s *Service) saveState(ctx context.Context) error {
	state := sessionState{Completed: s.tracker.Snapshot()}
	if s.result != nil {
		state.SortMetric = s.result.SortMetric
		state.SeasonLabel = s.result.SeasonLabel
	}
	return s.store.SaveState(ctx, encodeState(state))
}
