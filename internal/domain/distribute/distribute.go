// Package distribute implements the capacity-bounded partition of a
// ranked roster into the three clans.
//
// The engine is a pure function of its inputs plus the configured
// capacity: no hidden state, no I/O, no clock. Re-running with an
// identical roster yields an identical result, which callers rely on
// for idempotent refreshes.
package distribute

import (
	"sort"
	"strings"

	"github.com/okian/clanmove/internal/domain/model"
)

// Engine partitions rosters. Zero-value capacity is replaced with
// model.DefaultCapacity; tests lower it through WithCapacity.
type Engine struct {
	capacity int
}

// New constructs an Engine with the given options.
func New(opts ...Option) *Engine {
	e := &Engine{capacity: model.DefaultCapacity}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Capacity returns the per-clan headcount limit.
func (e *Engine) Capacity() int { return e.capacity }

// Distribute partitions records into the three clans plus the override
// list. The metric name and season label are carried through for
// display and refresh; they do not affect placement.
//
// Capacity rules: Hold, Stay and Move overrides each consume a slot in
// their target clan. An unrecognized action consumes no slot anywhere;
// the player is excluded from automatic placement and surfaced in the
// override list so an operator can correct the cell.
func (e *Engine) Distribute(records []model.PlayerRecord, metricName, seasonLabel string) model.DistributionResult {
	result := model.DistributionResult{
		SortMetric:  metricName,
		SeasonLabel: seasonLabel,
		Groups:      make(map[string][]model.PlayerRecord, 3),
		Counts:      make(map[string]int, 3),
	}
	for _, clan := range model.Clans() {
		result.Groups[clan] = nil
		result.Counts[clan] = 0
	}

	// Split the roster: any non-empty manual action removes a player
	// from automatic placement, recognized or not.
	var available []model.PlayerRecord
	for _, rec := range records {
		if rec.ManualAction == "" {
			available = append(available, rec)
			continue
		}
		o := classify(rec)
		result.Overrides = append(result.Overrides, o)
		if countsAgainstCapacity(o) {
			result.Counts[o.Target]++
		}
	}

	// Rank the available players. sort.SliceStable keeps input order
	// for equal metrics, which makes ties deterministic.
	sort.SliceStable(available, func(i, j int) bool {
		return available[i].Metric > available[j].Metric
	})

	// Walk the ranked list with a cursor over the fixed clan order,
	// skipping clans already at capacity. Players who land in their
	// current clan consume a slot but need no visible move.
	clans := model.Clans()
	cursor := 0
	for _, rec := range available {
		for cursor < len(clans) && result.Counts[clans[cursor]] >= e.capacity {
			cursor++
		}
		if cursor >= len(clans) {
			result.Unplaced = append(result.Unplaced, rec)
			continue
		}
		clan := clans[cursor]
		result.Counts[clan]++
		if !strings.EqualFold(rec.CurrentClan, clan) {
			result.Groups[clan] = append(result.Groups[clan], rec)
		}
	}

	return result
}

// classify resolves the kind and target of one manual action.
func classify(rec model.PlayerRecord) model.Override {
	action := rec.ManualAction
	switch {
	case action == model.ActionHold:
		// Canonicalize case variants so the hold consumes a slot in the
		// same clan the placement loop recognizes as the player's home.
		target := rec.CurrentClan
		if canonical, ok := model.CanonicalClan(target); ok {
			target = canonical
		} else if target == "" {
			target = "Unknown"
		}
		return model.Override{Player: rec, Kind: model.OverrideHold, Target: target}
	case model.IsClan(action):
		if strings.EqualFold(rec.CurrentClan, action) {
			return model.Override{Player: rec, Kind: model.OverrideStay, Target: action}
		}
		return model.Override{Player: rec, Kind: model.OverrideMove, Target: action}
	default:
		return model.Override{Player: rec, Kind: model.OverrideOther, Target: action}
	}
}

// countsAgainstCapacity reports whether an override consumes a slot in
// its target clan. Hold, Stay and Move all do; a Hold anchored in an
// unknown clan and unrecognized actions do not.
func countsAgainstCapacity(o model.Override) bool {
	if o.Kind == model.OverrideOther {
		return false
	}
	return model.IsClan(o.Target)
}
