package model

// OverrideKind classifies a non-empty manual action.
type OverrideKind int

const (
	// OverrideHold anchors the player in their current clan.
	OverrideHold OverrideKind = iota
	// OverrideStay is a force-move whose target equals the current clan.
	OverrideStay
	// OverrideMove is a force-move to a different clan.
	OverrideMove
	// OverrideOther is an unrecognized action, passed through untouched.
	OverrideOther
)

// String returns the human label for an override kind.
func (k OverrideKind) String() string {
	switch k {
	case OverrideHold:
		return "hold"
	case OverrideStay:
		return "stay"
	case OverrideMove:
		return "move"
	default:
		return "other"
	}
}

// Override is one manually-actioned player with its resolved disposition.
type Override struct {
	Player PlayerRecord
	Kind   OverrideKind
	Target string // clan label, "Unknown", or the raw action for OverrideOther
}

// DistributionResult is the output of one distribution run.
type DistributionResult struct {
	RunID       string
	SortMetric  string
	SeasonLabel string

	// Groups maps each clan to the players that must move there,
	// ordered by descending metric. Players already resident in their
	// assigned clan are counted in Counts but omitted here.
	Groups map[string][]PlayerRecord

	// Overrides preserves the input roster order of manually-actioned
	// players; it is never re-sorted by metric.
	Overrides []Override

	// Counts is the final headcount per clan, including residents and
	// anchored overrides that never appear in Groups.
	Counts map[string]int

	// Unplaced holds players left unassigned because every clan was
	// already at capacity. Non-empty Unplaced is a reportable
	// condition, not an error.
	Unplaced []PlayerRecord
}

// Empty reports whether the result carries no assignments at all.
func (r *DistributionResult) Empty() bool {
	if r == nil {
		return true
	}
	for _, g := range r.Groups {
		if len(g) > 0 {
			return false
		}
	}
	return len(r.Overrides) == 0 && len(r.Unplaced) == 0
}

// VisibleCount returns the number of players that must physically move
// into the given clan.
func (r *DistributionResult) VisibleCount(clan string) int {
	if r == nil {
		return 0
	}
	return len(r.Groups[clan])
}
