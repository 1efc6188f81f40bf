// Package format turns distribution results into chat-ready text.
//
// The formatter reads domain state but owns none of it. Output is plain
// text split into blocks at section boundaries only; the chat adapter
// may split further but never mid-line.
package format

import (
	"fmt"
	"strings"

	"github.com/okian/clanmove/internal/domain/identity"
	"github.com/okian/clanmove/internal/domain/model"
)

// DoneMarker is appended to the line of a player who already moved.
const DoneMarker = " ✅"

// CompletionChecker answers whether a player has completed their move.
// *completion.Tracker satisfies it.
type CompletionChecker interface {
	IsComplete(rec model.PlayerRecord) bool
}

// RemainingView is the "still need to move" view.
type RemainingView struct {
	Text    string
	Players []model.PlayerRecord
	AllDone bool
}

// Distribution renders one text block per clan in fixed order, followed
// by an overrides block when any overrides exist, and an unplaced block
// when placement was truncated.
func Distribution(result *model.DistributionResult, done CompletionChecker) []string {
	if result == nil {
		return nil
	}

	var blocks []string
	for _, clan := range model.Clans() {
		var b strings.Builder
		group := result.Groups[clan]
		fmt.Fprintf(&b, "**%s** — %d to move (headcount %d)\n", clan, len(group), result.Counts[clan])
		for _, p := range group {
			b.WriteString(playerLine(p, result.SortMetric, done))
			b.WriteByte('\n')
		}
		blocks = append(blocks, strings.TrimRight(b.String(), "\n"))
	}

	if len(result.Overrides) > 0 {
		var b strings.Builder
		fmt.Fprintf(&b, "**Wildcards** — %d\n", len(result.Overrides))
		for _, o := range result.Overrides {
			b.WriteString(overrideLine(o, done))
			b.WriteByte('\n')
		}
		blocks = append(blocks, strings.TrimRight(b.String(), "\n"))
	}

	if len(result.Unplaced) > 0 {
		var b strings.Builder
		fmt.Fprintf(&b, "**Unplaced** — all clans full, %d left out\n", len(result.Unplaced))
		for _, p := range result.Unplaced {
			b.WriteString(playerLine(p, result.SortMetric, nil))
			b.WriteByte('\n')
		}
		blocks = append(blocks, strings.TrimRight(b.String(), "\n"))
	}

	return blocks
}

// Remaining builds the still-need-to-move view.
//
// With a pinned list the membership is taken verbatim and only the
// completion flags are re-evaluated, so a posted list never grows or
// shrinks on refresh. Without one, membership is rebuilt from every
// visible group member plus every Move override; Hold and Stay entries
// require no move and are never remaining.
func Remaining(result *model.DistributionResult, done CompletionChecker, pinned []model.PlayerRecord) RemainingView {
	var players []model.PlayerRecord
	switch {
	case pinned != nil:
		players = pinned
	case result != nil:
		for _, clan := range model.Clans() {
			players = append(players, result.Groups[clan]...)
		}
		for _, o := range result.Overrides {
			if o.Kind == model.OverrideMove {
				players = append(players, o.Player)
			}
		}
	}

	view := RemainingView{Players: players, AllDone: true}

	var b strings.Builder
	b.WriteString("**Players still to move**\n")
	remaining := 0
	for _, p := range players {
		complete := done != nil && done.IsComplete(p)
		if !complete {
			view.AllDone = false
			remaining++
		}
		line := playerLine(p, metricName(result), nil)
		if complete {
			line += DoneMarker
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if len(players) == 0 {
		b.WriteString("nobody — nothing to do\n")
	} else if view.AllDone {
		b.WriteString("all moves completed \U0001F389\n")
	} else {
		fmt.Fprintf(&b, "%d remaining\n", remaining)
	}
	view.Text = strings.TrimRight(b.String(), "\n")

	return view
}

// playerLine renders one player: mention when known, display name,
// metric value, completion marker.
func playerLine(p model.PlayerRecord, metric string, done CompletionChecker) string {
	var b strings.Builder
	b.WriteString("• ")
	if p.Mention != "" {
		b.WriteString(p.Mention)
		b.WriteByte(' ')
	}
	b.WriteString(identity.Identify(p))
	if metric != "" {
		fmt.Fprintf(&b, " — %s %s", metric, trimFloat(p.Metric))
	}
	if done != nil && done.IsComplete(p) {
		b.WriteString(DoneMarker)
	}
	return b.String()
}

// overrideLine renders one wildcard row with its disposition.
func overrideLine(o model.Override, done CompletionChecker) string {
	var b strings.Builder
	b.WriteString("• ")
	if o.Player.Mention != "" {
		b.WriteString(o.Player.Mention)
		b.WriteByte(' ')
	}
	b.WriteString(identity.Identify(o.Player))
	switch o.Kind {
	case model.OverrideHold, model.OverrideStay:
		fmt.Fprintf(&b, " stays in %s", o.Target)
	case model.OverrideMove:
		fmt.Fprintf(&b, " moves to %s", o.Target)
	default:
		fmt.Fprintf(&b, " has unrecognized action %q", o.Target)
	}
	if done != nil && done.IsComplete(o.Player) {
		b.WriteString(DoneMarker)
	}
	return b.String()
}

func metricName(result *model.DistributionResult) string {
	if result == nil {
		return ""
	}
	return result.SortMetric
}

// trimFloat renders a metric without a trailing ".0" noise for whole
// numbers.
func trimFloat(v float64) string {
	s := fmt.Sprintf("%.1f", v)
	return strings.TrimSuffix(s, ".0")
}
