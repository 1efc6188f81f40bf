// Package identity resolves the canonical identifier for a player and
// answers free-text lookups used by manual operations.
//
// Identifier equality is the notion of "same player" everywhere in the
// bot. Column aliasing happens once when the roster is loaded, so by
// the time a record reaches this package the name-like columns have
// already collapsed into DisplayName.
package identity

import (
	"regexp"
	"strings"

	"github.com/okian/clanmove/internal/domain/model"
)

// UnknownName is returned when no field of a record carries a usable name.
const UnknownName = "Unknown"

// mentionID extracts the numeric id embedded in a mention-shaped token
// such as <@1234567890> or <@!1234567890>.
var mentionID = regexp.MustCompile(`(\d{6,})`)

// Identify returns the canonical identifier for a record. Pure and
// stable: equal record content always yields the same identifier.
// Resolution order, first match wins: display name, mention, external
// id, first non-empty extra cell, UnknownName.
func Identify(r model.PlayerRecord) string {
	if r.DisplayName != "" {
		return r.DisplayName
	}
	if r.Mention != "" {
		return r.Mention
	}
	if r.ExternalID != "" {
		return r.ExternalID
	}
	for _, v := range r.Extra {
		if v != "" {
			return v
		}
	}
	return UnknownName
}

// ExtractID returns the numeric external id embedded in a query, or ""
// when the query carries none.
func ExtractID(query string) string {
	return mentionID.FindString(query)
}

// Resolver answers free-text player lookups against a known roster plus
// the groups of the current distribution. Indexes are precomputed at
// construction; a Resolver is immutable after New.
type Resolver struct {
	roster  []model.PlayerRecord
	grouped []model.PlayerRecord

	byMention map[string]int // index into roster, exact mention
	byID      map[string]int // index into roster, external id
}

// NewResolver builds a resolver over the raw roster and, optionally,
// the groups of an existing distribution result. The roster is searched
// first; group members act as a fallback so manual operations can
// reference players already partitioned.
func NewResolver(roster []model.PlayerRecord, result *model.DistributionResult) *Resolver {
	r := &Resolver{
		roster:    roster,
		byMention: make(map[string]int, len(roster)),
		byID:      make(map[string]int, len(roster)),
	}
	for i, p := range roster {
		if p.Mention != "" {
			if _, dup := r.byMention[p.Mention]; !dup {
				r.byMention[p.Mention] = i
			}
		}
		if p.ExternalID != "" {
			if _, dup := r.byID[p.ExternalID]; !dup {
				r.byID[p.ExternalID] = i
			}
		}
	}
	if result != nil {
		for _, clan := range model.Clans() {
			r.grouped = append(r.grouped, result.Groups[clan]...)
		}
		for _, o := range result.Overrides {
			r.grouped = append(r.grouped, o.Player)
		}
	}
	return r
}

// ResolveByQuery finds the player a free-text query refers to.
// Match order: exact mention, case-insensitive exact-or-substring on
// the resolved name, then exact external id extracted from the query.
// Returns nil when nothing matches; a miss is not an error.
func (r *Resolver) ResolveByQuery(query string) *model.PlayerRecord {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	if i, ok := r.byMention[query]; ok {
		p := r.roster[i]
		return &p
	}

	if p := matchName(r.roster, query); p != nil {
		return p
	}

	if id := ExtractID(query); id != "" {
		if i, ok := r.byID[id]; ok {
			p := r.roster[i]
			return &p
		}
		if p := matchID(r.grouped, id); p != nil {
			return p
		}
	}

	// Fall back to group members for names absent from the raw roster.
	return matchName(r.grouped, query)
}

// matchName scans records for a case-insensitive exact or substring
// match on the canonical identifier. Exact wins over substring.
func matchName(records []model.PlayerRecord, query string) *model.PlayerRecord {
	q := strings.ToLower(query)
	var partial *model.PlayerRecord
	for i := range records {
		name := strings.ToLower(Identify(records[i]))
		if name == q {
			p := records[i]
			return &p
		}
		if partial == nil && strings.Contains(name, q) {
			p := records[i]
			partial = &p
		}
	}
	return partial
}

func matchID(records []model.PlayerRecord, id string) *model.PlayerRecord {
	for i := range records {
		if records[i].ExternalID == id {
			p := records[i]
			return &p
		}
	}
	return nil
}
