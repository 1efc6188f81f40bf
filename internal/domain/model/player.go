// Package model contains domain models passed between layers.
package model

import "strings"

// The three destination clans, in fixed placement order.
const (
	ClanRGR = "RGR"
	ClanOTL = "OTL"
	ClanRND = "RND"
)

// ActionHold is the manual action meaning "stay in the current clan".
const ActionHold = "Hold"

// DefaultCapacity is the per-clan headcount limit.
const DefaultCapacity = 50

// Clans returns the fixed clan order used for automatic placement.
// Callers must not mutate the returned slice.
func Clans() [3]string {
	return [3]string{ClanRGR, ClanOTL, ClanRND}
}

// IsClan reports whether name is one of the three clan labels.
func IsClan(name string) bool {
	return name == ClanRGR || name == ClanOTL || name == ClanRND
}

// CanonicalClan maps a case variant of a clan label to the canonical
// form. ok is false when name matches no clan at all.
func CanonicalClan(name string) (string, bool) {
	for _, clan := range Clans() {
		if strings.EqualFold(name, clan) {
			return clan, true
		}
	}
	return "", false
}

// PlayerRecord is one roster row after field aliasing has been resolved.
// Fields mirror the working sheet columns.
type PlayerRecord struct {
	DisplayName  string   // resolved display name, may be empty
	Mention      string   // platform mention string, e.g. "<@1234>", may be empty
	ExternalID   string   // opaque platform id used to address the player, may be empty
	CurrentClan  string   // free-text current group, empty means unknown
	Metric       float64  // ranking value, 0 when absent or unparseable
	ManualAction string   // clan name, "Hold", other free text, or empty
	Extra        []string // remaining raw cells in column order, identity fallback only
}
