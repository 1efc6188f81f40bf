package service

import (
	"encoding/json"
	"fmt"
	"time"
)

// sessionState is the persisted-state layout. The blob round-trips: a
// save followed by a load reproduces an equivalent distribution (given
// a fresh roster fetch) and an equivalent completion set.
type sessionState struct {
	SortMetric  string   `json:"sort_metric"`
	SeasonLabel string   `json:"season_label,omitempty"`
	Completed   []string `json:"completed_identifiers"`
	Timestamp   int64    `json:"timestamp"`
}

func encodeState(state sessionState) []byte {
	state.Timestamp = time.Now().Unix()
	if state.Completed == nil {
		state.Completed = []string{}
	}
	blob, err := json.Marshal(state)
	if err != nil {
		// Marshal of a plain struct cannot fail; keep the signature
		// simple for callers.
		return []byte("{}")
	}
	return blob
}

func decodeState(blob []byte) (sessionState, error) {
	var state sessionState
	if err := json.Unmarshal(blob, &state); err != nil {
		return sessionState{}, fmt.Errorf("decode state blob: %w", err)
	}
	return state, nil
}
