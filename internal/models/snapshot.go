package models

import "time"

// Snapshot is one published state of the whole floor. Stations must not be
// modified once the snapshot has been published.
type Snapshot struct {
	Seq         uint64    `json:"seq"`
	GeneratedAt time.Time `json:"generated_at"`
	Stations    []Station `json:"stations"`
}

// Station looks up a station by ID.
func (s *Snapshot) Station(id string) (Station, bool) {
	for _, st := range s.Stations {
		if st.ID == id {
			return st, true
		}
	}
	return Station{}, false
}

// Dashboard is the headline strip computed from a snapshot.
type Dashboard struct {
	Seq                 uint64            `json:"seq"`
	GeneratedAt         time.Time         `json:"generated_at"`
	Completion          CompletionSummary `json:"completion"`
	CapacityUtilization float64           `json:"capacity_utilization"`
	FireKg              int               `json:"fire_kg"`
	CompletionTone      string            `json:"completion_tone"`
	RemainingTone       string            `json:"remaining_tone"`
	AtRiskCount         int               `json:"at_risk_count"`
}
