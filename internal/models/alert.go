package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	AlertRaised  = "raised"
	AlertCleared = "cleared"
)

// Alert records a station crossing the risk threshold in either direction.
type Alert struct {
	ID         [16]byte   `json:"id"`
	Kind       string     `json:"kind"`
	StationID  string     `json:"station_id"`
	Department Department `json:"department"`
	Score      int        `json:"score"`
	Flags      []string   `json:"flags"`
	Seq        uint64     `json:"seq"`
	RaisedAt   time.Time  `json:"raised_at"`
}

// NewAlert builds an Alert of the given kind from a risk assessment.
func NewAlert(kind string, r RiskAssessment, seq uint64, at time.Time) Alert {
	return Alert{
		ID:         uuid.New(),
		Kind:       kind,
		StationID:  r.Station.ID,
		Department: r.Station.Department,
		Score:      r.Score,
		Flags:      r.Flags(),
		Seq:        seq,
		RaisedAt:   at,
	}
}

// MarshalJSON renders the ID as a UUID string.
func (a Alert) MarshalJSON() ([]byte, error) {
	type Alias Alert
	return json.Marshal(&struct {
		ID string `json:"id"`
		*Alias
	}{
		ID:    uuid.UUID(a.ID).String(),
		Alias: (*Alias)(&a),
	})
}
