package models

// Department is the production stage a station belongs to.
type Department string

const (
	DepartmentIntakeSort Department = "intake-sort"
	DepartmentQuality    Department = "quality"
	DepartmentPress      Department = "press"
)

// Departments lists every stage in floor order.
var Departments = []Department{DepartmentIntakeSort, DepartmentQuality, DepartmentPress}

// ParseDepartment returns the Department named by s.
func ParseDepartment(s string) (Department, bool) {
	for _, d := range Departments {
		if string(d) == s {
			return d, true
		}
	}
	return "", false
}

// Station is one work cell tracking progress toward a kg target.
type Station struct {
	ID             string     `json:"id"`
	Department     Department `json:"department"`
	TargetKg       int        `json:"target_kg"`
	CompletedKg    int        `json:"completed_kg"`
	RemainingKg    int        `json:"remaining_kg"`
	LastLogMinutes int        `json:"last_log_minutes"`
	FireKg         int        `json:"fire_kg"`
	PinePct        float64    `json:"pine_pct"`
}

// CompletionRatio is CompletedKg/TargetKg, or 0 when the station has no target.
func (s Station) CompletionRatio() float64 {
	if s.TargetKg <= 0 {
		return 0
	}
	return float64(s.CompletedKg) / float64(s.TargetKg)
}

// WithCompleted returns a copy of s with CompletedKg set to kg, clamped to
// [0, TargetKg], and RemainingKg recomputed.
func (s Station) WithCompleted(kg int) Station {
	if kg > s.TargetKg {
		kg = s.TargetKg
	}
	if kg < 0 {
		kg = 0
	}
	s.CompletedKg = kg
	s.RemainingKg = max(0, s.TargetKg-kg)
	return s
}

// RiskAssessment is a derived view over a Station. It is recomputed on every
// query and never stored.
type RiskAssessment struct {
	Station  Station `json:"station"`
	TimeRisk bool    `json:"time_risk"`
	BurnRisk bool    `json:"burn_risk"`
	FireRisk bool    `json:"fire_risk"`
	PineRisk bool    `json:"pine_risk"`
	Score    int     `json:"score"`
}

// Flags names the triggered predicates in a fixed order.
func (r RiskAssessment) Flags() []string {
	flags := make([]string, 0, 4)
	if r.TimeRisk {
		flags = append(flags, "time")
	}
	if r.BurnRisk {
		flags = append(flags, "burn")
	}
	if r.FireRisk {
		flags = append(flags, "fire")
	}
	if r.PineRisk {
		flags = append(flags, "pine")
	}
	return flags
}

// CompletionSummary aggregates progress across a set of stations.
type CompletionSummary struct {
	CompletedKg    int     `json:"completed_kg"`
	TargetKg       int     `json:"target_kg"`
	RemainingKg    int     `json:"remaining_kg"`
	CompletionRate float64 `json:"completion_rate"`
}
