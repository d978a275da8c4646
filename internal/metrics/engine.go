// Package metrics derives dashboard aggregates and station risk from a list of
// stations. Every function is pure and leaves its input untouched.
package metrics

import (
	"slices"

	"station-dashboard/internal/models"
)

const (
	// DefaultRankLimit caps RankAtRisk when no positive limit is given.
	DefaultRankLimit = 8

	// ActiveWindowMinutes is the idle time below which a station counts as active.
	ActiveWindowMinutes = 15

	idleRiskMinutes  = 15
	burnRatio        = 0.75
	burnRemainingKg  = 200
	fireRiskKg       = 40
	pineRiskPct      = 3.0
	toneGreenRatio   = 0.9
	toneAmberRatio   = 0.75
	remainingRedKg   = 3000
	remainingAmberKg = 1500
)

const (
	ToneGreen = "green"
	ToneAmber = "amber"
	ToneRed   = "red"
)

// AggregateCompletion sums progress over all stations.
func AggregateCompletion(stations []models.Station) models.CompletionSummary {
	var sum models.CompletionSummary
	for _, s := range stations {
		sum.CompletedKg += s.CompletedKg
		sum.TargetKg += s.TargetKg
	}
	sum.RemainingKg = max(0, sum.TargetKg-sum.CompletedKg)
	if sum.TargetKg > 0 {
		sum.CompletionRate = float64(sum.CompletedKg) / float64(sum.TargetKg)
	}
	return sum
}

// CapacityUtilization is the share of stations that logged progress within
// the active window. It is 0 for an empty list.
func CapacityUtilization(stations []models.Station) float64 {
	if len(stations) == 0 {
		return 0
	}
	active := 0
	for _, s := range stations {
		if s.LastLogMinutes < ActiveWindowMinutes {
			active++
		}
	}
	return float64(active) / float64(len(stations))
}

// AssessRisk evaluates the four risk predicates for a station. A station with
// no target has a completion ratio of 0 and no remaining weight, so it never
// raises burn risk.
func AssessRisk(s models.Station) models.RiskAssessment {
	r := models.RiskAssessment{
		Station:  s,
		TimeRisk: s.LastLogMinutes > idleRiskMinutes,
		BurnRisk: s.CompletionRatio() < burnRatio && s.RemainingKg > burnRemainingKg,
		FireRisk: s.FireKg > fireRiskKg,
		PineRisk: s.PinePct > pineRiskPct,
	}
	for _, hit := range []bool{r.TimeRisk, r.BurnRisk, r.FireRisk, r.PineRisk} {
		if hit {
			r.Score++
		}
	}
	return r
}

// RankAtRisk assesses every station, drops those with a zero score and
// returns the rest ordered by score, highest first. Equal scores keep input
// order. limit <= 0 selects DefaultRankLimit.
func RankAtRisk(stations []models.Station, limit int) []models.RiskAssessment {
	if limit <= 0 {
		limit = DefaultRankLimit
	}
	ranked := make([]models.RiskAssessment, 0, len(stations))
	for _, s := range stations {
		if r := AssessRisk(s); r.Score > 0 {
			ranked = append(ranked, r)
		}
	}
	slices.SortStableFunc(ranked, func(a, b models.RiskAssessment) int {
		return b.Score - a.Score
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// TotalFireKg sums scrap weight across stations.
func TotalFireKg(stations []models.Station) int {
	total := 0
	for _, s := range stations {
		total += s.FireKg
	}
	return total
}

// CompletionTone buckets a completion ratio for display.
func CompletionTone(rate float64) string {
	switch {
	case rate >= toneGreenRatio:
		return ToneGreen
	case rate >= toneAmberRatio:
		return ToneAmber
	default:
		return ToneRed
	}
}

// RemainingTone buckets the outstanding weight for display.
func RemainingTone(remainingKg int) string {
	switch {
	case remainingKg > remainingRedKg:
		return ToneRed
	case remainingKg > remainingAmberKg:
		return ToneAmber
	default:
		return ToneGreen
	}
}

// Summarize builds the headline strip for a snapshot.
func Summarize(snap *models.Snapshot) models.Dashboard {
	completion := AggregateCompletion(snap.Stations)
	atRisk := 0
	for _, s := range snap.Stations {
		if AssessRisk(s).Score > 0 {
			atRisk++
		}
	}
	return models.Dashboard{
		Seq:                 snap.Seq,
		GeneratedAt:         snap.GeneratedAt,
		Completion:          completion,
		CapacityUtilization: CapacityUtilization(snap.Stations),
		FireKg:              TotalFireKg(snap.Stations),
		CompletionTone:      CompletionTone(completion.CompletionRate),
		RemainingTone:       RemainingTone(completion.RemainingKg),
		AtRiskCount:         atRisk,
	}
}
