package simulation

import "station-dashboard/internal/models"

const (
	bumpProbability = 0.35
	maxBumpKg       = 6
	maxIdleMinutes  = 60
)

// Tick advances every station by one period and returns a new slice. The
// input is left untouched.
func Tick(stations []models.Station, src Source) []models.Station {
	next := make([]models.Station, len(stations))
	for i, s := range stations {
		inc := 0
		if src.Float64() < bumpProbability {
			inc = src.IntN(maxBumpKg)
		}
		n := s.WithCompleted(min(s.TargetKg, s.CompletedKg+inc))
		if inc > 0 {
			n.LastLogMinutes = 0
		} else {
			n.LastLogMinutes = min(maxIdleMinutes, s.LastLogMinutes+1)
		}
		next[i] = n
	}
	return next
}
