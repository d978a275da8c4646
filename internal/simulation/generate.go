package simulation

import (
	"fmt"
	"math"

	"station-dashboard/internal/models"
)

const (
	StationCount    = 18
	DefaultTargetKg = 900

	firstStationNumber = 100
	intakeSortStations = 8
	qualityStations    = 6
)

// GenerateStations builds the startup station set: 8 intake-sort, 6 quality
// and 4 press stations with partially completed targets.
func GenerateStations(src Source) []models.Station {
	stations := make([]models.Station, 0, StationCount)
	for i := range StationCount {
		s := models.Station{
			ID:         fmt.Sprintf("KA-%d", firstStationNumber+i),
			Department: departmentFor(i),
			TargetKg:   DefaultTargetKg,
		}
		s = s.WithCompleted(400 + int(src.Float64()*450))
		s.LastLogMinutes = int(src.Float64() * 18)
		if src.Float64() < 0.25 {
			s.FireKg = 10 + int(src.Float64()*50)
		}
		if src.Float64() < 0.3 {
			s.PinePct = round(1+src.Float64()*3, 1)
		} else {
			s.PinePct = round(0.5+src.Float64(), 1)
		}
		stations = append(stations, s)
	}
	return stations
}

func departmentFor(i int) models.Department {
	switch {
	case i < intakeSortStations:
		return models.DepartmentIntakeSort
	case i < intakeSortStations+qualityStations:
		return models.DepartmentQuality
	default:
		return models.DepartmentPress
	}
}

func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
