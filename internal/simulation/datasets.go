package simulation

import (
	"fmt"

	"station-dashboard/internal/models"
)

const pineTrendPoints = 12

// GenerateDatasets returns the chart series. Only the pine trend is random.
func GenerateDatasets(src Source) models.Datasets {
	trend := make([]models.PinePoint, 0, pineTrendPoints)
	for i := range pineTrendPoints {
		trend = append(trend, models.PinePoint{
			Label: fmt.Sprintf("%d:00", i*2),
			Pct:   round(0.5+src.Float64()*2.5, 2),
		})
	}
	return models.Datasets{
		QualityMix: []models.QualityBand{
			{Name: "Cream", Value: 12},
			{Name: "Extra", Value: 22},
			{Name: "Grade 1", Value: 28},
			{Name: "Grade 2", Value: 18},
			{Name: "Grade 3", Value: 12},
			{Name: "Grade 4-5/Waste", Value: 8},
		},
		Funnel: []models.FunnelStage{
			{Name: "Intake", Kg: 14800},
			{Name: "Completed", Kg: 12650},
			{Name: "Remaining", Kg: 2150},
		},
		Shipments: []models.ShipmentStatus{
			{Name: "On time", Count: 18},
			{Name: "At risk", Count: 3},
			{Name: "Late", Count: 1},
		},
		PineTrend: trend,
	}
}
