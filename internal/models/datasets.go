package models

// QualityBand is one grade bucket of the quality mix distribution.
type QualityBand struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// FunnelStage is a kg total for one stage of the intake funnel.
type FunnelStage struct {
	Name string `json:"name"`
	Kg   int    `json:"kg"`
}

// ShipmentStatus counts shipments in one delivery state.
type ShipmentStatus struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// PinePoint is one sample of the pine defect trend.
type PinePoint struct {
	Label string  `json:"t"`
	Pct   float64 `json:"pct"`
}

// Datasets are the chart series served next to the station data. They are
// generated once and do not depend on station state.
type Datasets struct {
	QualityMix []QualityBand    `json:"quality_mix"`
	Funnel     []FunnelStage    `json:"funnel"`
	Shipments  []ShipmentStatus `json:"shipments"`
	PineTrend  []PinePoint      `json:"pine_trend"`
}
