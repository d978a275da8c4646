package metrics

import (
	"math"
	"reflect"
	"testing"

	"station-dashboard/internal/models"
)

func station(id string, target, completed int) models.Station {
	return models.Station{
		ID:          id,
		Department:  models.DepartmentQuality,
		TargetKg:    target,
		CompletedKg: completed,
		RemainingKg: max(0, target-completed),
		PinePct:     1.0,
	}
}

func TestAggregateCompletionEmpty(t *testing.T) {
	got := AggregateCompletion(nil)
	if got != (models.CompletionSummary{}) {
		t.Fatalf("expected zero summary, got %+v", got)
	}
}

func TestAggregateCompletionTwoStations(t *testing.T) {
	got := AggregateCompletion([]models.Station{
		station("KA-100", 900, 900),
		station("KA-101", 900, 0),
	})
	want := models.CompletionSummary{CompletedKg: 900, TargetKg: 1800, RemainingKg: 900, CompletionRate: 0.5}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestCapacityUtilization(t *testing.T) {
	if got := CapacityUtilization(nil); got != 0 {
		t.Fatalf("expected 0 for empty input, got %.2f", got)
	}
	stations := []models.Station{
		{LastLogMinutes: 0},
		{LastLogMinutes: 14},
		{LastLogMinutes: 15},
		{LastLogMinutes: 60},
	}
	if got := CapacityUtilization(stations); got != 0.5 {
		t.Fatalf("expected 0.5, got %.2f", got)
	}
}

func TestAssessRiskAllPredicates(t *testing.T) {
	s := models.Station{
		ID:             "KA-105",
		TargetKg:       900,
		CompletedKg:    600,
		RemainingKg:    300,
		LastLogMinutes: 20,
		FireKg:         50,
		PinePct:        3.5,
	}
	r := AssessRisk(s)
	if !r.TimeRisk || !r.BurnRisk || !r.FireRisk || !r.PineRisk {
		t.Fatalf("expected every predicate to fire, got %+v", r)
	}
	if r.Score != 4 {
		t.Fatalf("expected score 4, got %d", r.Score)
	}
}

func TestAssessRiskThresholdsAreStrict(t *testing.T) {
	s := models.Station{
		TargetKg:       900,
		CompletedKg:    675,
		RemainingKg:    225,
		LastLogMinutes: 15,
		FireKg:         40,
		PinePct:        3.0,
	}
	r := AssessRisk(s)
	if r.Score != 0 {
		t.Fatalf("expected boundary values to score 0, got %+v", r)
	}
}

func TestAssessRiskBurnNeedsRemainingWeight(t *testing.T) {
	s := models.Station{TargetKg: 700, CompletedKg: 500, RemainingKg: 200}
	if AssessRisk(s).BurnRisk {
		t.Fatalf("expected no burn risk with exactly 200kg remaining")
	}
	s = s.WithCompleted(499)
	if !AssessRisk(s).BurnRisk {
		t.Fatalf("expected burn risk with 201kg remaining")
	}
}

func TestAssessRiskZeroTarget(t *testing.T) {
	s := models.Station{ID: "KA-999", TargetKg: 0, CompletedKg: 0, RemainingKg: 0}
	r := AssessRisk(s)
	if r.BurnRisk {
		t.Fatalf("expected burn risk to stay false with zero target")
	}
	if r.Score != 0 {
		t.Fatalf("expected score 0, got %d", r.Score)
	}
}

func TestAssessRiskIdempotent(t *testing.T) {
	s := models.Station{TargetKg: 900, CompletedKg: 500, RemainingKg: 400, LastLogMinutes: 30, FireKg: 45, PinePct: 2.0}
	a, b := AssessRisk(s), AssessRisk(s)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("expected identical assessments, got %+v and %+v", a, b)
	}
}

func TestRankAtRiskOrderingAndFiltering(t *testing.T) {
	stations := []models.Station{
		{ID: "A", TargetKg: 900, CompletedKg: 900, PinePct: 1},
		{ID: "B", TargetKg: 900, CompletedKg: 900, FireKg: 50},
		{ID: "C", TargetKg: 900, CompletedKg: 100, RemainingKg: 800, LastLogMinutes: 30, FireKg: 50},
		{ID: "D", TargetKg: 900, CompletedKg: 900, PinePct: 4},
		{ID: "E", TargetKg: 900, CompletedKg: 100, RemainingKg: 800, LastLogMinutes: 20},
	}
	got := RankAtRisk(stations, 0)
	ids := make([]string, 0, len(got))
	for _, r := range got {
		ids = append(ids, r.Station.ID)
	}
	want := []string{"C", "E", "B", "D"}
	if !reflect.DeepEqual(ids, want) {
		t.Fatalf("expected order %v, got %v", want, ids)
	}
	if stations[0].ID != "A" || stations[2].ID != "C" {
		t.Fatalf("input slice was reordered")
	}
}

func TestRankAtRiskLimit(t *testing.T) {
	stations := make([]models.Station, 0, 12)
	for range 12 {
		stations = append(stations, models.Station{TargetKg: 900, CompletedKg: 900, FireKg: 41})
	}
	if got := RankAtRisk(stations, 0); len(got) != DefaultRankLimit {
		t.Fatalf("expected default limit %d, got %d", DefaultRankLimit, len(got))
	}
	if got := RankAtRisk(stations, 3); len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	if got := RankAtRisk(nil, 5); len(got) != 0 {
		t.Fatalf("expected no entries for empty input, got %d", len(got))
	}
}

func TestTones(t *testing.T) {
	cases := []struct {
		rate float64
		want string
	}{
		{0.95, ToneGreen},
		{0.9, ToneGreen},
		{0.8, ToneAmber},
		{0.75, ToneAmber},
		{0.1, ToneRed},
	}
	for _, c := range cases {
		if got := CompletionTone(c.rate); got != c.want {
			t.Fatalf("CompletionTone(%.2f): expected %s, got %s", c.rate, c.want, got)
		}
	}
	if got := RemainingTone(3001); got != ToneRed {
		t.Fatalf("expected red, got %s", got)
	}
	if got := RemainingTone(3000); got != ToneAmber {
		t.Fatalf("expected amber, got %s", got)
	}
	if got := RemainingTone(1500); got != ToneGreen {
		t.Fatalf("expected green, got %s", got)
	}
}

func TestSummarize(t *testing.T) {
	snap := &models.Snapshot{
		Seq: 7,
		Stations: []models.Station{
			{ID: "A", TargetKg: 900, CompletedKg: 850, RemainingKg: 50, FireKg: 12},
			{ID: "B", TargetKg: 900, CompletedKg: 450, RemainingKg: 450, LastLogMinutes: 16, FireKg: 44},
		},
	}
	d := Summarize(snap)
	if d.Seq != 7 {
		t.Fatalf("expected seq 7, got %d", d.Seq)
	}
	if d.FireKg != 56 {
		t.Fatalf("expected fire 56, got %d", d.FireKg)
	}
	if d.AtRiskCount != 1 {
		t.Fatalf("expected 1 station at risk, got %d", d.AtRiskCount)
	}
	if math.Abs(d.Completion.CompletionRate-1300.0/1800.0) > 1e-9 {
		t.Fatalf("unexpected completion rate %.4f", d.Completion.CompletionRate)
	}
	if d.CompletionTone != ToneRed || d.RemainingTone != ToneGreen {
		t.Fatalf("unexpected tones %s/%s", d.CompletionTone, d.RemainingTone)
	}
	if d.CapacityUtilization != 0.5 {
		t.Fatalf("expected utilization 0.5, got %.2f", d.CapacityUtilization)
	}
}
