package analytics

import (
	"testing"
	"time"

	"FundPulse/internal/domain/models"
)

func classifiedRow(code string, date time.Time, anomaly bool, severity models.Severity, direction models.Direction, zscore float64) models.ClassifiedPoint {
	return models.ClassifiedPoint{
		ScoredPoint: models.ScoredPoint{
			NavPoint: models.NavPoint{
				SchemeCode: code,
				SchemeName: code + " Growth Fund",
				Category:   "Equity",
				Date:       date,
				NAV:        100,
			},
			Zscore: zscore,
		},
		IsAnomaly: anomaly,
		Severity:  severity,
		Direction: direction,
	}
}

func TestSummarizeCounts(t *testing.T) {
	day := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	rows := []models.ClassifiedPoint{
		classifiedRow("MF001", day, true, models.SeverityHigh, models.DirectionUp, 3.4),
		classifiedRow("MF001", day.AddDate(0, 0, 1), true, models.SeverityMedium, models.DirectionDown, -2.3),
		classifiedRow("MF002", day, true, models.SeverityMedium, models.DirectionDown, -2.1),
		classifiedRow("MF002", day.AddDate(0, 0, 1), false, models.SeverityNormal, models.DirectionNone, 0.4),
		classifiedRow("MF003", day, false, models.SeverityNormal, models.DirectionNone, 1.1),
	}

	s := Summarize(rows)
	if s.TotalAnomalies != 3 {
		t.Fatalf("total %d, want 3", s.TotalAnomalies)
	}
	if s.HighSeverity != 1 || s.MediumSeverity != 2 {
		t.Fatalf("severity split %d/%d, want 1/2", s.HighSeverity, s.MediumSeverity)
	}
	if s.UpMovements != 1 || s.DownMovements != 2 {
		t.Fatalf("direction split %d/%d, want 1/2", s.UpMovements, s.DownMovements)
	}
	if s.AffectedFunds != 2 {
		t.Fatalf("affected funds %d, want 2", s.AffectedFunds)
	}
	if s.AnomalyRate != 60.0 {
		t.Fatalf("anomaly rate %v, want 60.0", s.AnomalyRate)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.TotalAnomalies != 0 || s.AnomalyRate != 0 || s.AffectedFunds != 0 {
		t.Fatalf("empty table summary not zeroed: %+v", s)
	}
}

func TestRecentAnomaliesLookbackWindow(t *testing.T) {
	latest := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	rows := []models.ClassifiedPoint{
		classifiedRow("MF001", latest, true, models.SeverityHigh, models.DirectionDown, -3.2),
		classifiedRow("MF001", latest.AddDate(0, 0, -7), true, models.SeverityMedium, models.DirectionUp, 2.2),
		classifiedRow("MF002", latest.AddDate(0, 0, -8), true, models.SeverityMedium, models.DirectionUp, 2.4),
		classifiedRow("MF003", latest.AddDate(0, 0, -2), false, models.SeverityNormal, models.DirectionNone, 0.1),
	}

	out := RecentAnomalies(rows, 7, 50)
	if len(out) != 2 {
		t.Fatalf("got %d records, want 2 (8-day-old row excluded)", len(out))
	}
	if out[0].SchemeCode != "MF001" || out[0].Date != "2026-02-10" {
		t.Fatalf("expected newest first, got %+v", out[0])
	}
	if out[1].Date != "2026-02-03" {
		t.Fatalf("cutoff row %+v, want date 2026-02-03", out[1])
	}
}

func TestRecentAnomaliesRecordShape(t *testing.T) {
	date := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	cp := classifiedRow("MF007", date, true, models.SeverityHigh, models.DirectionDown, -3.456)
	cp.NAV = 245.50128
	cp.DailyReturn = -0.04123
	cp.Explanation = "Significant decrease detected"

	out := RecentAnomalies([]models.ClassifiedPoint{cp}, 7, 50)
	if len(out) != 1 {
		t.Fatalf("got %d records, want 1", len(out))
	}
	rec := out[0]
	if rec.ID != "MF007_20260210" {
		t.Errorf("id %q", rec.ID)
	}
	if rec.FundName != "MF007 Growth Fund" {
		t.Errorf("fund name %q", rec.FundName)
	}
	if rec.Timestamp != "2026-02-10T00:00:00Z" {
		t.Errorf("timestamp %q", rec.Timestamp)
	}
	if rec.NAV != 245.5013 {
		t.Errorf("nav %v, want 245.5013", rec.NAV)
	}
	if rec.DailyReturn != -4.12 {
		t.Errorf("daily return %v, want -4.12", rec.DailyReturn)
	}
	if rec.Zscore != -3.46 {
		t.Errorf("zscore %v, want -3.46", rec.Zscore)
	}
	if rec.Severity != models.SeverityHigh || rec.Direction != models.DirectionDown {
		t.Errorf("severity/direction %v/%v", rec.Severity, rec.Direction)
	}
}

func TestRecentAnomaliesLimit(t *testing.T) {
	latest := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	rows := make([]models.ClassifiedPoint, 0, 10)
	for i := 0; i < 10; i++ {
		rows = append(rows, classifiedRow("MF001", latest.AddDate(0, 0, -i%3), true, models.SeverityMedium, models.DirectionUp, 2.5))
	}
	if got := len(RecentAnomalies(rows, 7, 4)); got != 4 {
		t.Fatalf("got %d records, want limit 4", got)
	}
}

func TestRecentSignalsThreeDayLookback(t *testing.T) {
	latest := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	rows := []models.ClassifiedPoint{
		classifiedRow("MF001", latest, true, models.SeverityHigh, models.DirectionDown, -3.2),
		classifiedRow("MF002", latest.AddDate(0, 0, -3), true, models.SeverityMedium, models.DirectionUp, 2.2),
		classifiedRow("MF003", latest.AddDate(0, 0, -4), true, models.SeverityMedium, models.DirectionUp, 2.6),
	}

	out := RecentSignals(rows, 20)
	if len(out) != 2 {
		t.Fatalf("got %d signals, want 2 (4-day-old anomaly excluded)", len(out))
	}
	if out[0].SchemeCode != "MF001" {
		t.Fatalf("expected newest first, got %q", out[0].SchemeCode)
	}
	if out[0].Type != "critical" {
		t.Fatalf("signal type %q, want critical", out[0].Type)
	}
	if out[0].FundName != "MF001 Growth Fund" {
		t.Fatalf("fund name %q", out[0].FundName)
	}
}

func TestFundNameFallbacks(t *testing.T) {
	p := models.NavPoint{SchemeCode: "MF009", SchemeName: "2024-01-05"}
	if got := FundName(p); got != "MF009" {
		t.Fatalf("date-like name resolved to %q, want scheme code", got)
	}
	if got := FundName(models.NavPoint{}); got != "Unknown" {
		t.Fatalf("empty row resolved to %q, want Unknown", got)
	}
	if got := CategoryName(models.NavPoint{Category: "  "}); got != "Unknown" {
		t.Fatalf("blank category resolved to %q, want Unknown", got)
	}
}
