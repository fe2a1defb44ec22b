package analytics

import (
	"testing"
	"time"

	"FundPulse/internal/domain/models"
)

func classifiedAnomaly(code string, z float64, severity models.Severity, direction models.Direction) models.ClassifiedPoint {
	cp := models.ClassifiedPoint{
		ScoredPoint: models.ScoredPoint{
			NavPoint: models.NavPoint{
				SchemeCode: code,
				Date:       time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
				NAV:        245.50128,
			},
			DailyReturn: -0.0412,
			Zscore:      z,
		},
		IsAnomaly: true,
		Severity:  severity,
		Direction: direction,
	}
	cp.Explanation = NewClassifier().Explain(cp)
	cp.Confidence = NewClassifier().Confidence(z)
	return cp
}

func TestSignalTypeVariants(t *testing.T) {
	cases := []struct {
		severity  models.Severity
		direction models.Direction
		wantType  string
		wantTitle string
	}{
		{models.SeverityHigh, models.DirectionDown, "critical", "Large Cap fund major drop detected"},
		{models.SeverityHigh, models.DirectionUp, "alert", "Large Cap fund unusual spike"},
		{models.SeverityMedium, models.DirectionDown, "warning", "Large Cap fund volatility alert"},
		{models.SeverityMedium, models.DirectionUp, "info", "Large Cap fund movement detected"},
	}
	for _, tc := range cases {
		cp := classifiedAnomaly("MF001", -3.5, tc.severity, tc.direction)
		sig := BuildSignal(cp, "Blue Chip Growth Fund", "Large Cap")
		if sig.Type != tc.wantType {
			t.Errorf("%s/%s: type %q, want %q", tc.severity, tc.direction, sig.Type, tc.wantType)
		}
		if sig.Title != tc.wantTitle {
			t.Errorf("%s/%s: title %q, want %q", tc.severity, tc.direction, sig.Title, tc.wantTitle)
		}
		if sig.Icon == "" || sig.Color == "" {
			t.Errorf("%s/%s: missing icon/color", tc.severity, tc.direction)
		}
	}
}

func TestSignalStylePairsAreFixed(t *testing.T) {
	wantColors := map[string]string{
		"critical": "red",
		"alert":    "yellow",
		"warning":  "orange",
		"info":     "blue",
	}
	styles := []signalStyle{styleCritical, styleAlert, styleWarning, styleInfo}
	for _, s := range styles {
		if wantColors[s.Type] != s.Color {
			t.Errorf("type %q: color %q, want %q", s.Type, s.Color, wantColors[s.Type])
		}
	}
}

func TestSignalProjection(t *testing.T) {
	cp := classifiedAnomaly("MF007", -3.456, models.SeverityHigh, models.DirectionDown)
	sig := BuildSignal(cp, "Emerging Markets Fund", "International")

	if sig.ID != "sig_MF007_202506150000" {
		t.Errorf("id %q", sig.ID)
	}
	if sig.SchemeCode != "MF007" || sig.FundName != "Emerging Markets Fund" || sig.Category != "International" {
		t.Errorf("identity fields wrong: %+v", sig)
	}
	if sig.Message != cp.Explanation {
		t.Errorf("message %q", sig.Message)
	}
	if sig.Metrics.NAV != 245.5013 {
		t.Errorf("nav %v, want 245.5013", sig.Metrics.NAV)
	}
	if sig.Metrics.Change != -4.12 {
		t.Errorf("change %v, want -4.12", sig.Metrics.Change)
	}
	if sig.Metrics.Zscore != -3.46 {
		t.Errorf("zscore %v, want -3.46", sig.Metrics.Zscore)
	}
	if sig.Confidence != 0.49 {
		t.Errorf("confidence %v, want 0.49", sig.Confidence)
	}
}
