package analytics

import (
	"fmt"
	"math"
	"strings"

	"FundPulse/internal/domain/models"
)

const (
	// DefaultZscoreThreshold marks a row anomalous when |zscore| exceeds it.
	DefaultZscoreThreshold = 2.0
	// DefaultHighSeverityThreshold upgrades an anomaly to high severity.
	DefaultHighSeverityThreshold = 3.0

	// returnPctThreshold gates the "exceeds normal range" explanation clause.
	returnPctThreshold = 3.0
	// confidenceSpan is the z-score distance from the anomaly threshold to
	// full confidence.
	confidenceSpan = 3.0
)

// Classifier decides anomaly membership, severity, and direction from a
// scored row. Pure and stateless: identical input yields identical output.
type Classifier struct {
	Threshold     float64 // τ
	HighThreshold float64 // τ_h, must be > τ
}

// NewClassifier returns a classifier with the standard thresholds.
func NewClassifier() Classifier {
	return Classifier{
		Threshold:     DefaultZscoreThreshold,
		HighThreshold: DefaultHighSeverityThreshold,
	}
}

// Classify annotates one scored row with anomaly fields and the generated
// explanation text.
func (c Classifier) Classify(sp models.ScoredPoint) models.ClassifiedPoint {
	abs := math.Abs(sp.Zscore)

	cp := models.ClassifiedPoint{ScoredPoint: sp}
	cp.IsAnomaly = abs > c.Threshold

	switch {
	case abs > c.HighThreshold:
		cp.Severity = models.SeverityHigh
	case abs > c.Threshold:
		cp.Severity = models.SeverityMedium
	default:
		cp.Severity = models.SeverityNormal
	}

	cp.Direction = models.DirectionNone
	if cp.IsAnomaly {
		if sp.Zscore > 0 {
			cp.Direction = models.DirectionUp
		} else {
			cp.Direction = models.DirectionDown
		}
	}

	cp.Explanation = c.Explain(cp)
	cp.Confidence = c.Confidence(sp.Zscore)
	return cp
}

// ClassifyAll classifies every row of a scored table.
func (c Classifier) ClassifyAll(rows []models.ScoredPoint) []models.ClassifiedPoint {
	out := make([]models.ClassifiedPoint, len(rows))
	for i, sp := range rows {
		out[i] = c.Classify(sp)
	}
	return out
}

// Explain renders the deterministic explanation for a classified row.
// Clauses are independent and joined in a fixed order.
func (c Classifier) Explain(cp models.ClassifiedPoint) string {
	if !cp.IsAnomaly {
		return "Normal market behavior"
	}

	severityText := "Moderate"
	if cp.Severity == models.SeverityHigh {
		severityText = "Significant"
	}
	directionWord := "decrease"
	if cp.Zscore > 0 {
		directionWord = "increase"
	}

	clauses := []string{
		fmt.Sprintf("%s %s detected", severityText, directionWord),
		fmt.Sprintf("Unusual deviation from rolling mean (z-score: %.1f)", math.Abs(cp.Zscore)),
	}

	returnPct := cp.DailyReturn * 100
	if math.Abs(returnPct) > returnPctThreshold {
		clauses = append(clauses, fmt.Sprintf("Daily return of %.2f%% exceeds normal range", returnPct))
	}
	if cp.Severity == models.SeverityHigh {
		clauses = append(clauses, "Recommend immediate review")
	}

	return strings.Join(clauses, ". ")
}

// Confidence scores an anomaly in [0,1]: zero below the threshold, then a
// linear ramp saturating confidenceSpan z-score units above it.
func (c Classifier) Confidence(zscore float64) float64 {
	abs := math.Abs(zscore)
	if abs < c.Threshold {
		return 0
	}
	conf := (abs - c.Threshold) / confidenceSpan
	if conf > 1 {
		conf = 1
	}
	return Round(conf, 2)
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
