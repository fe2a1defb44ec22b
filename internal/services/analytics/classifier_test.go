package analytics

import (
	"math"
	"strings"
	"testing"

	"FundPulse/internal/domain/models"
)

func scoredWithZ(z float64) models.ScoredPoint {
	return models.ScoredPoint{Zscore: z}
}

func TestAnomalyMembershipMatchesThreshold(t *testing.T) {
	c := NewClassifier()
	cases := []struct {
		z    float64
		want bool
	}{
		{0, false},
		{1.9, false},
		{2.0, false}, // boundary is exclusive
		{2.01, true},
		{-2.01, true},
		{-5, true},
	}
	for _, tc := range cases {
		got := c.Classify(scoredWithZ(tc.z))
		if got.IsAnomaly != tc.want {
			t.Errorf("z=%v: is_anomaly=%v, want %v", tc.z, got.IsAnomaly, tc.want)
		}
		if got.IsAnomaly != (math.Abs(tc.z) > c.Threshold) {
			t.Errorf("z=%v: membership diverges from |z| > threshold", tc.z)
		}
	}
}

func TestSeverityPartition(t *testing.T) {
	c := NewClassifier()
	cases := []struct {
		z    float64
		want models.Severity
	}{
		{0.5, models.SeverityNormal},
		{2.0, models.SeverityNormal},
		{2.5, models.SeverityMedium},
		{-2.5, models.SeverityMedium},
		{3.0, models.SeverityMedium}, // high boundary is exclusive too
		{3.01, models.SeverityHigh},
		{-4.2, models.SeverityHigh},
	}
	for _, tc := range cases {
		if got := c.Classify(scoredWithZ(tc.z)).Severity; got != tc.want {
			t.Errorf("z=%v: severity=%q, want %q", tc.z, got, tc.want)
		}
	}
}

func TestDirection(t *testing.T) {
	c := NewClassifier()
	if got := c.Classify(scoredWithZ(2.5)).Direction; got != models.DirectionUp {
		t.Errorf("positive anomaly: direction=%q", got)
	}
	if got := c.Classify(scoredWithZ(-2.5)).Direction; got != models.DirectionDown {
		t.Errorf("negative anomaly: direction=%q", got)
	}
	if got := c.Classify(scoredWithZ(1.0)).Direction; got != models.DirectionNone {
		t.Errorf("non-anomaly: direction=%q", got)
	}
}

func TestClassifyIsIdempotent(t *testing.T) {
	c := NewClassifier()
	first := c.Classify(scoredWithZ(-3.4))
	second := c.Classify(first.ScoredPoint)
	if first.IsAnomaly != second.IsAnomaly ||
		first.Severity != second.Severity ||
		first.Direction != second.Direction ||
		first.Explanation != second.Explanation ||
		first.Confidence != second.Confidence {
		t.Fatalf("re-classification changed output: %+v vs %+v", first, second)
	}
}

func TestExplanationNormal(t *testing.T) {
	c := NewClassifier()
	got := c.Classify(scoredWithZ(0.3)).Explanation
	if got != "Normal market behavior" {
		t.Fatalf("explanation %q", got)
	}
}

func TestExplanationStructure(t *testing.T) {
	c := NewClassifier()

	sp := scoredWithZ(2.6)
	sp.DailyReturn = 0.015 // 1.5%, below the 3% clause gate
	got := c.Classify(sp).Explanation
	want := "Moderate increase detected. Unusual deviation from rolling mean (z-score: 2.6)"
	if got != want {
		t.Fatalf("explanation %q, want %q", got, want)
	}
}

func TestExplanationHighSeverityWithReturnClause(t *testing.T) {
	c := NewClassifier()

	sp := scoredWithZ(-3.8)
	sp.DailyReturn = -0.0525
	got := c.Classify(sp).Explanation
	want := "Significant decrease detected. " +
		"Unusual deviation from rolling mean (z-score: 3.8). " +
		"Daily return of -5.25% exceeds normal range. " +
		"Recommend immediate review"
	if got != want {
		t.Fatalf("explanation %q, want %q", got, want)
	}
}

func TestConfidenceRamp(t *testing.T) {
	c := NewClassifier()
	cases := []struct {
		z    float64
		want float64
	}{
		{0, 0},
		{1.99, 0},
		{2.0, 0},
		{2.75, 0.25},
		{3.5, 0.5},
		{-3.5, 0.5},
		{5.0, 1},
		{8.0, 1}, // saturates at threshold + 3
	}
	for _, tc := range cases {
		if got := c.Confidence(tc.z); got != tc.want {
			t.Errorf("confidence(%v) = %v, want %v", tc.z, got, tc.want)
		}
	}
}

func TestConfidenceMonotonic(t *testing.T) {
	c := NewClassifier()
	prev := -1.0
	for z := 2.0; z <= 6.0; z += 0.1 {
		got := c.Confidence(z)
		if got < prev {
			t.Fatalf("confidence decreased at z=%v: %v < %v", z, got, prev)
		}
		prev = got
	}
}

func TestSpikeAfterStableSeriesIsHighSeverity(t *testing.T) {
	// 25 stable rows with small alternating noise, then a +10% jump.
	navs := []float64{100}
	for i := 1; i < 26; i++ {
		step := 1.0005
		if i%2 == 0 {
			step = 0.9996
		}
		navs = append(navs, navs[i-1]*step)
	}
	navs = append(navs, navs[len(navs)-1]*1.10)

	scored := ComputeRollingStats(navSeries("MF010", navs), DefaultRollingOptions())
	c := NewClassifier()
	last := c.Classify(scored[len(scored)-1])

	if math.Abs(last.Zscore) <= 3 {
		t.Fatalf("expected |zscore| > 3, got %v", last.Zscore)
	}
	if last.Severity != models.SeverityHigh {
		t.Fatalf("expected high severity, got %q", last.Severity)
	}
	if !strings.Contains(last.Explanation, "Recommend immediate review") {
		t.Fatalf("explanation missing review clause: %q", last.Explanation)
	}
}
