package models

import "time"

// Severity classifies how far a return deviates from its rolling mean.
type Severity string

const (
	SeverityNormal Severity = "normal"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Direction indicates which way an anomalous move went.
type Direction string

const (
	DirectionNone Direction = "none"
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// NavPoint is one fund's NAV observation for one date.
// Note: no transport (json/http) concerns here; handlers shape responses separately.
type NavPoint struct {
	SchemeCode string
	SchemeName string
	Category   string
	FundType   string
	Date       time.Time
	NAV        float64
}

// ScoredPoint extends NavPoint with rolling statistics.
// All derived fields are guaranteed finite; undefined statistics are 0.
type ScoredPoint struct {
	NavPoint
	DailyReturn float64 // pct change vs previous row, 0 for the first row of a scheme
	RollingMean float64
	RollingStd  float64
	Zscore      float64
	Volatility  float64 // annualized, rolling std * sqrt(252)
	RunningMax  float64
	Drawdown    float64 // (nav - running max) / running max, <= 0
}

// ClassifiedPoint extends ScoredPoint with anomaly classification.
type ClassifiedPoint struct {
	ScoredPoint
	IsAnomaly   bool
	Severity    Severity
	Direction   Direction
	Explanation string
	Confidence  float64 // 0..1
}
