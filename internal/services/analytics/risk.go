package analytics

import (
	"math"

	"FundPulse/internal/domain/models"
)

// Risk score buckets compare against fractional (0-1) rates, not the
// percentage-scaled values reported in the profile.
const (
	riskVolHigh = 0.3
	riskVolMed  = 0.2
	riskVolLow  = 0.1

	riskAnomHigh = 0.10
	riskAnomMed  = 0.05
	riskAnomLow  = 0.02
)

// ComputeRiskProfile aggregates one fund's full classified history into a
// risk profile. Returns nil for an empty series.
func ComputeRiskProfile(series []models.ClassifiedPoint) *models.RiskProfile {
	if len(series) == 0 {
		return nil
	}

	returns := make([]float64, len(series))
	anomalyCount := 0
	magnitudeSum := 0.0
	minDrawdown := 0.0
	for i, cp := range series {
		returns[i] = cp.DailyReturn
		if cp.IsAnomaly {
			anomalyCount++
			magnitudeSum += math.Abs(cp.Zscore)
		}
		if cp.Drawdown < minDrawdown {
			minDrawdown = cp.Drawdown
		}
	}

	mean, std := meanStd(returns)

	sharpe := 0.0
	if std > 0 {
		sharpe = mean / std * math.Sqrt(TradingDaysPerYear)
	}

	avgMagnitude := 0.0
	if anomalyCount > 0 {
		avgMagnitude = magnitudeSum / float64(anomalyCount)
	}

	anomalyRate := float64(anomalyCount) / float64(len(series))

	return &models.RiskProfile{
		Volatility:          Round(finiteOrZero(std*math.Sqrt(TradingDaysPerYear)*100), 2),
		MaxDrawdown:         Round(minDrawdown*100, 2),
		SharpeEstimate:      Round(finiteOrZero(sharpe), 2),
		AnomalyFrequency:    Round(anomalyRate*100, 2),
		AvgAnomalyMagnitude: Round(finiteOrZero(avgMagnitude), 2),
		RiskScore:           riskScore(series[len(series)-1].Volatility, anomalyRate),
	}
}

// riskScore buckets the latest annualized volatility (fractional) and the
// anomaly rate (fractional) into an additive point total.
func riskScore(latestVolatility, anomalyRate float64) string {
	score := 0
	switch {
	case latestVolatility > riskVolHigh:
		score += 3
	case latestVolatility > riskVolMed:
		score += 2
	case latestVolatility > riskVolLow:
		score++
	}

	switch {
	case anomalyRate > riskAnomHigh:
		score += 3
	case anomalyRate > riskAnomMed:
		score += 2
	case anomalyRate > riskAnomLow:
		score++
	}

	switch {
	case score >= 5:
		return "High"
	case score >= 3:
		return "Medium"
	default:
		return "Low"
	}
}
