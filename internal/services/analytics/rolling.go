package analytics

import (
	"math"

	"FundPulse/internal/domain/models"
)

const (
	// DefaultWindow is the trailing window size for rolling statistics.
	DefaultWindow = 20
	// DefaultMinPeriods is the minimum number of return observations a window
	// needs before its statistics are considered defined.
	DefaultMinPeriods = 5
	// TradingDaysPerYear is the fixed annualization constant.
	TradingDaysPerYear = 252
)

// RollingOptions parameterizes rolling-statistics computation.
type RollingOptions struct {
	Window     int
	MinPeriods int
}

// DefaultRollingOptions returns the standard window parameters.
func DefaultRollingOptions() RollingOptions {
	return RollingOptions{Window: DefaultWindow, MinPeriods: DefaultMinPeriods}
}

// ComputeRollingStats scores one scheme's NAV series, ordered by date.
// For each row it derives the daily return, rolling mean/std of returns,
// z-score, annualized volatility, running maximum, and drawdown.
//
// Policy: statistics over windows with fewer than MinPeriods returns are 0,
// a z-score with a zero or undefined denominator is 0, and every derived
// field is forced finite before the row is emitted. Window state never
// crosses scheme boundaries; callers must pass a single scheme's rows.
func ComputeRollingStats(points []models.NavPoint, opt RollingOptions) []models.ScoredPoint {
	if opt.Window <= 0 {
		opt.Window = DefaultWindow
	}
	if opt.MinPeriods <= 0 {
		opt.MinPeriods = DefaultMinPeriods
	}

	out := make([]models.ScoredPoint, len(points))
	returns := make([]float64, len(points))
	runningMax := 0.0

	for i, p := range points {
		sp := models.ScoredPoint{NavPoint: p}

		// Daily return is undefined for the first row and surfaces as 0.
		if i > 0 && points[i-1].NAV != 0 {
			sp.DailyReturn = finiteOrZero(p.NAV/points[i-1].NAV - 1)
		}
		returns[i] = sp.DailyReturn

		// Trailing window of up to Window returns ending at i. Index 0 carries
		// no return observation, so it never counts toward the window.
		lo := i - opt.Window + 1
		if lo < 1 {
			lo = 1
		}
		if n := i - lo + 1; i >= 1 && n >= opt.MinPeriods {
			mean, std := meanStd(returns[lo : i+1])
			sp.RollingMean = finiteOrZero(mean)
			sp.RollingStd = finiteOrZero(std)
		}

		if sp.RollingStd > 0 {
			sp.Zscore = finiteOrZero((sp.DailyReturn - sp.RollingMean) / sp.RollingStd)
		}
		sp.Volatility = finiteOrZero(sp.RollingStd * math.Sqrt(TradingDaysPerYear))

		if p.NAV > runningMax {
			runningMax = p.NAV
		}
		sp.RunningMax = runningMax
		if runningMax > 0 {
			sp.Drawdown = finiteOrZero((p.NAV - runningMax) / runningMax)
		}

		out[i] = sp
	}
	return out
}

// ComputeTable scores a full multi-scheme table ordered by (scheme_code, date).
// Each scheme's series is computed independently.
func ComputeTable(points []models.NavPoint, opt RollingOptions) []models.ScoredPoint {
	out := make([]models.ScoredPoint, 0, len(points))
	start := 0
	for i := 1; i <= len(points); i++ {
		if i == len(points) || points[i].SchemeCode != points[start].SchemeCode {
			out = append(out, ComputeRollingStats(points[start:i], opt)...)
			start = i
		}
	}
	return out
}

// meanStd returns the mean and sample (n-1 denominator) standard deviation.
// Fewer than two values yields a zero std.
func meanStd(xs []float64) (float64, float64) {
	n := float64(len(xs))
	if n == 0 {
		return 0, 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	mean := sum / n
	if n < 2 {
		return mean, 0
	}
	ss := 0.0
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	variance := ss / (n - 1)
	if variance < 0 {
		variance = 0
	}
	return mean, math.Sqrt(variance)
}

// finiteOrZero guards a single computation: NaN and ±Inf collapse to 0.
func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
