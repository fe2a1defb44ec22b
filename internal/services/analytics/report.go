package analytics

import (
	"fmt"
	"sort"
	"time"

	"FundPulse/internal/domain/models"
	"FundPulse/pkg/util"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = time.RFC3339

	// DefaultAnomalyLookbackDays bounds the recent-anomaly listing.
	DefaultAnomalyLookbackDays = 7
	// SignalLookbackDays bounds the signal feed.
	SignalLookbackDays = 3
)

// Summarize aggregates anomaly counts over a classified table.
func Summarize(rows []models.ClassifiedPoint) models.AnomalySummary {
	var s models.AnomalySummary
	if len(rows) == 0 {
		return s
	}

	funds := make(map[string]struct{})
	for _, cp := range rows {
		if !cp.IsAnomaly {
			continue
		}
		s.TotalAnomalies++
		switch cp.Severity {
		case models.SeverityHigh:
			s.HighSeverity++
		case models.SeverityMedium:
			s.MediumSeverity++
		}
		switch cp.Direction {
		case models.DirectionUp:
			s.UpMovements++
		case models.DirectionDown:
			s.DownMovements++
		}
		funds[cp.SchemeCode] = struct{}{}
	}
	s.AffectedFunds = len(funds)
	s.AnomalyRate = Round(float64(s.TotalAnomalies)/float64(len(rows))*100, 2)
	return s
}

// RecentAnomalies lists anomalous rows within the lookback window ending at
// the table's most recent date, newest first, capped at limit.
func RecentAnomalies(rows []models.ClassifiedPoint, days, limit int) []models.AnomalyRecord {
	if days <= 0 {
		days = DefaultAnomalyLookbackDays
	}
	cutoff := MaxDate(rows).AddDate(0, 0, -days)

	recent := filterAnomalies(rows, cutoff)
	out := make([]models.AnomalyRecord, 0, limit)
	for _, cp := range recent {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, models.AnomalyRecord{
			ID:          fmt.Sprintf("%s_%s", cp.SchemeCode, cp.Date.Format("20060102")),
			SchemeCode:  cp.SchemeCode,
			FundName:    FundName(cp.NavPoint),
			Category:    CategoryName(cp.NavPoint),
			Date:        cp.Date.Format(dateLayout),
			Timestamp:   cp.Date.Format(timestampLayout),
			NAV:         Round(cp.NAV, 4),
			DailyReturn: Round(cp.DailyReturn*100, 2),
			Zscore:      Round(cp.Zscore, 2),
			Severity:    cp.Severity,
			Direction:   cp.Direction,
			Explanation: cp.Explanation,
		})
	}
	return out
}

// RecentSignals builds the signal feed from anomalies within the fixed
// signal lookback, newest first, capped at limit. Recency filtering happens
// here against the table's most recent date; callers only pass the limit.
func RecentSignals(rows []models.ClassifiedPoint, limit int) []models.Signal {
	cutoff := MaxDate(rows).AddDate(0, 0, -SignalLookbackDays)

	recent := filterAnomalies(rows, cutoff)
	out := make([]models.Signal, 0, limit)
	for _, cp := range recent {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, BuildSignal(cp, FundName(cp.NavPoint), CategoryName(cp.NavPoint)))
	}
	return out
}

// MaxDate returns the most recent date across the table.
func MaxDate(rows []models.ClassifiedPoint) time.Time {
	var max time.Time
	for _, cp := range rows {
		if cp.Date.After(max) {
			max = cp.Date
		}
	}
	return max
}

// filterAnomalies returns anomalous rows at or after cutoff, newest first.
func filterAnomalies(rows []models.ClassifiedPoint, cutoff time.Time) []models.ClassifiedPoint {
	recent := make([]models.ClassifiedPoint, 0)
	for _, cp := range rows {
		if cp.IsAnomaly && !cp.Date.Before(cutoff) {
			recent = append(recent, cp)
		}
	}
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Date.After(recent[j].Date)
	})
	return recent
}

// FundName resolves a display name for a NAV row: the scheme name when it is
// a usable label, else the scheme code, else "Unknown".
func FundName(p models.NavPoint) string {
	fallback := p.SchemeCode
	if fallback == "" {
		fallback = "Unknown"
	}
	return util.SafeLabel(p.SchemeName, fallback)
}

// CategoryName resolves a display category for a NAV row.
func CategoryName(p models.NavPoint) string {
	return util.SafeLabel(p.Category, "Unknown")
}
