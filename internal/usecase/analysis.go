package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"FundPulse/internal/domain/models"
	domrepo "FundPulse/internal/domain/repository"
	"FundPulse/internal/service/stream"
	"FundPulse/internal/services/analytics"
	"FundPulse/pkg/cache"
	"FundPulse/pkg/logger"
)

// ErrFundNotFound is returned when a scheme code has no stored history.
var ErrFundNotFound = errors.New("fund not found")

const (
	snapshotKey = "snapshot:v1"

	overviewWindowDays = 30
)

// AnalysisOptions carries the tunable analysis parameters.
type AnalysisOptions struct {
	Window                int
	MinPeriods            int
	ZscoreThreshold       float64
	HighSeverityThreshold float64
	AnomalyLookbackDays   int
	MaxDetailPoints       int
	SnapshotTTL           time.Duration
}

// DefaultAnalysisOptions returns the standard parameters.
func DefaultAnalysisOptions() AnalysisOptions {
	return AnalysisOptions{
		Window:                analytics.DefaultWindow,
		MinPeriods:            analytics.DefaultMinPeriods,
		ZscoreThreshold:       analytics.DefaultZscoreThreshold,
		HighSeverityThreshold: analytics.DefaultHighSeverityThreshold,
		AnomalyLookbackDays:   analytics.DefaultAnomalyLookbackDays,
		MaxDetailPoints:       60,
		SnapshotTTL:           5 * time.Minute,
	}
}

// AnalysisUseCase owns the scored-and-classified view of the NAV table and
// answers all dashboard read queries from it. The processed table is cached
// as a whole; analysis functions themselves stay pure.
type AnalysisUseCase struct {
	store   domrepo.NavStore
	cache   cache.Service
	alerts  domrepo.AlertPublisher
	metrics domrepo.Metrics
	log     *logger.Logger
	opt     AnalysisOptions

	buildMu sync.Mutex
}

func NewAnalysisUseCase(
	store domrepo.NavStore,
	c cache.Service,
	alerts domrepo.AlertPublisher,
	metrics domrepo.Metrics,
	log *logger.Logger,
	opt AnalysisOptions,
) *AnalysisUseCase {
	if opt.Window == 0 {
		opt = DefaultAnalysisOptions()
	}
	return &AnalysisUseCase{
		store:   store,
		cache:   c,
		alerts:  alerts,
		metrics: metrics,
		log:     log,
		opt:     opt,
	}
}

// Snapshot returns the processed table, building and caching it on miss.
func (uc *AnalysisUseCase) Snapshot(ctx context.Context) ([]models.ClassifiedPoint, error) {
	var cached []models.ClassifiedPoint
	if err := uc.cache.Get(ctx, snapshotKey, &cached); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		uc.log.Warn("snapshot cache read failed", logger.Error(err))
	}

	uc.buildMu.Lock()
	defer uc.buildMu.Unlock()

	// Another caller may have built it while we waited.
	if err := uc.cache.Get(ctx, snapshotKey, &cached); err == nil {
		return cached, nil
	}

	return uc.rebuild(ctx)
}

// Invalidate drops the cached snapshot. The next read rebuilds it.
func (uc *AnalysisUseCase) Invalidate(ctx context.Context) error {
	return uc.cache.Delete(ctx, snapshotKey)
}

func (uc *AnalysisUseCase) rebuild(ctx context.Context) ([]models.ClassifiedPoint, error) {
	start := time.Now()

	points, err := uc.store.QueryAll(ctx)
	if err != nil {
		uc.metrics.RecordError("store_query")
		return nil, fmt.Errorf("load nav history: %w", err)
	}

	scored := analytics.ComputeTable(points, analytics.RollingOptions{
		Window:     uc.opt.Window,
		MinPeriods: uc.opt.MinPeriods,
	})
	classifier := analytics.Classifier{
		Threshold:     uc.opt.ZscoreThreshold,
		HighThreshold: uc.opt.HighSeverityThreshold,
	}
	table := classifier.ClassifyAll(scored)

	uc.metrics.RecordRowsScored(len(table))
	for _, cp := range table {
		if cp.IsAnomaly {
			uc.metrics.RecordAnomaly(string(cp.Severity), string(cp.Direction))
		}
	}
	for _, cp := range latestRows(table) {
		uc.metrics.RecordLastNAV(cp.SchemeCode, cp.NAV)
	}

	if err := uc.cache.Set(ctx, snapshotKey, table, uc.opt.SnapshotTTL); err != nil {
		uc.log.Warn("snapshot cache write failed", logger.Error(err))
	}

	uc.publishHighSeverity(ctx, table)

	elapsed := time.Since(start)
	uc.metrics.RecordSnapshotBuild(elapsed.Seconds())
	uc.log.Info("snapshot rebuilt",
		logger.Int("rows", len(table)),
		logger.Duration("duration_ms", elapsed),
	)
	return table, nil
}

// publishHighSeverity pushes recent high-severity anomalies to the alert
// topic. Publish failures are logged, never surfaced to readers.
func (uc *AnalysisUseCase) publishHighSeverity(ctx context.Context, table []models.ClassifiedPoint) {
	records := analytics.RecentAnomalies(table, uc.opt.AnomalyLookbackDays, 0)
	high := make([]models.AnomalyRecord, 0)
	for _, r := range records {
		if r.Severity == models.SeverityHigh {
			high = append(high, r)
		}
	}
	if len(high) == 0 {
		return
	}
	if err := uc.alerts.PublishAlerts(ctx, high); err != nil {
		uc.metrics.RecordError("alert_publish")
		uc.log.Error("publish anomaly alerts", logger.Error(err), logger.Int("count", len(high)))
	}
}

// FundList returns the latest-row summary per fund with filtering and sorting.
func (uc *AnalysisUseCase) FundList(ctx context.Context, req models.FundsRequest) ([]models.FundSummary, error) {
	table, err := uc.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.FundSummary, 0)
	for _, cp := range latestRows(table) {
		if req.Category != "" && analytics.CategoryName(cp.NavPoint) != req.Category {
			continue
		}
		if req.AnomalyOnly && !cp.IsAnomaly {
			continue
		}
		summaries = append(summaries, models.FundSummary{
			SchemeCode:  cp.SchemeCode,
			FundName:    analytics.FundName(cp.NavPoint),
			Category:    analytics.CategoryName(cp.NavPoint),
			FundType:    cp.FundType,
			LatestNAV:   analytics.Round(cp.NAV, 2),
			DailyReturn: analytics.Round(cp.DailyReturn*100, 2),
			Volatility:  analytics.Round(cp.Volatility*100, 2),
			AnomalyFlag: cp.IsAnomaly,
			Zscore:      analytics.Round(cp.Zscore, 2),
			Drawdown:    analytics.Round(cp.Drawdown*100, 2),
		})
	}

	sortSummaries(summaries, req.SortBy)

	if req.Limit > 0 && len(summaries) > req.Limit {
		summaries = summaries[:req.Limit]
	}
	return summaries, nil
}

// FundDetail returns the full dashboard payload for one scheme.
func (uc *AnalysisUseCase) FundDetail(ctx context.Context, schemeCode string) (*models.FundDetail, error) {
	table, err := uc.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	series := schemeRows(table, schemeCode)
	if len(series) == 0 {
		return nil, ErrFundNotFound
	}

	profile := analytics.ComputeRiskProfile(series)

	window := series
	if len(window) > uc.opt.MaxDetailPoints {
		window = window[len(window)-uc.opt.MaxDetailPoints:]
	}

	history := make([]models.NavHistoryRecord, 0, len(window))
	anomalies := make([]models.FundAnomaly, 0)
	for _, cp := range window {
		history = append(history, models.NavHistoryRecord{
			Date:        cp.Date.Format("2006-01-02"),
			NAV:         analytics.Round(cp.NAV, 4),
			DailyReturn: analytics.Round(cp.DailyReturn*100, 4),
			Zscore:      analytics.Round(cp.Zscore, 2),
			Volatility:  analytics.Round(cp.Volatility*100, 2),
		})
		if cp.IsAnomaly {
			anomalies = append(anomalies, models.FundAnomaly{
				Date:      cp.Date.Format("2006-01-02"),
				NAV:       analytics.Round(cp.NAV, 4),
				Zscore:    analytics.Round(cp.Zscore, 2),
				Severity:  cp.Severity,
				Direction: cp.Direction,
			})
		}
	}

	latest := window[len(window)-1]
	totalReturn := 0.0
	if first := window[0].NAV; first > 0 {
		totalReturn = (latest.NAV - first) / first * 100
	}

	return &models.FundDetail{
		SchemeCode:   latest.SchemeCode,
		FundName:     analytics.FundName(latest.NavPoint),
		Category:     analytics.CategoryName(latest.NavPoint),
		LatestNAV:    analytics.Round(latest.NAV, 4),
		Volatility:   analytics.Round(latest.Volatility*100, 2),
		Drawdown:     analytics.Round(latest.Drawdown*100, 2),
		TotalReturn:  analytics.Round(totalReturn, 2),
		History:      history,
		Anomalies:    anomalies,
		AnomalyCount: len(anomalies),
		RiskMetrics:  profile,
	}, nil
}

// Overview returns headline dashboard statistics.
func (uc *AnalysisUseCase) Overview(ctx context.Context) (*models.Overview, error) {
	table, err := uc.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	latest := latestRows(table)
	totalFunds := len(latest)

	inAnomaly := 0
	for _, cp := range latest {
		if cp.IsAnomaly {
			inAnomaly++
		}
	}

	anomalyRate := 0.0
	if totalFunds > 0 {
		anomalyRate = float64(inAnomaly) / float64(totalFunds) * 100
	}

	cutoff := analytics.MaxDate(table).AddDate(0, 0, -overviewWindowDays)
	var sumReturn, sumVol float64
	var n int
	for _, cp := range table {
		if cp.Date.Before(cutoff) {
			continue
		}
		sumReturn += cp.DailyReturn * 100
		sumVol += cp.Volatility * 100
		n++
	}
	avgChange, avgVol := 0.0, 0.0
	if n > 0 {
		avgChange = clamp(sumReturn/float64(n), -5, 5)
		avgVol = clamp(sumVol/float64(n), 0, 50)
	}

	recent := analytics.RecentAnomalies(table, uc.opt.AnomalyLookbackDays, 0)

	return &models.Overview{
		TotalFunds:         totalFunds,
		FundsInAnomaly:     inAnomaly,
		AnomalyRate:        analytics.Round(anomalyRate, 2),
		AvgNavChange:       analytics.Round(avgChange, 2),
		AvgVolatility:      analytics.Round(avgVol, 2),
		CategoryStats:      categoryStats(table, cutoff),
		RecentAnomalyCount: len(recent),
		LastUpdated:        time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// Signals returns the trading-style signal feed.
func (uc *AnalysisUseCase) Signals(ctx context.Context, req models.SignalsRequest) ([]models.Signal, error) {
	table, err := uc.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	// Overfetch so a severity filter still fills the page.
	signals := analytics.RecentSignals(table, req.Limit*2)
	if req.Severity != "" {
		filtered := signals[:0]
		for _, s := range signals {
			if string(s.Severity) == req.Severity {
				filtered = append(filtered, s)
			}
		}
		signals = filtered
	}
	if req.Limit > 0 && len(signals) > req.Limit {
		signals = signals[:req.Limit]
	}
	return signals, nil
}

// Anomalies returns recency-filtered anomaly records.
func (uc *AnalysisUseCase) Anomalies(ctx context.Context, req models.AnomaliesRequest) ([]models.AnomalyRecord, *models.AnomalySummary, error) {
	table, err := uc.Snapshot(ctx)
	if err != nil {
		return nil, nil, err
	}
	records := analytics.RecentAnomalies(table, req.Days, req.Limit)
	summary := analytics.Summarize(table)
	return records, &summary, nil
}

// Heatmap returns the per-fund heatmap cells.
func (uc *AnalysisUseCase) Heatmap(ctx context.Context) (*models.Heatmap, error) {
	table, err := uc.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	latest := latestRows(table)
	cells := make([]models.HeatmapCell, 0, len(latest))
	catSet := make(map[string]struct{})
	for _, cp := range latest {
		value := analytics.Round(cp.DailyReturn*100, 2)
		category := analytics.CategoryName(cp.NavPoint)
		catSet[category] = struct{}{}
		cells = append(cells, models.HeatmapCell{
			SchemeCode: cp.SchemeCode,
			Name:       analytics.FundName(cp.NavPoint),
			Category:   category,
			Value:      value,
			NAV:        analytics.Round(cp.NAV, 2),
			Anomaly:    cp.IsAnomaly,
			Zscore:     analytics.Round(cp.Zscore, 2),
			Color:      heatmapColor(value, cp.IsAnomaly),
		})
	}

	categories := make([]string, 0, len(catSet))
	for c := range catSet {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	return &models.Heatmap{Data: cells, Categories: categories}, nil
}

// Categories returns per-category stats over the overview window.
func (uc *AnalysisUseCase) Categories(ctx context.Context) ([]models.CategoryStat, error) {
	table, err := uc.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	cutoff := analytics.MaxDate(table).AddDate(0, 0, -overviewWindowDays)
	return categoryStats(table, cutoff), nil
}

// Health pings the storage backend.
func (uc *AnalysisUseCase) Health(ctx context.Context) error {
	return uc.store.Health(ctx)
}

// StreamSeeds adapts the latest per-fund snapshot for the live-stream
// simulator. RollingStd is the daily volatility the simulator ticks with.
func (uc *AnalysisUseCase) StreamSeeds(ctx context.Context) ([]stream.FundSeed, error) {
	table, err := uc.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	latest := latestRows(table)
	seeds := make([]stream.FundSeed, 0, len(latest))
	for _, cp := range latest {
		seeds = append(seeds, stream.FundSeed{
			SchemeCode: cp.SchemeCode,
			FundName:   analytics.FundName(cp.NavPoint),
			NAV:        cp.NAV,
			Volatility: cp.RollingStd,
		})
	}
	return seeds, nil
}

// latestRows returns the last row per scheme preserving (scheme_code, date)
// table order.
func latestRows(table []models.ClassifiedPoint) []models.ClassifiedPoint {
	out := make([]models.ClassifiedPoint, 0)
	for i, cp := range table {
		if i+1 == len(table) || table[i+1].SchemeCode != cp.SchemeCode {
			out = append(out, cp)
		}
	}
	return out
}

// schemeRows returns the contiguous slice for one scheme.
func schemeRows(table []models.ClassifiedPoint, schemeCode string) []models.ClassifiedPoint {
	start := -1
	for i, cp := range table {
		if cp.SchemeCode == schemeCode {
			if start < 0 {
				start = i
			}
		} else if start >= 0 {
			return table[start:i]
		}
	}
	if start < 0 {
		return nil
	}
	return table[start:]
}

func categoryStats(table []models.ClassifiedPoint, cutoff time.Time) []models.CategoryStat {
	type agg struct {
		funds     map[string]struct{}
		sumReturn float64
		sumVol    float64
		n         int
	}
	byCat := make(map[string]*agg)
	for _, cp := range table {
		if cp.Date.Before(cutoff) {
			continue
		}
		category := analytics.CategoryName(cp.NavPoint)
		a, ok := byCat[category]
		if !ok {
			a = &agg{funds: make(map[string]struct{})}
			byCat[category] = a
		}
		a.funds[cp.SchemeCode] = struct{}{}
		a.sumReturn += cp.DailyReturn * 100
		a.sumVol += cp.Volatility * 100
		a.n++
	}

	stats := make([]models.CategoryStat, 0, len(byCat))
	for category, a := range byCat {
		stats = append(stats, models.CategoryStat{
			Category:      category,
			Count:         len(a.funds),
			AvgReturn:     analytics.Round(a.sumReturn/float64(a.n), 2),
			AvgVolatility: analytics.Round(a.sumVol/float64(a.n), 2),
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Category < stats[j].Category })
	return stats
}

func sortSummaries(summaries []models.FundSummary, sortBy string) {
	if sortBy == "" {
		return
	}
	desc := strings.HasPrefix(sortBy, "-")
	key := strings.TrimPrefix(sortBy, "-")

	less := func(a, b models.FundSummary) bool {
		switch key {
		case "latest_nav":
			return a.LatestNAV < b.LatestNAV
		case "daily_return":
			return a.DailyReturn < b.DailyReturn
		case "volatility":
			return a.Volatility < b.Volatility
		case "zscore":
			return a.Zscore < b.Zscore
		case "drawdown":
			return a.Drawdown < b.Drawdown
		case "fund_name":
			return a.FundName < b.FundName
		default:
			return a.SchemeCode < b.SchemeCode
		}
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		if desc {
			return less(summaries[j], summaries[i])
		}
		return less(summaries[i], summaries[j])
	})
}

func heatmapColor(returnPct float64, anomaly bool) string {
	if anomaly {
		return "anomaly"
	}
	switch {
	case returnPct > 2:
		return "strong-positive"
	case returnPct > 0.5:
		return "positive"
	case returnPct > -0.5:
		return "neutral"
	case returnPct > -2:
		return "negative"
	default:
		return "strong-negative"
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
