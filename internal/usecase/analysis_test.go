package usecase

import (
	"context"
	"testing"
	"time"

	"FundPulse/internal/domain/models"
	"FundPulse/pkg/cache"
	"FundPulse/pkg/logger"
)

type fakeStore struct {
	points     []models.NavPoint
	queries    int
	replaceErr error
}

func (s *fakeStore) QueryAll(context.Context) ([]models.NavPoint, error) {
	s.queries++
	return s.points, nil
}

func (s *fakeStore) StoreBatch(_ context.Context, points []models.NavPoint) error {
	s.points = append(s.points, points...)
	return nil
}

func (s *fakeStore) ReplaceAll(_ context.Context, points []models.NavPoint) error {
	if s.replaceErr != nil {
		return s.replaceErr
	}
	s.points = points
	return nil
}

func (s *fakeStore) Count(context.Context) (int, error) { return len(s.points), nil }
func (s *fakeStore) Health(context.Context) error       { return nil }
func (s *fakeStore) Close() error                       { return nil }

type fakePublisher struct {
	published []models.AnomalyRecord
}

func (p *fakePublisher) PublishAlerts(_ context.Context, alerts []models.AnomalyRecord) error {
	p.published = append(p.published, alerts...)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

type fakeMetrics struct{}

func (fakeMetrics) RecordRowsScored(int)          {}
func (fakeMetrics) RecordAnomaly(string, string)  {}
func (fakeMetrics) RecordSnapshotBuild(float64)   {}
func (fakeMetrics) RecordError(string)            {}
func (fakeMetrics) RecordLastNAV(string, float64) {}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

// spikeFund builds n-1 stable rows then a 10% jump on the last day.
func spikeFund(code, name, category string, base float64, n int, start time.Time) []models.NavPoint {
	points := make([]models.NavPoint, 0, n)
	nav := base
	for i := 0; i < n; i++ {
		if i == n-1 {
			nav *= 1.10
		} else if i > 0 {
			if i%2 == 0 {
				nav = base * 1.0005
			} else {
				nav = base * 0.9995
			}
		}
		points = append(points, models.NavPoint{
			SchemeCode: code,
			SchemeName: name,
			Category:   category,
			FundType:   "Open Ended",
			Date:       start.AddDate(0, 0, i),
			NAV:        nav,
		})
	}
	return points
}

func flatFund(code, name, category string, nav float64, n int, start time.Time) []models.NavPoint {
	points := make([]models.NavPoint, 0, n)
	for i := 0; i < n; i++ {
		points = append(points, models.NavPoint{
			SchemeCode: code,
			SchemeName: name,
			Category:   category,
			FundType:   "Open Ended",
			Date:       start.AddDate(0, 0, i),
			NAV:        nav,
		})
	}
	return points
}

func newTestUC(t *testing.T, points []models.NavPoint) (*AnalysisUseCase, *fakeStore, *fakePublisher) {
	t.Helper()
	store := &fakeStore{points: points}
	pub := &fakePublisher{}
	uc := NewAnalysisUseCase(store, cache.NewMemoryCache(), pub, fakeMetrics{}, testLogger(t), DefaultAnalysisOptions())
	return uc, store, pub
}

func testTable() []models.NavPoint {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	points := spikeFund("MF001", "Bluechip Equity Growth Fund", "Equity", 100, 30, start)
	points = append(points, flatFund("MF002", "Corporate Bond Fund", "Debt", 50, 30, start)...)
	return points
}

func TestSnapshotIsCachedAcrossCalls(t *testing.T) {
	uc, store, _ := newTestUC(t, testTable())
	ctx := context.Background()

	if _, err := uc.Snapshot(ctx); err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if _, err := uc.Snapshot(ctx); err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if store.queries != 1 {
		t.Fatalf("store queried %d times, want 1", store.queries)
	}
}

func TestInvalidateForcesRebuild(t *testing.T) {
	uc, store, _ := newTestUC(t, testTable())
	ctx := context.Background()

	if _, err := uc.Snapshot(ctx); err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if err := uc.Invalidate(ctx); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if _, err := uc.Snapshot(ctx); err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if store.queries != 2 {
		t.Fatalf("store queried %d times, want 2", store.queries)
	}
}

func TestHighSeverityAlertsPublishedOnBuild(t *testing.T) {
	uc, _, pub := newTestUC(t, testTable())

	if _, err := uc.Snapshot(context.Background()); err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(pub.published) == 0 {
		t.Fatalf("expected high-severity alerts to be published")
	}
	for _, a := range pub.published {
		if a.Severity != models.SeverityHigh {
			t.Errorf("published %s alert, want high only", a.Severity)
		}
	}
}

func TestFundListFiltersAndSorts(t *testing.T) {
	uc, _, _ := newTestUC(t, testTable())
	ctx := context.Background()

	all, err := uc.FundList(ctx, models.FundsRequest{Limit: 50})
	if err != nil {
		t.Fatalf("fund list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d funds, want 2", len(all))
	}

	equity, err := uc.FundList(ctx, models.FundsRequest{Category: "Equity", Limit: 50})
	if err != nil {
		t.Fatalf("fund list: %v", err)
	}
	if len(equity) != 1 || equity[0].SchemeCode != "MF001" {
		t.Fatalf("category filter returned %+v", equity)
	}

	anomalous, err := uc.FundList(ctx, models.FundsRequest{AnomalyOnly: true, Limit: 50})
	if err != nil {
		t.Fatalf("fund list: %v", err)
	}
	if len(anomalous) != 1 || anomalous[0].SchemeCode != "MF001" {
		t.Fatalf("anomaly filter returned %+v", anomalous)
	}
	if !anomalous[0].AnomalyFlag {
		t.Fatalf("anomaly flag not set on %+v", anomalous[0])
	}

	byReturn, err := uc.FundList(ctx, models.FundsRequest{SortBy: "-daily_return", Limit: 50})
	if err != nil {
		t.Fatalf("fund list: %v", err)
	}
	if byReturn[0].SchemeCode != "MF001" {
		t.Fatalf("descending return sort put %s first", byReturn[0].SchemeCode)
	}
}

func TestFundDetailNotFound(t *testing.T) {
	uc, _, _ := newTestUC(t, testTable())

	if _, err := uc.FundDetail(context.Background(), "MF999"); err != ErrFundNotFound {
		t.Fatalf("got err %v, want ErrFundNotFound", err)
	}
}

func TestFundDetailCapsHistory(t *testing.T) {
	start := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	uc, _, _ := newTestUC(t, flatFund("MF003", "Liquid Fund", "Debt", 3412.65, 90, start))

	detail, err := uc.FundDetail(context.Background(), "MF003")
	if err != nil {
		t.Fatalf("fund detail: %v", err)
	}
	if len(detail.History) != 60 {
		t.Fatalf("history has %d points, want 60", len(detail.History))
	}
	if detail.TotalReturn != 0 {
		t.Fatalf("flat fund total return %v, want 0", detail.TotalReturn)
	}
	if detail.RiskMetrics == nil {
		t.Fatalf("expected risk metrics")
	}
	if detail.RiskMetrics.RiskScore != "Low" {
		t.Fatalf("flat fund risk score %q, want Low", detail.RiskMetrics.RiskScore)
	}
}

func TestOverviewCounts(t *testing.T) {
	uc, _, _ := newTestUC(t, testTable())

	overview, err := uc.Overview(context.Background())
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if overview.TotalFunds != 2 {
		t.Fatalf("total funds %d, want 2", overview.TotalFunds)
	}
	if overview.FundsInAnomaly != 1 {
		t.Fatalf("funds in anomaly %d, want 1", overview.FundsInAnomaly)
	}
	if overview.AnomalyRate != 50.0 {
		t.Fatalf("anomaly rate %v, want 50.0", overview.AnomalyRate)
	}
	if overview.AvgVolatility < 0 || overview.AvgVolatility > 50 {
		t.Fatalf("avg volatility %v outside clamp range", overview.AvgVolatility)
	}
	if len(overview.CategoryStats) != 2 {
		t.Fatalf("category stats %+v, want 2 entries", overview.CategoryStats)
	}
	if overview.RecentAnomalyCount == 0 {
		t.Fatalf("expected recent anomalies within lookback")
	}
}

func TestHeatmapCells(t *testing.T) {
	uc, _, _ := newTestUC(t, testTable())

	hm, err := uc.Heatmap(context.Background())
	if err != nil {
		t.Fatalf("heatmap: %v", err)
	}
	if len(hm.Data) != 2 {
		t.Fatalf("got %d cells, want 2", len(hm.Data))
	}
	for _, cell := range hm.Data {
		switch cell.SchemeCode {
		case "MF001":
			if !cell.Anomaly || cell.Color != "anomaly" {
				t.Errorf("spiked fund cell %+v, want anomaly color", cell)
			}
		case "MF002":
			if cell.Anomaly || cell.Color != "neutral" {
				t.Errorf("flat fund cell %+v, want neutral color", cell)
			}
		}
	}
	if len(hm.Categories) != 2 || hm.Categories[0] != "Debt" {
		t.Fatalf("categories %v, want sorted [Debt Equity]", hm.Categories)
	}
}

func TestSignalsSeverityFilter(t *testing.T) {
	uc, _, _ := newTestUC(t, testTable())

	signals, err := uc.Signals(context.Background(), models.SignalsRequest{Limit: 20, Severity: "high"})
	if err != nil {
		t.Fatalf("signals: %v", err)
	}
	if len(signals) == 0 {
		t.Fatalf("expected at least one high-severity signal")
	}
	for _, s := range signals {
		if s.Severity != models.SeverityHigh {
			t.Errorf("signal severity %s, want high", s.Severity)
		}
	}
}

func TestAnomaliesEndpointData(t *testing.T) {
	uc, _, _ := newTestUC(t, testTable())

	records, summary, err := uc.Anomalies(context.Background(), models.AnomaliesRequest{Days: 7, Limit: 50})
	if err != nil {
		t.Fatalf("anomalies: %v", err)
	}
	if len(records) == 0 {
		t.Fatalf("expected anomaly records")
	}
	if summary.TotalAnomalies == 0 {
		t.Fatalf("expected non-zero summary totals")
	}
	if records[0].SchemeCode != "MF001" {
		t.Fatalf("anomaly scheme %s, want MF001", records[0].SchemeCode)
	}
}
