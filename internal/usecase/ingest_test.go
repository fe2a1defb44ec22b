package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"FundPulse/pkg/cache"
)

func newTestIngest(t *testing.T) (*IngestUseCase, *fakeStore, *AnalysisUseCase) {
	t.Helper()
	store := &fakeStore{}
	analysis := NewAnalysisUseCase(store, cache.NewMemoryCache(), &fakePublisher{}, fakeMetrics{}, testLogger(t), DefaultAnalysisOptions())
	return NewIngestUseCase(store, analysis, testLogger(t)), store, analysis
}

func TestUploadCSVReplacesStore(t *testing.T) {
	ingest, store, _ := newTestIngest(t)

	csvData := strings.Join([]string{
		"Scheme Code,Fund Name,Category,Date,Net Asset Value",
		"MF002,Corporate Bond Fund,Debt,2026-01-02,50.10",
		"MF001,Bluechip Fund,Equity,2026-01-01,100.00",
		"MF001,Bluechip Fund,Equity,2026-01-02,101.50",
	}, "\n")

	result, err := ingest.UploadCSV(context.Background(), "navs.csv", strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if result.TotalRows != 3 {
		t.Fatalf("total rows %d, want 3", result.TotalRows)
	}
	if result.UniqueFunds != 2 {
		t.Fatalf("unique funds %d, want 2", result.UniqueFunds)
	}
	if len(result.Preview) != 3 {
		t.Fatalf("preview has %d rows, want 3", len(result.Preview))
	}

	// Stored rows must come back ordered by (scheme_code, date).
	if store.points[0].SchemeCode != "MF001" || store.points[2].SchemeCode != "MF002" {
		t.Fatalf("rows not sorted: %+v", store.points)
	}
	if store.points[0].NAV != 100.00 || !store.points[0].Date.Before(store.points[1].Date) {
		t.Fatalf("MF001 rows out of order: %+v", store.points[:2])
	}
	if store.points[0].SchemeName != "Bluechip Fund" || store.points[0].Category != "Equity" {
		t.Fatalf("scheme details not mapped: %+v", store.points[0])
	}
}

func TestUploadCSVNormalizesHeadersAndAliases(t *testing.T) {
	ingest, store, _ := newTestIngest(t)

	csvData := strings.Join([]string{
		"CODE,NAME,NAV Date,VALUE",
		"MF005,Dividend Yield Fund,2026-01-05,38.90",
	}, "\n")

	result, err := ingest.UploadCSV(context.Background(), "dump.csv", strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if result.Columns[2] != "nav_date" {
		t.Fatalf("columns %v, want normalized nav_date", result.Columns)
	}
	if store.points[0].SchemeCode != "MF005" || store.points[0].NAV != 38.90 {
		t.Fatalf("aliased columns not mapped: %+v", store.points[0])
	}
}

func TestUploadCSVDropsInvalidRows(t *testing.T) {
	ingest, _, _ := newTestIngest(t)

	csvData := strings.Join([]string{
		"scheme_code,date,nav",
		"MF001,2026-01-01,100.00",
		"MF001,not-a-date,101.00",
		"MF001,2026-01-03,not-a-number",
		",2026-01-04,102.00",
	}, "\n")

	result, err := ingest.UploadCSV(context.Background(), "mixed.csv", strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if result.TotalRows != 1 {
		t.Fatalf("total rows %d, want 1 (invalid rows dropped)", result.TotalRows)
	}
}

func TestUploadCSVDropsNonFiniteNAV(t *testing.T) {
	ingest, store, _ := newTestIngest(t)

	csvData := strings.Join([]string{
		"scheme_code,date,nav",
		"MF001,2026-01-01,NaN",
		"MF001,2026-01-02,Inf",
		"MF001,2026-01-03,-Inf",
		"MF001,2026-01-04,100.00",
	}, "\n")

	result, err := ingest.UploadCSV(context.Background(), "nonfinite.csv", strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if result.TotalRows != 1 {
		t.Fatalf("total rows %d, want 1 (non-finite navs dropped)", result.TotalRows)
	}
	if len(store.points) != 1 || store.points[0].NAV != 100.00 {
		t.Fatalf("stored rows %+v, want the single finite nav", store.points)
	}
}

func TestUploadCSVRejectsMissingColumns(t *testing.T) {
	ingest, _, _ := newTestIngest(t)

	csvData := "scheme_code,nav\nMF001,100.00\n"
	_, err := ingest.UploadCSV(context.Background(), "bad.csv", strings.NewReader(csvData))
	if err == nil {
		t.Fatalf("expected error for missing date column")
	}
	if !errors.Is(err, ErrInvalidCSV) {
		t.Fatalf("error %v, want ErrInvalidCSV", err)
	}
}

func TestUploadCSVStorageFailureIsNotInvalidCSV(t *testing.T) {
	ingest, store, _ := newTestIngest(t)
	store.replaceErr = errors.New("clickhouse down")

	csvData := "scheme_code,date,nav\nMF001,2026-01-01,100.00\n"
	_, err := ingest.UploadCSV(context.Background(), "ok.csv", strings.NewReader(csvData))
	if err == nil {
		t.Fatalf("expected storage error")
	}
	if errors.Is(err, ErrInvalidCSV) {
		t.Fatalf("storage failure wrongly marked as invalid csv: %v", err)
	}
}

func TestUploadCSVInvalidatesSnapshot(t *testing.T) {
	ingest, store, analysis := newTestIngest(t)
	ctx := context.Background()

	store.points = testTable()
	if _, err := analysis.Snapshot(ctx); err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	csvData := "scheme_code,date,nav\nMF010,2026-01-01,76.20\n"
	if _, err := ingest.UploadCSV(ctx, "new.csv", strings.NewReader(csvData)); err != nil {
		t.Fatalf("upload: %v", err)
	}

	table, err := analysis.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(table) != 1 || table[0].SchemeCode != "MF010" {
		t.Fatalf("snapshot not rebuilt from new data: %d rows", len(table))
	}
}

func TestGenerateSampleDataDeterministic(t *testing.T) {
	a := GenerateSampleData(42, 15)
	b := GenerateSampleData(42, 15)
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("row %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}

	codes := make(map[string]struct{})
	for _, p := range a {
		codes[p.SchemeCode] = struct{}{}
		if wd := p.Date.Weekday(); wd == 0 || wd == 6 {
			t.Fatalf("weekend row generated: %v", p.Date)
		}
		if p.NAV <= 0 {
			t.Fatalf("non-positive nav: %+v", p)
		}
	}
	if len(codes) != 15 {
		t.Fatalf("got %d schemes, want 15", len(codes))
	}
}
