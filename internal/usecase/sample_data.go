package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"FundPulse/internal/domain/models"
	domrepo "FundPulse/internal/domain/repository"
	"FundPulse/pkg/logger"
)

// sampleScheme describes one generated fund.
type sampleScheme struct {
	code     string
	name     string
	category string
	fundType string
	startNAV float64
	drift    float64
	vol      float64
}

var sampleSchemes = []sampleScheme{
	{"MF001", "Bluechip Equity Growth Fund", "Equity", "Open Ended", 245.50, 0.0006, 0.011},
	{"MF002", "Flexi Cap Opportunities Fund", "Equity", "Open Ended", 98.32, 0.0005, 0.013},
	{"MF003", "Mid Cap Momentum Fund", "Equity", "Open Ended", 152.18, 0.0007, 0.016},
	{"MF004", "Small Cap Discovery Fund", "Equity", "Open Ended", 64.75, 0.0008, 0.019},
	{"MF005", "Dividend Yield Fund", "Equity", "Open Ended", 38.90, 0.0004, 0.010},
	{"MF006", "Corporate Bond Fund", "Debt", "Open Ended", 28.44, 0.0002, 0.003},
	{"MF007", "Gilt Long Duration Fund", "Debt", "Open Ended", 52.07, 0.0002, 0.004},
	{"MF008", "Short Term Debt Fund", "Debt", "Open Ended", 24.91, 0.0002, 0.002},
	{"MF009", "Liquid Fund", "Debt", "Open Ended", 3412.65, 0.0001, 0.001},
	{"MF010", "Balanced Advantage Fund", "Hybrid", "Open Ended", 76.20, 0.0004, 0.008},
	{"MF011", "Aggressive Hybrid Fund", "Hybrid", "Open Ended", 112.83, 0.0005, 0.009},
	{"MF012", "Conservative Hybrid Fund", "Hybrid", "Open Ended", 45.36, 0.0003, 0.005},
	{"MF013", "Nifty 50 Index Fund", "Index", "Open Ended", 189.44, 0.0005, 0.010},
	{"MF014", "Gold Fund of Funds", "Commodity", "Open Ended", 21.58, 0.0003, 0.009},
	{"MF015", "International Equity Fund", "Equity", "Open Ended", 33.12, 0.0005, 0.014},
}

const anomalyChance = 0.02

// SeederUseCase populates the store with generated NAV history when empty.
type SeederUseCase struct {
	store domrepo.NavStore
	log   *logger.Logger
	seed  int64
	count int
}

func NewSeederUseCase(store domrepo.NavStore, log *logger.Logger, seed int64, schemeCount int) *SeederUseCase {
	if schemeCount <= 0 || schemeCount > len(sampleSchemes) {
		schemeCount = len(sampleSchemes)
	}
	return &SeederUseCase{store: store, log: log, seed: seed, count: schemeCount}
}

// SeedIfEmpty stores a generated dataset when the NAV table has no rows.
func (uc *SeederUseCase) SeedIfEmpty(ctx context.Context) error {
	n, err := uc.store.Count(ctx)
	if err != nil {
		return fmt.Errorf("count nav rows: %w", err)
	}
	if n > 0 {
		uc.log.Debug("nav history present, skipping seed", logger.Int("rows", n))
		return nil
	}

	points := GenerateSampleData(uc.seed, uc.count)
	if err := uc.store.StoreBatch(ctx, points); err != nil {
		return fmt.Errorf("store sample data: %w", err)
	}
	uc.log.Info("seeded sample nav history",
		logger.Int("rows", len(points)),
		logger.Int("funds", uc.count),
	)
	return nil
}

// GenerateSampleData builds a deterministic random-walk NAV dataset over
// business days from 2024-01-01 through 2026-02-01, with occasional injected
// anomaly moves.
func GenerateSampleData(seed int64, schemeCount int) []models.NavPoint {
	if schemeCount <= 0 || schemeCount > len(sampleSchemes) {
		schemeCount = len(sampleSchemes)
	}
	rng := rand.New(rand.NewSource(seed))

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	var points []models.NavPoint
	for _, s := range sampleSchemes[:schemeCount] {
		nav := s.startNAV
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
				continue
			}

			ret := s.drift + rng.NormFloat64()*s.vol
			if rng.Float64() < anomalyChance {
				// Outsized move well past the detection threshold.
				ret = s.vol * (5 + rng.Float64()*5)
				if rng.Float64() < 0.5 {
					ret = -ret
				}
			}
			nav *= 1 + ret
			if nav < 0.01 {
				nav = 0.01
			}

			points = append(points, models.NavPoint{
				SchemeCode: s.code,
				SchemeName: s.name,
				Category:   s.category,
				FundType:   s.fundType,
				Date:       d,
				NAV:        nav,
			})
		}
	}
	return points
}
