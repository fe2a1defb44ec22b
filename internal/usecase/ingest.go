package usecase

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"

	"FundPulse/internal/domain/models"
	domrepo "FundPulse/internal/domain/repository"
	"FundPulse/pkg/logger"
	"FundPulse/pkg/util"
)

const previewRows = 15

// ErrInvalidCSV marks upload failures caused by the file itself, as opposed
// to storage failures while persisting it.
var ErrInvalidCSV = errors.New("invalid csv")

// columnAliases maps normalized CSV header names to canonical fields.
var columnAliases = map[string]string{
	"scheme_code":     "scheme_code",
	"code":            "scheme_code",
	"fund_code":       "scheme_code",
	"scheme":          "scheme_code",
	"scheme_name":     "scheme_name",
	"name":            "scheme_name",
	"fund_name":       "scheme_name",
	"category":        "category",
	"fund_category":   "category",
	"fund_type":       "fund_type",
	"type":            "fund_type",
	"date":            "date",
	"nav_date":        "date",
	"nav":             "nav",
	"value":           "nav",
	"net_asset_value": "nav",
}

// IngestUseCase replaces the stored NAV table from an uploaded CSV file.
type IngestUseCase struct {
	store    domrepo.NavStore
	analysis *AnalysisUseCase
	log      *logger.Logger
}

func NewIngestUseCase(store domrepo.NavStore, analysis *AnalysisUseCase, log *logger.Logger) *IngestUseCase {
	return &IngestUseCase{store: store, analysis: analysis, log: log}
}

// UploadCSV parses a NAV history CSV, replaces the stored table, and
// invalidates the processed snapshot. Rows with an unparseable date or NAV
// are dropped, not rejected.
func (uc *IngestUseCase) UploadCSV(ctx context.Context, filename string, r io.Reader) (*models.UploadResult, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: read header: %v", ErrInvalidCSV, err)
	}

	columns := make([]string, len(header))
	fields := make([]string, len(header))
	for i, h := range header {
		norm := util.NormalizeColumn(h)
		columns[i] = norm
		fields[i] = columnAliases[norm]
	}

	if !containsField(fields, "scheme_code") || !containsField(fields, "date") || !containsField(fields, "nav") {
		return nil, fmt.Errorf("%w: missing required columns (scheme_code, date, nav), got %v", ErrInvalidCSV, columns)
	}

	var points []models.NavPoint
	var preview []map[string]string
	funds := make(map[string]struct{})
	dropped := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read row: %v", ErrInvalidCSV, err)
		}

		var p models.NavPoint
		valid := true
		row := make(map[string]string, len(columns))
		for i, cell := range record {
			if i >= len(fields) {
				break
			}
			row[columns[i]] = cell
			switch fields[i] {
			case "scheme_code":
				p.SchemeCode = cell
			case "scheme_name":
				p.SchemeName = cell
			case "category":
				p.Category = cell
			case "fund_type":
				p.FundType = cell
			case "date":
				d, ok := util.ParseDate(cell)
				if !ok {
					valid = false
				}
				p.Date = d
			case "nav":
				nav, err := strconv.ParseFloat(cell, 64)
				if err != nil || math.IsNaN(nav) || math.IsInf(nav, 0) {
					valid = false
				}
				p.NAV = nav
			}
		}
		if !valid || p.SchemeCode == "" {
			dropped++
			continue
		}

		points = append(points, p)
		funds[p.SchemeCode] = struct{}{}
		if len(preview) < previewRows {
			preview = append(preview, row)
		}
	}

	if len(points) == 0 {
		return nil, fmt.Errorf("%w: no valid rows", ErrInvalidCSV)
	}

	sort.SliceStable(points, func(i, j int) bool {
		if points[i].SchemeCode != points[j].SchemeCode {
			return points[i].SchemeCode < points[j].SchemeCode
		}
		return points[i].Date.Before(points[j].Date)
	})

	if err := uc.store.ReplaceAll(ctx, points); err != nil {
		return nil, fmt.Errorf("replace nav history: %w", err)
	}
	if err := uc.analysis.Invalidate(ctx); err != nil {
		uc.log.Warn("snapshot invalidation failed", logger.Error(err))
	}

	uc.log.Info("nav history replaced",
		logger.String("filename", filename),
		logger.Int("rows", len(points)),
		logger.Int("dropped", dropped),
		logger.Int("funds", len(funds)),
	)

	return &models.UploadResult{
		Success:     true,
		Filename:    filename,
		TotalRows:   len(points),
		UniqueFunds: len(funds),
		Columns:     columns,
		Preview:     preview,
	}, nil
}

func containsField(fields []string, want string) bool {
	for _, f := range fields {
		if f == want {
			return true
		}
	}
	return false
}
