package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"FundPulse/internal/domain/models"
	"FundPulse/internal/domain/repository"
)

// ClickHouseNavStore implements NavStore for ClickHouse.
type ClickHouseNavStore struct {
	db        *sql.DB
	table     string
	batchSize int
}

// NewClickHouseNavStore creates ClickHouse NAV storage.
func NewClickHouseNavStore(db *sql.DB, table string, batchSize int) repository.NavStore {
	if batchSize <= 0 {
		batchSize = 2000
	}
	return &ClickHouseNavStore{db: db, table: table, batchSize: batchSize}
}

// SchemaStatements returns idempotent DDL for the NAV history table.
func SchemaStatements(table string) []string {
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			scheme_code LowCardinality(String),
			scheme_name String,
			category    LowCardinality(String),
			fund_type   LowCardinality(String),
			date        Date,
			nav         Float64
		) ENGINE = ReplacingMergeTree()
		ORDER BY (scheme_code, date)`, table),
	}
}

func (s *ClickHouseNavStore) QueryAll(ctx context.Context) ([]models.NavPoint, error) {
	q := fmt.Sprintf("SELECT scheme_code, scheme_name, category, fund_type, date, nav FROM %s ORDER BY scheme_code, date", s.table)
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query nav history: %w", err)
	}
	defer rows.Close()

	var points []models.NavPoint
	for rows.Next() {
		var p models.NavPoint
		if err := rows.Scan(&p.SchemeCode, &p.SchemeName, &p.Category, &p.FundType, &p.Date, &p.NAV); err != nil {
			return nil, fmt.Errorf("scan nav row: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

func (s *ClickHouseNavStore) StoreBatch(ctx context.Context, points []models.NavPoint) error {
	if len(points) == 0 {
		return nil
	}
	// Multi-row VALUES inserts chunked to keep statements bounded.
	for start := 0; start < len(points); start += s.batchSize {
		end := start + s.batchSize
		if end > len(points) {
			end = len(points)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*6)
		for _, p := range points[start:end] {
			if p.SchemeCode == "" || p.Date.IsZero() {
				continue
			}
			values = append(values, "(?, ?, ?, ?, ?, ?)")
			args = append(args, p.SchemeCode, p.SchemeName, p.Category, p.FundType, p.Date, p.NAV)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (scheme_code, scheme_name, category, fund_type, date, nav) VALUES %s",
			s.table, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("insert nav batch: %w", err)
		}
	}
	return nil
}

func (s *ClickHouseNavStore) ReplaceAll(ctx context.Context, points []models.NavPoint) error {
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf("TRUNCATE TABLE %s", s.table)); err != nil {
		return fmt.Errorf("truncate nav history: %w", err)
	}
	return s.StoreBatch(ctx, points)
}

func (s *ClickHouseNavStore) Count(ctx context.Context) (int, error) {
	var n int
	q := fmt.Sprintf("SELECT count() FROM %s", s.table)
	if err := s.db.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, fmt.Errorf("count nav rows: %w", err)
	}
	return n, nil
}

func (s *ClickHouseNavStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseNavStore) Close() error {
	return nil // Managed by pkg
}
