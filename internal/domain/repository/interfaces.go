package repository

import (
	"context"

	"FundPulse/internal/domain/models"
)

// NavStore provides access to the NAV history table.
type NavStore interface {
	// QueryAll returns the full table ordered by (scheme_code, date).
	QueryAll(ctx context.Context) ([]models.NavPoint, error)
	// StoreBatch appends NAV rows.
	StoreBatch(ctx context.Context, points []models.NavPoint) error
	// ReplaceAll truncates the table and stores the given rows.
	ReplaceAll(ctx context.Context, points []models.NavPoint) error
	Count(ctx context.Context) (int, error)
	Health(ctx context.Context) error
	Close() error
}

// AlertPublisher pushes anomaly alerts to downstream consumers.
type AlertPublisher interface {
	PublishAlerts(ctx context.Context, alerts []models.AnomalyRecord) error
	Close() error
}

// Metrics records operational metrics.
type Metrics interface {
	RecordRowsScored(n int)
	RecordAnomaly(severity, direction string)
	RecordSnapshotBuild(seconds float64)
	RecordError(kind string)
	RecordLastNAV(schemeCode string, nav float64)
}
