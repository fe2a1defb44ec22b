package models

// Presentation-facing aggregates served by the dashboard API.
// These carry json tags because they are returned to clients as-is.

// SignalMetrics holds the numeric snapshot attached to a signal.
type SignalMetrics struct {
	NAV    float64 `json:"nav"`
	Change float64 `json:"change"` // daily return as a percentage
	Zscore float64 `json:"zscore"`
}

// Signal is a display-oriented projection of a classified anomaly.
// Ephemeral: recomputed per request, never persisted.
type Signal struct {
	ID         string        `json:"id"`
	Timestamp  string        `json:"timestamp"`
	Type       string        `json:"type"` // critical, alert, warning, info
	Icon       string        `json:"icon"`
	Color      string        `json:"color"`
	Title      string        `json:"title"`
	FundName   string        `json:"fund_name"`
	SchemeCode string        `json:"scheme_code"`
	Category   string        `json:"category"`
	Message    string        `json:"message"`
	Severity   Severity      `json:"severity"`
	Confidence float64       `json:"confidence"`
	Metrics    SignalMetrics `json:"metrics"`
}

// AnomalyRecord is one row of the recent-anomaly listing.
type AnomalyRecord struct {
	ID          string    `json:"id"`
	SchemeCode  string    `json:"scheme_code"`
	FundName    string    `json:"fund_name"`
	Category    string    `json:"category"`
	Date        string    `json:"date"`
	Timestamp   string    `json:"timestamp"`
	NAV         float64   `json:"nav"`
	DailyReturn float64   `json:"daily_return"` // percentage
	Zscore      float64   `json:"zscore"`
	Severity    Severity  `json:"severity"`
	Direction   Direction `json:"direction"`
	Explanation string    `json:"explanation"`
}

// AnomalySummary aggregates anomaly counts over a classified table.
type AnomalySummary struct {
	TotalAnomalies int     `json:"total_anomalies"`
	HighSeverity   int     `json:"high_severity"`
	MediumSeverity int     `json:"medium_severity"`
	UpMovements    int     `json:"up_movements"`
	DownMovements  int     `json:"down_movements"`
	AffectedFunds  int     `json:"affected_funds"`
	AnomalyRate    float64 `json:"anomaly_rate"` // percentage
}

// RiskProfile aggregates a full fund history into risk metrics.
type RiskProfile struct {
	Volatility          float64 `json:"volatility"`   // percentage
	MaxDrawdown         float64 `json:"max_drawdown"` // percentage
	SharpeEstimate      float64 `json:"sharpe_estimate"`
	AnomalyFrequency    float64 `json:"anomaly_frequency"` // percentage
	AvgAnomalyMagnitude float64 `json:"avg_anomaly_magnitude"`
	RiskScore           string  `json:"risk_score"` // Low, Medium, High
}

// FundSummary is the latest-row snapshot of one fund for list views.
type FundSummary struct {
	SchemeCode  string  `json:"scheme_code"`
	FundName    string  `json:"fund_name"`
	Category    string  `json:"category"`
	FundType    string  `json:"fund_type"`
	LatestNAV   float64 `json:"latest_nav"`
	DailyReturn float64 `json:"daily_return"` // percentage
	Volatility  float64 `json:"volatility"`   // percentage
	AnomalyFlag bool    `json:"anomaly_flag"`
	Zscore      float64 `json:"zscore"`
	Drawdown    float64 `json:"drawdown"` // percentage
}

// NavHistoryRecord is one chart point in a fund detail response.
type NavHistoryRecord struct {
	Date        string  `json:"date"`
	NAV         float64 `json:"nav"`
	DailyReturn float64 `json:"daily_return"` // percentage
	Zscore      float64 `json:"zscore"`
	Volatility  float64 `json:"volatility"` // percentage
}

// FundAnomaly is one anomalous row in a fund detail response.
type FundAnomaly struct {
	Date      string    `json:"date"`
	NAV       float64   `json:"nav"`
	Zscore    float64   `json:"zscore"`
	Severity  Severity  `json:"severity"`
	Direction Direction `json:"direction"`
}

// FundDetail is the full dashboard payload for one fund.
type FundDetail struct {
	SchemeCode   string             `json:"scheme_code"`
	FundName     string             `json:"fund_name"`
	Category     string             `json:"category"`
	LatestNAV    float64            `json:"latest_nav"`
	Volatility   float64            `json:"volatility"` // percentage
	Drawdown     float64            `json:"drawdown"`   // percentage
	TotalReturn  float64            `json:"total_return"`
	History      []NavHistoryRecord `json:"history"`
	Anomalies    []FundAnomaly      `json:"anomalies"`
	AnomalyCount int                `json:"anomaly_count"`
	RiskMetrics  *RiskProfile       `json:"risk_metrics,omitempty"`
}

// CategoryStat aggregates recent activity within one fund category.
type CategoryStat struct {
	Category      string  `json:"category"`
	Count         int     `json:"count"`
	AvgReturn     float64 `json:"avg_return"`
	AvgVolatility float64 `json:"avg_volatility"`
}

// Overview holds headline dashboard statistics.
type Overview struct {
	TotalFunds         int            `json:"total_funds"`
	FundsInAnomaly     int            `json:"funds_in_anomaly"`
	AnomalyRate        float64        `json:"anomaly_rate"`    // percentage
	AvgNavChange       float64        `json:"avg_nav_change"`  // percentage, clamped
	AvgVolatility      float64        `json:"avg_volatility"`  // percentage, clamped
	CategoryStats      []CategoryStat `json:"category_stats"`
	RecentAnomalyCount int            `json:"recent_anomaly_count"`
	LastUpdated        string         `json:"last_updated"`
}

// HeatmapCell is one fund cell in the heatmap view.
type HeatmapCell struct {
	SchemeCode string  `json:"scheme_code"`
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Value      float64 `json:"value"` // daily return pct
	NAV        float64 `json:"nav"`
	Anomaly    bool    `json:"anomaly"`
	Zscore     float64 `json:"zscore"`
	Color      string  `json:"color"`
}

// Heatmap is the full heatmap payload.
type Heatmap struct {
	Data       []HeatmapCell `json:"data"`
	Categories []string      `json:"categories"`
}

// UploadResult reports the outcome of a NAV file upload.
type UploadResult struct {
	Success     bool                `json:"success"`
	Filename    string              `json:"filename"`
	TotalRows   int                 `json:"total_rows"`
	UniqueFunds int                 `json:"unique_funds"`
	Columns     []string            `json:"columns"`
	Preview     []map[string]string `json:"preview"`
}
