package models

// Requests for dashboard HTTP endpoints. Defined in domain for consistency and reuse.

type FundsRequest struct {
	Category    string `query:"category" json:"category"`
	AnomalyOnly bool   `query:"anomaly_only" json:"anomaly_only"`
	SortBy      string `query:"sort_by" json:"sort_by"`
	Limit       int    `query:"limit" json:"limit" default:"50" validate:"gte=1,lte=500"`
}

type SignalsRequest struct {
	Limit    int    `query:"limit" json:"limit" default:"20" validate:"gte=1,lte=200"`
	Severity string `query:"severity" json:"severity" validate:"omitempty,oneof=high medium"`
}

type AnomaliesRequest struct {
	Days  int `query:"days" json:"days" default:"7" validate:"gte=1,lte=365"`
	Limit int `query:"limit" json:"limit" default:"50" validate:"gte=1,lte=500"`
}
