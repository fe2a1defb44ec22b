package analytics

import (
	"fmt"

	"FundPulse/internal/domain/models"
)

// signalStyle pairs a signal type with its fixed icon, color, and title
// template. The four variants are not independently configurable.
type signalStyle struct {
	Type  string
	Icon  string
	Color string
	Title string // fmt template taking the category
}

var (
	styleCritical = signalStyle{Type: "critical", Icon: "⚠️", Color: "red", Title: "%s fund major drop detected"}
	styleAlert    = signalStyle{Type: "alert", Icon: "📈", Color: "yellow", Title: "%s fund unusual spike"}
	styleWarning  = signalStyle{Type: "warning", Icon: "📉", Color: "orange", Title: "%s fund volatility alert"}
	styleInfo     = signalStyle{Type: "info", Icon: "📊", Color: "blue", Title: "%s fund movement detected"}
)

// styleFor selects the display variant for an anomaly; first match wins.
func styleFor(severity models.Severity, direction models.Direction) signalStyle {
	switch {
	case severity == models.SeverityHigh && direction == models.DirectionDown:
		return styleCritical
	case severity == models.SeverityHigh && direction == models.DirectionUp:
		return styleAlert
	case direction == models.DirectionDown:
		return styleWarning
	default:
		return styleInfo
	}
}

// BuildSignal maps a classified anomaly to its signal-feed projection.
// The fund name and category must already be normalized by the caller.
func BuildSignal(cp models.ClassifiedPoint, fundName, category string) models.Signal {
	style := styleFor(cp.Severity, cp.Direction)
	return models.Signal{
		ID:         fmt.Sprintf("sig_%s_%s", cp.SchemeCode, cp.Date.Format("200601021504")),
		Timestamp:  cp.Date.Format(timestampLayout),
		Type:       style.Type,
		Icon:       style.Icon,
		Color:      style.Color,
		Title:      fmt.Sprintf(style.Title, category),
		FundName:   fundName,
		SchemeCode: cp.SchemeCode,
		Category:   category,
		Message:    cp.Explanation,
		Severity:   cp.Severity,
		Confidence: cp.Confidence,
		Metrics: models.SignalMetrics{
			NAV:    Round(cp.NAV, 4),
			Change: Round(cp.DailyReturn*100, 2),
			Zscore: Round(cp.Zscore, 2),
		},
	}
}
