package api

import (
	"testing"

	"FundPulse/internal/service/stream"
	"FundPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

func TestRegisterRoutes(t *testing.T) {
	l, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	h := NewDashboardHandler(l, nil, nil, stream.NewSimulator(nil, l))

	e := echo.New()
	h.RegisterRoutes(e)

	registered := make(map[string]bool)
	for _, r := range e.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	want := []string{
		"GET /",
		"GET /api/funds",
		"GET /api/fund/:scheme_code",
		"GET /api/overview",
		"GET /api/signals",
		"GET /api/anomalies",
		"GET /api/heatmap",
		"GET /api/categories",
		"GET /api/health",
		"POST /api/upload",
		"GET /ws/stream",
		"GET /ws/subscribe/:scheme_code",
	}
	for _, key := range want {
		if !registered[key] {
			t.Errorf("route %s not registered", key)
		}
	}
}
