package api

import (
	"errors"
	"net/http"
	"time"

	"FundPulse/internal/domain/models"
	"FundPulse/internal/service/ratelimit"
	"FundPulse/internal/service/stream"
	"FundPulse/internal/usecase"
	xhttp "FundPulse/pkg/http"
	xlogger "FundPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Uploads are expensive (full table replace); keep them infrequent per client.
const (
	uploadBurst     = 3
	uploadPerSecond = 0.1
)

// DashboardHandler serves the monitoring dashboard API.
type DashboardHandler struct {
	logger    *xlogger.Logger
	analysis  *usecase.AnalysisUseCase
	ingest    *usecase.IngestUseCase
	simulator *stream.Simulator
	limiter   *ratelimit.Limiter
}

func NewDashboardHandler(
	logger *xlogger.Logger,
	analysis *usecase.AnalysisUseCase,
	ingest *usecase.IngestUseCase,
	simulator *stream.Simulator,
) *DashboardHandler {
	return &DashboardHandler{
		logger:    logger,
		analysis:  analysis,
		ingest:    ingest,
		simulator: simulator,
		limiter:   ratelimit.New(),
	}
}

func (h *DashboardHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/funds", h.Funds)
	g.GET("/fund/:scheme_code", h.Fund)
	g.GET("/overview", h.Overview)
	g.GET("/signals", h.Signals)
	g.GET("/anomalies", h.Anomalies)
	g.GET("/heatmap", h.Heatmap)
	g.GET("/categories", h.Categories)
	g.GET("/health", h.Health)
	g.POST("/upload", h.Upload)

	e.GET("/", h.Index)
	e.GET("/ws/stream", h.simulator.Handle)
	e.GET("/ws/subscribe/:scheme_code", h.simulator.HandleSubscribe)
}

func (h *DashboardHandler) Index(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"message": "Fund Anomaly Monitoring API",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"funds":     "/api/funds",
			"overview":  "/api/overview",
			"signals":   "/api/signals",
			"heatmap":   "/api/heatmap",
			"websocket": "/ws/stream",
			"subscribe": "/ws/subscribe/{scheme_code}",
		},
	})
}

func (h *DashboardHandler) Funds(c echo.Context) error {
	req := &models.FundsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	funds, err := h.analysis.FundList(c.Request().Context(), *req)
	if err != nil {
		h.logger.Error("fund list usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, funds, int64(len(funds)))
}

func (h *DashboardHandler) Fund(c echo.Context) error {
	schemeCode := c.Param("scheme_code")
	if schemeCode == "" {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("scheme_code is required"))
	}

	detail, err := h.analysis.FundDetail(c.Request().Context(), schemeCode)
	if err != nil {
		if errors.Is(err, usecase.ErrFundNotFound) {
			return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("fund %s not found", schemeCode))
		}
		h.logger.Error("fund detail usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, detail)
}

func (h *DashboardHandler) Overview(c echo.Context) error {
	overview, err := h.analysis.Overview(c.Request().Context())
	if err != nil {
		h.logger.Error("overview usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, overview)
}

func (h *DashboardHandler) Signals(c echo.Context) error {
	req := &models.SignalsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	signals, err := h.analysis.Signals(c.Request().Context(), *req)
	if err != nil {
		h.logger.Error("signals usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, signals, int64(len(signals)))
}

func (h *DashboardHandler) Anomalies(c echo.Context) error {
	req := &models.AnomaliesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	records, summary, err := h.analysis.Anomalies(c.Request().Context(), *req)
	if err != nil {
		h.logger.Error("anomalies usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"anomalies": records,
		"summary":   summary,
	})
}

func (h *DashboardHandler) Heatmap(c echo.Context) error {
	heatmap, err := h.analysis.Heatmap(c.Request().Context())
	if err != nil {
		h.logger.Error("heatmap usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, heatmap)
}

func (h *DashboardHandler) Categories(c echo.Context) error {
	stats, err := h.analysis.Categories(c.Request().Context())
	if err != nil {
		h.logger.Error("categories usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, stats, int64(len(stats)))
}

func (h *DashboardHandler) Health(c echo.Context) error {
	status := "healthy"
	storage := "ok"
	if err := h.analysis.Health(c.Request().Context()); err != nil {
		status = "degraded"
		storage = err.Error()
	}
	return xhttp.SuccessResponse(c, map[string]string{
		"status":    status,
		"storage":   storage,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *DashboardHandler) Upload(c echo.Context) error {
	if !h.limiter.Allow(c.RealIP(), uploadBurst, uploadPerSecond) {
		return xhttp.AppErrorResponse(c, xhttp.NewAppError("ERR_RATE_LIMITED", "", "too many uploads, slow down", http.StatusTooManyRequests))
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("file is required"))
	}

	f, err := fileHeader.Open()
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("could not open uploaded file"))
	}
	defer f.Close()

	result, err := h.ingest.UploadCSV(c.Request().Context(), fileHeader.Filename, f)
	if err != nil {
		h.logger.Error("upload usecase error", xlogger.Error(err))
		if errors.Is(err, usecase.ErrInvalidCSV) {
			return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()))
		}
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, result)
}
