package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/emicklei/go-restful/v3"
	"github.com/povarna/sonar-sweep/internal/api/middleware"
	"github.com/povarna/sonar-sweep/internal/course"
	"github.com/povarna/sonar-sweep/internal/database"
	"github.com/povarna/sonar-sweep/internal/metrics"
	"github.com/povarna/sonar-sweep/internal/models"
	"github.com/povarna/sonar-sweep/internal/sweep"
	"github.com/rs/zerolog"
)

const maxMeasurements = 1_000_000

//go:generate mockgen -source=handler.go -destination=mocks/mock_report_store.go -package=mocks

// ReportStore persists sweep report summaries
type ReportStore interface {
	SaveReport(ctx context.Context, report models.Report) error
	GetReport(ctx context.Context, id string) (*models.Report, error)
}

type HealthResponse struct {
	Status  string `json:"status" description:"Service status"`
	Version string `json:"version" description:"API version"`
}

type Handler struct {
	analyzer *sweep.Analyzer
	store    ReportStore
	metrics  *metrics.Metrics
	logger   *zerolog.Logger
}

// NewHandler wires the API handler. store may be nil, in which case reports
// are not persisted and lookups answer 503.
func NewHandler(analyzer *sweep.Analyzer, store ReportStore, m *metrics.Metrics, logger *zerolog.Logger) *Handler {
	return &Handler{
		analyzer: analyzer,
		store:    store,
		metrics:  m,
		logger:   logger,
	}
}

// POST /api/v1/sweeps
// Body: SweepRequest
// Returns: Report
func (h *Handler) Sweep(req *restful.Request, resp *restful.Response) {
	var sweepRequest models.SweepRequest
	if err := req.ReadEntity(&sweepRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		h.invalidInput()
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	if len(sweepRequest.Measurements) == 0 {
		h.invalidInput()
		middleware.HandleError(resp, middleware.ErrEmptyMeasurements, http.StatusBadRequest)
		return
	}
	if len(sweepRequest.Measurements) > maxMeasurements {
		h.invalidInput()
		err := fmt.Errorf("%w: %d exceeds limit of %d", middleware.ErrTooManyMeasurements, len(sweepRequest.Measurements), maxMeasurements)
		middleware.HandleError(resp, err, http.StatusRequestEntityTooLarge)
		return
	}

	h.logger.Info().
		Int("measurements", len(sweepRequest.Measurements)).
		Bool("windowed", sweepRequest.Windowed).
		Msg("Start sweep")

	report := h.analyzer.Analyze(sweepRequest.Measurements, sweepRequest.Windowed)
	if h.metrics != nil {
		h.metrics.ObserveReport("api", len(sweepRequest.Measurements), report)
	}

	if h.store != nil {
		if err := h.store.SaveReport(req.Request.Context(), report); err != nil {
			// report is still returned
			h.logger.Error().Err(err).Str("report_id", report.ID).Msg("Failed to persist report")
		}
	}

	resp.WriteHeaderAndEntity(http.StatusOK, report)
}

// GET /api/v1/sweeps/{id}
func (h *Handler) GetSweep(req *restful.Request, resp *restful.Response) {
	if h.store == nil {
		middleware.HandleError(resp, middleware.ErrStoreUnavailable, http.StatusServiceUnavailable)
		return
	}

	id := req.PathParameter("id")
	report, err := h.store.GetReport(req.Request.Context(), id)
	if errors.Is(err, database.ErrReportNotFound) {
		middleware.HandleError(resp, fmt.Errorf("%w: %s", middleware.ErrReportNotFound, id), http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error().Err(err).Str("report_id", id).Msg("Failed to fetch report")
		middleware.HandleError(resp, err, http.StatusInternalServerError)
		return
	}

	resp.WriteHeaderAndEntity(http.StatusOK, report)
}

// POST /api/v1/course
// Body: CourseRequest
// Returns: CourseResult
func (h *Handler) Course(req *restful.Request, resp *restful.Response) {
	var courseRequest models.CourseRequest
	if err := req.ReadEntity(&courseRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		h.invalidInput()
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	if len(courseRequest.Instructions) == 0 {
		h.invalidInput()
		middleware.HandleError(resp, middleware.ErrEmptyInstructions, http.StatusBadRequest)
		return
	}

	instructions, err := course.ParseAll(courseRequest.Instructions)
	if err != nil {
		h.invalidInput()
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	resp.WriteHeaderAndEntity(http.StatusOK, course.Summarize(instructions))
}

// Health handler GET API /api/v1/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	healthResponse := HealthResponse{
		Status:  "ok",
		Version: "1.0.0",
	}

	resp.WriteHeaderAndEntity(http.StatusOK, healthResponse)
}

func (h *Handler) invalidInput() {
	if h.metrics != nil {
		h.metrics.InvalidInput("api")
	}
}
