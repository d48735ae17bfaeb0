package http

import (
	"errors"
	"io/fs"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "policysim/internal/errors"
	"policysim/internal/operations"
	"policysim/pkg/contracts/domain"
)

// ReportsHandler serves computed report tables and exported artifacts
type ReportsHandler struct {
	service      ReportServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewReportsHandler creates a new reports handler
func NewReportsHandler(service ReportServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ReportsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportsHandler{
		service:      service,
		logger:       logger.With(slog.String("handler", "reports")),
		errorHandler: errorHandler,
	}
}

// Routes returns the report routes
func (h *ReportsHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(render.SetContentType(render.ContentTypeJSON)).Group(func(r chi.Router) {
		r.Get("/", h.ListArtifacts)
		r.Get("/earned", h.GetEarnedPremium)
		r.Get("/severity", h.GetSeverity)
		r.Get("/frequency", h.GetFrequency)
		r.Get("/lossratio", h.GetLossRatio)
	})
	r.Get("/download/{filename}", h.DownloadArtifact)

	return r
}

// ListArtifacts lists the exported report files
func (h *ReportsHandler) ListArtifacts(w http.ResponseWriter, r *http.Request) {
	artifacts, err := h.service.ListArtifacts(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "artifact listing failed", "error", err)
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"artifacts": artifacts,
		"count":     len(artifacts),
	})
}

// GetEarnedPremium returns the earned premium table as JSON
func (h *ReportsHandler) GetEarnedPremium(w http.ResponseWriter, r *http.Request) {
	reports, year, ok := h.buildReports(w, r)
	if !ok {
		return
	}
	rows := filterByYear(reports.EarnedPremium, year, func(row domain.EarnedPremiumRow) int { return row.Year })
	render.JSON(w, r, map[string]interface{}{"rows": rows})
}

// GetSeverity returns the severity table and fitted trend as JSON
func (h *ReportsHandler) GetSeverity(w http.ResponseWriter, r *http.Request) {
	reports, year, ok := h.buildReports(w, r)
	if !ok {
		return
	}
	rows := filterByYear(reports.Severity, year, func(row domain.SeverityRow) int { return row.Year })
	render.JSON(w, r, map[string]interface{}{
		"rows":      rows,
		"trend_fit": reports.TrendFit,
	})
}

// GetFrequency returns the claim frequency table as JSON
func (h *ReportsHandler) GetFrequency(w http.ResponseWriter, r *http.Request) {
	reports, year, ok := h.buildReports(w, r)
	if !ok {
		return
	}
	rows := filterByYear(reports.Frequency, year, func(row domain.FrequencyRow) int { return row.Year })
	render.JSON(w, r, map[string]interface{}{"rows": rows})
}

// GetLossRatio returns the loss ratio table as JSON
func (h *ReportsHandler) GetLossRatio(w http.ResponseWriter, r *http.Request) {
	reports, year, ok := h.buildReports(w, r)
	if !ok {
		return
	}
	rows := filterByYear(reports.LossRatio, year, func(row domain.LossRatioRow) int { return row.Year })
	render.JSON(w, r, map[string]interface{}{"rows": rows})
}

// DownloadArtifact streams an exported report file
func (h *ReportsHandler) DownloadArtifact(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")

	path, err := h.service.ArtifactPath(filename)
	if err != nil {
		h.logger.WarnContext(r.Context(), "artifact lookup failed",
			"filename", filename,
			"error", err)
		h.errorHandler.HandleError(w, r, apierrors.ErrReportNotFound)
		return
	}

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": filename})
	w.Header().Set("Content-Disposition", disposition)
	http.ServeFile(w, r, path)
}

// buildReports loads the datasets and computes every table, mapping a
// missing dataset onto a 404 problem. The optional year query parameter
// restricts the response to a single year.
func (h *ReportsHandler) buildReports(w http.ResponseWriter, r *http.Request) (*operations.ReportSet, int, bool) {
	year := 0
	if q := r.URL.Query().Get("year"); q != "" {
		parsed, err := strconv.Atoi(q)
		if err != nil {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("year", "must be an integer"))
			return nil, 0, false
		}
		year = parsed
	}

	reports, err := h.service.BuildFromStoredDatasets(r.Context())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			h.errorHandler.HandleError(w, r, apierrors.ErrDatasetNotFound)
			return nil, 0, false
		}
		h.logger.ErrorContext(r.Context(), "report build failed", "error", err)
		h.errorHandler.HandleError(w, r, err)
		return nil, 0, false
	}
	return reports, year, true
}

// filterByYear restricts rows to the given year. Year zero keeps every row.
func filterByYear[T any](rows []T, year int, yearOf func(T) int) []T {
	if year == 0 {
		return rows
	}
	filtered := make([]T, 0, 1)
	for _, row := range rows {
		if yearOf(row) == year {
			filtered = append(filtered, row)
		}
	}
	return filtered
}
