package http

import (
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "policysim/internal/errors"
	"policysim/internal/simulation"
)

// newValidator builds the request validator used by all handlers. Error
// messages use JSON field names so clients see the names they sent.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// SimulationRequest is the payload for an ad-hoc portfolio simulation
type SimulationRequest struct {
	Portfolio simulation.PortfolioSpec `json:"portfolio" validate:"required"`
	Claims    simulation.ClaimSpec     `json:"claims" validate:"required"`

	// IncludeRecords returns the generated policies and claims inline.
	// Off by default since large portfolios make very large responses.
	IncludeRecords bool `json:"include_records,omitempty"`
}

// SimulationHandler handles ad-hoc simulation requests
type SimulationHandler struct {
	service      SimulationServiceInterface
	validator    *validator.Validate
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewSimulationHandler creates a new simulation handler
func NewSimulationHandler(service SimulationServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *SimulationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SimulationHandler{
		service:      service,
		validator:    newValidator(),
		logger:       logger.With(slog.String("handler", "simulation")),
		errorHandler: errorHandler,
	}
}

// Routes returns the simulation routes
func (h *SimulationHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/portfolio", h.SimulatePortfolio)

	return r
}

// SimulatePortfolio generates a portfolio and claims from the posted specs
func (h *SimulationHandler) SimulatePortfolio(w http.ResponseWriter, r *http.Request) {
	var req SimulationRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		h.errorHandler.HandleError(w, r, validationProblem(err))
		return
	}

	result, err := h.service.SimulatePortfolio(r.Context(), req.Portfolio, req.Claims, req.IncludeRecords)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "simulation failed", "error", err)
		h.errorHandler.HandleError(w, r, apierrors.ErrSimulationFailed)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, result)
}

// validationProblem converts validator errors into a field-level APIError
func validationProblem(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrs) == 0 {
		return apierrors.InvalidRequestWithError(err)
	}
	first := validationErrs[0]
	return apierrors.ErrValidation(first.Field(), "failed "+first.Tag()+" validation")
}
