package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "policysim/internal/errors"
	"policysim/internal/operations"
	"policysim/internal/simulation"
)

// StartOperationRequest is the payload to start a pipeline run
type StartOperationRequest struct {
	Portfolio simulation.PortfolioSpec `json:"portfolio" validate:"required"`
	Claims    simulation.ClaimSpec     `json:"claims" validate:"required"`
	Step      string                   `json:"step,omitempty" validate:"omitempty,oneof=simulate metrics export"`
}

// StartOperationResponse acknowledges a started run
type StartOperationResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// OperationsHandler handles operation lifecycle requests
type OperationsHandler struct {
	service      SimulationServiceInterface
	validator    *validator.Validate
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewOperationsHandler creates a new operations handler
func NewOperationsHandler(service SimulationServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *OperationsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &OperationsHandler{
		service:      service,
		validator:    newValidator(),
		logger:       logger.With(slog.String("handler", "operations")),
		errorHandler: errorHandler,
	}
}

// Routes returns the operation routes
func (h *OperationsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/", h.StartOperation)
	r.Get("/", h.ListOperations)
	r.Get("/{id}", h.GetOperation)
	r.Delete("/{id}", h.CancelOperation)

	return r
}

// StartOperation launches a pipeline run in the background
func (h *OperationsHandler) StartOperation(w http.ResponseWriter, r *http.Request) {
	var req StartOperationRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		h.errorHandler.HandleError(w, r, validationProblem(err))
		return
	}

	id, err := h.service.StartOperation(r.Context(), operations.OperationRequest{
		Portfolio: req.Portfolio,
		Claims:    req.Claims,
		Step:      req.Step,
	})
	if err != nil {
		h.handleOperationError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "operation accepted", "operation_id", id)
	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, StartOperationResponse{
		ID:     id,
		Status: string(operations.OperationStatusPending),
	})
}

// GetOperation returns the state of a single run
func (h *OperationsHandler) GetOperation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("id", "operation id is required"))
		return
	}

	state, err := h.service.GetOperation(r.Context(), id)
	if err != nil {
		h.handleOperationError(w, r, err)
		return
	}
	render.JSON(w, r, state)
}

// ListOperations returns every stored run, newest first
func (h *OperationsHandler) ListOperations(w http.ResponseWriter, r *http.Request) {
	list := h.service.ListOperations(r.Context())
	render.JSON(w, r, map[string]interface{}{
		"operations": list,
		"count":      len(list),
	})
}

// CancelOperation cancels a running operation
func (h *OperationsHandler) CancelOperation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.CancelOperation(r.Context(), id); err != nil {
		h.handleOperationError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "operation cancelled", "operation_id", id)
	render.JSON(w, r, map[string]interface{}{
		"id":     id,
		"status": string(operations.OperationStatusCancelled),
	})
}

// handleOperationError maps operation errors onto API errors
func (h *OperationsHandler) handleOperationError(w http.ResponseWriter, r *http.Request, err error) {
	var opErr *operations.OperationError
	if errors.As(err, &opErr) {
		switch opErr.Type {
		case operations.ErrorTypeNotFound:
			h.errorHandler.HandleError(w, r, apierrors.ErrOperationNotFound)
			return
		case operations.ErrorTypeValidation:
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation(opErr.Step, opErr.Message))
			return
		}
	}
	h.logger.ErrorContext(r.Context(), "operation request failed", "error", err)
	h.errorHandler.HandleError(w, r, err)
}
