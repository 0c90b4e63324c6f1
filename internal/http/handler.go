package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/davidbz/pricematrix/internal/domain"
	"github.com/davidbz/pricematrix/internal/observability"
	"github.com/davidbz/pricematrix/internal/plan"
)

const maxPlanBytes = 1 << 20

// SourceFactory opens the catalog a plan is resolved against.
type SourceFactory func(p *domain.Plan) (domain.RecordSource, error)

// Handler handles HTTP requests.
type Handler struct {
	service *domain.MatrixService
	sources SourceFactory
}

// NewHandler creates a new HTTP handler (DI constructor).
func NewHandler(service *domain.MatrixService, sources SourceFactory) *Handler {
	return &Handler{
		service: service,
		sources: sources,
	}
}

type listResponse struct {
	Matrices []string `json:"matrices"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// HandleList returns the names of all stored matrices.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	names, err := h.service.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if names == nil {
		names = []string{}
	}

	h.writeJSON(w, r, http.StatusOK, listResponse{Matrices: names})
}

// HandleGet returns a stored matrix.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	matrix, err := h.service.Get(r.Context(), name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, matrix)
}

// HandleResolve resolves the JSON plan in the request body against the
// configured catalog, stores the result under the path name and returns it.
func (h *Handler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := r.PathValue("name")
	ctx = observability.WithPlan(ctx, name)
	logger := observability.FromContext(ctx)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPlanBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeJSON(w, r, http.StatusRequestEntityTooLarge,
				errorResponse{Error: fmt.Sprintf("plan exceeds %d bytes", tooLarge.Limit)})
			return
		}
		h.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("failed to read request body: %v", err)})
		return
	}

	p, err := plan.Parse(plan.FormatJSON, body)
	if err != nil {
		if errors.Is(err, domain.ErrSchemaMismatch) {
			h.writeError(w, r, err)
			return
		}
		h.writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid plan: %v", err)})
		return
	}

	source, err := h.sources(p)
	if err != nil {
		logger.Error("failed to open catalog", observability.Error(err))
		h.writeError(w, r, err)
		return
	}

	matrix, err := h.service.Build(ctx, p, source)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if storeErr := h.service.Store(ctx, name, matrix); storeErr != nil {
		h.writeError(w, r, storeErr)
		return
	}

	logger.Info("matrix resolved via API", observability.Int("entries", len(matrix)))
	h.writeJSON(w, r, http.StatusOK, matrix)
}

// HandleHealth handles health check requests.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// StatusFor maps a service error onto an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrMatrixNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConfigurationShape),
		errors.Is(err, domain.ErrSchemaMismatch),
		errors.Is(err, domain.ErrMalformedPrice):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		observability.FromContext(r.Context()).Error("request failed", observability.Error(err))
	}
	h.writeJSON(w, r, status, errorResponse{Error: err.Error()})
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Already written status, can't change it, just log.
		observability.FromContext(r.Context()).Error("failed to encode response", observability.Error(err))
	}
}
