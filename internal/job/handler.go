package job

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/billsnap/pkg/middleware"
	"github.com/fkhayef/billsnap/pkg/response"
)

// Handler handles HTTP requests for job operations
type Handler struct {
	service *Service
}

// NewHandler creates a new job handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for job endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/{id}", h.GetByID)

	return r
}

// GetByID handles GET /jobs/{id}
// @Summary      Get job status
// @Description  Poll the status of a background analysis job; a succeeded job carries the created receipt ID
// @Tags         jobs
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Job ID"
// @Success      200 {object} response.APIResponse{data=JobResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /jobs/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid job ID")
		return
	}

	j, err := h.service.GetByID(r.Context(), id, userID)
	if err != nil {
		if errors.Is(err, ErrJobNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to get job")
		return
	}

	response.JSON(w, http.StatusOK, j.ToResponse())
}
