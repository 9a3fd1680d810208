package storage

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/billsnap/pkg/middleware"
	"github.com/fkhayef/billsnap/pkg/response"
)

// urlExpiry is how long a presigned download URL stays valid
const urlExpiry = 10 * time.Minute

// URLSigner hands out time-limited download URLs for stored objects
type URLSigner interface {
	PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// FileURLResponse carries a presigned download URL for a stored object
type FileURLResponse struct {
	Key       string `json:"key"`
	URL       string `json:"url"`
	ExpiresAt string `json:"expires_at"`
}

// Handler handles HTTP requests for stored file access
type Handler struct {
	signer URLSigner
}

// NewHandler creates a new file handler
func NewHandler(signer URLSigner) *Handler {
	return &Handler{signer: signer}
}

// Routes returns the router for file endpoints. Object keys contain
// slashes, so the route matches the whole remaining path.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/*", h.GetURL)

	return r
}

// GetURL handles GET /files/{key}
// @Summary      Get a file download URL
// @Description  Generate a time-limited presigned URL for a stored receipt image or photo
// @Tags         files
// @Produce      json
// @Security     BearerAuth
// @Param        key path string true "Object key"
// @Success      200 {object} response.APIResponse{data=FileURLResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /files/{key} [get]
func (h *Handler) GetURL(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserID(r.Context()); !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	key := chi.URLParam(r, "*")
	if key == "" {
		response.BadRequest(w, "Object key is required")
		return
	}

	url, err := h.signer.PresignedURL(r.Context(), key, urlExpiry)
	if err != nil {
		response.InternalError(w, "Failed to generate file URL")
		return
	}

	response.JSON(w, http.StatusOK, &FileURLResponse{
		Key:       key,
		URL:       url,
		ExpiresAt: time.Now().Add(urlExpiry).UTC().Format(time.RFC3339),
	})
}
