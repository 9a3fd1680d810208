package friend

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/billsnap/pkg/middleware"
	"github.com/fkhayef/billsnap/pkg/response"
)

const maxPhotoSize = 5 << 20 // 5 MB

// Handler handles HTTP requests for friend operations
type Handler struct {
	service *Service
}

// NewHandler creates a new friend handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for friend endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{id}", h.GetByID)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/photo", h.UploadPhoto)

	return r
}

// Create handles POST /friends
// @Summary      Create a new friend
// @Description  Add a friend who can share items on the user's receipts
// @Tags         friends
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateFriendRequest true "Friend creation request"
// @Success      201 {object} response.APIResponse{data=FriendResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /friends [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreateFriendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		response.BadRequest(w, "Friend name is required")
		return
	}

	f, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		response.InternalError(w, "Failed to create friend")
		return
	}

	response.JSON(w, http.StatusCreated, f.ToResponse())
}

// List handles GET /friends
// @Summary      List friends
// @Description  Get all friends of the authenticated user
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.APIResponse{data=[]FriendResponse}
// @Router       /friends [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	friends, err := h.service.List(r.Context(), userID)
	if err != nil {
		response.InternalError(w, "Failed to list friends")
		return
	}

	friendResponses := make([]*FriendResponse, len(friends))
	for i, f := range friends {
		friendResponses[i] = f.ToResponse()
	}

	response.JSON(w, http.StatusOK, friendResponses)
}

// GetByID handles GET /friends/{id}
// @Summary      Get friend by ID
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Friend ID"
// @Success      200 {object} response.APIResponse{data=FriendResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /friends/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid friend ID")
		return
	}

	f, err := h.service.GetByID(r.Context(), id, userID)
	if err != nil {
		if errors.Is(err, ErrFriendNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to get friend")
		return
	}

	response.JSON(w, http.StatusOK, f.ToResponse())
}

// Update handles PUT /friends/{id}
// @Summary      Update a friend
// @Description  Update the friend's name or photo URL (partial update)
// @Tags         friends
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Friend ID"
// @Param        request body UpdateFriendRequest true "Friend update request"
// @Success      200 {object} response.APIResponse{data=FriendResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /friends/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid friend ID")
		return
	}

	var req UpdateFriendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		response.BadRequest(w, "Friend name cannot be empty")
		return
	}

	f, err := h.service.Update(r.Context(), id, userID, &req)
	if err != nil {
		if errors.Is(err, ErrFriendNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to update friend")
		return
	}

	response.JSON(w, http.StatusOK, f.ToResponse())
}

// Delete handles DELETE /friends/{id}
// @Summary      Delete a friend
// @Description  Remove a friend and all their item assignments
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Friend ID"
// @Success      200 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /friends/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid friend ID")
		return
	}

	if err := h.service.Delete(r.Context(), id, userID); err != nil {
		if errors.Is(err, ErrFriendNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to delete friend")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Friend deleted successfully"})
}

// UploadPhoto handles POST /friends/{id}/photo
// @Summary      Upload a friend photo
// @Description  Upload an image for the friend; returns the friend with a presigned photo URL
// @Tags         friends
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Friend ID"
// @Param        photo formData file true "Photo file (image/*)"
// @Success      200 {object} response.APIResponse{data=FriendResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      413 {object} response.APIResponse
// @Router       /friends/{id}/photo [post]
func (h *Handler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid friend ID")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoSize)
	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		response.PayloadTooLarge(w, "Photo exceeds the 5 MB limit")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		response.BadRequest(w, "Photo file is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		response.BadRequest(w, ErrInvalidPhoto.Error())
		return
	}

	f, err := h.service.UploadPhoto(r.Context(), id, userID, file, header.Size, contentType)
	if err != nil {
		if errors.Is(err, ErrFriendNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to upload photo")
		return
	}

	response.JSON(w, http.StatusOK, f.ToResponse())
}
