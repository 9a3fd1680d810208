package receipt

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/billsnap/internal/friend"
	"github.com/fkhayef/billsnap/internal/job"
	"github.com/fkhayef/billsnap/internal/receipt/split"
	"github.com/fkhayef/billsnap/pkg/middleware"
	"github.com/fkhayef/billsnap/pkg/response"
)

const maxImageSize = 10 << 20 // 10 MB

// ImageStore holds uploaded receipt images and hands out download URLs
type ImageStore interface {
	Upload(ctx context.Context, reader io.Reader, size int64, contentType string) (string, error)
	PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// Handler handles HTTP requests for receipt operations
type Handler struct {
	service *Service
	jobs    *job.Service
	store   ImageStore
}

// NewHandler creates a new receipt handler
func NewHandler(service *Service, jobs *job.Service, store ImageStore) *Handler {
	return &Handler{service: service, jobs: jobs, store: store}
}

// Routes returns the router for receipt endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Post("/analyze", h.Analyze)
	r.Get("/{id}", h.GetByID)
	r.Delete("/{id}", h.Delete)
	r.Get("/{id}/split", h.GetSplit)
	r.Post("/{id}/friends", h.AddFriends)
	r.Delete("/{id}/friends/{friendId}", h.RemoveFriend)

	// Item assignment
	r.Put("/items/{itemId}/friends", h.SetItemFriends)
	r.Post("/items/friends", h.SetItemFriendsBatch)

	return r
}

// Create handles POST /receipts
// @Summary      Create a receipt
// @Description  Create a receipt with its items, variations and optional friend associations
// @Tags         receipts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateReceiptRequest true "Receipt creation request"
// @Success      201 {object} response.APIResponse{data=ReceiptResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /receipts [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreateReceiptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.RestaurantName) == "" {
		response.BadRequest(w, "Restaurant name is required")
		return
	}
	if strings.TrimSpace(req.Currency) == "" {
		response.BadRequest(w, "Currency is required")
		return
	}

	created, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, friend.ErrUnknownFriends) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to create receipt")
		return
	}

	response.JSON(w, http.StatusCreated, created.ToResponse())
}

// List handles GET /receipts
// @Summary      List receipts
// @Description  Get a paginated list of the user's receipts, newest first
// @Tags         receipts
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Items per page" default(20)
// @Success      200 {object} response.APIResponse{data=[]ReceiptResponse}
// @Router       /receipts [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}

	receipts, total, err := h.service.List(r.Context(), userID, perPage, (page-1)*perPage)
	if err != nil {
		response.InternalError(w, "Failed to list receipts")
		return
	}

	receiptResponses := make([]*ReceiptResponse, len(receipts))
	for i, rec := range receipts {
		receiptResponses[i] = rec.ToResponse()
	}

	totalPages := (total + perPage - 1) / perPage
	meta := &response.Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}

	response.JSONWithMeta(w, http.StatusOK, receiptResponses, meta)
}

// Analyze handles POST /receipts/analyze
// @Summary      Analyze a receipt image
// @Description  Upload a receipt photo; analysis runs in the background and the returned job can be polled for the created receipt
// @Tags         receipts
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file formData file true "Receipt image (image/*)"
// @Success      202 {object} response.APIResponse{data=job.JobResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      413 {object} response.APIResponse
// @Router       /receipts/analyze [post]
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize)
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		response.PayloadTooLarge(w, "Image exceeds the 10 MB limit")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "Receipt image file is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		response.BadRequest(w, "Only image files are accepted")
		return
	}

	image, err := io.ReadAll(file)
	if err != nil {
		response.BadRequest(w, "Failed to read image file")
		return
	}

	key, err := h.store.Upload(r.Context(), bytes.NewReader(image), int64(len(image)), contentType)
	if err != nil {
		response.InternalError(w, "Failed to store receipt image")
		return
	}

	receiptURL, err := h.store.PresignedURL(r.Context(), key, 7*24*time.Hour)
	if err != nil {
		response.InternalError(w, "Failed to generate receipt URL")
		return
	}

	j, err := h.jobs.EnqueueAnalysis(r.Context(), userID, image, contentType, receiptURL)
	if err != nil {
		response.InternalError(w, "Failed to enqueue analysis")
		return
	}

	response.Accepted(w, j.ToResponse())
}

// GetByID handles GET /receipts/{id}
// @Summary      Get receipt by ID
// @Description  Get a receipt with its items, variations and associated friends
// @Tags         receipts
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Receipt ID"
// @Success      200 {object} response.APIResponse{data=ReceiptResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /receipts/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid receipt ID")
		return
	}

	rec, err := h.service.GetByID(r.Context(), id, userID)
	if err != nil {
		if errors.Is(err, ErrReceiptNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to get receipt")
		return
	}

	response.JSON(w, http.StatusOK, rec.ToResponse())
}

// Delete handles DELETE /receipts/{id}
// @Summary      Delete a receipt
// @Tags         receipts
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Receipt ID"
// @Success      200 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /receipts/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid receipt ID")
		return
	}

	if err := h.service.Delete(r.Context(), id, userID); err != nil {
		if errors.Is(err, ErrReceiptNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to delete receipt")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Receipt deleted successfully"})
}

// GetSplit handles GET /receipts/{id}/split
// @Summary      Calculate the receipt split
// @Description  Divide the receipt's grand total among its friends: each pays their item shares plus a proportional share of tax and service charge, reconciled exactly to the recorded total
// @Tags         receipts
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Receipt ID"
// @Success      200 {object} response.APIResponse{data=SplitResponse}
// @Failure      404 {object} response.APIResponse
// @Failure      422 {object} response.APIResponse
// @Router       /receipts/{id}/split [get]
func (h *Handler) GetSplit(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid receipt ID")
		return
	}

	result, err := h.service.ComputeSplit(r.Context(), userID, id)
	if err != nil {
		var unknownFriend *split.UnknownFriendError
		var invalidInput *split.InvalidInputError
		switch {
		case errors.Is(err, ErrReceiptNotFound):
			response.NotFound(w, err.Error())
		case errors.As(err, &unknownFriend), errors.As(err, &invalidInput):
			response.UnprocessableEntity(w, err.Error())
		default:
			response.InternalError(w, "Failed to compute split")
		}
		return
	}

	response.JSON(w, http.StatusOK, result)
}

// AddFriends handles POST /receipts/{id}/friends
// @Summary      Add friends to a receipt
// @Description  Associate friends with a receipt so they can be assigned to items and included in splits
// @Tags         receipts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Receipt ID"
// @Param        request body AddReceiptFriendsRequest true "Friend IDs to associate"
// @Success      200 {object} response.APIResponse{data=ReceiptResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /receipts/{id}/friends [post]
func (h *Handler) AddFriends(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid receipt ID")
		return
	}

	var req AddReceiptFriendsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if len(req.FriendIDs) == 0 {
		response.BadRequest(w, "At least one friend ID is required")
		return
	}

	rec, err := h.service.AddFriends(r.Context(), userID, id, req.FriendIDs)
	if err != nil {
		if errors.Is(err, ErrReceiptNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		if errors.Is(err, friend.ErrUnknownFriends) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to add friends to receipt")
		return
	}

	response.JSON(w, http.StatusOK, rec.ToResponse())
}

// RemoveFriend handles DELETE /receipts/{id}/friends/{friendId}
// @Summary      Remove a friend from a receipt
// @Description  Drop a friend from the receipt and clear their item assignments on it
// @Tags         receipts
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Receipt ID"
// @Param        friendId path int true "Friend ID"
// @Success      200 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /receipts/{id}/friends/{friendId} [delete]
func (h *Handler) RemoveFriend(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid receipt ID")
		return
	}
	friendID, err := strconv.ParseInt(chi.URLParam(r, "friendId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid friend ID")
		return
	}

	if err := h.service.RemoveFriend(r.Context(), userID, id, friendID); err != nil {
		if errors.Is(err, ErrReceiptNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to remove friend from receipt")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Friend removed from receipt"})
}

// SetItemFriends handles PUT /receipts/items/{itemId}/friends
// @Summary      Assign friends to an item
// @Description  Replace the friends sharing an item; an empty list clears all assignments
// @Tags         receipts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        itemId path int true "Item ID"
// @Param        request body UpdateItemFriendsRequest true "Friend IDs to assign"
// @Success      200 {object} response.APIResponse
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /receipts/items/{itemId}/friends [put]
func (h *Handler) SetItemFriends(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	itemID, err := strconv.ParseInt(chi.URLParam(r, "itemId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid item ID")
		return
	}

	var req UpdateItemFriendsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.service.SetItemFriends(r.Context(), userID, itemID, req.FriendIDs); err != nil {
		if errors.Is(err, ErrItemNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		if errors.Is(err, friend.ErrUnknownFriends) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to update item friends")
		return
	}

	response.JSON(w, http.StatusOK, map[string]interface{}{"item_id": itemID, "friend_ids": req.FriendIDs})
}

// SetItemFriendsBatch handles POST /receipts/items/friends
// @Summary      Assign friends to multiple items
// @Description  Apply friend assignments to several items in one call with per-item outcomes
// @Tags         receipts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body BatchItemFriendsRequest true "Per-item friend assignments"
// @Success      200 {object} response.APIResponse{data=[]BatchItemFriendsResult}
// @Failure      400 {object} response.APIResponse
// @Router       /receipts/items/friends [post]
func (h *Handler) SetItemFriendsBatch(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req BatchItemFriendsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if len(req.Items) == 0 {
		response.BadRequest(w, "At least one item entry is required")
		return
	}

	results := h.service.SetItemFriendsBatch(r.Context(), userID, req.Items)
	response.JSON(w, http.StatusOK, results)
}
