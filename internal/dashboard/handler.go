// Package dashboard serves the landing view: the user's friends plus
// their most recent receipts.
package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/billsnap/internal/friend"
	"github.com/fkhayef/billsnap/internal/receipt"
	"github.com/fkhayef/billsnap/pkg/middleware"
	"github.com/fkhayef/billsnap/pkg/response"
)

// recentReceipts is how many receipts the dashboard shows
const recentReceipts = 5

// DashboardResponse aggregates the data shown on the dashboard
type DashboardResponse struct {
	Friends  []*friend.FriendResponse   `json:"friends"`
	Receipts []*receipt.ReceiptResponse `json:"receipts"`
}

// Handler handles HTTP requests for the dashboard
type Handler struct {
	friends  *friend.Service
	receipts *receipt.Service
}

// NewHandler creates a new dashboard handler
func NewHandler(friends *friend.Service, receipts *receipt.Service) *Handler {
	return &Handler{friends: friends, receipts: receipts}
}

// Routes returns the router for dashboard endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.Get)

	return r
}

// Get handles GET /dashboard
// @Summary      Get the dashboard
// @Description  Get the user's friends and their latest receipts
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.APIResponse{data=DashboardResponse}
// @Router       /dashboard [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	friends, err := h.friends.List(r.Context(), userID)
	if err != nil {
		response.InternalError(w, "Failed to load dashboard")
		return
	}

	receipts, _, err := h.receipts.List(r.Context(), userID, recentReceipts, 0)
	if err != nil {
		response.InternalError(w, "Failed to load dashboard")
		return
	}

	resp := &DashboardResponse{
		Friends:  make([]*friend.FriendResponse, len(friends)),
		Receipts: make([]*receipt.ReceiptResponse, len(receipts)),
	}
	for i, f := range friends {
		resp.Friends[i] = f.ToResponse()
	}
	for i, rec := range receipts {
		resp.Receipts[i] = rec.ToResponse()
	}

	response.JSON(w, http.StatusOK, resp)
}
