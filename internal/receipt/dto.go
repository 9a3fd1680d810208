package receipt

import (
	"time"

	"github.com/fkhayef/billsnap/internal/money"
	"github.com/fkhayef/billsnap/internal/receipt/split"
)

// VariationRequest is an add-on line within an item creation request
type VariationRequest struct {
	VariationName string      `json:"variation_name" validate:"required"`
	Price         money.Money `json:"price"`
}

// ItemRequest is one line item within a receipt creation request.
// UnitPrice is the full price of the line, not a per-unit price.
type ItemRequest struct {
	ItemName   string             `json:"item_name" validate:"required"`
	Quantity   int                `json:"quantity" validate:"min=1"`
	UnitPrice  money.Money        `json:"unit_price"`
	Variations []VariationRequest `json:"variations,omitempty"`
}

// CreateReceiptRequest represents the request body for creating a receipt
// with its items and optional friend associations
type CreateReceiptRequest struct {
	RestaurantName string        `json:"restaurant_name" validate:"required"`
	TotalAmount    money.Money   `json:"total_amount"`
	Tax            money.Money   `json:"tax"`
	ServiceCharge  money.Money   `json:"service_charge"`
	Currency       string        `json:"currency" validate:"required"`
	ReceiptURL     string        `json:"receipt_url,omitempty"`
	Items          []ItemRequest `json:"items"`
	FriendIDs      []int64       `json:"friend_ids,omitempty"`
}

// UpdateItemFriendsRequest replaces the friends assigned to an item.
// An empty list clears all assignments.
type UpdateItemFriendsRequest struct {
	FriendIDs []int64 `json:"friend_ids"`
}

// BatchItemFriendsEntry assigns friends to one item in a batch update
type BatchItemFriendsEntry struct {
	ItemID    int64   `json:"item_id"`
	FriendIDs []int64 `json:"friend_ids"`
}

// BatchItemFriendsRequest assigns friends to multiple items in one call
type BatchItemFriendsRequest struct {
	Items []BatchItemFriendsEntry `json:"items"`
}

// BatchItemFriendsResult reports the outcome for one item in a batch update
type BatchItemFriendsResult struct {
	ItemID  int64  `json:"item_id"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// AddReceiptFriendsRequest associates friends with a receipt
type AddReceiptFriendsRequest struct {
	FriendIDs []int64 `json:"friend_ids" validate:"required,min=1"`
}

// VariationResponse represents a variation in API responses
type VariationResponse struct {
	ID            int64       `json:"id"`
	VariationName string      `json:"variation_name"`
	Price         money.Money `json:"price"`
}

// ItemResponse represents an item in API responses
type ItemResponse struct {
	ID         int64               `json:"id"`
	ItemName   string              `json:"item_name"`
	Quantity   int                 `json:"quantity"`
	UnitPrice  money.Money         `json:"unit_price"`
	Cost       money.Money         `json:"cost"`
	Variations []VariationResponse `json:"variations"`
	FriendIDs  []int64             `json:"friend_ids"`
}

// ReceiptResponse represents a receipt in API responses
type ReceiptResponse struct {
	ID             int64           `json:"id"`
	UserID         int64           `json:"user_id"`
	RestaurantName string          `json:"restaurant_name"`
	TotalAmount    money.Money     `json:"total_amount"`
	Tax            money.Money     `json:"tax"`
	ServiceCharge  money.Money     `json:"service_charge"`
	Currency       string          `json:"currency"`
	ReceiptURL     string          `json:"receipt_url,omitempty"`
	CreatedAt      string          `json:"created_at"`
	Items          []ItemResponse  `json:"items"`
	Friends        []ReceiptFriend `json:"friends"`
}

// FriendShareResponse is one friend's computed share, annotated with the
// friend's name for display
type FriendShareResponse struct {
	FriendID      int64             `json:"friend_id"`
	FriendName    string            `json:"friend_name"`
	Subtotal      money.Money       `json:"subtotal"`
	Tax           money.Money       `json:"tax"`
	ServiceCharge money.Money       `json:"service_charge"`
	Total         money.Money       `json:"total"`
	Items         []split.ItemShare `json:"items"`
}

// SplitResponse is the full split of a receipt among its friends
type SplitResponse struct {
	ReceiptID    int64                 `json:"receipt_id"`
	Currency     string                `json:"currency"`
	FriendShares []FriendShareResponse `json:"friend_shares"`
	Items        []split.ItemBreakdown `json:"items"`
	Summary      split.Summary         `json:"summary"`
}

// ToResponse converts a Receipt model to a ReceiptResponse DTO
func (r *Receipt) ToResponse() *ReceiptResponse {
	items := make([]ItemResponse, len(r.Items))
	for i, item := range r.Items {
		variations := make([]VariationResponse, len(item.Variations))
		for j, v := range item.Variations {
			variations[j] = VariationResponse{
				ID:            v.ID,
				VariationName: v.VariationName,
				Price:         v.Price,
			}
		}
		friendIDs := item.FriendIDs
		if friendIDs == nil {
			friendIDs = []int64{}
		}
		items[i] = ItemResponse{
			ID:         item.ID,
			ItemName:   item.ItemName,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			Cost:       item.Cost(),
			Variations: variations,
			FriendIDs:  friendIDs,
		}
	}

	friends := make([]ReceiptFriend, len(r.Friends))
	for i, f := range r.Friends {
		friends[i] = *f
	}

	return &ReceiptResponse{
		ID:             r.ID,
		UserID:         r.UserID,
		RestaurantName: r.RestaurantName,
		TotalAmount:    r.TotalAmount,
		Tax:            r.Tax,
		ServiceCharge:  r.ServiceCharge,
		Currency:       r.Currency,
		ReceiptURL:     r.ReceiptURL,
		CreatedAt:      r.CreatedAt.UTC().Format(time.RFC3339),
		Items:          items,
		Friends:        friends,
	}
}
