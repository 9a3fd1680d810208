package receipt

import (
	"context"
	"errors"
	"fmt"

	"github.com/fkhayef/billsnap/internal/ai"
	"github.com/fkhayef/billsnap/internal/friend"
	"github.com/fkhayef/billsnap/internal/receipt/split"
)

// Common errors
var (
	ErrReceiptNotFound = errors.New("receipt not found")
	ErrItemNotFound    = errors.New("item not found")
)

// Service handles receipt business logic
type Service struct {
	repo       *Repository
	friends    *friend.Service
	calculator *split.Calculator
}

// NewService creates a new receipt service with dependencies injected
func NewService(repo *Repository, friends *friend.Service) *Service {
	return &Service{
		repo:       repo,
		friends:    friends,
		calculator: split.NewCalculator(),
	}
}

// Create creates a receipt with its items after verifying that every
// referenced friend belongs to the user.
func (s *Service) Create(ctx context.Context, userID int64, req *CreateReceiptRequest) (*Receipt, error) {
	if len(req.FriendIDs) > 0 {
		if _, err := s.friends.VerifyOwnership(ctx, req.FriendIDs, userID); err != nil {
			return nil, err
		}
	}
	return s.repo.Create(ctx, userID, req)
}

// CreateFromExtraction persists an AI extraction as a receipt and
// returns the new receipt's ID. It is called by the analysis worker
// once the model has read the image.
func (s *Service) CreateFromExtraction(ctx context.Context, userID int64, extraction *ai.ReceiptExtraction, receiptURL string) (int64, error) {
	req := &CreateReceiptRequest{
		RestaurantName: extraction.RestaurantName,
		TotalAmount:    extraction.TotalAmount,
		Tax:            extraction.Tax,
		ServiceCharge:  extraction.ServiceCharge,
		Currency:       extraction.Currency,
		ReceiptURL:     receiptURL,
	}
	for _, item := range extraction.Items {
		quantity := item.Quantity
		if quantity < 1 {
			quantity = 1
		}
		itemReq := ItemRequest{
			ItemName:  item.ItemName,
			Quantity:  quantity,
			UnitPrice: item.UnitPrice,
		}
		for _, v := range item.Variation {
			itemReq.Variations = append(itemReq.Variations, VariationRequest{
				VariationName: v.Name,
				Price:         v.Price,
			})
		}
		req.Items = append(req.Items, itemReq)
	}

	created, err := s.repo.Create(ctx, userID, req)
	if err != nil {
		return 0, err
	}
	return created.ID, nil
}

// GetByID retrieves a receipt owned by the user
func (s *Service) GetByID(ctx context.Context, id, userID int64) (*Receipt, error) {
	receipt, err := s.repo.GetByIDAndUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, ErrReceiptNotFound
	}
	return receipt, nil
}

// List retrieves a page of the user's receipts, newest first
func (s *Service) List(ctx context.Context, userID int64, limit, offset int) ([]*Receipt, int, error) {
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

// Delete removes a receipt and everything hanging off it
func (s *Service) Delete(ctx context.Context, id, userID int64) error {
	deleted, err := s.repo.Delete(ctx, id, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrReceiptNotFound
	}
	return nil
}

// SetItemFriends replaces the friends assigned to an item. The friends
// are also associated with the item's receipt so split calculations see
// them. An empty list clears the item's assignments.
func (s *Service) SetItemFriends(ctx context.Context, userID, itemID int64, friendIDs []int64) error {
	receiptID, err := s.repo.GetItemReceiptID(ctx, itemID, userID)
	if err != nil {
		return err
	}
	if receiptID == 0 {
		return ErrItemNotFound
	}

	if len(friendIDs) > 0 {
		if _, err := s.friends.VerifyOwnership(ctx, friendIDs, userID); err != nil {
			return err
		}
		if err := s.repo.AddReceiptFriends(ctx, receiptID, friendIDs); err != nil {
			return err
		}
	}

	return s.repo.ReplaceItemFriends(ctx, itemID, friendIDs)
}

// SetItemFriendsBatch applies SetItemFriends to multiple items,
// reporting a per-item outcome instead of failing the whole batch.
func (s *Service) SetItemFriendsBatch(ctx context.Context, userID int64, entries []BatchItemFriendsEntry) []BatchItemFriendsResult {
	results := make([]BatchItemFriendsResult, len(entries))
	for i, entry := range entries {
		results[i] = BatchItemFriendsResult{ItemID: entry.ItemID, Success: true}
		if err := s.SetItemFriends(ctx, userID, entry.ItemID, entry.FriendIDs); err != nil {
			results[i].Success = false
			results[i].Error = err.Error()
		}
	}
	return results
}

// AddFriends associates friends with a receipt
func (s *Service) AddFriends(ctx context.Context, userID, receiptID int64, friendIDs []int64) (*Receipt, error) {
	if _, err := s.GetByID(ctx, receiptID, userID); err != nil {
		return nil, err
	}
	if _, err := s.friends.VerifyOwnership(ctx, friendIDs, userID); err != nil {
		return nil, err
	}
	if err := s.repo.AddReceiptFriends(ctx, receiptID, friendIDs); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, receiptID, userID)
}

// RemoveFriend drops a friend from a receipt, including any item
// assignments on that receipt.
func (s *Service) RemoveFriend(ctx context.Context, userID, receiptID, friendID int64) error {
	if _, err := s.GetByID(ctx, receiptID, userID); err != nil {
		return err
	}
	return s.repo.RemoveReceiptFriend(ctx, receiptID, friendID)
}

// ComputeSplit calculates how the receipt's grand total divides among
// the friends associated with it. Item costs include variation prices;
// tax and service charge are allocated proportionally to subtotals and
// the result reconciles exactly to the recorded grand total.
func (s *Service) ComputeSplit(ctx context.Context, userID, receiptID int64) (*SplitResponse, error) {
	receipt, err := s.GetByID(ctx, receiptID, userID)
	if err != nil {
		return nil, err
	}

	totals := split.Totals{
		Tax:           receipt.Tax,
		ServiceCharge: receipt.ServiceCharge,
		GrandTotal:    receipt.TotalAmount,
		Currency:      receipt.Currency,
	}

	items := make([]split.LineItem, len(receipt.Items))
	for i, item := range receipt.Items {
		friendIDs := make([]split.FriendID, len(item.FriendIDs))
		for j, id := range item.FriendIDs {
			friendIDs[j] = split.FriendID(id)
		}
		items[i] = split.LineItem{
			ID:        item.ID,
			Name:      item.ItemName,
			Cost:      item.Cost(),
			FriendIDs: friendIDs,
		}
	}

	known := make([]split.FriendID, len(receipt.Friends))
	names := make(map[split.FriendID]string, len(receipt.Friends))
	for i, f := range receipt.Friends {
		known[i] = split.FriendID(f.ID)
		names[split.FriendID(f.ID)] = f.Name
	}

	result, err := s.calculator.Compute(totals, items, known)
	if err != nil {
		return nil, fmt.Errorf("failed to compute split: %w", err)
	}

	shares := make([]FriendShareResponse, len(result.FriendShares))
	for i, share := range result.FriendShares {
		shares[i] = FriendShareResponse{
			FriendID:      int64(share.FriendID),
			FriendName:    names[share.FriendID],
			Subtotal:      share.Subtotal,
			Tax:           share.Tax,
			ServiceCharge: share.ServiceCharge,
			Total:         share.Total,
			Items:         share.Items,
		}
	}

	return &SplitResponse{
		ReceiptID:    receipt.ID,
		Currency:     receipt.Currency,
		FriendShares: shares,
		Items:        result.Items,
		Summary:      result.Summary,
	}, nil
}
