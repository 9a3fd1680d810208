// Package split computes per-friend cost allocations for a receipt.
//
// Given a receipt's recorded totals, its line items, and a many-to-many
// mapping of items to friends, Compute produces each friend's exact share
// of the subtotal, tax and service charge such that the per-friend totals
// reconcile exactly (to the cent) with the recorded grand total, despite
// per-item and per-friend rounding.
//
// The package is pure: it performs no I/O, holds no state across calls,
// and is safe to invoke concurrently.
package split

import (
	"fmt"
	"sort"
)

// Calculator runs the split pipeline: aggregate item shares, allocate tax
// and service charge proportionally, then reconcile rounding drift.
type Calculator struct{}

// NewCalculator creates a split calculator.
func NewCalculator() *Calculator {
	return &Calculator{}
}

// Compute calculates the full split of a receipt among its known friends.
//
// It fails fast with an *InvalidInputError on any negative amount and with
// an *UnknownFriendError if an item references a friend outside the known
// set; no partial result is returned. An empty item list yields an empty
// share list and an all-zero summary, not an error.
func (c *Calculator) Compute(totals Totals, items []LineItem, friends []FriendID) (*Result, error) {
	if err := validate(totals, items, friends); err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return &Result{
			FriendShares: []FriendShare{},
			Items:        []ItemBreakdown{},
		}, nil
	}

	subtotals, baseline := aggregate(items)
	levies := allocate(subtotals, baseline, totals.Tax, totals.ServiceCharge)

	breakdown := make([]ItemBreakdown, 0, len(items))
	perFriendItems := make(map[FriendID][]ItemShare, len(subtotals))
	for _, item := range items {
		share, contributors := itemShare(item)
		breakdown = append(breakdown, ItemBreakdown{
			ItemID:      item.ID,
			ItemName:    item.Name,
			Cost:        item.Cost,
			FriendIDs:   contributors,
			ShareAmount: share,
		})
		for _, id := range contributors {
			perFriendItems[id] = append(perFriendItems[id], ItemShare{
				ItemID:   item.ID,
				ItemName: item.Name,
				Amount:   share,
			})
		}
	}

	shares := make([]FriendShare, 0, len(subtotals))
	for id, subtotal := range subtotals {
		shares = append(shares, FriendShare{
			FriendID:      id,
			Subtotal:      subtotal,
			Tax:           levies[id].tax,
			ServiceCharge: levies[id].service,
			Items:         perFriendItems[id],
		})
	}
	sort.Slice(shares, func(i, j int) bool {
		if cmp := shares[i].Subtotal.Cmp(shares[j].Subtotal); cmp != 0 {
			return cmp > 0
		}
		return shares[i].FriendID < shares[j].FriendID
	})

	reconcile(shares, totals.GrandTotal)

	return &Result{
		FriendShares: shares,
		Items:        breakdown,
		Summary: Summary{
			Subtotal:      baseline,
			Tax:           totals.Tax,
			ServiceCharge: totals.ServiceCharge,
			Total:         totals.GrandTotal,
		},
	}, nil
}

func validate(totals Totals, items []LineItem, friends []FriendID) error {
	if totals.Tax.IsNegative() {
		return &InvalidInputError{Field: "tax", Reason: "must not be negative"}
	}
	if totals.ServiceCharge.IsNegative() {
		return &InvalidInputError{Field: "service_charge", Reason: "must not be negative"}
	}
	if totals.GrandTotal.IsNegative() {
		return &InvalidInputError{Field: "grand_total", Reason: "must not be negative"}
	}

	known := make(map[FriendID]struct{}, len(friends))
	for _, id := range friends {
		known[id] = struct{}{}
	}

	for i, item := range items {
		if item.Cost.IsNegative() {
			return &InvalidInputError{
				Field:  fmt.Sprintf("items[%d].cost", i),
				Reason: "must not be negative",
			}
		}
		for _, id := range item.FriendIDs {
			if _, ok := known[id]; !ok {
				return &UnknownFriendError{ItemID: item.ID, FriendID: id}
			}
		}
	}

	return nil
}
