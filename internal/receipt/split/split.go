package split

import (
	"fmt"

	"github.com/fkhayef/billsnap/internal/money"
)

// FriendID identifies a friend within a receipt's split.
type FriendID int64

// Totals carries a receipt's recorded monetary totals. All fields must be
// non-negative; Compute validates this before any allocation work begins.
type Totals struct {
	Tax           money.Money
	ServiceCharge money.Money
	GrandTotal    money.Money
	Currency      string
}

// LineItem is one priced entry on a receipt. Cost is the item's full
// recorded price - already the total for however many people share it,
// never multiplied by a quantity. FriendIDs may be empty: the item then
// counts toward the subtotal baseline but produces no friend shares.
type LineItem struct {
	ID        int64
	Name      string
	Cost      money.Money
	FriendIDs []FriendID
}

// ItemShare is one friend's share of a single item.
type ItemShare struct {
	ItemID   int64       `json:"item_id"`
	ItemName string      `json:"item_name"`
	Amount   money.Money `json:"amount"`
}

// FriendShare is one friend's computed share of the whole receipt.
type FriendShare struct {
	FriendID      FriendID    `json:"friend_id"`
	Subtotal      money.Money `json:"subtotal"`
	Tax           money.Money `json:"tax"`
	ServiceCharge money.Money `json:"service_charge"`
	Total         money.Money `json:"total"`
	Items         []ItemShare `json:"items"`
}

// ItemBreakdown shows how a single item was divided: its recorded cost,
// the friends assigned to it, and the per-friend share amount.
type ItemBreakdown struct {
	ItemID      int64       `json:"item_id"`
	ItemName    string      `json:"item_name"`
	Cost        money.Money `json:"cost"`
	FriendIDs   []FriendID  `json:"friend_ids"`
	ShareAmount money.Money `json:"share_amount"`
}

// Summary mirrors the receipt-level totals: the computed subtotal baseline
// plus the recorded tax, service charge and grand total.
type Summary struct {
	Subtotal      money.Money `json:"subtotal"`
	Tax           money.Money `json:"tax"`
	ServiceCharge money.Money `json:"service_charge"`
	Total         money.Money `json:"total"`
}

// Result is the complete split of one receipt. FriendShares is ordered by
// descending subtotal, ties broken by ascending friend ID, so identical
// input always yields identical output.
type Result struct {
	FriendShares []FriendShare   `json:"friend_shares"`
	Items        []ItemBreakdown `json:"items"`
	Summary      Summary         `json:"summary"`
}

// UnknownFriendError reports an item that references a friend ID absent
// from the receipt's known friend set. It indicates caller/data
// inconsistency, not a transient fault.
type UnknownFriendError struct {
	ItemID   int64
	FriendID FriendID
}

func (e *UnknownFriendError) Error() string {
	return fmt.Sprintf("item %d references unknown friend %d", e.ItemID, e.FriendID)
}

// InvalidInputError reports a monetary input that fails validation, such
// as a negative cost or total.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input %s: %s", e.Field, e.Reason)
}
