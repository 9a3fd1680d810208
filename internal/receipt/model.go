package receipt

import (
	"time"

	"github.com/fkhayef/billsnap/internal/money"
)

// Receipt represents an analyzed bill with its items and shared friends
type Receipt struct {
	ID             int64       `json:"id"`
	UserID         int64       `json:"user_id"`
	RestaurantName string      `json:"restaurant_name"`
	TotalAmount    money.Money `json:"total_amount"`
	Tax            money.Money `json:"tax"`
	ServiceCharge  money.Money `json:"service_charge"`
	Currency       string      `json:"currency"`
	ReceiptURL     string      `json:"receipt_url"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`

	Items   []*Item          `json:"items,omitempty"`
	Friends []*ReceiptFriend `json:"friends,omitempty"`
}

// Item is a line item on a receipt. Quantity records how many people
// are expected to share it; UnitPrice is the full price of the line.
type Item struct {
	ID         int64        `json:"id"`
	ReceiptID  int64        `json:"receipt_id"`
	ItemName   string       `json:"item_name"`
	Quantity   int          `json:"quantity"`
	UnitPrice  money.Money  `json:"unit_price"`
	Variations []*Variation `json:"variations,omitempty"`
	FriendIDs  []int64      `json:"friend_ids,omitempty"`
}

// Variation is an add-on priced on top of an item
type Variation struct {
	ID            int64       `json:"id"`
	ItemID        int64       `json:"item_id"`
	VariationName string      `json:"variation_name"`
	Price         money.Money `json:"price"`
}

// ReceiptFriend is a friend associated with a receipt
type ReceiptFriend struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	PhotoURL string `json:"photo_url,omitempty"`
}

// Cost returns the full cost of the item: its unit price plus the
// prices of all its variations.
func (i *Item) Cost() money.Money {
	cost := i.UnitPrice
	for _, v := range i.Variations {
		cost = cost.Add(v.Price)
	}
	return cost
}
