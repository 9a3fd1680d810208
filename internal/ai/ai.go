// Package ai extracts structured receipt data from photos using the
// Gemini generative API.
package ai

import (
	"context"

	"github.com/fkhayef/billsnap/internal/money"
)

// Analyzer turns a receipt image into structured receipt data
type Analyzer interface {
	AnalyzeReceipt(ctx context.Context, image []byte, contentType string) (*ReceiptExtraction, error)
}

// ItemExtraction is a single line item read off the receipt.
// Quantity is the number of people expected to share the item and
// UnitPrice is the full price of the line, not a per-unit price.
type ItemExtraction struct {
	ItemName  string          `json:"item_name"`
	Quantity  int             `json:"quantity"`
	UnitPrice money.Money     `json:"unit_price"`
	Variation []ItemVariation `json:"variation,omitempty"`
}

// ItemVariation is an add-on or modifier priced on top of an item
type ItemVariation struct {
	Name  string      `json:"name"`
	Price money.Money `json:"price"`
}

// ReceiptExtraction is the structured result of analyzing a receipt image
type ReceiptExtraction struct {
	RestaurantName string           `json:"restaurant_name"`
	TotalAmount    money.Money      `json:"total_amount"`
	Tax            money.Money      `json:"tax"`
	ServiceCharge  money.Money      `json:"service_charge"`
	Currency       string           `json:"currency"`
	Items          []ItemExtraction `json:"items"`
}
