package ai

const analysisPrompt = `Analyze the receipt with particular attention to indented modifications and their charges.
Extract the result in the exact JSON format of the response schema.

IMPORTANT:
- Do NOT perform any arithmetic, deduction, or recalculation.
- Copy all values EXACTLY as shown in the receipt.
- Treat every price, tax, and service charge as independent fields.
- Do not merge, sum, or subtract values.
- If the bill separates items, do NOT combine them. List each line individually as it appears.

ITEM DETECTION RULES:
1. Lines starting with a quantity marker (for example "1x") are main items; take their price as written.
2. Lines starting with "-" or indented under a main item are variations; copy any price shown, even 0.00.
3. Taxes and service charges are separate fields, never folded into item prices.

QUANTITY AND PRICE RULES:
1. "quantity" is the NUMBER OF PEOPLE SHARING the item, not units purchased.
   "Chicken Rice x4" means quantity = 4.
2. "unit_price" is the TOTAL PRICE of the whole line. "Chicken Rice x4" priced
   54.99 means unit_price = 54.99. Never multiply unit_price by quantity.
3. Always extract the final displayed price; perform no calculations.`

// receiptSchema constrains the Gemini response to the ReceiptExtraction shape
var receiptSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"restaurant_name": map[string]any{"type": "string"},
		"total_amount":    map[string]any{"type": "number"},
		"tax":             map[string]any{"type": "number"},
		"service_charge":  map[string]any{"type": "number"},
		"currency":        map[string]any{"type": "string"},
		"items": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"item_name":  map[string]any{"type": "string"},
					"quantity":   map[string]any{"type": "integer"},
					"unit_price": map[string]any{"type": "number"},
					"variation": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"name":  map[string]any{"type": "string"},
								"price": map[string]any{"type": "number"},
							},
							"required": []string{"name", "price"},
						},
					},
				},
				"required": []string{"item_name", "quantity", "unit_price"},
			},
		},
	},
	"required": []string{"restaurant_name", "total_amount", "tax", "service_charge", "currency", "items"},
}
