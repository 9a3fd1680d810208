package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeReceipt(t *testing.T) {
	extracted := `{
		"restaurant_name": "Warung Makan",
		"total_amount": 31.00,
		"tax": 2.50,
		"service_charge": 3.00,
		"currency": "MYR",
		"items": [
			{"item_name": "Burger", "quantity": 1, "unit_price": 10.00,
			 "variation": [{"name": "Extra Cheese", "price": 2.00}]},
			{"item_name": "Soda", "quantity": 2, "unit_price": 13.50}
		]
	}`

	var gotPath string
	var gotBody generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": extracted}}}},
			},
		})
	}))
	defer server.Close()

	client := NewGeminiClient("test-key", "gemini-2.5-flash", WithBaseURL(server.URL))

	result, err := client.AnalyzeReceipt(context.Background(), []byte("fake-image"), "image/jpeg")
	require.NoError(t, err)

	assert.Equal(t, "/v1beta/models/gemini-2.5-flash:generateContent", gotPath)
	require.Len(t, gotBody.Contents, 1)
	require.Len(t, gotBody.Contents[0].Parts, 2)
	assert.NotEmpty(t, gotBody.Contents[0].Parts[0].Text)
	require.NotNil(t, gotBody.Contents[0].Parts[1].InlineData)
	assert.Equal(t, "image/jpeg", gotBody.Contents[0].Parts[1].InlineData.MimeType)
	assert.Equal(t, "application/json", gotBody.GenerationConfig.ResponseMimeType)

	assert.Equal(t, "Warung Makan", result.RestaurantName)
	assert.Equal(t, "MYR", result.Currency)
	assert.Equal(t, "31.00", result.TotalAmount.String())
	assert.Equal(t, "2.50", result.Tax.String())
	assert.Equal(t, "3.00", result.ServiceCharge.String())
	require.Len(t, result.Items, 2)
	assert.Equal(t, "Burger", result.Items[0].ItemName)
	assert.Equal(t, 1, result.Items[0].Quantity)
	assert.Equal(t, "10.00", result.Items[0].UnitPrice.String())
	require.Len(t, result.Items[0].Variation, 1)
	assert.Equal(t, "2.00", result.Items[0].Variation[0].Price.String())
	assert.Equal(t, 2, result.Items[1].Quantity)
}

func TestAnalyzeReceiptAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": 400, "message": "API key not valid", "status": "INVALID_ARGUMENT"},
		})
	}))
	defer server.Close()

	client := NewGeminiClient("bad-key", "gemini-2.5-flash", WithBaseURL(server.URL))

	result, err := client.AnalyzeReceipt(context.Background(), []byte("fake-image"), "image/png")
	assert.Nil(t, result)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key not valid")
}

func TestAnalyzeReceiptEmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	}))
	defer server.Close()

	client := NewGeminiClient("test-key", "gemini-2.5-flash", WithBaseURL(server.URL))

	result, err := client.AnalyzeReceipt(context.Background(), []byte("fake-image"), "image/png")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrEmptyResponse)
}
