package storage

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkhayef/billsnap/pkg/middleware"
	"github.com/fkhayef/billsnap/pkg/response"
)

type fakeSigner struct {
	gotKey    string
	gotExpiry time.Duration
	url       string
	err       error
}

func (f *fakeSigner) PresignedURL(_ context.Context, key string, expiry time.Duration) (string, error) {
	f.gotKey = key
	f.gotExpiry = expiry
	return f.url, f.err
}

func fileRequest(path string, userID int64) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if userID > 0 {
		ctx := context.WithValue(req.Context(), middleware.UserIDKey, userID)
		req = req.WithContext(ctx)
	}
	return req
}

func TestGetURLPresignsSlashedKey(t *testing.T) {
	signer := &fakeSigner{url: "https://minio.local/receipts/2026/08/28/abc?sig=x"}
	r := chi.NewRouter()
	r.Mount("/files", NewHandler(signer).Routes())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, fileRequest("/files/2026/08/28/abc", 7))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2026/08/28/abc", signer.gotKey, "object keys keep their slashes")
	assert.Equal(t, urlExpiry, signer.gotExpiry)

	var resp struct {
		Success bool            `json:"success"`
		Data    FileURLResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "2026/08/28/abc", resp.Data.Key)
	assert.Equal(t, signer.url, resp.Data.URL)

	expiresAt, err := time.Parse(time.RFC3339, resp.Data.ExpiresAt)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(urlExpiry), expiresAt, 5*time.Second)
}

func TestGetURLRequiresAuth(t *testing.T) {
	r := chi.NewRouter()
	r.Mount("/files", NewHandler(&fakeSigner{url: "ignored"}).Routes())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, fileRequest("/files/2026/08/28/abc", 0))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetURLSignerFailure(t *testing.T) {
	r := chi.NewRouter()
	r.Mount("/files", NewHandler(&fakeSigner{err: errors.New("minio down")}).Routes())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, fileRequest("/files/2026/08/28/abc", 7))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp response.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
}
