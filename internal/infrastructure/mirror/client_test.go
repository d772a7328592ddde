package mirror

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNFTInfo_Found(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/tokens/0.0.1234/nfts/7", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"token_id":"0.0.1234","serial_number":7,"account_id":"0.0.42","metadata":"eyJoIjoiYWJjIn0=","created_timestamp":"1700000000.000000001"}`))
	}))
	defer srv.Close()

	c := &Client{BaseURL: srv.URL}
	info, err := c.NFTInfo(context.Background(), "0.0.1234", 7)
	require.NoError(t, err)
	assert.Equal(t, "0.0.1234", info.TokenID)
	assert.Equal(t, int64(7), info.SerialNumber)
	assert.Equal(t, "0.0.42", info.AccountID)
}

func TestNFTInfo_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := &Client{BaseURL: srv.URL}
	_, err := c.NFTInfo(context.Background(), "0.0.1234", 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNFTInfo_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := &Client{BaseURL: srv.URL}
	_, err := c.NFTInfo(context.Background(), "0.0.1234", 1)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
