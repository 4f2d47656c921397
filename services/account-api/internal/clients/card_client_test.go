package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dtb-bank/core-banking/pkg"
	"github.com/dtb-bank/core-banking/pkg/paging"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestResolveAccountIDsForwardsPaging(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New()}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/card/api/v1/get/account/ids", r.URL.Path)
		assert.Equal(t, "travel", r.URL.Query().Get("alias"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "5", r.URL.Query().Get("size"))
		page, _ := paging.NewRequest(2, 5)
		_ = json.NewEncoder(w).Encode(paging.NewPage(ids, page, 12))
	}))
	defer srv.Close()

	client := NewCardClient(zap.NewNop(), srv.URL)
	page, _ := paging.NewRequest(2, 5)
	result, err := client.ResolveAccountIDs(context.Background(), "trace-1", "travel", page)
	assert.NoError(t, err)
	assert.Equal(t, ids, result.Content)
	assert.Equal(t, int64(12), result.TotalElements)
}

func TestResolveAccountIDsNonSuccessIsIndeterminate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewCardClient(zap.NewNop(), srv.URL)
	page, _ := paging.NewRequest(0, 10)
	_, err := client.ResolveAccountIDs(context.Background(), "trace-1", "travel", page)
	assert.True(t, pkg.IsCode(err, pkg.ErrUpstreamIndeterminateCode))
}

func TestResolveAccountIDsUnreachableIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewCardClient(zap.NewNop(), srv.URL)
	page, _ := paging.NewRequest(0, 10)
	_, err := client.ResolveAccountIDs(context.Background(), "trace-1", "travel", page)
	assert.True(t, pkg.IsCode(err, pkg.ErrUpstreamUnavailableCode))
}

func TestResolveAccountIDsMalformedBodyIsIndeterminate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("]["))
	}))
	defer srv.Close()

	client := NewCardClient(zap.NewNop(), srv.URL)
	page, _ := paging.NewRequest(0, 10)
	_, err := client.ResolveAccountIDs(context.Background(), "trace-1", "travel", page)
	assert.True(t, pkg.IsCode(err, pkg.ErrUpstreamIndeterminateCode))
}
