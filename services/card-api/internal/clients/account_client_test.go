package clients

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dtb-bank/core-banking/pkg"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestAccountExistsTrue(t *testing.T) {
	accountID := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/account/api/v1/check/account/"+accountID.String(), r.URL.Path)
		assert.Equal(t, "trace-1", r.Header.Get(pkg.HeaderTraceId))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("true"))
	}))
	defer srv.Close()

	client := NewAccountClient(zap.NewNop(), srv.URL, nil, 0)
	exists, err := client.Exists(context.Background(), "trace-1", accountID)
	assert.NoError(t, err)
	assert.True(t, exists)
}

func TestAccountExistsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewAccountClient(zap.NewNop(), srv.URL, nil, 0)
	exists, err := client.Exists(context.Background(), "trace-1", uuid.New())
	assert.NoError(t, err)
	assert.False(t, exists)
}

func TestAccountExistsUnreachableIsUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewAccountClient(zap.NewNop(), srv.URL, nil, 0)
	_, err := client.Exists(context.Background(), "trace-1", uuid.New())
	assert.True(t, pkg.IsCode(err, pkg.ErrUpstreamUnavailableCode))
}
