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

func TestCustomerExistsTrue(t *testing.T) {
	customerID := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/customer/api/v1/check/customer/"+customerID.String(), r.URL.Path)
		assert.Equal(t, "trace-1", r.Header.Get(pkg.HeaderTraceId))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("true"))
	}))
	defer srv.Close()

	client := NewCustomerClient(zap.NewNop(), srv.URL, nil, 0)
	exists, err := client.Exists(context.Background(), "trace-1", customerID)
	assert.NoError(t, err)
	assert.True(t, exists)
}

func TestCustomerExistsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewCustomerClient(zap.NewNop(), srv.URL, nil, 0)
	exists, err := client.Exists(context.Background(), "trace-1", uuid.New())
	// 404 is a definitive answer, not an upstream failure.
	assert.NoError(t, err)
	assert.False(t, exists)
}

func TestCustomerExistsServerErrorIsUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewCustomerClient(zap.NewNop(), srv.URL, nil, 0)
	_, err := client.Exists(context.Background(), "trace-1", uuid.New())
	assert.True(t, pkg.IsCode(err, pkg.ErrUpstreamUnavailableCode))
}

func TestCustomerExistsUnreachableIsUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewCustomerClient(zap.NewNop(), srv.URL, nil, 0)
	_, err := client.Exists(context.Background(), "trace-1", uuid.New())
	assert.True(t, pkg.IsCode(err, pkg.ErrUpstreamUnavailableCode))
}

func TestCustomerExistsMalformedBodyIsIndeterminate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	client := NewCustomerClient(zap.NewNop(), srv.URL, nil, 0)
	_, err := client.Exists(context.Background(), "trace-1", uuid.New())
	assert.True(t, pkg.IsCode(err, pkg.ErrUpstreamIndeterminateCode))
}
