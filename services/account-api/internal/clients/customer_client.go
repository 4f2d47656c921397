package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dtb-bank/core-banking/pkg"
	"github.com/dtb-bank/core-banking/pkg/utils"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CustomerClient is the remote existence check against customer-api.
type CustomerClient interface {
	// Exists reports whether the customer is live. A transport failure or an
	// unexpected status is an upstream error, never a "false": the caller
	// must be able to tell "customer missing" from "could not ask".
	Exists(ctx context.Context, traceID string, customerID uuid.UUID) (bool, error)
}

type HTTPCustomerClient struct {
	logger   *zap.Logger
	client   *http.Client
	baseURL  string
	cache    *redis.Client // optional; caches positive answers only
	cacheTTL time.Duration
}

func NewCustomerClient(logger *zap.Logger, baseURL string, cache *redis.Client, cacheTTL time.Duration) CustomerClient {
	return &HTTPCustomerClient{
		logger:   logger,
		client:   utils.NewHTTPClient(),
		baseURL:  baseURL,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

func (c *HTTPCustomerClient) Exists(ctx context.Context, traceID string, customerID uuid.UUID) (bool, error) {
	cacheKey := "customer:exists:" + customerID.String()
	if c.cache != nil {
		if hit, err := c.cache.Get(ctx, cacheKey).Result(); err == nil && hit == "1" {
			return true, nil
		}
	}

	url := fmt.Sprintf("%s/customer/api/v1/check/customer/%s", c.baseURL, customerID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, pkg.NewAppError(pkg.ErrUpstreamUnavailableCode, "customer service request failed", err)
	}
	req.Header.Set(pkg.HeaderTraceId, traceID)

	resp, err := c.client.Do(req)
	if err != nil {
		return false, pkg.NewAppError(pkg.ErrUpstreamUnavailableCode, "customer service unreachable", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		var exists bool
		if err := json.NewDecoder(resp.Body).Decode(&exists); err != nil {
			return false, pkg.NewAppError(pkg.ErrUpstreamIndeterminateCode, "customer service returned malformed body", err)
		}
		if exists && c.cache != nil {
			if err := c.cache.Set(ctx, cacheKey, "1", c.cacheTTL).Err(); err != nil {
				c.logger.Warn("failed to cache customer existence", zap.String(pkg.TraceId, traceID), zap.Error(err))
			}
		}
		return exists, nil
	default:
		return false, pkg.NewAppError(pkg.ErrUpstreamUnavailableCode,
			fmt.Sprintf("customer service responded with status %d", resp.StatusCode), nil)
	}
}
