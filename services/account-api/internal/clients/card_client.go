package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dtb-bank/core-banking/pkg"
	"github.com/dtb-bank/core-banking/pkg/paging"
	"github.com/dtb-bank/core-banking/pkg/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CardClient resolves a card alias into the account ids of matching live
// cards, via card-api.
type CardClient interface {
	// ResolveAccountIDs returns one page of the distinct account-id set.
	// A non-2xx status or malformed body is an indeterminate result; the
	// caller must surface it, not treat it as an empty page.
	ResolveAccountIDs(ctx context.Context, traceID string, alias string, page paging.Request) (paging.Page[uuid.UUID], error)
}

type HTTPCardClient struct {
	logger  *zap.Logger
	client  *http.Client
	baseURL string
}

func NewCardClient(logger *zap.Logger, baseURL string) CardClient {
	return &HTTPCardClient{
		logger:  logger,
		client:  utils.NewHTTPClient(),
		baseURL: baseURL,
	}
}

func (c *HTTPCardClient) ResolveAccountIDs(ctx context.Context, traceID string, alias string, page paging.Request) (paging.Page[uuid.UUID], error) {
	var empty paging.Page[uuid.UUID]

	q := url.Values{}
	q.Set("alias", alias)
	q.Set("page", strconv.Itoa(page.Page))
	q.Set("size", strconv.Itoa(page.Size))
	endpoint := fmt.Sprintf("%s/card/api/v1/get/account/ids?%s", c.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return empty, pkg.NewAppError(pkg.ErrUpstreamUnavailableCode, "card service request failed", err)
	}
	req.Header.Set(pkg.HeaderTraceId, traceID)

	resp, err := c.client.Do(req)
	if err != nil {
		return empty, pkg.NewAppError(pkg.ErrUpstreamUnavailableCode, "card service unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("alias resolution returned non-success status",
			zap.String(pkg.TraceId, traceID),
			zap.Int("status", resp.StatusCode),
		)
		return empty, pkg.NewAppError(pkg.ErrUpstreamIndeterminateCode,
			fmt.Sprintf("card service responded with status %d", resp.StatusCode), nil)
	}

	var result paging.Page[uuid.UUID]
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return empty, pkg.NewAppError(pkg.ErrUpstreamIndeterminateCode, "card service returned malformed body", err)
	}
	return result, nil
}
