// Copyright (c) 2026 PageTalk. All rights reserved.
// Author: minh.vule.dev@gmail.com

package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/time/rate"

	"github.com/minhvule/pagetalk/internal/platform/apperr"
	"github.com/minhvule/pagetalk/internal/platform/constants"
)

// codec is the JSON API used for catalog payloads. Search responses can run
// to hundreds of documents, so the faster decoder is worth carrying here.
var codec = jsoniter.ConfigCompatibleWithStandardLibrary

// searchResponse is the envelope of GET /search.json.
type searchResponse struct {
	NumFound int    `json:"numFound"`
	Docs     []Book `json:"docs"`
}

// OpenLibraryClient fetches bibliographic records from the public
// OpenLibrary search API.
//
// # Politeness
//
// Calls go to a shared public service with no auth, so the client carries a
// token-bucket limiter; a saturated bucket surfaces as RATE_LIMITED rather
// than hammering the upstream.
type OpenLibraryClient struct {
	baseURL string
	httpc   *http.Client
	limiter *rate.Limiter
	log     *slog.Logger
}

// NewOpenLibraryClient constructs a rate-limited catalog client.
func NewOpenLibraryClient(baseURL string, timeout time.Duration, log *slog.Logger) *OpenLibraryClient {
	return &OpenLibraryClient{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(constants.CatalogRateLimitRPS), constants.CatalogRateLimitBurst),
		log:     log.With(slog.String("gateway", "openlibrary")),
	}
}

/*
Search runs a free-text catalog query.

Parameters:
  - ctx: context.Context — cancelling it abandons both the bucket wait and the call
  - query: OpenLibrary query string (e.g. "frontend" or "key:/works/OL123W")

Returns:
  - []Book: Matching documents (possibly empty, never nil)
  - error: Typed upstream errors
*/
func (c *OpenLibraryClient) Search(ctx context.Context, query string) ([]Book, error) {

	// Honor the polite ceiling before touching the network.
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, apperr.RateLimited(1)
	}

	endpoint := c.baseURL + "/search.json?q=" + url.QueryEscape(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("catalog_new_request_failed: %w", err))
	}
	req.Header.Set("User-Agent", constants.AppName+"/"+constants.AppVersion)

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, apperr.Upstream("Book catalog is unreachable", err)
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.DebugContext(ctx, "catalog_http_response",
		slog.String("query", query),
		slog.Int("status", resp.StatusCode),
		slog.Int64("latency_ms", time.Since(start).Milliseconds()),
	)

	if resp.StatusCode != http.StatusOK {
		return nil, apperr.Upstream("Book catalog returned an error", fmt.Errorf("catalog status %d", resp.StatusCode))
	}

	var payload searchResponse
	if err := codec.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, apperr.Upstream("Book catalog sent an unreadable response", err)
	}

	if payload.Docs == nil {
		payload.Docs = []Book{}
	}
	return payload.Docs, nil
}
