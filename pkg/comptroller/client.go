// Package comptroller provides a client for the Texas Comptroller franchise
// tax account search API.
package comptroller

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public franchise tax data-search endpoint. The
	// detail endpoint is the same URL with the taxpayer ID appended.
	DefaultBaseURL = "https://comptroller.texas.gov/data-search/franchise-tax"

	// DefaultUserAgent mimics a desktop browser; the public endpoint rejects
	// obvious bot agents.
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36"
)

// Client defines the franchise tax search operations.
type Client interface {
	// Search starts a lazy, single-pass stream of summary rows for the query.
	// It validates the query up front; no request is issued until the first
	// call to Next.
	Search(ctx context.Context, q Query, opts ...SearchOption) (*Results, error)

	// FetchDetail fetches the detail record for one taxpayer ID.
	FetchDetail(ctx context.Context, taxpayerID string) (DetailRecord, error)
}

// SearchOption configures a search.
type SearchOption func(*searchOpts)

type searchOpts struct {
	pageSize int
	maxPages int
}

// WithPageSize enables page-based pagination with the given page size. Without
// it the first request carries no paging parameters; further pages are still
// fetched if that response advertises them.
func WithPageSize(n int) SearchOption {
	return func(o *searchOpts) {
		o.pageSize = n
	}
}

// WithMaxPages caps the number of pages fetched, regardless of what the
// response pagination reports.
func WithMaxPages(n int) SearchOption {
	return func(o *searchOpts) {
		o.maxPages = n
	}
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithUserAgent sets the outbound User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *httpClient) {
		c.userAgent = ua
	}
}

// WithMinDelay enforces a minimum interval between outbound requests. A
// non-positive delay disables pacing.
func WithMinDelay(d time.Duration) Option {
	return func(c *httpClient) {
		if d <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) {
		c.http.Timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	baseURL   string
	userAgent string
	limiter   *rate.Limiter
	http      *http.Client
}

// NewClient creates a new franchise tax search client. Defaults: public
// endpoint, browser User-Agent, 1s between requests, 30s timeout.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL:   DefaultBaseURL,
		userAgent: DefaultUserAgent,
		limiter:   rate.NewLimiter(rate.Every(time.Second), 1),
		http: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ Client = (*httpClient)(nil)

// get issues one rate-limited GET and returns the response body.
func (c *httpClient) get(ctx context.Context, reqURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "comptroller: rate limit")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "comptroller: build request")
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "comptroller: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("comptroller: unexpected status %d from %s", resp.StatusCode, reqURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "comptroller: read body")
	}
	return body, nil
}

// searchPage fetches one search page. Page and size parameters are added only
// when positive; paging is opt-in.
func (c *httpClient) searchPage(ctx context.Context, params url.Values, page, size int) (*SearchEnvelope, error) {
	query := url.Values{}
	for k, vs := range params {
		for _, v := range vs {
			query.Add(k, v)
		}
	}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if size > 0 {
		query.Set("size", strconv.Itoa(size))
	}

	body, err := c.get(ctx, c.baseURL+"?"+query.Encode())
	if err != nil {
		return nil, err
	}

	var env SearchEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, eris.Wrap(err, "comptroller: parse search response")
	}
	if env.rejected() {
		return nil, eris.Errorf("comptroller: search rejected by upstream: %s", truncate(body, 512))
	}
	return &env, nil
}

// Search validates the query and returns the lazy result stream.
func (c *httpClient) Search(ctx context.Context, q Query, opts ...SearchOption) (*Results, error) {
	so := &searchOpts{}
	for _, opt := range opts {
		opt(so)
	}

	params, err := q.Params()
	if err != nil {
		return nil, err
	}

	page := 0
	if so.pageSize > 0 {
		page = 1
	}
	return &Results{
		ctx:      ctx,
		client:   c,
		params:   params,
		pageSize: so.pageSize,
		maxPages: so.maxPages,
		page:     page,
	}, nil
}

// FetchDetail fetches and unwraps the detail record for one taxpayer ID. The
// payload may be the detail object itself or wrapped under a data key.
func (c *httpClient) FetchDetail(ctx context.Context, taxpayerID string) (DetailRecord, error) {
	body, err := c.get(ctx, c.baseURL+"/"+url.PathEscape(taxpayerID))
	if err != nil {
		return nil, err
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, eris.Errorf("comptroller: unexpected detail response format for %s", taxpayerID)
	}
	if raw, ok := payload["success"]; ok {
		var success bool
		if err := json.Unmarshal(raw, &success); err == nil && !success {
			return nil, eris.Errorf("comptroller: detail request failed for %s: %s", taxpayerID, truncate(body, 512))
		}
	}

	raw, ok := payload["data"]
	if !ok {
		var detail DetailRecord
		if err := json.Unmarshal(body, &detail); err != nil {
			return nil, eris.Errorf("comptroller: unexpected detail response format for %s", taxpayerID)
		}
		return detail, nil
	}

	var detail DetailRecord
	if err := json.Unmarshal(raw, &detail); err != nil || detail == nil {
		return nil, eris.Errorf("comptroller: unexpected detail response format for %s", taxpayerID)
	}
	return detail, nil
}

// truncate limits body excerpts embedded in error messages.
func truncate(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}
