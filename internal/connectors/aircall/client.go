package aircall

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/missedcalls/internal/core/domain"
	"github.com/custodia-labs/missedcalls/internal/core/ports/driven"
	"github.com/custodia-labs/missedcalls/internal/logger"
)

// Ensure Client implements the CallSource interface.
var _ driven.CallSource = (*Client)(nil)

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 64 << 10

// Client pages through the Aircall calls endpoint.
type Client struct {
	baseURL       string
	perPage       int
	timeout       time.Duration
	pacer         *PagePacer
	tokenProvider driven.TokenProvider
	http          *http.Client
}

// NewClient creates an Aircall client that obtains its bearer token from
// tokenProvider on first use.
func NewClient(cfg domain.AircallConfig, tokenProvider driven.TokenProvider) *Client {
	return &Client{
		baseURL:       cfg.BaseURL,
		perPage:       cfg.PerPage,
		timeout:       cfg.Timeout,
		pacer:         NewPagePacer(cfg.PageDelay),
		tokenProvider: tokenProvider,
	}
}

// NewClientWithHTTPClient creates a client around a preconfigured http.Client.
// The caller is responsible for authentication.
func NewClientWithHTTPClient(cfg domain.AircallConfig, httpClient *http.Client) *Client {
	c := NewClient(cfg, nil)
	c.http = httpClient
	return c
}

// ensureClient builds the authenticated http.Client if not already done.
func (c *Client) ensureClient(ctx context.Context) error {
	if c.http != nil {
		return nil
	}
	if c.tokenProvider == nil {
		return ErrMissingToken
	}

	token, err := c.tokenProvider.GetToken(ctx)
	if err != nil {
		return fmt.Errorf("get token: %w", err)
	}
	if token == "" {
		return ErrMissingToken
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token, TokenType: "Bearer"},
	)
	// The oauth2 transport binds to this context for the client's lifetime.
	tc := oauth2.NewClient(context.WithoutCancel(ctx), ts)
	if c.timeout > 0 {
		tc.Timeout = c.timeout
	}
	c.http = tc

	return nil
}

// FetchCalls returns every call created at or after since.
// A rejected or under-privileged token is reported as domain.ErrAuthInvalid.
func (c *Client) FetchCalls(ctx context.Context, since time.Time) ([]domain.RawCall, error) {
	calls, err := c.ListCalls(ctx, since)
	if err != nil {
		if IsUnauthorized(err) || IsForbidden(err) {
			return nil, fmt.Errorf("%w: %w", domain.ErrAuthInvalid, err)
		}
		if IsRateLimited(err) {
			logger.Warn("Aircall rate limit reached, calls are fetched again on the next run")
		}
		return nil, err
	}

	raw := make([]domain.RawCall, len(calls))
	for i, call := range calls {
		raw[i] = call.ToRaw()
	}
	return raw, nil
}

// ListCalls pages through GET /calls until a page has no next link.
func (c *Client) ListCalls(ctx context.Context, since time.Time) ([]Call, error) {
	if err := c.ensureClient(ctx); err != nil {
		return nil, err
	}

	var allCalls []Call

	for page := 1; ; page++ {
		// Check context cancellation
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if err := c.pacer.Wait(ctx); err != nil {
			return nil, fmt.Errorf("page delay: %w", err)
		}

		result, err := c.getCallsPage(ctx, since, page)
		if err != nil {
			return nil, fmt.Errorf("list calls page %d: %w", page, err)
		}

		allCalls = append(allCalls, result.Calls...)
		logger.Debug("Fetched page %d: %d calls (%d total)", page, len(result.Calls), len(allCalls))

		if !result.HasNext() {
			break
		}
	}

	return allCalls, nil
}

// CallsURL builds the request URL for one page.
func (c *Client) CallsURL(since time.Time, page int) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	u = u.JoinPath("calls")

	q := url.Values{}
	q.Set("from", strconv.FormatInt(since.Unix(), 10))
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(c.perPage))
	u.RawQuery = q.Encode()

	return u.String(), nil
}

func (c *Client) getCallsPage(ctx context.Context, since time.Time, page int) (*CallsPage, error) {
	endpoint, err := c.CallsURL(since, page)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		return nil, err
	}

	var result CallsPage
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &result, nil
}

// checkResponse converts a non-2xx response into an error.
func checkResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	reqURL := ""
	if resp.Request != nil && resp.Request.URL != nil {
		reqURL = resp.Request.URL.String()
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		rlErr := &RateLimitError{URL: reqURL}
		if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil {
			rlErr.RetryAfter = time.Duration(secs) * time.Second
		}
		return rlErr
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    errorMessage(resp),
		URL:        reqURL,
	}
}

// errorMessage extracts Aircall's {"error": "...", "troubleshoot": "..."} body.
func errorMessage(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var payload struct {
		Error        string `json:"error"`
		Troubleshoot string `json:"troubleshoot"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		if payload.Troubleshoot != "" {
			return payload.Error + ": " + payload.Troubleshoot
		}
		return payload.Error
	}
	return http.StatusText(resp.StatusCode)
}
