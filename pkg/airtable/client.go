package airtable

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/dustin/go-humanize"
	"golang.org/x/oauth2"

	"github.com/aretw0/airfetch/pkg/core"
)

// Client pages through list-records responses for a source.
type Client struct {
	apiRoot string
	http    *http.Client
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithAPIRoot points the client at another endpoint (e.g. a test server).
func WithAPIRoot(root string) Option {
	return func(c *Client) {
		c.apiRoot = root
	}
}

// WithHTTPClient sets the base HTTP client. Its transport and timeout are
// kept; the bearer token is layered on top per source.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLogger sets the logger for the client.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Client for the public Airtable API.
func NewClient(opts ...Option) *Client {
	c := &Client{
		apiRoot: DefaultAPIRoot,
		http:    http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchRecords requests pages one after another until the API stops
// returning an offset.
//
// A failed request or an undecodable page ends the loop: the records gathered
// so far are returned together with the failure in FetchResult.Err.
// A source URL that does not name a base and table is not queried at all.
func (c *Client) FetchRecords(ctx context.Context, src core.Source, filter core.FilterOption, notifier core.Notifier) core.FetchResult {
	ids := ExtractIDs(src.URL)
	res := core.FetchResult{IDs: ids}

	if !ids.Queryable() {
		if c.logger != nil {
			c.logger.Warn("source url does not name an airtable base, skipping", "source", src.Name, "url", src.URL)
		}
		return res
	}

	query := BuildQuery(c.apiRoot, ids, filter)
	hc := c.authorized(ctx, src.APIKey)

	offset := ""
	for {
		page, err := c.fetchPage(ctx, hc, query+url.QueryEscape(offset))
		if err != nil {
			res.Err = fmt.Errorf("page %d: %w", res.Pages+1, err)
			if c.logger != nil {
				c.logger.Error("failed to fetch page", "source", src.Name, "page", res.Pages+1, "error", err)
			}
			return res
		}

		res.Pages++
		for _, r := range page.Records {
			res.Records = append(res.Records, r.toRecord())
		}
		if notifier != nil {
			notifier.Notify(core.Notice{
				Kind:    core.NoticeFetched,
				Source:  src.Name,
				Count:   len(res.Records),
				Message: fmt.Sprintf("Got %s records", humanize.Comma(int64(len(res.Records)))),
			})
		}
		if c.logger != nil {
			c.logger.Debug("page fetched", "source", src.Name, "page", res.Pages, "records", len(page.Records), "more", page.Offset != "")
		}

		offset = page.Offset
		if offset == "" {
			return res
		}
	}
}

// authorized wraps the base client with a static bearer token.
func (c *Client) authorized(ctx context.Context, apiKey string) *http.Client {
	base := c.http
	if base == nil {
		base = http.DefaultClient
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	hc := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: apiKey, TokenType: "Bearer"}))
	hc.Timeout = base.Timeout
	return hc
}

func (c *Client) fetchPage(ctx context.Context, hc *http.Client, pageURL string) (*listResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	var page listResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &page, nil
}

// StatusError reports a non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("airtable returned %d %s: %s", e.Code, http.StatusText(e.Code), e.Body)
}

var _ core.RecordFetcher = (*Client)(nil)
