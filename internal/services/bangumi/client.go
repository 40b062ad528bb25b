package bangumi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"comicrenamer/internal/services"
)

// DefaultBaseURL is the public Bangumi API host.
const DefaultBaseURL = "https://api.bgm.tv"

// RateLimitMessage is the apology the provider embeds in throttled responses,
// usually alongside HTTP 200.
const RateLimitMessage = "对不起，您在  秒内只能进行一次搜索，请返回。"

// Catalog defines the lookups used during identification.
type Catalog interface {
	Search(ctx context.Context, term string) (*Subject, error)
	Contributors(ctx context.Context, subjectID int64) ([]Contributor, error)
}

// StatusError reports a non-success HTTP status from an endpoint.
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("bangumi %s returned %d", e.Endpoint, e.StatusCode)
}

// Is lets callers match status failures against services.ErrCatalogUnavailable.
func (e *StatusError) Is(target error) bool {
	return target == services.ErrCatalogUnavailable
}

// Client provides access to the Bangumi API.
type Client struct {
	baseURL     string
	userAgent   string
	accessToken string
	httpClient  *http.Client
	limiter     *rate.Limiter
}

var _ Catalog = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithAccessToken sends the token as a bearer credential on every request.
func WithAccessToken(token string) Option {
	return func(c *Client) {
		c.accessToken = strings.TrimSpace(token)
	}
}

// WithRequestsPerSecond paces outbound requests. Values <= 0 disable pacing.
func WithRequestsPerSecond(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// New creates a Bangumi client. No request timeout is configured; calls block
// until the transport gives up or ctx is cancelled.
func New(baseURL, userAgent string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("bangumi base url required")
	}
	userAgent = strings.TrimSpace(userAgent)
	if userAgent == "" {
		return nil, errors.New("bangumi user agent required")
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Search looks up term in the book category and returns the full subject for
// the first match. A miss returns nil without error.
func (c *Client) Search(ctx context.Context, term string) (*Subject, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, services.Wrap(services.ErrValidation, "bangumi", "search", "search term must not be empty", nil)
	}
	params := url.Values{}
	params.Set("type", strconv.Itoa(SubjectTypeBook))
	params.Set("responseGroup", "small")
	params.Set("max_results", "1")

	var payload SearchResponse
	found, err := c.get(ctx, "/search/subject/"+url.PathEscape(term), params, &payload, true)
	if err != nil {
		return nil, err
	}
	if !found || payload.Results < 1 || len(payload.List) == 0 {
		return nil, nil
	}
	return c.Subject(ctx, payload.List[0].ID)
}

// Subject fetches subject details by id.
func (c *Client) Subject(ctx context.Context, subjectID int64) (*Subject, error) {
	if subjectID <= 0 {
		return nil, services.Wrap(services.ErrValidation, "bangumi", "subject", "subject id must be positive", nil)
	}
	var payload Subject
	if _, err := c.get(ctx, fmt.Sprintf("/v0/subjects/%d", subjectID), nil, &payload, false); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Contributors lists the persons and companies related to a subject. A
// subject without any returns an empty slice.
func (c *Client) Contributors(ctx context.Context, subjectID int64) ([]Contributor, error) {
	if subjectID <= 0 {
		return nil, services.Wrap(services.ErrValidation, "bangumi", "persons", "subject id must be positive", nil)
	}
	var payload []Contributor
	if _, err := c.get(ctx, fmt.Sprintf("/v0/subjects/%d/persons", subjectID), nil, &payload, false); err != nil {
		return nil, err
	}
	if payload == nil {
		payload = []Contributor{}
	}
	return payload, nil
}

// get performs a GET request and decodes the JSON body into target. When
// allowNotFound is set, a 404 reports found=false instead of an error.
func (c *Client) get(ctx context.Context, path string, params url.Values, target any, allowNotFound bool) (bool, error) {
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return false, fmt.Errorf("parse bangumi url: %w", err)
	}
	if len(params) > 0 {
		endpoint.RawQuery = params.Encode()
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return false, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return false, services.Wrap(services.ErrCatalogUnavailable, "bangumi", path, fmt.Sprintf("execute request (latency=%v)", latency), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, services.Wrap(services.ErrCatalogUnavailable, "bangumi", path, "read response body", err)
	}

	if bytes.Contains(body, []byte(RateLimitMessage)) {
		return false, services.Wrap(services.ErrRateLimited, "bangumi", path, fmt.Sprintf("provider rate limit (status=%d)", resp.StatusCode), nil)
	}

	if allowNotFound && resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, &StatusError{Endpoint: path, StatusCode: resp.StatusCode}
	}

	if err := json.Unmarshal(body, target); err != nil {
		return false, services.Wrap(services.ErrCatalogUnavailable, "bangumi", path, "decode response", err)
	}
	return true, nil
}
