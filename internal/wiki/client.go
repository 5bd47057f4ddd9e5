package wiki

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/wikify/wikify/internal/logging"
	"github.com/wikify/wikify/internal/metrics"
)

const (
	DefaultAPIURL  = "https://en.wikipedia.org/w/api.php"
	DefaultRESTURL = "https://wikimedia.org/api/rest_v1"

	defaultTimeout   = 10 * time.Second
	defaultRateLimit = 10 // requests per second
	defaultUserAgent = "wikify/1.0 (https://github.com/wikify/wikify)"
	breakerName      = "wiki-api"
)

// HTTPClient defines the interface for HTTP operations
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %s", e.Status)
}

// DecodeError is returned when a response body is not the expected JSON.
type DecodeError struct {
	Endpoint string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s response: %v", e.Endpoint, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Client talks to the MediaWiki action API and the Wikimedia REST API.
// Every call gets its own timeout, waits on a shared rate limiter and runs
// through a circuit breaker.
type Client struct {
	apiURL     string
	restURL    string
	userAgent  string
	timeout    time.Duration
	httpClient HTTPClient
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker[[]byte]
}

// ClientOption allows configuring the Client
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithAPIURL sets the MediaWiki action API endpoint
func WithAPIURL(u string) ClientOption {
	return func(c *Client) {
		if u != "" {
			c.apiURL = u
		}
	}
}

// WithRESTURL sets the Wikimedia REST API base
func WithRESTURL(u string) ClientOption {
	return func(c *Client) {
		if u != "" {
			c.restURL = u
		}
	}
}

// WithTimeout sets the per-call timeout
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRateLimit sets the outbound request rate. Zero or negative disables limiting.
func WithRateLimit(perSecond float64) ClientOption {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithUserAgent overrides the User-Agent header (Wikimedia requires one).
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// NewClient creates a new wiki API client
func NewClient(opts ...ClientOption) (*Client, error) {
	client := &Client{
		apiURL:     DefaultAPIURL,
		restURL:    DefaultRESTURL,
		userAgent:  defaultUserAgent,
		timeout:    defaultTimeout,
		httpClient: &http.Client{},
		limiter:    rate.NewLimiter(rate.Limit(defaultRateLimit), 1),
	}

	for _, opt := range opts {
		opt(client)
	}

	for _, raw := range []string{client.apiURL, client.restURL} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("invalid wiki endpoint %q", raw)
		}
	}

	client.breaker = newBreaker()
	return client, nil
}

func newBreaker() *gobreaker.CircuitBreaker[[]byte] {
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		// A caller giving up is not a sign of an unhealthy wiki.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// getJSON fetches reqURL and decodes the body into v. endpoint labels metrics
// and errors.
func (c *Client) getJSON(ctx context.Context, endpoint, reqURL string, v any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s: rate limiter: %w", endpoint, err)
	}

	start := time.Now()
	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.fetch(ctx, reqURL)
	})
	metrics.ExternalRequestDuration.WithLabelValues(endpoint, outcome(err)).Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("%s: %w", endpoint, err)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return &DecodeError{Endpoint: endpoint, Err: err}
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		status := resp.Status
		if status == "" {
			status = strconv.Itoa(resp.StatusCode) + " " + http.StatusText(resp.StatusCode)
		}
		return nil, &StatusError{Code: resp.StatusCode, Status: status}
	}

	return io.ReadAll(resp.Body)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "rejected"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	default:
		return "error"
	}
}

// actionURL builds an action API URL with format=json added.
func (c *Client) actionURL(params url.Values) string {
	params.Set("action", "query")
	params.Set("format", "json")
	return c.apiURL + "?" + params.Encode()
}
