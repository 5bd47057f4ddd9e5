package recommend

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/wikify/wikify/internal/logging"
	"github.com/wikify/wikify/internal/metrics"
)

const defaultBackendTimeout = 10 * time.Second

// HTTPDoer is the subset of *http.Client the fetchers need.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// BackendFetcher asks a recommendation service for pre-shaped articles in
// one request.
type BackendFetcher struct {
	baseURL    string
	httpClient HTTPDoer
	timeout    time.Duration
}

// BackendOption configures a BackendFetcher
type BackendOption func(*BackendFetcher)

// WithBackendHTTPClient sets a custom HTTP client
func WithBackendHTTPClient(c HTTPDoer) BackendOption {
	return func(f *BackendFetcher) {
		f.httpClient = c
	}
}

// WithBackendTimeout sets the request timeout
func WithBackendTimeout(d time.Duration) BackendOption {
	return func(f *BackendFetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// NewBackendFetcher creates a fetcher for the service at baseURL.
func NewBackendFetcher(baseURL string, opts ...BackendOption) (*BackendFetcher, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid backend url %q", baseURL)
	}

	f := &BackendFetcher{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		timeout:    defaultBackendTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

func (f *BackendFetcher) Strategy() Strategy { return StrategyBackend }

type recommendationsResponse struct {
	Recommendations []Article `json:"recommendations"`
}

// Fetch issues GET /recommendations?categories=a,b,c. Any failure is a
// *FetchError; there is no retry.
func (f *BackendFetcher) Fetch(ctx context.Context, interests []string) (Candidates, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	reqURL := f.baseURL + "/recommendations?categories=" + url.QueryEscape(strings.Join(interests, ","))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Candidates{}, &FetchError{Err: err}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := f.httpClient.Do(req)
	if err != nil {
		metrics.ExternalRequestDuration.WithLabelValues("recommendations", "error").Observe(time.Since(start).Seconds())
		return Candidates{}, &FetchError{Err: err}
	}
	defer resp.Body.Close()
	metrics.ExternalRequestDuration.WithLabelValues("recommendations", strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		status := resp.Status
		if status == "" {
			status = fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
		}
		return Candidates{}, &FetchError{Status: status}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Candidates{}, &FetchError{Err: err}
	}

	var result recommendationsResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return Candidates{}, &FetchError{Err: &ParseError{Source: "recommendations", Err: err}}
	}

	articles := dedupe(result.Recommendations)
	if len(articles) != len(result.Recommendations) {
		logging.Debug().Int("received", len(result.Recommendations)).Int("unique", len(articles)).Msg("backend returned duplicate ids")
	}

	return Candidates{Articles: articles, Enriched: true}, nil
}
