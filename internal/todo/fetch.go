package todo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultBaseURL is the endpoint todos are fetched from. The id is appended
// as the last path segment.
const DefaultBaseURL = "https://jsonplaceholder.typicode.com/todos"

// DefaultMaxBodyBytes caps how much of a response body is read.
const DefaultMaxBodyBytes = 2 << 20

// DefaultUserAgent is sent with every request unless overridden.
const DefaultUserAgent = "todofetch/1.0"

// Fetcher retrieves the raw payload for a todo id. The result is generic
// JSON with no shape guarantee.
type Fetcher interface {
	Fetch(ctx context.Context, id ID) (any, error)
}

// HTTPFetcher fetches todos with a single GET request.
type HTTPFetcher struct {
	BaseURL      string        // defaults to DefaultBaseURL
	Client       *http.Client  // defaults to http.DefaultClient
	Timeout      time.Duration // zero means no timeout
	UserAgent    string        // defaults to DefaultUserAgent
	MaxBodyBytes int64         // defaults to DefaultMaxBodyBytes
	Logger       *zap.Logger   // defaults to a no-op logger
}

// URL returns the request URL for id.
func (f *HTTPFetcher) URL(id ID) string {
	base := f.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}

	return strings.TrimRight(base, "/") + "/" + id.String()
}

// Fetch performs one GET and parses the body as JSON. The HTTP status is not
// checked: error bodies that parse as JSON are handed on and fail decoding.
// Any failure is a *FetchError.
func (f *HTTPFetcher) Fetch(ctx context.Context, id ID) (any, error) {
	url := f.URL(id)
	log := f.logger()
	requestID := uuid.New().String()

	if f.Timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("creating request: %w", err)}
	}

	userAgent := f.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)

	log.Debug("fetching todo", zap.String("url", url), zap.String("request_id", requestID))

	resp, err := f.client().Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	maxBody := f.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("reading response: %w", err)}
	}

	log.Debug("fetched todo",
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)))

	data, err := parseJSON(body)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	return data, nil
}

func (f *HTTPFetcher) client() *http.Client {
	if f.Client != nil {
		return f.Client
	}

	return http.DefaultClient
}

func (f *HTTPFetcher) logger() *zap.Logger {
	if f.Logger != nil {
		return f.Logger
	}

	return zap.NewNop()
}
