package usda

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/GarrettC14/NutritionRx-sub008/internal/domain"
)

// maxResponseBytes caps how much of a response body is read
const maxResponseBytes = 8 << 20

// Request is a single call to the FDC API
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// Response is the raw status and body returned by FDC
type Response struct {
	StatusCode int
	Body       []byte
}

// Transport executes requests against FDC. It returns an error only when no
// HTTP response was obtained; status handling is left to the caller.
type Transport interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// HTTPTransport is a Transport backed by net/http
type HTTPTransport struct {
	httpClient *http.Client
	baseURL    string
}

// NewHTTPTransport creates a transport rooted at baseURL with a bounded
// per-request timeout
func NewHTTPTransport(baseURL string, timeout time.Duration) *HTTPTransport {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPTransport{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Do executes an HTTP request with proper headers and error handling
func (t *HTTPTransport) Do(ctx context.Context, r *Request) (*Response, error) {
	reqURL := t.baseURL + r.Path
	if len(r.Query) > 0 {
		reqURL = fmt.Sprintf("%s?%s", reqURL, r.Query.Encode())
	}

	var body io.Reader
	if r.Body != nil {
		payload, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "NutritionRx/1.0")
	req.Header.Set("Accept", "application/json")
	if r.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	data, err := readLimitedBody(resp.Body, maxResponseBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", domain.ErrNetwork, err)
	}

	return &Response{StatusCode: resp.StatusCode, Body: data}, nil
}

// readLimitedBody reads at most limit bytes from r
func readLimitedBody(r io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, limit))
}
