// internal/common/http/client.go
package http

import (
	"context"
	"net/http"
	"time"

	"society-dashboard/internal/common/metrics"
)

type Client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.httpClient.Do(req)
}

func (c *Client) DoWithContext(ctx context.Context, req *http.Request) (*http.Response, error) {
	req = req.WithContext(ctx)
	return c.httpClient.Do(req)
}

// NewInstrumented returns an *http.Client whose transport records request
// durations under the society_api histogram, labeled by method and path.
func NewInstrumented(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: &timingTransport{next: http.DefaultTransport},
	}
}

type timingTransport struct {
	next http.RoundTripper
}

func (t *timingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	metrics.UpstreamRequestDuration.
		WithLabelValues(req.Method + " " + rootSegment(req.URL.Path)).
		Observe(time.Since(start).Seconds())
	return resp, err
}

// rootSegment keeps the label cardinality bounded: /members/123 -> /members
func rootSegment(path string) string {
	for i := 1; i < len(path); i++ {
		if path[i] == '/' {
			return path[:i]
		}
	}
	return path
}
