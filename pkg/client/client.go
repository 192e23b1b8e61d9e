package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Options struct {
	Timeout time.Duration
	Headers map[string]string
}

// Client fetches telemetry endpoints of a running heartscope.
type Client struct {
	httpClient *http.Client
	headers    http.Header
}

func New(opts Options) *Client {
	headers := http.Header{}
	for key, val := range opts.Headers {
		headers.Set(key, val)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
			},
		},
		headers: headers,
	}
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	for key, values := range c.headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	return c.httpClient.Do(req)
}

// Get returns the response body. A non-2xx status yields a StatusError
// together with the body, since health endpoints describe failures in it.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return body, StatusError{URL: url, Code: resp.StatusCode}
	}
	return body, nil
}
