package httpclient

import (
	"net/http"
	"time"
)

// Client defines an interface for making HTTP requests
// This allows for easy mocking and testing of HTTP calls
type Client interface {
	Do(req *http.Request) (*http.Response, error)
}

// StandardHTTPClient wraps the standard http.Client
type StandardHTTPClient struct {
	client *http.Client
}

// NewStandardClient creates a new HTTP client with default settings
func NewStandardClient() Client {
	return NewStandardClientWithTimeout(30 * time.Second)
}

// NewStandardClientWithTimeout creates a new HTTP client with the given timeout
func NewStandardClientWithTimeout(timeout time.Duration) Client {
	return &StandardHTTPClient{
		client: &http.Client{Timeout: timeout},
	}
}

// Do executes an HTTP request
func (c *StandardHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return c.client.Do(req)
}
