// Package gateway is the single outbound channel to the remote API. Every
// request carries the current session token as a bearer credential; an
// unauthorized response invalidates the session and surfaces as
// *ports.AuthError, everything else network-shaped as *ports.TransportError.
package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"bookfinder/internal/adapters/util"
	"bookfinder/internal/core/domain/ports"
)

// Ensure Client implements the Gateway port
var _ ports.Gateway = (*Client)(nil)

type Client struct {
	baseURL string
	client  *http.Client
	creds   ports.Credentials

	// OnAuthRequired, when set, is called once per unauthorized response
	// after the session has been invalidated. The presentation layer uses
	// it as its "navigate to login" signal.
	OnAuthRequired func()
}

// NewClient creates a gateway bound to the given base URL and credential
// source. The timeout applies per call; there is no caching, deduplication
// or automatic retry.
func NewClient(baseURL string, creds ports.Credentials, timeout time.Duration, logLevel string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		creds:   creds,
		client: &http.Client{
			Transport: &util.LoggingTransport{LogLevel: logLevel},
			Timeout:   timeout,
		},
	}
}

// Call performs one request against the API and returns the raw response
// body. The token is attached whenever one is present; local validity is not
// checked here because the remote service is the authority on token validity
// once the request is in flight.
func (c *Client) Call(ctx context.Context, method, path string, body io.Reader) ([]byte, error) {
	url := c.baseURL + "/" + strings.TrimLeft(path, "/")

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, &ports.TransportError{Op: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	if token := c.creds.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &ports.TransportError{Op: fmt.Sprintf("%s %s", method, path), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		if err := c.creds.Invalidate(); err != nil {
			return nil, &ports.TransportError{Op: "invalidate session", Err: err}
		}
		if c.OnAuthRequired != nil {
			c.OnAuthRequired()
		}
		return nil, &ports.AuthError{Status: resp.StatusCode}
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ports.TransportError{Op: "read response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ports.TransportError{
			Op:  fmt.Sprintf("%s %s", method, path),
			Err: fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(payload)),
		}
	}

	return payload, nil
}
