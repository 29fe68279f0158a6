package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"bookfinder/internal/core/domain/ports"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string          `json:"token"`
	ExpiresAt json.RawMessage `json:"expiresAt"`
	Error     string          `json:"error"`
}

// Login exchanges credentials for a session token. On rejection the server's
// human-readable error message is returned verbatim. Login bypasses Call: a
// failed login is a credential problem, not an expired session, so it must
// not trigger the unauthorized-response handling.
func (c *Client) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	payload, err := json.Marshal(loginRequest{Username: username, Password: password})
	if err != nil {
		return "", time.Time{}, &ports.TransportError{Op: "encode login request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/login", bytes.NewReader(payload))
	if err != nil {
		return "", time.Time{}, &ports.TransportError{Op: "build login request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", time.Time{}, &ports.TransportError{Op: "POST /api/login", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", time.Time{}, &ports.TransportError{Op: "read login response", Err: err}
	}

	var parsed loginResponse
	if err := json.Unmarshal(body, &parsed); err != nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return "", time.Time{}, &ports.TransportError{Op: "decode login response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if parsed.Error != "" {
			return "", time.Time{}, errors.New(parsed.Error)
		}
		return "", time.Time{}, fmt.Errorf("login failed with status %d", resp.StatusCode)
	}

	if parsed.Token == "" {
		return "", time.Time{}, &ports.TransportError{Op: "decode login response", Err: errors.New("response carries no token")}
	}

	expiresAt, err := parseExpiry(parsed.ExpiresAt)
	if err != nil {
		return "", time.Time{}, &ports.TransportError{Op: "decode login response", Err: err}
	}

	return parsed.Token, expiresAt, nil
}

// parseExpiry accepts the expiry either as an RFC 3339 string or as unix
// seconds; both shapes have been observed from login backends.
func parseExpiry(raw json.RawMessage) (time.Time, error) {
	if len(raw) == 0 {
		return time.Time{}, errors.New("response carries no expiry")
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		t, err := time.Parse(time.RFC3339, asString)
		if err != nil {
			return time.Time{}, fmt.Errorf("unparseable expiry %q: %w", asString, err)
		}
		return t, nil
	}

	var asNumber int64
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return time.Unix(asNumber, 0), nil
	}

	return time.Time{}, fmt.Errorf("unparseable expiry %s", strconv.Quote(string(raw)))
}
