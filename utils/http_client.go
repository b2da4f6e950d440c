package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is a small JSON-over-HTTP client, generalized from the donor's
// envelope-based HTTPClient into plain route calls now that there is a
// single service to talk to instead of a fleet of modules exchanging
// typed messages.
type Client struct {
	BaseURL string
	http    *http.Client
}

// NewClient builds a Client against baseURL (e.g. "http://127.0.0.1:8080").
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// PostJSON marshals body, POSTs it to path, and decodes the response
// into out (which may be nil to discard the body).
func (c *Client) PostJSON(path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	resp, err := c.http.Post(c.BaseURL+path, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("posting to %s: %w", path, err)
	}
	defer resp.Body.Close()

	return decodeOrError(resp, out)
}

// GetJSON issues a GET against path and decodes the response into out.
func (c *Client) GetJSON(path string, out interface{}) error {
	resp, err := c.http.Get(c.BaseURL + path)
	if err != nil {
		return fmt.Errorf("getting %s: %w", path, err)
	}
	defer resp.Body.Close()

	return decodeOrError(resp, out)
}

func decodeOrError(resp *http.Response, out interface{}) error {
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// CheckHealth hits /health and reports whether the service answered ok.
func (c *Client) CheckHealth() error {
	var result map[string]string
	if err := c.GetJSON("/health", &result); err != nil {
		return fmt.Errorf("health check against %s: %w", c.BaseURL, err)
	}
	if result["status"] != "ok" {
		return fmt.Errorf("health check against %s: status %q", c.BaseURL, result["status"])
	}
	return nil
}
