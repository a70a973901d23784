// Package client is the Go SDK for the document management API. It
// owns the session credential pair, attaches it to every outbound call
// and tears the session down on an unauthorized response.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// APIError is a non-2xx response from the server, carrying the detail
// text the server provided when there was one.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api: %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("api: %d", e.StatusCode)
}

// meEndpoint is exempt from forced-logout on 401 so that probing a stale
// token does not cascade into a redirect loop.
const meEndpoint = "auth/me/"

// Client wraps HTTP calls to the API root. Every request carries the
// stored access token as a bearer credential; every 401 except on the
// identity check clears the token store and fires OnUnauthorized.
type Client struct {
	baseURL    string
	HTTPClient *http.Client
	Tokens     TokenStore
	// OnUnauthorized is the redirect-to-login analog. Called after the
	// token store has been cleared. May be nil.
	OnUnauthorized func()
}

// New creates a client for the given API root, e.g.
// "http://127.0.0.1:8000/api/".
func New(baseURL string, tokens TokenStore) *Client {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Client{
		baseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
		Tokens:     tokens,
	}
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token, ok := c.Tokens.AccessToken(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized && path != meEndpoint {
		resp.Body.Close()
		_ = c.Tokens.ClearTokens()
		if c.OnUnauthorized != nil {
			c.OnUnauthorized()
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Detail: "session expired"}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, decodeError(resp)
	}
	return resp, nil
}

func decodeError(resp *http.Response) error {
	var payload struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	_ = json.Unmarshal(data, &payload)
	detail := payload.Error
	if detail == "" {
		detail = payload.Detail
	}
	return &APIError{StatusCode: resp.StatusCode, Detail: detail}
}

func decodeJSON(r io.Reader, out interface{}) error {
	return json.NewDecoder(r).Decode(out)
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}
	resp, err := c.do(ctx, http.MethodPost, path, body, "application/json")
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
