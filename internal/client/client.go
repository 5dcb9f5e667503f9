// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package client is a typed HTTP client for the state routes.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ManuGH/yaruki/internal/states"
)

const (
	defaultTimeout   = 30 * time.Second
	maxResponseBytes = 16 << 20
)

// Error is returned for non-2xx responses and for bodies with ok=false.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("yaruki: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("yaruki: HTTP %d: %s", e.StatusCode, e.Message)
}

// IsUnauthorized reports whether err is a 401 from the server.
func IsUnauthorized(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.StatusCode == http.StatusUnauthorized
}

// Client talks to one yaruki server.
type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds each request, including reading the body.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient = NewHTTPClient(d) }
}

// WithBasicAuth sets the credentials sent with every request.
func WithBasicAuth(username, password string) Option {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

// New creates a client for baseURL (scheme and host, optional path prefix).
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}
	c := &Client{
		baseURL:    strings.TrimRight(u.String(), "/"),
		httpClient: NewHTTPClient(defaultTimeout),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type recordRequest struct {
	State any `json:"state"`
}

type envelope struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

type recordResponse struct {
	envelope
	states.Record
}

type listResponse struct {
	envelope
	Results []states.Result `json:"results"`
}

// Record posts state to /states/now. The server stores its string coercion.
func (c *Client) Record(ctx context.Context, state any) (states.Record, error) {
	body, err := json.Marshal(recordRequest{State: state})
	if err != nil {
		return states.Record{}, fmt.Errorf("encode state: %w", err)
	}

	var out recordResponse
	if err := c.do(ctx, http.MethodPost, "/states/now", body, &out, &out.envelope); err != nil {
		return states.Record{}, err
	}
	return out.Record, nil
}

// List fetches every record whose key starts with prefix, in key order.
func (c *Client) List(ctx context.Context, prefix string) ([]states.Result, error) {
	var out listResponse
	if err := c.do(ctx, http.MethodGet, "/states/"+url.PathEscape(prefix), nil, &out, &out.envelope); err != nil {
		return nil, err
	}
	if out.Results == nil {
		out.Results = []states.Result{}
	}
	return out.Results, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any, env *envelope) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.username != "" || c.password != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e envelope
		_ = json.Unmarshal(raw, &e)
		msg := e.Error
		if msg == "" {
			msg = strings.TrimSpace(string(raw))
		}
		return &Error{StatusCode: resp.StatusCode, Message: msg}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if !env.OK {
		return &Error{StatusCode: resp.StatusCode, Message: env.Error}
	}
	return nil
}
