// Package gateway talks to the workspace backend and normalizes its response
// envelopes ({data}, {users}, {user}, {success,data}, {token,data}) into Result.
//
// Calls never retry and never panic on bad input: transport failures, non-2xx
// statuses and malformed bodies all come back as Result{OK: false}.
package gateway

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

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const RequestIDHeader = "X-Request-ID"

// maxBody caps how much of a response is read.
const maxBody = 8 << 20

type Client struct {
	baseURL string
	hc      *http.Client
	token   string
	log     zerolog.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.hc = hc
		}
	}
}

// WithTimeout bounds each request. Zero leaves requests bounded only by their context.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.hc
			hc.Timeout = d
			c.hc = &hc
		}
	}
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = strings.TrimSpace(token) }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l.With().Str("component", "gateway").Logger() }
}

// New returns a client for baseURL, e.g. "https://host/api/project-0".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		hc:      &http.Client{},
		log:     zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// WithSession returns a copy of c that sends token as a bearer credential.
func (c *Client) WithSession(token string) *Client {
	cp := *c
	cp.token = strings.TrimSpace(token)
	return &cp
}

func (c *Client) BaseURL() string { return c.baseURL }

// envelope is the union of every response shape the backend uses.
type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Token   string          `json:"token"`
	Data    json.RawMessage `json:"data"`
	Users   json.RawMessage `json:"users"`
	User    json.RawMessage `json:"user"`
}

func (e envelope) message(fallback string) string {
	if m := strings.TrimSpace(e.Message); m != "" {
		return m
	}
	if m := strings.TrimSpace(e.Error); m != "" {
		return m
	}
	return fallback
}

type response struct {
	status int
	body   []byte
	env    envelope
	// parsed is false when the body is not a JSON object.
	parsed bool
}

func (r response) success() bool {
	return r.status >= 200 && r.status < 300
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in any) (response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return response{}, err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return response{}, err
	}
	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeader, reqID)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	res, err := c.hc.Do(req)
	if err != nil {
		c.log.Debug().Str("method", method).Str("path", path).Str("requestId", reqID).
			Dur("duration", time.Since(start)).Err(err).Msg("request failed")
		return response{}, err
	}
	defer res.Body.Close()

	b, err := io.ReadAll(io.LimitReader(res.Body, maxBody))
	c.log.Debug().Str("method", method).Str("path", path).Str("requestId", reqID).
		Int("status", res.StatusCode).Dur("duration", time.Since(start)).Msg("request")
	if err != nil {
		return response{}, err
	}

	out := response{status: res.StatusCode, body: b}
	if trimmed := bytes.TrimSpace(b); len(trimmed) > 0 && trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &out.env); err == nil {
			out.parsed = true
		}
	}
	return out, nil
}

// call performs a request and applies the shared failure rules. On success it
// hands the response to decode.
func call[T any](ctx context.Context, c *Client, method, path string, query url.Values, in any, fallback string, decode func(response) (T, bool)) Result[T] {
	if ctx == nil {
		ctx = context.Background()
	}
	res, err := c.do(ctx, method, path, query, in)
	if err != nil {
		msg := fallback
		if ctx.Err() != nil {
			msg = fallback + ": " + ctx.Err().Error()
		}
		return fail[T](msg)
	}
	if !res.success() {
		return fail[T](res.env.message(fallback))
	}
	if res.env.Success != nil && !*res.env.Success {
		return fail[T](res.env.message(fallback))
	}
	items, good := decode(res)
	if !good {
		return fail[T](res.env.message(fallback))
	}
	return ok(items)
}

// decodeList reads a JSON array from raw. A missing or null field is an empty list.
func decodeList[T any](raw json.RawMessage) ([]T, bool) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return []T{}, true
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, false
	}
	if out == nil {
		out = []T{}
	}
	return out, true
}

func pathID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", fmt.Errorf("missing id")
	}
	return url.PathEscape(id), nil
}
