// Package client talks to the load-plan optimizer backend over HTTP. Every
// call is a single request without retry; failures come back as *Error.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/piwi3910/LoadPlan/internal/logging"
	"github.com/piwi3910/LoadPlan/internal/normalize"
)

// Endpoint paths relative to the base URL.
const (
	PathHealth     = "/api/health"
	PathSimulate   = "/api/simulate"
	PathOptimize   = "/api/optimize"
	PathContainers = "/api/containers"
	PathItems      = "/api/items"
	PathReport     = "/api/report"
)

const (
	maxJSONBody   = 32 << 20
	maxReportBody = 256 << 20
)

// TokenSource supplies the bearer token for each request. An empty token
// sends no Authorization header.
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed token.
type StaticToken string

func (t StaticToken) Token() string { return string(t) }

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// Client is a backend client bound to one base URL.
type Client struct {
	baseURL    string
	http       *http.Client
	tokens     TokenSource
	normalizer *normalize.Normalizer
	log        *logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTokenSource sets where the bearer token comes from.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithLogger sets the logger for request logging.
func WithLogger(l *logging.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithNormalizer shares a compiled normalizer between clients.
func WithNormalizer(n *normalize.Normalizer) Option {
	return func(c *Client) { c.normalizer = n }
}

// New creates a client for baseURL. A trailing slash is dropped.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    http.DefaultClient,
		tokens:  StaticToken(""),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.normalizer == nil {
		c.normalizer = normalize.MustNew()
	}
	if c.log == nil {
		c.log = logging.Nop()
	}
	c.log = c.log.WithComponent("client")
	return c
}

// BaseURL returns the base URL requests go to.
func (c *Client) BaseURL() string { return c.baseURL }

type response struct {
	status int
	body   []byte
}

// send performs one request. Only transport failures are errors here;
// status handling is up to the caller.
func (c *Client) send(ctx context.Context, op, method, path string, payload interface{}, header http.Header, limit int64) (response, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return response{}, &Error{Kind: KindTransport, Op: op, Err: errors.Wrap(err, "failed to encode request")}
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return response{}, transportError(op, err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if tok := strings.TrimSpace(c.tokens.Token()); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.WithError(err).HTTPRequest(method, path, 0, time.Since(start))
		return response{}, transportError(op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	c.log.HTTPRequest(method, path, resp.StatusCode, time.Since(start))
	if err != nil {
		return response{}, transportError(op, err)
	}
	return response{status: resp.StatusCode, body: data}, nil
}

// call sends a request and requires a 2xx status.
func (c *Client) call(ctx context.Context, op, method, path string, payload interface{}) ([]byte, error) {
	resp, err := c.send(ctx, op, method, path, payload, nil, maxJSONBody)
	if err != nil {
		return nil, err
	}
	if resp.status < 200 || resp.status > 299 {
		return nil, statusError(op, resp.status)
	}
	return resp.body, nil
}

// Health reports whether the backend is up. A non-200 status is an error;
// a 200 with "ok": false comes back as an unhealthy Health.
func (c *Client) Health(ctx context.Context) (Health, error) {
	resp, err := c.send(ctx, "health", http.MethodGet, PathHealth, nil,
		http.Header{"Cache-Control": {"no-store"}}, maxJSONBody)
	if err != nil {
		return Health{}, err
	}
	if resp.status != http.StatusOK {
		return Health{}, statusError("health", resp.status)
	}
	return parseHealth(resp.body), nil
}

// parseHealth reads an {ok, ts} body. Bodies that are not JSON objects, or
// lack "ok", count as healthy.
func parseHealth(body []byte) Health {
	var raw struct {
		OK *bool  `json:"ok"`
		TS string `json:"ts"`
	}
	h := Health{OK: true}
	if err := json.Unmarshal(body, &raw); err != nil {
		return h
	}
	if raw.OK != nil {
		h.OK = *raw.OK
	}
	h.Timestamp = raw.TS
	return h
}

// Simulate submits a simulation and returns the normalized plan.
func (c *Client) Simulate(ctx context.Context, req SimulateRequest) (normalize.Envelope, error) {
	return c.plan(ctx, "simulate", PathSimulate, req)
}

// Optimize runs the optimizer against a catalog container.
func (c *Client) Optimize(ctx context.Context, req OptimizeRequest) (normalize.Envelope, error) {
	return c.plan(ctx, "optimize", PathOptimize, req)
}

func (c *Client) plan(ctx context.Context, op, path string, payload interface{}) (normalize.Envelope, error) {
	body, err := c.call(ctx, op, http.MethodPost, path, payload)
	if err != nil {
		return normalize.Envelope{}, err
	}
	env, err := c.normalizer.DecodePlan(body)
	if err != nil {
		return normalize.Envelope{}, decodeError(op, err)
	}
	c.log.Debug("plan decoded",
		"op", op,
		"shape", env.Shape.String(),
		"placements", len(env.Plan.Placements),
		"legacyPlacements", env.Legacy,
		"defaultedFields", env.Defaulted,
	)
	return env, nil
}

// Report requests a PDF report and returns its bytes.
func (c *Client) Report(ctx context.Context, req ReportRequest) ([]byte, error) {
	resp, err := c.send(ctx, "report", http.MethodPost, PathReport, req,
		http.Header{"Accept": {"application/pdf"}}, maxReportBody)
	if err != nil {
		return nil, err
	}
	if resp.status < 200 || resp.status > 299 {
		return nil, statusError("report", resp.status)
	}
	return resp.body, nil
}
