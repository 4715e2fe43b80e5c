package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/goadesign/agentcore/errs"
)

// ServerConfig describes how to reach and authenticate against a single MCP
// server (§6.4 "MCP HTTP" configuration surface).
type ServerConfig struct {
	Name       string
	URL        string
	APIKey     string
	Timeout    time.Duration
	MaxRetries int
	// Limiter optionally bounds outbound request rate to this server.
	Limiter *rate.Limiter
}

func (c ServerConfig) timeout() time.Duration {
	if c.Timeout <= 0 {
		return 30 * time.Second
	}
	return c.Timeout
}

func (c ServerConfig) retry() retryConfig {
	cfg := defaultRetryConfig()
	if c.MaxRetries > 0 {
		cfg.maxRetries = c.MaxRetries
	}
	return cfg
}

// transport is the HTTP JSON-RPC transport for a single MCP server.
type transport struct {
	cfg  ServerConfig
	http *http.Client
}

// newTransport validates cfg and constructs a transport. An API key without
// HTTPS is a hard construction-time error (§4.8 "Transport").
func newTransport(cfg ServerConfig) (*transport, error) {
	if cfg.APIKey != "" && !isHTTPS(cfg.URL) {
		return nil, &errs.MCPError{
			ServerName: cfg.Name,
			Method:     "construct",
			Message:    "API key requires an HTTPS endpoint",
		}
	}
	return &transport{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.timeout()},
	}, nil
}

func isHTTPS(url string) bool {
	return len(url) >= 8 && url[:8] == "https://"
}

// call issues one JSON-RPC request and returns its decoded result, retrying
// per cfg.retry() (§4.8 steps 1-4).
func (t *transport) call(ctx context.Context, method string, params, result any) error {
	if t.cfg.Limiter != nil {
		if err := t.cfg.Limiter.Wait(ctx); err != nil {
			return &errs.Cancelled{}
		}
	}

	req := newRequest(method, params)

	return doWithRetry(ctx, t.cfg.retry(), func(ctx context.Context) error {
		return t.doOnce(ctx, req, result)
	})
}

func (t *transport) doOnce(ctx context.Context, req request, result any) error {
	body, err := json.Marshal(req)
	if err != nil {
		return &errs.MCPError{ServerName: t.cfg.Name, Method: req.Method, Underlying: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return &errs.MCPError{ServerName: t.cfg.Name, Method: req.Method, Underlying: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if t.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+t.cfg.APIKey)
	}

	resp, err := t.http.Do(httpReq)
	if err != nil {
		return &errs.MCPError{ServerName: t.cfg.Name, Method: req.Method, Underlying: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := &httpStatusError{statusCode: resp.StatusCode}
		if d, ok := retryAfterDuration(resp.Header.Get("Retry-After")); ok {
			statusErr.hasRetry = true
			statusErr.retryAfter = d
		}
		return &errs.MCPError{
			ServerName: t.cfg.Name,
			Method:     req.Method,
			Message:    fmt.Sprintf("non-2xx http status %d", resp.StatusCode),
			Underlying: statusErr,
		}
	}

	var rpcResp response
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return &errs.MCPError{ServerName: t.cfg.Name, Method: req.Method, Underlying: err}
	}
	if rpcResp.Error != nil {
		return &errs.MCPError{
			ServerName: t.cfg.Name,
			Method:     req.Method,
			Code:       rpcResp.Error.Code,
			Message:    rpcResp.Error.Message,
		}
	}
	if result == nil || len(rpcResp.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(rpcResp.Result, result); err != nil {
		return &errs.MCPError{ServerName: t.cfg.Name, Method: req.Method, Underlying: err}
	}
	return nil
}

// retryAfterDuration parses the Retry-After header, which per HTTP may be
// either a delay in seconds or an HTTP-date; only the seconds form is
// supported (the only form MCP servers are expected to emit per §6.1).
func retryAfterDuration(header string) (time.Duration, bool) {
	if header == "" {
		return 0, false
	}
	secs, err := strconv.Atoi(header)
	if err != nil || secs < 0 {
		return 0, false
	}
	return time.Duration(secs) * time.Second, true
}
