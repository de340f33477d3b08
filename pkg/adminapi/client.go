package adminapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/lakeview/cottage-admin-console/pkg/jwt"
	"github.com/sirupsen/logrus"
)

const maxResponseBytes = 8 << 20

// Config holds configuration for the reservation API client
type Config struct {
	BaseURL      string
	Timeout      time.Duration
	BearerToken  string // attached to admin register/update only
	AttachBearer bool
	Logger       *logrus.Logger
	Transport    http.RoundTripper // shared, already instrumented transport
}

// Client talks to the remote reservation API on behalf of one staff session.
// Every client owns its own cookie jar so the session cookie set by Login is
// replayed on later calls.
type Client struct {
	baseURL      *url.URL
	client       *http.Client
	bearerToken  string
	attachBearer bool
	logger       *logrus.Logger
}

// New creates a client with an empty cookie jar
func New(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: scheme and host are required", cfg.BaseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Client{
		baseURL: base,
		client: &http.Client{
			Timeout:   timeout,
			Jar:       jar,
			Transport: cfg.Transport,
		},
		bearerToken:  cfg.BearerToken,
		attachBearer: cfg.AttachBearer,
		logger:       logger,
	}, nil
}

type request struct {
	op     Operation
	method string
	path   string
	query  url.Values
	body   interface{}
	bearer bool
}

// do sends one request and returns the raw body of a 2xx response
func (c *Client) do(ctx context.Context, r request) ([]byte, error) {
	u := *c.baseURL
	u.Path = u.Path + r.path
	if len(r.query) > 0 {
		u.RawQuery = r.query.Encode()
	}

	var body io.Reader
	if r.body != nil {
		jsonData, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to marshal request: %w", r.op, err)
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create request: %w", r.op, err)
	}
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.bearer {
		c.attachBearerHeader(req, r.op)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.WithFields(logrus.Fields{
			"op":    r.op,
			"error": err.Error(),
		}).Error("Remote API request failed")
		return nil, fmt.Errorf("%s: failed to send request: %w", r.op, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read response: %w", r.op, err)
	}

	c.logger.WithFields(logrus.Fields{
		"op":         r.op,
		"method":     r.method,
		"path":       r.path,
		"status":     resp.StatusCode,
		"latency_ms": time.Since(start).Milliseconds(),
	}).Debug("Remote API call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		remoteErr := &RemoteError{
			Op:      r.op,
			Status:  resp.StatusCode,
			Message: messageOrFallback(respBody, r.op),
		}
		c.logger.WithFields(logrus.Fields{
			"op":      r.op,
			"status":  resp.StatusCode,
			"message": remoteErr.Message,
		}).Warn("Remote API returned an error")
		return nil, remoteErr
	}

	return respBody, nil
}

func (c *Client) attachBearerHeader(req *http.Request, op Operation) {
	if !c.attachBearer || c.bearerToken == "" {
		return
	}
	info, err := jwt.InspectBearer(c.bearerToken)
	if err != nil {
		c.logger.WithFields(logrus.Fields{"op": op, "error": err.Error()}).Warn("Admin bearer token is unreadable, not attaching it")
		return
	}
	if info.Expired(time.Now()) {
		c.logger.WithFields(logrus.Fields{"op": op, "expired_at": info.ExpiresAt}).Warn("Admin bearer token has expired, not attaching it")
		return
	}
	req.Header.Set("Authorization", "Bearer "+strings.TrimPrefix(c.bearerToken, "Bearer "))
}

// messageOrFallback extracts {"message": "..."} from an error body
func messageOrFallback(body []byte, op Operation) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && strings.TrimSpace(payload.Message) != "" {
		return payload.Message
	}
	return FallbackMessage(op)
}

// envelope decodes a JSON object body into its top-level fields
func envelope(op Operation, body []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, &SchemaError{Op: op, Field: "<body>", Err: err}
	}
	return fields, nil
}

// field decodes one required envelope field into out
func field(op Operation, fields map[string]json.RawMessage, key string, out interface{}) error {
	raw, ok := fields[key]
	if !ok || string(raw) == "null" {
		return &SchemaError{Op: op, Field: key}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &SchemaError{Op: op, Field: key, Err: err}
	}
	return nil
}

// optionalField decodes key into out when present; it reports whether it was
func optionalField(op Operation, fields map[string]json.RawMessage, key string, out interface{}) (bool, error) {
	raw, ok := fields[key]
	if !ok || string(raw) == "null" {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, &SchemaError{Op: op, Field: key, Err: err}
	}
	return true, nil
}
