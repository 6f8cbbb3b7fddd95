package rest

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

	"github.com/tkbshop/storefront/pkg/config"
	pkgerrors "github.com/tkbshop/storefront/pkg/errors"
	"github.com/tkbshop/storefront/pkg/logger"
)

const (
	apiPathPrefix                = "/api"
	errorBodyReadLimit     int64 = 4096
	defaultRequestTimeout        = 10 * time.Second
)

var errBaseURLRequired = errors.New("backend base url is required")

// TokenSource supplies the bearer token attached to authenticated requests.
// An empty token means the request goes out unauthenticated.
type TokenSource interface {
	Token() string
}

// Client is the typed HTTP client for the storefront backend.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     TokenSource
	logg       *logger.Logger
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTokenSource installs the bearer-token supplier.
func WithTokenSource(tokens TokenSource) Option {
	return func(c *Client) {
		c.tokens = tokens
	}
}

// NewClient builds the backend client from configuration.
func NewClient(cfg config.APIConfig, logg *logger.Logger, opts ...Option) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errBaseURLRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	client := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    base + apiPathPrefix,
		logg:       logg,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: timeout}
	}

	return client, nil
}

// errorEnvelope matches the backend's error payload. Detail is either a
// plain string or a structured validation list, so it stays raw here.
type errorEnvelope struct {
	Detail json.RawMessage `json:"detail"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("%s %s", method, path))
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		return c.mapError(resp, method, path)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode response body")
	}
	return nil
}

func (c *Client) mapError(resp *http.Response, method, path string) error {
	code := pkgerrors.CodeForHTTPStatus(resp.StatusCode)
	message := pkgerrors.MetadataFor(code).PublicMessage

	raw, err := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
	if err == nil {
		if detail := decodeDetail(raw); detail != "" {
			message = detail
		}
	}

	return pkgerrors.New(code, message).WithDetails(map[string]any{
		"status": resp.StatusCode,
		"method": method,
		"path":   path,
	})
}

// decodeDetail extracts a human-readable message from the backend's
// {"detail": ...} envelope. Structured validation details collapse to
// their first message.
func decodeDetail(raw []byte) string {
	var envelope errorEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var asString string
	if err := json.Unmarshal(envelope.Detail, &asString); err == nil {
		return asString
	}

	var asList []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &asList); err == nil && len(asList) > 0 {
		return asList[0].Msg
	}

	return ""
}
