package graphql

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/portalkit/portalkit/config"
	"github.com/portalkit/portalkit/internal/providers/shared/tlsconfig"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultGraphQLPath = "/api/graphql"
	maxResponseBytes   = 16 << 20
	requestIDHeader    = "X-Request-ID"
)

// Client talks to the portal GraphQL endpoint of one application.
type Client struct {
	endpoint  string
	appNodeID string
	token     string
	client    *http.Client
	limiter   *rate.Limiter
	logger    *zap.Logger
	requestID func() string
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.client = httpClient
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func NewClient(cfg config.Backend, opts ...Option) (*Client, error) {
	endpoint, err := graphQLEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.AppID) == "" {
		return nil, validationError("backend.app-id is required", nil)
	}

	timeout := defaultTimeout
	if cfg.Timeout != "" {
		parsed, err := time.ParseDuration(cfg.Timeout)
		if err != nil || parsed <= 0 {
			return nil, validationError("backend.timeout must be a positive duration", err)
		}
		timeout = parsed
	}

	tlsConfig, err := tlsconfig.BuildTLSConfig(cfg.TLS, "backend")
	if err != nil {
		return nil, err
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if tlsConfig != nil {
		transport.TLSClientConfig = tlsConfig
	}

	c := &Client{
		endpoint:  endpoint,
		appNodeID: AppNodeID(strings.TrimSpace(cfg.AppID)),
		token:     cfg.Auth.ResolveToken(),
		client:    &http.Client{Timeout: timeout, Transport: transport},
		limiter:   newLimiter(cfg.RateLimit),
		logger:    zap.NewNop(),
		requestID: uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// AppNodeID is the relay global ID the portal API expects for an app.
func AppNodeID(appID string) string {
	return base64.StdEncoding.EncodeToString([]byte("App:" + appID))
}

func graphQLEndpoint(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", validationError("backend.endpoint is required", nil)
	}
	parsed, err := url.Parse(trimmed)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return "", validationError("backend.endpoint must be an absolute http or https URL", err)
	}
	if parsed.Path == "" || parsed.Path == "/" {
		parsed.Path = defaultGraphQLPath
	}
	return parsed.String(), nil
}

func newLimiter(cfg *config.RateLimit) *rate.Limiter {
	if cfg == nil || cfg.RequestsPerSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
}

type request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors"`
}

// do posts one operation and decodes its data into out.
func (c *Client) do(ctx context.Context, operation string, query string, variables map[string]any, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return transportError("rate limiter wait aborted", err)
	}

	body, err := json.Marshal(request{Query: query, OperationName: operation, Variables: variables})
	if err != nil {
		return internalError("failed to encode graphql request", err)
	}

	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return internalError("failed to create graphql request", err)
	}
	requestID := c.requestID()
	httpRequest.Header.Set("Content-Type", "application/json")
	httpRequest.Header.Set("Accept", "application/json")
	httpRequest.Header.Set(requestIDHeader, requestID)
	if c.token != "" {
		httpRequest.Header.Set("Authorization", "Bearer "+c.token)
	}

	logger := c.logger.With(zap.String("operation", operation), zap.String("requestID", requestID))
	started := time.Now()
	httpResponse, err := c.client.Do(httpRequest)
	if err != nil {
		logger.Warn("graphql request failed", zap.Error(err))
		return transportError("graphql request failed", err)
	}
	defer httpResponse.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(httpResponse.Body, maxResponseBytes))
	if err != nil {
		return transportError("failed to read graphql response", err)
	}
	logger.Debug("graphql response",
		zap.Int("status", httpResponse.StatusCode),
		zap.Duration("elapsed", time.Since(started)),
		zap.Int("bytes", len(payload)),
	)

	if httpResponse.StatusCode >= http.StatusBadRequest {
		return classifyStatusError(httpResponse.StatusCode, payload)
	}

	var decoded response
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return transportError("graphql response is not valid JSON", err)
	}
	if len(decoded.Errors) > 0 {
		return classifyGraphQLErrors(decoded.Errors)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(decoded.Data, out); err != nil {
		return transportError("unexpected graphql response shape", err)
	}
	return nil
}
