// ABOUTME: HTTP client for the storefront REST backend
// ABOUTME: Attaches the session token, classifies failures, and fails fast while the backend is down

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"

	"github.com/markalston/storefront-cli/internal/apperrors"
	"github.com/markalston/storefront-cli/internal/config"
)

// RequestIDHeader carries a per-request id for backend log correlation
const RequestIDHeader = "X-Request-ID"

const maxErrorBody = 1 << 20

// TokenHolder is the slice of the session store the client needs
type TokenHolder interface {
	Token() string
	InvalidateToken(token string) bool
}

// Options tunes transport and breaker behaviour
type Options struct {
	Timeout             time.Duration
	BreakerTimeout      time.Duration
	BreakerMinRequests  uint32
	BreakerFailureRatio float64
	Logger              *slog.Logger
}

// DefaultOptions mirrors the config defaults
func DefaultOptions() Options {
	return Options{
		Timeout:             30 * time.Second,
		BreakerTimeout:      30 * time.Second,
		BreakerMinRequests:  5,
		BreakerFailureRatio: 0.5,
	}
}

// OptionsFromConfig maps loaded configuration onto client options
func OptionsFromConfig(cfg config.Config, logger *slog.Logger) Options {
	return Options{
		Timeout:             cfg.HTTPTimeout,
		BreakerTimeout:      cfg.BreakerTimeout,
		BreakerMinRequests:  cfg.BreakerMinRequests,
		BreakerFailureRatio: cfg.BreakerFailureRatio,
		Logger:              logger,
	}
}

// Client is the API client for the storefront backend
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*http.Response]
	logger     *slog.Logger
	session    TokenHolder
}

// New creates a new API client with default options
func New(baseURL string) *Client {
	return NewWithOptions(baseURL, DefaultOptions())
}

// NewWithOptions creates a new API client
func NewWithOptions(baseURL string, opts Options) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	settings := gobreaker.Settings{
		Name:        "storefront-api",
		MaxRequests: 1,
		Timeout:     opts.BreakerTimeout,
		// abandoned requests say nothing about backend health
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < opts.BreakerMinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= opts.BreakerFailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: opts.Timeout},
		breaker:    gobreaker.NewCircuitBreaker[*http.Response](settings),
		logger:     logger,
	}
}

// BindSession sets where the bearer token comes from and who is told about a rejected token
func (c *Client) BindSession(s TokenHolder) {
	c.session = s
}

// BaseURL returns the backend root
func (c *Client) BaseURL() string {
	return c.baseURL
}

// BreakerState reports the circuit breaker state
func (c *Client) BreakerState() gobreaker.State {
	return c.breaker.State()
}

// ErrorResponse is the backend's error body. Spring-style backends use
// "message"; some handlers use "error".
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type request struct {
	method string
	path   string
	query  url.Values
	body   any
	// public requests never carry the bearer token
	public bool
}

// do sends req and decodes a 2xx body into out (when non-nil)
func (c *Client) do(ctx context.Context, req request, out any) error {
	u := c.baseURL + req.path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	httpReq.Header.Set(RequestIDHeader, requestID)

	var token string
	if !req.public && c.session != nil {
		token = c.session.Token()
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			return nil, err
		}
		// 5xx counts against the breaker; 4xx is the caller's problem
		if resp.StatusCode >= 500 {
			return nil, c.handleErrorResponse(resp)
		}
		return resp, nil
	})
	if err != nil {
		var apiErr *apperrors.APIError
		if errors.As(err, &apiErr) {
			c.logRequest(ctx, req, requestID, apiErr.Status, start)
			return apiErr
		}
		c.logger.WarnContext(ctx, "request failed",
			slog.String("method", req.method),
			slog.String("path", req.path),
			slog.String("request_id", requestID),
			slog.Any("error", err),
		)
		return c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()
	c.logRequest(ctx, req, requestID, resp.StatusCode, start)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := c.handleErrorResponse(resp)
		if apiErr.Kind == apperrors.KindUnauthenticated && token != "" {
			if c.session.InvalidateToken(token) {
				c.logger.InfoContext(ctx, "session rejected by backend", slog.String("path", req.path))
			}
		}
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid response from backend: %w", err)
	}
	return nil
}

func (c *Client) logRequest(ctx context.Context, req request, requestID string, status int, start time.Time) {
	c.logger.DebugContext(ctx, "api request",
		slog.String("method", req.method),
		slog.String("path", req.path),
		slog.Int("status", status),
		slog.String("request_id", requestID),
		slog.Duration("elapsed", time.Since(start)),
	)
}

// handleRequestError converts transport failures into transport-kind errors
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	switch {
	case errors.Is(ctx.Err(), context.Canceled):
		return apperrors.Transport(fmt.Errorf("request canceled: %w", context.Canceled))
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return apperrors.Transport(fmt.Errorf("request timed out: %w", context.DeadlineExceeded))
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return apperrors.Transport(fmt.Errorf("backend at %s is failing, not sending request: %w", c.baseURL, err))
	}
	return apperrors.Transport(fmt.Errorf("cannot connect to backend at %s: %w", c.baseURL, err))
}

// handleErrorResponse classifies a non-2xx response and consumes its body
func (c *Client) handleErrorResponse(resp *http.Response) *apperrors.APIError {
	defer resp.Body.Close()

	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var errResp ErrorResponse
	msg := ""
	if json.Unmarshal(data, &errResp) == nil {
		msg = errResp.Message
		if msg == "" {
			msg = errResp.Error
		}
		if errResp.Details != "" {
			msg = strings.TrimSpace(msg + " " + errResp.Details)
		}
	} else {
		msg = strings.TrimSpace(string(data))
	}
	return apperrors.FromStatus(resp.StatusCode, msg)
}

func idPath(prefix string, id int64) string {
	return fmt.Sprintf("%s/%d", prefix, id)
}
