// Package api is the single chokepoint for every call to the Grandline
// backend. It attaches the bearer token, normalizes error responses, and
// detects session expiry. Navigation is not its concern: on a rejected
// token it clears the store, fires the session-expired callback, and lets
// the caller decide what to do.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Tabo-ecom/grandline-go/session"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

const defaultTimeout = 30 * time.Second

// Client issues authenticated HTTP+JSON requests against the backend.
type Client struct {
	baseURL          string
	httpClient       *http.Client
	tokens           session.Repo
	log              zerolog.Logger
	onSessionExpired func()
}

// Option modifies the Client during construction.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. The client's timeout
// bounds every request; timeouts surface as *NetworkError.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// WithSessionExpiredFunc registers the callback invoked when the backend
// rejects the stored token outside the login flow. The token has already
// been cleared by the time it runs.
func WithSessionExpiredFunc(fn func()) Option {
	return func(c *Client) {
		c.onSessionExpired = fn
	}
}

// New creates a Client for the backend at baseURL. tokens is read on every
// outgoing request and cleared when the backend rejects the session.
func New(baseURL string, tokens session.Repo, options ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("[api.New] baseURL is required")
	}
	if tokens == nil {
		return nil, errors.New("[api.New] session repo is required")
	}

	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		tokens:     tokens,
		log:        zerolog.Nop(),
	}

	for _, opt := range options {
		opt(client)
	}

	return client, nil
}

type callOptions struct {
	loginAttempt bool
}

// CallOption adjusts how a single request is handled.
type CallOption func(*callOptions)

// asLoginAttempt exempts a call from the forced session-expiry handling.
// A failed login must surface as bad credentials, not as an expired session,
// even though both come back as 401.
func asLoginAttempt() CallOption {
	return func(co *callOptions) {
		co.loginAttempt = true
	}
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any, opts ...CallOption) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out, opts...)
}

func (c *Client) patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, nil, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any, opts ...CallOption) error {
	var co callOptions
	for _, opt := range opts {
		opt(&co)
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "[Client.do] marshal body")
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.requestURL(path, query), reader)
	if err != nil {
		return errors.Wrap(err, "[Client.do] NewRequestWithContext")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.prepareRequest(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	return c.decodeResponse(resp, out, co.loginAttempt)
}

func (c *Client) requestURL(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// prepareRequest attaches the bearer token (when present) and a correlation
// id. Never sets a content type; body-specific headers are the caller's job.
func (c *Client) prepareRequest(req *http.Request) {
	requestID := uuid.New().String()
	req.Header.Set("X-Request-ID", requestID)

	token, err := c.tokens.Get()
	if err != nil {
		c.log.Warn().Err(err).Msg("session repo read failed, sending anonymous request")
	}
	if token != "" {
		(&oauth2.Token{AccessToken: token}).SetAuthHeader(req)
	}

	c.log.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Str("request_id", requestID).
		Bool("authenticated", token != "").
		Msg("backend request")
}

// decodeResponse applies the shared response rules: 401 forces expiry unless
// the call was the login attempt itself, 204 and empty bodies succeed
// without decoding, everything else decodes into out.
func (c *Client) decodeResponse(resp *http.Response, out any, loginAttempt bool) error {
	if resp.StatusCode == http.StatusUnauthorized && !loginAttempt {
		c.expireSession()
		return ErrSessionExpired
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return c.errorFromResponse(resp)
	}

	if resp.StatusCode == http.StatusNoContent || out == nil {
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Err: err}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrap(ErrMalformedResponse, err.Error())
	}
	return nil
}

// errorFromResponse normalizes the backend's error body. The detail field is
// either a plain message, a list of per-field validation errors, or some
// other JSON value; an unreadable body degrades to a generic message.
func (c *Client) errorFromResponse(resp *http.Response) error {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil || json.Unmarshal(data, &payload) != nil || len(payload.Detail) == 0 {
		return &HTTPError{Status: resp.StatusCode, Message: genericServerError}
	}

	var message string
	if json.Unmarshal(payload.Detail, &message) == nil {
		return &HTTPError{Status: resp.StatusCode, Message: message}
	}

	var fields []struct {
		Msg string `json:"msg"`
	}
	if json.Unmarshal(payload.Detail, &fields) == nil {
		messages := make([]string, 0, len(fields))
		for _, f := range fields {
			if f.Msg != "" {
				messages = append(messages, f.Msg)
			}
		}
		if len(messages) > 0 {
			return &ValidationError{Status: resp.StatusCode, Messages: messages}
		}
	}

	return &HTTPError{Status: resp.StatusCode, Message: string(payload.Detail)}
}

func (c *Client) expireSession() {
	if err := c.tokens.Clear(); err != nil {
		c.log.Error().Err(err).Msg("failed to clear rejected session token")
	}
	c.log.Info().Msg("session rejected by backend, token cleared")
	if c.onSessionExpired != nil {
		c.onSessionExpired()
	}
}
