// Package client talks to the proctoring backend REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/proctor/core"
)

const (
	headerAuthorization = "Authorization"
	headerContentType   = "Content-Type"
	headerRequestID     = "X-Request-ID"
	mimeJSON            = "application/json"
)

var errNoBaseURL = errors.New("client: base URL is required")

type (
	// TokenSource provides the bearer token of the current session, if any.
	TokenSource interface {
		Token() string
	}

	// TokenFunc adapts a function to TokenSource.
	TokenFunc func() string

	Option func(*Client)

	Client struct {
		baseURL   *url.URL
		http      *http.Client
		tokens    TokenSource
		logger    core.Logger
		userAgent string
	}

	// Request describes one backend call. Only one of JSON and Form may be set.
	Request struct {
		Method string
		Path   string
		Query  url.Values
		JSON   interface{}
		Form   *Multipart
		Token  string // explicit token, takes precedence over the context and the TokenSource
	}
)

func (f TokenFunc) Token() string { return f() }

// WithHTTPClient uses a copy of hc, so the caller's client is never modified.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		cp := *hc
		c.http = &cp
	}
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

func WithLogger(logger core.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithTimeout sets an explicit timeout on every request. Zero keeps the network stack default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

func New(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errNoBaseURL
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, errors.Wrap(err, "parsing base URL")
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errors.Wrap(err, "creating cookie jar")
	}

	c := &Client{
		baseURL:   u,
		http:      &http.Client{},
		userAgent: "proctor-client",
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http.Jar == nil {
		c.http.Jar = jar // session cookies go out on every call
	}
	return c, nil
}

// Do issues the request. Non-2xx answers are returned as *core.APIError,
// network failures as *core.TransportError.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &core.TransportError{Err: err}
	}
	defer httpResp.Body.Close()

	resp, err := readResponse(httpResp)
	if err != nil {
		return nil, &core.TransportError{Err: err}
	}
	c.debug(httpReq, resp.Status, time.Since(start))

	if resp.Status < 200 || resp.Status > 299 {
		return nil, resp.apiError()
	}
	return resp, nil
}

// JSON issues the request and decodes a JSON answer into out (out may be nil).
func (c *Client) JSON(ctx context.Context, req Request, out interface{}) error {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	return resp.Decode(out)
}

func (c *Client) newRequest(ctx context.Context, req Request) (*http.Request, error) {
	if req.Method == "" {
		req.Method = http.MethodGet
	}
	u := c.resolve(req.Path, req.Query)

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case req.Form != nil:
		buf, ct, err := req.Form.encode()
		if err != nil {
			return nil, errors.Wrap(err, "encoding multipart body")
		}
		body, contentType = buf, ct
	case req.JSON != nil:
		data, err := json.Marshal(req.JSON)
		if err != nil {
			return nil, errors.Wrap(err, "encoding json body")
		}
		body, contentType = bytes.NewReader(data), mimeJSON
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u, body)
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}
	httpReq.Header.Set("Accept", mimeJSON)
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set(headerRequestID, uuid.NewString())
	if contentType != "" {
		httpReq.Header.Set(headerContentType, contentType)
	}
	if token := c.token(ctx, req); token != "" {
		httpReq.Header.Set(headerAuthorization, "Bearer "+token)
	}
	return httpReq, nil
}

// resolve appends path to the base URL. path is already escaped: segments like ids
// keep their escapes on the wire.
func (c *Client) resolve(path string, query url.Values) string {
	u := *c.baseURL
	escaped := strings.TrimRight(u.EscapedPath(), "/") + "/" + strings.TrimLeft(path, "/")
	if unescaped, err := url.PathUnescape(escaped); err == nil {
		u.Path, u.RawPath = unescaped, escaped
	} else {
		u.Path, u.RawPath = escaped, ""
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) token(ctx context.Context, req Request) string {
	if req.Token != "" {
		return req.Token
	}
	if token := TokenFromContext(ctx); token != "" {
		return token
	}
	if c.tokens != nil {
		return c.tokens.Token()
	}
	return ""
}

func (c *Client) debug(req *http.Request, status int, took time.Duration) {
	if c.logger == nil {
		return
	}
	c.logger.Debug("api call", map[string]interface{}{
		"method":     req.Method,
		"path":       req.URL.Path,
		"status":     status,
		"took":       took.String(),
		"request_id": req.Header.Get(headerRequestID),
	})
}
