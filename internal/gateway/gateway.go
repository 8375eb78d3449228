package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// Sentinel errors
var (
	// ErrBaseURLRequired is returned when no base address is configured.
	ErrBaseURLRequired = errors.New("base URL is required")
)

const (
	// DefaultTimeout is the fixed per-request timeout used when the
	// configuration does not set one.
	DefaultTimeout = 10 * time.Second

	defaultContentType = "application/json"

	// Responses larger than this are truncated when captured into APIError.
	maxResponseBytes = 8 << 20
)

// CredentialSource supplies the bearer credential attached to outgoing
// requests. Only the session store and the gateway's response handling are
// permitted to mutate the underlying credential.
type CredentialSource interface {
	// AccessToken returns the current access token, or false when no
	// structurally valid credential is stored.
	AccessToken() (string, bool)

	// Clear removes the stored credential. Clearing an absent credential
	// is not an error.
	Clear() error
}

// Config holds the fixed gateway configuration. Base address, timeout and
// default content type are set at construction and never vary per call.
type Config struct {
	BaseURL     string
	Timeout     time.Duration
	ContentType string
}

// Gateway is the shared HTTP client for the RMS backend. Every request is
// dispatched through an auth transport that attaches the stored credential,
// and every 401 response clears the credential and notifies subscribers.
// The gateway performs no retries and no queueing; error presentation for
// non-auth statuses is the caller's concern.
type Gateway struct {
	base        *url.URL
	httpClient  *http.Client
	contentType string

	mu            sync.Mutex
	onInvalidated []func()
}

type options struct {
	transport http.RoundTripper
}

// Option customises gateway construction.
type Option func(*options)

// WithTransport replaces the underlying round tripper. The auth transport
// still wraps whatever is supplied here.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

// New creates a gateway bound to the given credential source.
func New(cfg Config, creds CredentialSource, opts ...Option) (*Gateway, error) {
	if cfg.BaseURL == "" {
		return nil, ErrBaseURLRequired
	}

	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	contentType := cfg.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}

	o := options{transport: http.DefaultTransport}
	for _, opt := range opts {
		opt(&o)
	}

	g := &Gateway{
		base:        base,
		contentType: contentType,
	}

	g.httpClient = &http.Client{
		Timeout: timeout,
		Transport: &authTransport{
			next:        o.transport,
			creds:       creds,
			invalidated: g.notifyInvalidated,
		},
	}

	return g, nil
}

// OnSessionInvalidated registers a callback invoked whenever any response
// reports the credential invalid. The gateway itself performs no navigation;
// the application shell decides how to react.
func (g *Gateway) OnSessionInvalidated(fn func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onInvalidated = append(g.onInvalidated, fn)
}

func (g *Gateway) notifyInvalidated() {
	g.mu.Lock()
	fns := make([]func(), len(g.onInvalidated))
	copy(fns, g.onInvalidated)
	g.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Get issues a GET request and decodes the JSON response into out.
func (g *Gateway) Get(ctx context.Context, path string, out any) error {
	return g.do(ctx, http.MethodGet, path, "", nil, out)
}

// Post sends in as JSON and decodes the response into out. Either may be nil.
func (g *Gateway) Post(ctx context.Context, path string, in, out any) error {
	return g.sendJSON(ctx, http.MethodPost, path, in, out)
}

// Put sends in as JSON and decodes the response into out.
func (g *Gateway) Put(ctx context.Context, path string, in, out any) error {
	return g.sendJSON(ctx, http.MethodPut, path, in, out)
}

// Patch sends in as JSON and decodes the response into out.
func (g *Gateway) Patch(ctx context.Context, path string, in, out any) error {
	return g.sendJSON(ctx, http.MethodPatch, path, in, out)
}

// Delete issues a DELETE request. The response body is discarded.
func (g *Gateway) Delete(ctx context.Context, path string) error {
	return g.do(ctx, http.MethodDelete, path, "", nil, nil)
}

// File is a named part of a multipart request.
type File struct {
	Field   string
	Name    string
	Content io.Reader
}

// PostForm sends a multipart/form-data request, used by the endpoints that
// accept file attachments alongside plain fields.
func (g *Gateway) PostForm(ctx context.Context, path string, fields map[string]string, files []File, out any) error {
	return g.sendForm(ctx, http.MethodPost, path, fields, files, out)
}

// PutForm is the PUT variant of PostForm.
func (g *Gateway) PutForm(ctx context.Context, path string, fields map[string]string, files []File, out any) error {
	return g.sendForm(ctx, http.MethodPut, path, fields, files, out)
}

func (g *Gateway) sendJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}
	return g.do(ctx, method, path, g.contentType, body, out)
}

func (g *Gateway) sendForm(ctx context.Context, method, path string, fields map[string]string, files []File, out any) error {
	buf := new(bytes.Buffer)
	w := multipart.NewWriter(buf)

	for field, value := range fields {
		if err := w.WriteField(field, value); err != nil {
			return fmt.Errorf("write form field %q: %w", field, err)
		}
	}

	for _, f := range files {
		part, err := w.CreateFormFile(f.Field, f.Name)
		if err != nil {
			return fmt.Errorf("create form file %q: %w", f.Field, err)
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return fmt.Errorf("copy form file %q: %w", f.Field, err)
		}
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize form: %w", err)
	}

	return g.do(ctx, method, path, w.FormDataContentType(), buf, out)
}

func (g *Gateway) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	ref, err := url.Parse(path)
	if err != nil {
		return fmt.Errorf("invalid request path %q: %w", path, err)
	}
	target := g.base.ResolveReference(ref).String()

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%s %s: read response: %w", method, path, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &APIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       data,
			RequestID:  resp.Request.Header.Get(HeaderRequestID),
		}
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("%s %s: decode response: %w", method, path, err)
		}
	}

	return nil
}
