package gridbase

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Headers attached by the fetcher to outgoing requests.
const (
	headerClientID  = "X-Client-Id"
	headerClientKey = "X-Client-Key"
	headerSignature = "X-Client-Signature"
	headerSession   = "X-Session-Token"
	headerRequestID = "X-Request-Id"
)

// ResolveType declares how the fetcher parses an HTTP response body. It is
// set explicitly per call rather than inferred from the content type, so
// caller expectations stay unambiguous: a download stays raw bytes even
// when the server mislabels it as JSON.
type ResolveType int

const (
	// ResolveJSON decodes the body as JSON into the provided destination.
	ResolveJSON ResolveType = iota
	// ResolveBinary returns the raw body bytes; destination must be *[]byte.
	ResolveBinary
	// ResolveText returns the body as a string; destination must be *string.
	ResolveText
	// ResolveNone discards the body.
	ResolveNone
)

// String returns the string representation of the resolve type.
func (rt ResolveType) String() string {
	switch rt {
	case ResolveJSON:
		return "json"
	case ResolveBinary:
		return "binary"
	case ResolveText:
		return "text"
	case ResolveNone:
		return "none"
	default:
		return "unknown"
	}
}

// requestOptions are the per-call knobs a manager passes to the fetcher.
type requestOptions struct {
	// body is JSON-serialized when non-nil.
	body interface{}
	// query is appended to the request URL.
	query url.Values
	// headers are per-call headers merged over the defaults.
	headers map[string]string
	// resolve declares how the response body is parsed.
	resolve ResolveType
}

// ProgressFunc is invoked during uploads with the number of bytes sent so
// far and the total size. It is a side-channel notification; errors in the
// callback cannot affect the call.
type ProgressFunc func(sent, total int64)

// fetcher is the shared request dispatcher. It builds and sends every HTTP
// request for all managers, merges default headers with the current session
// token, resolves response bodies per the declared resolve type and
// normalizes failures into *ErrorList values. A single fetcher is shared by
// all managers of a client so session state stays consistent, and it is
// safe for concurrent use.
type fetcher struct {
	client     *http.Client
	baseURL    *url.URL
	clientKey  string
	apiKey     string
	signingKey string
	storage    LocalStorage
	logger     zerolog.Logger
	closed     atomic.Bool

	// mu guards session and headers. Requests snapshot both under RLock so
	// a concurrent sign-in or sign-out never produces a torn header set.
	mu      sync.RWMutex
	session *Session
	headers map[string]string
}

// newFetcher builds the dispatcher from a validated configuration.
func newFetcher(cfg *Config) (*fetcher, error) {
	baseURL, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: base URL is not a valid URL: %v", ErrInvalidConfig, err)
	}

	transport := &http.Transport{
		MaxIdleConns:        cfg.TransportConfig.MaxIdleConns,
		MaxConnsPerHost:     cfg.TransportConfig.MaxConnsPerHost,
		IdleConnTimeout:     cfg.TransportConfig.IdleConnTimeout,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	headers := make(map[string]string, len(cfg.Headers))
	for k, v := range cfg.Headers {
		headers[k] = v
	}

	return &fetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		baseURL:    baseURL,
		clientKey:  cfg.ClientKey,
		apiKey:     cfg.APIKey,
		signingKey: cfg.SigningKey,
		storage:    cfg.LocalStorage,
		logger:     cfg.Logger,
		headers:    headers,
	}, nil
}

// SetSession installs the session so subsequent requests carry its token.
// When a storage adapter is configured the session is persisted through it.
func (f *fetcher) SetSession(s *Session) {
	f.mu.Lock()
	f.session = s
	f.mu.Unlock()

	if f.storage != nil && s != nil {
		if encoded, err := encodeSession(s); err == nil {
			f.storage.SetItem(sessionStorageKey, encoded)
		}
	}
}

// ClearSession removes the active session and any persisted copy.
func (f *fetcher) ClearSession() {
	f.mu.Lock()
	f.session = nil
	f.mu.Unlock()

	if f.storage != nil {
		f.storage.RemoveItem(sessionStorageKey)
	}
}

// Session returns a copy of the active session, or nil.
func (f *fetcher) Session() *Session {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.session == nil {
		return nil
	}
	s := *f.session
	return &s
}

// Send issues one HTTP request and resolves the response into out according
// to the declared resolve type. All expected failure modes (non-2xx,
// network failure, decode failure) are returned as *ErrorList values.
func (f *fetcher) Send(ctx context.Context, method, path string, opts *requestOptions, out interface{}) error {
	if f.closed.Load() {
		return ErrClientClosed
	}
	if opts == nil {
		opts = &requestOptions{}
	}

	var bodyReader io.Reader
	if opts.body != nil {
		data, err := json.Marshal(opts.body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := f.newRequest(ctx, method, path, opts, bodyReader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return f.execute(req, opts.resolve, out)
}

// Upload issues a raw-bytes upload of size bytes read from body. The file
// name is carried in the query so the payload stays untouched. onProgress,
// when non-nil, is invoked as bytes are consumed by the transport.
func (f *fetcher) Upload(ctx context.Context, path string, body io.Reader, size int64, fileName, contentType string, opts *requestOptions, onProgress ProgressFunc, out interface{}) error {
	if f.closed.Load() {
		return ErrClientClosed
	}
	if opts == nil {
		opts = &requestOptions{}
	}
	if opts.query == nil {
		opts.query = url.Values{}
	}
	opts.query.Set("fileName", fileName)

	reader := body
	if onProgress != nil {
		reader = &progressReader{reader: body, total: size, onProgress: onProgress}
	}

	req, err := f.newRequest(ctx, http.MethodPost, path, opts, reader)
	if err != nil {
		return err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = size

	return f.execute(req, opts.resolve, out)
}

// newRequest builds the outgoing request with merged headers and the
// current session token. The header snapshot is taken under RLock.
func (f *fetcher) newRequest(ctx context.Context, method, path string, opts *requestOptions, body io.Reader) (*http.Request, error) {
	u := *f.baseURL
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	if len(opts.query) > 0 {
		u.RawQuery = opts.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set(headerClientID, userAgent)
	req.Header.Set(headerClientKey, f.clientKey)
	req.Header.Set(headerRequestID, uuid.NewString())
	if f.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.apiKey)
	}
	if f.signingKey != "" {
		req.Header.Set(headerSignature, f.sign(method, path))
	}

	f.mu.RLock()
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}
	if f.session != nil {
		req.Header.Set(headerSession, f.session.Token)
	}
	f.mu.RUnlock()

	for k, v := range opts.headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

// sign computes the request signature from the configured signing key.
func (f *fetcher) sign(method, path string) string {
	mac := hmac.New(sha256.New, []byte(f.signingKey))
	mac.Write([]byte(method + " " + path))
	return hex.EncodeToString(mac.Sum(nil))
}

// execute sends the request and resolves the response.
func (f *fetcher) execute(req *http.Request, resolve ResolveType, out interface{}) error {
	start := time.Now()
	requestID := req.Header.Get(headerRequestID)

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Debug().
			Str("method", req.Method).
			Str("path", req.URL.Path).
			Dur("duration", time.Since(start)).
			Err(err).
			Msg("request failed")
		return classifyTransportError(req, err)
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return newTransportError(codeNetworkError, fmt.Sprintf("failed to read response body: %v", err), err)
	}

	f.logger.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("request completed")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		list := parseErrorBody(resp.StatusCode, body)
		list.RequestID = requestID
		return list
	}

	switch resolve {
	case ResolveNone:
		return nil
	case ResolveBinary:
		dest, ok := out.(*[]byte)
		if !ok {
			return fmt.Errorf("binary resolve requires a *[]byte destination, got %T", out)
		}
		*dest = body
		return nil
	case ResolveText:
		dest, ok := out.(*string)
		if !ok {
			return fmt.Errorf("text resolve requires a *string destination, got %T", out)
		}
		*dest = string(body)
		return nil
	default:
		if out == nil || len(body) == 0 {
			return nil
		}
		if err := json.Unmarshal(body, out); err != nil {
			decodeErr := newDecodeError(resp.StatusCode, err)
			decodeErr.RequestID = requestID
			return decodeErr
		}
		return nil
	}
}

// get performs a GET request with JSON resolve.
func (f *fetcher) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return f.Send(ctx, http.MethodGet, path, &requestOptions{query: query, resolve: ResolveJSON}, out)
}

// post performs a POST request with JSON resolve.
func (f *fetcher) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	return f.Send(ctx, http.MethodPost, path, &requestOptions{body: body, resolve: ResolveJSON}, out)
}

// postDiscard performs a POST request and discards any response payload.
func (f *fetcher) postDiscard(ctx context.Context, path string, body interface{}) error {
	return f.Send(ctx, http.MethodPost, path, &requestOptions{body: body, resolve: ResolveNone}, nil)
}

// close marks the dispatcher closed and releases idle transport
// connections. Subsequent Send and Upload calls fail with ErrClientClosed.
func (f *fetcher) close() {
	f.closed.Store(true)
	f.client.CloseIdleConnections()
}

// classifyTransportError converts a client.Do failure into the synthetic
// error list shape, distinguishing timeouts and cancellations from other
// network failures.
func classifyTransportError(req *http.Request, err error) *ErrorList {
	op := req.Method + " " + req.URL.Path

	if errors.Is(err, context.Canceled) {
		return newTransportError(codeRequestCanceled, fmt.Sprintf("request canceled during %s", op), err)
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return newTransportError(codeTimeout, fmt.Sprintf("timeout during %s", op), err)
	}
	return newTransportError(codeNetworkError, fmt.Sprintf("network error during %s: %v", op, err), err)
}

// progressReader counts bytes as the transport consumes the upload body and
// reports them through the caller's callback.
type progressReader struct {
	reader     io.Reader
	total      int64
	sent       int64
	onProgress ProgressFunc
}

func (r *progressReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	if n > 0 {
		r.sent += int64(n)
		r.onProgress(r.sent, r.total)
	}
	return n, err
}
