// Package fetch retrieves GFA documents over HTTP.
//
// A [Client] only issues GET requests. When an origin is configured, every
// URL must resolve to that origin: relative references are resolved against
// it, and an absolute URL with a different scheme, host or port is refused
// with CROSS_ORIGIN before any request is made. Redirects to another origin
// are refused the same way.
//
// Transient failures (network errors, 429, 5xx) are retried per the client's
// [httputil.Policy]. Every other failure is returned as a TRANSPORT coded
// error (NOT_FOUND for 404/410) wrapping [ErrNetwork] or [ErrNotFound].
// A failed or cancelled fetch returns no body; partial responses are
// discarded.
package fetch

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gfabridge/pkg/cache"
	"github.com/matzehuels/gfabridge/pkg/errors"
	"github.com/matzehuels/gfabridge/pkg/httputil"
	"github.com/matzehuels/gfabridge/pkg/observability"
)

const defaultTimeout = 30 * time.Second

var (
	// ErrNotFound is returned when the document does not exist on the server.
	ErrNotFound = stderrors.New("document not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, non-2xx responses).
	ErrNetwork = stderrors.New("network error")
)

// Options configures a Client. The zero value fetches any http(s) URL with
// default timeout and retries and no cache.
type Options struct {
	Origin     string          // scheme://host[:port]; empty disables the same-origin check
	Timeout    time.Duration   // per-request timeout
	Policy     httputil.Policy // retry policy; zero value means httputil.DefaultPolicy
	Cache      cache.Cache     // document cache; nil disables caching
	TTL        time.Duration   // cache entry lifetime
	Refresh    bool            // bypass cache reads, still write
	HTTPClient *http.Client    // overrides the built-in client
	Logger     *log.Logger
}

// Client fetches documents with a fixed origin policy.
type Client struct {
	http    *http.Client
	origin  *url.URL
	policy  httputil.Policy
	cache   cache.Cache
	ttl     time.Duration
	refresh bool
	logger  *log.Logger
}

// New validates opts and builds a Client.
func New(opts Options) (*Client, error) {
	c := &Client{
		http:    opts.HTTPClient,
		policy:  opts.Policy,
		cache:   opts.Cache,
		ttl:     opts.TTL,
		refresh: opts.Refresh,
		logger:  opts.Logger,
	}
	if c.http == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		c.http = &http.Client{Timeout: timeout}
	}
	if c.policy.Attempts == 0 {
		c.policy = httputil.DefaultPolicy()
	}
	if c.cache == nil {
		c.cache = cache.NewNullCache()
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}
	if opts.Origin != "" {
		if err := errors.ValidateURL(opts.Origin); err != nil {
			return nil, err
		}
		u, _ := url.Parse(opts.Origin)
		c.origin = &url.URL{Scheme: u.Scheme, Host: u.Host, Path: u.Path}
		c.http = c.sameOriginRedirects(c.http)
	}
	return c, nil
}

// sameOriginRedirects returns a copy of hc that refuses redirects leaving the
// configured origin. A redirect policy already set on hc still applies.
func (c *Client) sameOriginRedirects(hc *http.Client) *http.Client {
	cp := *hc
	next := hc.CheckRedirect
	cp.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if !sameOrigin(req.URL, c.origin) {
			return errors.New(errors.ErrCodeCrossOrigin, "redirect to %s leaves origin %s", req.URL.Redacted(), c.Origin())
		}
		if next != nil {
			return next(req, via)
		}
		if len(via) >= 10 {
			return stderrors.New("stopped after 10 redirects")
		}
		return nil
	}
	return &cp
}

// WithRefresh returns a copy of c that skips cache reads when refresh is
// true. Fetched documents are still written to the cache.
func (c *Client) WithRefresh(refresh bool) *Client {
	cp := *c
	cp.refresh = refresh
	return &cp
}

// Origin returns the configured origin, or "" when any origin is allowed.
func (c *Client) Origin() string {
	if c.origin == nil {
		return ""
	}
	return c.origin.Scheme + "://" + c.origin.Host
}

// Resolve turns raw into the absolute URL that would be requested, enforcing
// the same-origin policy.
func (c *Client) Resolve(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSource, err, "parse %q", raw)
	}

	if c.origin == nil {
		if err := errors.ValidateURL(raw); err != nil {
			return nil, err
		}
		return u, nil
	}

	if !u.IsAbs() {
		if u.Host != "" {
			u.Scheme = c.origin.Scheme
		} else {
			u = c.origin.ResolveReference(u)
		}
	}
	if !sameOrigin(u, c.origin) {
		return nil, errors.New(errors.ErrCodeCrossOrigin, "%s is not on origin %s", u.Redacted(), c.Origin())
	}
	return u, nil
}

// GetText fetches raw and returns the body as a string.
func (c *Client) GetText(ctx context.Context, raw string) (string, error) {
	data, err := c.Get(ctx, raw)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Get fetches raw and returns the body. Cached bodies are served without a
// request unless the client was built with Refresh.
func (c *Client) Get(ctx context.Context, raw string) ([]byte, error) {
	u, err := c.Resolve(raw)
	if err != nil {
		return nil, err
	}
	target := u.String()
	key := cache.DocumentKey(target)

	if !c.refresh {
		if data, ok, err := c.cache.Get(ctx, key); err == nil && ok {
			c.logger.Debug("cache hit", "url", target, "bytes", len(data))
			return data, nil
		}
	}

	var body []byte
	err = c.policy.Do(ctx, func(attempt int) error {
		if attempt > 0 {
			c.logger.Debug("retrying fetch", "url", target, "attempt", attempt+1)
		}
		b, err := c.do(ctx, u)
		if err != nil {
			return err
		}
		body = b
		return nil
	})
	if err != nil {
		return nil, classify(target, err)
	}

	if err := c.cache.Set(ctx, key, body, c.ttl); err != nil {
		c.logger.Warn("cache write failed", "url", target, "error", err)
	}
	return body, nil
}

func (c *Client) do(ctx context.Context, u *url.URL) ([]byte, error) {
	hooks := observability.HTTP()
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/plain, */*")
	hooks.OnRequest(ctx, req.Method, u.Host, u.Path)

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, u.Host, u.Path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, errors.ErrCodeCrossOrigin) {
			return nil, err
		}
		return nil, &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, u.Host, u.Path, resp.StatusCode, time.Since(start))

	if err := httputil.CheckStatus(resp.StatusCode); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &httputil.RetryableError{Err: fmt.Errorf("%w: read body: %v", ErrNetwork, err)}
	}
	return body, nil
}

// classify maps a final fetch error to a coded error.
func classify(target string, err error) error {
	switch {
	case errors.Is(err, errors.ErrCodeCrossOrigin):
		return errors.Wrap(errors.ErrCodeCrossOrigin, err, "fetch %s", target)
	case stderrors.Is(err, httputil.ErrNotFound):
		return errors.Wrap(errors.ErrCodeNotFound, fmt.Errorf("%w: %v", ErrNotFound, err), "fetch %s", target)
	case stderrors.Is(err, ErrNetwork):
		return errors.Wrap(errors.ErrCodeTransport, err, "fetch %s", target)
	default:
		return errors.Wrap(errors.ErrCodeTransport, fmt.Errorf("%w: %w", ErrNetwork, err), "fetch %s", target)
	}
}

func sameOrigin(a, b *url.URL) bool {
	return strings.EqualFold(a.Scheme, b.Scheme) &&
		strings.EqualFold(a.Hostname(), b.Hostname()) &&
		port(a) == port(b)
}

func port(u *url.URL) string {
	if p := u.Port(); p != "" {
		return p
	}
	switch strings.ToLower(u.Scheme) {
	case "https":
		return "443"
	case "http":
		return "80"
	}
	return ""
}
