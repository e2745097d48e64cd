package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	tls "github.com/refraction-networking/utls"
	"github.com/use-agent/seoaudit/models"
)

// HTTPEngine fetches pages with plain net/http and a fixed bot user-agent.
// It never retries and keeps no cookies between requests.
type HTTPEngine struct {
	client    *http.Client
	userAgent string
	timeout   time.Duration
	maxBody   int64
}

// Option customises an HTTPEngine.
type Option func(*HTTPEngine)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(e *HTTPEngine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithMaxBody overrides DefaultMaxBody.
func WithMaxBody(n int64) Option {
	return func(e *HTTPEngine) {
		if n > 0 {
			e.maxBody = n
		}
	}
}

// WithUserAgent overrides DefaultUserAgent.
func WithUserAgent(ua string) Option {
	return func(e *HTTPEngine) {
		if ua != "" {
			e.userAgent = ua
		}
	}
}

// WithHTTPClient replaces the utls-backed client, mostly for tests.
func WithHTTPClient(c *http.Client) Option {
	return func(e *HTTPEngine) {
		if c != nil {
			e.client = c
		}
	}
}

// chromeH1Spec is a Chrome-like TLS ClientHello with ALPN forced to http/1.1
// only. Computed once at init time and reused for every connection.
var chromeH1Spec tls.ClientHelloSpec

func init() {
	spec, err := tls.UTLSIdToSpec(tls.HelloChrome_Auto)
	if err != nil {
		return
	}
	// Go's http.Transport cannot speak h2 over a utls connection.
	for i, ext := range spec.Extensions {
		if alpn, ok := ext.(*tls.ALPNExtension); ok {
			alpn.AlpnProtocols = []string{"http/1.1"}
			spec.Extensions[i] = alpn
			break
		}
	}
	chromeH1Spec = spec
}

// NewHTTPEngine creates an HTTPEngine whose HTTPS connections use a
// Chrome-like TLS fingerprint with ALPN locked to http/1.1.
func NewHTTPEngine(opts ...Option) *HTTPEngine {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		DialTLSContext:    dialTLSChrome,
		ForceAttemptHTTP2: false,
		MaxIdleConns:      20,
		IdleConnTimeout:   30 * time.Second,
	}
	e := &HTTPEngine{
		client: &http.Client{
			Transport:     transport,
			CheckRedirect: limitRedirects,
		},
		userAgent: DefaultUserAgent,
		timeout:   DefaultTimeout,
		maxBody:   DefaultMaxBody,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func limitRedirects(req *http.Request, via []*http.Request) error {
	if len(via) >= 10 {
		return errors.New("too many redirects")
	}
	return nil
}

func dialTLSChrome(ctx context.Context, network, addr string) (net.Conn, error) {
	dialer := &net.Dialer{Timeout: 10 * time.Second}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}
	host, _, _ := net.SplitHostPort(addr)
	tlsConn := tls.UClient(conn, &tls.Config{ServerName: host}, tls.HelloCustom)
	if err := tlsConn.ApplyPreset(&chromeH1Spec); err != nil {
		conn.Close()
		return nil, fmt.Errorf("engine: apply tls spec: %w", err)
	}
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return tlsConn, nil
}

func (e *HTTPEngine) Name() string { return "http" }

func (e *HTTPEngine) Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error) {
	timeout := e.timeout
	if req.Timeout > 0 {
		timeout = req.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return nil, fetchError("invalid request", fmt.Errorf("engine: build request: %w", err))
	}
	httpReq.Header.Set("User-Agent", e.userAgent)

	start := time.Now()
	resp, err := e.client.Do(httpReq)
	if err != nil {
		return nil, fetchError("request failed", fmt.Errorf("engine: do request: %w", err))
	}
	defer resp.Body.Close()

	// One byte past the cap tells a truncated body from one that fits exactly.
	body, err := io.ReadAll(io.LimitReader(resp.Body, e.maxBody+1))
	elapsed := time.Since(start)
	if err != nil {
		return nil, fetchError("reading body failed", fmt.Errorf("engine: read body: %w", err))
	}
	truncated := int64(len(body)) > e.maxBody
	if truncated {
		body = body[:e.maxBody]
		slog.Warn("engine: body truncated at size limit",
			"url", req.URL,
			"limit_bytes", e.maxBody,
		)
	}

	if resp.StatusCode >= 400 {
		return nil, fetchError(
			fmt.Sprintf("HTTP %d", resp.StatusCode),
			fmt.Errorf("engine: HTTP %d for %s", resp.StatusCode, req.URL),
		)
	}

	return &FetchResult{
		StatusCode:  resp.StatusCode,
		Body:        body,
		Truncated:   truncated,
		ContentType: resp.Header.Get("Content-Type"),
		FinalURL:    resp.Request.URL.String(),
		Elapsed:     elapsed,
		EngineName:  e.Name(),
	}, nil
}

func fetchError(message string, err error) *models.AuditError {
	return models.NewAuditError(models.ErrCodeFetch, message, err)
}
