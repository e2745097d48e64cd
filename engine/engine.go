package engine

import (
	"context"
	"time"
)

// Fixed audit fetch parameters.
const (
	DefaultTimeout   = 10 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (compatible; SEO-AnalyzerBot/1.0; +https://yourdomain.com/bot)"

	// DefaultMaxBody caps how much of a page is read into memory.
	DefaultMaxBody = 10 << 20
)

// Engine is the interface that page fetchers implement.
type Engine interface {
	// Name returns the engine identifier (e.g. "http").
	Name() string

	// Fetch performs exactly one GET for the request. Any failure, including
	// a final status >= 400, is returned as a FETCH_FAILED *models.AuditError.
	Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error)
}

// FetchRequest contains everything an engine needs to fetch a page.
type FetchRequest struct {
	URL string

	// Timeout bounds the whole request including the body read.
	// Zero means the engine default.
	Timeout time.Duration
}

// FetchResult is the output of a successful engine fetch.
type FetchResult struct {
	StatusCode  int
	Body        []byte
	ContentType string
	FinalURL    string

	// Truncated is set when the body exceeded the engine's size cap and
	// Body holds only the first part of it.
	Truncated bool

	// Elapsed is the wall-clock time from sending the request until the
	// body was fully read.
	Elapsed time.Duration

	EngineName string
}
