package audit

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/use-agent/seoaudit/engine"
	"github.com/use-agent/seoaudit/extractor"
	"github.com/use-agent/seoaudit/models"
)

// DefaultDelay is the pause after every processed URL.
const DefaultDelay = 1 * time.Second

// ExtractFunc derives a record from a fetched page. extractor.Extract is the
// production implementation.
type ExtractFunc func(pageURL string, body []byte, contentType string) (*models.AuditRecord, error)

// SleepFunc pauses for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Hooks receive side-channel notifications during a run. Nil hooks are
// skipped. They are called from the goroutine running the audit.
type Hooks struct {
	// OnProgress is called after every processed URL with the 1-based input
	// position and the input length.
	OnProgress func(done, total int)

	// OnOutcome receives the typed result of every processed URL.
	OnOutcome func(Outcome)
}

// Auditor runs the sequential fetch → extract pipeline over a URL list.
// An Auditor holds no per-run state and may be shared by concurrent runs.
type Auditor struct {
	engine  engine.Engine
	extract ExtractFunc
	delay   time.Duration
	sleep   SleepFunc
}

// Option customises an Auditor.
type Option func(*Auditor)

// WithDelay overrides DefaultDelay. Negative values are ignored.
func WithDelay(d time.Duration) Option {
	return func(a *Auditor) {
		if d >= 0 {
			a.delay = d
		}
	}
}

// WithExtractor replaces extractor.Extract.
func WithExtractor(fn ExtractFunc) Option {
	return func(a *Auditor) {
		if fn != nil {
			a.extract = fn
		}
	}
}

// WithSleep replaces the context-aware time.Sleep used for pacing.
func WithSleep(fn SleepFunc) Option {
	return func(a *Auditor) {
		if fn != nil {
			a.sleep = fn
		}
	}
}

// New creates an Auditor fetching through eng.
func New(eng engine.Engine, opts ...Option) *Auditor {
	a := &Auditor{
		engine:  eng,
		extract: extractor.Extract,
		delay:   DefaultDelay,
		sleep:   sleepContext,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run audits urls in order, one at a time.
//
// urls is expected to be trimmed with blanks removed (see CleanLines). A URL
// seen earlier in the same run is skipped silently. Individual failures never
// stop the run; every failed URL yields one entry in Report.Failures and no
// record. The only early exit is ctx being cancelled, in which case the
// partial report is returned together with ctx.Err().
func (a *Auditor) Run(ctx context.Context, urls []string, hooks Hooks) (*Report, error) {
	start := time.Now()
	total := len(urls)
	report := &Report{
		Records:  []models.AuditRecord{},
		Failures: []models.Failure{},
		Total:    total,
	}
	visited := make(map[string]struct{}, total)

	for i, u := range urls {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if _, ok := visited[u]; ok {
			report.Skipped++
			continue
		}
		visited[u] = struct{}{}

		o := a.AuditOne(ctx, u)
		o.Position = i + 1
		report.add(o)

		if !o.OK() {
			slog.Warn("audit: url failed", "url", u, "error", o.Err)
		}
		if hooks.OnOutcome != nil {
			hooks.OnOutcome(o)
		}
		if hooks.OnProgress != nil {
			hooks.OnProgress(i+1, total)
		}

		if err := a.sleep(ctx, a.delay); err != nil {
			return report, err
		}
	}

	slog.Info("audit finished",
		"total", total,
		"processed", report.Processed,
		"skipped", report.Skipped,
		"records", len(report.Records),
		"failed", len(report.Failures),
		"duration", time.Since(start).Round(time.Millisecond).String(),
	)
	return report, nil
}

// AuditOne fetches and extracts a single URL. It performs exactly one
// request and does not pause.
func (a *Auditor) AuditOne(ctx context.Context, u string) Outcome {
	res, err := a.engine.Fetch(ctx, &engine.FetchRequest{URL: u})
	if err != nil {
		return Outcome{URL: u, Err: classify(err, models.ErrCodeFetch, "fetch failed")}
	}

	rec, err := a.extract(u, res.Body, res.ContentType)
	if err != nil {
		return Outcome{URL: u, Err: classify(err, models.ErrCodeExtraction, "extraction failed")}
	}
	if rec == nil {
		return Outcome{URL: u, Err: models.NewAuditError(models.ErrCodeExtraction, "no data extracted", nil)}
	}

	rec.URL = u
	rec.StatusCode = res.StatusCode
	rec.PageLoadTimeSeconds = roundSeconds(res.Elapsed)
	return Outcome{URL: u, Record: rec}
}

// classify keeps an *models.AuditError as is and tags anything else with code.
func classify(err error, code, message string) error {
	var ae *models.AuditError
	if errors.As(err, &ae) {
		return err
	}
	return models.NewAuditError(code, message, err)
}

func roundSeconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*100) / 100
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
