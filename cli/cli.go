// Package cli implements the seoaudit command line tool.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	goflags "github.com/jessevdk/go-flags"
	"github.com/use-agent/seoaudit/audit"
	"github.com/use-agent/seoaudit/config"
	"github.com/use-agent/seoaudit/engine"
	"github.com/use-agent/seoaudit/models"
	"github.com/use-agent/seoaudit/report"
)

// Options are the command line flags.
type Options struct {
	Input    string        `short:"i" long:"input" description:"File with one URL per line (default: stdin)"`
	CSV      string        `short:"o" long:"csv" default:"seo_audit_report.csv" description:"Path of the CSV report"`
	Markdown string        `long:"markdown" description:"Also write a Markdown report to this path"`
	JSON     string        `long:"json" description:"Also write a JSON report to this path"`
	LogLevel string        `long:"log-level" default:"warn" choice:"debug" choice:"info" choice:"warn" choice:"error" description:"Log level"`
	Quiet    bool          `short:"q" long:"quiet" description:"Do not print progress"`
	Version  bool          `long:"version" description:"Print the version and exit"`

	Args struct {
		URLs []string `positional-arg-name:"URL"`
	} `positional-args:"yes"`
}

// Run parses args and audits the URLs given as arguments, in the input file
// or on stdin. The table is printed to stdout; progress and failure notices
// go to stderr.
//
// Requests use the fixed timeout and user-agent and are paced by the fixed
// delay; none of these are configurable.
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	return run(ctx, args, stdin, stdout, stderr)
}

// run is Run with extra auditor options, used by tests to skip the pacing.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, auditOpts ...audit.Option) error {
	var opts Options
	parser := goflags.NewParser(&opts, goflags.HelpFlag|goflags.PassDoubleDash)
	parser.Name = "seoaudit"
	parser.Usage = "[OPTIONS] [URL...]"
	parser.LongDescription = "Audit on-page SEO signals of a list of URLs and write a CSV report."

	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *goflags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == goflags.ErrHelp {
			fmt.Fprintln(stdout, flagsErr.Message)
			return nil
		}
		return err
	}
	if opts.Version {
		fmt.Fprintf(stdout, "seoaudit %s\n", models.Version)
		return nil
	}

	slog.SetDefault(config.NewLogger(config.LogConfig{Level: opts.LogLevel, Format: "text"}, stderr))

	urls, err := readURLs(&opts, stdin)
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		return errors.New("no URLs given: pass them as arguments, with --input or on stdin")
	}

	a := audit.New(engine.NewHTTPEngine(), auditOpts...)

	fmt.Fprintf(stderr, "Crawling %d URLs. Please wait (takes 1-2 seconds per page)...\n", len(urls))
	rep, runErr := a.Run(ctx, urls, progressHooks(stderr, opts.Quiet))
	if !opts.Quiet {
		fmt.Fprintln(stderr)
	}
	if runErr != nil {
		fmt.Fprintf(stderr, "Audit interrupted: %v\n", runErr)
	} else {
		fmt.Fprintln(stderr, "Audit complete!")
	}

	if rep.Empty() {
		fmt.Fprintln(stderr, "No pages were successfully audited. Please check your URLs and try again.")
		return runErr
	}

	report.WriteTable(stdout, rep.Records)
	if err := writeReports(&opts, rep, stderr); err != nil {
		return err
	}
	return runErr
}

// readURLs collects the URL list from positional args, the input file or
// stdin, in that order of preference.
func readURLs(opts *Options, stdin io.Reader) ([]string, error) {
	if len(opts.Args.URLs) > 0 {
		return audit.CleanLines(opts.Args.URLs), nil
	}

	in := stdin
	if opts.Input != "" && opts.Input != "-" {
		f, err := os.Open(opts.Input)
		if err != nil {
			return nil, fmt.Errorf("cli: open input: %w", err)
		}
		defer f.Close()
		in = f
	}

	b, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("cli: read input: %w", err)
	}
	return audit.ParseURLList(string(b)), nil
}

func progressHooks(stderr io.Writer, quiet bool) audit.Hooks {
	return audit.Hooks{
		OnOutcome: func(o audit.Outcome) {
			if !o.OK() {
				if !quiet {
					fmt.Fprintln(stderr)
				}
				fmt.Fprintln(stderr, audit.FailureNotice(o.URL))
			}
		},
		OnProgress: func(done, total int) {
			if quiet {
				return
			}
			fmt.Fprintf(stderr, "\r[%d/%d] %3.0f%%", done, total, 100*float64(done)/float64(total))
		},
	}
}

func writeReports(opts *Options, rep *audit.Report, stderr io.Writer) error {
	outputs := []struct {
		path  string
		write func(io.Writer) error
	}{
		{opts.CSV, func(w io.Writer) error { return report.WriteCSV(w, rep.Records) }},
		{opts.Markdown, func(w io.Writer) error { return report.WriteMarkdown(w, rep.Records) }},
		{opts.JSON, func(w io.Writer) error { return report.WriteJSON(w, rep) }},
	}
	for _, out := range outputs {
		if out.path == "" {
			continue
		}
		if err := writeFile(out.path, out.write); err != nil {
			return err
		}
		fmt.Fprintf(stderr, "Report written to %s\n", out.path)
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cli: create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("cli: write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("cli: close %s: %w", path, err)
	}
	return nil
}
