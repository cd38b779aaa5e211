// Command alertreport runs the dashboard pipeline on a local export archive and
// prints the resulting tables.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/alertdash/alertdash-server/internal/archive"
	"github.com/alertdash/alertdash-server/internal/domain"
	apperrors "github.com/alertdash/alertdash-server/internal/errors"
	"github.com/alertdash/alertdash-server/internal/flatten"
	"github.com/alertdash/alertdash-server/internal/logger"
	"github.com/alertdash/alertdash-server/internal/report"
	"github.com/alertdash/alertdash-server/internal/validation"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "alertreport: %v\n", err)
			var domainErr *apperrors.Error
			if apperrors.As(err, &domainErr) && domainErr.Details != nil {
				fmt.Fprintf(os.Stderr, "  %s: %v\n", domainErr.Code, domainErr.Details)
			}
		}
		os.Exit(1)
	}
}

type options struct {
	variant   string
	subtypes  string
	timezone  string
	workDir   string
	alertsDir string
	rows      int
	asJSON    bool
	verbose   bool
	timeout   time.Duration
	archive   string
}

func parseArgs(args []string, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("alertreport", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: alertreport [flags] <archive.zip>")
		fs.PrintDefaults()
	}

	var o options
	fs.StringVar(&o.variant, "variant", string(domain.DefaultVariant), "Dashboard variant")
	fs.StringVar(&o.subtypes, "subtype", "", "Comma-separated subtype filter")
	fs.StringVar(&o.timezone, "timezone", "Local", "Timezone for derived dates and times")
	fs.StringVar(&o.workDir, "work-dir", "", "Extraction directory (default: a temporary directory)")
	fs.StringVar(&o.alertsDir, "alerts-dir", "alerts", "Name of the alerts directory inside the archive")
	fs.IntVar(&o.rows, "rows", 20, "Raw rows to print (0 for none)")
	fs.BoolVar(&o.asJSON, "json", false, "Print the full report as JSON")
	fs.BoolVar(&o.verbose, "v", false, "Log pipeline progress to stderr")
	fs.DurationVar(&o.timeout, "timeout", 5*time.Minute, "Overall timeout")

	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return o, errors.New("exactly one archive path is required")
	}
	o.archive = fs.Arg(0)
	return o, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		return err
	}

	loc, err := time.LoadLocation(opts.timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", opts.timezone, err)
	}

	log := logger.Discard()
	if opts.verbose {
		log = logger.New(logger.Config{Writer: stderr, Level: slog.LevelDebug, Environment: "development"})
	}

	workDir := opts.workDir
	if workDir == "" {
		tmp, err := os.MkdirTemp("", "alertreport-*")
		if err != nil {
			return fmt.Errorf("create work dir: %w", err)
		}
		defer os.RemoveAll(tmp)
		workDir = tmp
	}

	ctx, cancel := context.WithTimeout(ctx, opts.timeout)
	defer cancel()

	f, err := os.Open(opts.archive)
	if err != nil {
		return err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return err
	}

	svc := report.NewService(
		archive.NewLoader(workDir, opts.alertsDir, log),
		flatten.New(loc),
		validation.New(),
		domain.Variant(opts.variant),
		log,
	)

	if _, err := svc.Load(ctx, f, info.Size()); err != nil {
		return err
	}

	var subtypes []string
	for _, st := range strings.Split(opts.subtypes, ",") {
		if st = strings.TrimSpace(st); st != "" {
			subtypes = append(subtypes, st)
		}
	}

	rep, err := svc.Build(ctx, report.Options{Variant: opts.variant, Subtypes: subtypes})
	if err != nil {
		return err
	}

	if opts.asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
	return printReport(stdout, rep, opts.rows)
}
