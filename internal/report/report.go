// Package report runs the archive -> rows -> tables pipeline for one variant.
package report

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/alertdash/alertdash-server/internal/aggregate"
	"github.com/alertdash/alertdash-server/internal/archive"
	"github.com/alertdash/alertdash-server/internal/domain"
	"github.com/alertdash/alertdash-server/internal/flatten"
	"github.com/alertdash/alertdash-server/internal/id"
	"github.com/alertdash/alertdash-server/internal/validation"
)

// Options selects what one pass renders.
type Options struct {
	Variant  string   `json:"variant" validate:"required,variant"`
	Subtypes []string `json:"subtypes,omitempty" validate:"max=200,dive,max=256"`
}

// Report is the output of one pipeline pass.
type Report struct {
	RunID        string         `json:"run_id"`
	ExtractionID string         `json:"extraction_id"`
	Profile      domain.Profile `json:"profile"`
	GeneratedAt  time.Time      `json:"generated_at"`

	Files   []string `json:"files"`
	Skipped []string `json:"skipped,omitempty"`

	// Rows are the flattened rows after subtype filtering. Empty for per-file summaries.
	Rows      []domain.Row         `json:"rows"`
	RowCount  int                  `json:"row_count"`
	Summaries []domain.FileSummary `json:"summaries,omitempty"`

	// Subtypes lists every observed subtype before filtering; Selected is the active filter.
	Subtypes []string `json:"subtypes"`
	Selected []string `json:"selected"`

	Primary     aggregate.Table        `json:"primary"`
	Heatmap     *aggregate.Table       `json:"heatmap,omitempty"`
	BotMessages []aggregate.BotMessage `json:"bot_messages,omitempty"`
	BotTexts    *aggregate.Table       `json:"bot_texts,omitempty"`
	Activity    *aggregate.Table       `json:"activity,omitempty"`
}

// Service serialises access to the extraction directory and builds reports from it.
type Service struct {
	mu             sync.RWMutex
	loader         *archive.Loader
	flattener      *flatten.Flattener
	validator      *validation.Validator
	logger         *slog.Logger
	defaultVariant domain.Variant
}

// NewService creates a report service.
func NewService(loader *archive.Loader, flattener *flatten.Flattener, v *validation.Validator, defaultVariant domain.Variant, logger *slog.Logger) *Service {
	if defaultVariant == "" {
		defaultVariant = domain.DefaultVariant
	}
	return &Service{
		loader:         loader,
		flattener:      flattener,
		validator:      v,
		logger:         logger,
		defaultVariant: defaultVariant,
	}
}

// DefaultVariant returns the variant used when a request names none.
func (s *Service) DefaultVariant() domain.Variant {
	return s.defaultVariant
}

// Load replaces the current extraction with the archive read from r.
func (s *Service) Load(ctx context.Context, r io.ReaderAt, size int64) (*archive.Extraction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loader.Extract(ctx, r, size)
}

// Current returns the active extraction.
func (s *Service) Current() (*archive.Extraction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.loader.Current()
}

// Build re-reads the current extraction and aggregates it for opts.
func (s *Service) Build(ctx context.Context, opts Options) (*Report, error) {
	if opts.Variant == "" {
		opts.Variant = string(s.defaultVariant)
	}
	if err := s.validator.Validate(opts); err != nil {
		return nil, err
	}
	profile, _ := domain.LookupProfile(opts.Variant)

	s.mu.RLock()
	defer s.mu.RUnlock()

	ext, err := s.loader.Current()
	if err != nil {
		return nil, err
	}

	runID := id.NewRun()
	log := s.logger.With("run_id", runID, "variant", profile.Variant, "extraction_id", ext.ID)
	start := time.Now()

	files, skipped, err := ext.DayFiles(profile.DateKeyed)
	if err != nil {
		return nil, err
	}
	for _, name := range skipped {
		log.Debug("skipping day file without a date name", "file", name)
	}

	rep := &Report{
		RunID:        runID,
		ExtractionID: ext.ID,
		Profile:      profile,
		GeneratedAt:  time.Now().UTC(),
		Files:        make([]string, 0, len(files)),
		Skipped:      skipped,
		Rows:         []domain.Row{},
		Subtypes:     []string{},
		Selected:     opts.Subtypes,
	}
	if rep.Selected == nil {
		rep.Selected = []string{}
	}
	for _, df := range files {
		rep.Files = append(rep.Files, df.Name)
	}

	if profile.PerFileSummary {
		err = s.summarise(ctx, rep, files)
	} else {
		err = s.flattenRows(ctx, rep, files, opts.Subtypes)
	}
	if err != nil {
		log.Warn("report failed", "error", err)
		return nil, err
	}

	log.Info("report built",
		"files", len(rep.Files),
		"skipped", len(rep.Skipped),
		"rows", rep.RowCount,
		"duration", time.Since(start))

	return rep, nil
}

func (s *Service) summarise(ctx context.Context, rep *Report, files []archive.DayFile) error {
	rep.Summaries = make([]domain.FileSummary, 0, len(files))
	for _, df := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		sum, err := s.flattener.Summary(df)
		if err != nil {
			return err
		}
		rep.Summaries = append(rep.Summaries, sum)
	}
	rep.RowCount = len(rep.Summaries)
	rep.Primary = aggregate.FromSummaries(rep.Summaries)
	return nil
}

func (s *Service) flattenRows(ctx context.Context, rep *Report, files []archive.DayFile, selected []string) error {
	p := rep.Profile

	all := make([]domain.Row, 0)
	for _, df := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		rows, err := s.flattener.File(df, p)
		if err != nil {
			return err
		}
		all = append(all, rows...)
	}

	rep.Subtypes = aggregate.Subtypes(all)
	rows := aggregate.Filter(all, selected)
	rep.Rows = rows
	rep.RowCount = len(rows)

	rep.Primary = aggregate.CountBy(rows, p.Primary)
	if p.HasHeatmap() {
		t := aggregate.Count2(rows, p.HeatmapX, p.HeatmapY)
		rep.Heatmap = &t
	}

	if p.BotTexts || p.BotActivity {
		bots := aggregate.Bots(rows)
		if p.BotTexts {
			t := aggregate.CountBy(bots, domain.FieldText)
			rep.BotTexts = &t
		}
		if p.BotActivity {
			rep.BotMessages = aggregate.BotMessages(bots)
			t := aggregate.Activity(bots)
			rep.Activity = &t
		}
	}
	return nil
}
