// SPDX-License-Identifier: MIT

package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Figoh-cpu/code/internal/categorize"
	"github.com/Figoh-cpu/code/internal/channels"
	"github.com/Figoh-cpu/code/internal/config"
	"github.com/Figoh-cpu/code/internal/directory"
	"github.com/Figoh-cpu/code/internal/liveness"
	xglog "github.com/Figoh-cpu/code/internal/log"
	"github.com/Figoh-cpu/code/internal/metrics"
	"github.com/Figoh-cpu/code/internal/normalize"
	"github.com/Figoh-cpu/code/internal/playlist"
	"github.com/Figoh-cpu/code/internal/probe"
	"github.com/Figoh-cpu/code/internal/source"
	"github.com/Figoh-cpu/code/internal/tables"
	"github.com/Figoh-cpu/code/internal/telemetry"
)

// Stage names used in logs, metrics and spans.
const (
	StagePreflight  = "preflight"
	StageFetch      = "fetch"
	StageParse      = "parse"
	StageValidate   = "validate"
	StageFlatten    = "flatten"
	StageCategorize = "categorize"
	StageEmit       = "emit"
)

// Fetcher retrieves the source document.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// AvailabilityFunc checks that the prober binary can run and returns its path.
type AvailabilityFunc func(ctx context.Context, bin string) (string, error)

// Deps are the collaborators of a run. Zero fields are filled from config.
type Deps struct {
	Fetcher        Fetcher
	Prober         probe.Prober
	CheckAvailable AvailabilityFunc
	Tables         *tables.Set
	Now            func() time.Time
}

// Pipeline runs the directory transformation for one configuration.
type Pipeline struct {
	cfg  config.AppConfig
	deps Deps
}

// New builds a Pipeline. It loads the lookup tables unless deps provides them.
func New(cfg config.AppConfig, deps Deps) (*Pipeline, error) {
	if deps.Fetcher == nil {
		deps.Fetcher = source.NewFetcher(cfg.FetchTimeout)
	}
	if deps.Prober == nil {
		deps.Prober = probe.NewFFprobe(cfg.FFprobeBin, cfg.ProbeTimeout, cfg.ProbeMargin)
	}
	if deps.CheckAvailable == nil {
		deps.CheckAvailable = probe.CheckAvailable
	}
	if deps.Tables == nil {
		set, err := tables.Load(cfg.TablesFile)
		if err != nil {
			return nil, fmt.Errorf("load tables: %w", err)
		}
		deps.Tables = set
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Pipeline{cfg: cfg, deps: deps}, nil
}

// Preflight verifies the prober is usable. A failure wraps probe.ErrUnavailable.
func (p *Pipeline) Preflight(ctx context.Context) (string, error) {
	return p.deps.CheckAvailable(ctx, p.cfg.FFprobeBin)
}

// Run executes one complete run. Fatal errors are returned as *StageError.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	runID := uuid.NewString()
	ctx = xglog.ContextWithRunID(ctx, runID)
	logger := xglog.WithComponentFromContext(ctx, "pipeline")

	tracer := telemetry.Tracer(telemetry.TracerName)
	ctx, span := tracer.Start(ctx, "livesort.run",
		trace.WithAttributes(telemetry.RunAttributes(runID, p.cfg.SourceURL)...))
	defer span.End()

	rep := &Report{
		RunID:     runID,
		SourceURL: p.cfg.SourceURL,
		Tables:    p.deps.Tables.Source,
		Started:   p.deps.Now(),
	}
	logger.Info().
		Str(xglog.FieldEvent, "run.start").
		Str(xglog.FieldSourceURL, p.cfg.SourceURL).
		Str("tables", rep.Tables).
		Int("workers", p.cfg.Workers).
		Msg("starting run")

	if err := p.run(ctx, rep, &logger); err != nil {
		stage := FailedStage(err)
		metrics.IncRunFailure(stage)
		telemetry.RecordError(span, err, stage)
		logger.Error().
			Err(err).
			Str(xglog.FieldEvent, "run.failed").
			Str(xglog.FieldStage, stage).
			Msg("run failed")
		return nil, err
	}

	rep.Duration = p.deps.Now().Sub(rep.Started)
	metrics.RecordRunSuccess(rep.Duration, p.deps.Now())
	logger.Info().
		Str(xglog.FieldEvent, "run.success").
		Int("groups", rep.Groups).
		Int("live_groups", rep.LiveGroups).
		Int("channels", rep.Channels).
		Int("duplicates", rep.Duplicates).
		Int("categories", len(rep.Categories)).
		Dur("duration", rep.Duration).
		Msg("run completed")
	return rep, nil
}

func (p *Pipeline) run(ctx context.Context, rep *Report, logger *zerolog.Logger) error {
	err := p.stage(ctx, StagePreflight, func(ctx context.Context, span trace.Span) error {
		path, err := p.Preflight(ctx)
		if err != nil {
			return err
		}
		span.SetAttributes(attribute.String("probe.binary", path))
		logger.Debug().Str(xglog.FieldEvent, "preflight.ok").Str(xglog.FieldBinary, path).Msg("prober available")
		return nil
	})
	if err != nil {
		return err
	}

	var text string
	err = p.stage(ctx, StageFetch, func(ctx context.Context, _ trace.Span) error {
		var err error
		text, err = p.deps.Fetcher.Fetch(ctx, p.cfg.SourceURL)
		return err
	})
	if err != nil {
		return err
	}

	var dir directory.Directory
	err = p.stage(ctx, StageParse, func(_ context.Context, span trace.Span) error {
		dir = directory.Parse(text, p.parseOptions())
		st := dir.Stats
		span.SetAttributes(telemetry.DirectoryAttributes(dir.Format, st.Lines, len(dir.Groups), st.Channels, st.Malformed)...)
		metrics.RecordDirectory(st.Headers, st.Channels, st.Malformed, st.Skipped)
		logger.Info().
			Str(xglog.FieldEvent, "parse.done").
			Str("format", dir.Format).
			Int("lines", st.Lines).
			Int("groups", len(dir.Groups)).
			Int("channels", st.Channels).
			Int("malformed", st.Malformed).
			Int("skipped", st.Skipped).
			Msg("directory parsed")
		if dir.ChannelCount() == 0 {
			return ErrNoChannels
		}
		return nil
	})
	rep.Format = dir.Format
	rep.Directory = dir.Stats
	rep.Groups = len(dir.Groups)
	if err != nil {
		return err
	}

	var results []liveness.Result
	err = p.stage(ctx, StageValidate, func(ctx context.Context, span trace.Span) error {
		v := liveness.New(p.deps.Prober, liveness.Options{Workers: p.cfg.Workers, Rate: p.cfg.ProbeRate})
		var err error
		results, err = v.Validate(ctx, dir.Groups)
		if err != nil {
			return err
		}
		rep.LiveGroups = liveness.LiveCount(results)
		span.SetAttributes(telemetry.ValidateAttributes(v.Workers(), len(dir.Groups), rep.LiveGroups)...)
		metrics.RecordGroups(len(dir.Groups), rep.LiveGroups)
		if rep.LiveGroups == 0 {
			logger.Warn().
				Str(xglog.FieldEvent, "validate.no_live_groups").
				Int("groups", len(dir.Groups)).
				Msg("no live groups; outputs will be empty")
		}
		return nil
	})
	if err != nil {
		return err
	}

	var flat []channels.FlatChannel
	_ = p.stage(ctx, StageFlatten, func(context.Context, trace.Span) error {
		var st channels.Stats
		flat, st = channels.Flatten(dir.Groups, results)
		rep.Channels = len(flat)
		rep.Duplicates = st.Duplicates
		metrics.RecordChannels(len(flat), st.Duplicates)
		logger.Debug().
			Str(xglog.FieldEvent, "flatten.done").
			Int("records", st.Records).
			Int("duplicates", st.Duplicates).
			Int("channels", len(flat)).
			Msg("channels flattened")
		return nil
	})

	var out categorize.Output
	_ = p.stage(ctx, StageCategorize, func(_ context.Context, span trace.Span) error {
		c := categorize.New(p.deps.Tables.Categories, normalize.New(p.deps.Tables.Aliases))
		var st categorize.Stats
		out, st = c.Build(flat)
		rep.Categories = out.Counts()
		rep.Normalized = make(map[string]int, len(st.Normalized))
		for kind, n := range st.Normalized {
			rep.Normalized[kind.String()] = n
			metrics.AddNormalizeMatches(kind.String(), n)
		}
		rep.Via = make(map[string]int, len(st.Via))
		for via, n := range st.Via {
			rep.Via[via.String()] = n
			metrics.AddCategorized(via.String(), n)
		}
		metrics.RecordCategories(rep.Categories)
		span.SetAttributes(telemetry.OutputAttributes(len(flat), rep.Duplicates, len(out))...)
		logger.Info().
			Str(xglog.FieldEvent, "categorize.done").
			Int("channels", out.Total()).
			Int("categories", len(out)).
			Msg("channels categorized")
		return nil
	})

	return p.stage(ctx, StageEmit, func(ctx context.Context, _ trace.Span) error {
		if err := os.MkdirAll(p.cfg.OutputDir, 0o750); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		files := playlist.Files{
			Dir:         p.cfg.OutputDir,
			Flat:        p.cfg.FlatFile,
			Categorized: p.cfg.CategorizedFile,
		}
		if p.cfg.WriteM3U {
			files.M3U = p.cfg.M3UFile
		}
		var err error
		rep.Outputs, err = playlist.Emit(ctx, files, flat, out)
		return err
	})
}

// stage runs fn inside a span, records its duration and tags errors with the stage name.
func (p *Pipeline) stage(ctx context.Context, name string, fn func(context.Context, trace.Span) error) error {
	ctx, span := telemetry.Tracer(telemetry.TracerName).Start(ctx, "livesort."+name,
		trace.WithAttributes(attribute.String(telemetry.StageKey, name)))
	defer span.End()

	start := time.Now()
	err := fn(ctx, span)
	metrics.ObserveStage(name, time.Since(start))
	if err != nil {
		telemetry.RecordError(span, err, name)
		return &StageError{Stage: name, Err: err}
	}
	return nil
}

func (p *Pipeline) parseOptions() directory.Options {
	opts := directory.DefaultOptions()
	if p.cfg.Format != "" {
		opts.Format = p.cfg.Format
	}
	opts.SkipLines = p.cfg.SkipLines
	opts.MulticastTag = p.cfg.MulticastTag
	if p.cfg.GenreMarker != "" {
		opts.GenreMarker = p.cfg.GenreMarker
	}
	return opts
}
