package pipeline

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/doxyfx/internal/config"
	"git.home.luguber.info/inful/doxyfx/internal/doxygen"
	doxyerrors "git.home.luguber.info/inful/doxyfx/internal/errors"
	"git.home.luguber.info/inful/doxyfx/internal/metrics"
	"git.home.luguber.info/inful/doxyfx/internal/observability"
	"git.home.luguber.info/inful/doxyfx/internal/util/sets"
	"git.home.luguber.info/inful/doxyfx/internal/xref"
)

// Stage names.
const (
	StageDiscover = "discover"
	StageConvert  = "convert"
	StageLink     = "link"
)

// BuildStages returns the full stage list for a build run.
func BuildStages(rec metrics.Recorder) []Stage {
	return []Stage{
		{Name: StageDiscover, Fn: StageDiscoverInputs},
		{Name: StageConvert, Fn: convertStage(rec)},
		{Name: StageLink, Fn: StageLinkRecords},
	}
}

// StageDiscoverInputs globs the configured input pattern.
func StageDiscoverInputs(ctx context.Context, st *State) error {
	pattern := st.Config.Input.Glob
	matches, err := doublestar.Glob(os.DirFS(st.Config.Input.Dir), pattern)
	if err != nil {
		return doxyerrors.NewInputError("bad input glob "+pattern, err)
	}
	sort.Strings(matches)
	st.Inputs = st.Inputs[:0]
	for _, m := range matches {
		st.Inputs = append(st.Inputs, filepath.Join(st.Config.Input.Dir, filepath.FromSlash(m)))
	}
	st.Report.Inputs = len(st.Inputs)
	observability.InfoContext(ctx, "Discovered extractor files",
		slog.Int("files", len(st.Inputs)), slog.String("glob", pattern))
	return nil
}

// convertStage returns the Stage A step: every input converted
// independently, in parallel, with no shared mutable state between files.
func convertStage(rec metrics.Recorder) func(ctx context.Context, st *State) error {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return func(ctx context.Context, st *State) error {
		conv := NewConverter(st.Config)

		limit := runtime.GOMAXPROCS(0)
		rec.SetConvertConcurrency(limit)

		g, groupCtx := errgroup.WithContext(ctx)
		g.SetLimit(limit)
		for _, input := range st.Inputs {
			input := input
			g.Go(func() error {
				fileCtx := observability.WithFile(groupCtx, input)
				t0 := time.Now()
				records, err := conv.ConvertFile(groupCtx, input)
				rec.ObserveConvertDuration(time.Since(t0), err == nil)
				rec.IncConvertResult(err == nil)
				if err != nil {
					observability.ErrorContext(fileCtx, "Conversion failed")
					return err
				}
				st.AddRecords(records...)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		sort.Strings(st.Records)
		st.Report.Records = len(st.Records)
		observability.InfoContext(ctx, "Converted extractor files",
			slog.Int("files", len(st.Inputs)), slog.Int("records", len(st.Records)))
		return nil
	}
}

// DiscoverRecords globs the already-written record set under the output
// directory (used when linking or linting without a fresh conversion).
func DiscoverRecords(cfg *config.Config) ([]string, error) {
	pattern := cfg.Output.APIRoot + "/**/*.yml"
	matches, err := doublestar.Glob(os.DirFS(cfg.Output.Directory), pattern)
	if err != nil {
		return nil, doxyerrors.NewInputError("bad record glob "+pattern, err)
	}
	sort.Strings(matches)
	return matches, nil
}

// StageDiscoverRecords fills State.Records from the existing output set.
func StageDiscoverRecords(ctx context.Context, st *State) error {
	records, err := DiscoverRecords(st.Config)
	if err != nil {
		return err
	}
	st.Records = records
	st.Report.Records = len(records)
	observability.InfoContext(ctx, "Discovered existing records", slog.Int("records", len(records)))
	return nil
}

// StageLinkRecords runs the cross-reference linker. The runner only reaches
// it after the convert stage completed, which is the required barrier.
func StageLinkRecords(ctx context.Context, st *State) error {
	linker := &xref.Linker{Root: st.Config.Output.Directory}
	m, err := linker.Run(ctx, st.Records)
	if err != nil {
		return err
	}
	st.XrefMap = m
	st.Report.References = len(m.References)
	observability.InfoContext(ctx, "Linked cross-references",
		slog.Int("records", len(st.Records)), slog.Int("references", len(m.References)))
	return nil
}

// NewConverter builds a Stage A converter from the configuration.
func NewConverter(cfg *config.Config) *doxygen.Converter {
	return &doxygen.Converter{
		InputRoot:        cfg.Input.Dir,
		OutputRoot:       cfg.Output.Directory,
		APIRoot:          cfg.Output.APIRoot,
		ProjectPrefix:    cfg.Project.Prefix,
		NamespaceMatcher: cfg.Project.NamespaceMatcher,
		Suppressed:       sets.New(cfg.Project.Suppressed...),
	}
}
