package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/doxyfx/internal/config"
	doxyerrors "git.home.luguber.info/inful/doxyfx/internal/errors"
	"git.home.luguber.info/inful/doxyfx/internal/gate"
	"git.home.luguber.info/inful/doxyfx/internal/mdcheck"
	"git.home.luguber.info/inful/doxyfx/internal/metrics"
	"git.home.luguber.info/inful/doxyfx/internal/pipeline"
	"git.home.luguber.info/inful/doxyfx/internal/version"
	"git.home.luguber.info/inful/doxyfx/internal/watch"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"doxyfx.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Build struct {
		Output string `short:"o" help:"Output directory for generated records (overrides config)"`
	} `cmd:"" help:"Convert all extractor XML files and link cross-references"`

	Convert struct {
		Paths []string `arg:"" help:"Extractor XML files to convert"`
	} `cmd:"" help:"Convert individual extractor XML files (no cross-reference linking)"`

	Xrefmap struct{} `cmd:"" help:"Rebuild the cross-reference map over the existing record set"`

	Lint struct{} `cmd:"" help:"Verify that xref links in generated summaries resolve"`

	Gate struct {
		Report           string `short:"f" help:"Static analysis XML report (overrides config)"`
		ErrorThreshold   int    `help:"Error threshold (overrides config)" default:"-1"`
		WarningThreshold int    `help:"Warning threshold (overrides config)" default:"-1"`
	} `cmd:"" help:"Compare static analysis findings against severity thresholds"`

	Watch struct {
		MetricsAddr string `help:"Serve Prometheus metrics on this address (e.g. :9090)"`
	} `cmd:"" help:"Rebuild whenever the extractor output changes"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`

	Version struct{} `cmd:"" help:"Print version information"`
}

func main() {
	ctx := kong.Parse(&CLI)

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	adapter := doxyerrors.NewCLIErrorAdapter(CLI.Verbose, logger)

	var err error
	switch ctx.Command() {
	case "build":
		err = runBuild()
	case "convert <paths>":
		err = runConvert(CLI.Convert.Paths)
	case "xrefmap":
		err = runXrefmap()
	case "lint":
		err = runLint()
	case "gate":
		err = runGate()
	case "watch":
		err = runWatch()
	case "init":
		err = config.Init(CLI.Config, CLI.Init.Force)
	case "version":
		fmt.Printf("doxyfx %s (commit %s, built %s)\n", version.Version, version.GitCommit, version.BuildTime)
	}

	if err != nil {
		adapter.Report(err)
		os.Exit(adapter.ExitCodeFor(err))
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(CLI.Config)
	if err != nil {
		return nil, err
	}
	if CLI.Build.Output != "" {
		cfg.Output.Directory = CLI.Build.Output
	}
	return cfg, nil
}

func runBuild() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return runPipeline(context.Background(), cfg, metrics.NoopRecorder{})
}

func runPipeline(ctx context.Context, cfg *config.Config, rec metrics.Recorder) error {
	st := &pipeline.State{
		Config: cfg,
		RunID:  uuid.NewString(),
		Report: pipeline.NewReport(),
	}
	if err := pipeline.Run(ctx, st, pipeline.BuildStages(rec), rec); err != nil {
		return err
	}
	slog.Info("Build completed",
		"inputs", st.Report.Inputs,
		"records", st.Report.Records,
		"references", st.Report.References)
	return nil
}

func runConvert(paths []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	conv := pipeline.NewConverter(cfg)
	ctx := context.Background()
	for _, path := range paths {
		records, err := conv.ConvertFile(ctx, path)
		if err != nil {
			return err
		}
		for _, record := range records {
			slog.Info("Converted", "input", path, "record", record)
		}
	}
	return nil
}

func runXrefmap() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st := &pipeline.State{
		Config: cfg,
		RunID:  uuid.NewString(),
		Report: pipeline.NewReport(),
	}
	stages := []pipeline.Stage{
		{Name: pipeline.StageDiscover, Fn: pipeline.StageDiscoverRecords},
		{Name: pipeline.StageLink, Fn: pipeline.StageLinkRecords},
	}
	return pipeline.Run(context.Background(), st, stages, metrics.NoopRecorder{})
}

func runLint() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	records, err := pipeline.DiscoverRecords(cfg)
	if err != nil {
		return err
	}
	checker, err := mdcheck.NewChecker(cfg.Output.Directory)
	if err != nil {
		return err
	}
	result, err := checker.CheckAll(records)
	if err != nil {
		return err
	}
	for _, issue := range result.Issues {
		slog.Warn("Unresolved summary xref",
			"severity", issue.Severity.String(),
			"record", issue.Record,
			"item", issue.UID,
			"message", issue.Message)
	}
	slog.Info("Lint completed", "records", result.RecordsTotal, "issues", len(result.Issues))
	if result.HasErrors() {
		return doxyerrors.LintFailed(result.ErrorCount())
	}
	return nil
}

func runGate() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	report := cfg.Gate.Report
	if CLI.Gate.Report != "" {
		report = CLI.Gate.Report
	}
	errorThreshold := cfg.Gate.ErrorThreshold
	if CLI.Gate.ErrorThreshold >= 0 {
		errorThreshold = CLI.Gate.ErrorThreshold
	}
	warningThreshold := cfg.Gate.WarningThreshold
	if CLI.Gate.WarningThreshold >= 0 {
		warningThreshold = CLI.Gate.WarningThreshold
	}

	counts, err := gate.Count(report)
	if err != nil {
		return err
	}
	result := gate.Evaluate(counts, errorThreshold, warningThreshold)
	fmt.Print(result.Summary())
	return result.Err()
}

func runWatch() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var rec metrics.Recorder = metrics.NoopRecorder{}
	if CLI.Watch.MetricsAddr != "" {
		registry := prom.NewRegistry()
		rec = metrics.NewPrometheusRecorder(registry)
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.HTTPHandler(registry))
		server := &http.Server{Addr: CLI.Watch.MetricsAddr, Handler: mux}
		go func() {
			slog.Info("Serving metrics", "addr", CLI.Watch.MetricsAddr)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("Metrics server failed", "error", err)
			}
		}()
		defer server.Close()
	}

	watcher, err := watch.New(cfg.Input.Dir, func(ctx context.Context) error {
		return runPipeline(ctx, cfg, rec)
	})
	if err != nil {
		return doxyerrors.Internal("create watcher", err)
	}
	return watcher.Start(ctx)
}
