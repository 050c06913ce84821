package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/mwrona/jobscout/internal/assistant"
	"github.com/mwrona/jobscout/internal/config"
	"github.com/mwrona/jobscout/internal/model"
	"github.com/mwrona/jobscout/internal/notifier"
	"github.com/mwrona/jobscout/internal/pipeline"
	"github.com/mwrona/jobscout/internal/registry"
	"github.com/mwrona/jobscout/internal/scraper"
	"github.com/mwrona/jobscout/internal/webcache"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "jobscout",
	Short: "Job scout — scrape, score and rank job postings",
	Long:  "Jobscout discovers job postings, scores them against your profile with an LLM, and ranks the results into a report.",
	// Default to `run` so invoking the binary directly runs one full cycle.
	RunE: runRun,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBSCOUT_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > JOBSCOUT_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if env := os.Getenv("JOBSCOUT_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

// app holds every collaborator, built once at startup and passed explicitly
// into the orchestrators.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *registry.SQLiteRegistry
	cache    *webcache.Cache
	notifier model.Notifier
}

// buildApp constructs the shared collaborators from config.
func buildApp() (*app, error) {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	reg, err := registry.Open(cfg.Registry.File, logger)
	if err != nil {
		return nil, fmt.Errorf("opening registry: %w", err)
	}

	var sink model.Notifier
	if cfg.Notifier.Suppressed {
		sink = notifier.NewSilent()
	} else {
		sink = notifier.NewMulti(
			notifier.NewConsole(os.Stdout),
			notifier.NewHTMLReport(cfg.Notifier.ReportFile),
		)
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		registry: reg,
		cache:    webcache.New(cfg.Webcache.Dir),
		notifier: sink,
	}, nil
}

func (a *app) Close() error {
	return a.registry.Close()
}

func (a *app) scrapeRunners() ([]*pipeline.ScrapeRunner, error) {
	runners := make([]*pipeline.ScrapeRunner, 0, len(a.cfg.Scrapers))
	for _, sc := range a.cfg.Scrapers {
		s, err := scraper.New(sc, a.cache)
		if err != nil {
			return nil, err
		}
		runners = append(runners, pipeline.NewScrapeRunner(
			sc.Source, s, a.registry, a.notifier, a.cfg.Retry.BaseInterval, a.logger))
		a.logger.Info("registered source", "source", sc.Source)
	}
	return runners, nil
}

func (a *app) reviewRunner() *pipeline.ReviewRunner {
	llm := assistant.NewLLMClient(a.cfg.LLM.URL, a.cfg.LLM.Model,
		&http.Client{Timeout: a.cfg.LLM.Timeout})
	assess := assistant.New(a.cache, llm, a.cfg.Profile, a.logger)
	return pipeline.NewReviewRunner(assess, a.registry, a.notifier,
		a.cfg.Retry.BaseInterval, a.logger)
}

func (a *app) reportRunner() *pipeline.ReportRunner {
	return pipeline.NewReportRunner(a.registry, a.notifier, a.logger)
}

// runCycle runs one full scrape → review → report pass.
func (a *app) runCycle(ctx context.Context) error {
	runners, err := a.scrapeRunners()
	if err != nil {
		return err
	}
	if err := pipeline.RunScrapers(ctx, runners); err != nil {
		return err
	}
	if err := a.reviewRunner().Serve(ctx); err != nil {
		return err
	}
	return a.reportRunner().Serve(ctx)
}
