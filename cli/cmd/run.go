package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/urfave/cli/v2"

	"github.com/caseforge/caseforge/adapter"
	"github.com/caseforge/caseforge/adapter/redis"
	"github.com/caseforge/caseforge/adapter/webhook"
	"github.com/caseforge/caseforge/cli/config"
	"github.com/caseforge/caseforge/cli/tui"
	"github.com/caseforge/caseforge/export"
	"github.com/caseforge/caseforge/iox"
	"github.com/caseforge/caseforge/log"
	"github.com/caseforge/caseforge/metrics"
	"github.com/caseforge/caseforge/pipeline"
	"github.com/caseforge/caseforge/scrape"
	"github.com/caseforge/caseforge/synth"
	"github.com/caseforge/caseforge/types"
)

// Exit codes for the run command.
const (
	exitSuccess          = 0
	exitSynthesisFailure = 1
	exitInputFailure     = 2
	exitFault            = 3
)

// Requested case count bounds enforced at the CLI boundary. The
// orchestrator itself only checks positivity.
const (
	minCases = 1
	maxCases = 10
)

// defaultConfigFile is probed when --config is not given.
const defaultConfigFile = "caseforge.yaml"

// RunCommand returns the run command, the only command that executes work.
func RunCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Extract UI elements, synthesize test cases, and generate scripts for a page",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "url",
				Usage:    "Target page URL (http:// or https://)",
				Required: true,
			},
			&cli.IntFlag{
				Name:    "cases",
				Aliases: []string{"n"},
				Usage:   "Requested test case count (clamped to 1-10)",
			},
			&cli.StringFlag{
				Name:  "run-id",
				Usage: "Run ID (generated when omitted)",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to caseforge.yaml",
			},
			// Model flags
			&cli.StringFlag{
				Name:  "model",
				Usage: "Generative model name",
			},
			&cli.StringFlag{
				Name:    "api-key",
				Usage:   "Model API key",
				EnvVars: []string{"CASEFORGE_API_KEY"},
			},
			&cli.StringFlag{
				Name:  "base-url",
				Usage: "OpenAI-compatible endpoint (optional)",
			},
			// Scrape flags
			&cli.BoolFlag{
				Name:  "headful",
				Usage: "Run the browser with a visible window",
			},
			// Storage flags
			&cli.StringFlag{
				Name:  "storage-backend",
				Usage: "Artifact storage backend: fs or s3",
			},
			&cli.StringFlag{
				Name:  "storage-path",
				Usage: "Artifact storage path (fs: directory, s3: bucket/prefix)",
			},
			&cli.StringFlag{
				Name:  "s3-region",
				Usage: "AWS region for the s3 backend (optional, uses default chain)",
			},
			// Output flags
			&cli.StringFlag{
				Name:  "report",
				Usage: "Write a JSON run report to this path",
			},
			&cli.StringFlag{
				Name:  "journal",
				Usage: "Run journal path (default: <outputs>/<run-id>/run.journal)",
			},
			&cli.BoolFlag{
				Name:  "no-tui",
				Usage: "Disable the live progress view, stream log lines instead",
			},
			&cli.BoolFlag{
				Name:  "quiet",
				Usage: "Suppress progress output (implies --no-tui)",
			},
		},
		Action: runAction,
	}
}

// runSettings is the merged flag/config view the run command executes with.
type runSettings struct {
	meta    types.RunMeta
	model   synth.Config
	scrape  scrape.Config
	storage config.StorageConfig
	adapter config.AdapterConfig

	reportPath  string
	journalPath string
	noTUI       bool
	quiet       bool
}

func resolveSettings(c *cli.Context) (*runSettings, error) {
	cfg := &config.Config{}
	path := c.String("config")
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			path = defaultConfigFile
		}
	}
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	s := &runSettings{
		storage: cfg.Storage,
		adapter: cfg.Adapter,
	}

	// CLI flags override config values.
	if v := c.String("storage-backend"); v != "" {
		s.storage.Backend = v
	}
	if v := c.String("storage-path"); v != "" {
		s.storage.Path = v
	}
	if v := c.String("s3-region"); v != "" {
		s.storage.Region = v
	}
	if s.storage.Backend == "" {
		s.storage.Backend = "fs"
	}

	s.model = synth.Config{
		BaseURL: firstNonEmpty(c.String("base-url"), cfg.Model.BaseURL),
		Model:   firstNonEmpty(c.String("model"), cfg.Model.Name),
		APIKey:  firstNonEmpty(c.String("api-key"), cfg.Model.APIKey),
	}

	s.scrape = scrape.Config{
		Timeout:     cfg.Scrape.Timeout.Duration,
		SettleDelay: cfg.Scrape.SettleDelay.Duration,
		UserAgent:   cfg.Scrape.UserAgent,
		Headful:     cfg.Scrape.Headful || c.Bool("headful"),
	}

	cases := c.Int("cases")
	if cases == 0 {
		cases = cfg.Defaults.Cases
	}
	if cases == 0 {
		cases = 5
	}
	s.meta = types.RunMeta{
		RunID:          firstNonEmpty(c.String("run-id"), uuid.NewString()),
		URL:            c.String("url"),
		RequestedCases: clampCases(cases),
		StartedAt:      time.Now(),
	}

	s.reportPath = c.String("report")
	s.quiet = c.Bool("quiet")
	s.noTUI = c.Bool("no-tui") || s.quiet
	s.journalPath = c.String("journal")
	if s.journalPath == "" {
		dir := s.storage.Path
		if s.storage.Backend != "fs" || dir == "" {
			dir = "outputs"
		}
		s.journalPath = filepath.Join(dir, s.meta.RunID, "run.journal")
	}

	return s, nil
}

func runAction(c *cli.Context) error {
	settings, err := resolveSettings(c)
	if err != nil {
		return cli.Exit(err.Error(), exitFault)
	}

	logger := log.NewLogger(&settings.meta)
	collector := metrics.NewCollector(settings.meta.RunID, settings.storage.Backend, settings.model.Model)

	ctx := c.Context

	store, err := buildStore(ctx, settings.storage)
	if err != nil {
		return cli.Exit(fmt.Sprintf("storage: %v", err), exitFault)
	}

	client, err := synth.New(settings.model, logger)
	if err != nil {
		return cli.Exit(fmt.Sprintf("model: %v", err), exitFault)
	}

	extractor := scrape.NewExtractor(settings.scrape, logger)

	orchestrator, err := pipeline.NewOrchestrator(
		settings.meta, extractor, client, client, store, logger, collector)
	if err != nil {
		return cli.Exit(err.Error(), exitFault)
	}

	journal, err := openJournal(settings)
	if err != nil {
		// A dead journal loses replay, not the run.
		logger.Warn("journal disabled", map[string]any{"error": err.Error()})
		journal = nil
	}

	final := consumeRun(ctx, orchestrator, journal, settings)
	if journal != nil {
		iox.DiscardClose(journal)
	}
	finishedAt := time.Now()

	if settings.reportPath != "" {
		m := collector.Snapshot()
		report := pipeline.BuildRunReport(settings.meta, final, &m, finishedAt)
		if err := report.WriteReport(settings.reportPath); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	publishEvent(ctx, settings, final, finishedAt, logger)

	return cli.Exit("", outcomeToExitCode(final.Outcome))
}

func openJournal(s *runSettings) (*export.JournalWriter, error) {
	if err := os.MkdirAll(filepath.Dir(s.journalPath), 0o755); err != nil {
		return nil, err
	}
	return export.CreateJournal(s.journalPath, s.meta)
}

// consumeRun drains the snapshot stream, recording each frame to the
// journal and driving the progress surface. Returns the last snapshot seen.
func consumeRun(ctx context.Context, o *pipeline.Orchestrator, journal *export.JournalWriter, s *runSettings) types.Snapshot {
	stream := o.Run(ctx)

	if s.noTUI || !isTTY(os.Stdout) {
		return consumePlain(stream, journal, s.quiet)
	}
	return consumeTUI(stream, journal, s.meta)
}

func consumePlain(stream <-chan types.Snapshot, journal *export.JournalWriter, quiet bool) types.Snapshot {
	var final types.Snapshot
	printed := 0
	for snap := range stream {
		recordFrame(journal, snap)
		if !quiet {
			for _, line := range snap.Log[printed:] {
				fmt.Println(line)
			}
		}
		printed = len(snap.Log)
		final = snap
	}
	return final
}

func consumeTUI(stream <-chan types.Snapshot, journal *export.JournalWriter, meta types.RunMeta) types.Snapshot {
	p := tea.NewProgram(tui.NewRunModel(meta))

	var final types.Snapshot
	done := make(chan struct{})
	go func() {
		defer close(done)
		for snap := range stream {
			recordFrame(journal, snap)
			final = snap
			p.Send(tui.SnapshotMsg(snap))
		}
		p.Send(tui.StreamClosedMsg{})
	}()

	if _, err := p.Run(); err != nil {
		// The display failed, not the run. Keep draining so the
		// producer cannot block on an abandoned channel.
		fmt.Fprintf(os.Stderr, "Warning: progress view failed: %v\n", err)
	}
	<-done
	return final
}

func recordFrame(journal *export.JournalWriter, snap types.Snapshot) {
	if journal == nil {
		return
	}
	if err := journal.Append(snap); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: journal write failed: %v\n", err)
	}
}

func buildStore(ctx context.Context, cfg config.StorageConfig) (export.Store, error) {
	switch cfg.Backend {
	case "fs":
		return export.NewFSStore(cfg.Path), nil
	case "s3":
		bucket, prefix := export.ParseS3Path(cfg.Path)
		return export.NewS3Store(ctx, export.S3Config{
			Bucket:       bucket,
			Prefix:       prefix,
			Region:       cfg.Region,
			Endpoint:     cfg.Endpoint,
			UsePathStyle: cfg.S3PathStyle,
		})
	default:
		return nil, fmt.Errorf("unknown storage backend %q (must be fs or s3)", cfg.Backend)
	}
}

// publishEvent notifies the configured adapter, if any. Publish failures
// are reported but never change the run's exit code.
func publishEvent(ctx context.Context, s *runSettings, final types.Snapshot, finishedAt time.Time, logger *log.Logger) {
	a, err := buildAdapter(s.adapter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: adapter: %v\n", err)
		return
	}
	if a == nil {
		return
	}
	defer iox.DiscardClose(a)

	event := adapter.NewRunCompletedEvent(s.meta, final, finishedAt)
	if err := a.Publish(ctx, event); err != nil {
		logger.Warn("event publish failed", map[string]any{"error": err.Error()})
		fmt.Fprintf(os.Stderr, "Warning: event publish failed: %v\n", err)
	}
}

func buildAdapter(cfg config.AdapterConfig) (adapter.Adapter, error) {
	retries := -1
	if cfg.Retries != nil {
		retries = *cfg.Retries
	}

	switch cfg.Type {
	case "":
		return nil, nil
	case "webhook":
		wc := webhook.Config{
			URL:     cfg.URL,
			Headers: cfg.Headers,
			Timeout: cfg.Timeout.Duration,
		}
		if retries >= 0 {
			wc.Retries = retries
		} else {
			wc.Retries = webhook.DefaultRetries
		}
		return webhook.New(wc)
	case "redis":
		rc := redis.Config{
			URL:     cfg.URL,
			Channel: cfg.Channel,
			Timeout: cfg.Timeout.Duration,
		}
		if retries >= 0 {
			rc.Retries = retries
		} else {
			rc.Retries = redis.DefaultRetries
		}
		return redis.New(rc)
	default:
		return nil, fmt.Errorf("unknown adapter type %q (must be webhook or redis)", cfg.Type)
	}
}

// outcomeToExitCode maps a terminal outcome to the process exit code.
func outcomeToExitCode(outcome types.OutcomeStatus) int {
	switch outcome {
	case types.OutcomeSuccess:
		return exitSuccess
	case types.OutcomeSynthesisFailure:
		return exitSynthesisFailure
	case types.OutcomeInputError, types.OutcomeExtractionFailure:
		return exitInputFailure
	default:
		return exitFault
	}
}

func clampCases(n int) int {
	if n < minCases {
		return minCases
	}
	if n > maxCases {
		return maxCases
	}
	return n
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// isTTY returns true if the writer is a TTY.
func isTTY(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
