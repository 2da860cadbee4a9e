package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"ledgerdrive/internal/config"
	"ledgerdrive/internal/journal"
	"ledgerdrive/internal/ledger"
	"ledgerdrive/internal/provenance"
	"ledgerdrive/internal/scenario"
	"ledgerdrive/internal/sequencer"
)

// Environment fallbacks for run flags.
const (
	envLedgerURL = "LEDGER_URL"
	envOutDir    = "SCENARIO_OUT_DIR"

	defaultLedgerURL = "http://127.0.0.1:8080"
	journalFileName  = "journal.db"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	LedgerURL string
	OutDir    string
	Journal   string
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <config>",
		Short: "Execute a scenario against the ledger service",
		Long: `Execute a scenario end to end: bind the reference file's provenance into
the run manifest, then generate and submit the full deterministic operation
sequence, journaling every submission.

The ledger URL defaults to $LEDGER_URL, the output directory to
$SCENARIO_OUT_DIR (falling back to the current directory). The first ledger
failure aborts the run; rerunning with the same config is safe because the
regenerated idempotency keys are deduplicated by the ledger.

Example:
  ledgerdrive run scenarios/carbon.yaml
  LEDGER_URL=http://ledger:8080 ledgerdrive run scenarios/retail.yaml --verbose`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.LedgerURL, "ledger-url", "", "ledger service base URL (default $LEDGER_URL)")
	cmd.Flags().StringVar(&opts.OutDir, "out-dir", "", "output directory for manifest and journal (default $SCENARIO_OUT_DIR)")
	cmd.Flags().StringVar(&opts.Journal, "journal", "", "journal database path (default <out-dir>/journal.db)")

	return cmd
}

// RunSummary is the run command's success payload.
type RunSummary struct {
	RunID      string `json:"run_id"`
	Domain     string `json:"domain"`
	Seed       int64  `json:"seed"`
	Operations int    `json:"operations"`
	Digest     string `json:"digest"`
	Manifest   string `json:"manifest"`
	Journal    string `json:"journal"`
}

func (s RunSummary) String() string {
	return fmt.Sprintf("run %s complete: %d operations submitted", s.RunID, s.Operations)
}

func runScenario(opts *RunOptions, cfgPath string, cmd *cobra.Command) error {
	configureLogging(opts.Verbose)

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	ledgerURL := opts.LedgerURL
	if ledgerURL == "" {
		ledgerURL = os.Getenv(envLedgerURL)
	}
	if ledgerURL == "" {
		ledgerURL = defaultLedgerURL
	}
	outDir := opts.OutDir
	if outDir == "" {
		outDir = os.Getenv(envOutDir)
	}
	if outDir == "" {
		outDir = "."
	}

	// Provenance binding happens before any ledger operation and is not
	// revisited on later failure.
	rec, err := provenance.Bind(cfg.ReferenceKey, cfg.ReferenceFile)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to digest reference file", err)
	}
	if err := rec.WriteManifest(outDir); err != nil {
		return WrapExitError(ExitCommandError, "failed to write manifest", err)
	}
	slog.Info("provenance bound", "file", cfg.ReferenceFile, "digest", rec.Digest)

	journalPath := opts.Journal
	if journalPath == "" {
		journalPath = filepath.Join(outDir, journalFileName)
	}
	jnl, err := journal.Open(journalPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	defer func() {
		if closeErr := jnl.Close(); closeErr != nil {
			slog.Error("error closing journal", "error", closeErr)
		}
	}()

	runID := uuid.NewString()
	ctx := cmd.Context()
	if err := jnl.BeginRun(ctx, runID, cfg, rec.Digest); err != nil {
		return WrapExitError(ExitCommandError, "failed to begin journal run", err)
	}

	client := ledger.NewClient(ledgerURL)
	tee := journal.NewTee(client, jnl, runID)
	driver := scenario.New(cfg, sequencer.New(cfg.Seed), tee, rec.Digest)

	slog.Info("run starting", "run_id", runID, "domain", cfg.Domain, "seed", cfg.Seed, "ledger", ledgerURL)
	if err := driver.Run(ctx); err != nil {
		return WrapExitError(ExitFailure, "scenario aborted", err)
	}
	slog.Info("run complete", "run_id", runID, "operations", tee.Count())

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return formatter.Success(RunSummary{
		RunID:      runID,
		Domain:     string(cfg.Domain),
		Seed:       cfg.Seed,
		Operations: tee.Count(),
		Digest:     rec.Digest,
		Manifest:   filepath.Join(outDir, provenance.ManifestName),
		Journal:    journalPath,
	})
}

// configureLogging mirrors the global verbose flag into slog.
func configureLogging(verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(handler))
}
