package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"ledgerdrive/internal/config"
	"ledgerdrive/internal/journal"
	"ledgerdrive/internal/provenance"
	"ledgerdrive/internal/scenario"
)

// VerifyOptions holds flags for the verify command.
type VerifyOptions struct {
	*RootOptions
	Journal string
	RunID   string
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VerifyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "verify <config>",
		Short: "Check a journaled run against its regenerated plan",
		Long: `Regenerate the deterministic operation sequence for a scenario and compare
it operation-by-operation against a recorded run journal.

A divergence means the journaled run was not produced by this config and
seed (or the reference file changed, which perturbs emission keys). Exit
code 1 signals divergence; 0 means the journal matches the plan exactly.

Example:
  ledgerdrive verify scenarios/carbon.yaml --journal out/journal.db
  ledgerdrive verify scenarios/carbon.yaml --journal out/journal.db --run 04b0...`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return verifyRun(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Journal, "journal", "", "journal database path (required)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "run id to verify (default: most recent)")
	_ = cmd.MarkFlagRequired("journal")

	return cmd
}

// VerifyResult is the verify command's success payload.
type VerifyResult struct {
	RunID      string `json:"run_id"`
	Operations int    `json:"operations"`
}

func (r VerifyResult) String() string {
	return fmt.Sprintf("run %s verified: %d operations match the plan", r.RunID, r.Operations)
}

func verifyRun(opts *VerifyOptions, cfgPath string, cmd *cobra.Command) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	digest, err := provenance.DigestFile(cfg.ReferenceFile)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to digest reference file", err)
	}

	jnl, err := journal.Open(opts.Journal)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	defer jnl.Close()

	ctx := cmd.Context()
	runID := opts.RunID
	if runID == "" {
		runID, err = jnl.LastRun(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to resolve run", err)
		}
	}

	recorded, err := jnl.Operations(ctx, runID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read journal", err)
	}
	if len(recorded) == 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("run %s has no journaled operations", runID))
	}

	expected, err := scenario.Plan(cfg, digest)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to regenerate plan", err)
	}

	if div := journal.Compare(recorded, expected); div != nil {
		return NewExitError(ExitFailure, fmt.Sprintf("run %s diverges from plan: %s", runID, div))
	}

	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	return formatter.Success(VerifyResult{RunID: runID, Operations: len(recorded)})
}
