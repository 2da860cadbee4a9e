package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"ledgerdrive/internal/config"
	"ledgerdrive/internal/provenance"
	"ledgerdrive/internal/scenario"
)

// PlanOptions holds flags for the plan command.
type PlanOptions struct {
	*RootOptions
}

// NewPlanCommand creates the plan command.
func NewPlanCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlanOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "plan <config>",
		Short: "Print a scenario's operation sequence without submitting it",
		Long: `Generate the full deterministic operation sequence for a scenario and
print it, without contacting the ledger service.

The printed sequence is exactly what run would submit for the same config:
same operations, same order, same idempotency keys. Account ids are
synthetic ordinals since no ledger assigned real ones.

Example:
  ledgerdrive plan scenarios/carbon.yaml
  ledgerdrive plan scenarios/retail.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printPlan(opts, args[0], cmd)
		},
	}

	return cmd
}

func printPlan(opts *PlanOptions, cfgPath string, cmd *cobra.Command) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	// The digest participates in emission keys, so the plan binds the same
	// reference file a real run would.
	digest, err := provenance.DigestFile(cfg.ReferenceFile)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to digest reference file", err)
	}

	ops, err := scenario.Plan(cfg, digest)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to generate plan", err)
	}

	out := cmd.OutOrStdout()
	if opts.Format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(ops)
	}

	for i, op := range ops {
		switch op.Kind {
		case scenario.OpCreateAccount:
			fmt.Fprintf(out, "%4d  create_account  %-20s %s  %s\n", i, op.Label, op.Currency, op.IdemKey)
		case scenario.OpMint:
			fmt.Fprintf(out, "%4d  mint            %-20s %s  %s\n", i, op.AccountID, FormatAmount(op.AmountCents), op.IdemKey)
		case scenario.OpTransfer:
			fmt.Fprintf(out, "%4d  transfer        %s -> %s  %s  %s\n", i, op.FromID, op.ToID, FormatAmount(op.AmountCents), op.IdemKey)
		}
	}
	fmt.Fprintf(out, "%d operations\n", len(ops))
	return nil
}
