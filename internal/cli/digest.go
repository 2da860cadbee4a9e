package cli

import (
	"github.com/spf13/cobra"

	"ledgerdrive/internal/provenance"
)

// NewDigestCommand creates the digest command.
func NewDigestCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "digest <file>",
		Short: "Print the provenance digest of a reference file",
		Long: `Compute the digest that run would bind into the manifest for the given
reference file. A nonexistent file prints the missing-file sentinel.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			digest, err := provenance.DigestFile(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to digest file", err)
			}
			formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			return formatter.Success(digest)
		},
	}
	return cmd
}
