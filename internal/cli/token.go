package cli

import (
	"github.com/spf13/cobra"

	"github.com/gcpdev/xshacl/internal/signature"
)

// TokenResult holds the token command output.
type TokenResult struct {
	Token string `json:"token"`
}

func (r TokenResult) String() string { return r.Token }

// NewTokenCommand creates the token command: print the canonical cache
// token for a signature without touching any store.
func NewTokenCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "token <signature.yaml>",
		Short: "Print the canonical token for a signature",
		Long: `Canonicalize a violation signature and print its content-addressed token.

The token is stable: the same constraint, path, kind, and parameter
content always yields the same token regardless of parameter order.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{
				Format:    rootOpts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   rootOpts.Verbose,
			}

			sig, err := LoadSignature(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "load signature", err)
			}
			token, err := signature.Token(sig)
			if err != nil {
				return WrapExitError(ExitCommandError, "canonicalize signature", err)
			}
			return formatter.Success(TokenResult{Token: token})
		},
	}
}
