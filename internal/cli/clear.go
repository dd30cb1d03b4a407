package cli

import (
	"github.com/spf13/cobra"
)

// ClearResult holds the clear command output.
type ClearResult struct {
	StorePath string `json:"store_path"`
	Cleared   bool   `json:"cleared"`
}

func (r ClearResult) String() string {
	return "cleared " + r.StorePath
}

// NewClearCommand creates the clear command: discard all cached
// instance records. The ontology is retained. Destructive, so it
// requires --yes.
func NewClearCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StoreOptions{RootOptions: rootOpts}
	var confirmed bool

	cmd := &cobra.Command{
		Use:           "clear",
		Short:         "Discard all cached explanations",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{
				Format:    opts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   opts.Verbose,
			}

			if !confirmed {
				return &ExitError{Code: ExitCommandError, Message: "refusing to clear without --yes"}
			}

			store, _, cleanup, err := openStore(opts)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := store.Clear(); err != nil {
				return WrapExitError(ExitCommandError, "clear store", err)
			}
			return formatter.Success(ClearResult{StorePath: store.StorePath(), Cleared: true})
		},
	}
	addStoreFlags(cmd, opts)
	cmd.Flags().BoolVar(&confirmed, "yes", false, "confirm the clear")
	return cmd
}
