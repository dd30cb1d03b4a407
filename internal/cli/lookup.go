package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gcpdev/xshacl/internal/kg"
	"github.com/gcpdev/xshacl/internal/model"
	"github.com/gcpdev/xshacl/internal/signature"
)

// LookupResult holds the lookup command output.
type LookupResult struct {
	Token       string                   `json:"token"`
	Hit         bool                     `json:"hit"`
	Explanation *model.ExplanationOutput `json:"explanation,omitempty"`
}

func (r LookupResult) String() string {
	if !r.Hit {
		return fmt.Sprintf("%s: miss", r.Token)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s: hit\n", r.Token)
	fmt.Fprintf(&b, "explanation: %s", r.Explanation.NaturalLanguageExplanation)
	for _, s := range r.Explanation.CorrectionSuggestions {
		fmt.Fprintf(&b, "\nsuggestion: %s", s)
	}
	if r.Explanation.ProvidedByModel != "" {
		fmt.Fprintf(&b, "\nprovided by: %s", r.Explanation.ProvidedByModel)
	}
	return b.String()
}

// NewLookupCommand creates the lookup command: canonicalize a signature
// and retrieve its cached explanation.
func NewLookupCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StoreOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "lookup <signature.yaml>",
		Short: "Look up the cached explanation for a signature",
		Long: `Canonicalize a violation signature and retrieve its cached explanation.

Exits 0 on a hit, 1 on a miss, 2 on command errors.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(opts, args[0], cmd)
		},
	}
	addStoreFlags(cmd, opts)
	return cmd
}

func runLookup(opts *StoreOptions, sigPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	sig, err := LoadSignature(sigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "load signature", err)
	}
	token, err := signature.Token(sig)
	if err != nil {
		return WrapExitError(ExitCommandError, "canonicalize signature", err)
	}
	formatter.VerboseLog("canonical token: %s", token)

	store, _, cleanup, err := openStore(opts)
	if err != nil {
		return err
	}
	defer cleanup()

	explanation, err := store.Get(sig)
	if kg.IsNotFound(err) {
		if err := formatter.Success(LookupResult{Token: token, Hit: false}); err != nil {
			return err
		}
		return &ExitError{Code: ExitFailure, Message: "cache miss"}
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "get explanation", err)
	}
	return formatter.Success(LookupResult{Token: token, Hit: true, Explanation: explanation})
}
