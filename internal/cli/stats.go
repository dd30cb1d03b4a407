package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

// StatsResult holds the stats command output.
type StatsResult struct {
	StorePath  string           `json:"store_path"`
	Facts      int              `json:"facts"`
	Signatures []string         `json:"signatures,omitempty"`
	Events     map[string]int64 `json:"events,omitempty"`
}

func (r StatsResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "store: %s\n", r.StorePath)
	fmt.Fprintf(&b, "facts: %d\n", r.Facts)
	fmt.Fprintf(&b, "signatures: %d", len(r.Signatures))
	for _, token := range r.Signatures {
		fmt.Fprintf(&b, "\n  %s", token)
	}
	if len(r.Events) > 0 {
		keys := make([]string, 0, len(r.Events))
		for k := range r.Events {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString("\nevents:")
		for _, k := range keys {
			fmt.Fprintf(&b, "\n  %s: %d", k, r.Events[k])
		}
	}
	return b.String()
}

// NewStatsCommand creates the stats command: report store size, cached
// signatures, and audit counters when an audit log is configured.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StoreOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "stats",
		Short:         "Show cache store statistics",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(opts, cmd)
		},
	}
	addStoreFlags(cmd, opts)
	return cmd
}

func runStats(opts *StoreOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	store, log, cleanup, err := openStore(opts)
	if err != nil {
		return err
	}
	defer cleanup()

	result := StatsResult{
		StorePath:  store.StorePath(),
		Facts:      store.Size(),
		Signatures: store.Signatures(),
	}
	if log != nil {
		counts, err := log.Counts(cmd.Context())
		if err != nil {
			return WrapExitError(ExitCommandError, "read audit counters", err)
		}
		result.Events = counts
	}
	return formatter.Success(result)
}
