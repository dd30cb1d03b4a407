package cli

import (
	"github.com/spf13/cobra"

	"github.com/gcpdev/xshacl/internal/audit"
	"github.com/gcpdev/xshacl/internal/kg"
)

// StoreOptions holds the flags shared by every command that opens the
// cache store.
type StoreOptions struct {
	*RootOptions
	Store    string
	Ontology string
	Audit    string
}

func addStoreFlags(cmd *cobra.Command, opts *StoreOptions) {
	cmd.Flags().StringVar(&opts.Store, "store", kg.DefaultStorePath, "instance document path")
	cmd.Flags().StringVar(&opts.Ontology, "ontology", "", "ontology document path (default: embedded)")
	cmd.Flags().StringVar(&opts.Audit, "audit", "", "audit event log path (disabled when empty)")
}

// openStore opens the cache store, attaching the audit log when one is
// configured. The returned cleanup closes the audit log.
func openStore(opts *StoreOptions) (*kg.KG, *audit.Log, func(), error) {
	kgOpts := []kg.Option{kg.WithStorePath(opts.Store)}
	if opts.Ontology != "" {
		kgOpts = append(kgOpts, kg.WithOntologyPath(opts.Ontology))
	}

	var log *audit.Log
	cleanup := func() {}
	if opts.Audit != "" {
		var err error
		log, err = audit.Open(opts.Audit)
		if err != nil {
			return nil, nil, nil, WrapExitError(ExitCommandError, "open audit log", err)
		}
		cleanup = func() { log.Close() }
		kgOpts = append(kgOpts, kg.WithRecorder(log))
	}

	store, err := kg.Open(kgOpts...)
	if err != nil {
		cleanup()
		return nil, nil, nil, WrapExitError(ExitCommandError, "open store", err)
	}
	return store, log, cleanup, nil
}
