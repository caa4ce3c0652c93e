package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/FairForge/thaw/internal/glacier"
)

var cmdTransit = &cobra.Command{
	Use:   "transit",
	Short: "restore GLACIER objects, then move them to a new storage class",
	Long: `
The "transit" command runs a restore pass over every GLACIER object in
scope and then polls until all restores have completed. Once they have,
each object still in GLACIER is copied in place with the target storage
class. The command keeps polling until no object in scope remains in
GLACIER; interrupt it to stop earlier. Objects transitioned by an
earlier, interrupted run are skipped.
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTransit(cmd.Context(), &globalOptions, transitOptions)
	},
}

// TransitOptions collects the transit subcommand flags on top of the
// restore flags it shares.
type TransitOptions struct {
	RestoreOptions
	StorageClass string
	PollSeconds  int
}

var transitOptions TransitOptions

func init() {
	cmdRoot.AddCommand(cmdTransit)

	f := cmdTransit.Flags()
	f.IntVar(&transitOptions.Days, "days", 0, "number of days to keep the restored copy retrievable")
	f.StringVar(&transitOptions.Tier, "tier", "", "retrieval tier (Standard, Bulk or Expedited)")
	f.BoolVar(&transitOptions.Strict, "strict", false, "abort on the first per-object failure instead of continuing")
	f.Float64Var(&transitOptions.RPS, "rps", 0, "cap restore requests per second (0 = unlimited)")
	f.StringVar(&transitOptions.StorageClass, "storage-class", "", "storage class to transition restored objects to")
	f.IntVar(&transitOptions.PollSeconds, "poll", 0, "polling interval in seconds while waiting for restores (default 3600)")
}

func resolveTransitOptions(gopts *GlobalOptions, opts TransitOptions) (glacier.RestoreOptions, glacier.TransitOptions, error) {
	ropts, err := resolveRestoreOptions(gopts, opts.RestoreOptions)
	if err != nil {
		return glacier.RestoreOptions{}, glacier.TransitOptions{}, err
	}

	if opts.StorageClass == "" {
		opts.StorageClass = gopts.cfg.Transit.StorageClass
	}
	if opts.PollSeconds == 0 {
		opts.PollSeconds = gopts.cfg.Transit.PollSeconds
	}

	if opts.StorageClass == "" {
		return glacier.RestoreOptions{}, glacier.TransitOptions{}, errors.New("--storage-class is required")
	}
	class, err := glacier.ParseStorageClass(opts.StorageClass)
	if err != nil {
		return glacier.RestoreOptions{}, glacier.TransitOptions{}, err
	}
	if opts.PollSeconds <= 0 {
		return glacier.RestoreOptions{}, glacier.TransitOptions{}, errors.New("--poll must be a positive number of seconds")
	}

	topts := glacier.TransitOptions{
		StorageClass: class,
		PollInterval: time.Duration(opts.PollSeconds) * time.Second,
	}
	return ropts, topts, nil
}

func runTransit(ctx context.Context, gopts *GlobalOptions, opts TransitOptions) error {
	ropts, topts, err := resolveTransitOptions(gopts, opts)
	if err != nil {
		return err
	}

	store, err := gopts.objectStore(ctx)
	if err != nil {
		return err
	}

	scope := gopts.scope()
	records, err := glacier.NewLister(store, gopts.logger).ListCold(ctx, scope)
	if err != nil {
		return err
	}

	if err := glacier.NewRestorer(store, gopts.logger).Restore(ctx, scope, records, ropts); err != nil {
		return err
	}

	if err := glacier.NewTransitioner(store, gopts.logger).Run(ctx, scope, topts); err != nil {
		return err
	}

	fmt.Fprintf(gopts.stdout, "transitioned all objects to %s\n", topts.StorageClass)
	gopts.logger.Info("done listing, restoring and transitioning cold objects",
		zap.String("storage_class", string(topts.StorageClass)))
	return nil
}
