package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/FairForge/thaw/internal/glacier"
)

var cmdRestore = &cobra.Command{
	Use:   "restore",
	Short: "request restore of all GLACIER objects in scope",
	Long: `
The "restore" command lists every GLACIER object under the bucket and
prefix and issues one restore request per object. The restore itself is
asynchronous on the provider side and can take hours depending on the
tier; use "check_restore" to follow progress.

Requesting a restore on an object that is already being restored is
reported as a warning and never fails the run.
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRestore(cmd.Context(), &globalOptions, restoreOptions)
	},
}

// RestoreOptions collects the restore subcommand flags.
type RestoreOptions struct {
	Days   int
	Tier   string
	Strict bool
	RPS    float64
}

var restoreOptions RestoreOptions

func init() {
	cmdRoot.AddCommand(cmdRestore)

	f := cmdRestore.Flags()
	f.IntVar(&restoreOptions.Days, "days", 0, "number of days to keep the restored copy retrievable")
	f.StringVar(&restoreOptions.Tier, "tier", "", "retrieval tier (Standard, Bulk or Expedited)")
	f.BoolVar(&restoreOptions.Strict, "strict", false, "abort on the first per-object failure instead of continuing")
	f.Float64Var(&restoreOptions.RPS, "rps", 0, "cap restore requests per second (0 = unlimited)")
}

// resolveRestoreOptions fills unset flags from the config file and
// validates the result.
func resolveRestoreOptions(gopts *GlobalOptions, opts RestoreOptions) (glacier.RestoreOptions, error) {
	if opts.Days == 0 {
		opts.Days = gopts.cfg.Restore.Days
	}
	if opts.Tier == "" {
		opts.Tier = gopts.cfg.Restore.Tier
	}
	if opts.RPS == 0 {
		opts.RPS = gopts.cfg.Restore.RPS
	}
	opts.Strict = opts.Strict || gopts.cfg.Restore.Strict

	if opts.Days <= 0 {
		return glacier.RestoreOptions{}, errors.New("--days must be a positive integer")
	}
	if opts.Tier == "" {
		return glacier.RestoreOptions{}, errors.New("--tier is required")
	}
	tier, err := glacier.ParseTier(opts.Tier)
	if err != nil {
		return glacier.RestoreOptions{}, err
	}

	return glacier.RestoreOptions{
		Days:   int32(opts.Days),
		Tier:   tier,
		Strict: opts.Strict,
		RPS:    opts.RPS,
	}, nil
}

func runRestore(ctx context.Context, gopts *GlobalOptions, opts RestoreOptions) error {
	ropts, err := resolveRestoreOptions(gopts, opts)
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

	fmt.Fprintf(gopts.stdout, "requested restore of %d objects\n", len(records))
	gopts.logger.Info("done listing and restoring cold objects",
		zap.Int("count", len(records)))
	return nil
}
