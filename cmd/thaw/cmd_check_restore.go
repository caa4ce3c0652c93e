package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/FairForge/thaw/internal/glacier"
)

var cmdCheckRestore = &cobra.Command{
	Use:   "check_restore",
	Short: "report restore status of every object in scope",
	Long: `
The "check_restore" command prints key and restore status
(not-started, in-progress or completed) for every object under the
bucket and prefix, one pair per line.
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheckRestore(cmd.Context(), &globalOptions)
	},
}

func init() {
	cmdRoot.AddCommand(cmdCheckRestore)
}

func runCheckRestore(ctx context.Context, gopts *GlobalOptions) error {
	store, err := gopts.objectStore(ctx)
	if err != nil {
		return err
	}

	scope := gopts.scope()
	records, err := glacier.NewLister(store, gopts.logger).ListAll(ctx, scope)
	if err != nil {
		return err
	}

	records, err = glacier.NewStatusChecker(store, gopts.logger).Check(ctx, scope, records)
	if err != nil {
		return err
	}

	for _, rec := range records {
		fmt.Fprintf(gopts.stdout, "%s\t%s\n", rec.Key, rec.RestoreStatus)
	}
	return nil
}
