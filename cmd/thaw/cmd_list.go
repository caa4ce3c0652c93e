package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/FairForge/thaw/internal/glacier"
)

var cmdList = &cobra.Command{
	Use:   "list",
	Short: "list objects in the GLACIER storage class",
	Long: `
The "list" command prints the key of every object in the bucket (and
optional prefix) whose storage class is GLACIER, one key per line.
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList(cmd.Context(), &globalOptions)
	},
}

func init() {
	cmdRoot.AddCommand(cmdList)
}

func runList(ctx context.Context, gopts *GlobalOptions) error {
	store, err := gopts.objectStore(ctx)
	if err != nil {
		return err
	}

	records, err := glacier.NewLister(store, gopts.logger).ListCold(ctx, gopts.scope())
	if err != nil {
		return err
	}

	for _, rec := range records {
		fmt.Fprintln(gopts.stdout, rec.Key)
	}
	gopts.logger.Info("done listing cold objects", zap.Int("count", len(records)))
	return nil
}
