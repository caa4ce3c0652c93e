package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var cmdRoot = &cobra.Command{
	Use:   "thaw",
	Short: "restore S3 Glacier objects and move them to a warmer storage class",
	Long: `
thaw lists objects stored in the GLACIER storage class under a bucket
and optional prefix, requests their restore, reports restore progress
and, once every restore has completed, transitions the objects to a
target storage class.

Credentials come from the ambient AWS credential chain; set
S3_ACCESS_KEY and S3_SECRET_KEY to override it.
`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return globalOptions.resolve(cmd)
	},
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cmdRoot.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "thaw: %v\n", err)
		os.Exit(1)
	}
}
