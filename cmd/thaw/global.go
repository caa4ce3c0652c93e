package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/FairForge/thaw/internal/config"
	"github.com/FairForge/thaw/internal/glacier"
)

// GlobalOptions holds the flags shared by every subcommand. Flag values
// override THAW_* environment variables, which override the config
// file, which overrides the built-in defaults.
type GlobalOptions struct {
	Bucket     string
	Prefix     string
	Region     string
	Endpoint   string
	LogLevel   string
	ConfigFile string

	cfg    *config.Config
	logger *zap.Logger
	store  glacier.ObjectStore
	stdout io.Writer
}

var globalOptions = GlobalOptions{
	stdout: os.Stdout,
}

func init() {
	f := cmdRoot.PersistentFlags()
	f.StringVarP(&globalOptions.Bucket, "bucket", "b", "", "bucket to operate on (required)")
	f.StringVarP(&globalOptions.Prefix, "prefix", "p", "", "only operate on keys with this prefix")
	f.StringVar(&globalOptions.Region, "region", "", "AWS region (default: ambient configuration)")
	f.StringVar(&globalOptions.Endpoint, "endpoint", "", "S3-compatible endpoint URL")
	f.StringVarP(&globalOptions.LogLevel, "log-level", "l", "", "log level (debug, info, warn, error)")
	f.StringVar(&globalOptions.ConfigFile, "config", "", "path to a thaw.yaml config file")
}

// resolve layers config file, environment and changed flags into a
// final configuration and builds the logger.
func (g *GlobalOptions) resolve(cmd *cobra.Command) error {
	cfg, err := config.Load(g.ConfigFile)
	if err != nil {
		return err
	}
	config.LoadFromEnv(cfg)

	flags := cmd.Flags()
	if flags.Changed("bucket") {
		cfg.Bucket = g.Bucket
	}
	if flags.Changed("prefix") {
		cfg.Prefix = g.Prefix
	}
	if flags.Changed("region") {
		cfg.Region = g.Region
	}
	if flags.Changed("endpoint") {
		cfg.Endpoint = g.Endpoint
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = g.LogLevel
	}

	if cfg.Bucket == "" {
		return errors.New("--bucket is required")
	}
	g.cfg = cfg

	if g.logger == nil {
		logger, err := newLogger(cfg.LogLevel)
		if err != nil {
			return err
		}
		g.logger = logger
	}
	return nil
}

func (g *GlobalOptions) scope() glacier.BucketScope {
	return glacier.BucketScope{Bucket: g.cfg.Bucket, Prefix: g.cfg.Prefix}
}

// objectStore returns the injected store when tests set one, otherwise
// builds a real S3 client from the ambient credential chain.
func (g *GlobalOptions) objectStore(ctx context.Context) (glacier.ObjectStore, error) {
	if g.store != nil {
		return g.store, nil
	}
	return glacier.NewClient(ctx, g.cfg.Region, g.cfg.Endpoint)
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}
