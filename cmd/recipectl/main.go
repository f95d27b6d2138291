// Package main implements recipectl, the command-line front end of the
// recipe retrieval engine: build and rebuild the store, search it, run
// retrievals and maintain snapshots.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/embedding"
	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/internal/config"
	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/internal/logging"
	"github.com/DurishettyAnirudh/AI-Code-Remediation-Microservice/vecstore"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	envFile    string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:   "recipectl",
		Short: "Build, search and maintain the remediation recipe store",
		Long: `recipectl manages the dual vector index over remediation recipes and
runs two-tier retrievals against it.

Configuration is read from recipevec.yaml in the working directory (or
--config), then RECIPEVEC_<SECTION>_<FIELD> environment variables. A .env
file is loaded first when present.`,
		Version:       version,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to YAML config (default ./"+config.DefaultFile+" when present)")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before reading configuration")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override logging.level")

	root.AddCommand(
		newBuildCmd(opts),
		newRebuildCmd(opts),
		newSearchCmd(opts),
		newRetrieveCmd(opts),
		newInspectCmd(opts),
		newVerifyCmd(opts),
		newConsoleCmd(opts),
		newConfigCmd(opts),
	)
	return root
}

// loadConfig applies the env file, then loads and validates configuration.
func (o *globalOptions) loadConfig() (*config.Config, error) {
	if o.envFile != "" {
		if err := godotenv.Load(o.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", o.envFile, err)
		}
	}
	path := o.configPath
	if path == "" {
		if _, err := os.Stat(config.DefaultFile); err == nil {
			path = config.DefaultFile
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		if err := cfg.Logging.Level.UnmarshalText([]byte(o.logLevel)); err != nil {
			return nil, fmt.Errorf("invalid --log-level: %w", err)
		}
	}
	return cfg, nil
}

// app holds the components a command works with.
type app struct {
	cfg     *config.Config
	logger  *logging.Logger
	encoder embedding.Encoder
	store   *vecstore.Store
}

// newApp loads configuration and creates the logger and encoder. The store
// is opened by openStore.
func (o *globalOptions) newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewLoggerTo(&cfg.Logging, cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	enc, err := embedding.New(cfg.EmbeddingConfig(), logger)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}
	return &app{cfg: cfg, logger: logger, encoder: enc}, nil
}

func (a *app) openStore(ctx context.Context) error {
	store, err := vecstore.Open(ctx, a.cfg.VecstoreConfig(), a.cfg.CorpusSource(a.logger), a.encoder, vecstore.WithLogger(a.logger))
	if err != nil {
		return err
	}
	a.store = store
	return nil
}

func (a *app) close() {
	if err := a.encoder.Close(); err != nil {
		a.logger.Warn(context.Background(), "encoder close failed", zap.Error(err))
	}
	_ = a.logger.Sync()
}

// withStore runs fn with an opened store.
func (o *globalOptions) withStore(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	a, err := o.newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()
	ctx := cmd.Context()
	if err := a.openStore(ctx); err != nil {
		return err
	}
	return fn(ctx, a)
}
