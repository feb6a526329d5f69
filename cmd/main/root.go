package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/CTAG07/chaingen/pkg/corpus"
	"github.com/spf13/cobra"
)

// cli carries the persistent flags and the state built from them for one
// command invocation.
type cli struct {
	configPath string
	dbPath     string
	logLevel   string

	config *Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:   "chaingen",
		Short: "Generate text from order-k Markov chains",
		Long: `chaingen learns which symbol follows every run of k symbols in its
training text and then walks that chain to produce new text. Symbols are
characters by default, or words with --mode word.`,
		Version:      fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, BuildDate),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&c.configPath, "config", "./config.json", "Path to the JSON config file (created with defaults if missing)")
	rootCmd.PersistentFlags().StringVar(&c.dbPath, "db", "", "Path to the corpus database (overrides database_path)")
	rootCmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "Log level: debug, info, warn or error (overrides log_level)")

	rootCmd.AddCommand(
		newGenerateCmd(c),
		newCorpusCmd(c),
		newDumpCmd(c),
	)
	return rootCmd
}

// setup loads the config file, applies persistent flag overrides and builds
// the logger.
func (c *cli) setup(cmd *cobra.Command) error {
	cfg, err := LoadConfig(c.configPath)
	if err != nil {
		return err
	}
	if c.dbPath != "" {
		cfg.DatabasePath = c.dbPath
	}
	if c.logLevel != "" {
		cfg.LogLevel = c.logLevel
	}

	c.config = cfg
	c.logger = newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	c.logger.Debug("Configuration loaded", "path", c.configPath, "database", cfg.DatabasePath)
	return nil
}

// openStore opens the corpus database, ensures its schema and returns a
// ready Store. The returned function closes both.
func (c *cli) openStore(ctx context.Context) (*corpus.Store, func(), error) {
	db, err := openDB(c.config.DatabasePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to open database %s: %w", c.config.DatabasePath, err)
	}
	if err = corpus.SetupSchema(db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to setup corpus schema: %w", err)
	}

	store, err := corpus.NewStore(db)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to prepare corpus store: %w", err)
	}
	store.SetLogger(c.logger)

	return store, func() {
		store.Close()
		closeDB(db, c.logger)
	}, nil
}

func closeDB(db *sql.DB, logger *slog.Logger) {
	if err := db.Close(); err != nil {
		logger.Error("Failed to close database", "error", err)
	}
}
