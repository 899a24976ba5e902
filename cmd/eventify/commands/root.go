package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/sharath018/eventify-backend/config"
	"github.com/sharath018/eventify-backend/database"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// globalFlags override the matching environment settings when set.
type globalFlags struct {
	logLevel  string
	logFormat string
}

// NewRootCommand builds the eventify command tree. Running it without a
// subcommand starts the server.
func NewRootCommand() *cobra.Command {
	flags := &globalFlags{}

	serve := newServeCommand(flags)
	root := &cobra.Command{
		Use:   "eventify",
		Short: "EventiFy API server - events, RSVPs and comments",
		Long: `EventiFy is the REST backend for an event management app.

Configuration comes from environment variables (a .env file is loaded when
present). See "eventify serve --help" for the server lifecycle.`,
		SilenceUsage: true,
		RunE:         serve.RunE,
	}

	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level (debug, info, warn, error) (default: LOG_LEVEL or info)")
	root.PersistentFlags().StringVar(&flags.logFormat, "log-format", "", "log format (json, console) (default: LOG_FORMAT or json)")

	root.AddCommand(serve)
	root.AddCommand(newMigrateCommand(flags))
	root.AddCommand(newSeedCommand(flags))
	return root
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(flags *globalFlags) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flags.logLevel != "" {
		cfg.Logging.Level = flags.logLevel
	}
	if flags.logFormat != "" {
		cfg.Logging.Format = flags.logFormat
	}
	return cfg, nil
}

// openDatabase loads config, installs the logger, connects and migrates.
// The returned context carries the logger.
func openDatabase(ctx context.Context, flags *globalFlags) (context.Context, *config.Config, *gorm.DB, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return ctx, nil, nil, fmt.Errorf("config error: %w", err)
	}

	logger := config.NewLogger(cfg.Logging)
	ctx = logger.WithContext(ctx)

	db, err := database.Connect(cfg)
	if err != nil {
		return ctx, nil, nil, err
	}
	if err := database.Migrate(db, database.Models()...); err != nil {
		closeDatabase(ctx, db)
		return ctx, nil, nil, err
	}
	return ctx, cfg, db, nil
}

func closeDatabase(ctx context.Context, db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("closing database")
	}
}
