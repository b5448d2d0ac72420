package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jask/innkeeper/internal/clock"
	"github.com/jask/innkeeper/internal/config"
	"github.com/jask/innkeeper/internal/database"
	"github.com/jask/innkeeper/internal/database/repository"
	"github.com/jask/innkeeper/internal/logging"
	"github.com/jask/innkeeper/internal/seed"
	"github.com/jask/innkeeper/internal/service"
	"github.com/jask/innkeeper/internal/session"
	"github.com/jask/innkeeper/internal/tui"
)

var (
	configFile string
	verbose    bool

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "innkeeper",
	Short: "Hotel group admin console",
	Long: `innkeeper compares the properties of a small hotel group side by side.

Run without arguments to sign in to the interactive console.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configFile != "" {
			if err := os.Setenv("INNKEEPER_CONFIG", configFile); err != nil {
				return err
			}
		}
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if verbose {
			cfg.Log.Level = "debug"
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		logger, err = logging.New(cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConsole(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file (default: ~/.config/innkeeper/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "Export format: excel, csv or pdf")
	exportCmd.Flags().StringVar(&exportPreset, "preset", "", `Filter preset, e.g. "Online Properties"`)
	seedCmd.Flags().BoolVar(&seedReset, "reset", false, "Delete all properties and metrics before seeding")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(propertiesCmd)
	rootCmd.AddCommand(exportCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// store is the opened database with its repositories.
type store struct {
	db         *sql.DB
	properties *repository.PropertyRepo
	metrics    *repository.MetricsRepo
	users      *repository.UserRepo
	// fresh is set when the database file did not exist before opening.
	fresh bool
}

func openStore() (*store, error) {
	_, statErr := os.Stat(cfg.Database.Path)
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	if err := database.RunMigrationsWithDB(db, cfg.Database.Migrations); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &store{
		db:         db,
		properties: repository.NewPropertyRepo(db),
		metrics:    repository.NewMetricsRepo(db),
		users:      repository.NewUserRepo(db),
		fresh:      errors.Is(statErr, os.ErrNotExist),
	}, nil
}

func (s *store) Close() error { return s.db.Close() }

func (s *store) seedRepos() seed.Repos {
	return seed.Repos{Properties: s.properties, Metrics: s.metrics}
}

func location() *time.Location {
	loc, err := time.LoadLocation(cfg.UI.Timezone)
	if err != nil {
		logger.Warn("using local timezone", zap.String("timezone", cfg.UI.Timezone), zap.Error(err))
		return time.Local
	}
	return loc
}

func exporter() *service.Exporter {
	return &service.Exporter{Dir: cfg.Export.Dir, CurrencySymbol: cfg.UI.CurrencySymbol, Logger: logger}
}

func runConsole(ctx context.Context) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if err := database.SeedDefaults(ctx, st.db, cfg.Session.AdminUser, cfg.Session.AdminPassword); err != nil {
		return fmt.Errorf("seed defaults: %w", err)
	}
	if st.fresh {
		logger.Info("new database, loading demo portfolio", zap.String("path", cfg.Database.Path))
		if err := seed.Seed(ctx, st.seedRepos()); err != nil {
			return err
		}
	}

	keys := tui.NewKeyRegistry()
	if err := keys.ApplyOverrides(cfg.Keys); err != nil {
		return err
	}

	monitor := service.NewSyncMonitor(clock.Real(), logger)
	monitor.Location = location()
	app := tui.New(ctx, cfg, tui.Services{
		Comparison: &service.ComparisonService{Properties: st.properties, Metrics: st.metrics, Logger: logger},
		Properties: &service.PropertyService{Properties: st.properties, Logger: logger},
		Exporter:   exporter(),
		Sync:       monitor,
		Sessions: &session.Manager{
			Users:       st.users,
			Clock:       clock.Real(),
			IdleTimeout: cfg.Session.IdleTimeout,
			Logger:      logger,
		},
	}, keys, logger)

	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if cfg.UI.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	if _, err := tea.NewProgram(app, opts...).Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}
