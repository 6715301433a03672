// Command velocity is a terminal rhythm game: tap along to a beat that speeds
// up while the streak holds.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/okian/velocity/internal/adapters/repository"
	service "github.com/okian/velocity/internal/app"
	"github.com/okian/velocity/internal/config"
	"github.com/okian/velocity/internal/domain/judge"
	"github.com/okian/velocity/pkg/logger"
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// app carries what every subcommand needs after setup.
type app struct {
	configPath string
	cfg        *config.Config
	log        logger.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "velocity",
		Short:         "Tap along to an accelerating beat",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Context())
		},
		RunE: a.runPlay,
	}
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config file (overrides "+config.EnvFile+")")

	rootCmd.AddCommand(a.newPlayCmd())
	rootCmd.AddCommand(a.newSimulateCmd())
	rootCmd.AddCommand(a.newStatsCmd())
	rootCmd.AddCommand(a.newResetCmd())

	return rootCmd
}

// setup loads configuration (defaults -> optional file -> env) and
// initializes logging.
func (a *app) setup(ctx context.Context) error {
	if a.configPath != "" {
		if err := os.Setenv(config.EnvFile, a.configPath); err != nil {
			return fmt.Errorf("failed to set config path: %w", err)
		}
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(logger.WithJSON(cfg.LogJSON)); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	a.cfg = cfg
	a.log = log
	return nil
}

func (a *app) openStore(ctx context.Context) (*repository.SQLiteStore, error) {
	st, err := repository.Open(ctx, a.cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open stats db: %w", err)
	}
	return st, nil
}

func (a *app) closeStore(ctx context.Context, st *repository.SQLiteStore) {
	if err := st.Close(); err != nil {
		a.log.Error(ctx, "failed to close stats db", logger.Error(err))
	}
}

func (a *app) guard(st repository.Store) *repository.Guard {
	return repository.NewGuard(st,
		repository.WithGuardLogger(logger.Named("stats")),
		repository.WithTimeout(a.cfg.StoreTimeout()),
	)
}

// newSession builds a session from the configured policy and windows.
func (a *app) newSession(opts ...service.Option) (*service.Session, error) {
	j, err := judge.New(judge.WithWindows(a.cfg.Windows()))
	if err != nil {
		return nil, fmt.Errorf("failed to build judge: %w", err)
	}
	base := []service.Option{
		service.WithLogger(logger.Named("session")),
		service.WithPolicy(a.cfg.Policy()),
		service.WithJudge(j),
	}
	s, err := service.New(append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to build session: %w", err)
	}
	return s, nil
}
