package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/velocity/internal/adapters/repository"
	service "github.com/okian/velocity/internal/app"
	"github.com/okian/velocity/internal/domain/model"
	"github.com/okian/velocity/internal/simulate"
	"github.com/okian/velocity/pkg/logger"
)

func (a *app) newSimulateCmd() *cobra.Command {
	cfg := simulate.DefaultConfig()
	var persist bool

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play a game headlessly with a bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			var store repository.Store = repository.NewMemoryStore(model.Stats{})
			if persist {
				st, err := a.openStore(ctx)
				if err != nil {
					return err
				}
				defer a.closeStore(ctx, st)
				store = st
			}

			session, err := a.newSession(service.WithStatsStore(a.guard(store)))
			if err != nil {
				return err
			}

			report, err := simulate.Run(ctx, session, time.Now(), cfg, simulate.WithLogger(logger.Named("simulate")))
			if err != nil {
				return err
			}
			_, err = report.WriteTo(cmd.OutOrStdout())
			return err
		},
	}

	cmd.Flags().IntVar(&cfg.Beats, "beats", cfg.Beats, "number of beats to play")
	cmd.Flags().DurationVar(&cfg.Jitter, "jitter", cfg.Jitter, "standard deviation of the bot's tap offset")
	cmd.Flags().DurationVar(&cfg.Bias, "bias", cfg.Bias, "mean tap offset (negative is early)")
	cmd.Flags().Float64Var(&cfg.SkipRate, "skip", cfg.SkipRate, "probability of skipping a beat (0-1)")
	cmd.Flags().Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed")
	cmd.Flags().BoolVar(&persist, "persist", false, "record the run in the stats database")

	return cmd
}
