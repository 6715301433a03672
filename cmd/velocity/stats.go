package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/velocity/internal/domain/model"
)

var errResetNotConfirmed = errors.New("refusing to reset stats without --yes")

type statsOutput struct {
	model.Stats
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *app) newStatsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show lifetime stats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			st, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer a.closeStore(ctx, st)

			stats, err := st.Load(ctx)
			if err != nil {
				return fmt.Errorf("failed to load stats: %w", err)
			}
			updated, err := st.UpdatedAt(ctx)
			if err != nil {
				return fmt.Errorf("failed to load stats: %w", err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(statsOutput{Stats: stats, UpdatedAt: updated})
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintf(tw, "high score\t%d\n", stats.HighScore)
			_, _ = fmt.Fprintf(tw, "best streak\t%d\n", stats.BestStreak)
			_, _ = fmt.Fprintf(tw, "games played\t%d\n", stats.TotalGames)
			_, _ = fmt.Fprintf(tw, "total perfects\t%d\n", stats.TotalPerfects)
			_, _ = fmt.Fprintf(tw, "updated\t%s\n", updated.Local().Format(time.DateTime))
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func (a *app) newResetCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Clear all lifetime stats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errResetNotConfirmed
			}
			ctx := cmd.Context()
			st, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer a.closeStore(ctx, st)

			if err := st.Clear(ctx); err != nil {
				return fmt.Errorf("failed to reset stats: %w", err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "stats cleared")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}
