package main

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/xhad/plenum/pkg/loader"
	"github.com/xhad/plenum/pkg/manifest"
	"github.com/xhad/plenum/pkg/store"
)

func newLoadCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "load <period> [<index>]",
		Short: "Download protocol documents for a legislative period",
		Long: "Download protocol documents for a legislative period. Documents the\n" +
			"manifest already records as fetched are skipped unless --force is given.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			period, index, err := parsePeriodArgs(args)
			if err != nil {
				return err
			}

			st, err := store.New(cfg.Store.Dir)
			if err != nil {
				return err
			}
			m, err := manifest.Load(cfg.Store.Dir, period)
			if err != nil {
				return err
			}

			bar := getProgressBar(-1, fmt.Sprintf("Downloading protocols for period %d...", period))
			l, err := loader.NewWithConfig(st, loader.LoaderConfig{
				BaseURL:   cfg.Source.BaseURL,
				MaxIndex:  cfg.Source.MaxIndex,
				MaxMisses: cfg.Source.MaxMisses,
				RateLimit: cfg.Source.RateLimit,
				Timeout:   time.Duration(cfg.Source.TimeoutSeconds) * time.Second,
				Retries:   cfg.Source.Retries,
				OnProgress: func(index int) {
					bar.Add(1)
				},
			})
			if err != nil {
				return err
			}

			result, runErr := l.Load(cmd.Context(), m, index, force)
			// The manifest records all completed indices even when the
			// run aborted, so save before reporting.
			saveErr := m.Save(cfg.Store.Dir)
			bar.Finish()

			if runErr != nil {
				return runErr
			}
			if saveErr != nil {
				return saveErr
			}

			color.Green("\n✓ %d fetched, %d skipped, %d failed\n",
				result.Fetched, result.Skipped, result.Failed)
			if result.Failed > 0 {
				return fmt.Errorf("%d documents failed to download", result.Failed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Re-fetch documents already marked fetched")
	return cmd
}
