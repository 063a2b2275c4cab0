package main

import (
	"fmt"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/xhad/plenum/pkg/manifest"
	"github.com/xhad/plenum/pkg/search"
	"github.com/xhad/plenum/pkg/store"
)

func newFeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "feed <period> [<index>]",
		Short: "Feed parsed protocol records into the search cluster",
		Args:  cobra.RangeArgs(1, 2),
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
			client, err := search.NewWithConfig(search.ClientConfig{
				URL:                cfg.Search.URL,
				Index:              cfg.Search.Index,
				Username:           cfg.Search.Username,
				Password:           cfg.Search.Password,
				InsecureSkipVerify: cfg.Search.InsecureSkipVerify,
				BatchSize:          cfg.Search.BatchSize,
			})
			if err != nil {
				return err
			}

			indices := []int{index}
			if index == 0 {
				indices = m.Fetched()
			}
			bar := getProgressBar(len(indices), fmt.Sprintf("Feeding protocols for period %d...", period))

			indexed, failed := 0, 0
			for _, i := range indices {
				protocol, err := st.ReadRecord(period, i)
				if err != nil {
					slog.Warn("could not read parsed record",
						"period", period, "index", i, "error", err)
					failed++
					bar.Add(1)
					continue
				}

				result, err := client.FeedProtocol(cmd.Context(), protocol)
				indexed += result.Indexed
				failed += result.Failed
				if err != nil {
					slog.Warn("could not feed protocol",
						"period", period, "index", i, "error", err)
					failed++
				}
				bar.Add(1)
			}
			bar.Finish()

			color.Green("\n✓ %d paragraphs indexed, %d failed\n", indexed, failed)
			if failed > 0 {
				return fmt.Errorf("%d feed operations failed", failed)
			}
			return nil
		},
	}
}
