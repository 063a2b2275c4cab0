package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/xhad/plenum/pkg/manifest"
	"github.com/xhad/plenum/pkg/parser"
	"github.com/xhad/plenum/pkg/store"
)

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <period> [<index>]",
		Short: "Parse downloaded protocol documents into JSON records",
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

			total := 1
			if index == 0 {
				total = len(m.Fetched())
			}
			bar := getProgressBar(total, fmt.Sprintf("Parsing protocols for period %d...", period))

			p := parser.New(st)
			p.OnProgress = func(index int) {
				bar.Add(1)
			}

			result, err := p.Parse(m, index)
			bar.Finish()
			if err != nil {
				return err
			}

			color.Green("\n✓ %d parsed, %d failed\n", result.Parsed, result.Failed)
			if result.Failed > 0 {
				return fmt.Errorf("%d documents failed to parse", result.Failed)
			}
			return nil
		},
	}
}
