package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/xhad/plenum/pkg/config"
)

var (
	cfgPath string
	cfg     *config.Config
)

func main() {
	root := &cobra.Command{
		Use:           "plenum",
		Short:         "Fetch, parse and index parliament session protocols",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.LoadConfig(cfgPath)
			if err != nil {
				return err
			}
			if errs := cfg.Validate(); len(errs) > 0 {
				for _, e := range errs {
					fmt.Fprintln(os.Stderr, "config:", e)
				}
				return fmt.Errorf("invalid configuration")
			}
			setupLogging(cfg)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to config file")
	root.AddCommand(newLoadCmd(), newParseCmd(), newFeedCmd(), newSpeakersCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func setupLogging(cfg *config.Config) {
	var level slog.Level
	switch cfg.Log.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Log.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// parsePeriodArgs parses the <period> [<index>] argument pair shared by
// the load, parse and feed commands. index is 0 when not given.
func parsePeriodArgs(args []string) (period, index int, err error) {
	period, err = strconv.Atoi(args[0])
	if err != nil || period < 1 {
		return 0, 0, fmt.Errorf("period must be a positive integer, got %q", args[0])
	}
	if !cfg.SupportedPeriod(period) {
		return 0, 0, fmt.Errorf("unsupported period %d (supported: %v)", period, cfg.Source.Periods)
	}
	if len(args) > 1 {
		index, err = strconv.Atoi(args[1])
		if err != nil || index < 1 {
			return 0, 0, fmt.Errorf("document index must be a positive integer, got %q", args[1])
		}
	}
	return period, index, nil
}
