package main

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/airfetch/internal/platform"
	airlife "github.com/aretw0/airfetch/pkg/adapters/lifecycle"
	"github.com/aretw0/airfetch/pkg/adapters/prompt"
	"github.com/aretw0/airfetch/pkg/core"
)

var (
	watchInterval time.Duration
	watchFilter   string
)

var watchCmd = &cobra.Command{
	Use:   "watch [source-glob...]",
	Short: "Fetch periodically and whenever the config changes",
	Long: `Watch runs a fetch of the matching sources at startup, then on every interval
tick and every time the config file is saved. Runs never overlap.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		cfg := loadConfig()

		filter, err := core.SelectFilter(ctx, prompt.NewStatic(watchFilter))
		if err != nil {
			fatal("Error choosing filter", err)
		}

		src := airlife.NewTriggerSource(airlife.Config{
			Interval:   watchInterval,
			ConfigFile: cfg.File,
			Logger:     slog.Default(),
		})
		if err := src.Start(ctx); err != nil {
			fatal("Error starting watcher", err)
		}

		slog.Info("watching", "interval", watchInterval, "filter", filter.ID, "config", cfg.File)
		for ev := range src.Events() {
			trig, ok := ev.(airlife.Trigger)
			if !ok {
				continue
			}
			if trig.Reason == airlife.ReasonConfig {
				next, err := platform.LoadConfig(cfg.File, "")
				if err != nil {
					slog.Error("config reload failed, keeping previous", "error", err)
					continue
				}
				if vaultPath != "" {
					next.Vault = vaultPath
				}
				cfg = next
				slog.Info("config reloaded", "sources", len(cfg.Sources))
			}
			runCycle(ctx, cfg, args, filter, trig)
		}
	},
}

// runCycle fetches every matching source once.
func runCycle(ctx context.Context, cfg *platform.Config, patterns []string, filter core.FilterOption, trig airlife.Trigger) {
	selected, err := platform.SelectSources(cfg.Sources, patterns)
	if err != nil {
		slog.Error("no sources to fetch", "trigger", trig.Reason, "error", err)
		return
	}

	app, err := platform.New(cfg.Vault, append(cfg.VaultOptions(),
		platform.WithLogger(slog.Default()),
		platform.WithNotifier(newNotifier()),
	)...)
	if err != nil {
		slog.Error("failed to open vault", "error", err)
		return
	}
	defer app.Close()

	resolver := newResolver()
	for _, sc := range selected {
		src, err := platform.ResolveSource(ctx, resolver, sc)
		if err != nil {
			slog.Error("skipping source", "source", sc.Name, "error", err)
			continue
		}
		report, err := app.Engine.FetchWithFilter(ctx, src, filter)
		if errors.Is(err, context.Canceled) {
			return
		}
		if err != nil {
			slog.Error("fetch failed", "source", sc.Name, "error", err)
			continue
		}
		slog.Debug("cycle run finished", "source", sc.Name, "trigger", trig.Reason,
			"created", report.Created, "modified", report.Modified, "overwritten", report.Overwritten)
	}
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().DurationVarP(&watchInterval, "interval", "i", 30*time.Minute, "Time between fetches (0 disables the timer)")
	watchCmd.Flags().StringVarP(&watchFilter, "filter", "f", core.FilterDay.ID, "Update window for every run")
}
