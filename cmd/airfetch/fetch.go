package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/airfetch/internal/platform"
	"github.com/aretw0/airfetch/pkg/adapters/memory"
	"github.com/aretw0/airfetch/pkg/core"
)

var (
	fetchFilter string
	fetchState  bool
	fetchDryRun bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [source-glob...]",
	Short: "Fetch sources into the vault",
	Long: `Fetch pulls every record of the matching sources that was updated within the
chosen window and writes it into the vault. Without arguments all sources are
fetched. Patterns match source names or IDs (e.g. "Reading*", "Research/**").

The window is asked interactively unless --filter is given: day, threeDays,
week, twoWeeks, month, all, a position 1-6, or a phrase such as "10 days ago".`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		cfg := loadConfig()

		selected, err := platform.SelectSources(cfg.Sources, args)
		if err != nil {
			fatal("Error selecting sources", err)
		}

		chooser, err := newChooser(fetchFilter)
		if err != nil {
			fatal("Error choosing filter", err)
		}

		opts := []platform.Option{
			platform.WithChooser(chooser),
			platform.WithNotifier(newNotifier()),
		}
		var preview *memory.Store
		if fetchDryRun {
			preview = memory.NewStore()
			opts = append(opts, platform.WithStore(preview), platform.WithHistory(""))
		}

		app := openApp(cfg, opts...)
		defer app.Close()

		resolver := newResolver()

		// One source: the engine asks for the window itself.
		// Several: ask once and reuse it.
		var filter core.FilterOption
		if len(selected) > 1 {
			filter, err = core.SelectFilter(ctx, chooser)
			if errors.Is(err, core.ErrNoSelection) {
				fmt.Println("No filter selected, nothing fetched.")
				return
			}
			if err != nil {
				fatal("Error choosing filter", err)
			}
		}

		for _, sc := range selected {
			src, err := platform.ResolveSource(ctx, resolver, sc)
			if err != nil {
				slog.Error("skipping source", "source", sc.Name, "error", err)
				continue
			}

			if len(selected) == 1 {
				_, err = app.Engine.Fetch(ctx, src)
			} else {
				_, err = app.Engine.FetchWithFilter(ctx, src, filter)
			}
			if errors.Is(err, core.ErrNoSelection) {
				fmt.Println("No filter selected, nothing fetched.")
				return
			}
			if err != nil {
				fatal("Error fetching "+sc.Name, err)
			}
		}

		if preview != nil {
			fmt.Println("Dry run, files that would be written:")
			for _, f := range preview.Files() {
				fmt.Printf("  %s\n", f)
			}
		}

		if fetchState {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(app.Engine.State()); err != nil {
				fatal("Error encoding state", err)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().StringVarP(&fetchFilter, "filter", "f", "", "Update window (skips the prompt)")
	fetchCmd.Flags().BoolVar(&fetchState, "state", false, "Print the engine state as JSON after fetching")
	fetchCmd.Flags().BoolVar(&fetchDryRun, "dry-run", false, "Fetch into memory and list the files instead of writing")
}
