package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/aretw0/airfetch/internal/platform"
	"github.com/aretw0/airfetch/pkg/adapters/history"
)

var (
	historySource string
	historyLimit  int
	historyJSON   bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent fetch runs",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		path := platform.HistoryPath(cfg.Vault, vaultOptions(cfg)...)
		if path == "" {
			fatal("Error opening history", fmt.Errorf("history is disabled in the config"))
		}

		store, err := history.Open(cmd.Context(), path)
		if err != nil {
			fatal("Error opening history", err)
		}
		defer store.Close()

		runs, err := store.List(cmd.Context(), history.Query{Source: historySource, Limit: historyLimit})
		if err != nil {
			fatal("Error listing runs", err)
		}

		if historyJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(runs); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}

		if len(runs) == 0 {
			fmt.Println("No runs recorded yet.")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "WHEN\tSOURCE\tFILTER\tRECORDS\tCREATED\tUPDATED\tFAILED\tERROR")
		for _, r := range runs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
				humanize.Time(r.StartedAt), r.SourceName, r.Filter, humanize.Comma(int64(r.Records)),
				r.Created, r.Overwritten+r.Modified, r.Failed, r.FetchError)
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().StringVarP(&historySource, "source", "s", "", "Only runs of this source (name or ID)")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of runs to show")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Output in JSON format")
}
