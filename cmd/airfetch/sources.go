package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aretw0/airfetch/internal/platform"
)

var (
	sourcesJSON bool
	exportOut   string
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Inspect configured sources",
}

var sourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured sources",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		if sourcesJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(cfg.Sources); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}

		if len(cfg.Sources) == 0 {
			fmt.Println(platform.ErrNoSources)
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tID\tPATH\tKEY\tEXPORT")
		for _, s := range cfg.Sources {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%v\n", s.Name, s.ID, s.Path, keyKind(s.APIKey), s.Export)
		}
		w.Flush()
	},
}

var sourcesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the sources marked for export as shareable YAML (no IDs, no keys)",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		out, err := platform.ExportSources(cfg.Sources)
		if err != nil {
			fatal("Error exporting sources", err)
		}

		if exportOut == "" {
			os.Stdout.Write(out)
			return
		}
		if err := os.WriteFile(exportOut, out, 0644); err != nil {
			fatal("Error writing export", err)
		}
		fmt.Printf("Sources exported to %s\n", exportOut)
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
	sourcesCmd.AddCommand(sourcesListCmd, sourcesExportCmd)
	sourcesListCmd.Flags().BoolVar(&sourcesJSON, "json", false, "Output in JSON format")
	sourcesExportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "Write to a file instead of stdout")
}
