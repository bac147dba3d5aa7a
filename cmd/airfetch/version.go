package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/airfetch"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of airfetch",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("airfetch version %s\n", strings.TrimSpace(airfetch.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
