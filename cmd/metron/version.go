package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/metron"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of metron",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "metron version %s\n", strings.TrimSpace(metron.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
