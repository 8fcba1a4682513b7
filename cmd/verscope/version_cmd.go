package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/verscope/verscope/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", version.AppName, version.Detailed())
	},
}
