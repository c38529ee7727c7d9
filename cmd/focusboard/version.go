package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "focusboard v%s\n", version)
	},
}

func init() {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate("focusboard v{{.Version}}\n")
	rootCmd.AddCommand(versionCmd)
}
