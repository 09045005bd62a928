package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of primer-sieve",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("primer-sieve %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
