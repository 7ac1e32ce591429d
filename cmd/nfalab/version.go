package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/nfalab"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of nfalab",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("nfalab version %s\n", nfalab.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
