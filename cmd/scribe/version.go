package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/scribe"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of scribe",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("scribe version %s\n", strings.TrimSpace(scribe.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
