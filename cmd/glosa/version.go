package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/glosa"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of glosa",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("glosa version %s\n", glosa.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
