package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of reel",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("reel %s\n", Version)
		fmt.Println("Movie discovery")
		fmt.Println("github.com/pders01/reel")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
