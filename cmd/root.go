package cmd

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:   "finsight-trading",
	Short: "REST backend for the FInsight trading agent",
}

func init() {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(migrateCmd)
}

func Execute() error {
	return rootCmd.Execute()
}
