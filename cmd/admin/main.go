package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tag-admin",
		Short: "Maintenance commands for the tag service",
		Long: `tag-admin inspects tags, removes buckets no tag references and
issues tokens for the mutating HTTP routes.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config-path", ".", "directory holding config.yaml and .env")

	rootCmd.AddCommand(ListCmd())
	rootCmd.AddCommand(ReconcileCmd())
	rootCmd.AddCommand(TokenCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
