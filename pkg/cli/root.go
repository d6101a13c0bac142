// Package cli implements the command-line client for the query backend.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	var opts clientOptions

	rootCmd := &cobra.Command{
		Use:           "dynasource",
		Short:         "Client for the DynamoDB datasource backend",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			// Precedence: flag > env > default.
			if !cmd.Flags().Changed("server") {
				if v := os.Getenv("DYNASOURCE_SERVER"); v != "" {
					opts.server = v
				}
			}
			if !cmd.Flags().Changed("token") {
				if v := os.Getenv("DYNASOURCE_TOKEN"); v != "" {
					opts.token = v
				}
			}
			if !cmd.Flags().Changed("api-key") {
				if v := os.Getenv("DYNASOURCE_API_KEY"); v != "" {
					opts.apiKey = v
				}
			}
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.server, "server", "http://localhost:8080", "server base URL")
	pf.StringVar(&opts.token, "token", "", "bearer token")
	pf.StringVar(&opts.apiKey, "api-key", "", "API key")

	rootCmd.AddCommand(newQueryCmd(&opts))
	rootCmd.AddCommand(newHealthCmd(&opts))
	return rootCmd
}
