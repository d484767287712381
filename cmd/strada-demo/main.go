package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "strada-demo",
		Short: "Demo server for the strada router",
		Long: `strada-demo runs a small HTTP server exercising the strada router:

  • JSON and text routes with path captures
  • Nested router delegation
  • A server-sent-events clock
  • A WebSocket echo endpoint
  • Static file serving`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
