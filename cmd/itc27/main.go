// ITC27: adaptive employee engagement assessment over MCP.
//
// Usage:
//
//	itc27 serve                  # Start MCP server (stdio transport)
//	itc27 stats                  # Print aggregate statistics
//	itc27 leaderboard --limit 5  # Print the top results
//	itc27 result <pno>           # Print one stored result
//	itc27 delete <pno>           # Delete one stored result
//	itc27 wipe --yes             # Delete every stored result
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/piyushranjan2301/ITC27/internal/config"
	"github.com/piyushranjan2301/ITC27/internal/logging"
	itcserver "github.com/piyushranjan2301/ITC27/internal/server"
)

var (
	configPath string
	verbose    bool
	pretty     bool

	cfg         *config.Config
	logger      *zap.Logger
	closeLogger = func() {}
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "itc27",
		Short:         "Adaptive employee engagement assessment MCP server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(); err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("loading .env: %w", err)
			}
			path := configPath
			if path == "" {
				path = config.DefaultPath()
			}
			c, err := config.Load(path)
			if err != nil {
				return err
			}
			if err := c.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			cfg = c

			l, cleanup, err := logging.New(cfg.Logging, verbose)
			if err != nil {
				return fmt.Errorf("creating logger: %w", err)
			}
			logger, closeLogger = l, cleanup
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			closeLogger()
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ~/.itc27/config.yaml)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().BoolVar(&pretty, "pretty", false, "render reports for the terminal")

	root.AddCommand(
		serveCmd(),
		statsCmd(),
		leaderboardCmd(),
		resultCmd(),
		deleteCmd(),
		wipeCmd(),
		versionCmd(),
	)
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		// The version needs no config or logger.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "itc27 v%s\n", itcserver.Version)
		},
	}
}
