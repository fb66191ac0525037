package main

import (
	"fmt"
	"os"

	"github.com/lunahealth/luna/internal/common"
	"github.com/spf13/cobra"
	"github.com/ternarybob/arbor"
)

var (
	// Command-line flags
	configFiles []string
	serverPort  int
	serverHost  string

	// Global state, initialized before any subcommand runs
	config *common.Config
	logger arbor.ILogger
)

var rootCmd = &cobra.Command{
	Use:   "luna",
	Short: "Personal health tracking assistant with a document knowledge base",
	Long: `Luna tracks symptoms and menstrual cycles and answers health questions
from an embedded corpus of medical documents.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initApp()
	},
}

func init() {
	rootCmd.PersistentFlags().StringArrayVarP(&configFiles, "config", "c", nil,
		"Configuration file path (repeatable, later files override earlier ones)")
	rootCmd.PersistentFlags().IntVarP(&serverPort, "port", "p", 0, "Server port (overrides config)")
	rootCmd.PersistentFlags().StringVar(&serverHost, "host", "", "Server host (overrides config)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(versionCmd)
}

// initApp loads configuration and initializes logging.
// Startup sequence (REQUIRED ORDER):
// 1. Load config (defaults -> file1 -> file2 -> ... -> env)
// 2. Apply CLI overrides (highest priority)
// 3. Initialize logger
func initApp() error {
	paths := configFiles
	if len(paths) == 0 {
		// Auto-discover a config file next to the binary or in the cwd
		if _, err := os.Stat("luna.toml"); err == nil {
			paths = []string{"luna.toml"}
		}
	}

	var err error
	config, err = common.LoadFromFiles(paths...)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	common.ApplyFlagOverrides(config, serverPort, serverHost)

	logger = common.InitLogger(config)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
