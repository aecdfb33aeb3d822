// Command formatapi extracts API endpoints and credentials from pasted text
// and renders them as ready-to-use configuration.
package main

import (
	"fmt"
	"os"

	"github.com/nulzo/formatapi/internal/cli"
	"github.com/nulzo/formatapi/internal/config"
	"github.com/nulzo/formatapi/internal/platform/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfg *config.Config
	log = zap.NewNop()

	configPath string
	noColor    bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:           "formatapi",
	Short:         "Extract API endpoints and keys from text",
	Long:          "Finds base URLs and API keys in pasted text, ranks the candidates, identifies the vendor and renders env, JSON, YAML, TOML or templated config.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if noColor {
			cli.SetEnabled(false)
		}

		logCfg := logger.DefaultConfig()
		logCfg.Level = cfg.Log.Level
		logCfg.Format = cfg.Log.Format
		if verbose {
			logCfg.Level = "debug"
		}
		logCfg.EnableColor = logCfg.EnableColor && cli.Enabled()
		logger.Initialize(logCfg)
		log = logger.Get()

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: ./config.yaml or ~/.formatapi/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, cli.Style("error: ", cli.Red)+err.Error())
		os.Exit(1)
	}
}
