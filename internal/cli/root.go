// Package cli wires the qmon commands: the dashboard itself, the mock queue
// server, the smoke check, run export and self-update.
package cli

import (
	"github.com/bluesky/qmon/internal/config"
	"github.com/bluesky/qmon/internal/ui/panels"
	"github.com/spf13/cobra"
)

var (
	configPath string
	serverURL  string
)

var rootCmd = &cobra.Command{
	Use:   "qmon",
	Short: "Run queue monitor",
	Long: `qmon is a terminal dashboard for monitoring and controlling an experiment
run queue. It follows the queue server's live event stream and can load,
browse and export the documents of any run.`,
	Version:       panels.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default: discovered qmon.yaml/qmon.toml)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "queue server URL (overrides config)")

	rootCmd.AddCommand(mockServerCmd)
	rootCmd.AddCommand(smokeCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig resolves the config file and applies the --server override.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if serverURL != "" {
		cfg.Server.URL = serverURL
	}
	return cfg, nil
}
