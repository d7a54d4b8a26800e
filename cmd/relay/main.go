package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/bananamirror/relay"
	"github.com/bananamirror/relay/config"
)

var version = "dev"

// needsConfig marks commands that load the server configuration.
const needsConfig = "needs-config"

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "relay",
	Short:   "Signed upload proxy for the mirror buckets",
	Long: `relay accepts RSA-PSS signed upload, mirror and delete requests from
permitted callers and applies them to the mods, screenshots and rich
presence icon buckets.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if _, ok := cmd.Annotations[needsConfig]; !ok {
			setupLogging(relay.EnvDevelopment, "")
			return nil
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		setupLogging(cfg.Env(), cfg.Log.Level)
		cmd.SetContext(config.WithContext(cmd.Context(), cfg))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringSlice("config", nil, "config file paths, later files override earlier ones (default: ./config.yaml)")
	rootCmd.PersistentFlags().String("env", "", "environment: production, development (env: RELAY_ENVIRONMENT)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (env: RELAY_LOG_LEVEL)")
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	files, _ := cmd.Flags().GetStringSlice("config")
	return config.Load(files, cmd.Flags())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
