package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bananamirror/relay/clientcli"
)

var (
	version = "dev"

	cfgFile     string
	profileName string
	endpoint    string
	privateKey  string
	keyFile     string
	jsonOutput  bool
	quiet       bool
)

var rootCmd = &cobra.Command{
	Use:     "relay-cli",
	Version: version,
	Short:   "Client for the banana mirror upload relay",
	Long: `relay-cli signs requests with an RSA private key and sends them to a relay server.

Commands:
  - upload:    Upload local files into a category bucket
  - mirror:    Ask the relay to download a URL into a category bucket
  - delete:    Remove files from a category bucket
  - configure: Manage saved server profiles

Categories: mods, screenshots, richPresenceIcons`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.relay/config.yaml, env: RELAY_CONFIG)")
	rootCmd.PersistentFlags().StringVarP(&profileName, "profile", "p", "", "profile to use (env: RELAY_PROFILE)")
	rootCmd.PersistentFlags().StringVarP(&endpoint, "endpoint", "e", "", "relay URL (default: http://localhost:8787, env: RELAY_ENDPOINT)")
	rootCmd.PersistentFlags().StringVarP(&privateKey, "key", "k", "", "base64 PKCS#8 private key (env: RELAY_PRIVATE_KEY)")
	rootCmd.PersistentFlags().StringVar(&keyFile, "key-file", "", "private key file, PEM or base64 (env: RELAY_PRIVATE_KEY_FILE)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")

	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(mirrorCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(configureCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.code)
		}
		os.Exit(1)
	}
}

// getConfigPath resolves the config file from the flag, then env, then the default.
func getConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	if p := clientcli.ConfigPathFromEnv(); p != "" {
		return p
	}
	return clientcli.DefaultConfigPath()
}

// buildConfig merges the selected profile, env vars and flags (flags take precedence).
func buildConfig() (*clientcli.Config, error) {
	var configs []*clientcli.Config

	name := profileName
	if name == "" {
		name = clientcli.ProfileFromEnv()
	}
	explicit := cfgFile != "" || clientcli.ConfigPathFromEnv() != "" || name != ""

	if configPath := getConfigPath(); configPath != "" {
		file, err := clientcli.LoadConfigFile(configPath)
		switch {
		case err == nil:
			p, profileErr := file.GetProfile(name)
			if profileErr != nil {
				// An empty file is only a problem if the user asked for a profile.
				if name != "" || !errors.Is(profileErr, clientcli.ErrNoProfiles) {
					return nil, profileErr
				}
			} else {
				configs = append(configs, clientcli.ConfigFromProfile(p))
			}
		case explicit:
			return nil, err
		}
	}

	configs = append(configs, clientcli.ConfigFromEnv(), &clientcli.Config{
		Endpoint:       endpoint,
		PrivateKey:     privateKey,
		PrivateKeyFile: keyFile,
	})

	return clientcli.MergeConfig(configs...), nil
}

// getFormatter returns the appropriate formatter based on flags.
func getFormatter() clientcli.Formatter {
	return clientcli.NewFormatter(jsonOutput, quiet)
}

// getClient creates and returns a configured client.
func getClient() (*clientcli.Client, error) {
	cfg, err := buildConfig()
	if err != nil {
		return nil, err
	}

	client, err := clientcli.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return client, nil
}

// reportError prints err with the active formatter and returns it for cobra.
func reportError(err error) error {
	_ = getFormatter().FormatError(os.Stderr, err)
	return &exitError{code: 1}
}

// exitError is returned when we want to exit with a specific code
// but don't want cobra to print an error message.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return ""
}
