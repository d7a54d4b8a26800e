package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/bananamirror/relay"
	"github.com/bananamirror/relay/keybackend"
)

var signCmd = &cobra.Command{
	Use:   "sign <body-file | body>",
	Short: "Print the signature for a request body",
	Long: `Sign a request body with a private key and print the base64 signature
expected in the Authorization header. Use "-" to read the body from stdin,
or --text to sign the argument itself as a binary string (one byte per
character, code points above 255 are truncated).

The body is signed byte for byte; re-serializing the JSON afterwards
invalidates the signature.`,
	Args: cobra.ExactArgs(1),
	RunE: runSign,
}

func init() {
	signCmd.Flags().String("key", "", "base64 PKCS#8 private key (env: RELAY_AUTH_KEYS_PRIVATE_KEY)")
	signCmd.Flags().String("key-file", "", "PEM or base64 private key file (env: RELAY_AUTH_KEYS_PRIVATE_KEY_FILE)")
	signCmd.Flags().Bool("text", false, "treat the argument as the body instead of a file path")

	rootCmd.AddCommand(signCmd)
}

func runSign(cmd *cobra.Command, args []string) error {
	keyCfg := keybackend.KeysConfig{
		PrivateKey:     os.Getenv("RELAY_AUTH_KEYS_PRIVATE_KEY"),
		PrivateKeyFile: os.Getenv("RELAY_AUTH_KEYS_PRIVATE_KEY_FILE"),
	}
	if v, _ := cmd.Flags().GetString("key"); v != "" {
		keyCfg.PrivateKey, keyCfg.PrivateKeyFile = v, ""
	}
	if v, _ := cmd.Flags().GetString("key-file"); v != "" {
		keyCfg.PrivateKeyFile = v
	}

	material, err := keybackend.Load(keyCfg)
	if err != nil {
		return err
	}
	if material.PrivateKey == "" {
		return errors.New("no private key: use --key or --key-file")
	}

	key, err := relay.ImportPrivateKey(material.PrivateKey)
	if err != nil {
		return err
	}

	body, err := readBody(cmd, args[0])
	if err != nil {
		return err
	}

	sig, err := key.Sign(body)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), sig)
	return nil
}

func readBody(cmd *cobra.Command, path string) ([]byte, error) {
	if text, _ := cmd.Flags().GetBool("text"); text {
		return relay.BodyFromString(path), nil
	}
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	body, err := os.ReadFile(path) //nolint:gosec // Path is supplied by the operator
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}
