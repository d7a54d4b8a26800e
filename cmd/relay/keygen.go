package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bananamirror/relay"
	"github.com/bananamirror/relay/keybackend"
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate an RSA key pair for request signing",
	Long: `Generate an RSA key pair. The public key goes into the server's
auth.keys configuration and the private key to the signing client.

Without --out both keys are printed as base64 DER. With --out they are
written to public.pem and private.pem in that directory.`,
	RunE: runKeygen,
}

func init() {
	keygenCmd.Flags().Int("bits", 4096, "RSA modulus size")
	keygenCmd.Flags().String("out", "", "directory to write public.pem and private.pem")

	rootCmd.AddCommand(keygenCmd)
}

func runKeygen(cmd *cobra.Command, args []string) error {
	bits, _ := cmd.Flags().GetInt("bits")
	out, _ := cmd.Flags().GetString("out")

	pub, priv, err := relay.GenerateKeyPair(bits)
	if err != nil {
		return err
	}

	if out == "" {
		w := cmd.OutOrStdout()
		_, _ = fmt.Fprintf(w, "public_key: %s\n", pub)
		_, _ = fmt.Fprintf(w, "private_key: %s\n", priv)
		return nil
	}

	pubPath := filepath.Join(out, "public.pem")
	privPath := filepath.Join(out, "private.pem")

	if err := keybackend.WriteKeyFile(pubPath, keybackend.PublicKeyBlock, pub); err != nil {
		return err
	}
	if err := keybackend.WriteKeyFile(privPath, keybackend.PrivateKeyBlock, priv); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s and %s\n", pubPath, privPath)
	return nil
}
