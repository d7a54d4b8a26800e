package keybackend

import (
	"encoding/pem"
	"fmt"
	"os"
	"strings"

	"github.com/bananamirror/relay"
)

// PEM block types written by WriteKeyFile.
const (
	PublicKeyBlock  = "PUBLIC KEY"
	PrivateKeyBlock = "PRIVATE KEY"
)

// LoadKeyFromFile reads a DER key from path and returns it base64 encoded.
// The file may hold a PEM block:
//
//	-----BEGIN PUBLIC KEY-----
//	MIIBIjANBgkqhkiG9w0BAQEFAAOCAQ8AMIIBCgKCAQEA...
//	-----END PUBLIC KEY-----
//
// or the bare base64 text, optionally wrapped across lines.
func LoadKeyFromFile(path string) (string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path is from trusted config file
	if err != nil {
		return "", fmt.Errorf("read key file: %w", err)
	}

	if block, _ := pem.Decode(data); block != nil {
		if len(block.Bytes) == 0 {
			return "", fmt.Errorf("parse key file %s: %w", path, ErrKeyNotFound)
		}
		return relay.EncodeBase64(block.Bytes), nil
	}

	key := strings.Join(strings.Fields(string(data)), "")
	if key == "" {
		return "", fmt.Errorf("parse key file %s: %w", path, ErrKeyNotFound)
	}

	return key, nil
}

// WriteKeyFile writes a base64 DER key to path as a PEM block of blockType.
func WriteKeyFile(path, blockType, keyB64 string) error {
	der, err := relay.DecodeBase64(keyB64)
	if err != nil {
		return fmt.Errorf("write key file: %w", err)
	}

	data := pem.EncodeToMemory(&pem.Block{Type: blockType, Bytes: der})
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write key file: %w", err)
	}

	return nil
}
