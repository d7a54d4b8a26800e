// Package keybackend loads the relay's RSA key material from configuration.
package keybackend

// KeysConfig holds configuration for loading the signing key pair.
// Values are base64 DER (SPKI for the public key, PKCS8 for the private key).
type KeysConfig struct {
	PublicKey      string `mapstructure:"public_key"`       // Inline public key
	PublicKeyFile  string `mapstructure:"public_key_file"`  // PEM or base64 file
	PrivateKey     string `mapstructure:"private_key"`      // Inline private key, development only
	PrivateKeyFile string `mapstructure:"private_key_file"` // PEM or base64 file
}

// Material is the resolved key material, still base64 encoded.
// Importing is left to relay.NewCredentials so that a bad key surfaces as a
// per-request configuration error.
type Material struct {
	PublicKey  string
	PrivateKey string
}

// Load resolves cfg into key material.
// File keys take precedence over inline keys if both are set.
func Load(cfg KeysConfig) (Material, error) {
	m := Material{
		PublicKey:  cfg.PublicKey,
		PrivateKey: cfg.PrivateKey,
	}

	if cfg.PublicKeyFile != "" {
		key, err := LoadKeyFromFile(cfg.PublicKeyFile)
		if err != nil {
			return Material{}, err
		}
		m.PublicKey = key
	}

	if cfg.PrivateKeyFile != "" {
		key, err := LoadKeyFromFile(cfg.PrivateKeyFile)
		if err != nil {
			return Material{}, err
		}
		m.PrivateKey = key
	}

	return m, nil
}
