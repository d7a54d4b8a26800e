// Package config loads the relay server configuration.
//
// Sources are layered with viper, lowest precedence first: built-in defaults,
// config files (several may be given; each is merged over the previous one),
// RELAY_* environment variables, then command-line flags. The result is
// decoded into Config and checked with go-playground/validator struct tags.
//
//	cfg, err := config.Load([]string{"config.yaml", "config.local.yaml"}, cmd.Flags())
//	if err != nil {
//		return err
//	}
//	cmd.SetContext(config.WithContext(cmd.Context(), cfg))
//
// Environment variable names are the upper-cased key path with dots replaced
// by underscores, for example RELAY_MIRROR_DOMAIN or
// RELAY_AUTH_KEYS_PUBLIC_KEY_FILE. RELAY_AUTH_PERMITTED_IPS accepts a
// comma-separated list.
//
// mirror.domain has no default and must be set. The r2 storage type further
// needs an account id or endpoint and an access key pair.
package config
