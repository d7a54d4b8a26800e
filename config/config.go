package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/bananamirror/relay"
	relayhttp "github.com/bananamirror/relay/http"
	"github.com/bananamirror/relay/keybackend"
)

// configKey is the context key for storing the loaded configuration.
type configKey struct{}

// WithContext returns a new context with the config stored.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config from context.
// Returns an error if config is not found.
func FromContext(ctx context.Context) (*Config, error) {
	cfg, ok := ctx.Value(configKey{}).(*Config)
	if !ok || cfg == nil {
		return nil, errors.New("config not found in context")
	}
	return cfg, nil
}

// Storage backend types.
const (
	StorageFilesystem = "filesystem"
	StorageR2         = "r2"
)

// Config is the root configuration struct for the relay.
type Config struct {
	Environment string               `mapstructure:"environment" validate:"required,oneof=production development prod dev"`
	Server      ServerConfig         `mapstructure:"server"`
	Auth        AuthConfig           `mapstructure:"auth"`
	Mirror      MirrorConfig         `mapstructure:"mirror"`
	Download    DownloadConfig       `mapstructure:"download"`
	Storage     StorageConfig        `mapstructure:"storage"`
	CORS        relayhttp.CORSConfig `mapstructure:"cors"`
	Log         LogConfig            `mapstructure:"log"`
}

// Env returns the parsed environment.
func (c *Config) Env() relay.Environment {
	env, err := relay.ParseEnvironment(c.Environment)
	if err != nil {
		return relay.EnvProduction
	}
	return env
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	MaxBodySize    int64  `mapstructure:"max_body_size" validate:"min=0"`
	ClientIPHeader string `mapstructure:"client_ip_header" validate:"required"`
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	PermittedIPs []string              `mapstructure:"permitted_ips" validate:"dive,ip"`
	Keys         keybackend.KeysConfig `mapstructure:"keys"`
}

// MirrorConfig holds the public mirror location used in confirmations.
type MirrorConfig struct {
	Domain string `mapstructure:"domain" validate:"required,hostname_rfc1123"`
}

// DownloadConfig bounds download-by-URL requests.
type DownloadConfig struct {
	MaxSize int64         `mapstructure:"max_size" validate:"min=0"` // 0 means no limit
	Timeout time.Duration `mapstructure:"timeout" validate:"min=0"`
}

// StorageConfig holds bucket backend configuration.
type StorageConfig struct {
	Type    string        `mapstructure:"type" validate:"required,oneof=filesystem r2"`
	Path    string        `mapstructure:"path" validate:"required_if=Type filesystem"`
	R2      R2Config      `mapstructure:"r2"`
	Buckets BucketsConfig `mapstructure:"buckets"`
}

// R2Config holds Cloudflare R2 credentials.
type R2Config struct {
	AccountID       string `mapstructure:"account_id"`
	Endpoint        string `mapstructure:"endpoint" validate:"omitempty,url"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UsePathStyle    bool   `mapstructure:"use_path_style"`
}

// BucketsConfig maps each file category to its bucket.
type BucketsConfig struct {
	Mods              BucketConfig `mapstructure:"mods"`
	Screenshots       BucketConfig `mapstructure:"screenshots"`
	RichPresenceIcons BucketConfig `mapstructure:"rich_presence_icons"`
}

// BucketConfig names a bucket and the public subdomain serving it.
type BucketConfig struct {
	Name      string `mapstructure:"name" validate:"required"`
	Subdomain string `mapstructure:"subdomain" validate:"required,hostname_rfc1123"`
}

// For returns the bucket configured for category c.
func (b BucketsConfig) For(c relay.Category) (BucketConfig, bool) {
	switch c {
	case relay.CategoryMods:
		return b.Mods, true
	case relay.CategoryScreenshots:
		return b.Screenshots, true
	case relay.CategoryRichPresenceIcons:
		return b.RichPresenceIcons, true
	default:
		return BucketConfig{}, false
	}
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
}

// flagToViperKey maps CLI flag names to viper configuration keys.
var flagToViperKey = map[string]string{
	"env":          "environment",
	"port":         "server.port",
	"domain":       "mirror.domain",
	"storage-type": "storage.type",
	"storage-path": "storage.path",
	"log-level":    "log.level",
}

// bindFlags binds CLI flags to viper keys with custom name mapping.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		// Use custom mapping if it exists, otherwise use flag name as-is
		viperKey := f.Name
		if mapped, ok := flagToViperKey[viperKey]; ok {
			viperKey = mapped
		}

		// Only bind if the flag was explicitly set
		if f.Changed {
			_ = v.BindPFlag(viperKey, f)
		}
	})
}

// setDefaults configures default values on the viper instance.
func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", string(relay.EnvProduction))

	v.SetDefault("server.port", 8787)
	v.SetDefault("server.max_body_size", 256<<20)
	v.SetDefault("server.client_ip_header", relayhttp.DefaultClientIPHeader)

	// Registered so that RELAY_AUTH_* environment variables are picked up.
	v.SetDefault("auth.permitted_ips", []string{})
	v.SetDefault("auth.keys.public_key", "")
	v.SetDefault("auth.keys.public_key_file", "")
	v.SetDefault("auth.keys.private_key", "")
	v.SetDefault("auth.keys.private_key_file", "")

	v.SetDefault("mirror.domain", "")

	v.SetDefault("download.max_size", relay.DefaultMaxDownloadSize)
	v.SetDefault("download.timeout", relay.DefaultDownloadTimeout)

	v.SetDefault("storage.type", StorageFilesystem)
	v.SetDefault("storage.path", "./data")
	v.SetDefault("storage.r2.account_id", "")
	v.SetDefault("storage.r2.endpoint", "")
	v.SetDefault("storage.r2.region", "auto")
	v.SetDefault("storage.r2.access_key_id", "")
	v.SetDefault("storage.r2.secret_access_key", "")
	v.SetDefault("storage.r2.use_path_style", false)

	v.SetDefault("storage.buckets.mods.name", "banana-mirror-mods")
	v.SetDefault("storage.buckets.mods.subdomain", "banana-mirror-mods")
	v.SetDefault("storage.buckets.screenshots.name", "banana-mirror-images")
	v.SetDefault("storage.buckets.screenshots.subdomain", "banana-mirror-images")
	v.SetDefault("storage.buckets.rich_presence_icons.name", "banana-mirror-rich-presence-icons")
	v.SetDefault("storage.buckets.rich_presence_icons.subdomain", "banana-mirror-rich-presence-icons")

	v.SetDefault("log.level", "info")
}

// Load reads configuration and returns a validated Config struct.
// Order of precedence (highest to lowest): flags > env > config files > defaults
//
// Parameters:
//   - configFiles: list of config file paths (later files override earlier ones)
//   - flags: cobra flag set for flag binding (can be nil)
func Load(configFiles []string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Read config files
	if len(configFiles) > 0 {
		v.SetConfigFile(configFiles[0])
		if err := v.ReadInConfig(); err != nil {
			slog.Warn("error reading config file", "file", configFiles[0], "err", err)
		}

		for _, cf := range configFiles[1:] {
			v.SetConfigFile(cf)
			if err := v.MergeInConfig(); err != nil {
				slog.Warn("error merging config file", "file", cf, "err", err)
			}
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		if err := v.ReadInConfig(); err != nil {
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				slog.Warn("error reading config file", "err", err)
			}
		}
	}

	// 3. Bind environment variables
	v.SetEnvPrefix("RELAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. Bind flags (if provided)
	if flags != nil {
		bindFlags(v, flags)
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Auth.PermittedIPs = splitList(cfg.Auth.PermittedIPs)

	// 6. Validate using go-playground/validator
	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	if err := cfg.validateStorage(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) validateStorage() error {
	if c.Storage.Type != StorageR2 {
		return nil
	}

	r2 := c.Storage.R2
	if r2.AccountID == "" && r2.Endpoint == "" {
		return errors.New("storage.r2: account_id or endpoint is required")
	}
	if r2.AccessKeyID == "" || r2.SecretAccessKey == "" {
		return errors.New("storage.r2: access_key_id and secret_access_key are required")
	}
	return nil
}

// splitList flattens comma-separated entries and drops blanks, so that
// "1.2.3.4, 5.6.7.8" from an environment variable becomes two entries.
func splitList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		for part := range strings.SplitSeq(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
