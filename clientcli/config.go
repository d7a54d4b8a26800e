package clientcli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

// DefaultEndpoint is the default server endpoint URL.
const DefaultEndpoint = "http://localhost:8787"

// Profile holds configuration for a single server profile.
type Profile struct {
	Name           string `yaml:"name"`
	Endpoint       string `yaml:"endpoint"`
	PrivateKey     string `yaml:"private_key,omitempty"`
	PrivateKeyFile string `yaml:"private_key_file,omitempty"`
	Default        bool   `yaml:"default,omitempty"`
}

// ConfigFile is the on-disk profile list.
type ConfigFile struct {
	Profiles []Profile `yaml:"profiles"`
}

func (c *ConfigFile) index(name string) int {
	return slices.IndexFunc(c.Profiles, func(p Profile) bool { return p.Name == name })
}

// GetProfile looks a profile up by name. An empty name selects the default profile.
func (c *ConfigFile) GetProfile(name string) (*Profile, error) {
	if name == "" {
		return c.GetDefaultProfile()
	}
	if len(c.Profiles) == 0 {
		return nil, ErrNoProfiles
	}
	i := c.index(name)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	return &c.Profiles[i], nil
}

// GetDefaultProfile returns the profile flagged as default, falling back to the first.
func (c *ConfigFile) GetDefaultProfile() (*Profile, error) {
	if len(c.Profiles) == 0 {
		return nil, ErrNoProfiles
	}
	if i := slices.IndexFunc(c.Profiles, func(p Profile) bool { return p.Default }); i >= 0 {
		return &c.Profiles[i], nil
	}
	return &c.Profiles[0], nil
}

// AddProfile appends p. Names are unique; use UpdateProfile to replace one.
func (c *ConfigFile) AddProfile(p Profile) error {
	if c.index(p.Name) >= 0 {
		return fmt.Errorf("%w: %s", ErrProfileExists, p.Name)
	}
	c.Profiles = append(c.Profiles, p)
	return nil
}

// UpdateProfile replaces the profile with the same name.
func (c *ConfigFile) UpdateProfile(p Profile) error {
	i := c.index(p.Name)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, p.Name)
	}
	c.Profiles[i] = p
	return nil
}

// RemoveProfile deletes the named profile.
func (c *ConfigFile) RemoveProfile(name string) error {
	i := c.index(name)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	c.Profiles = slices.Delete(c.Profiles, i, i+1)
	return nil
}

// SetDefault marks name as the only default profile.
func (c *ConfigFile) SetDefault(name string) error {
	if c.index(name) < 0 {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	for i := range c.Profiles {
		c.Profiles[i].Default = c.Profiles[i].Name == name
	}
	return nil
}

// ProfileNames lists profile names in file order.
func (c *ConfigFile) ProfileNames() []string {
	names := make([]string, 0, len(c.Profiles))
	for _, p := range c.Profiles {
		names = append(names, p.Name)
	}
	return names
}

// Save writes the profile list to path with owner-only permissions, creating the
// directory if needed. Profiles may hold private keys.
func (c *ConfigFile) Save(path string) error {
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// LoadConfigFile reads a profile list. A missing file wraps os.ErrNotExist.
func LoadConfigFile(path string) (*ConfigFile, error) {
	f, err := os.Open(filepath.Clean(path)) //#nosec G304 -- path is the user's config file
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var cfg ConfigFile
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return &cfg, nil
}

// DefaultConfigPath returns the default config file path (~/.relay/config.yaml).
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".relay", "config.yaml")
}

// Config is the resolved connection setting a Client is built from.
type Config struct {
	Endpoint       string
	PrivateKey     string // base64 PKCS#8
	PrivateKeyFile string // PEM or base64 file, overrides PrivateKey
}

// WithDefaults returns a copy with DefaultEndpoint filled in.
func (c *Config) WithDefaults() *Config {
	out := *c
	if out.Endpoint == "" {
		out.Endpoint = DefaultEndpoint
	}
	return &out
}

// ValidateWithAuth reports ErrPrivateKeyRequired when no key source is set.
func (c *Config) ValidateWithAuth() error {
	if c.PrivateKey == "" && c.PrivateKeyFile == "" {
		return ErrPrivateKeyRequired
	}
	return nil
}

// ConfigFromProfile converts a saved profile. A nil profile yields an empty Config.
func ConfigFromProfile(p *Profile) *Config {
	if p == nil {
		return &Config{}
	}
	return &Config{Endpoint: p.Endpoint, PrivateKey: p.PrivateKey, PrivateKeyFile: p.PrivateKeyFile}
}

// Environment variables read by the client.
const (
	EnvEndpoint       = "RELAY_ENDPOINT"
	EnvPrivateKey     = "RELAY_PRIVATE_KEY"
	EnvPrivateKeyFile = "RELAY_PRIVATE_KEY_FILE"
	EnvProfile        = "RELAY_PROFILE"
	EnvConfig         = "RELAY_CONFIG"
)

// ConfigFromEnv reads RELAY_ENDPOINT, RELAY_PRIVATE_KEY and RELAY_PRIVATE_KEY_FILE.
func ConfigFromEnv() *Config {
	return &Config{
		Endpoint:       os.Getenv(EnvEndpoint),
		PrivateKey:     os.Getenv(EnvPrivateKey),
		PrivateKeyFile: os.Getenv(EnvPrivateKeyFile),
	}
}

// ProfileFromEnv returns RELAY_PROFILE.
func ProfileFromEnv() string { return os.Getenv(EnvProfile) }

// ConfigPathFromEnv returns RELAY_CONFIG.
func ConfigPathFromEnv() string { return os.Getenv(EnvConfig) }

// MergeConfig layers configs left to right. Empty fields never override. The key is
// taken as a unit: whichever later config names a key (inline or file) replaces both
// key fields, so a flag-supplied file is not shadowed by a profile's inline key.
func MergeConfig(configs ...*Config) *Config {
	out := &Config{}
	for _, cfg := range configs {
		if cfg == nil {
			continue
		}
		if cfg.Endpoint != "" {
			out.Endpoint = cfg.Endpoint
		}
		if cfg.PrivateKey != "" || cfg.PrivateKeyFile != "" {
			out.PrivateKey, out.PrivateKeyFile = cfg.PrivateKey, cfg.PrivateKeyFile
		}
	}
	return out
}
