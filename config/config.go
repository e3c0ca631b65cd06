package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yairfalse/etsi/types"
)

// Environment variables honored by Load. A value set in the environment
// wins over the config file.
const (
	EnvConfigPath        = "ETSI_CONFIG"
	EnvCloudflareToken   = "CLOUDFLARE_API_TOKEN"
	EnvCoolifyBaseURL    = "COOLIFY_BASE_URL"
	EnvCoolifyToken      = "COOLIFY_API_TOKEN"
	EnvDigitalOceanToken = "DIGITALOCEAN_TOKEN"
	EnvGoogleCredentials = "GOOGLE_APPLICATION_CREDENTIALS"
	EnvGCPProjects       = "GCP_PROJECTS"
)

// Config holds the resolved per-provider credentials. Providers without
// credentials are simply skipped during discovery.
type Config struct {
	Cloudflare   CloudflareConfig   `yaml:"cloudflare,omitempty"`
	Coolify      CoolifyConfig      `yaml:"coolify,omitempty"`
	DigitalOcean DigitalOceanConfig `yaml:"digitalocean,omitempty"`
	GCP          GCPConfig          `yaml:"gcp,omitempty"`
}

// CloudflareConfig configures the Cloudflare adapter.
type CloudflareConfig struct {
	APIToken string `yaml:"api_token,omitempty"`
}

// Configured reports whether Cloudflare credentials are present.
func (c CloudflareConfig) Configured() bool { return c.APIToken != "" }

// CoolifyConfig configures the Coolify adapter.
type CoolifyConfig struct {
	BaseURL  string `yaml:"base_url,omitempty"`
	APIToken string `yaml:"api_token,omitempty"`
}

// Configured reports whether Coolify credentials are present.
func (c CoolifyConfig) Configured() bool { return c.BaseURL != "" && c.APIToken != "" }

// GCPConfig configures the GCP adapter. Auth falls back to application
// default credentials when no credentials file is set.
type GCPConfig struct {
	CredentialsFile  string   `yaml:"credentials_file,omitempty"`
	Projects         []string `yaml:"projects,omitempty"`
	DiscoverProjects bool     `yaml:"discover_projects,omitempty"`
}

// Configured reports whether the GCP adapter has enough to run. Bare ADC
// with no project signal does not count: discovery needs either a static
// project list or discover_projects enabled, or at least an explicit
// credentials file.
func (c GCPConfig) Configured() bool {
	return c.CredentialsFile != "" || len(c.Projects) > 0 || c.DiscoverProjects
}

// DigitalOceanConfig configures the DigitalOcean adapter.
type DigitalOceanConfig struct {
	Token string `yaml:"token,omitempty"`
}

// Configured reports whether DigitalOcean credentials are present.
func (c DigitalOceanConfig) Configured() bool { return c.Token != "" }

// Dir returns the etsi configuration directory.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".etsi"), nil
}

// DefaultPath returns the config file path, honoring ETSI_CONFIG.
func DefaultPath() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config file at path (the default path when empty) and
// applies environment overrides. A missing file is fine: environment
// variables alone can configure providers.
func Load(path string) (*Config, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFile reads only the persisted file, no environment overrides.
// Config set flows use it so env values never leak into the saved file.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	var cfg Config
	data, err := os.ReadFile(path) // #nosec G304 -- path is intentional user input
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case os.IsNotExist(err):
		// nothing persisted yet
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return &cfg, nil
}

// Save writes the config to path (the default path when empty) with
// owner-only permissions.
func (c *Config) Save(path string) error {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate catches half-configured providers early.
func (c *Config) Validate() error {
	if (c.Coolify.APIToken == "") != (c.Coolify.BaseURL == "") {
		return fmt.Errorf("coolify needs both base_url and api_token")
	}
	if c.Coolify.BaseURL != "" {
		u, err := url.Parse(c.Coolify.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("coolify base_url %q is not a valid URL", c.Coolify.BaseURL)
		}
	}
	return nil
}

// ProviderConfigured reports whether the named provider has credentials.
func (c *Config) ProviderConfigured(name string) bool {
	switch name {
	case types.ProviderCloudflare:
		return c.Cloudflare.Configured()
	case types.ProviderCoolify:
		return c.Coolify.Configured()
	case types.ProviderDigitalOcean:
		return c.DigitalOcean.Configured()
	case types.ProviderGCP:
		return c.GCP.Configured()
	}
	return false
}

// ConfiguredProviders returns the configured provider names in priority
// order.
func (c *Config) ConfiguredProviders() []string {
	var names []string
	for _, name := range types.Providers {
		if c.ProviderConfigured(name) {
			names = append(names, name)
		}
	}
	return names
}

// Setting is one displayable configuration field.
type Setting struct {
	Key   string
	Value string
}

// Describe returns the provider's settings for display, secrets redacted.
func (c *Config) Describe(provider string) []Setting {
	switch provider {
	case types.ProviderCloudflare:
		return []Setting{{"api_token", redact(c.Cloudflare.APIToken)}}
	case types.ProviderCoolify:
		return []Setting{
			{"base_url", c.Coolify.BaseURL},
			{"api_token", redact(c.Coolify.APIToken)},
		}
	case types.ProviderDigitalOcean:
		return []Setting{{"token", redact(c.DigitalOcean.Token)}}
	case types.ProviderGCP:
		return []Setting{
			{"credentials_file", c.GCP.CredentialsFile},
			{"projects", strings.Join(c.GCP.Projects, ",")},
			{"discover_projects", strconv.FormatBool(c.GCP.DiscoverProjects)},
		}
	}
	return nil
}

// applyEnv overlays environment variables onto the loaded file values.
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvCloudflareToken); v != "" {
		c.Cloudflare.APIToken = v
	}
	if v := os.Getenv(EnvCoolifyBaseURL); v != "" {
		c.Coolify.BaseURL = v
	}
	if v := os.Getenv(EnvCoolifyToken); v != "" {
		c.Coolify.APIToken = v
	}
	if v := os.Getenv(EnvDigitalOceanToken); v != "" {
		c.DigitalOcean.Token = v
	}
	if v := os.Getenv(EnvGoogleCredentials); v != "" {
		c.GCP.CredentialsFile = v
	}
	if v := os.Getenv(EnvGCPProjects); v != "" {
		var projects []string
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				projects = append(projects, p)
			}
		}
		c.GCP.Projects = projects
	}
}

func redact(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 4 {
		return "****"
	}
	return secret[:4] + "..."
}
