package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
)

const (
	// DefaultBaseDir is the per-user configuration directory name.
	DefaultBaseDir = ".audioproject"
	// DefaultConfigFile is the configuration filename inside the app dir.
	DefaultConfigFile = "config.yaml"
)

// Providers and storage backends a context may name.
const (
	ProviderGoogle = "google"
	ProviderGemini = "gemini"

	// ExtraStyle is the Extra key of the Gemini delivery instruction.
	ExtraStyle = "style"

	BackendLocal = "local"
	BackendGCS   = "gcs"
	BackendS3    = "s3"
)

// Config holds every deployment context of an app.
type Config struct {
	AppName string `yaml:"-"`

	CurrentContext string              `yaml:"current_context,omitempty"`
	Contexts       map[string]*Context `yaml:"contexts,omitempty"`

	configPath string
}

// Context is one deployment: which speech provider to call and where
// finished audio is uploaded.
type Context struct {
	Name string `yaml:"name"`

	// Provider is ProviderGoogle (default) or ProviderGemini.
	Provider string `yaml:"provider,omitempty"`

	// CredentialsFile is a service account key for Google Cloud. Empty uses
	// application default credentials.
	CredentialsFile string `yaml:"credentials_file,omitempty"`

	// APIKey authenticates Gemini requests.
	APIKey string `yaml:"api_key,omitempty"`

	// Model overrides the provider's default synthesis model.
	Model string `yaml:"model,omitempty"`

	// SampleRate overrides the per-voice sample rate in Hz.
	SampleRate int `yaml:"sample_rate,omitempty"`

	Storage *StorageConfig `yaml:"storage,omitempty"`

	// Extra holds provider options without a field of their own, such as
	// ExtraStyle.
	Extra map[string]string `yaml:"extra,omitempty"`
}

// StorageConfig selects the bucket finished audio is uploaded to.
type StorageConfig struct {
	Backend  string `yaml:"backend"`
	Bucket   string `yaml:"bucket,omitempty"`
	Prefix   string `yaml:"prefix,omitempty"`
	Region   string `yaml:"region,omitempty"`
	Endpoint string `yaml:"endpoint,omitempty"`
	// Root is the directory of the local backend.
	Root string `yaml:"root,omitempty"`
}

// ProviderName returns the context provider, defaulting to google.
func (ctx *Context) ProviderName() string {
	if ctx == nil || ctx.Provider == "" {
		return ProviderGoogle
	}
	return strings.ToLower(ctx.Provider)
}

// Validate checks the provider and storage settings.
func (ctx *Context) Validate() error {
	switch ctx.ProviderName() {
	case ProviderGoogle, ProviderGemini:
	default:
		return fmt.Errorf("context %q: unknown provider %q", ctx.Name, ctx.Provider)
	}
	if s := ctx.Storage; s != nil {
		switch s.Backend {
		case BackendLocal:
			if s.Root == "" {
				return fmt.Errorf("context %q: local storage needs root", ctx.Name)
			}
		case BackendGCS, BackendS3:
			if s.Bucket == "" {
				return fmt.Errorf("context %q: %s storage needs bucket", ctx.Name, s.Backend)
			}
		default:
			return fmt.Errorf("context %q: unknown storage backend %q", ctx.Name, s.Backend)
		}
	}
	return nil
}

// LoadConfig loads ~/.audioproject/<app>/config.yaml, creating it when
// missing.
func LoadConfig(appName string) (*Config, error) {
	return LoadConfigWithPath(appName, "")
}

// LoadConfigWithPath is LoadConfig with an explicit file path.
func LoadConfigWithPath(appName, customPath string) (*Config, error) {
	configPath := customPath
	if configPath == "" {
		paths, err := NewPaths(appName)
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configPath = paths.ConfigFile()
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	cfg := &Config{AppName: appName, configPath: configPath}
	data, err := os.ReadFile(configPath)
	switch {
	case os.IsNotExist(err):
		cfg.Contexts = make(map[string]*Context)
		return cfg, cfg.Save()
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Contexts == nil {
		cfg.Contexts = make(map[string]*Context)
	}
	for name, ctx := range cfg.Contexts {
		if ctx != nil && ctx.Name == "" {
			ctx.Name = name
		}
	}
	cfg.AppName = appName
	cfg.configPath = configPath
	return cfg, nil
}

// Save writes the config with owner-only permissions; it may hold keys.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(c.configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Path returns the config file path.
func (c *Config) Path() string { return c.configPath }

// Dir returns the directory holding the config file.

// AddContext validates and stores ctx under name.
func (c *Config) AddContext(name string, ctx *Context) error {
	ctx.Name = name
	if err := ctx.Validate(); err != nil {
		return err
	}
	c.Contexts[name] = ctx
	return c.Save()
}

// DeleteContext removes a context, clearing the current one if it matches.
func (c *Config) DeleteContext(name string) error {
	if _, ok := c.Contexts[name]; !ok {
		return fmt.Errorf("context %q not found", name)
	}
	delete(c.Contexts, name)
	if c.CurrentContext == name {
		c.CurrentContext = ""
	}
	return c.Save()
}

// UseContext makes name the current context.
func (c *Config) UseContext(name string) error {
	if _, ok := c.Contexts[name]; !ok {
		return fmt.Errorf("context %q not found", name)
	}
	c.CurrentContext = name
	return c.Save()
}

func (c *Config) GetContext(name string) (*Context, error) {
	ctx, ok := c.Contexts[name]
	if !ok {
		return nil, fmt.Errorf("context %q not found", name)
	}
	return ctx, nil
}

func (c *Config) GetCurrentContext() (*Context, error) {
	if c.CurrentContext == "" {
		return nil, fmt.Errorf("no current context set")
	}
	return c.GetContext(c.CurrentContext)
}

// ResolveContext returns the named context, or the current one when name
// is empty. With neither, a default google context without remote storage
// is returned.
func (c *Config) ResolveContext(name string) (*Context, error) {
	switch {
	case name != "":
		return c.GetContext(name)
	case c.CurrentContext != "":
		return c.GetCurrentContext()
	}
	return &Context{Name: "default", Provider: ProviderGoogle}, nil
}

// ListContexts returns all context names, sorted.
func (c *Config) ListContexts() []string {
	names := make([]string, 0, len(c.Contexts))
	for name := range c.Contexts {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (ctx *Context) GetExtra(key string) string {
	if ctx.Extra == nil {
		return ""
	}
	return ctx.Extra[key]
}

func (ctx *Context) SetExtra(key, value string) {
	if ctx.Extra == nil {
		ctx.Extra = make(map[string]string)
	}
	ctx.Extra[key] = value
}

// MaskAPIKey hides all but the first and last four characters of key.
func MaskAPIKey(key string) string {
	if len(key) <= 8 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-8) + key[len(key)-4:]
}
