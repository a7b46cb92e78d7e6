// Package config loads the updatechecker configuration from a YAML file,
// UPDATECHECKER_* environment variables and command line overrides.
package config

import (
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/mattermost/updatechecker/model"
)

// Configuration keys.
const (
	KeyListen         = "listen"
	KeyDatabase       = "database"
	KeyStateBackend   = "state-backend"
	KeyBucket         = "bucket"
	KeyPrefix         = "prefix"
	KeyInterval       = "interval"
	KeyRequestTimeout = "request-timeout"
	KeyMaxRetryTime   = "max-retry-time"
	KeyRestrictHosts  = "restrict-hosts"
	KeyUserAgent      = "user-agent"
	KeyPluginsDir     = "plugins-dir"
	KeyThemesDir      = "themes-dir"
	KeyLanguagesDir   = "languages-dir"
	KeyWorkDir        = "workdir"
	KeyLocales        = "locales"
)

// Supported state backends.
const (
	BackendSQL = "sql"
	BackendS3  = "s3"
)

// DefaultCheckPeriod is used for components that do not set one.
const DefaultCheckPeriod = 12 * time.Hour

const envPrefix = "UPDATECHECKER"

// Config is the complete configuration of the service.
type Config struct {
	Listen         string            `mapstructure:"listen"`
	Database       string            `mapstructure:"database"`
	StateBackend   string            `mapstructure:"state-backend"`
	Bucket         string            `mapstructure:"bucket"`
	Prefix         string            `mapstructure:"prefix"`
	Interval       time.Duration     `mapstructure:"interval"`
	RequestTimeout time.Duration     `mapstructure:"request-timeout"`
	MaxRetryTime   time.Duration     `mapstructure:"max-retry-time"`
	RestrictHosts  bool              `mapstructure:"restrict-hosts"`
	UserAgent      string            `mapstructure:"user-agent"`
	PluginsDir     string            `mapstructure:"plugins-dir"`
	ThemesDir      string            `mapstructure:"themes-dir"`
	LanguagesDir   string            `mapstructure:"languages-dir"`
	WorkDir        string            `mapstructure:"workdir"`
	Locales        []string          `mapstructure:"locales"`
	Components     []ComponentConfig `mapstructure:"components"`
}

// ComponentConfig registers one component.
type ComponentConfig struct {
	Type        string `mapstructure:"type"`
	Directory   string `mapstructure:"directory"`
	Slug        string `mapstructure:"slug"`
	MetadataURL string `mapstructure:"metadata-url"`
	PluginFile  string `mapstructure:"plugin-file"`
	OptionName  string `mapstructure:"option-name"`
	// CheckPeriod is a duration such as "6h". Empty uses
	// DefaultCheckPeriod, "0" disables automatic checks.
	CheckPeriod string `mapstructure:"check-period"`
	HideUpdates bool   `mapstructure:"hide-updates"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyListen, "localhost:8087")
	v.SetDefault(KeyDatabase, "sqlite://updatechecker.db")
	v.SetDefault(KeyStateBackend, BackendSQL)
	v.SetDefault(KeyBucket, "")
	v.SetDefault(KeyPrefix, "update-state")
	v.SetDefault(KeyInterval, time.Minute)
	v.SetDefault(KeyRequestTimeout, 10*time.Second)
	v.SetDefault(KeyMaxRetryTime, 30*time.Second)
	v.SetDefault(KeyRestrictHosts, false)
	v.SetDefault(KeyUserAgent, "updatechecker")
	v.SetDefault(KeyPluginsDir, "wp-content/plugins")
	v.SetDefault(KeyThemesDir, "wp-content/themes")
	v.SetDefault(KeyLanguagesDir, "wp-content/languages")
	v.SetDefault(KeyWorkDir, "/tmp/updatechecker/workdir")
	v.SetDefault(KeyLocales, []string{})
}

// Load reads the configuration. path may be empty, in which case only
// defaults, the environment and overrides are used. Overrides take
// precedence over everything else.
func Load(path string, overrides map[string]interface{}) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		err := v.ReadInConfig()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", path)
		}
	}

	for key, value := range overrides {
		v.Set(key, value)
	}

	config := &Config{}
	err := v.Unmarshal(config)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode configuration")
	}

	err = config.Validate()
	if err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return config, nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	switch c.StateBackend {
	case BackendSQL:
		if c.Database == "" {
			return errors.New("database must be set for the sql state backend")
		}
	case BackendS3:
		if c.Bucket == "" {
			return errors.New("bucket must be set for the s3 state backend")
		}
	default:
		return errors.Errorf("unsupported state backend %q", c.StateBackend)
	}

	seen := make(map[string]bool)
	for i := range c.Components {
		component, err := c.Components[i].Component()
		if err != nil {
			return errors.Wrapf(err, "component %d", i)
		}
		if seen[component.Slug] {
			return errors.Errorf("component %s is configured more than once", component.Slug)
		}
		seen[component.Slug] = true
	}

	return nil
}

// ValidateServer checks the settings only the server needs.
func (c *Config) ValidateServer() error {
	if c.Listen == "" {
		return errors.New("the server requires listen not be empty")
	}
	if c.WorkDir == "" {
		return errors.New("the server requires workdir not be empty")
	}
	return nil
}

// MetadataHosts returns the distinct hosts of all configured metadata URLs.
func (c *Config) MetadataHosts() []string {
	seen := make(map[string]bool)
	var hosts []string
	for _, component := range c.Components {
		parsed, err := url.Parse(component.MetadataURL)
		if err != nil || parsed.Hostname() == "" {
			continue
		}
		host := strings.ToLower(parsed.Hostname())
		if !seen[host] {
			seen[host] = true
			hosts = append(hosts, host)
		}
	}
	return hosts
}

// Component builds the registered component.
func (c *ComponentConfig) Component() (*model.Component, error) {
	componentType := model.ComponentType(c.Type)
	if componentType == "" {
		componentType = model.PluginType
	}

	identity, err := model.NewIdentity(componentType, c.Directory, c.Slug)
	if err != nil {
		return nil, err
	}

	if c.MetadataURL == "" {
		return nil, errors.Errorf("component %s has no metadata-url", identity.Slug)
	}
	parsed, err := url.Parse(c.MetadataURL)
	if err != nil || parsed.Host == "" {
		return nil, errors.Errorf("component %s has an invalid metadata-url %q", identity.Slug, c.MetadataURL)
	}

	checkPeriod := DefaultCheckPeriod
	if c.CheckPeriod != "" {
		checkPeriod, err = time.ParseDuration(c.CheckPeriod)
		if err != nil {
			return nil, errors.Wrapf(err, "component %s has an invalid check-period", identity.Slug)
		}
		if checkPeriod < 0 {
			return nil, errors.Errorf("component %s has a negative check-period", identity.Slug)
		}
	}

	return &model.Component{
		Identity:    identity,
		MetadataURL: c.MetadataURL,
		PluginFile:  c.PluginFile,
		CheckPeriod: checkPeriod,
		OptionName:  c.OptionName,
	}, nil
}
