package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the top-level repoeval configuration.
type Config struct {
	GitHub     GitHub `mapstructure:"github"`
	Server     Server `mapstructure:"server"`
	PolicyFile string `mapstructure:"policy_file"`
	Log        Log    `mapstructure:"log"`
	Output     Output `mapstructure:"output"`
}

// GitHub configures the snapshot provider.
type GitHub struct {
	APIURL       string        `mapstructure:"api_url"`
	Token        string        `mapstructure:"token"`
	Timeout      time.Duration `mapstructure:"timeout"`
	CommitLimit  int           `mapstructure:"commit_limit"`
	ReleaseLimit int           `mapstructure:"release_limit"`
}

// Server configures the HTTP API.
type Server struct {
	Port int `mapstructure:"port"`
}

// Log configures the process logger.
type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Output defines output preferences.
type Output struct {
	Color bool `mapstructure:"color"`
	Width int  `mapstructure:"width"`
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Load reads configuration from the given path (or the default location)
// and returns a validated Config with all defaults applied. A .env file in
// the working directory seeds the environment without overriding variables
// that are already set. Environment variables beat the config file.
func Load(cfgFile string) (*Config, error) {
	if err := godotenv.Load(DefaultDotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", DefaultDotEnvFile, err)
	}

	v := viper.New()

	// Set defaults.
	v.SetDefault("github.api_url", DefaultGitHub.APIURL)
	v.SetDefault("github.token", "")
	v.SetDefault("github.timeout", DefaultGitHub.Timeout)
	v.SetDefault("github.commit_limit", DefaultGitHub.CommitLimit)
	v.SetDefault("github.release_limit", DefaultGitHub.ReleaseLimit)
	v.SetDefault("server.port", DefaultServer.Port)
	v.SetDefault("policy_file", "")
	v.SetDefault("log.level", DefaultLog.Level)
	v.SetDefault("log.format", DefaultLog.Format)
	v.SetDefault("output.color", DefaultOutput.Color)
	v.SetDefault("output.width", DefaultOutput.Width)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Conventional unprefixed names, checked after the prefixed ones.
	_ = v.BindEnv("github.token", EnvPrefix+"_GITHUB_TOKEN", "GITHUB_TOKEN")
	_ = v.BindEnv("server.port", EnvPrefix+"_SERVER_PORT", "PORT")

	if cfgFile != "" {
		v.SetConfigFile(expandPath(cfgFile))
	} else {
		v.AddConfigPath(expandPath(DefaultConfigDir))
		v.SetConfigName(strings.TrimSuffix(DefaultConfigFile, filepath.Ext(DefaultConfigFile)))
		v.SetConfigType("yaml")
	}

	// Read config file if it exists; a missing default file is not an error.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if cfgFile != "" {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.PolicyFile = expandPath(cfg.PolicyFile)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every out-of-range setting at once.
func (c *Config) Validate() error {
	var problems []string
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("server.port %d out of range", c.Server.Port))
	}
	if c.GitHub.APIURL == "" {
		problems = append(problems, "github.api_url is required")
	}
	if c.GitHub.Timeout <= 0 {
		problems = append(problems, "github.timeout must be positive")
	}
	// GitHub caps per_page at 100.
	if c.GitHub.CommitLimit < 1 || c.GitHub.CommitLimit > 100 {
		problems = append(problems, fmt.Sprintf("github.commit_limit %d must be in [1,100]", c.GitHub.CommitLimit))
	}
	if c.GitHub.ReleaseLimit < 1 || c.GitHub.ReleaseLimit > 100 {
		problems = append(problems, fmt.Sprintf("github.release_limit %d must be in [1,100]", c.GitHub.ReleaseLimit))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("log.level %q must be debug, info, warn or error", c.Log.Level))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("log.format %q must be text or json", c.Log.Format))
	}
	if len(problems) == 0 {
		return nil
	}
	return errors.New("invalid config: " + strings.Join(problems, "; "))
}

// ConfigDir returns the expanded configuration directory.
func ConfigDir() string {
	return expandPath(DefaultConfigDir)
}
