// Package config provides configuration loading and defaults for repoeval.
package config

import (
	"time"

	"github.com/blackwell-systems/repoeval/internal/github"
)

// DefaultConfigDir is the default location for repoeval configuration.
const DefaultConfigDir = "~/.config/repoeval"

// DefaultConfigFile is the filename for the YAML config.
const DefaultConfigFile = "config.yaml"

// DefaultDotEnvFile is loaded from the working directory when present.
const DefaultDotEnvFile = ".env"

// EnvPrefix namespaces environment overrides, e.g. REPOEVAL_SERVER_PORT.
const EnvPrefix = "REPOEVAL"

// DefaultGitHub holds the default GitHub provider settings.
var DefaultGitHub = GitHub{
	APIURL:       github.DefaultBaseURL,
	Timeout:      30 * time.Second,
	CommitLimit:  github.DefaultCommitLimit,
	ReleaseLimit: github.DefaultReleaseLimit,
}

// DefaultServer holds the default HTTP API settings.
var DefaultServer = Server{
	Port: 5000,
}

// DefaultLog holds the default logging settings.
var DefaultLog = Log{
	Level:  "info",
	Format: "text",
}

// DefaultOutput holds the default output preferences.
var DefaultOutput = Output{
	Color: true,
	Width: 80,
}
