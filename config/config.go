// Package config holds the q2ls runtime configuration: which CLI to serve,
// where its command hierarchy comes from, and how the server behaves.
package config

import "time"

// Config is the root q2ls configuration.
type Config struct {
	CLI         CLIConfig         `mapstructure:"cli"`
	Hierarchy   HierarchyConfig   `mapstructure:"hierarchy"`
	Diagnostics DiagnosticsConfig `mapstructure:"diagnostics"`
	Server      ServerConfig      `mapstructure:"server"`
	Log         LogConfig         `mapstructure:"log"`
}

// CLIConfig identifies the command-line tool the server assists with.
type CLIConfig struct {
	Name string `mapstructure:"name"` // executable name matched in scripts (default: "qiime")
}

// HierarchyConfig controls where the command tree comes from.
type HierarchyConfig struct {
	File              string  `mapstructure:"file"`                 // pre-exported hierarchy JSON; skips introspection when set
	Command           string  `mapstructure:"command"`              // introspection command producing hierarchy JSON on stdout
	BuildTimeoutSecs  int     `mapstructure:"build_timeout_seconds"`
	HelpRatePerSecond float64 `mapstructure:"help_rate_per_second"` // live --help subprocess rate limit
}

// DiagnosticsConfig tunes validation behavior.
type DiagnosticsConfig struct {
	DebounceMs int `mapstructure:"debounce_ms"` // quiet period between an edit and validation
}

// ServerConfig holds the non-stdio transport endpoints.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// LogConfig controls log output. Stdout carries the LSP wire protocol, so
// logs go to stderr or a file, never stdout.
type LogConfig struct {
	File string `mapstructure:"file"` // when set, logs go to this file instead of stderr
	JSON bool   `mapstructure:"json"`
}

// DebounceDelay returns the configured debounce period as a duration.
func (c *Config) DebounceDelay() time.Duration {
	return time.Duration(c.Diagnostics.DebounceMs) * time.Millisecond
}

// BuildTimeout returns the hierarchy introspection timeout as a duration.
func (c *Config) BuildTimeout() time.Duration {
	return time.Duration(c.Hierarchy.BuildTimeoutSecs) * time.Second
}
