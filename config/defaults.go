package config

import "github.com/spf13/viper"

const (
	// DefaultPort is the TCP/WebSocket listen port.
	DefaultPort = 8877

	// DefaultDirPermissions for the user config directory.
	DefaultDirPermissions = 0o755
)

// SetDefaults configures default values for all configuration options.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("cli.name", "qiime")

	// Hierarchy defaults: introspect the CLI itself unless a pre-exported
	// file is supplied.
	v.SetDefault("hierarchy.file", "")
	v.SetDefault("hierarchy.command", "")
	v.SetDefault("hierarchy.build_timeout_seconds", 120) // introspection imports the full plugin set
	v.SetDefault("hierarchy.help_rate_per_second", 4.0)

	v.SetDefault("diagnostics.debounce_ms", 400)

	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", DefaultPort)

	v.SetDefault("log.file", "")
	v.SetDefault("log.json", false)
}
