package config

import "github.com/caarlos0/env/v6"

// parseEnv overlays values from environment variables. Unset variables keep
// the current value.
func parseEnv(config *Config) error {
	return env.Parse(config)
}
