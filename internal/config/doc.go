// Package config loads, normalizes, and validates airdate configuration.
//
// Configuration is a TOML file (default ~/.config/airdate/config.toml, or
// airdate.toml in the working directory), layered over repository defaults
// and a best-effort .env file. A small set of environment variables
// override file values so containerized deployments can avoid editing
// config files.
package config
