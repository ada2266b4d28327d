// Package config loads, normalizes, and validates mdeval configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the MDEVAL_HISTORY_PATH
// environment override. Command-line flags are applied on top of the loaded
// Config by the CLI.
package config
