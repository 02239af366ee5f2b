// Package config loads, normalizes, and validates bdnav configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the BDNAV_LOG_LEVEL environment
// override. Player preferences here seed the settings store the first time a
// session opens; values written through `bdnav settings set` take precedence
// afterwards.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical language codes, and clear validation errors.
package config
