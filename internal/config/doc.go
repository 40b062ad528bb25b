// Package config loads, normalizes, and validates comicrenamer configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, loads a .env file from the working directory,
// and honours environment fallbacks such as BANGUMI_ACCESS_TOKEN. The Config
// type centralizes every knob the CLI and the rename pipeline need.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
