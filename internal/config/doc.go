// Package config loads and validates the application configuration.
// Values come from an optional YAML file and from environment variables
// with the LEITNER_ prefix; environment variables take precedence.
package config
