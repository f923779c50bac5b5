// Package config loads and validates application settings from environment
// variables (TASKFLOW_ prefix) and an optional YAML file, giving the rest of
// the application type-safe access to server and database configuration.
package config
