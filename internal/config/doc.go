// Package config loads runtime configuration from multiple sources (YAML files,
// environment variables, CLI flags) with precedence: CLI flags > YAML config >
// Environment variables > Defaults. Besides server settings it resolves the
// web client configuration (auth persistence, authorized domains, Firestore
// sync and geolocation flags) that the service publishes.
package config
