package webconfig

import (
	"fmt"
	"slices"
	"strings"
)

const (
	defaultSyncIntervalMs int64 = 10000
)

var defaultAuthorizedDomains = []string{"localhost", "127.0.0.1"}

// New returns the default web configuration. Every call yields an independent
// copy, so callers may modify the result without affecting anyone else.
func New() WebConfig {
	return WebConfig{
		Auth: AuthConfig{
			Persistence:       PersistenceLocal,
			AuthorizedDomains: slices.Clone(defaultAuthorizedDomains),
		},
		Firestore: FirestoreConfig{
			EnableOffline: true,
			SyncInterval:  defaultSyncIntervalMs,
		},
		Geolocation: GeolocationConfig{
			EnableWebGeolocation: true,
			RequestPermission:    true,
		},
	}
}

// NewBundle pairs the empty Firebase slot with the default web configuration.
func NewBundle() Bundle {
	return Bundle{WebConfig: New()}
}

// Clone returns a deep copy of the configuration.
func (c WebConfig) Clone() WebConfig {
	out := c
	out.Auth.AuthorizedDomains = slices.Clone(c.Auth.AuthorizedDomains)
	return out
}

// Clone returns a deep copy of the bundle.
func (b Bundle) Clone() Bundle {
	return Bundle{FirebaseConfig: b.FirebaseConfig, WebConfig: b.WebConfig.Clone()}
}

// ParsePersistence normalises raw into a known persistence mode.
func ParsePersistence(raw string) (Persistence, error) {
	p := Persistence(strings.ToLower(strings.TrimSpace(raw)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPersistence, raw)
	}
	return p, nil
}

// Valid reports whether p is a known persistence mode.
func (p Persistence) Valid() bool {
	switch p {
	case PersistenceLocal, PersistenceSession, PersistenceNone:
		return true
	default:
		return false
	}
}

// ParseDomains splits a comma-separated list of hostnames, keeping order and
// dropping duplicates and blanks.
func ParseDomains(raw string) ([]string, error) {
	parts := strings.Split(raw, ",")
	domains := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" || slices.Contains(domains, part) {
			continue
		}
		if err := validateDomain(part); err != nil {
			return nil, err
		}
		domains = append(domains, part)
	}
	if len(domains) == 0 {
		return nil, ErrNoAuthorizedDomains
	}
	return domains, nil
}

// Validate checks the configuration for values web clients cannot use.
func (c WebConfig) Validate() error {
	if !c.Auth.Persistence.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPersistence, c.Auth.Persistence)
	}
	if len(c.Auth.AuthorizedDomains) == 0 {
		return ErrNoAuthorizedDomains
	}
	for _, domain := range c.Auth.AuthorizedDomains {
		if err := validateDomain(domain); err != nil {
			return err
		}
	}
	if c.Firestore.SyncInterval <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidSyncInterval, c.Firestore.SyncInterval)
	}
	return nil
}

// Section returns the named top-level section of the configuration.
func (c WebConfig) Section(name string) (any, error) {
	switch name {
	case "auth":
		return c.Auth, nil
	case "firestore":
		return c.Firestore, nil
	case "geolocation":
		return c.Geolocation, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSection, name)
	}
}

// hostnames only: no scheme, port is allowed, no path or whitespace
func validateDomain(domain string) error {
	if domain == "" || strings.ContainsAny(domain, "/ \t") || strings.Contains(domain, "://") {
		return fmt.Errorf("%w: %q", ErrInvalidDomain, domain)
	}
	return nil
}
