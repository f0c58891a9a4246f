package webconfig

import "errors"

var (
	// ErrInvalidPersistence is returned for persistence modes other than local, session or none.
	ErrInvalidPersistence = errors.New("persistence must be one of local, session, none")
	// ErrNoAuthorizedDomains is returned when the authorized domain list is empty.
	ErrNoAuthorizedDomains = errors.New("at least one authorized domain is required")
	// ErrInvalidDomain is returned when an authorized domain is not a bare hostname.
	ErrInvalidDomain = errors.New("authorized domain must be a bare hostname")
	// ErrInvalidSyncInterval is returned when the Firestore sync interval is not positive.
	ErrInvalidSyncInterval = errors.New("sync interval must be a positive number of milliseconds")
	// ErrUnknownSection is returned when looking up a section that does not exist.
	ErrUnknownSection = errors.New("unknown configuration section")
)
