package webconfig

import "time"

// Persistence selects how the web client keeps a signed-in session across page reloads.
type Persistence string

const (
	PersistenceLocal   Persistence = "local"
	PersistenceSession Persistence = "session"
	PersistenceNone    Persistence = "none"
)

// FirebaseConfig is a reserved slot. Project credentials are supplied by the
// surrounding application, so it intentionally carries no fields.
type FirebaseConfig struct{}

// AuthConfig controls the web authentication flow.
type AuthConfig struct {
	Persistence       Persistence `json:"persistence" yaml:"persistence"`
	AuthorizedDomains []string    `json:"authorizedDomains" yaml:"authorized_domains"`
}

// FirestoreConfig controls offline caching and background sync.
// SyncInterval is expressed in milliseconds.
type FirestoreConfig struct {
	EnableOffline bool  `json:"enableOffline" yaml:"enable_offline"`
	SyncInterval  int64 `json:"syncInterval" yaml:"sync_interval"`
}

// SyncPeriod returns SyncInterval as a duration.
func (f FirestoreConfig) SyncPeriod() time.Duration {
	return time.Duration(f.SyncInterval) * time.Millisecond
}

// GeolocationConfig controls browser geolocation usage.
type GeolocationConfig struct {
	EnableWebGeolocation bool `json:"enableWebGeolocation" yaml:"enable_web_geolocation"`
	RequestPermission    bool `json:"requestPermission" yaml:"request_permission"`
}

// WebConfig is the web client configuration tree.
type WebConfig struct {
	Auth        AuthConfig        `json:"auth" yaml:"auth"`
	Firestore   FirestoreConfig   `json:"firestore" yaml:"firestore"`
	Geolocation GeolocationConfig `json:"geolocation" yaml:"geolocation"`
}

// Bundle is the exported pair consumed by web clients.
type Bundle struct {
	FirebaseConfig FirebaseConfig `json:"firebaseConfig"`
	WebConfig      WebConfig      `json:"webConfig"`
}
