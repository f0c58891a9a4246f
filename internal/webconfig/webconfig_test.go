package webconfig

import (
	"encoding/json"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestNewReturnsDefaults(t *testing.T) {
	t.Parallel()

	cfg := New()

	if cfg.Auth.Persistence != PersistenceLocal {
		t.Fatalf("expected local persistence, got %q", cfg.Auth.Persistence)
	}
	if want := []string{"localhost", "127.0.0.1"}; !slices.Equal(cfg.Auth.AuthorizedDomains, want) {
		t.Fatalf("expected domains %v, got %v", want, cfg.Auth.AuthorizedDomains)
	}
	if !cfg.Firestore.EnableOffline {
		t.Fatalf("expected offline cache enabled")
	}
	if cfg.Firestore.SyncInterval != 10000 {
		t.Fatalf("expected sync interval 10000, got %d", cfg.Firestore.SyncInterval)
	}
	if cfg.Firestore.SyncPeriod() != 10*time.Second {
		t.Fatalf("expected sync period 10s, got %s", cfg.Firestore.SyncPeriod())
	}
	if !cfg.Geolocation.EnableWebGeolocation || !cfg.Geolocation.RequestPermission {
		t.Fatalf("expected geolocation flags enabled, got %+v", cfg.Geolocation)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestNewReturnsIndependentCopies(t *testing.T) {
	t.Parallel()

	first := New()
	second := New()
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("expected value-equal copies (-first +second):\n%s", diff)
	}

	first.Auth.AuthorizedDomains[0] = "example.com"
	first.Firestore.SyncInterval = 1

	if second.Auth.AuthorizedDomains[0] != "localhost" {
		t.Fatalf("mutation leaked into second copy: %v", second.Auth.AuthorizedDomains)
	}
	if New().Firestore.SyncInterval != 10000 {
		t.Fatalf("mutation leaked into defaults")
	}
}

func TestBundleCloneIsDeep(t *testing.T) {
	t.Parallel()

	original := NewBundle()
	clone := original.Clone()
	clone.WebConfig.Auth.AuthorizedDomains[1] = "10.0.0.1"

	if original.WebConfig.Auth.AuthorizedDomains[1] != "127.0.0.1" {
		t.Fatalf("clone shares domain slice with original")
	}
}

func TestBundleJSONShape(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(NewBundle())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	want := map[string]any{
		"firebaseConfig": map[string]any{},
		"webConfig": map[string]any{
			"auth": map[string]any{
				"persistence":       "local",
				"authorizedDomains": []any{"localhost", "127.0.0.1"},
			},
			"firestore": map[string]any{
				"enableOffline": true,
				"syncInterval":  float64(10000),
			},
			"geolocation": map[string]any{
				"enableWebGeolocation": true,
				"requestPermission":    true,
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected JSON shape (-want +got):\n%s", diff)
	}
}

func TestParsePersistence(t *testing.T) {
	t.Parallel()

	got, err := ParsePersistence(" Session ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != PersistenceSession {
		t.Fatalf("expected session, got %q", got)
	}

	if _, err := ParsePersistence("forever"); !errors.Is(err, ErrInvalidPersistence) {
		t.Fatalf("expected ErrInvalidPersistence, got %v", err)
	}
}

func TestParseDomains(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		want    []string
		wantErr error
	}{
		{name: "keeps order", raw: "app.example.com, localhost", want: []string{"app.example.com", "localhost"}},
		{name: "drops duplicates and blanks", raw: "localhost,,localhost,127.0.0.1", want: []string{"localhost", "127.0.0.1"}},
		{name: "allows port", raw: "localhost:5000", want: []string{"localhost:5000"}},
		{name: "rejects scheme", raw: "https://example.com", wantErr: ErrInvalidDomain},
		{name: "rejects empty", raw: " , ", wantErr: ErrNoAuthorizedDomains},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseDomains(tc.raw)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !slices.Equal(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*WebConfig)
		wantErr error
	}{
		{name: "persistence", mutate: func(c *WebConfig) { c.Auth.Persistence = "disk" }, wantErr: ErrInvalidPersistence},
		{name: "no domains", mutate: func(c *WebConfig) { c.Auth.AuthorizedDomains = nil }, wantErr: ErrNoAuthorizedDomains},
		{name: "bad domain", mutate: func(c *WebConfig) { c.Auth.AuthorizedDomains = []string{"a b"} }, wantErr: ErrInvalidDomain},
		{name: "zero interval", mutate: func(c *WebConfig) { c.Firestore.SyncInterval = 0 }, wantErr: ErrInvalidSyncInterval},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := New()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestSection(t *testing.T) {
	t.Parallel()

	cfg := New()
	section, err := cfg.Section("firestore")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fs, ok := section.(FirestoreConfig); !ok || fs.SyncInterval != 10000 {
		t.Fatalf("unexpected firestore section %#v", section)
	}

	if _, err := cfg.Section("storage"); !errors.Is(err, ErrUnknownSection) {
		t.Fatalf("expected ErrUnknownSection, got %v", err)
	}
}
