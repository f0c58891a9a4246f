package integration

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/firebase-web-config/internal/api"
	"github.com/eugenenazirov/firebase-web-config/internal/application"
	"github.com/eugenenazirov/firebase-web-config/internal/export"
	"github.com/eugenenazirov/firebase-web-config/internal/storage"
	"github.com/eugenenazirov/firebase-web-config/internal/webconfig"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	store := storage.NewDefaultStorage()
	bundle, err := store.GetBundle()
	if err != nil {
		t.Fatalf("GetBundle: %v", err)
	}
	router := api.NewRouter(api.NewHandler(store), zaptest.NewLogger(t))
	root, err := application.BuildRootHandler(router, bundle)
	if err != nil {
		t.Fatalf("BuildRootHandler: %v", err)
	}

	srv := httptest.NewServer(root)
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, srv *httptest.Server, path string) (*http.Response, []byte) {
	t.Helper()

	resp, err := srv.Client().Get(srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, body
}

func TestIntegrationFlow(t *testing.T) {
	srv := newServer(t)

	resp, _ := get(t, srv, "/api/health")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from health, got %d", resp.StatusCode)
	}

	resp, body := get(t, srv, "/api/web-config")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from web-config, got %d", resp.StatusCode)
	}
	var bundle webconfig.Bundle
	if err := json.Unmarshal(body, &bundle); err != nil {
		t.Fatalf("decode bundle: %v", err)
	}
	if bundle.WebConfig.Firestore.SyncInterval != 10000 {
		t.Fatalf("unexpected sync interval %d", bundle.WebConfig.Firestore.SyncInterval)
	}
	if got := bundle.WebConfig.Auth.AuthorizedDomains; len(got) != 2 || got[0] != "localhost" || got[1] != "127.0.0.1" {
		t.Fatalf("unexpected authorized domains %v", got)
	}

	resp, body = get(t, srv, "/firebase-config.js")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from script, got %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), "window."+export.GlobalName) {
		t.Fatalf("script missing global binding:\n%s", body)
	}
}

func TestGlobalHostScenario(t *testing.T) {
	global := export.NewNamespace()
	export.Bind(webconfig.NewBundle(), nil, global)

	value, ok := global.Get(export.GlobalName)
	if !ok {
		t.Fatalf("expected %s to be bound", export.GlobalName)
	}
	if !value.(webconfig.Bundle).WebConfig.Geolocation.EnableWebGeolocation {
		t.Fatalf("expected web geolocation enabled")
	}
}
