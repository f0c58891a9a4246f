package application

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/eugenenazirov/firebase-web-config/internal/api"
	"github.com/eugenenazirov/firebase-web-config/internal/config"
	"github.com/eugenenazirov/firebase-web-config/internal/export"
	"github.com/eugenenazirov/firebase-web-config/internal/storage"
	"github.com/eugenenazirov/firebase-web-config/internal/webconfig"
)

// ScriptPath is where browser clients load the configuration script from.
const ScriptPath = "/firebase-config.js"

// App encapsulates the application dependencies and HTTP server.
type App struct {
	storage storage.Storage
	handler *api.Handler
	router  http.Handler
	logger  *zap.Logger
	server  *http.Server
	exports *export.Namespace
}

// New initializes the application with all dependencies from the provided configuration.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	bundle := cfg.Bundle()
	store, err := storage.NewMemoryStorage(bundle)
	if err != nil {
		return nil, fmt.Errorf("failed to store web config: %w", err)
	}

	handler := api.NewHandler(store)
	apiRouter := api.NewRouter(handler, logger,
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	rootHandler, err := BuildRootHandler(apiRouter, bundle)
	if err != nil {
		return nil, fmt.Errorf("failed to build HTTP handler: %w", err)
	}

	exports := export.NewNamespace()
	export.Bind(bundle, exports, nil)

	logger.Info("web config loaded",
		zap.String("persistence", string(bundle.WebConfig.Auth.Persistence)),
		zap.Strings("authorized_domains", bundle.WebConfig.Auth.AuthorizedDomains),
		zap.Bool("firestore_offline", bundle.WebConfig.Firestore.EnableOffline),
		zap.Duration("firestore_sync_interval", bundle.WebConfig.Firestore.SyncPeriod()),
		zap.Bool("web_geolocation", bundle.WebConfig.Geolocation.EnableWebGeolocation),
	)

	return &App{
		storage: store,
		handler: handler,
		router:  apiRouter,
		logger:  logger,
		server:  NewServer(cfg, rootHandler),
		exports: exports,
	}, nil
}

// BuildRootHandler constructs the root HTTP handler that serves the
// configuration script and routes API requests. The script is rendered once
// because the bundle does not change while the process runs.
func BuildRootHandler(apiHandler http.Handler, bundle webconfig.Bundle) (http.Handler, error) {
	var script bytes.Buffer
	if err := export.WriteScript(&script, bundle); err != nil {
		return nil, err
	}
	body := script.Bytes()

	mux := http.NewServeMux()
	mux.Handle("/api/", apiHandler)
	mux.Handle("GET "+ScriptPath, api.CacheControl(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	})))

	return mux, nil
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Exports returns the module-style namespace holding firebaseConfig and
// webConfig, for hosts that embed the application in-process.
func (a *App) Exports() *export.Namespace {
	return a.exports
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}
