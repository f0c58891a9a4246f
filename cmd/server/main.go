package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/firebase-web-config/internal/application"
	"github.com/eugenenazirov/firebase-web-config/internal/config"
	"github.com/eugenenazirov/firebase-web-config/internal/export"
	"github.com/eugenenazirov/firebase-web-config/internal/logging"
)

var signalNotify = signal.Notify

type cli struct {
	app            *kingpin.Application
	serveCmd       *kingpin.CmdClause
	exportCmd      *kingpin.CmdClause
	configFile     *string
	port           *string
	logLevel       *string
	rateLimitRPS   *float64
	rateLimitBurst *int
	persistence    *string
	domains        *string
	syncInterval   *string
	exportFormat   *string
}

func newCLI() *cli {
	kingpinApp := kingpin.New("firebase-web-config", "Firebase Web Config - publishes the web client's Firebase integration settings")
	c := &cli{app: kingpinApp}
	c.configFile = kingpinApp.Flag("config", "Path to YAML configuration file").String()
	c.port = kingpinApp.Flag("port", "HTTP port exposed by the service").String()
	c.logLevel = kingpinApp.Flag("log-level", "Log level (debug, info, warn, error)").String()
	c.rateLimitRPS = kingpinApp.Flag("rate-limit-rps", "Requests per second allowed (set 0 to disable)").Default("-1").Float64()
	c.rateLimitBurst = kingpinApp.Flag("rate-limit-burst", "Burst capacity for rate limiter (set 0 to disable)").Default("-1").Int()
	c.persistence = kingpinApp.Flag("auth-persistence", "Session persistence for web auth (local, session, none)").String()
	c.domains = kingpinApp.Flag("authorized-domains", "Comma-separated hostnames allowed to use the auth flow").String()
	// string so that an explicit negative reaches validation instead of reading as unset
	c.syncInterval = kingpinApp.Flag("sync-interval", "Firestore sync interval in milliseconds").String()

	c.serveCmd = kingpinApp.Command("serve", "Serve the web configuration over HTTP").Default()
	c.exportCmd = kingpinApp.Command("export", "Write the web configuration to stdout")
	c.exportFormat = c.exportCmd.Flag("format", "Output format").Default("json").Enum("json", "js")
	return c
}

// overrides converts parsed flags into config overrides.
func (c *cli) overrides() (*config.CLIOverrides, error) {
	overrides := &config.CLIOverrides{
		ConfigFile: *c.configFile,
	}

	if *c.port != "" {
		overrides.Port = c.port
	}

	if *c.logLevel != "" {
		overrides.LogLevel = c.logLevel
	}

	if *c.rateLimitRPS >= 0 {
		overrides.RateLimitRPS = c.rateLimitRPS
	}

	if *c.rateLimitBurst >= 0 {
		overrides.RateLimitBurst = c.rateLimitBurst
	}

	if *c.persistence != "" {
		overrides.Persistence = c.persistence
	}

	if *c.domains != "" {
		overrides.AuthorizedDomains = c.domains
	}

	if raw := strings.TrimSpace(*c.syncInterval); raw != "" {
		value, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse sync interval %q: %w", raw, err)
		}
		overrides.SyncInterval = &value
	}

	return overrides, nil
}

func main() {
	c := newCLI()
	command := kingpin.MustParse(c.app.Parse(os.Args[1:]))

	overrides, err := c.overrides()
	if err != nil {
		panic(fmt.Sprintf("failed to parse flags: %v", err))
	}

	cfg, err := config.Load(overrides)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	switch command {
	case c.exportCmd.FullCommand():
		if err := writeExport(os.Stdout, cfg, *c.exportFormat); err != nil {
			fmt.Fprintf(os.Stderr, "export failed: %v\n", err)
			os.Exit(1)
		}
	case c.serveCmd.FullCommand():
		serve(cfg)
	}
}

func serve(cfg config.Config) {
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	app, err := application.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}

	if err := app.Start(); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}

	shutdown(app.Server(), cfg.ShutdownGracePeriod, logger)
}

func writeExport(w io.Writer, cfg config.Config, format string) error {
	switch format {
	case "js":
		return export.WriteScript(w, cfg.Bundle())
	case "json":
		return export.WriteJSON(w, cfg.Bundle())
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

func shutdown(server *http.Server, timeout time.Duration, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("forced close failed", zap.Error(closeErr))
		}
	}
}
