// Package application provides application initialization and dependency wiring.
// It builds the web configuration storage, API handlers, the root handler that
// serves the configuration script, and the HTTP server, keeping the main
// package focused on CLI parsing and orchestration.
package application
