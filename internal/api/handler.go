package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/eugenenazirov/firebase-web-config/internal/storage"
	"github.com/eugenenazirov/firebase-web-config/internal/webconfig"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

// Handler wires the configuration storage into HTTP handlers.
type Handler struct {
	storage storage.Storage

	clock func() time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// NewHandler constructs a Handler with the provided dependencies.
func NewHandler(store storage.Storage, opts ...HandlerOption) *Handler {
	h := &Handler{
		storage: store,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleGetWebConfig(w http.ResponseWriter, r *http.Request) {
	_ = r
	bundle, err := h.storage.GetBundle()
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bundle)
}

func (h *Handler) handleGetSection(w http.ResponseWriter, r *http.Request) {
	bundle, err := h.storage.GetBundle()
	if err != nil {
		writeInternalError(w, err)
		return
	}

	name := r.PathValue("section")
	section, err := bundle.WebConfig.Section(name)
	if err != nil {
		if errors.Is(err, webconfig.ErrUnknownSection) {
			writeError(w, http.StatusNotFound, "Unknown section", err.Error(), "Use one of auth, firestore, geolocation")
			return
		}
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, section)
}

func (h *Handler) handleGetFirebaseConfig(w http.ResponseWriter, r *http.Request) {
	_ = r
	bundle, err := h.storage.GetBundle()
	if err != nil {
		writeInternalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bundle.FirebaseConfig)
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string, suggestion ...string) {
	resp := errorResponse{
		Error:   message,
		Details: details,
	}
	if len(suggestion) > 0 {
		resp.Suggestion = suggestion[0]
	}
	writeJSON(w, status, resp)
}

func writeInternalError(w http.ResponseWriter, err error) {
	writeError(w, http.StatusInternalServerError, "Internal error", err.Error())
}
