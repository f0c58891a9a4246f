package export

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/eugenenazirov/firebase-web-config/internal/webconfig"
)

const (
	// GlobalName is the property the bundle is attached under on a global object.
	GlobalName = "firebaseWebConfig"

	firebaseConfigName = "firebaseConfig"
	webConfigName      = "webConfig"
)

// Target is anything a host can expose configuration through.
type Target interface {
	Set(name string, value any)
}

// availability is implemented by targets that can be present but unusable,
// such as a nil *Namespace.
type availability interface {
	Available() bool
}

// Namespace is a map-backed Target safe for concurrent use. The zero value
// is ready to use.
type Namespace struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewNamespace returns an empty namespace.
func NewNamespace() *Namespace {
	return &Namespace{values: make(map[string]any)}
}

// Set stores value under name, replacing any previous value.
func (n *Namespace) Set(name string, value any) {
	if n == nil {
		return
	}
	n.mu.Lock()
	if n.values == nil {
		n.values = make(map[string]any)
	}
	n.values[name] = value
	n.mu.Unlock()
}

// Available reports whether n can hold values.
func (n *Namespace) Available() bool {
	return n != nil
}

// Get returns the value stored under name.
func (n *Namespace) Get(name string) (any, bool) {
	if n == nil {
		return nil, false
	}
	n.mu.RLock()
	defer n.mu.RUnlock()
	v, ok := n.values[name]
	return v, ok
}

// Len reports how many names are bound.
func (n *Namespace) Len() int {
	if n == nil {
		return 0
	}
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.values)
}

// Bind exposes bundle through whichever target the host provides. A module
// target receives firebaseConfig and webConfig directly; otherwise a global
// target receives the pair under GlobalName. With neither, Bind does nothing.
// A nil target, including a typed nil, counts as absent.
func Bind(bundle webconfig.Bundle, module, global Target) {
	switch {
	case available(module):
		module.Set(firebaseConfigName, bundle.FirebaseConfig)
		module.Set(webConfigName, bundle.WebConfig.Clone())
	case available(global):
		global.Set(GlobalName, bundle.Clone())
	}
}

func available(t Target) bool {
	if t == nil {
		return false
	}
	if a, ok := t.(availability); ok {
		return a.Available()
	}
	return true
}

// WriteJSON writes the bundle in its module shape.
func WriteJSON(w io.Writer, bundle webconfig.Bundle) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(bundle); err != nil {
		return fmt.Errorf("encode bundle: %w", err)
	}
	return nil
}

// WriteScript writes a browser script that declares the bundle and attaches
// it to module.exports when a module system is present, or to
// window.firebaseWebConfig otherwise.
func WriteScript(w io.Writer, bundle webconfig.Bundle) error {
	firebaseJSON, err := json.Marshal(bundle.FirebaseConfig)
	if err != nil {
		return fmt.Errorf("encode firebase config: %w", err)
	}
	webJSON, err := json.MarshalIndent(bundle.WebConfig, "", "  ")
	if err != nil {
		return fmt.Errorf("encode web config: %w", err)
	}

	_, err = fmt.Fprintf(w, scriptTemplate, firebaseJSON, webJSON, GlobalName)
	if err != nil {
		return fmt.Errorf("write script: %w", err)
	}
	return nil
}

const scriptTemplate = `// Generated by firebase-web-config. Do not edit.
const firebaseConfig = %s;

const webConfig = %s;

if (typeof module !== 'undefined' && module.exports) {
  module.exports = { firebaseConfig, webConfig };
} else if (typeof window !== 'undefined') {
  window.%s = { firebaseConfig, webConfig };
}
`
