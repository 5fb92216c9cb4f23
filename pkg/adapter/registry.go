package adapter

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/leapstack-labs/worldpop/pkg/core"
)

// Factory builds an unconnected adapter. A nil logger discards logs.
type Factory func(*slog.Logger) Adapter

var (
	registryMu sync.RWMutex
	factories  = make(map[string]Factory)
)

// ErrTypeRequired is returned when a target has no adapter type.
var ErrTypeRequired = errors.New("adapter type not specified")

// normalize makes target types case-insensitive, so "SQLite" in a config
// file selects the sqlite adapter.
func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register makes an adapter available under a target type. Adapters call it
// from init(). Registering the same type twice panics.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()

	key := normalize(name)
	if factory == nil {
		panic("adapter: Register factory is nil for " + key)
	}
	if _, dup := factories[key]; dup {
		panic("adapter: Register called twice for " + key)
	}
	factories[key] = factory
}

// Get returns the factory registered for a target type.
func Get(name string) (Factory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := factories[normalize(name)]
	return f, ok
}

// NewAdapter builds the adapter for cfg.Type. Connecting is left to the caller.
func NewAdapter(cfg core.AdapterConfig, logger *slog.Logger) (Adapter, error) {
	if normalize(cfg.Type) == "" {
		return nil, ErrTypeRequired
	}

	factory, ok := Get(cfg.Type)
	if !ok {
		return nil, &UnknownAdapterError{Type: cfg.Type, Available: ListAdapters()}
	}
	return factory(logger), nil
}

// ListAdapters returns the registered target types in sorted order.
func ListAdapters() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsRegistered reports whether a target type has an adapter.
func IsRegistered(name string) bool {
	_, ok := Get(name)
	return ok
}

// UnknownAdapterError is returned for a target type with no adapter.
type UnknownAdapterError struct {
	Type      string
	Available []string
}

func (e *UnknownAdapterError) Error() string {
	return fmt.Sprintf("unknown adapter type %q (available: %s); check target.type in worldpop.yaml",
		e.Type, strings.Join(e.Available, ", "))
}
