package provider

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Factory builds a Client from a Config. A backend package registers one
// factory per backend name, usually from init.
type Factory func(cfg Config) (Client, error)

// backends maps names to factories. The package-level functions below all
// operate on the process-wide instance.
type backends struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

var defaultBackends = &backends{factories: make(map[string]Factory)}

func (b *backends) register(name string, f Factory) {
	if name == "" {
		panic("provider: Register with empty backend name")
	}
	if f == nil {
		panic(fmt.Sprintf("provider: Register %q with nil factory", name))
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, dup := b.factories[name]; dup {
		panic(fmt.Sprintf("provider %q already registered", name))
	}
	b.factories[name] = f
}

func (b *backends) lookup(name string) (Factory, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	f, ok := b.factories[name]
	return f, ok
}

// Register makes a backend available under name to New and FromConfig.
// It panics on an empty name, a nil factory or a name already taken.
//
//	func init() {
//	    provider.Register("echo", func(cfg provider.Config) (provider.Client, error) {
//	        return mock.NewEcho(mock.WithPrefix(cfg.GetStringOption("prefix", mock.DefaultPrefix))), nil
//	    })
//	}
func Register(name string, factory Factory) {
	defaultBackends.register(name, factory)
}

// New builds the backend registered as name. An unregistered name fails with
// ErrUnknownProvider; a factory error is returned wrapped with the name.
func New(name string, cfg Config) (Client, error) {
	f, ok := defaultBackends.lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
	c, err := f(cfg)
	if err != nil {
		return nil, fmt.Errorf("provider %s: %w", name, err)
	}
	return c, nil
}

// FromConfig validates cfg and builds the backend named by cfg.Provider.
func FromConfig(cfg Config) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return New(cfg.Provider, cfg)
}

// MustNew is New for setup code that cannot proceed without the backend.
func MustNew(name string, cfg Config) Client {
	c, err := New(name, cfg)
	if err != nil {
		panic(fmt.Sprintf("provider.MustNew(%q): %v", name, err))
	}
	return c
}

// Available lists the registered backend names in sorted order.
func Available() []string {
	defaultBackends.mu.RLock()
	defer defaultBackends.mu.RUnlock()
	return slices.Sorted(maps.Keys(defaultBackends.factories))
}

// IsRegistered reports whether name has a factory.
func IsRegistered(name string) bool {
	_, ok := defaultBackends.lookup(name)
	return ok
}

// Unregister drops name. Tests use it to undo a Register.
func Unregister(name string) {
	defaultBackends.mu.Lock()
	defer defaultBackends.mu.Unlock()
	delete(defaultBackends.factories, name)
}

// ClearRegistry drops every backend, including the built-in ones.
func ClearRegistry() {
	defaultBackends.mu.Lock()
	defer defaultBackends.mu.Unlock()
	clear(defaultBackends.factories)
}
