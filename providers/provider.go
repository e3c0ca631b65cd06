package providers

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/yairfalse/etsi/config"
	"github.com/yairfalse/etsi/types"
)

// ErrNotConfigured is returned by factories when the provider has no
// credentials in the resolved configuration.
var ErrNotConfigured = errors.New("provider not configured")

// Adapter is the discovery contract every provider implements.
type Adapter interface {
	// Name returns the provider name ("cloudflare", "gcp", ...).
	Name() string

	// TestConnection is a cheap credential probe. It never walks
	// resources; a failure is authentication-class and aborts discovery
	// for this provider before any listing starts.
	TestConnection(ctx context.Context) error

	// DiscoverByIP lists everything the provider sees bound to ip.
	// Sub-call failures land in the outcome's warnings and never abort
	// the rest of the walk.
	DiscoverByIP(ctx context.Context, ip string) *types.Outcome
}

// Factory builds an adapter from resolved configuration. Factories
// return ErrNotConfigured when their provider has no credentials.
type Factory func(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (Adapter, error)

// Registry of available providers
var registry = make(map[string]Factory)

// Register adds a provider factory. Called from provider package init.
func Register(name string, factory Factory) {
	registry[name] = factory
}

// New builds the named adapter.
func New(ctx context.Context, name string, cfg *config.Config, logger zerolog.Logger) (Adapter, error) {
	factory, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown provider %q", name)
	}
	return factory(ctx, cfg, logger)
}

// Names returns every registered provider in priority order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for _, name := range types.Providers {
		if _, ok := registry[name]; ok {
			names = append(names, name)
		}
	}
	return names
}
