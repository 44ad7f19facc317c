package parser

import (
	"fmt"
	"sort"

	"flightdocs/internal/config"
	"flightdocs/internal/domain"
	"flightdocs/internal/port"
)

// ProviderFactory creates a CompletionClient from the parser config.
type ProviderFactory func(cfg *config.ParserConfig) (port.CompletionClient, error)

// Registry maps provider names to factories. The zero value is not usable;
// create one with NewRegistry.
type Registry struct {
	factories map[string]ProviderFactory
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]ProviderFactory)}
}

// Register adds a provider factory by name, replacing any earlier one.
func (r *Registry) Register(name string, factory ProviderFactory) *Registry {
	r.factories[name] = factory
	return r
}

// NewClient creates a CompletionClient for cfg.Provider using the registered factory.
func (r *Registry) NewClient(cfg *config.ParserConfig) (port.CompletionClient, error) {
	factory, ok := r.factories[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownParserProvider, cfg.Provider)
	}
	return factory(cfg)
}

// Providers lists the registered provider names in sorted order.
func (r *Registry) Providers() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
