package provider

import (
	"fmt"
	"strings"

	"github.com/zeduno/paygate/internal/pkg/config"
	"github.com/zeduno/paygate/internal/pkg/models"
	"github.com/zeduno/paygate/services/payments"
)

// Registry resolves payment providers by name and routing rules
type Registry struct {
	providers map[string]payments.Provider
	routing   *config.GatewayRouting
}

// NewRegistry creates a registry over the given adapters
func NewRegistry(routing *config.GatewayRouting, providers ...payments.Provider) *Registry {
	r := &Registry{
		providers: make(map[string]payments.Provider, len(providers)),
		routing:   routing,
	}
	for _, p := range providers {
		r.providers[p.Name()] = p
	}
	return r
}

// Get returns the provider registered under name
func (r *Registry) Get(name string) (payments.Provider, error) {
	p, ok := r.providers[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownProvider, name)
	}
	return p, nil
}

// Resolve picks the requested provider, or the one routing assigns to the tenant and method
func (r *Registry) Resolve(tenantID string, method models.PaymentMethod, requested string) (payments.Provider, error) {
	if method == models.PaymentMethodCash {
		return r.Get(models.ProviderCash)
	}
	if requested != "" {
		return r.Get(requested)
	}
	name := ""
	if r.routing != nil {
		name = r.routing.ProviderFor(tenantID, string(method))
	}
	if name == "" {
		return nil, fmt.Errorf("%w: no provider routed for method %s", models.ErrUnknownProvider, method)
	}
	return r.Get(name)
}
