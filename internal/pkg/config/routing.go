package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// GatewayRouting decides which provider serves a payment method, optionally per tenant.
//
//	methods:
//	  mpesa: zed
//	  card: midtrans
//	tenants:
//	  hotel-42:
//	    mpesa: daraja
type GatewayRouting struct {
	Methods map[string]string            `mapstructure:"methods"`
	Tenants map[string]map[string]string `mapstructure:"tenants"`
}

// DefaultGatewayRouting is used when no routing file is configured
func DefaultGatewayRouting(mobileMoneyProvider string) *GatewayRouting {
	return &GatewayRouting{
		Methods: map[string]string{
			"mpesa":  mobileMoneyProvider,
			"card":   "midtrans",
			"wallet": "midtrans",
			"cash":   "cash",
		},
		Tenants: map[string]map[string]string{},
	}
}

// LoadGatewayRouting reads the routing table from a YAML file, falling back to the
// defaults for any method the file leaves out
func LoadGatewayRouting(path, mobileMoneyProvider string) (*GatewayRouting, error) {
	routing := DefaultGatewayRouting(mobileMoneyProvider)
	if path == "" {
		return routing, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("GATEWAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read gateway routing file: %w", err)
	}

	var loaded GatewayRouting
	if err := v.Unmarshal(&loaded); err != nil {
		return nil, fmt.Errorf("failed to decode gateway routing: %w", err)
	}

	for method, provider := range loaded.Methods {
		routing.Methods[strings.ToLower(method)] = strings.ToLower(provider)
	}
	for tenant, methods := range loaded.Tenants {
		overrides := make(map[string]string, len(methods))
		for method, provider := range methods {
			overrides[strings.ToLower(method)] = strings.ToLower(provider)
		}
		routing.Tenants[tenant] = overrides
	}

	return routing, nil
}

// ProviderFor resolves the provider for a tenant and method
func (r *GatewayRouting) ProviderFor(tenantID, method string) string {
	method = strings.ToLower(method)
	if overrides, ok := r.Tenants[tenantID]; ok {
		if provider, ok := overrides[method]; ok && provider != "" {
			return provider
		}
	}
	return r.Methods[method]
}
