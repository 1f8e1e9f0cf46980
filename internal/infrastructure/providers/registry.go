package providers

import (
	"fmt"
	"strings"

	"balance_benchmark/internal/app/port"
	"balance_benchmark/internal/domain/entity"
)

// Credentials are the API keys of the benchmarked providers. Empty values are sent as-is.
type Credentials struct {
	BitqueryAPIKey  string
	BlockchairKey   string
	CovalentAPIKey  string
	DebankAccessKey string
	MoralisAPIKey   string
	ZerionUserKey   string
	ZerionUserPass  string
}

type factory func(chains []entity.ChainID, creds Credentials) port.ProviderAdapter

// allKnownProviders holds every adapter the benchmark can run, keyed by provider name.
var allKnownProviders = map[string]factory{ //nolint:gochecknoglobals // registry
	AnkrDefinition.Name: func(chains []entity.ChainID, _ Credentials) port.ProviderAdapter {
		return NewAnkr(chains)
	},
	BitqueryDefinition.Name: func(chains []entity.ChainID, c Credentials) port.ProviderAdapter {
		return NewBitquery(chains, c.BitqueryAPIKey)
	},
	BlockchairDefinition.Name: func(chains []entity.ChainID, c Credentials) port.ProviderAdapter {
		return NewBlockchair(chains, c.BlockchairKey)
	},
	CovalentDefinition.Name: func(chains []entity.ChainID, c Credentials) port.ProviderAdapter {
		return NewCovalent(chains, c.CovalentAPIKey)
	},
	DebankDefinition.Name: func(chains []entity.ChainID, c Credentials) port.ProviderAdapter {
		return NewDebank(chains, c.DebankAccessKey)
	},
	MoralisDefinition.Name: func(chains []entity.ChainID, c Credentials) port.ProviderAdapter {
		return NewMoralis(chains, c.MoralisAPIKey)
	},
	ZerionDefinition.Name: func(chains []entity.ChainID, c Credentials) port.ProviderAdapter {
		return NewZerion(chains, c.ZerionUserKey, c.ZerionUserPass)
	},
}

// Names lists the known providers in their default run order.
func Names() []string {
	return []string{
		AnkrDefinition.Name,
		BitqueryDefinition.Name,
		BlockchairDefinition.Name,
		CovalentDefinition.Name,
		DebankDefinition.Name,
		MoralisDefinition.Name,
		ZerionDefinition.Name,
	}
}

// Definition returns the constant definition of a known provider.
func Definition(name string) (entity.ProviderDefinition, bool) {
	f, ok := allKnownProviders[strings.ToLower(name)]
	if !ok {
		return entity.ProviderDefinition{}, false
	}
	return f(nil, Credentials{}).Definition(), true
}

// Build creates the adapters named in names, in that order. An empty list selects all providers.
func Build(names []string, chains []entity.ChainID, creds Credentials, log port.Logger) ([]port.ProviderAdapter, error) {
	if len(names) == 0 {
		names = Names()
	}

	seen := make(map[string]struct{}, len(names))
	adapters := make([]port.ProviderAdapter, 0, len(names))
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if _, dup := seen[name]; dup {
			log.Warn("Duplicate provider in selection, skipping", "provider", name)
			continue
		}
		f, ok := allKnownProviders[name]
		if !ok {
			return nil, fmt.Errorf("unknown provider %q (known: %s)", raw, strings.Join(Names(), ", "))
		}
		seen[name] = struct{}{}

		adapter := f(chains, creds)
		if q, ok := adapter.(interface{ QueryingCodes() []string }); ok {
			log.Debug("Provider configured", "provider", name, "chain_codes", q.QueryingCodes())
		}
		adapters = append(adapters, adapter)
	}
	return adapters, nil
}
