package port

import "balance_benchmark/internal/domain/entity"

// ProviderAdapter is the provider-specific part of a benchmark: request construction and
// response mapping. The engine drives everything else.
type ProviderAdapter interface {
	// Definition returns the provider's constant configuration.
	Definition() entity.ProviderDefinition

	// RequestSpecs returns the calls to make for address, in execution order.
	// Adapters may return one spec per chain or a single batched spec.
	RequestSpecs(address string) []entity.RequestSpec

	// TransformResponse maps a successful JSON body onto balances.
	// A nil slice means the body carried no balance data.
	TransformResponse(chain entity.ChainID, body []byte) ([]entity.Balance, error)

	// Headers returns the request headers, including any API key.
	Headers() map[string]string
}

// NativeBalanceProvider is implemented by adapters that need a second call per spec to
// fetch the native coin balance.
type NativeBalanceProvider interface {
	NativeRequest(spec entity.RequestSpec) (entity.RequestSpec, bool)
	TransformNative(chain entity.ChainID, body []byte) ([]entity.Balance, error)
}

// AddressValidator checks whether an address is well-formed for a chain.
type AddressValidator interface {
	IsValid(chain entity.ChainID, address string) bool
}
