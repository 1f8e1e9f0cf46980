package address

import (
	"github.com/patrickmn/go-cache"

	"balance_benchmark/internal/app/port"
	"balance_benchmark/internal/domain/entity"
)

// CachedValidator memoizes validation results per (chain, address).
// Every provider validates the same keys, and bitcoin/solana checks decode the whole string.
// Safe for concurrent use.
type CachedValidator struct {
	next  port.AddressValidator
	cache *cache.Cache
}

// NewCachedValidator wraps next with a non-expiring cache.
func NewCachedValidator(next port.AddressValidator) *CachedValidator {
	return &CachedValidator{
		next:  next,
		cache: cache.New(cache.NoExpiration, 0),
	}
}

// IsValid implements port.AddressValidator.
func (v *CachedValidator) IsValid(chain entity.ChainID, address string) bool {
	key := string(chain) + "|" + address
	if cached, found := v.cache.Get(key); found {
		return cached.(bool)
	}
	valid := v.next.IsValid(chain, address)
	v.cache.SetDefault(key, valid)
	return valid
}

// Len returns the number of memoized results.
func (v *CachedValidator) Len() int {
	return v.cache.ItemCount()
}
