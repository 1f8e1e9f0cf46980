package port

import "balance_benchmark/internal/domain/entity"

// KeyProvider supplies the public keys to benchmark.
type KeyProvider interface {
	GetPublicKeys(benchmarkChains []entity.ChainID) ([]string, error)
}
