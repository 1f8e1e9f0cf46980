package port

import "balance_benchmark/internal/domain/entity"

// ResultsReader exposes read-only snapshots of the collected benchmark data.
type ResultsReader interface {
	ComputeStatistics() []entity.ProviderSummary
	Timings() map[string]map[entity.ChainID][]float64
	Balances() map[string]map[entity.ChainID]map[string]entity.BalanceResult
}
