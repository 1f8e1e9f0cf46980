package port

import (
	"time"

	"balance_benchmark/internal/domain/entity"
)

// MetricsObserver receives per-call measurements in addition to the aggregator.
type MetricsObserver interface {
	ObserveRequest(provider string, chain entity.ChainID, elapsed time.Duration, err error)
	ObserveSkip(provider string, chain entity.ChainID)
}
