package provider

import (
	"fmt"

	"balance_benchmark/internal/app/port"
	"balance_benchmark/internal/domain/entity"
)

type keyProviderImpl struct {
	source port.KeyProvider
	logger port.Logger
}

// NewKeyProvider wraps a key source with logging and an empty-result check.
func NewKeyProvider(source port.KeyProvider, logger port.Logger) port.KeyProvider {
	return &keyProviderImpl{source: source, logger: logger}
}

// GetPublicKeys loads the keys for the benchmark chains.
func (p *keyProviderImpl) GetPublicKeys(benchmarkChains []entity.ChainID) ([]string, error) {
	p.logger.Debug("Loading public keys", "chains", benchmarkChains)
	keys, err := p.source.GetPublicKeys(benchmarkChains)
	if err != nil {
		p.logger.Error("Failed to load public keys", "error", err)
		return nil, err
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("no public keys selected for chains %v", benchmarkChains)
	}
	p.logger.Info("Public keys ready", "count", len(keys))
	return keys, nil
}
