package entity

import "time"

// ProviderDefinition holds the constant configuration of a benchmarked balance API.
type ProviderDefinition struct {
	Name                string
	BaseURL             string
	Method              string
	MinInterval         time.Duration      // published rate limit, used to throttle
	ChainCodes          map[string]ChainID // provider-native chain code -> ChainID
	SupportedChainCodes []string
}

// CodeFor returns the first supported native code mapped to chain.
func (d ProviderDefinition) CodeFor(chain ChainID) (string, bool) {
	for _, code := range d.SupportedChainCodes {
		if d.ChainCodes[code] == chain {
			return code, true
		}
	}
	return "", false
}

// ChainFor translates a native chain code into a ChainID.
func (d ProviderDefinition) ChainFor(code string) (ChainID, bool) {
	c, ok := d.ChainCodes[code]
	return c, ok
}

// QueryingCodes maps the benchmark chains onto the provider's native codes, keeping benchmark order
// and dropping chains the provider does not support.
func (d ProviderDefinition) QueryingCodes(benchmarkChains []ChainID) []string {
	codes := make([]string, 0, len(benchmarkChains))
	for _, chain := range benchmarkChains {
		if code, ok := d.CodeFor(chain); ok {
			codes = append(codes, code)
		}
	}
	return codes
}
