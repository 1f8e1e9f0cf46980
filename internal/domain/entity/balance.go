package entity

// Balance represents one token holding reported by a provider for a wallet on a chain.
// Empty Token, AmountUSD or Chain mean the provider did not report the value.
type Balance struct {
	Amount    string  `json:"amount" yaml:"amount"`
	Decimals  *int32  `json:"decimals,omitempty" yaml:"decimals,omitempty"`
	Token     string  `json:"token,omitempty" yaml:"token,omitempty"`
	AmountUSD string  `json:"amountUsd,omitempty" yaml:"amountUsd,omitempty"`
	Chain     ChainID `json:"blockchain,omitempty" yaml:"blockchain,omitempty"`
}

// BalanceResult is what a provider returned for one address on one chain after filtering and sorting.
type BalanceResult struct {
	Result    []Balance `json:"result"`
	TokenList string    `json:"tokenList"`
}

// Decimals is a small helper for adapters building optional decimals.
func Decimals(d int32) *int32 {
	return &d
}
