package providers

import (
	"net/http"

	"balance_benchmark/internal/domain/entity"
)

// MoralisDefinition describes the Moralis EVM and Solana APIs.
var MoralisDefinition = entity.ProviderDefinition{ //nolint:gochecknoglobals // constant definition
	Name:        "moralis",
	BaseURL:     "https://deep-index.moralis.io/api/v2/{:address}/erc20?chain={:evm_chain}",
	Method:      http.MethodGet,
	MinInterval: perMinute(1500),
	ChainCodes: map[string]entity.ChainID{
		"eth":       entity.Ethereum,
		"polygon":   entity.Polygon,
		"bsc":       entity.BSC,
		"avalanche": entity.Avalanche,
		"fantom":    entity.Fantom,
		"solana":    entity.Solana,
	},
	SupportedChainCodes: []string{"eth", "polygon", "bsc", "avalanche", "fantom", "solana"},
}

const (
	moralisNativeURL = "https://deep-index.moralis.io/api/v2/{:address}/balance?chain={:evm_chain}"
	moralisSolanaURL = "https://solana-gateway.moralis.io/account/mainnet/{:address}/portfolio"
)

var moralisNativeTokens = map[entity.ChainID]string{ //nolint:gochecknoglobals // lookup table
	entity.Ethereum:  "ETH",
	entity.Polygon:   "MATIC",
	entity.BSC:       "BNB",
	entity.Avalanche: "AVAX",
	entity.Fantom:    "FTM",
	entity.Solana:    "SOL",
}

// Moralis fetches ERC-20 balances and, for EVM chains, the native balance with a second call.
// Solana uses the portfolio endpoint which already includes the native balance.
type Moralis struct {
	base
}

// NewMoralis creates the Moralis adapter. apiKey goes into X-API-Key.
func NewMoralis(chains []entity.ChainID, apiKey string) *Moralis {
	return &Moralis{base: newBase(MoralisDefinition, chains, map[string]string{"X-API-Key": apiKey})}
}

type moralisERC20 struct {
	Symbol   string   `json:"symbol"`
	Decimals decimals `json:"decimals"`
	Balance  amount   `json:"balance"`
}

type moralisNative struct {
	Balance amount `json:"balance"`
}

type moralisPortfolio struct {
	Tokens []struct {
		AssociatedTokenAddress string   `json:"associatedTokenAddress"`
		Decimals               decimals `json:"decimals"`
		Amount                 amount   `json:"amount"`
	} `json:"tokens"`
	NativeBalance struct {
		Solana amount `json:"solana"`
	} `json:"nativeBalance"`
}

func (m *Moralis) RequestSpecs(address string) []entity.RequestSpec {
	specs := make([]entity.RequestSpec, 0, len(m.codes))
	for _, code := range m.codes {
		chain, _ := m.def.ChainFor(code)
		tmpl := m.def.BaseURL
		if chain == entity.Solana {
			tmpl = moralisSolanaURL
		}
		specs = append(specs, entity.RequestSpec{
			URL:     fillTemplate(tmpl, map[string]string{"address": address, "evm_chain": code}),
			Chain:   chain,
			Address: address,
		})
	}
	return specs
}

// NativeRequest builds the native balance call for EVM chains.
func (m *Moralis) NativeRequest(spec entity.RequestSpec) (entity.RequestSpec, bool) {
	if spec.Chain == entity.Solana {
		return entity.RequestSpec{}, false
	}
	code, ok := m.def.CodeFor(spec.Chain)
	if !ok {
		return entity.RequestSpec{}, false
	}
	return entity.RequestSpec{
		URL:     fillTemplate(moralisNativeURL, map[string]string{"address": spec.Address, "evm_chain": code}),
		Chain:   spec.Chain,
		Address: spec.Address,
	}, true
}

func (m *Moralis) TransformNative(chain entity.ChainID, body []byte) ([]entity.Balance, error) {
	var resp moralisNative
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}
	balance := resp.Balance.String()
	if balance == "" {
		balance = "0"
	}
	return []entity.Balance{{
		Chain:    chain,
		Token:    moralisNativeTokens[chain],
		Amount:   balance,
		Decimals: entity.Decimals(18),
	}}, nil
}

func (m *Moralis) TransformResponse(chain entity.ChainID, body []byte) ([]entity.Balance, error) {
	if chain == entity.Solana {
		return m.transformPortfolio(chain, body)
	}

	var tokens []moralisERC20
	if err := json.Unmarshal(body, &tokens); err != nil {
		return nil, err
	}
	if tokens == nil {
		return nil, nil
	}
	balances := make([]entity.Balance, 0, len(tokens))
	for _, token := range tokens {
		balances = append(balances, entity.Balance{
			Chain:    chain,
			Token:    token.Symbol,
			Decimals: token.Decimals.Ptr(),
			Amount:   token.Balance.String(),
		})
	}
	return balances, nil
}

func (m *Moralis) transformPortfolio(chain entity.ChainID, body []byte) ([]entity.Balance, error) {
	var resp moralisPortfolio
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}

	balances := make([]entity.Balance, 0, len(resp.Tokens)+1)
	for _, token := range resp.Tokens {
		balances = append(balances, entity.Balance{
			Chain:    chain,
			Token:    token.AssociatedTokenAddress,
			Decimals: token.Decimals.Ptr(),
			Amount:   token.Amount.String(),
		})
	}
	if sol := resp.NativeBalance.Solana.String(); sol != "" {
		balances = append(balances, entity.Balance{
			Chain:    chain,
			Token:    "SOL",
			Amount:   sol,
			Decimals: entity.Decimals(18),
		})
	}
	return balances, nil
}
