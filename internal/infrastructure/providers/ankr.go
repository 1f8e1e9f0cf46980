package providers

import (
	"net/http"
	"time"

	"balance_benchmark/internal/domain/entity"
)

// AnkrDefinition describes the ANKR multichain JSON-RPC API.
var AnkrDefinition = entity.ProviderDefinition{ //nolint:gochecknoglobals // constant definition
	Name:        "ankr",
	BaseURL:     "https://rpc.ankr.com/multichain",
	Method:      http.MethodPost,
	MinInterval: perMinute(30000),
	ChainCodes: map[string]entity.ChainID{
		"eth":       entity.Ethereum,
		"polygon":   entity.Polygon,
		"bsc":       entity.BSC,
		"avalanche": entity.Avalanche,
		"fantom":    entity.Fantom,
		"arbitrum":  entity.Arbitrum,
		"optimism":  entity.Optimism,
	},
	SupportedChainCodes: []string{"polygon", "eth", "bsc", "fantom", "avalanche", "arbitrum", "optimism"},
}

// Ankr queries ankr_getAccountBalance once per chain.
type Ankr struct {
	base
}

// NewAnkr creates the ANKR adapter for the benchmark chains.
func NewAnkr(chains []entity.ChainID) *Ankr {
	return &Ankr{base: newBase(AnkrDefinition, chains, nil)}
}

type ankrRequest struct {
	JSONRPC string     `json:"jsonrpc"`
	Method  string     `json:"method"`
	Params  ankrParams `json:"params"`
	ID      int        `json:"id"`
}

type ankrParams struct {
	Blockchain    string `json:"blockchain"`
	WalletAddress string `json:"walletAddress"`
}

type ankrResponse struct {
	Result *struct {
		Assets []struct {
			TokenSymbol string `json:"tokenSymbol"`
			Balance     amount `json:"balance"`
			BalanceUSD  amount `json:"balanceUsd"`
		} `json:"assets"`
	} `json:"result"`
}

func (a *Ankr) RequestSpecs(address string) []entity.RequestSpec {
	specs := make([]entity.RequestSpec, 0, len(a.codes))
	for _, code := range a.codes {
		chain, _ := a.def.ChainFor(code)
		specs = append(specs, entity.RequestSpec{
			URL:   a.def.BaseURL,
			Chain: chain,
			Body: ankrRequest{
				JSONRPC: "2.0",
				Method:  "ankr_getAccountBalance",
				Params:  ankrParams{Blockchain: code, WalletAddress: address},
				ID:      1,
			},
		})
	}
	return specs
}

func (a *Ankr) TransformResponse(chain entity.ChainID, body []byte) ([]entity.Balance, error) {
	var resp ankrResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}
	if resp.Result == nil || resp.Result.Assets == nil {
		return nil, nil
	}

	balances := make([]entity.Balance, 0, len(resp.Result.Assets))
	for _, asset := range resp.Result.Assets {
		balances = append(balances, entity.Balance{
			Chain:     chain,
			Token:     asset.TokenSymbol,
			Amount:    asset.Balance.String(),
			AmountUSD: asset.BalanceUSD.String(),
		})
	}
	return balances, nil
}

// perMinute converts a published "requests per minute" quota into the interval between calls.
func perMinute(requests int) time.Duration {
	return time.Minute / time.Duration(requests)
}
