package providers

import (
	"net/http"
	"net/url"

	"balance_benchmark/internal/domain/entity"
)

// CovalentDefinition describes the CovalentHQ balances_v2 API. Chains are keyed by numeric chain id.
var CovalentDefinition = entity.ProviderDefinition{ //nolint:gochecknoglobals // constant definition
	Name:        "covalenthq",
	BaseURL:     "https://api.covalenthq.com/v1/{:chain}/address/{:address}/balances_v2/",
	Method:      http.MethodGet,
	MinInterval: perMinute(300),
	ChainCodes: map[string]entity.ChainID{
		"1":          entity.Ethereum,
		"137":        entity.Polygon,
		"56":         entity.BSC,
		"43114":      entity.Avalanche,
		"250":        entity.Fantom,
		"2020":       entity.Ronin,
		"8217":       entity.Klaytn,
		"1399811149": entity.Solana,
		"42161":      entity.Arbitrum,
	},
	SupportedChainCodes: []string{"1", "137", "56", "43114", "250", "2020", "8217", "1399811149", "42161"},
}

// Covalent queries balances_v2 once per chain.
type Covalent struct {
	base
	apiKey string
}

// NewCovalent creates the CovalentHQ adapter. apiKey is sent as the key query parameter.
func NewCovalent(chains []entity.ChainID, apiKey string) *Covalent {
	return &Covalent{base: newBase(CovalentDefinition, chains, nil), apiKey: apiKey}
}

type covalentResponse struct {
	Data *struct {
		Items []struct {
			ContractTickerSymbol string   `json:"contract_ticker_symbol"`
			ContractDecimals     decimals `json:"contract_decimals"`
			Balance              amount   `json:"balance"`
			Quote                amount   `json:"quote"`
		} `json:"items"`
	} `json:"data"`
}

func (c *Covalent) RequestSpecs(address string) []entity.RequestSpec {
	query := url.Values{"key": {c.apiKey}}.Encode()

	specs := make([]entity.RequestSpec, 0, len(c.codes))
	for _, code := range c.codes {
		chain, _ := c.def.ChainFor(code)
		specs = append(specs, entity.RequestSpec{
			URL:   fillTemplate(c.def.BaseURL, map[string]string{"chain": code, "address": address}) + "?" + query,
			Chain: chain,
		})
	}
	return specs
}

func (c *Covalent) TransformResponse(chain entity.ChainID, body []byte) ([]entity.Balance, error) {
	var resp covalentResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil || resp.Data.Items == nil {
		return nil, nil
	}

	balances := make([]entity.Balance, 0, len(resp.Data.Items))
	for _, item := range resp.Data.Items {
		balances = append(balances, entity.Balance{
			Chain:     chain,
			Token:     item.ContractTickerSymbol,
			Decimals:  item.ContractDecimals.Ptr(),
			Amount:    item.Balance.String(),
			AmountUSD: item.Quote.String(),
		})
	}
	return balances, nil
}
