package providers

import (
	"net/http"
	"net/url"

	"balance_benchmark/internal/domain/entity"
)

// DebankDefinition describes the Debank pro token_list API.
var DebankDefinition = entity.ProviderDefinition{ //nolint:gochecknoglobals // constant definition
	Name:        "debank",
	BaseURL:     "https://pro-openapi.debank.com/v1/user/token_list",
	Method:      http.MethodGet,
	MinInterval: perMinute(6000),
	ChainCodes: map[string]entity.ChainID{
		"eth":   entity.Ethereum,
		"matic": entity.Polygon,
		"bsc":   entity.BSC,
		"avax":  entity.Avalanche,
	},
	SupportedChainCodes: []string{"matic", "eth", "bsc", "avax"},
}

// Debank lists the tokens held on each chain.
type Debank struct {
	base
}

// NewDebank creates the Debank adapter. accessKey goes into the AccessKey header.
func NewDebank(chains []entity.ChainID, accessKey string) *Debank {
	return &Debank{base: newBase(DebankDefinition, chains, map[string]string{"AccessKey": accessKey})}
}

type debankToken struct {
	Symbol   string   `json:"symbol"`
	Decimals decimals `json:"decimals"`
	Balance  amount   `json:"balance"`
	Price    amount   `json:"price"`
}

func (d *Debank) RequestSpecs(address string) []entity.RequestSpec {
	specs := make([]entity.RequestSpec, 0, len(d.codes))
	for _, code := range d.codes {
		chain, _ := d.def.ChainFor(code)
		query := url.Values{"id": {address}, "chain_id": {code}}
		specs = append(specs, entity.RequestSpec{
			URL:   d.def.BaseURL + "?" + query.Encode(),
			Chain: chain,
		})
	}
	return specs
}

func (d *Debank) TransformResponse(chain entity.ChainID, body []byte) ([]entity.Balance, error) {
	var tokens []debankToken
	if err := json.Unmarshal(body, &tokens); err != nil {
		return nil, err
	}
	if tokens == nil {
		return nil, nil
	}

	balances := make([]entity.Balance, 0, len(tokens))
	for _, token := range tokens {
		balances = append(balances, entity.Balance{
			Chain:     chain,
			Token:     token.Symbol,
			Decimals:  token.Decimals.Ptr(),
			Amount:    token.Balance.String(),
			AmountUSD: token.Price.String(),
		})
	}
	return balances, nil
}
