package providers

import (
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"balance_benchmark/internal/domain/entity"
)

// BlockchairDefinition describes the Blockchair address dashboard API.
var BlockchairDefinition = entity.ProviderDefinition{ //nolint:gochecknoglobals // constant definition
	Name:        "blockchair",
	BaseURL:     "https://api.blockchair.com/{:chain}/dashboards/address/{:address}?erc_20=true&assets_in_usd=true",
	Method:      http.MethodGet,
	MinInterval: perMinute(30),
	ChainCodes: map[string]entity.ChainID{
		"ethereum": entity.Ethereum,
		"btc":      entity.Bitcoin,
	},
	SupportedChainCodes: []string{"ethereum", "btc"},
}

var errNoDashboard = errors.New("response has no address dashboard")

// Blockchair reads the address dashboard of each chain.
type Blockchair struct {
	base
}

// NewBlockchair creates the Blockchair adapter. accessKey goes into the AccessKey header.
func NewBlockchair(chains []entity.ChainID, accessKey string) *Blockchair {
	return &Blockchair{base: newBase(BlockchairDefinition, chains, map[string]string{"AccessKey": accessKey})}
}

type blockchairResponse struct {
	Data jsoniter.RawMessage `json:"data"`
}

type blockchairDashboard struct {
	Address *struct {
		Balance amount `json:"balance"`
	} `json:"address"`
	Layer2 struct {
		ERC20 []struct {
			TokenSymbol        string   `json:"token_symbol"`
			TokenDecimals      decimals `json:"token_decimals"`
			BalanceApproximate amount   `json:"balance_approximate"`
			BalanceUSD         amount   `json:"balance_usd"`
		} `json:"erc_20"`
	} `json:"layer_2"`
}

func (b *Blockchair) RequestSpecs(address string) []entity.RequestSpec {
	specs := make([]entity.RequestSpec, 0, len(b.codes))
	for _, code := range b.codes {
		chain, _ := b.def.ChainFor(code)
		specs = append(specs, entity.RequestSpec{
			URL:   fillTemplate(b.def.BaseURL, map[string]string{"chain": code, "address": address}),
			Chain: chain,
		})
	}
	return specs
}

func (b *Blockchair) TransformResponse(chain entity.ChainID, body []byte) ([]entity.Balance, error) {
	var resp blockchairResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}

	var dashboard blockchairDashboard
	found, err := firstObjectValue(resp.Data, &dashboard)
	if err != nil {
		return nil, err
	}

	if chain == entity.Bitcoin {
		if !found || dashboard.Address == nil {
			return nil, errNoDashboard
		}
		return []entity.Balance{{
			Chain:    chain,
			Token:    "BTC",
			Amount:   dashboard.Address.Balance.String(),
			Decimals: entity.Decimals(18),
		}}, nil
	}

	balances := make([]entity.Balance, 0, len(dashboard.Layer2.ERC20))
	for _, asset := range dashboard.Layer2.ERC20 {
		balances = append(balances, entity.Balance{
			Chain:     chain,
			Token:     asset.TokenSymbol,
			Decimals:  asset.TokenDecimals.Ptr(),
			Amount:    asset.BalanceApproximate.String(),
			AmountUSD: asset.BalanceUSD.String(),
		})
	}
	return balances, nil
}
