package providers

import (
	"encoding/base64"
	"net/http"

	"balance_benchmark/internal/domain/entity"
)

// ZerionDefinition describes the Zerion wallet positions API.
var ZerionDefinition = entity.ProviderDefinition{ //nolint:gochecknoglobals // constant definition
	Name:        "zerion",
	BaseURL:     "https://api.zerion.io/v1/wallets/{:address}/positions/?currency=usd&filter[position_types]=wallet",
	Method:      http.MethodGet,
	MinInterval: perMinute(120),
	ChainCodes: map[string]entity.ChainID{
		"arbitrum":            entity.Arbitrum,
		"avalanche":           entity.Avalanche,
		"binance-smart-chain": entity.BSC,
		"ethereum":            entity.Ethereum,
		"fantom":              entity.Fantom,
		"optimism":            entity.Optimism,
		"polygon":             entity.Polygon,
		"solana":              entity.Solana,
	},
	SupportedChainCodes: []string{"arbitrum", "avalanche", "binance-smart-chain", "ethereum", "fantom", "optimism", "polygon", "solana"},
}

// Zerion returns positions across all chains in one call, timed under ethereum.
type Zerion struct {
	base
}

// NewZerion creates the Zerion adapter with HTTP basic credentials.
func NewZerion(chains []entity.ChainID, user, pass string) *Zerion {
	auth := "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
	return &Zerion{base: newBase(ZerionDefinition, chains, map[string]string{"Authorization": auth})}
}

type zerionResponse struct {
	Data []struct {
		Attributes struct {
			FungibleInfo struct {
				Symbol string `json:"symbol"`
			} `json:"fungible_info"`
			Quantity struct {
				Decimals decimals `json:"decimals"`
				Int      amount   `json:"int"`
			} `json:"quantity"`
			Value amount `json:"value"`
		} `json:"attributes"`
		Relationships struct {
			Chain struct {
				Data struct {
					ID string `json:"id"`
				} `json:"data"`
			} `json:"chain"`
		} `json:"relationships"`
	} `json:"data"`
}

func (z *Zerion) RequestSpecs(address string) []entity.RequestSpec {
	return []entity.RequestSpec{{
		URL:   fillTemplate(z.def.BaseURL, map[string]string{"address": address}),
		Chain: entity.Ethereum,
	}}
}

// TransformResponse tags each position with its own chain. chain is only the timing bucket.
func (z *Zerion) TransformResponse(_ entity.ChainID, body []byte) ([]entity.Balance, error) {
	var resp zerionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, nil
	}

	balances := make([]entity.Balance, 0, len(resp.Data))
	for _, pos := range resp.Data {
		code := pos.Relationships.Chain.Data.ID
		if code == "" {
			code = "ethereum"
		}
		chain, _ := z.def.ChainFor(code)
		balances = append(balances, entity.Balance{
			Chain:     chain,
			Token:     pos.Attributes.FungibleInfo.Symbol,
			Decimals:  pos.Attributes.Quantity.Decimals.Ptr(),
			Amount:    pos.Attributes.Quantity.Int.String(),
			AmountUSD: pos.Attributes.Value.String(),
		})
	}
	return balances, nil
}
