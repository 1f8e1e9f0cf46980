package providers

import (
	"fmt"
	"net/http"

	"balance_benchmark/internal/domain/entity"
)

// BitqueryDefinition describes the Bitquery GraphQL API.
var BitqueryDefinition = entity.ProviderDefinition{ //nolint:gochecknoglobals // constant definition
	Name:        "bitquery",
	BaseURL:     "https://graphql.bitquery.io",
	Method:      http.MethodPost,
	MinInterval: perMinute(10),
	ChainCodes: map[string]entity.ChainID{
		"ethereum":  entity.Ethereum,
		"matic":     entity.Polygon,
		"bsc":       entity.BSC,
		"avalanche": entity.Avalanche,
		"fantom":    entity.Fantom,
		"klaytn":    entity.Klaytn,
		"solana":    entity.Solana,
		"bitcoin":   entity.Bitcoin,
	},
	SupportedChainCodes: []string{"ethereum", "matic", "bsc", "avalanche", "fantom", "klaytn", "solana", "bitcoin"},
}

const (
	bitquerySolanaQuery = `{
  solana(network: %s) {
    address(address: {is: %q}) {
      balance
    }
  }
}`
	bitqueryBitcoinQuery = `{
  bitcoin(network: %s) {
    inputs(inputAddress: {is: %q}) {
      value
    }
    outputs(outputAddress: {is: %q}) {
      value
    }
  }
}`
	bitqueryEthereumQuery = `{
  ethereum(network: %s) {
    address(address: {is: %q}) {
      balances {
        currency {
          symbol
        }
        value
      }
    }
  }
}`
)

// Bitquery sends one GraphQL query per chain.
type Bitquery struct {
	base
}

// NewBitquery creates the Bitquery adapter. apiKey goes into X-API-KEY.
func NewBitquery(chains []entity.ChainID, apiKey string) *Bitquery {
	return &Bitquery{base: newBase(BitqueryDefinition, chains, map[string]string{"X-API-KEY": apiKey})}
}

type graphQLRequest struct {
	Variables map[string]any `json:"variables"`
	Query     string         `json:"query"`
}

type bitqueryResponse struct {
	Data struct {
		Solana *struct {
			Address []struct {
				Balance amount `json:"balance"`
			} `json:"address"`
		} `json:"solana"`
		Bitcoin *struct {
			Outputs []struct {
				Value amount `json:"value"`
			} `json:"outputs"`
		} `json:"bitcoin"`
		Ethereum *struct {
			Address []struct {
				Balances []struct {
					Currency struct {
						Symbol string `json:"symbol"`
					} `json:"currency"`
					Value amount `json:"value"`
				} `json:"balances"`
			} `json:"address"`
		} `json:"ethereum"`
	} `json:"data"`
}

func (b *Bitquery) query(chain entity.ChainID, network, address string) string {
	switch chain {
	case entity.Solana:
		return fmt.Sprintf(bitquerySolanaQuery, network, address)
	case entity.Bitcoin:
		return fmt.Sprintf(bitqueryBitcoinQuery, network, address, address)
	default:
		return fmt.Sprintf(bitqueryEthereumQuery, network, address)
	}
}

func (b *Bitquery) RequestSpecs(address string) []entity.RequestSpec {
	specs := make([]entity.RequestSpec, 0, len(b.codes))
	for _, code := range b.codes {
		chain, _ := b.def.ChainFor(code)
		specs = append(specs, entity.RequestSpec{
			URL:   b.def.BaseURL,
			Chain: chain,
			Body: graphQLRequest{
				Variables: map[string]any{},
				Query:     b.query(chain, code, address),
			},
		})
	}
	return specs
}

func (b *Bitquery) TransformResponse(chain entity.ChainID, body []byte) ([]entity.Balance, error) {
	var resp bitqueryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}

	switch chain {
	case entity.Solana:
		var balance amount
		if resp.Data.Solana != nil && len(resp.Data.Solana.Address) > 0 {
			balance = resp.Data.Solana.Address[0].Balance
		}
		return []entity.Balance{{Chain: chain, Token: "SOL", Amount: balance.String()}}, nil
	case entity.Bitcoin:
		var value amount
		if resp.Data.Bitcoin != nil && len(resp.Data.Bitcoin.Outputs) > 0 {
			value = resp.Data.Bitcoin.Outputs[0].Value
		}
		return []entity.Balance{{Chain: chain, Token: "BTC", Amount: value.String()}}, nil
	}

	if resp.Data.Ethereum == nil || len(resp.Data.Ethereum.Address) == 0 || resp.Data.Ethereum.Address[0].Balances == nil {
		return nil, nil
	}
	assets := resp.Data.Ethereum.Address[0].Balances
	balances := make([]entity.Balance, 0, len(assets))
	for _, asset := range assets {
		balances = append(balances, entity.Balance{
			Chain:  chain,
			Token:  asset.Currency.Symbol,
			Amount: asset.Value.String(),
		})
	}
	return balances, nil
}
