package entity

import (
	"fmt"
	"strings"
)

// ChainID identifies a blockchain network. It is the join key across providers.
type ChainID string

const (
	Ethereum  ChainID = "ethereum"
	BSC       ChainID = "bsc"
	Polygon   ChainID = "polygon"
	Ronin     ChainID = "ronin"
	Avalanche ChainID = "avalanche"
	Klaytn    ChainID = "klaytn"
	Solana    ChainID = "solana"
	Bitcoin   ChainID = "bitcoin"
	Fantom    ChainID = "fantom"
	Arbitrum  ChainID = "arbitrum"
	Optimism  ChainID = "optimism"
)

// AllChains lists every supported chain in a stable order.
var AllChains = []ChainID{ //nolint:gochecknoglobals
	Arbitrum,
	Avalanche,
	BSC,
	Bitcoin,
	Ethereum,
	Fantom,
	Klaytn,
	Optimism,
	Polygon,
	Ronin,
	Solana,
}

// ParseChainID converts a chain name into a ChainID. Matching is case-insensitive.
func ParseChainID(name string) (ChainID, error) {
	candidate := ChainID(strings.ToLower(strings.TrimSpace(name)))
	if candidate.IsKnown() {
		return candidate, nil
	}
	return "", fmt.Errorf("unknown chain %q", name)
}

// ParseChainIDs converts a list of names, failing on the first unknown one.
func ParseChainIDs(names []string) ([]ChainID, error) {
	chains := make([]ChainID, 0, len(names))
	for _, name := range names {
		c, err := ParseChainID(name)
		if err != nil {
			return nil, err
		}
		chains = append(chains, c)
	}
	return chains, nil
}

// IsKnown reports whether c belongs to the closed chain set.
func (c ChainID) IsKnown() bool {
	for _, known := range AllChains {
		if c == known {
			return true
		}
	}
	return false
}

// Title returns the chain name with an upper-case first letter, e.g. "Ethereum".
func (c ChainID) Title() string {
	if c == "" {
		return ""
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

func (c ChainID) String() string {
	return string(c)
}
