package address

import (
	"bytes"
	"crypto/ed25519"
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"balance_benchmark/internal/domain/entity"
)

const genesisAddress = "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa"

func solanaKey(t *testing.T) string {
	t.Helper()
	pub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	return base58.Encode(pub)
}

func segwitAddress(t *testing.T, params *chaincfg.Params) string {
	t.Helper()
	addr, err := btcutil.NewAddressWitnessPubKeyHash(bytes.Repeat([]byte{0x11}, 20), params)
	require.NoError(t, err)
	return addr.EncodeAddress()
}

func TestIsValid(t *testing.T) {
	sol := solanaKey(t)

	tests := []struct {
		name    string
		chain   entity.ChainID
		address string
		want    bool
	}{
		{name: "ronin prefix", chain: entity.Ronin, address: "ronin:3b43a8be1b7c173575ca4dc7b223a1ac7baaaf80", want: true},
		{name: "ronin with 0x", chain: entity.Ronin, address: "0x3b43a8be1b7c173575ca4dc7b223a1ac7baaaf80", want: false},
		{name: "evm 0x", chain: entity.Ethereum, address: "0x1d17371f4502357942b199cb0de90c6821f01fa5", want: true},
		{name: "evm without prefix", chain: entity.Polygon, address: "1d17371f4502357942b199cb0de90c6821f01fa5", want: false},
		{name: "evm chain gets ronin key", chain: entity.BSC, address: "ronin:41ea8053d7a3cfe6e755c658d8b8a04478eeb26b", want: false},
		{name: "bitcoin p2pkh", chain: entity.Bitcoin, address: genesisAddress, want: true},
		{name: "bitcoin segwit", chain: entity.Bitcoin, address: segwitAddress(t, &chaincfg.MainNetParams), want: true},
		{name: "bitcoin testnet segwit", chain: entity.Bitcoin, address: segwitAddress(t, &chaincfg.TestNet3Params), want: true},
		{name: "bitcoin bad checksum", chain: entity.Bitcoin, address: "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNb", want: false},
		{name: "bitcoin garbage", chain: entity.Bitcoin, address: "not-a-real-address", want: false},
		{name: "bitcoin evm key", chain: entity.Bitcoin, address: "0x1d17371f4502357942b199cb0de90c6821f01fa5", want: false},
		{name: "bitcoin hex public key", chain: entity.Bitcoin, address: "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798", want: false},
		{name: "solana key", chain: entity.Solana, address: sol, want: true},
		{name: "solana with invalid char", chain: entity.Solana, address: "0" + sol[1:], want: false},
		{name: "solana evm key", chain: entity.Solana, address: "0x1d17371f4502357942b199cb0de90c6821f01fa5", want: false},
		{name: "solana bitcoin key", chain: entity.Solana, address: genesisAddress, want: false},
		{name: "solana empty", chain: entity.Solana, address: "", want: false},
		{name: "solana short", chain: entity.Solana, address: "abc", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValid(tt.chain, tt.address))
		})
	}
}

func TestSolanaRejectsOffCurveKey(t *testing.T) {
	// y = 2 has no matching x on Ed25519
	raw := make([]byte, 32)
	raw[0] = 0x02
	encoded := base58.Encode(raw)

	require.Equal(t, "8opHzTAnfzRpPEx21XtnrVTX28YQuCpAjcn1PczScKh", encoded)
	assert.False(t, isOnCurve(raw))
	assert.False(t, IsSolanaAddress(encoded))
}

func TestBitcoinAddressNeverValidSolana(t *testing.T) {
	addresses := []string{
		genesisAddress,
		"341XXhcZ9QfWEnVdtt5RCD5BUgfjLKnKwr",
		segwitAddress(t, &chaincfg.MainNetParams),
	}
	for _, a := range addresses {
		if IsBitcoinAddress(a) {
			assert.False(t, IsValid(entity.Solana, a), a)
		}
	}
}

type countingValidator struct {
	calls int
}

func (c *countingValidator) IsValid(chain entity.ChainID, address string) bool {
	c.calls++
	return IsValid(chain, address)
}

func TestCachedValidator(t *testing.T) {
	next := &countingValidator{}
	v := NewCachedValidator(next)

	assert.True(t, v.IsValid(entity.Ethereum, "0xabc"))
	assert.True(t, v.IsValid(entity.Ethereum, "0xabc"))
	assert.False(t, v.IsValid(entity.Ronin, "0xabc"))
	assert.False(t, v.IsValid(entity.Ronin, "0xabc"))

	assert.Equal(t, 2, next.calls)
	assert.Equal(t, 2, v.Len())
}
