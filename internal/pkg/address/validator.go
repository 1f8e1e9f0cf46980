// Package address checks whether a public key is well-formed for a chain before any request is made.
package address

import (
	"strings"

	"filippo.io/edwards25519"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/mr-tron/base58"

	"balance_benchmark/internal/domain/entity"
)

const (
	roninPrefix = "ronin:"
	evmPrefix   = "0x"

	base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

	solanaPublicKeyLength = 32
)

var bitcoinNetworks = []*chaincfg.Params{ //nolint:gochecknoglobals
	&chaincfg.MainNetParams,
	&chaincfg.TestNet3Params,
	&chaincfg.RegressionNetParams,
}

// Validator is the stateless address validator.
type Validator struct{}

// NewValidator returns a Validator.
func NewValidator() Validator {
	return Validator{}
}

// IsValid implements port.AddressValidator.
func (Validator) IsValid(chain entity.ChainID, address string) bool {
	return IsValid(chain, address)
}

// IsValid reports whether address has the format expected on chain.
// Chains without a dedicated rule are treated as EVM chains.
func IsValid(chain entity.ChainID, address string) bool {
	switch chain {
	case entity.Ronin:
		return strings.HasPrefix(address, roninPrefix)
	case entity.Bitcoin:
		return IsBitcoinAddress(address)
	case entity.Solana:
		return IsSolanaAddress(address)
	default:
		return strings.HasPrefix(address, evmPrefix)
	}
}

// IsBitcoinAddress accepts Base58Check (P2PKH, P2SH) and Bech32/Bech32m addresses
// for mainnet, testnet and regtest.
func IsBitcoinAddress(address string) bool {
	if address == "" {
		return false
	}
	for _, params := range bitcoinNetworks {
		decoded, err := btcutil.DecodeAddress(address, params)
		if err != nil {
			continue
		}
		if isPaymentAddress(decoded) && decoded.IsForNet(params) {
			return true
		}
	}
	return false
}

// isPaymentAddress rejects raw public keys, which DecodeAddress also accepts in hex form.
func isPaymentAddress(addr btcutil.Address) bool {
	switch addr.(type) {
	case *btcutil.AddressPubKeyHash,
		*btcutil.AddressScriptHash,
		*btcutil.AddressWitnessPubKeyHash,
		*btcutil.AddressWitnessScriptHash,
		*btcutil.AddressTaproot:
		return true
	default:
		return false
	}
}

// IsSolanaAddress accepts Base58 strings that decode to a 32-byte point on the Ed25519 curve.
// Strings that are also valid bitcoin addresses are rejected.
func IsSolanaAddress(address string) bool {
	if address == "" || !isBase58(address) {
		return false
	}
	if IsBitcoinAddress(address) {
		return false
	}

	raw, err := base58.Decode(address)
	if err != nil || len(raw) != solanaPublicKeyLength {
		return false
	}
	return isOnCurve(raw)
}

func isBase58(s string) bool {
	for _, r := range s {
		if !strings.ContainsRune(base58Alphabet, r) {
			return false
		}
	}
	return true
}

func isOnCurve(b []byte) bool {
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}
