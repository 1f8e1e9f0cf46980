package keyloader

import (
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"balance_benchmark/internal/app/port"
	"balance_benchmark/internal/domain/entity"
	"balance_benchmark/internal/pkg/utils"
)

// TestAddresses are always benchmarked first unless skipped. They cover every chain family once or twice.
var TestAddresses = []string{ //nolint:gochecknoglobals // fixed benchmark set
	"0x1d17371f4502357942b199cb0de90c6821f01fa5", // ethereum
	"0x9adb88d3c48b8a0bcbe88b9d2b351a1fc768edc1", // bsc
	"0x38a7e25a4b7ce22f3e51b62672fc7bd9d82dc6dc", // avalanche
	"0x0ac5018cd80820184fcf2828cc8f973b71c1dc0a", // bsc
	"0xa20863ebd65d24dd3d96083533c8502f150644af", // polygon
	"0x8d62c6f79e8a526fb575dd2fe3aaf2f841c42635", // polygon
	"ronin:3b43a8be1b7c173575ca4dc7b223a1ac7baaaf80",
	"ronin:41ea8053d7a3cfe6e755c658d8b8a04478eeb26b",
	"0x9696ece5ce9e73624351754b0e6dc93518c0ab76",   // klaytn
	"AT3MJdtURZvWisMciEUW1Ngt6EqAxF2CbUo94PszW7Ko", // solana
	"341XXhcZ9QfWEnVdtt5RCD5BUgfjLKnKwr",           // bitcoin
	"0x1111111254fb6c44bAC0beD2854e76F90643097d",   // polygon, contract
}

// Record is one row of a query-result dataset.
type Record struct {
	UserPublicKey string `json:"userPublicKey"`
	BlockchainID  string `json:"blockchainId"`
	F0            string `json:"f0_"`
}

// Dataset is a JSON file of records contributing keys for one chain.
// BlockchainID and Contains narrow the records; empty means no filter.
type Dataset struct {
	Chain        entity.ChainID
	Path         string
	BlockchainID string
	Contains     string
}

func (d Dataset) matches(r Record) bool {
	if d.BlockchainID != "" && r.BlockchainID != d.BlockchainID {
		return false
	}
	if d.Contains != "" && !strings.Contains(r.F0, d.Contains) {
		return false
	}
	return true
}

// Options control which keys are returned.
type Options struct {
	SkipTestAddresses bool
	Limit             int // 0 means all
}

// Loader implements port.KeyProvider from the built-in test addresses plus JSON datasets.
type Loader struct {
	datasets []Dataset
	opts     Options
	logger   port.Logger
}

// NewLoader creates a key loader. Datasets are read lazily on GetPublicKeys.
func NewLoader(datasets []Dataset, opts Options, logger port.Logger) port.KeyProvider {
	return &Loader{datasets: datasets, opts: opts, logger: logger}
}

// GetPublicKeys returns the test addresses followed by the dataset keys of every benchmarked chain,
// deduplicated in first-seen order. Skipping removes exactly the test-address prefix before the limit applies.
func (l *Loader) GetPublicKeys(benchmarkChains []entity.ChainID) ([]string, error) {
	keys := append([]string(nil), TestAddresses...)

	for _, ds := range l.datasets {
		if !slices.Contains(benchmarkChains, ds.Chain) {
			continue
		}
		loaded, err := l.loadDataset(ds)
		if err != nil {
			return nil, err
		}
		keys = append(keys, loaded...)
	}

	unique := utils.UniqueStrings(keys, true)
	skip := 0
	if l.opts.SkipTestAddresses {
		skip = len(TestAddresses)
	}
	out := utils.Window(unique, skip, l.opts.Limit)

	l.logger.Info("Public keys loaded", "total", len(unique), "selected", len(out),
		"skip_test_addresses", l.opts.SkipTestAddresses, "limit", l.opts.Limit)
	return out, nil
}

func (l *Loader) loadDataset(ds Dataset) ([]string, error) {
	records, err := utils.LoadJSONFile[[]Record](ds.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.logger.Warn("Key dataset not found, skipping", "chain", ds.Chain, "path", ds.Path)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load %s key dataset: %w", ds.Chain, err)
	}

	keys := make([]string, 0, len(records))
	rejected := 0
	for _, r := range records {
		if !ds.matches(r) {
			continue
		}
		key := strings.TrimSpace(r.UserPublicKey)
		if key == "" {
			continue
		}
		if isEVM(ds.Chain) && !(strings.HasPrefix(key, "0x") && common.IsHexAddress(key)) {
			rejected++
			continue
		}
		keys = append(keys, key)
	}

	if rejected > 0 {
		l.logger.Warn("Skipped malformed EVM addresses in key dataset", "chain", ds.Chain, "path", ds.Path, "count", rejected)
	}
	l.logger.Debug("Key dataset loaded", "chain", ds.Chain, "path", ds.Path, "records", len(records), "keys", len(keys))
	return keys, nil
}

// isEVM reports whether dataset keys for chain are plain 0x hex addresses.
func isEVM(chain entity.ChainID) bool {
	switch chain {
	case entity.Ronin, entity.Solana, entity.Bitcoin:
		return false
	default:
		return true
	}
}
