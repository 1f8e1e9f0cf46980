package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"balance_benchmark/internal/domain/entity"
)

// ErrProviderNotRegistered is returned when recording for a provider that was never registered.
var ErrProviderNotRegistered = errors.New("provider not registered")

// ErrNegativeDuration is returned for timing samples below zero.
var ErrNegativeDuration = errors.New("negative duration")

// orderedSet keeps insertion order of distinct strings.
type orderedSet struct {
	items []string
	index map[string]struct{}
}

func newOrderedSet() *orderedSet {
	return &orderedSet{index: make(map[string]struct{})}
}

func (s *orderedSet) add(items ...string) {
	for _, item := range items {
		if _, ok := s.index[item]; ok {
			continue
		}
		s.index[item] = struct{}{}
		s.items = append(s.items, item)
	}
}

func (s *orderedSet) has(item string) bool {
	_, ok := s.index[item]
	return ok
}

type providerState struct {
	timingByChain map[entity.ChainID][]time.Duration
	chainOrder    []entity.ChainID
	tokensByChain map[entity.ChainID]*orderedSet
}

func newProviderState() *providerState {
	return &providerState{
		timingByChain: make(map[entity.ChainID][]time.Duration),
		tokensByChain: make(map[entity.ChainID]*orderedSet),
	}
}

// Aggregator collects timing samples, discovered tokens and balance results for one benchmark run.
// All methods are safe for concurrent use.
type Aggregator struct {
	mu sync.RWMutex

	providers        map[string]*providerState
	providerOrder    []string
	allTokensByChain map[entity.ChainID]*orderedSet

	// address -> chain -> provider -> result
	balances map[string]map[entity.ChainID]map[string]entity.BalanceResult
}

// NewAggregator creates an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		providers:        make(map[string]*providerState),
		allTokensByChain: make(map[entity.ChainID]*orderedSet),
		balances:         make(map[string]map[entity.ChainID]map[string]entity.BalanceResult),
	}
}

// RegisterProvider initializes empty state for name. Registering twice resets that provider.
func (a *Aggregator) RegisterProvider(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.providers[name]; !exists {
		a.providerOrder = append(a.providerOrder, name)
	}
	a.providers[name] = newProviderState()
}

// RecordTiming appends a sample to the provider+chain sequence.
func (a *Aggregator) RecordTiming(provider string, chain entity.ChainID, d time.Duration) error {
	if d < 0 {
		return fmt.Errorf("record timing for %s/%s: %w", provider, chain, ErrNegativeDuration)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	state, ok := a.providers[provider]
	if !ok {
		return fmt.Errorf("record timing for %s: %w", provider, ErrProviderNotRegistered)
	}
	if _, seen := state.timingByChain[chain]; !seen {
		state.chainOrder = append(state.chainOrder, chain)
	}
	state.timingByChain[chain] = append(state.timingByChain[chain], d)
	return nil
}

// RecordTokens unions tokens into the provider+chain set and into the global set for chain.
func (a *Aggregator) RecordTokens(provider string, chain entity.ChainID, tokens []string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.recordTokensLocked(provider, chain, tokens)
}

func (a *Aggregator) recordTokensLocked(provider string, chain entity.ChainID, tokens []string) error {
	state, ok := a.providers[provider]
	if !ok {
		return fmt.Errorf("record tokens for %s: %w", provider, ErrProviderNotRegistered)
	}

	providerSet, ok := state.tokensByChain[chain]
	if !ok {
		providerSet = newOrderedSet()
		state.tokensByChain[chain] = providerSet
	}
	providerSet.add(tokens...)

	globalSet, ok := a.allTokensByChain[chain]
	if !ok {
		globalSet = newOrderedSet()
		a.allTokensByChain[chain] = globalSet
	}
	globalSet.add(tokens...)
	return nil
}

// RecordBalances stores the filtered, sorted balances a provider returned for address on chain,
// then records its token list.
func (a *Aggregator) RecordBalances(provider, address string, chain entity.ChainID, balances []entity.Balance, tokens []string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.providers[provider]; !ok {
		return fmt.Errorf("record balances for %s: %w", provider, ErrProviderNotRegistered)
	}

	byChain, ok := a.balances[address]
	if !ok {
		byChain = make(map[entity.ChainID]map[string]entity.BalanceResult)
		a.balances[address] = byChain
	}
	byProvider, ok := byChain[chain]
	if !ok {
		byProvider = make(map[string]entity.BalanceResult)
		byChain[chain] = byProvider
	}
	byProvider[provider] = entity.BalanceResult{
		Result:    append([]entity.Balance(nil), balances...),
		TokenList: strings.Join(tokens, ", "),
	}

	return a.recordTokensLocked(provider, chain, tokens)
}

// ComputeStatistics returns one summary per registered provider, sorted ascending by average time.
// Providers with equal averages keep registration order.
func (a *Aggregator) ComputeStatistics() []entity.ProviderSummary {
	a.mu.RLock()
	defer a.mu.RUnlock()

	summaries := make([]entity.ProviderSummary, 0, len(a.providerOrder))
	for _, name := range a.providerOrder {
		state := a.providers[name]
		summary := a.timeStatistics(state)
		summary.Provider = name
		summary.MissingTokensByChain = a.tokenStatistics(state)
		summaries = append(summaries, summary)
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].AvgTime < summaries[j].AvgTime
	})
	return summaries
}

func (a *Aggregator) timeStatistics(state *providerState) entity.ProviderSummary {
	var (
		total    float64
		count    int
		maxTime  float64
		minTime  *float64
		avgChain = make(map[entity.ChainID]float64, len(state.chainOrder))
	)

	for _, chain := range state.chainOrder {
		samples := state.timingByChain[chain]
		var chainTotal float64
		for _, d := range samples {
			ms := durationMillis(d)
			total += ms
			chainTotal += ms
			count++

			if ms > maxTime {
				maxTime = ms
			}
			if minTime == nil || ms < *minTime {
				v := ms
				minTime = &v
			}
		}
		if len(samples) > 0 {
			avgChain[chain] = chainTotal / float64(len(samples))
		} else {
			avgChain[chain] = 0
		}
	}

	var avg float64
	if count > 0 {
		avg = total / float64(count)
	}

	return entity.ProviderSummary{
		TotalTime:      total,
		Count:          count,
		AvgTime:        avg,
		MaxTime:        maxTime,
		MinTime:        minTime,
		AvgTimeByChain: avgChain,
	}
}

func (a *Aggregator) tokenStatistics(state *providerState) map[entity.ChainID]string {
	missing := make(map[entity.ChainID]string, len(state.tokensByChain))
	for chain, providerSet := range state.tokensByChain {
		var gaps []string
		if globalSet, ok := a.allTokensByChain[chain]; ok {
			for _, token := range globalSet.items {
				if !providerSet.has(token) {
					gaps = append(gaps, token)
				}
			}
		}
		missing[chain] = strings.Join(gaps, ", ")
	}
	return missing
}

// Timings returns a copy of the per-provider, per-chain samples in milliseconds.
func (a *Aggregator) Timings() map[string]map[entity.ChainID][]float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make(map[string]map[entity.ChainID][]float64, len(a.providers))
	for name, state := range a.providers {
		byChain := make(map[entity.ChainID][]float64, len(state.timingByChain))
		for chain, samples := range state.timingByChain {
			ms := make([]float64, len(samples))
			for i, d := range samples {
				ms[i] = durationMillis(d)
			}
			byChain[chain] = ms
		}
		out[name] = byChain
	}
	return out
}

// Balances returns a copy of every stored balance result, keyed address -> chain -> provider.
func (a *Aggregator) Balances() map[string]map[entity.ChainID]map[string]entity.BalanceResult {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make(map[string]map[entity.ChainID]map[string]entity.BalanceResult, len(a.balances))
	for address, byChain := range a.balances {
		chainCopy := make(map[entity.ChainID]map[string]entity.BalanceResult, len(byChain))
		for chain, byProvider := range byChain {
			providerCopy := make(map[string]entity.BalanceResult, len(byProvider))
			for provider, result := range byProvider {
				providerCopy[provider] = entity.BalanceResult{
					Result:    append([]entity.Balance(nil), result.Result...),
					TokenList: result.TokenList,
				}
			}
			chainCopy[chain] = providerCopy
		}
		out[address] = chainCopy
	}
	return out
}

// Providers returns registered provider names in registration order.
func (a *Aggregator) Providers() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]string(nil), a.providerOrder...)
}

func durationMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
