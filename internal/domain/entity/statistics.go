package entity

import (
	"bytes"
	"sort"

	jsoniter "github.com/json-iterator/go"
)

// ProviderSummary is the aggregated comparison row for one provider. Times are milliseconds.
type ProviderSummary struct {
	Provider             string
	TotalTime            float64
	Count                int
	AvgTime              float64
	MaxTime              float64
	MinTime              *float64 // nil when the provider has no samples
	AvgTimeByChain       map[ChainID]float64
	MissingTokensByChain map[ChainID]string
}

// MarshalJSON flattens per-chain values into avgTimeFor<Chain> / missingTokensFor<Chain> keys.
func (s ProviderSummary) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	stream := jsoniter.ConfigCompatibleWithStandardLibrary.BorrowStream(&buf)
	defer jsoniter.ConfigCompatibleWithStandardLibrary.ReturnStream(stream)

	stream.WriteObjectStart()
	stream.WriteObjectField("provider")
	stream.WriteString(s.Provider)
	stream.WriteMore()
	stream.WriteObjectField("totalTime")
	stream.WriteFloat64(s.TotalTime)
	stream.WriteMore()
	stream.WriteObjectField("count")
	stream.WriteInt(s.Count)
	stream.WriteMore()
	stream.WriteObjectField("avgTime")
	stream.WriteFloat64(s.AvgTime)
	stream.WriteMore()
	stream.WriteObjectField("maxTime")
	stream.WriteFloat64(s.MaxTime)
	stream.WriteMore()
	stream.WriteObjectField("minTime")
	if s.MinTime != nil {
		stream.WriteFloat64(*s.MinTime)
	} else {
		stream.WriteNil()
	}
	for _, chain := range sortedChains(s.AvgTimeByChain) {
		stream.WriteMore()
		stream.WriteObjectField("avgTimeFor" + chain.Title())
		stream.WriteFloat64(s.AvgTimeByChain[chain])
	}
	for _, chain := range sortedChains(s.MissingTokensByChain) {
		stream.WriteMore()
		stream.WriteObjectField("missingTokensFor" + chain.Title())
		stream.WriteString(s.MissingTokensByChain[chain])
	}
	stream.WriteObjectEnd()

	if stream.Error != nil {
		return nil, stream.Error
	}
	if err := stream.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func sortedChains[V any](m map[ChainID]V) []ChainID {
	chains := make([]ChainID, 0, len(m))
	for c := range m {
		chains = append(chains, c)
	}
	sort.Slice(chains, func(i, j int) bool { return chains[i] < chains[j] })
	return chains
}
