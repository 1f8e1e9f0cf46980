package providers

import (
	"net/url"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"balance_benchmark/internal/domain/entity"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// base carries what every adapter shares: its definition, the native chain codes it
// queries for this run and the request headers.
type base struct {
	def     entity.ProviderDefinition
	codes   []string
	headers map[string]string
}

func newBase(def entity.ProviderDefinition, chains []entity.ChainID, extraHeaders map[string]string) base {
	headers := map[string]string{"Content-Type": "application/json"}
	for k, v := range extraHeaders {
		headers[k] = v
	}
	return base{
		def:     def,
		codes:   def.QueryingCodes(chains),
		headers: headers,
	}
}

func (b *base) Definition() entity.ProviderDefinition {
	return b.def
}

func (b *base) Headers() map[string]string {
	out := make(map[string]string, len(b.headers))
	for k, v := range b.headers {
		out[k] = v
	}
	return out
}

// QueryingCodes returns the native chain codes queried for every address.
func (b *base) QueryingCodes() []string {
	return append([]string(nil), b.codes...)
}

// fillTemplate replaces {:name} placeholders, escaping values as path segments.
func fillTemplate(tmpl string, values map[string]string) string {
	pairs := make([]string, 0, len(values)*2)
	for k, v := range values {
		pairs = append(pairs, "{:"+k+"}", url.PathEscape(v))
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

// firstObjectValue decodes the value of the first key of a JSON object into v.
// It reports false when the object is empty or null.
func firstObjectValue(raw jsoniter.RawMessage, v any) (bool, error) {
	iter := jsoniter.ParseBytes(json, raw)
	found := false
	iter.ReadObjectCB(func(it *jsoniter.Iterator, _ string) bool {
		it.ReadVal(v)
		found = true
		return false
	})
	if iter.Error != nil {
		return false, iter.Error
	}
	return found, nil
}
