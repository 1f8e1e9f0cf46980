package providers

import (
	"bytes"
	"strconv"
	"strings"

	"balance_benchmark/internal/pkg/utils"
)

// amount accepts a JSON string or number. Numbers are kept at full precision and rendered
// as plain decimal strings, so 1e-7 becomes "0.0000001".
type amount string

func (a *amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*a = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = amount(strings.TrimSpace(s))
	default:
		normalized, err := utils.NormalizeAmount(string(data))
		if err != nil {
			return err
		}
		*a = amount(normalized)
	}
	return nil
}

func (a amount) String() string {
	return string(a)
}

// decimals accepts an integer or a numeric string. Anything else leaves it unset.
type decimals struct {
	value *int32
}

func (d *decimals) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		d.value = nil
		return nil
	}
	raw := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	}
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 32)
	if err != nil {
		d.value = nil
		return nil
	}
	v := int32(n)
	d.value = &v
	return nil
}

func (d decimals) Ptr() *int32 {
	return d.value
}
