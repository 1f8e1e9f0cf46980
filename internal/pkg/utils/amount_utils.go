package utils

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// NormalizeAmount turns a numeric literal (integer, float or exponent form) into a plain decimal string.
// Example: "1.5e3" => "1500"
func NormalizeAmount(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return "", fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	return d.String(), nil
}

// FormatAmount converts a raw provider amount into a human-readable value using decimals.
// Amounts without decimals are returned normalized but unscaled.
// Example: amount="1234500000000000000", decimals=18 => "1.2345"
func FormatAmount(raw string, decimals *int32) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "0", nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return "", fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	if decimals == nil || *decimals == 0 {
		return d.String(), nil
	}
	return d.Shift(-*decimals).String(), nil
}
