package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "42", want: "42"},
		{in: "0.50", want: "0.5"},
		{in: "1.5e3", want: "1500"},
		{in: "1e-8", want: "0.00000001"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeAmount(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := NormalizeAmount("abc")
	assert.Error(t, err)
}

func TestFormatAmount(t *testing.T) {
	d18 := int32(18)
	d0 := int32(0)

	got, err := FormatAmount("1234500000000000000", &d18)
	require.NoError(t, err)
	assert.Equal(t, "1.2345", got)

	got, err = FormatAmount("1500", &d0)
	require.NoError(t, err)
	assert.Equal(t, "1500", got)

	got, err = FormatAmount("0.25", nil)
	require.NoError(t, err)
	assert.Equal(t, "0.25", got)

	got, err = FormatAmount("", nil)
	require.NoError(t, err)
	assert.Equal(t, "0", got)

	_, err = FormatAmount("x", &d18)
	assert.Error(t, err)
}

func TestUniqueStrings(t *testing.T) {
	in := []string{"b", "a", "", "b", "c", "a", ""}
	assert.Equal(t, []string{"b", "a", "c"}, UniqueStrings(in, true))
	assert.Equal(t, []string{"b", "a", "", "c"}, UniqueStrings(in, false))
	assert.Empty(t, UniqueStrings(nil, true))
}

func TestWindow(t *testing.T) {
	items := []string{"a", "b", "c", "d"}
	assert.Equal(t, items, Window(items, 0, 0))
	assert.Equal(t, []string{"c", "d"}, Window(items, 2, 0))
	assert.Equal(t, []string{"b", "c"}, Window(items, 1, 2))
	assert.Equal(t, []string{"d"}, Window(items, 3, 10))
	assert.Empty(t, Window(items, 4, 1))
}

func TestLoadJSONFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keys.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"userPublicKey":"0x1"}]`), 0o600))

	type record struct {
		UserPublicKey string `json:"userPublicKey"`
	}
	records, err := LoadJSONFile[[]record](path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "0x1", records[0].UserPublicKey)

	_, err = LoadJSONFile[[]record](filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
