package csrf

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	t.Parallel()

	a, err := Generate()
	require.NoError(t, err)
	b, err := Generate()
	require.NoError(t, err)

	// 32 random bytes hex-encoded.
	require.Len(t, a, 64)
	_, err = hex.DecodeString(a)
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestMatches(t *testing.T) {
	t.Parallel()

	tok, err := Generate()
	require.NoError(t, err)
	altered := "f" + tok[1:]
	if altered == tok {
		altered = "0" + tok[1:]
	}

	tests := []struct {
		name   string
		header string
		cookie string
		want   bool
	}{
		{"equal values", tok, tok, true},
		{"different values", tok, altered, false},
		{"missing header", "", tok, false},
		{"missing cookie", tok, "", false},
		{"both missing", "", "", false},
		{"prefix only", tok[:32], tok, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Matches(tt.header, tt.cookie))
		})
	}
}
