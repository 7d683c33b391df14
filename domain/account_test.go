package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAccountID(t *testing.T) {
	cases := []struct {
		name  string
		input string
		ok    bool
	}{
		{"short hex", "0xAAA", true},
		{"mixed case", "0xDeadBeef01", true},
		{"alphanumeric body", "0xFAUCET", true},
		{"max length", "0x" + strings.Repeat("a", 64), true},
		{"empty", "", false},
		{"missing prefix", "AAA", false},
		{"prefix only", "0x", false},
		{"too long", "0x" + strings.Repeat("a", 65), false},
		{"whitespace in body", "0xAA A", false},
		{"punctuation", "0xAA-A", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id, err := ParseAccountID(tc.input)
			if !tc.ok {
				require.ErrorIs(t, err, ErrMalformedIdentifier)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.input, id.String())
		})
	}
}

func TestParseFaucetID(t *testing.T) {
	id, err := ParseFaucetID("0xFAUCET")
	require.NoError(t, err)
	assert.Equal(t, FaucetID("0xFAUCET"), id)

	_, err = ParseFaucetID("faucet")
	require.ErrorIs(t, err, ErrMalformedIdentifier)
}
