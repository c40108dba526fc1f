package repl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		input  string
		cursor int
		word   string
		start  int
		end    int
	}{
		{"(alpha, mut be", 14, "be", 12, 14},
		{"(alpha, mut be", 3, "alpha", 1, 6},
		{"a.clo", 5, "clo", 2, 5},
		{"x + ", 4, "", 4, 4},
		{"", 0, "", 0, 0},
		{"größe", 99, "größe", 0, 7},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			require.Equal(t, tt.word, word)
			require.Equal(t, tt.start, start)
			require.Equal(t, tt.end, end)
		})
	}
}

func TestHarvest(t *testing.T) {
	require := require.New(t)

	words := harvest(nil, "(config, mut n = config.len()) move || n + x")
	require.Equal([]string{"config", "len"}, words)

	words = harvest(words, "(buffer) buffer")
	require.Equal([]string{"buffer", "config", "len"}, words)

	require.Equal(words, harvest(words, `"unterminated`))
}

func TestCtrlCandidates(t *testing.T) {
	require := require.New(t)

	require.Equal(ctrlCommands, ctrlCandidates("se", 0))
	require.Equal(settingNames, ctrlCandidates("set pl", 4))
	require.Equal([]string{"outside", "inside"}, ctrlCandidates("set placement ", 14))
	require.Nil(ctrlCandidates("set clone x", 10))
	require.Nil(ctrlCandidates("show x", 5))
}
