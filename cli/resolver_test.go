package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/require"
)

type resolverFixture struct {
	LogLevel  string   `default:"info"`
	Jobs      int      `default:"1"`
	Placement string   `default:"outside"`
	Write     bool     `default:"false"`
	Tags      []string
}

func parseWithConfig(t *testing.T, content string, args ...string) resolverFixture {
	t.Helper()

	path := filepath.Join(t.TempDir(), baseConfig)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	var fixture resolverFixture

	parser, err := kong.New(&fixture,
		kong.Exit(func(int) { t.Fatal("unexpected exit") }),
		kong.Configuration(resolve(context.Background()), path),
	)
	require.NoError(t, err)

	_, err = parser.Parse(args)
	require.NoError(t, err)

	return fixture
}

func TestResolve_AppliesSnakeCaseKeys(t *testing.T) {
	require := require.New(t)

	got := parseWithConfig(t, `
log_level: debug
jobs: 4
placement: inside
write: true
tags: [alpha, beta]
`)

	require.Equal("debug", got.LogLevel)
	require.Equal(4, got.Jobs)
	require.Equal("inside", got.Placement)
	require.True(got.Write)
	require.Equal([]string{"alpha", "beta"}, got.Tags)
}

func TestResolve_NormalizesKeys(t *testing.T) {
	got := parseWithConfig(t, "logLevel: warn\n")

	require.Equal(t, "warn", got.LogLevel)
}

func TestResolve_FlagsOverrideConfig(t *testing.T) {
	got := parseWithConfig(t, "placement: inside\n", "--placement=outside")

	require.Equal(t, "outside", got.Placement)
}

func TestResolve_IgnoresNonMapping(t *testing.T) {
	require := require.New(t)

	got := parseWithConfig(t, "- just\n- a list\n")

	require.Equal("info", got.LogLevel)
	require.Equal(1, got.Jobs)
}

func TestNative(t *testing.T) {
	require := require.New(t)

	require.Equal("42", native(uint64(42)))
	require.Equal("-3", native(int64(-3)))
	require.Equal("0.5", native(0.5))
	require.Equal("a,1", native([]any{"a", uint64(1)}))
	require.Equal(true, native(true))
}
