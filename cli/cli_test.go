package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// captureStdout runs fn with os.Stdout redirected and returns what it wrote.
func captureStdout(t *testing.T, fn func() error) string {
	t.Helper()

	r, w, err := os.Pipe()
	require.NoError(t, err)

	orig := os.Stdout
	os.Stdout = w

	defer func() { os.Stdout = orig }()

	done := make(chan []byte)

	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.Bytes()
	}()

	runErr := fn()

	require.NoError(t, w.Close())
	out := <-done
	require.NoError(t, runErr)

	return string(out)
}

func TestRun_ConfigFileDrivesRewrite(t *testing.T) {
	require := require.New(t)

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	exit := func(code int) { t.Fatalf("unexpected exit %d", code) }
	ctx := context.Background()

	// Written config holds the defaults, so output is unchanged.
	require.NoError(Run(ctx, exit, "--log-level=error", "init"))

	out := captureStdout(t, func() error {
		return Run(ctx, exit, "--log-level=error", "inspect", "(n) || n + 1")
	})
	require.Contains(out, "{ let n = n.clone(); || n + 1 }")

	data, err := os.ReadFile(locateDirs().configFile())
	require.NoError(err)
	require.Contains(string(data), "placement: outside\n")

	require.NoError(os.WriteFile(locateDirs().configFile(), []byte("placement: inside\nclone: to_owned\n"), 0o600))

	out = captureStdout(t, func() error {
		return Run(ctx, exit, "--log-level=error", "inspect", "(n) || n + 1")
	})
	require.Contains(out, "|| { let n = n.to_owned(); n + 1 }")

	// Flags override the config file.
	out = captureStdout(t, func() error {
		return Run(ctx, exit, "--log-level=error", "--placement=outside", "inspect", "(n) || n + 1")
	})
	require.Contains(out, "{ let n = n.to_owned(); || n + 1 }")

	// A second init refuses to overwrite.
	require.ErrorContains(Run(ctx, exit, "--log-level=error", "init"), "file exists")
}
