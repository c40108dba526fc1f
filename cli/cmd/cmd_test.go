package cmd

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ardnew/rebind/lang"
	"github.com/ardnew/rebind/log"
)

func TestUniqueSources(t *testing.T) {
	require := require.New(t)

	dir := t.TempDir()
	a := filepath.Join(dir, "a.rs")
	b := filepath.Join(dir, "b.rs")
	link := filepath.Join(dir, "link.rs")

	require.NoError(os.WriteFile(a, nil, 0o600))
	require.NoError(os.WriteFile(b, nil, 0o600))
	require.NoError(os.Symlink(a, link))

	missing := filepath.Join(dir, "missing.rs")

	got := uniqueSources([]string{a, "-", link, b, "-", a, missing})
	require.Equal([]string{a, "-", b, missing}, got)

	require.Equal([]string{"-"}, uniqueSources(nil))
}

func TestRewrite_Options(t *testing.T) {
	require := require.New(t)

	rw := &Rewrite{Macro: "capture", Clone: "to_owned", Placement: "inside"}

	opts, err := rw.Options(log.Make(io.Discard))
	require.NoError(err)

	exp, err := lang.Transform(t.Context(), "(s) || s.len()", opts...)
	require.NoError(err)
	require.Equal("|| { let s = s.to_owned(); s.len() }", exp.String())

	_, err = (&Rewrite{Placement: "above"}).Options(log.Make(io.Discard))
	require.ErrorIs(err, lang.ErrInvalidOption)

	opts, err = (*Rewrite)(nil).Options(log.Make(io.Discard))
	require.NoError(err)
	require.Len(opts, 1)
}

func TestRewrite_Vars(t *testing.T) {
	vars := Rewrite{}.Vars()

	require.Equal(t, "bind", vars["macro"])
	require.Equal(t, "clone", vars["clone"])
	require.Equal(t, "outside", vars["placement"])
	require.Equal(t, "outside,inside", vars["placementEnum"])
}

func TestError_Is(t *testing.T) {
	require := require.New(t)

	err := ErrWriteConfig.Wrap(ErrFileExists)
	require.ErrorIs(err, ErrWriteConfig)
	require.ErrorIs(err, ErrFileExists)
	require.NotErrorIs(err, ErrReadSource)
	require.Equal("write configuration file: file exists (use --force to overwrite)", err.Error())
}
