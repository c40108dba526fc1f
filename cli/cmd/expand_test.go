package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ardnew/rebind/lang"
)

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o640))

	return path
}

func TestExpand_Stdin(t *testing.T) {
	var out bytes.Buffer

	e := &Expand{Jobs: 1}
	err := e.run(t.Context(), strings.NewReader("let f = bind!((a) move || a);\n"), &out)

	require.NoError(t, err)
	require.Equal(t, "let f = { let a = a.clone(); move || a };\n", out.String())
}

func TestExpand_FilesInArgumentOrder(t *testing.T) {
	dir := t.TempDir()

	var files []string
	for i, src := range []string{
		"bind!((a) a)\n",
		"no invocations\n",
		"bind![(mut b) b]\n",
		"bind!{(c = d) c}\n",
	} {
		files = append(files, writeSource(t, dir, string(rune('a'+i))+".rs", src))
	}

	var out bytes.Buffer

	e := &Expand{Files: files, Jobs: 3}
	require.NoError(t, e.run(t.Context(), strings.NewReader(""), &out))

	require.Equal(t, ""+
		"{ let a = a.clone(); a }\n"+
		"no invocations\n"+
		"{ let mut b = b.clone(); b }\n"+
		"{ let c = d; c }\n", out.String())
}

func TestExpand_List(t *testing.T) {
	dir := t.TempDir()
	with := writeSource(t, dir, "with.rs", "bind!((a) a)")
	without := writeSource(t, dir, "without.rs", "a")

	var out bytes.Buffer

	e := &Expand{Files: []string{without, with}, List: true, Jobs: 2}
	require.NoError(t, e.run(t.Context(), strings.NewReader(""), &out))

	require.Equal(t, with+"\n", out.String())
}

func TestExpand_Write(t *testing.T) {
	require := require.New(t)

	dir := t.TempDir()
	changed := writeSource(t, dir, "changed.rs", "let x = bind!((s) s.len());\n")
	same := writeSource(t, dir, "same.rs", "let y = 1;\n")

	var out bytes.Buffer

	e := &Expand{Files: []string{changed, same}, Write: true, Jobs: 1}
	require.NoError(e.run(t.Context(), strings.NewReader(""), &out))
	require.Empty(out.String())

	data, err := os.ReadFile(changed)
	require.NoError(err)
	require.Equal("let x = { let s = s.clone(); s.len() };\n", string(data))

	info, err := os.Stat(changed)
	require.NoError(err)
	require.Equal(os.FileMode(0o640), info.Mode().Perm())

	data, err = os.ReadFile(same)
	require.NoError(err)
	require.Equal("let y = 1;\n", string(data))
}

func TestExpand_WriteRejectsStdin(t *testing.T) {
	e := &Expand{Write: true, Jobs: 1}

	err := e.run(t.Context(), strings.NewReader(""), &bytes.Buffer{})
	require.ErrorIs(t, err, ErrWriteStdin)
}

func TestExpand_Options(t *testing.T) {
	var out bytes.Buffer

	e := &Expand{Jobs: 1}
	err := e.run(t.Context(), strings.NewReader("capture!((a) || a)"), &out,
		lang.WithMacro("capture"),
		lang.WithPlacement(lang.PlaceInsideClosure),
	)

	require.NoError(t, err)
	require.Equal(t, "|| { let a = a.clone(); a }", out.String())
}

func TestExpand_Errors(t *testing.T) {
	dir := t.TempDir()
	good := writeSource(t, dir, "good.rs", "bind!((a) a)")
	bad := writeSource(t, dir, "bad.rs", "bind!((a + b) a)")

	t.Run("classification", func(t *testing.T) {
		var out bytes.Buffer

		e := &Expand{Files: []string{good, bad}, Jobs: 2}
		err := e.run(t.Context(), strings.NewReader(""), &out)

		require.ErrorIs(t, err, lang.ErrAmbiguousIdentifier)
		require.Empty(t, out.String())
	})

	t.Run("missing file", func(t *testing.T) {
		e := &Expand{Files: []string{filepath.Join(dir, "missing.rs")}, Jobs: 1}
		err := e.run(t.Context(), strings.NewReader(""), &bytes.Buffer{})

		require.ErrorIs(t, err, ErrReadSource)
		require.ErrorIs(t, err, os.ErrNotExist)
	})
}
