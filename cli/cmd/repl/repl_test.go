package repl

import (
	"context"
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/rebind/lang"
	"github.com/ardnew/rebind/log"
)

func testModel(t *testing.T) model {
	t.Helper()

	return newModel(
		context.Background(),
		Settings{Macro: lang.DefaultMacro, Clone: lang.DefaultCloneMethod},
		NewHistory(""),
		log.Make(io.Discard),
	)
}

func typeText(m model, text string) model {
	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})

	return m
}

func press(m model, key tea.KeyType) model {
	m, _ = m.handleKey(tea.KeyMsg{Type: key})

	return m
}

func TestModel_EvaluateBindingList(t *testing.T) {
	out, err := testModel(t).evaluate("(a, mut b) a + b")
	require.NoError(t, err)
	require.Equal(t, ""+
		"id         a  let a = a.clone();\n"+
		"mut-id     b  let mut b = b.clone();\n"+
		"{ let a = a.clone(); let mut b = b.clone(); a + b }", out)
}

func TestModel_EvaluateSource(t *testing.T) {
	out, err := testModel(t).evaluate("let f = bind!((x) move || x);")
	require.NoError(t, err)
	require.Equal(t, "let f = { let x = x.clone(); move || x };", out)
}

func TestModel_EvaluateError(t *testing.T) {
	_, err := testModel(t).evaluate("(a + b) a")
	require.ErrorIs(t, err, lang.ErrAmbiguousIdentifier)
}

func TestModel_Set(t *testing.T) {
	require := require.New(t)
	m := testModel(t)

	s, err := m.set([]string{"placement", "inside"})
	require.NoError(err)
	require.Equal(lang.PlaceInsideClosure, s.Placement)

	s, err = m.set([]string{"clone", "to_owned"})
	require.NoError(err)
	require.Equal("to_owned", s.Clone)

	_, err = m.set([]string{"macro", "fn"})
	require.ErrorIs(err, lang.ErrInvalidOption)

	_, err = m.set([]string{"colour", "red"})
	require.ErrorIs(err, ErrUnknownSetting)

	_, err = m.set([]string{"macro"})
	require.ErrorIs(err, ErrMissingArgument)
}

func TestModel_EnterRecordsHistoryAndWords(t *testing.T) {
	require := require.New(t)

	m := typeText(testModel(t), "(alpha) alpha")
	m = press(m, tea.KeyEnter)

	require.Empty(m.input.Value())
	require.Equal([]string{"(alpha) alpha"}, m.history.Lines(modeEval))
	require.Equal([]string{"alpha"}, m.words)

	m = press(m, tea.KeyUp)
	require.Equal("(alpha) alpha", m.input.Value())

	m = press(m, tea.KeyDown)
	require.Empty(m.input.Value())
}

func TestModel_TabCompletesIdentifier(t *testing.T) {
	require := require.New(t)

	m := testModel(t)
	m.words = []string{"alpha"}

	m = typeText(m, "(al")
	require.Len(m.matches, 1)

	m = press(m, tea.KeyTab)
	require.Equal("(alpha", m.input.Value())
	require.Empty(m.matches)
}

func TestModel_CommandMode(t *testing.T) {
	require := require.New(t)

	m := press(testModel(t), tea.KeyEsc)
	require.Equal(modeCtrl, m.mode)

	m = typeText(m, "set placement inside")
	m = press(m, tea.KeyEnter)
	require.Equal(lang.PlaceInsideClosure, m.settings.Placement)
	require.Equal([]string{"set placement inside"}, m.history.Lines(modeCtrl))

	m = press(m, tea.KeyEsc)
	require.Equal(modeEval, m.mode)

	out, err := m.evaluate("(n) || n + 1")
	require.NoError(err)
	require.Contains(out, "|| { let n = n.clone(); n + 1 }")
}

func TestModel_CtrlCQuitsOnEmptyLine(t *testing.T) {
	m := typeText(testModel(t), "(a")
	m = press(m, tea.KeyCtrlC)
	require.Empty(t, m.input.Value())
	require.False(t, m.quitting)

	m = press(m, tea.KeyCtrlC)
	require.True(t, m.quitting)
}
