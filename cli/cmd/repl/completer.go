package repl

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/rebind/lang"
)

// ctrlCommands are the available command-mode commands.
var ctrlCommands = []string{"help", "set", "show", "clear", "quit"}

// settingNames are the settings accepted by the set command.
var settingNames = []string{"macro", "clone", "placement"}

// isWordBoundary reports whether r delimits a completion word. Everything
// that cannot continue an identifier is a boundary.
func isWordBoundary(r rune) bool {
	return r != '_' && !('a' <= r && r <= 'z') && !('A' <= r && r <= 'Z') &&
		!('0' <= r && r <= '9') && r < utf8.RuneSelf
}

// wordBounds returns the current word at the cursor position and its byte
// boundaries within input. Returns an empty word when the cursor sits on a
// boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	if cursor > len(input) {
		cursor = len(input)
	}

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// harvest appends the identifiers of line to words, keeping words sorted and
// free of duplicates. Lines that do not scan contribute nothing.
func harvest(words []string, line string) []string {
	toks, err := lang.Scan(line)
	if err != nil {
		return words
	}

	for _, t := range toks {
		if t.Kind != lang.KindIdent || len(t.Text) < 2 {
			continue
		}

		if i, found := slices.BinarySearch(words, t.Text); !found {
			words = slices.Insert(words, i, t.Text)
		}
	}

	return words
}

// ctrlCandidates returns completions for the command-mode word that begins
// at wordStart, based on the words before it.
func ctrlCandidates(input string, wordStart int) []string {
	prior := strings.Fields(input[:wordStart])

	switch {
	case len(prior) == 0:
		return ctrlCommands

	case prior[0] == "set" && len(prior) == 1:
		return settingNames

	case prior[0] == "set" && len(prior) == 2 && prior[1] == "placement":
		return []string{
			lang.PlaceOutside.String(),
			lang.PlaceInsideClosure.String(),
		}

	default:
		return nil
	}
}

// computeMatches calculates the fuzzy match results for the word at the cursor.
// It returns the matches (ranked best-first), the candidate list, and the word
// boundaries. An empty word has no matches, except for command arguments
// where the full candidate list is offered.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())

	if m.mode == modeCtrl {
		candidates = ctrlCandidates(input, wordStart)
		if word == "" && wordStart > 0 && len(candidates) > 0 {
			matches = make(fuzzy.Matches, len(candidates))
			for i, c := range candidates {
				matches[i] = fuzzy.Match{Str: c, Index: i}
			}

			return matches, candidates, wordStart, wordEnd
		}
	} else {
		candidates = append([]string{"mut", "move", m.settings.Macro}, m.words...)
	}

	if word == "" || len(candidates) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	matches = fuzzy.Find(word, candidates)

	return matches, candidates, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. The selected candidate (when tabbing)
// uses the selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if used+entryWidth+ellipsisWidth > width && i > 0 {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	return b.String()
}
