package lang

import (
	"slices"
	"strconv"
	"strings"
)

// Position is a location in source text.
// Line and Column are 1-based; Column counts runes.
type Position struct {
	Offset int `json:"offset" yaml:"offset"`
	Line   int `json:"line"   yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

// String returns the position formatted as "line:column".
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Kind classifies a [Token].
type Kind uint8

const (
	KindIdent    Kind = iota // identifier
	KindKeyword              // keyword
	KindLifetime             // lifetime
	KindLiteral              // literal
	KindPunct                // punctuation
)

var kindNames = [...]string{"identifier", "keyword", "lifetime", "literal", "punctuation"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Token is a single lexical token. Text is the exact source text of the
// token, which spans the byte range [Pos.Offset, End).
type Token struct {
	Text string
	Pos  Position
	End  int
	Kind Kind
}

// Is reports whether t is punctuation or a keyword spelled text.
func (t Token) Is(text string) bool {
	return (t.Kind == KindPunct || t.Kind == KindKeyword) && t.Text == text
}

// Delim identifies the bracket pair enclosing a [Tree] group.
type Delim uint8

const (
	DelimNone Delim = iota
	DelimParen
	DelimBracket
	DelimBrace
)

func (d Delim) String() string {
	switch d {
	case DelimParen:
		return "()"
	case DelimBracket:
		return "[]"
	case DelimBrace:
		return "{}"
	default:
		return ""
	}
}

func delimOf(open string) Delim {
	switch open {
	case "(":
		return DelimParen
	case "[":
		return DelimBracket
	case "{":
		return DelimBrace
	default:
		return DelimNone
	}
}

func closerOf(open string) string {
	switch open {
	case "(":
		return ")"
	case "[":
		return "]"
	case "{":
		return "}"
	default:
		return ""
	}
}

// Tree is a token tree: either a single token, or a delimited group whose
// opening bracket is the embedded Token and whose contents are Trees.
type Tree struct {
	Token

	Trees []Tree
	Close Token
	Delim Delim
}

// IsGroup reports whether t is a delimited group.
func (t Tree) IsGroup() bool { return t.Delim != DelimNone }

// Start returns the byte offset where t begins.
func (t Tree) Start() int { return t.Pos.Offset }

// Stop returns the byte offset just past the end of t.
func (t Tree) Stop() int {
	if t.IsGroup() {
		return t.Close.End
	}

	return t.End
}

// Ident reports whether t is a single identifier token.
func (t Tree) Ident() bool { return !t.IsGroup() && t.Kind == KindIdent }

// span is a half-open byte range of source text.
type span struct{ start, end int }

func spanOf(trees []Tree) span {
	if len(trees) == 0 {
		return span{}
	}

	return span{trees[0].Start(), trees[len(trees)-1].Stop()}
}

func (s span) empty() bool { return s.end <= s.start }

func (s span) text(src string) string {
	if s.empty() {
		return ""
	}

	return src[s.start:s.end]
}

// splitTop splits trees on every top-level punctuation token spelled sep.
// Groups are never split.
func splitTop(trees []Tree, sep string) [][]Tree {
	var (
		parts [][]Tree
		last  int
	)

	for i, t := range trees {
		if !t.IsGroup() && t.Kind == KindPunct && t.Text == sep {
			parts = append(parts, trees[last:i])
			last = i + 1
		}
	}

	return append(parts, trees[last:])
}

// indexTop returns the index of the first top-level punctuation token spelled
// sep, or -1.
func indexTop(trees []Tree, sep string) int {
	return slices.IndexFunc(trees, func(t Tree) bool {
		return !t.IsGroup() && t.Kind == KindPunct && t.Text == sep
	})
}

// keywords are the strict and reserved keywords of the host language.
// A keyword never names a binding.
var keywords = func() map[string]struct{} {
	m := make(map[string]struct{})
	for kw := range strings.FieldsSeq(`
		as async await break const continue crate dyn else enum extern false
		fn for if impl in let loop match mod move mut pub ref return self Self
		static struct super trait true type unsafe use where while
		abstract become box do final macro override priv try typeof unsized
		virtual yield`) {
		m[kw] = struct{}{}
	}

	return m
}()

// IsKeyword reports whether s is a reserved word.
func IsKeyword(s string) bool {
	_, ok := keywords[s]

	return ok
}
