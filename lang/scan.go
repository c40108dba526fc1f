package lang

import (
	"log/slog"
	"unicode"
	"unicode/utf8"
)

// scanner splits source text into tokens.
type scanner struct {
	input []byte
	pos   int
	line  int
	col   int
	toks  []Token
}

// Scan splits src into tokens. Whitespace and comments are discarded.
// It fails only on unterminated literals and comments.
func Scan(src string) ([]Token, error) {
	s := &scanner{
		input: []byte(src),
		line:  1,
		col:   1,
	}

	for {
		err := s.skipWhitespaceAndComments()
		if err != nil {
			return nil, err
		}

		if s.eof() {
			return s.toks, nil
		}

		err = s.next()
		if err != nil {
			return nil, err
		}
	}
}

// puncts lists multi-character punctuation, longest first.
var puncts = []string{
	"<<=", ">>=", "...", "..=",
	"::", "->", "=>", "==", "!=", "<=", ">=", "&&", "||", "+=", "-=", "*=",
	"/=", "%=", "^=", "&=", "|=", "<<", ">>", "..",
}

// next scans one token starting at the current position.
func (s *scanner) next() error {
	pos := s.position()
	ch := s.peek()

	switch {
	case ch == '"':
		return s.scanString(pos, 0, false)

	case ch == '\'':
		return s.scanQuote(pos)

	case ch >= '0' && ch <= '9':
		s.scanNumber()
		s.emit(KindLiteral, pos)

		return nil

	case isIdentifierStart(ch):
		return s.scanWord(pos)
	}

	for _, p := range puncts {
		if s.peekN(len(p)) == p {
			for range len(p) {
				s.advance()
			}

			s.emit(KindPunct, pos)

			return nil
		}
	}

	s.advance()
	s.emit(KindPunct, pos)

	return nil
}

func (s *scanner) emit(kind Kind, pos Position) {
	s.toks = append(s.toks, Token{
		Kind: kind,
		Text: string(s.input[pos.Offset:s.pos]),
		Pos:  pos,
		End:  s.pos,
	})
}

// scanWord scans an identifier or keyword, including the literal prefixes
// that look like identifiers (b"", br"", r"", r#"", c"", b'') and raw
// identifiers (r#name).
func (s *scanner) scanWord(pos Position) error {
	switch s.peekN(2) {
	case `b"`, `c"`:
		s.advance()

		return s.scanString(pos, 0, false)

	case "b'":
		s.advance()

		return s.scanQuote(pos)

	case `r"`, "r#":
		if hashes, ok := s.rawPrefix(1); ok {
			s.advance()

			return s.scanString(pos, hashes, true)
		}

		if s.peekN(2) == "r#" && s.pos+2 < len(s.input) &&
			isIdentifierStart(rune(s.input[s.pos+2])) {
			s.advance()
			s.advance()
			s.scanIdent()
			s.emit(KindIdent, pos)

			return nil
		}

	case "br", "cr":
		if hashes, ok := s.rawPrefix(2); ok {
			s.advance()
			s.advance()

			return s.scanString(pos, hashes, true)
		}
	}

	s.scanIdent()

	kind := KindIdent
	if IsKeyword(string(s.input[pos.Offset:s.pos])) {
		kind = KindKeyword
	}

	s.emit(kind, pos)

	return nil
}

// rawPrefix reports whether the input at offset skip from the current
// position is a raw string opener (#* followed by a quote), and how many
// hashes it has.
func (s *scanner) rawPrefix(skip int) (int, bool) {
	i := s.pos + skip
	hashes := 0

	for i < len(s.input) && s.input[i] == '#' {
		hashes++
		i++
	}

	return hashes, i < len(s.input) && s.input[i] == '"'
}

func (s *scanner) scanIdent() {
	s.advance()

	for !s.eof() && isIdentifierContinue(s.peek()) {
		s.advance()
	}
}

// scanString scans a string literal. The current position is on the hashes
// (raw strings only) or the opening quote. Raw strings have no escapes.
func (s *scanner) scanString(pos Position, hashes int, raw bool) error {
	for range hashes {
		s.advance()
	}

	s.advance() // opening quote

	for !s.eof() {
		ch := s.peek()

		if ch == '\\' && !raw {
			s.advance()

			if !s.eof() {
				s.advance()
			}

			continue
		}

		s.advance()

		if ch == '"' && s.closesRaw(hashes) {
			for range hashes {
				s.advance()
			}

			s.scanSuffix()
			s.emit(KindLiteral, pos)

			return nil
		}
	}

	return ErrSyntax.WithPosition(pos).
		With(slog.String("reason", "unterminated string"))
}

// closesRaw reports whether the next n bytes are all '#'.
func (s *scanner) closesRaw(n int) bool {
	if s.pos+n > len(s.input) {
		return false
	}

	for i := range n {
		if s.input[s.pos+i] != '#' {
			return false
		}
	}

	return true
}

// scanQuote scans a character literal or a lifetime. The current position is
// on the opening quote.
func (s *scanner) scanQuote(pos Position) error {
	s.advance() // opening quote

	if s.eof() {
		s.emit(KindPunct, pos)

		return nil
	}

	ch := s.peek()

	if ch == '\\' {
		for !s.eof() {
			c := s.peek()
			s.advance()

			if c == '\\' && !s.eof() {
				s.advance()

				continue
			}

			if c == '\'' {
				s.emit(KindLiteral, pos)

				return nil
			}
		}

		return ErrSyntax.WithPosition(pos).
			With(slog.String("reason", "unterminated character literal"))
	}

	_, size := utf8.DecodeRune(s.input[s.pos:])
	if s.pos+size < len(s.input) && s.input[s.pos+size] == '\'' {
		s.advance()
		s.advance()
		s.emit(KindLiteral, pos)

		return nil
	}

	if isIdentifierStart(ch) {
		s.scanIdent()
		s.emit(KindLifetime, pos)

		return nil
	}

	s.emit(KindPunct, pos)

	return nil
}

// scanNumber scans an integer or floating-point literal with an optional
// type suffix. A fraction is only consumed when the previous token is not a
// '.', so that tuple indexes like x.0.1 stay separate.
func (s *scanner) scanNumber() {
	s.scanDigits()

	afterDot := len(s.toks) > 0 && s.toks[len(s.toks)-1].Text == "."

	if !afterDot && s.peek() == '.' && s.pos+1 < len(s.input) {
		next := rune(s.input[s.pos+1])
		if next >= '0' && next <= '9' {
			s.advance()
			s.scanDigits()
		}
	}
}

// scanDigits consumes alphanumerics and underscores, which covers digits,
// radix prefixes, hex digits, exponents, and suffixes.
func (s *scanner) scanDigits() {
	for !s.eof() {
		ch := s.peek()

		switch {
		case ch == '_' || (ch >= '0' && ch <= '9') ||
			(ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z'):
			s.advance()

			if (ch == 'e' || ch == 'E') &&
				(s.peek() == '+' || s.peek() == '-') &&
				s.pos+1 < len(s.input) &&
				s.input[s.pos+1] >= '0' && s.input[s.pos+1] <= '9' {
				s.advance()
			}

		default:
			return
		}
	}
}

func (s *scanner) scanSuffix() {
	if !s.eof() && isIdentifierStart(s.peek()) {
		s.scanIdent()
	}
}

// Helper methods

func (s *scanner) peek() rune {
	if s.eof() {
		return 0
	}

	r, _ := utf8.DecodeRune(s.input[s.pos:])

	return r
}

func (s *scanner) peekN(n int) string {
	if s.pos+n > len(s.input) {
		return string(s.input[s.pos:])
	}

	return string(s.input[s.pos : s.pos+n])
}

func (s *scanner) advance() {
	if s.eof() {
		return
	}

	r, size := utf8.DecodeRune(s.input[s.pos:])

	s.pos += size
	if r == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
}

func (s *scanner) eof() bool {
	return s.pos >= len(s.input)
}

func (s *scanner) position() Position {
	return Position{
		Offset: s.pos,
		Line:   s.line,
		Column: s.col,
	}
}

func (s *scanner) skipWhitespaceAndComments() error {
	for {
		for !s.eof() && unicode.IsSpace(s.peek()) {
			s.advance()
		}

		switch s.peekN(2) {
		case "//":
			for !s.eof() && s.peek() != '\n' {
				s.advance()
			}

		case "/*":
			err := s.skipBlockComment()
			if err != nil {
				return err
			}

		default:
			return nil
		}
	}
}

// skipBlockComment skips a block comment, which may nest.
func (s *scanner) skipBlockComment() error {
	pos := s.position()
	depth := 0

	for !s.eof() {
		switch s.peekN(2) {
		case "/*":
			depth++

			s.advance()
			s.advance()

		case "*/":
			depth--

			s.advance()
			s.advance()

			if depth == 0 {
				return nil
			}

		default:
			s.advance()
		}
	}

	return ErrSyntax.WithPosition(pos).
		With(slog.String("reason", "unterminated block comment"))
}

// Character classification

func isIdentifierStart(r rune) bool {
	return unicode.In(r,
		unicode.L,  // Letter
		unicode.Nl, // Letter, Number
		unicode.Other_ID_Start,
	) || r == '_'
}

func isIdentifierContinue(r rune) bool {
	return unicode.In(r,
		unicode.L,  // Letter
		unicode.Nl, // Letter, Number
		unicode.Other_ID_Start,
		unicode.Mn, // Mark, Nonspacing
		unicode.Mc, // Mark, Spacing Combining
		unicode.Nd, // Number, Decimal Digit
		unicode.Pc, // Punctuation, Connector
		unicode.Other_ID_Continue,
	)
}
