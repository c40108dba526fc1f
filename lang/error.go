package lang

import (
	"errors"
	"log/slog"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrSyntax                  = NewError("syntax error")
	ErrMalformedBindingList    = NewError("malformed binding list")
	ErrAmbiguousIdentifier     = NewError("ambiguous identifier")
	ErrUnexpectedTrailingInput = NewError("unexpected trailing input")
	ErrInvalidOption           = NewError("invalid option")
	ErrFilter                  = NewError("invalid filter")
	ErrReadInput               = NewError("failed to read input")
)

// Error represents an error with an optional source position and structured
// logging attributes. It implements both error and slog.LogValuer.
//
// Errors derived from a sentinel with [Error.WithPosition], [Error.With], or
// [Error.Wrap] still match that sentinel with [errors.Is].
type Error struct {
	msg   string
	err   error     // Wrapped error (for errors.Unwrap)
	pos   *Position // Location in the source, if known
	kind  *Error    // Sentinel this error was derived from
	attrs []slog.Attr
}

// NewError creates a new sentinel Error with a message.
func NewError(msg string) *Error {
	e := &Error{msg: msg}
	e.kind = e

	return e
}

// WrapError wraps a standard error into an Error.
// Errors that already are (or wrap) an *Error are returned as-is.
func WrapError(err error) *Error {
	var ee *Error
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message from the fields that are set:
	//
	//   "<msg> at <line>:<col>: <err>"
	part := make([]string, 0, 2)

	if e.msg != "" {
		if e.pos != nil {
			part = append(part, e.msg+" at "+e.pos.String())
		} else {
			part = append(part, e.msg)
		}
	} else if e.pos != nil {
		part = append(part, e.pos.String())
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t == nil {
		return false
	}

	return e.kind != nil && e.kind == t.kind
}

// Position returns the source position of the error, if one was attached.
func (e *Error) Position() (Position, bool) {
	if e.pos == nil {
		return Position{}, false
	}

	return *e.pos, true
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+3)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.pos != nil {
		attrs = append(attrs,
			slog.Int("line", e.pos.Line),
			slog.Int("column", e.pos.Column),
		)
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	c := e.clone()
	c.err = err

	return c
}

// WithPosition returns a copy of e located at pos.
func (e *Error) WithPosition(pos Position) *Error {
	c := e.clone()
	c.pos = &pos

	return c
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := e.clone()
	c.attrs = make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(c.attrs, e.attrs)
	copy(c.attrs[len(e.attrs):], attrs)

	return c
}

// Attrs returns the structured attributes attached to e.
func (e *Error) Attrs() []slog.Attr { return e.attrs }

func (e *Error) clone() *Error {
	c := *e

	return &c
}
