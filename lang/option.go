package lang

import (
	"log/slog"
	"strings"

	"github.com/ardnew/rebind/log"
)

// Placement selects where declarations are emitted relative to the trailing
// expression.
type Placement uint8

const (
	// PlaceOutside emits declarations before the trailing expression.
	PlaceOutside Placement = iota // outside
	// PlaceInsideClosure emits declarations at the top of the body of a
	// non-move closure, so they run on every call. Any other expression is
	// treated as PlaceOutside.
	PlaceInsideClosure // inside
)

func (p Placement) String() string {
	if p == PlaceInsideClosure {
		return "inside"
	}

	return "outside"
}

// ParsePlacement parses "outside" or "inside" (case-insensitive).
func ParsePlacement(s string) (Placement, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "outside":
		return PlaceOutside, nil
	case "inside":
		return PlaceInsideClosure, nil
	default:
		return PlaceOutside, ErrInvalidOption.
			With(slog.String("placement", s))
	}
}

// Defaults for [Option] values.
const (
	DefaultMacro       = "bind"
	DefaultCloneMethod = "clone"
)

// config holds the rewriter configuration.
type config struct {
	logger    log.Logger
	macro     string
	clone     string
	placement Placement
}

// Option configures [Transform] and [ExpandSource].
type Option func(config) config

func makeConfig(opts ...Option) (config, error) {
	c := config{
		macro:     DefaultMacro,
		clone:     DefaultCloneMethod,
		placement: PlaceOutside,
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if !isIdentifier(c.macro) {
		return c, ErrInvalidOption.With(slog.String("macro", c.macro))
	}

	if !isIdentifier(c.clone) {
		return c, ErrInvalidOption.With(slog.String("clone", c.clone))
	}

	return c, nil
}

// CheckOptions reports whether opts configure a valid macro name and clone
// method, returning the [ErrInvalidOption] that [Transform] would.
func CheckOptions(opts ...Option) error {
	_, err := makeConfig(opts...)

	return err
}

// WithLogger sets the logger used to trace rewriting.
func WithLogger(logger log.Logger) Option {
	return func(c config) config {
		c.logger = logger

		return c
	}
}

// WithMacro sets the macro name recognized by [ExpandSource].
func WithMacro(name string) Option {
	return func(c config) config {
		c.macro = name

		return c
	}
}

// WithCloneMethod sets the owning-copy method applied to bare identifiers.
func WithCloneMethod(name string) Option {
	return func(c config) config {
		c.clone = name

		return c
	}
}

// WithPlacement sets where declarations are emitted.
func WithPlacement(p Placement) Option {
	return func(c config) config {
		c.placement = p

		return c
	}
}

// isIdentifier reports whether s is a single non-keyword identifier.
func isIdentifier(s string) bool {
	if s == "" || IsKeyword(s) {
		return false
	}

	for i, r := range s {
		if i == 0 && !isIdentifierStart(r) {
			return false
		}

		if i > 0 && !isIdentifierContinue(r) {
			return false
		}
	}

	return true
}
