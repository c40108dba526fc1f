package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
	"github.com/iancoleman/strcase"

	"github.com/ardnew/rebind/log"
)

// resolve returns a [kong.ConfigurationLoader] for YAML config files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx), "/path/to/config.yaml")
//
// The document must be a mapping. Keys are flag names in snake_case (the
// hyphenated flag name is accepted too), so --log-level is set by:
//
//	log_level: debug
//	placement: inside
//
// Numbers are handed to kong as strings and sequences as comma-separated
// lists. A document that is not a mapping is logged and ignored.
//
// Command-line flags override config file values.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}

		var doc map[string]any
		if err := yaml.UnmarshalContext(ctx, data, &doc); err != nil {
			log.WarnContext(ctx, "config ignored", slog.Any("error", err))

			return config{}, nil
		}

		cfg := make(config, len(doc))
		for key, value := range doc {
			cfg[strcase.ToSnake(key)] = native(value)
		}

		return cfg, nil
	}
}

// config implements [kong.Resolver] over a flat map keyed by snake_case
// flag name.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if value, ok := c[strcase.ToSnake(flag.Name)]; ok {
		return value, nil
	}

	return nil, nil
}

// native converts a decoded YAML value to the form kong's mappers accept.
func native(value any) any {
	switch v := value.(type) {
	case int, int64, uint64:
		return fmt.Sprint(v)

	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)

	case []any:
		elems := make([]string, 0, len(v))
		for _, e := range v {
			elems = append(elems, fmt.Sprint(native(e)))
		}

		return strings.Join(elems, ",")

	default:
		return v
	}
}
