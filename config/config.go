package config

import (
	"fmt"
	"log/slog"
)

// Parser decodes raw configuration bytes into target.
//
// The key argument selects a section of the decoded document using the
// store's key syntax: dots for nesting and brackets for indices, e.g.
// "database.replicas[0]". An empty key decodes the whole document.
type Parser interface {
	Parse(data []byte, target any, key string) error
}

// DataFetcher returns the raw bytes of one configuration source.
type DataFetcher interface {
	Fetch() ([]byte, error)
}

// Validator is implemented by settings that can check themselves.
type Validator interface {
	Validate() error
}

// Defaulter is implemented by settings that fill in missing values.
type Defaulter interface {
	SetDefaults() (changed bool)
}

// Provider returns a function that fetches, parses, defaults and validates
// the section named by key into target.
func Provider[T any](target *T, key string) func(Parser, DataFetcher) (*T, error) {
	return func(parser Parser, fetcher DataFetcher) (*T, error) {
		data, err := fetcher.Fetch()
		if err != nil {
			return nil, fmt.Errorf("fetching %q: %w", key, err)
		}

		err = parser.Parse(data, target, key)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", key, err)
		}

		if defaulter, ok := any(target).(Defaulter); ok && defaulter.SetDefaults() {
			slog.Debug("defaults applied", slog.String("key", key))
		}

		if validator, ok := any(target).(Validator); ok {
			err = validator.Validate()
			if err != nil {
				return nil, fmt.Errorf("validating %q: %w", key, err)
			}
		}

		return target, nil
	}
}
