package json

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/0xalexb/mtx-config/document"
)

// ErrEmptyData is returned when the input data is empty.
var ErrEmptyData = errors.New("empty data")

// ErrPathNotFound is returned when the key does not resolve to a value.
var ErrPathNotFound = errors.New("path not found")

// Parser implements config.Parser for JSON data.
type Parser struct{}

// NewParser creates a new JSON parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes data into target. A non-empty key first selects the value
// at that key and decodes only that value.
func (p *Parser) Parse(data []byte, target any, key string) error {
	if len(data) == 0 {
		return ErrEmptyData
	}

	path := document.ParsePath(key)
	if len(path) == 0 {
		err := json.Unmarshal(data, target)
		if err != nil {
			return fmt.Errorf("unmarshal error: %w", err)
		}

		return nil
	}

	var root any

	err := json.Unmarshal(data, &root)
	if err != nil {
		return fmt.Errorf("unmarshal error: %w", err)
	}

	section, ok := document.Lookup(root, path)
	if !ok {
		return fmt.Errorf("%w: %s", ErrPathNotFound, key)
	}

	return Decode(section, target)
}

// Decode converts an already decoded value into target by round-tripping it
// through JSON.
func Decode(value any, target any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	err = json.Unmarshal(raw, target)
	if err != nil {
		return fmt.Errorf("unmarshal error: %w", err)
	}

	return nil
}
