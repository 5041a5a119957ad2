package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/0xalexb/mtx-config/document"
	"github.com/goccy/go-yaml"
)

// ErrEmptyData is returned when the input data is empty.
var ErrEmptyData = errors.New("empty data")

// ErrPathNotFound is returned when the key does not resolve to a node.
var ErrPathNotFound = errors.New("path not found")

// Parser implements config.Parser for YAML (and therefore JSON) data.
// It uses goccy/go-yaml PathString for navigation.
type Parser struct{}

// NewParser creates a new YAML parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes data into target. A non-empty key is converted into a YAML
// path and only the selected node is decoded.
func (p *Parser) Parse(data []byte, target any, key string) error {
	if len(data) == 0 {
		return ErrEmptyData
	}

	path := document.ParsePath(key)
	if len(path) == 0 {
		err := yaml.Unmarshal(data, target)
		if err != nil {
			return fmt.Errorf("unmarshal error: %w", err)
		}

		return nil
	}

	pathObj, err := yaml.PathString(toYAMLPath(path))
	if err != nil {
		return fmt.Errorf("invalid path %q: %w", key, err)
	}

	err = pathObj.Read(bytes.NewReader(data), target)
	if err != nil {
		if yaml.IsNotFoundNodeError(err) {
			return fmt.Errorf("%w: %s", ErrPathNotFound, key)
		}

		return fmt.Errorf("reading path %q: %w", key, err)
	}

	return nil
}

// toYAMLPath renders segments in goccy/go-yaml PathString form. Integer
// segments become sequence indices, so unlike the document package a
// numeric mapping key cannot be addressed here.
//   - [api permissions] -> "$.api.permissions"
//   - [servers 0 host]  -> "$.servers[0].host"
func toYAMLPath(path document.Path) string {
	var builder strings.Builder

	builder.WriteString("$")

	for _, segment := range path {
		if n, err := strconv.Atoi(segment); err == nil && n >= 0 {
			builder.WriteString("[" + segment + "]")

			continue
		}

		builder.WriteString("." + segment)
	}

	return builder.String()
}
