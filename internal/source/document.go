package source

import (
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/alexanderramin/estimo/internal/domain"
	"gopkg.in/yaml.v3"
)

// Format is the serialization of a published document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Document is the published file shape: {"items": [...]}.
type Document struct {
	Items domain.Dataset `json:"items"`
}

// FormatFor picks a format from a file name or URL path, defaulting to JSON.
func FormatFor(name string) Format {
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// DecodeDocument parses and validates a published document. A missing
// items field yields an empty dataset.
func DecodeDocument(data []byte, format Format) (domain.Dataset, error) {
	if format == FormatYAML {
		converted, err := yamlToJSON(data)
		if err != nil {
			return nil, err
		}
		data = converted
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadDocument, err)
	}
	if doc.Items == nil {
		doc.Items = domain.Dataset{}
	}
	if err := doc.Items.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadDocument, err)
	}
	return doc.Items, nil
}

// yamlToJSON lets YAML documents share the tolerant JSON decoding of line
// items, so hours written as text still coerce the same way.
func yamlToJSON(data []byte) ([]byte, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadDocument, err)
	}
	if raw == nil {
		return []byte(`{}`), nil
	}
	out, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadDocument, err)
	}
	return out, nil
}
