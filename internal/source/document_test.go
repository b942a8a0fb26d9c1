package source

import (
	"testing"

	"github.com/alexanderramin/estimo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatFor(t *testing.T) {
	tests := []struct {
		name string
		want Format
	}{
		{"data.json", FormatJSON},
		{"estimate.yaml", FormatYAML},
		{"/srv/ESTIMATE.YML", FormatYAML},
		{"data", FormatJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatFor(tt.name))
		})
	}
}

func TestDecodeDocument_JSON(t *testing.T) {
	data := []byte(`{"items":[{"id":"A1","name":"Login","desc":"d","deps":"","priority":"P0","fe":8,"be":"6","intg":null,"qa":"x"}]}`)

	items, err := DecodeDocument(data, FormatJSON)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, domain.Hours(8), items[0].FE)
	assert.Equal(t, domain.Hours(6), items[0].BE)
	assert.Zero(t, items[0].Intg)
	assert.Zero(t, items[0].QA)
	assert.Equal(t, domain.Hours(14), items[0].Total())
}

func TestDecodeDocument_YAML(t *testing.T) {
	data := []byte(`
items:
  - id: A1
    name: Login
    priority: P0
    fe: 8
    be: "6.5"
  - id: B1
    name: Dashboard
    priority: P1
    qa: 2
`)
	items, err := DecodeDocument(data, FormatYAML)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, domain.Hours(6.5), items[0].BE)
	assert.Equal(t, domain.PriorityP1, items[1].Priority)
}

func TestDecodeDocument_MissingItemsIsEmpty(t *testing.T) {
	items, err := DecodeDocument([]byte(`{}`), FormatJSON)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	items, err = DecodeDocument([]byte(""), FormatYAML)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestDecodeDocument_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
	}{
		{"malformed json", `{"items":[`, FormatJSON},
		{"items not array", `{"items":{}}`, FormatJSON},
		{"unknown priority", `{"items":[{"id":"A1","priority":"P9"}]}`, FormatJSON},
		{"duplicate id", `{"items":[{"id":"A1","priority":"P0"},{"id":"A1","priority":"P1"}]}`, FormatJSON},
		{"missing id", `{"items":[{"priority":"P0"}]}`, FormatJSON},
		{"malformed yaml", "items: [a, b", FormatYAML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeDocument([]byte(tt.data), tt.format)
			assert.ErrorIs(t, err, ErrBadDocument)
		})
	}
}
