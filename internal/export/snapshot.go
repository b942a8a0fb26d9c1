package export

import (
	"encoding/json"
	"fmt"

	"github.com/alexanderramin/estimo/internal/domain"
)

type snapshot struct {
	Items domain.Dataset `json:"items"`
}

// Snapshot renders the raw dataset in the published document shape so it
// can replace the published file as-is.
func Snapshot(items domain.Dataset) ([]byte, error) {
	if items == nil {
		items = domain.Dataset{}
	}
	data, err := json.MarshalIndent(snapshot{Items: items}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return data, nil
}
