// Package corpus loads the static JSON corpus the index is built from.
package corpus

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/OoVTo/foodrag/internal/domain"
)

// Load reads an ordered JSON array of records from path. Record ids must be
// non-empty and unique across the corpus; order is preserved.
func Load(path string) ([]domain.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading corpus: %w", err)
	}
	var records []domain.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing corpus %s: %w", path, err)
	}
	seen := make(map[string]struct{}, len(records))
	for i, r := range records {
		if r.ID == "" {
			return nil, fmt.Errorf("corpus %s: record %d has no id", path, i)
		}
		if _, ok := seen[r.ID]; ok {
			return nil, fmt.Errorf("corpus %s: duplicate id %q", path, r.ID)
		}
		seen[r.ID] = struct{}{}
	}
	return records, nil
}
