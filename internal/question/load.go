package question

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadFile reads a JSON array of questions and validates the pool.
func LoadFile(path string) ([]Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading question file: %w", err)
	}
	var pool []Question
	if err := json.Unmarshal(data, &pool); err != nil {
		return nil, fmt.Errorf("parsing question file %s: %w", path, err)
	}
	if err := ValidatePool(pool); err != nil {
		return nil, fmt.Errorf("invalid question pool in %s: %w", path, err)
	}
	return pool, nil
}
