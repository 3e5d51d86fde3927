package ml

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SaveModel writes the model as indented JSON, creating parent directories
func SaveModel(path string, m *Model) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create model directory: %w", err)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal model: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write model: %w", err)
	}
	return nil
}

// LoadModel reads a model written by SaveModel
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model: %w", err)
	}

	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse model: %w", err)
	}
	if len(m.FeatureNames) == 0 || len(m.Trees) == 0 {
		return nil, fmt.Errorf("model file %s has no trees or feature names", path)
	}
	return &m, nil
}
