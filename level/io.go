package level

import (
	"encoding/json"
	"fmt"
	"os"
)

// Encode serializes the map to JSON.
func (m *Map) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("level: encode map: %w", err)
	}
	return data, nil
}

// Decode parses a JSON map and binds its layers.
func Decode(data []byte) (*Map, error) {
	var m Map
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("level: decode map: %w", err)
	}
	if err := m.Bind(); err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveMap writes the map as JSON to path.
func SaveMap(m *Map, path string) error {
	data, err := m.Encode()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("level: save %s: %w", path, err)
	}
	return nil
}

// LoadMap reads a JSON map from path.
func LoadMap(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("level: load %s: %w", path, err)
	}
	return Decode(data)
}
