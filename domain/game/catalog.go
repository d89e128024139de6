package game

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// LoadCatalog reads a flat JSON list of game records from path and validates
// each record. A record failing validation fails the whole load with a
// positional error; a partially-valid catalog is never returned.
func LoadCatalog(path string) ([]SlotGame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	var games []SlotGame
	if err := json.Unmarshal(data, &games); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}

	for i, g := range games {
		if err := g.Validate(); err != nil {
			return nil, fmt.Errorf("catalog %s record %d: %w", path, i, err)
		}
	}

	return games, nil
}

// SaveCatalog writes games to path as indented JSON, creating parent
// directories as needed.
func SaveCatalog(path string, games []SlotGame) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create catalog directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(games, "", "  ")
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write catalog %s: %w", path, err)
	}
	return nil
}
