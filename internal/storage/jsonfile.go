// Package storage implements the flat-file persistence used by all
// PlotWeaver managers: an entire collection is loaded from a JSON document
// at startup and rewritten wholesale on every mutation.
//
// There are deliberately no partial writes, no locking across processes,
// and no versioning — last writer wins with a full snapshot. Durability
// beyond that is out of scope for this layer.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Load reads the JSON document at path into v. A missing file is not an
// error: v is left untouched and Load returns false. Returns true when the
// file existed and was decoded successfully.
func Load(path string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("storage: read %q: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("storage: decode %q: %w", path, err)
	}
	return true, nil
}

// Save serializes v as indented JSON and overwrites the file at path,
// creating parent directories as needed. The whole document is rewritten on
// every call.
func Save(path string, v any) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("storage: create dir %q: %w", dir, err)
		}
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: encode %q: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("storage: write %q: %w", path, err)
	}
	return nil
}
