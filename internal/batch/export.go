package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"personagen/internal/types"
)

// Export writes the artifact list to a JSON file, creating parent
// directories as needed.
func Export(path string, artifacts []types.Artifact) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create export directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(artifacts, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal artifacts: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}
