package render

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"
)

// MarshalJSON encodes a rendered payload for machine consumers: the preview
// API and the build --json export.
func MarshalJSON(data map[string]any) ([]byte, error) {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode render payload: %w", err)
	}
	return out, nil
}

// WriteJSON writes the encoded payload to path.
func WriteJSON(data map[string]any, path string) error {
	out, err := MarshalJSON(data)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(out, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
