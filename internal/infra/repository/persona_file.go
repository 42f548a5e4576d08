package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// PersonaFileRepository persists the user persona document as a JSON file.
// All reads and writes go through one mutex so concurrent background updates
// and HTTP reads never interleave partial writes.
type PersonaFileRepository struct {
	Path string
	mu   sync.Mutex
}

func NewPersonaFileRepository(path string) *PersonaFileRepository {
	return &PersonaFileRepository{Path: path}
}

// Load reads the persona document, creating an empty one when the file is
// missing or holds invalid JSON.
func (pr *PersonaFileRepository) Load() (map[string]any, error) {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	return pr.loadLocked()
}

func (pr *PersonaFileRepository) loadLocked() (map[string]any, error) {
	data, err := os.ReadFile(pr.Path)
	if os.IsNotExist(err) {
		doc := map[string]any{}
		if err := pr.saveLocked(doc); err != nil {
			return nil, err
		}
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read persona file: %w", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil || doc == nil {
		// Corrupt file, reset rather than fail every turn.
		doc = map[string]any{}
		if err := pr.saveLocked(doc); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// Save replaces the whole document.
func (pr *PersonaFileRepository) Save(doc map[string]any) error {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	return pr.saveLocked(doc)
}

func (pr *PersonaFileRepository) saveLocked(doc map[string]any) error {
	if dir := filepath.Dir(pr.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create persona dir: %w", err)
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode persona: %w", err)
	}
	if err := os.WriteFile(pr.Path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write persona file: %w", err)
	}
	return nil
}

// ReplaceFromModel stores a model-produced rewrite of the document. The
// device-reported coordinates are system-owned and survive the rewrite even
// when the model dropped or altered them.
func (pr *PersonaFileRepository) ReplaceFromModel(doc map[string]any) error {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	current, err := pr.loadLocked()
	if err != nil {
		return err
	}

	for _, key := range []string{"Latitude", "Longitude"} {
		if v, ok := current[key]; ok {
			doc[key] = v
		}
	}
	return pr.saveLocked(doc)
}

// Clear empties every value while keeping the document's shape: strings
// become "", numbers nil, lists [] and booleans false.
func (pr *PersonaFileRepository) Clear() error {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	doc, err := pr.loadLocked()
	if err != nil {
		return err
	}
	cleared, _ := clearValue(doc).(map[string]any)
	if cleared == nil {
		cleared = map[string]any{}
	}
	return pr.saveLocked(cleared)
}

func clearValue(v any) any {
	switch value := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(value))
		for k, inner := range value {
			out[k] = clearValue(inner)
		}
		return out
	case []any:
		return []any{}
	case string:
		return ""
	case bool:
		return false
	default:
		return nil
	}
}

// Flatten collapses a nested document into a single-level map for tabular
// export. Nested keys join with underscores and lists serialize as JSON.
func Flatten(doc map[string]any) map[string]string {
	out := map[string]string{}
	flattenInto(out, "", doc)
	return out
}

func flattenInto(out map[string]string, prefix string, doc map[string]any) {
	for key, value := range doc {
		name := key
		if prefix != "" {
			name = prefix + "_" + key
		}
		switch v := value.(type) {
		case map[string]any:
			flattenInto(out, name, v)
		case []any:
			encoded, err := json.Marshal(v)
			if err != nil {
				out[name] = ""
				continue
			}
			out[name] = string(encoded)
		case nil:
			out[name] = ""
		case string:
			out[name] = v
		default:
			out[name] = fmt.Sprintf("%v", v)
		}
	}
}
