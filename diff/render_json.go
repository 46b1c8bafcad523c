package diff

import (
	"encoding/json"
	"fmt"
	"io"
)

// MarshalJSON keeps "path" an array even when the path is empty.
func (e Entry) MarshalJSON() ([]byte, error) {
	normalized := e
	if normalized.Path == nil {
		normalized.Path = Path{}
	}
	type alias Entry
	return json.Marshal(alias(normalized))
}

// RenderJSON writes entries as one indented JSON array with stable field
// order and non-null slices.
func RenderJSON(out io.Writer, entries []Entry) error {
	data, err := json.MarshalIndent(ensureSlice(entries), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal diff JSON: %w", err)
	}
	data = append(data, '\n')
	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("write diff JSON: %w", err)
	}
	return nil
}

func ensureSlice(entries []Entry) []Entry {
	if entries == nil {
		return []Entry{}
	}
	return entries
}
