package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// marshalDiagnostics converts a diagnostic list to JSON TEXT for storage.
// HTML escaping is disabled so stored diagnostics read back byte-for-byte
// (CSS selectors routinely contain '>' and '&').
func marshalDiagnostics(diags []string) (string, error) {
	if len(diags) == 0 {
		return "[]", nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(diags); err != nil {
		return "", fmt.Errorf("marshal diagnostics: %w", err)
	}
	// Encoder adds a trailing newline, remove it.
	return strings.TrimSpace(buf.String()), nil
}

// unmarshalDiagnostics parses stored JSON TEXT back into a diagnostic
// list. An empty array comes back as nil, matching pipeline results.
func unmarshalDiagnostics(data string) ([]string, error) {
	if data == "" || data == "[]" {
		return nil, nil
	}
	var diags []string
	if err := json.Unmarshal([]byte(data), &diags); err != nil {
		return nil, fmt.Errorf("unmarshal diagnostics: %w", err)
	}
	return diags, nil
}
