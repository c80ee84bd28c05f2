package remote

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MemoryScheme selects the in-process store.
const MemoryScheme = "memory://"

// Descriptor holds what is needed to reach a hosted trips collection.
type Descriptor struct {
	APIKey    string `json:"apiKey,omitempty"`
	ProjectID string `json:"projectId,omitempty"`
	URI       string `json:"uri"`
	Database  string `json:"database,omitempty"`
}

// DatabaseName is the configured database, else the project ID.
func (d Descriptor) DatabaseName() string {
	if d.Database != "" {
		return d.Database
	}
	if d.ProjectID != "" {
		return d.ProjectID
	}
	return "wandernest"
}

// IsMemory reports whether the descriptor selects the in-process store.
func (d Descriptor) IsMemory() bool {
	return strings.HasPrefix(d.URI, MemoryScheme)
}

// ParseDescriptor accepts descriptor JSON either bare or pasted as a
// variable assignment such as `const cfg = {...};`. It returns the parsed
// descriptor and the cleaned JSON text.
func ParseDescriptor(raw string) (Descriptor, json.RawMessage, error) {
	clean := strings.TrimSpace(raw)
	if i := strings.Index(clean, "="); i >= 0 && !strings.HasPrefix(clean, "{") {
		clean = strings.TrimSpace(clean[i+1:])
	}
	clean = strings.TrimSpace(strings.TrimSuffix(clean, ";"))
	if clean == "" {
		return Descriptor{}, nil, fmt.Errorf("%w: empty", ErrInvalidDescriptor)
	}

	var d Descriptor
	if err := json.Unmarshal([]byte(clean), &d); err != nil {
		return Descriptor{}, nil, fmt.Errorf("%w: %v", ErrInvalidDescriptor, err)
	}
	if strings.TrimSpace(d.URI) == "" {
		return Descriptor{}, nil, fmt.Errorf("%w: uri is required", ErrInvalidDescriptor)
	}
	return d, json.RawMessage(clean), nil
}
