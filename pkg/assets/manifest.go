package assets

import (
	"encoding/json"
	"strings"

	"github.com/vango-dev/packs/internal/errors"
)

// Manifest holds the mapping from logical asset names to fingerprinted paths.
// A Manifest is immutable once built; reloading produces a new one.
// It is safe for concurrent use.
type Manifest struct {
	entries map[string]string
	raw     map[string]json.RawMessage
	source  string
}

// entryObject is the shape of manifest values that carry metadata next to the path.
type entryObject struct {
	Src  string `json:"src"`
	Path string `json:"path"`
}

// NewManifest creates a manifest from explicit entries.
func NewManifest(entries map[string]string) *Manifest {
	m := &Manifest{
		entries: make(map[string]string, len(entries)),
		raw:     make(map[string]json.RawMessage, len(entries)),
	}
	for name, path := range entries {
		m.entries[name] = path
		m.raw[name], _ = json.Marshal(path)
	}
	return m
}

// ParseManifest decodes a manifest document. source names the file it came from
// and may be empty.
//
// Values are either path strings or objects with a "src" (or "path") string;
// other values are kept for diagnostics but never resolve.
func ParseManifest(data []byte, source string) (*Manifest, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.New("E120").WithDetail(source).Wrap(err)
	}
	if raw == nil {
		raw = make(map[string]json.RawMessage)
	}

	entries := make(map[string]string, len(raw))
	for name, value := range raw {
		var path string
		if err := json.Unmarshal(value, &path); err == nil {
			entries[name] = path
			continue
		}
		var obj entryObject
		if err := json.Unmarshal(value, &obj); err == nil {
			if obj.Src != "" {
				entries[name] = obj.Src
			} else {
				entries[name] = obj.Path
			}
		}
	}

	return &Manifest{entries: entries, raw: raw, source: source}, nil
}

// Lookup returns the fingerprinted path for name.
// Names mapped to an empty or whitespace-only path are reported as absent.
func (m *Manifest) Lookup(name string) (string, bool) {
	path := m.entries[name]
	if strings.TrimSpace(path) == "" {
		return "", false
	}
	return path, true
}

// Has returns true if the manifest resolves name.
func (m *Manifest) Has(name string) bool {
	_, ok := m.Lookup(name)
	return ok
}

// Len returns the number of entries in the manifest.
func (m *Manifest) Len() int {
	return len(m.raw)
}

// Source returns the file the manifest was read from, or "" for an empty manifest.
func (m *Manifest) Source() string {
	return m.source
}

// All returns a copy of all resolvable entries.
func (m *Manifest) All() map[string]string {
	result := make(map[string]string, len(m.entries))
	for k, v := range m.entries {
		result[k] = v
	}
	return result
}

// Dump returns the manifest document pretty-printed with two-space indentation.
func (m *Manifest) Dump() string {
	if len(m.raw) == 0 {
		return "{}"
	}
	data, err := json.MarshalIndent(m.raw, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}
