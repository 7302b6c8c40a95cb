package assets

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/packs/internal/errors"
)

func TestManifestLookup(t *testing.T) {
	m := NewManifest(map[string]string{
		"calendar.js":  "/packs/calendar-abc123.js",
		"calendar.css": "/packs/calendar-def456.css",
		"blank.js":     "",
		"spaces.js":    "  \t ",
	})

	tests := []struct {
		name   string
		source string
		want   string
		wantOK bool
	}{
		{"found entry", "calendar.js", "/packs/calendar-abc123.js", true},
		{"found entry css", "calendar.css", "/packs/calendar-def456.css", true},
		{"missing entry", "unknown.js", "", false},
		{"empty value is absent", "blank.js", "", false},
		{"whitespace value is absent", "spaces.js", "", false},
		{"empty name", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := m.Lookup(tt.source)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Lookup(%q) = (%q, %v), want (%q, %v)", tt.source, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParseManifest_NestedEntries(t *testing.T) {
	data := `{
  "calendar.js": {"src": "/packs/calendar-abc123.js", "integrity": "sha384-xyz"},
  "admin.js": {"path": "/packs/admin-999.js"},
  "entrypoints": {"calendar": {"js": ["/packs/calendar-abc123.js"]}},
  "logo.svg": "/packs/media/logo-111.svg"
}`

	m, err := ParseManifest([]byte(data), "manifest.json")
	if err != nil {
		t.Fatalf("ParseManifest() error = %v", err)
	}

	if got, _ := m.Lookup("calendar.js"); got != "/packs/calendar-abc123.js" {
		t.Errorf("Lookup(calendar.js) = %q", got)
	}
	if got, _ := m.Lookup("admin.js"); got != "/packs/admin-999.js" {
		t.Errorf("Lookup(admin.js) = %q", got)
	}
	if got, _ := m.Lookup("logo.svg"); got != "/packs/media/logo-111.svg" {
		t.Errorf("Lookup(logo.svg) = %q", got)
	}
	if m.Has("entrypoints") {
		t.Error("entrypoints has no src and should not resolve")
	}
	if m.Len() != 4 {
		t.Errorf("Len() = %d, want 4", m.Len())
	}
	if m.Source() != "manifest.json" {
		t.Errorf("Source() = %q", m.Source())
	}
}

func TestParseManifest_Invalid(t *testing.T) {
	for _, data := range []string{"not json", `["calendar.js"]`, `{"a": `} {
		_, err := ParseManifest([]byte(data), "manifest.json")
		if !errors.HasCode(err, "E120") {
			t.Errorf("ParseManifest(%q) error = %v, want E120", data, err)
		}
	}
}

func TestParseManifest_Null(t *testing.T) {
	m, err := ParseManifest([]byte("null"), "")
	if err != nil {
		t.Fatalf("ParseManifest(null) error = %v", err)
	}
	if m.Len() != 0 {
		t.Errorf("Len() = %d, want 0", m.Len())
	}
}

func TestManifestAll(t *testing.T) {
	m := NewManifest(map[string]string{"a.js": "a.123.js", "b.js": "b.456.js"})

	all := m.All()
	if len(all) != 2 {
		t.Errorf("All() has %d entries, want 2", len(all))
	}

	// Verify it's a copy (modifying shouldn't affect original)
	all["c.js"] = "c.789.js"
	if m.Has("c.js") {
		t.Error("All() should return a copy, but modification affected original")
	}
}

func TestManifestDump(t *testing.T) {
	m := NewManifest(map[string]string{"b.js": "/packs/b.js", "a.js": "/packs/a.js"})

	want := "{\n  \"a.js\": \"/packs/a.js\",\n  \"b.js\": \"/packs/b.js\"\n}"
	if got := m.Dump(); got != want {
		t.Errorf("Dump() = %q, want %q", got, want)
	}

	if got := NewManifest(nil).Dump(); got != "{}" {
		t.Errorf("empty Dump() = %q, want {}", got)
	}
}

func TestManifestFileName(t *testing.T) {
	tests := []struct {
		variants []string
		want     string
	}{
		{nil, "manifest.json"},
		{[]string{}, "manifest.json"},
		{[]string{"print"}, "manifest+print.json"},
		{[]string{"a", "b"}, "manifest+ab.json"},
		{[]string{"b", "a"}, "manifest+ba.json"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.variants, ","), func(t *testing.T) {
			if got := ManifestFileName(tt.variants...); got != tt.want {
				t.Errorf("ManifestFileName(%v) = %q, want %q", tt.variants, got, tt.want)
			}
		})
	}
}

func TestValidateVariants(t *testing.T) {
	tests := []struct {
		name     string
		variants []string
		wantErr  bool
	}{
		{"none", nil, false},
		{"plain", []string{"print", "dark"}, false},
		{"dotted", []string{"v1.2"}, false},
		{"slash", []string{"a/b"}, true},
		{"backslash", []string{`a\b`}, true},
		{"parent", []string{"/../../../secrets"}, true},
		{"dot dot only", []string{".."}, true},
		{"nul", []string{"a\x00b"}, true},
		{"second variant", []string{"ok", "../x"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateVariants(tt.variants...)
			if tt.wantErr && !errors.HasCode(err, "E122") {
				t.Errorf("ValidateVariants(%q) error = %v, want E122", tt.variants, err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ValidateVariants(%q) error = %v", tt.variants, err)
			}
		})
	}
}

func TestManifestPath(t *testing.T) {
	got := ManifestPath(filepath.Join("public", "packs"), "a", "b")
	want := filepath.Join("public", "packs", "manifest+ab.json")
	if got != want {
		t.Errorf("ManifestPath() = %q, want %q", got, want)
	}
}

func TestVariantKey(t *testing.T) {
	if variantKey([]string{"a", "b"}) != variantKey([]string{"b", "a"}) {
		t.Error("variant keys should not depend on order")
	}
	if variantKey([]string{"ab"}) == variantKey([]string{"a", "b"}) {
		t.Error("[ab] and [a b] must be distinct keys")
	}
	if variantKey(nil) != variantKey([]string{}) {
		t.Error("nil and empty variants should share a key")
	}

	in := []string{"b", "a"}
	variantKey(in)
	if in[0] != "b" {
		t.Error("variantKey must not reorder its input")
	}
}
