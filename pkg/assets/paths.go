package assets

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vango-dev/packs/internal/errors"
)

const (
	manifestBase = "manifest"
	manifestExt  = ".json"
)

// ManifestFileName returns the manifest file name for a variant set.
// Variants are concatenated in order: ["a", "b"] gives "manifest+ab.json".
func ManifestFileName(variants ...string) string {
	if len(variants) == 0 {
		return manifestBase + manifestExt
	}
	return manifestBase + "+" + strings.Join(variants, "") + manifestExt
}

// ManifestPath returns the variant-specific manifest path inside outputDir.
func ManifestPath(outputDir string, variants ...string) string {
	return filepath.Join(outputDir, ManifestFileName(variants...))
}

// ValidateVariants reports an E122 error for any variant that could move the
// manifest path out of the output directory.
func ValidateVariants(variants ...string) error {
	for _, v := range variants {
		if strings.ContainsAny(v, "/\\\x00") || strings.Contains(v, "..") {
			return errors.New("E122").WithDetail(fmt.Sprintf("variant %q", v))
		}
	}
	return nil
}

// variantKey identifies a variant set in the cache. Order does not matter.
func variantKey(variants []string) string {
	if len(variants) == 0 {
		return ""
	}
	sorted := append([]string(nil), variants...)
	sort.Strings(sorted)
	return strings.Join(sorted, "\x1f")
}
