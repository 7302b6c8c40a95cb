package assets

import (
	"errors"
	"fmt"
)

// ErrMissingEntry matches any MissingEntryError via errors.Is.
var ErrMissingEntry = errors.New("asset not found in manifest")

// MissingEntryError reports a logical name the manifest does not resolve.
type MissingEntryError struct {
	// Name is the requested logical asset name.
	Name string

	// Path is the variant-specific manifest path that was consulted.
	Path string

	// Contents is the loaded manifest, pretty-printed.
	Contents string
}

func (e *MissingEntryError) Error() string {
	return fmt.Sprintf(`packs can't find %s in %s. Possible causes:
1. Compile on demand is off for this environment and nothing else is building
   (no watcher and no dev server).
2. The build has not re-run since the asset was added or renamed.
3. publicRootPath or publicOutputPath in packs.json does not match the build output.
4. The build configuration is not emitting a manifest.
Your manifest contains:
%s`, e.Name, e.Path, e.Contents)
}

// Is reports whether target is ErrMissingEntry.
func (e *MissingEntryError) Is(target error) bool {
	return target == ErrMissingEntry
}
