package assets

import (
	"context"
	"strings"
)

// Resolver provides asset path resolution for templates.
// It combines a store lookup with an asset host or path prefix.
type Resolver interface {
	// Asset resolves a logical asset name to its full URL path.
	//
	// Example:
	//   resolver.Asset(ctx, "calendar.js") → "https://cdn.example.com/packs/calendar-1016838b.js"
	Asset(ctx context.Context, name string, variants ...string) (string, error)
}

// storeResolver wraps a Store to implement Resolver.
type storeResolver struct {
	store  *Store
	prefix string
}

// NewResolver creates a Resolver from a Store with an optional prefix.
//
// The prefix is joined to every resolved path with exactly one slash between
// them. Common prefixes:
//   - "https://cdn.example.com" - an asset host
//   - "" - no prefix (use the manifest path directly)
//
// Resolved values that are already absolute URLs are returned unchanged.
// Missing names are reported as *MissingEntryError rather than guessed.
func NewResolver(store *Store, prefix string) Resolver {
	return &storeResolver{
		store:  store,
		prefix: prefix,
	}
}

func (r *storeResolver) Asset(ctx context.Context, name string, variants ...string) (string, error) {
	path, err := r.store.LookupOrFail(ctx, name, variants...)
	if err != nil {
		return "", err
	}
	return JoinPrefix(r.prefix, path), nil
}

// JoinPrefix joins an asset host or path prefix onto a resolved path.
func JoinPrefix(prefix, path string) string {
	if prefix == "" || strings.Contains(path, "://") || strings.HasPrefix(path, "//") {
		return path
	}
	return strings.TrimRight(prefix, "/") + "/" + strings.TrimLeft(path, "/")
}
