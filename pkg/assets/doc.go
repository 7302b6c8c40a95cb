// Package assets resolves logical asset names to fingerprinted paths.
//
// An external build tool (webpack, esbuild, ...) writes a manifest.json into the
// public output directory mapping source names to their hashed outputs:
//
//	{
//	  "calendar.js": "/packs/calendar-1016838bab065ae1e314.js",
//	  "calendar.css": "/packs/calendar-1016838bab065ae1e314.css"
//	}
//
// Builds that emit several parallel variants (a locale, a theme) write one
// manifest per combination, named manifest+<variants>.json.
//
// A Store loads those manifests on demand, caches them per variant set when the
// configuration allows it, and can run the build first when compile-on-demand is
// enabled and no dev server is serving fresh assets:
//
//	store := assets.NewStore(cfg, devserver.New(cfg), compiler.New(cfg))
//
//	path, err := store.LookupOrFail(ctx, "calendar.js")
//	// path == "/packs/calendar-1016838bab065ae1e314.js"
//
//	path, ok, err := store.Lookup(ctx, "calendar.css", "print")
//	// consults manifest+print.json
//
// Templates usually go through a Resolver, which adds the asset host:
//
//	resolver := assets.NewResolver(store, "https://cdn.example.com")
//	src, err := resolver.Asset(ctx, "calendar.js")
package assets
