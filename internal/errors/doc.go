// Package errors provides structured, actionable error messages for packs.
//
// Every failure the tool can explain carries a registered code that maps to:
//   - A short message describing the error
//   - A detailed explanation
//   - A documentation URL
//
// # Error Categories
//
//   - config: packs.json is missing, malformed, or names an unknown environment
//   - manifest: a manifest file exists but cannot be read or parsed
//   - compile: the external build command is missing or failed
//   - storage: remote manifest storage (S3) failures
//   - cli: command line usage errors
//
// # Usage
//
//	err := errors.New("E120").
//	    WithDetail("public/packs/manifest.json: unexpected end of JSON input").
//	    WithSuggestion("Re-run the build so it rewrites the manifest")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR E120: Manifest is not valid JSON
//	//
//	//   public/packs/manifest.json: unexpected end of JSON input
//	//
//	//   Hint: Re-run the build so it rewrites the manifest
//	//
//	//   Learn more: https://packs.vango.dev/errors/E120
package errors
