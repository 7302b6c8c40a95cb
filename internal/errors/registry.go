package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Configuration Errors (E100-E119)
	// ============================================

	"E100": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "packs.json was not found in the project directory.",
		DocURL:   "https://packs.vango.dev/errors/E100",
	},
	"E101": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "packs.json could not be parsed or contains invalid values.",
		DocURL:   "https://packs.vango.dev/errors/E101",
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Unknown environment",
		Detail:   "The selected environment has no section in packs.json and no default section exists.",
		DocURL:   "https://packs.vango.dev/errors/E102",
	},

	// ============================================
	// Manifest Errors (E120-E139)
	// ============================================

	"E120": {
		Category: CategoryManifest,
		Message:  "Manifest is not valid JSON",
		Detail:   "The manifest file exists but could not be parsed.",
		DocURL:   "https://packs.vango.dev/errors/E120",
	},
	"E121": {
		Category: CategoryManifest,
		Message:  "Manifest could not be read",
		Detail:   "The manifest file exists but reading it failed.",
		DocURL:   "https://packs.vango.dev/errors/E121",
	},
	"E122": {
		Category: CategoryManifest,
		Message:  "Invalid manifest variant",
		Detail:   "Variants name a file inside the output directory and may not contain path separators, \"..\" or NUL.",
		DocURL:   "https://packs.vango.dev/errors/E122",
	},

	// ============================================
	// Compile Errors (E140-E149)
	// ============================================

	"E140": {
		Category: CategoryCompile,
		Message:  "No compile command configured",
		Detail:   "Compile on demand is enabled but compileCommand is empty.",
		DocURL:   "https://packs.vango.dev/errors/E140",
	},
	"E141": {
		Category: CategoryCompile,
		Message:  "Compilation failed",
		Detail:   "The build command exited with an error.",
		DocURL:   "https://packs.vango.dev/errors/E141",
	},
	"E142": {
		Category: CategoryCompile,
		Message:  "Compilation cache error",
		Detail:   "The source digest could not be computed or recorded.",
		DocURL:   "https://packs.vango.dev/errors/E142",
	},

	// ============================================
	// Storage Errors (E150-E159)
	// ============================================

	"E150": {
		Category: CategoryStorage,
		Message:  "Listing remote manifests failed",
		Detail:   "The S3 bucket could not be listed.",
		DocURL:   "https://packs.vango.dev/errors/E150",
	},
	"E151": {
		Category: CategoryStorage,
		Message:  "Downloading remote manifest failed",
		Detail:   "A manifest object could not be fetched from S3.",
		DocURL:   "https://packs.vango.dev/errors/E151",
	},
	"E152": {
		Category: CategoryStorage,
		Message:  "Writing synced manifest failed",
		Detail:   "A downloaded manifest could not be written to the output directory.",
		DocURL:   "https://packs.vango.dev/errors/E152",
	},

	// ============================================
	// CLI Errors (E160-E169)
	// ============================================

	"E160": {
		Category: CategoryCLI,
		Message:  "Invalid command usage",
		DocURL:   "https://packs.vango.dev/errors/E160",
	},
}

// Lookup returns the template registered for code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
